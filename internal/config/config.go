// Package config handles loading and parsing application configuration.
// It supports two sources for the config file path (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// The file is optional. Without one, every setting is read from its
// environment variable or falls back to its env-default, so
//
//	HTTP_SERVER_ADDR=:9090 STATIC_ROOT=./public student-records
//
// works with no YAML at all.
package config

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// Storage drivers accepted by Storage.Driver.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev" validate:"oneof=dev staging prod"`

	// StaticRoot is the directory served for every path that is not an
	// API route. "/" maps to StaticRoot/index.html.
	StaticRoot string `yaml:"static_root" env:"STATIC_ROOT" env-default:"web" validate:"required"`

	// Console starts the interactive text menu on stdin next to the HTTP
	// server. Both share the same store.
	Console bool `yaml:"console" env:"CONSOLE_ENABLED" env-default:"false"`

	// HTTPServer is embedded so its fields are promoted: cfg.Addr.
	HTTPServer `yaml:"http_server"`

	Storage Storage `yaml:"storage"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8080".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8080" validate:"required"`
}

// Storage selects the student store backend.
type Storage struct {
	// Driver is "memory" (default) or "sqlite".
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory" validate:"oneof=memory sqlite"`

	// Path is the SQLite DSN. Only used by the sqlite driver.
	Path string `yaml:"path" env:"STORAGE_PATH" env-default:":memory:"`
}

// Load reads the config file at path (or only the environment when path
// is empty), applies defaults and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		// Give a clear message rather than a cryptic "open: no such file".
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read config from env: %w", err)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// MustLoad resolves the config path from CONFIG_PATH or --config, loads
// it, and exits the process if anything is wrong. If this returns, the
// config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}
