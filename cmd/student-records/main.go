// main is the entry point of the student-records application.
//
// STARTUP SEQUENCE:
//  1. Load configuration (YAML file and/or environment)
//  2. Initialise the logger
//  3. Create the student store (memory or sqlite)
//  4. Build the route table, static file server and middleware chain
//  5. Start the HTTP server (and, optionally, the console) in goroutines
//  6. Block until an OS signal arrives or the console exits
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/student-records --config=config/local.yaml
//
// or, with no file at all:
//
//	HTTP_SERVER_ADDR=localhost:8080 STATIC_ROOT=web go run ./cmd/student-records
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/console"
	"github.com/aanand-mishra/student-records/internal/http/handlers/student"
	"github.com/aanand-mishra/student-records/internal/http/middleware"
	"github.com/aanand-mishra/student-records/internal/http/router"
	"github.com/aanand-mishra/student-records/internal/http/static"
	"github.com/aanand-mishra/student-records/internal/service"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/memory"
	"github.com/aanand-mishra/student-records/internal/storage/sqlite"
)

const version = "1.0.0"

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// The logger is also installed as the slog default, which is what
	// the handlers log through.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting student-records",
		slog.String("env", cfg.Env),
		slog.String("version", version),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	store, closeStore, err := newStorage(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	log.Info("storage initialised",
		slog.String("driver", cfg.Storage.Driver))

	// A single service instance is shared by HTTP and the console, so
	// both see the same records.
	svc := service.New(store)

	// ── 4. Build the HTTP handler ─────────────────────────────────────────
	handler, err := newHandler(cfg, svc, log)
	if err != nil {
		log.Error("failed to build http handler",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: handler,

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 5. Start Server (and Console) ─────────────────────────────────────
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ListenAndServe returns http.ErrServerClosed when Shutdown() is
		// called. That's expected — we don't log it as an error.
		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// consoleDone is nil unless the console runs; receiving from a nil
	// channel blocks forever, so the select below ignores it.
	var consoleDone chan struct{}
	if cfg.Console {
		consoleDone = make(chan struct{})
		go func() {
			defer close(consoleDone)
			if err := console.New(svc, os.Stdin, os.Stdout).Run(); err != nil {
				log.Error("console stopped", slog.String("error", err.Error()))
			}
		}()
	}

	// ── 6. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		log.Info("shutdown signal received, stopping server...")
	case <-consoleDone:
		log.Info("console closed, stopping server...")
	}

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		return
	}

	log.Info("server stopped gracefully")
}

// newStorage creates the backend named by cfg.Storage.Driver. The returned
// func releases it.
func newStorage(cfg *config.Config) (storage.Storage, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		db, err := sqlite.New(cfg)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	case config.DriverMemory, "":
		return memory.New(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// newHandler wires the route table, the static fallback and the
// middleware chain.
//
// Route table:
//
//	GET    /students        → list all students
//	POST   /students        → create a student
//	GET    /students/{id}   → get one student
//	DELETE /students/{id}   → delete a student
//	*      anything else    → static files from cfg.StaticRoot
func newHandler(cfg *config.Config, svc *service.Students, log *slog.Logger) (http.Handler, error) {
	files, err := static.New(cfg.StaticRoot)
	if err != nil {
		return nil, fmt.Errorf("static root %q: %w", cfg.StaticRoot, err)
	}
	log.Info("serving static files", slog.String("root", files.Root()))

	r := router.New(student.Routes(svc), files)

	return middleware.Chain(r,
		middleware.RequestID,
		middleware.Logger(log),
		middleware.Recoverer(log),
	), nil
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
//
// Logs go to stderr so they do not interleave with the console menu on
// stdout.
func setupLogger(env string) *slog.Logger {
	return newLogger(env, os.Stderr)
}

func newLogger(env string, w io.Writer) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
