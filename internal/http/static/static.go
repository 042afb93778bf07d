// Package static serves the web front-end: every file under a root
// directory, for every path the API does not claim.
//
// Requests can never escape the root. The target path is resolved
// (including symlinks) and rejected with 403 when it lands outside.
package static

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// IndexFile is served for "/".
const IndexFile = "index.html"

// mimeTypes covers the files the front-end ships with. Anything else is
// sniffed from its content.
var mimeTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "application/javascript",
	".json": "application/json",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".txt":  "text/plain; charset=utf-8",
}

// Handler serves files from Root.
type Handler struct {
	root string // absolute, symlinks resolved when possible
}

// New returns a Handler for root. root does not have to exist yet; until
// it does every request is a 404.
func New(root string) (*Handler, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return &Handler{root: abs}, nil
}

// Root returns the absolute directory being served.
func (h *Handler) Root() string { return h.root }

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not supported", http.StatusMethodNotAllowed)
		return
	}

	urlPath := r.URL.Path
	if urlPath == "" || urlPath == "/" {
		urlPath = "/" + IndexFile
	}

	// Join cleans the path, so "/../x" collapses to a sibling of root
	// and fails the containment check below.
	target := filepath.Join(h.root, filepath.FromSlash(urlPath))
	if !h.contains(target) {
		http.Error(w, "access denied", http.StatusForbidden)
		return
	}

	// Resolve symlinks and check again: a link inside root may point
	// anywhere.
	resolved, err := filepath.EvalSymlinks(target)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "file not found", http.StatusNotFound)
			return
		}
		h.internalError(w, r, err)
		return
	}
	if !h.contains(resolved) {
		http.Error(w, "access denied", http.StatusForbidden)
		return
	}

	info, err := os.Stat(resolved)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if info.IsDir() {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	content, err := os.ReadFile(resolved)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType(resolved, content))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	w.Write(content)
}

// contains reports whether p is h.root or lies beneath it.
func (h *Handler) contains(p string) bool {
	rel, err := filepath.Rel(h.root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("error serving static file",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))
	http.Error(w, "internal error: "+err.Error(), http.StatusInternalServerError)
}

// contentType looks the extension up in mimeTypes and falls back to
// sniffing the content (application/octet-stream when nothing matches).
func contentType(name string, content []byte) string {
	if ct, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return mimetype.Detect(content).String()
}
