package static

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// newSite lays out a small site in a temp dir and returns a handler for
// its "web" subdirectory plus the parent directory.
func newSite(t *testing.T) (*Handler, string) {
	t.Helper()

	parent := t.TempDir()
	root := filepath.Join(parent, "web")

	files := map[string][]byte{
		"web/index.html":    []byte("<h1>students</h1>"),
		"web/css/style.css": []byte("body{}"),
		"web/js/app.js":     []byte("console.log(1)"),
		"web/img/logo":      pngHeader,
		"web/data.bin":      {0x00, 0x01, 0x02, 0x03},
		"secret.txt":        []byte("top secret"),
	}
	for name, content := range files {
		p := filepath.Join(parent, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, content, 0o644))
	}

	h, err := New(root)
	require.NoError(t, err)
	return h, parent
}

func get(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestServeFiles(t *testing.T) {
	h, _ := newSite(t)

	tests := []struct {
		name     string
		path     string
		wantType string
		wantBody string
	}{
		{"root is index", "/", "text/html; charset=utf-8", "<h1>students</h1>"},
		{"index by name", "/index.html", "text/html; charset=utf-8", "<h1>students</h1>"},
		{"css", "/css/style.css", "text/css; charset=utf-8", "body{}"},
		{"js", "/js/app.js", "application/javascript", "console.log(1)"},
		{"sniffed png", "/img/logo", "image/png", string(pngHeader)},
		{"unknown binary", "/data.bin", "application/octet-stream", "\x00\x01\x02\x03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(h, http.MethodGet, tt.path)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantType, rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestHeadHasNoBody(t *testing.T) {
	h, _ := newSite(t)

	rec := get(h, http.MethodHead, "/index.html")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "17", rec.Header().Get("Content-Length"))
	assert.Empty(t, rec.Body.String())
}

func TestErrors(t *testing.T) {
	h, _ := newSite(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"traversal", http.MethodGet, "/../secret.txt", http.StatusForbidden},
		{"deep traversal", http.MethodGet, "/css/../../secret.txt", http.StatusForbidden},
		{"missing file", http.MethodGet, "/nope.html", http.StatusNotFound},
		{"directory", http.MethodGet, "/css", http.StatusNotFound},
		{"post", http.MethodPost, "/index.html", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(h, tt.method, tt.path)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotContains(t, rec.Body.String(), "top secret")
		})
	}
}

func TestSymlinkOutsideRootIsForbidden(t *testing.T) {
	h, parent := newSite(t)

	link := filepath.Join(h.Root(), "leak.txt")
	if err := os.Symlink(filepath.Join(parent, "secret.txt"), link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	rec := get(h, http.MethodGet, "/leak.txt")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "top secret")
}

func TestMissingRoot(t *testing.T) {
	h, err := New(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, get(h, http.MethodGet, "/").Code)
}
