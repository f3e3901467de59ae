// Package site serves the embedded single-page front end.
package site

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Error constants
var (
	ErrServe = errors.New("site serve failed")
)

// Register attaches the front end to r at /. Paths that do not name an
// embedded file and carry no extension fall back to index.html so client
// side routes survive a reload.
func Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.Handle("/*", NewRootHandler())
}

// RootHandler serves embedded assets with an index.html fallback.
type RootHandler struct {
	files http.Handler
	fsys  fs.FS
}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return &RootHandler{files: http.FileServer(FS()), fsys: subFS()}
}

func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name != "" {
		if _, err := fs.Stat(h.fsys, name); err != nil {
			if path.Ext(name) != "" {
				http.NotFound(w, r)
				return
			}
			r2 := r.Clone(r.Context())
			r2.URL.Path = "/"
			h.files.ServeHTTP(w, r2)
			return
		}
	}
	h.files.ServeHTTP(w, r)
}
