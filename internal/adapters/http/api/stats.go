package api

import (
	"net/http"
)

// handleCatalog handles GET /api/catalog.
func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Catalog())
}

// handleStats handles GET /api/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.Stats(r.Context())
	if err != nil {
		s.fail(w, r, Wrap("api.stats", err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
