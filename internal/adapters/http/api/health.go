package api

import (
	"net/http"
)

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSystemStats handles GET /api/admin/system.
func (s *Server) handleSystemStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.GetStats(r.Context())
	if err != nil {
		s.fail(w, r, Wrap("api.system_stats", err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
