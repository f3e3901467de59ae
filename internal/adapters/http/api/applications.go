package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/okian/novhub/internal/domain/model"
)

// handleSubmitApplication handles POST /api/applications.
// A client-supplied status is ignored: the input type has no such field.
func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_application"
	var in model.ApplicationInput
	if err := decodeJSON(w, r, op, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
	app, err := s.deps.SubmitApplication(r.Context(), in, key)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

// handleListApplications handles GET /api/admin/applications.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.deps.ListApplications(r.Context())
	if err != nil {
		s.fail(w, r, Wrap("api.list_applications", err))
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// handleReview handles POST /api/admin/applications/{id}/{decision}.
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	const op = "api.review_application"
	res, err := s.deps.ReviewApplication(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "decision"))
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
