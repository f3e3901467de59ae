package api

import (
	"net/http"

	"github.com/okian/novhub/internal/domain/model"
)

type loginRequest struct {
	Email string `json:"email"`
}

type unlockRequest struct {
	Passcode string `json:"passcode"`
}

// handleLogin handles POST /api/session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	const op = "api.login"
	var req loginRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	u, err := s.deps.Login(r.Context(), req.Email)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// handleCurrentUser handles GET /api/session.
func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	const op = "api.current_user"
	u, ok, err := s.deps.CurrentUser(r.Context())
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	if !ok {
		s.fail(w, r, WrapKind(op, model.ErrNotFound, errNoSession))
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// handleDashboard handles GET /api/dashboard.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.deps.Dashboard(r.Context())
	if err != nil {
		s.fail(w, r, Wrap("api.dashboard", err))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleAdminUnlock handles POST /api/admin/unlock. The passcode is read
// from the X-Admin-Passcode header, or from the body when the header is absent.
func (s *Server) handleAdminUnlock(w http.ResponseWriter, r *http.Request) {
	const op = "api.admin_unlock"
	passcode := r.Header.Get(adminHeader)
	if passcode == "" {
		var req unlockRequest
		if err := decodeJSON(w, r, op, &req); err != nil {
			s.fail(w, r, err)
			return
		}
		passcode = req.Passcode
	}
	if err := s.deps.UnlockAdmin(r.Context(), passcode); err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"unlocked": true})
}
