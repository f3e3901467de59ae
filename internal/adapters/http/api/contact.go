package api

import (
	"net/http"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// handleContact handles POST /api/contact.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	const op = "api.contact"
	var req contactRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	m, err := s.deps.Contact(r.Context(), req.Name, req.Email, req.Message)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, m)
}

// handleListMessages handles GET /api/admin/messages.
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.deps.ListMessages(r.Context())
	if err != nil {
		s.fail(w, r, Wrap("api.list_messages", err))
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}
