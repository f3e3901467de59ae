package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/novhub/internal/domain/upload"
)

type uploadRequest struct {
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
}

type uploadResponse struct {
	ID string `json:"id"`
	upload.Snapshot
}

// handleStartUpload handles POST /api/uploads.
func (s *Server) handleStartUpload(w http.ResponseWriter, r *http.Request) {
	const op = "api.start_upload"
	var req uploadRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	id, snap, err := s.deps.StartUpload(r.Context(), req.FileName, req.Size)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, uploadResponse{ID: id, Snapshot: snap})
}

// handleUploadStatus handles GET /api/uploads/{id}.
func (s *Server) handleUploadStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.deps.UploadStatus(r.Context(), id)
	if err != nil {
		s.fail(w, r, Wrap("api.upload_status", err))
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{ID: id, Snapshot: snap})
}

// handleCancelUpload handles DELETE /api/uploads/{id}.
func (s *Server) handleCancelUpload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.deps.CancelUpload(r.Context(), id)
	if err != nil {
		s.fail(w, r, Wrap("api.cancel_upload", err))
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{ID: id, Snapshot: snap})
}
