package api

import (
	"net/http"

	"github.com/okian/novhub/internal/domain/model"
)

// handleBookMentor handles POST /api/bookings/mentor.
func (s *Server) handleBookMentor(w http.ResponseWriter, r *http.Request) {
	const op = "api.book_mentor"
	var in model.MentorBookingInput
	if err := decodeJSON(w, r, op, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	b, err := s.deps.BookMentor(r.Context(), in)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// handleBookStay handles POST /api/bookings/stay.
func (s *Server) handleBookStay(w http.ResponseWriter, r *http.Request) {
	const op = "api.book_stay"
	var in model.StayBookingInput
	if err := decodeJSON(w, r, op, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	b, err := s.deps.BookStay(r.Context(), in)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// handleListBookings handles GET /api/admin/bookings.
func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.deps.ListBookings(r.Context())
	if err != nil {
		s.fail(w, r, Wrap("api.list_bookings", err))
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}
