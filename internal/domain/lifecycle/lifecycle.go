// Package lifecycle holds the creation rules and state transitions of
// applications and bookings. Functions here are pure: time and ids are
// supplied by the caller.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/novhub/internal/domain/model"
)

// DefaultStayWeeks is used when a stay request omits its duration.
const DefaultStayWeeks = 4

const stayDateLayout = "2006-01-02"

// NewApplication builds a pending application from applicant input.
// Field contents are not validated beyond trimming.
func NewApplication(in model.ApplicationInput, id string, now time.Time) model.Application {
	app := model.Application{
		ID:        id,
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Program:   strings.TrimSpace(in.Program),
		Summary:   strings.TrimSpace(in.Summary),
		Status:    model.StatusPending,
		CreatedAt: now,
	}
	if name := strings.TrimSpace(in.ResumeName); name != "" {
		app.ResumeName = &name
	}
	return app
}

// Decide applies an admin decision to app.
//
// From pending it sets the terminal status and stamps ReviewedAt and reports
// true. On an already reviewed application it changes nothing and returns
// model.ErrAlreadyReviewed, so ReviewedAt is never stamped twice.
func Decide(app *model.Application, d model.Decision, now time.Time) (bool, error) {
	d, err := model.ParseDecision(string(d))
	if err != nil {
		return false, err
	}
	if app.Status != model.StatusPending {
		return false, fmt.Errorf("%w: %s is %s", model.ErrAlreadyReviewed, app.ID, app.Status)
	}
	reviewed := now
	app.Status = d.Status()
	app.ReviewedAt = &reviewed
	return true, nil
}

// MentorLookup reports whether a mentor id exists.
type MentorLookup func(id string) bool

// NewMentorBooking validates a mentor booking request and builds a pending booking.
func NewMentorBooking(in model.MentorBookingInput, mentorExists MentorLookup, id string, now time.Time) (model.Booking, error) {
	email := strings.TrimSpace(in.Email)
	slot := strings.TrimSpace(in.Slot)
	mentorID := strings.TrimSpace(in.MentorID)
	if email == "" || slot == "" {
		return model.Booking{}, fmt.Errorf("%w: email and slot are required", model.ErrValidation)
	}
	if mentorID == "" || (mentorExists != nil && !mentorExists(mentorID)) {
		return model.Booking{}, fmt.Errorf("%w: unknown mentor %q", model.ErrValidation, mentorID)
	}
	return model.Booking{
		ID:        id,
		Kind:      model.KindMentor,
		Email:     email,
		Status:    model.BookingPending,
		CreatedAt: now,
		Mentor:    &model.MentorSession{MentorID: mentorID, Slot: slot},
	}, nil
}

// NewStayBooking validates a stay request and builds a requested booking.
func NewStayBooking(in model.StayBookingInput, id string, now time.Time) (model.Booking, error) {
	email := strings.TrimSpace(in.Email)
	start := strings.TrimSpace(in.Start)
	if email == "" || start == "" {
		return model.Booking{}, fmt.Errorf("%w: email and start date are required", model.ErrValidation)
	}
	if _, err := time.Parse(stayDateLayout, start); err != nil {
		return model.Booking{}, fmt.Errorf("%w: start must be YYYY-MM-DD", model.ErrValidation)
	}
	weeks := DefaultStayWeeks
	if in.Weeks != nil {
		weeks = *in.Weeks
	}
	if weeks < 1 {
		return model.Booking{}, fmt.Errorf("%w: weeks must be at least 1", model.ErrValidation)
	}
	return model.Booking{
		ID:        id,
		Kind:      model.KindStay,
		Email:     email,
		Status:    model.BookingRequested,
		CreatedAt: now,
		Stay:      &model.StayRequest{Plan: strings.TrimSpace(in.Plan), Start: start, Weeks: weeks},
	}, nil
}
