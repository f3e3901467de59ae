package model

import (
	"fmt"
	"time"
)

// BookingKind tags the variant carried by a Booking.
type BookingKind string

const (
	KindMentor BookingKind = "mentor"
	KindStay   BookingKind = "stay"
)

// BookingStatus is the state a booking was created in. Bookings are write-once.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingRequested BookingStatus = "requested"
)

// MentorSession is the mentor-booking variant.
type MentorSession struct {
	MentorID string `json:"mentor"`
	Slot     string `json:"slot"`
}

// StayRequest is the stay-booking variant.
type StayRequest struct {
	Plan  string `json:"type"`
	Start string `json:"start"`
	Weeks int    `json:"weeks"`
}

// Booking is a mentor session or a stay request. Exactly one of Mentor and
// Stay is set, matching Kind.
type Booking struct {
	ID        string         `json:"id"`
	Kind      BookingKind    `json:"kind"`
	Email     string         `json:"email"`
	Status    BookingStatus  `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	Mentor    *MentorSession `json:"mentorSession,omitempty"`
	Stay      *StayRequest   `json:"stay,omitempty"`
}

// RecordID implements repository.Identifiable.
func (b Booking) RecordID() string { return b.ID }

// Validate checks that the variant matches the tag.
func (b Booking) Validate() error {
	switch b.Kind {
	case KindMentor:
		if b.Mentor == nil || b.Stay != nil {
			return fmt.Errorf("%w: mentor booking must carry only a mentor session", ErrValidation)
		}
	case KindStay:
		if b.Stay == nil || b.Mentor != nil {
			return fmt.Errorf("%w: stay booking must carry only a stay request", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown booking kind %q", ErrValidation, b.Kind)
	}
	return nil
}

// MentorBookingInput is the form payload for a mentor booking.
type MentorBookingInput struct {
	MentorID string `json:"mentor"`
	Email    string `json:"email"`
	Slot     string `json:"slot"`
}

// StayBookingInput is the form payload for a stay booking. Weeks is optional.
type StayBookingInput struct {
	Plan  string `json:"type"`
	Email string `json:"email"`
	Start string `json:"start"`
	Weeks *int   `json:"weeks,omitempty"`
}
