package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/novhub/internal/domain/catalog"
	"github.com/okian/novhub/internal/domain/lifecycle"
	"github.com/okian/novhub/internal/domain/model"
	"github.com/okian/novhub/pkg/logger"
	"github.com/okian/novhub/pkg/metrics"
)

// BookMentor creates a pending mentor booking. Missing email or slot, or an
// unknown mentor, yields model.ErrValidation and writes nothing.
func (s *Service) BookMentor(ctx context.Context, in model.MentorBookingInput) (model.Booking, error) {
	b, err := lifecycle.NewMentorBooking(in, catalog.MentorExists, s.newID(), s.now())
	if err != nil {
		return model.Booking{}, s.rejectBooking(ctx, "book_mentor", err)
	}
	if err := s.saveBooking(ctx, b); err != nil {
		return model.Booking{}, err
	}

	name := b.Mentor.MentorID
	if m, ok := catalog.FindMentor(b.Mentor.MentorID); ok {
		name = m.Name
	}
	s.notify(ctx, model.NotifyBookingReceived, b.Email,
		"Mentor session requested",
		fmt.Sprintf("Your session with %s at %s is pending confirmation.", name, b.Mentor.Slot))
	return b, nil
}

// BookStay creates a requested stay booking. Missing email or start yields
// model.ErrValidation and writes nothing.
func (s *Service) BookStay(ctx context.Context, in model.StayBookingInput) (model.Booking, error) {
	b, err := lifecycle.NewStayBooking(in, s.newID(), s.now())
	if err != nil {
		return model.Booking{}, s.rejectBooking(ctx, "book_stay", err)
	}
	if err := s.saveBooking(ctx, b); err != nil {
		return model.Booking{}, err
	}

	s.notify(ctx, model.NotifyBookingReceived, b.Email,
		"Stay requested",
		fmt.Sprintf("We received your %s stay request from %s for %d weeks.", b.Stay.Plan, b.Stay.Start, b.Stay.Weeks))
	return b, nil
}

// ListBookings returns every booking, newest first.
func (s *Service) ListBookings(ctx context.Context) ([]model.Booking, error) {
	return s.bookings.LoadAll(ctx)
}

func (s *Service) rejectBooking(ctx context.Context, op string, err error) error {
	if errors.Is(err, model.ErrValidation) {
		metrics.RecordValidationFailure(op)
		s.logger.Debug(ctx, "booking rejected", logger.String("op", op), logger.Error(err))
	}
	return err
}

func (s *Service) saveBooking(ctx context.Context, b model.Booking) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := s.bookings.Prepend(ctx, b); err != nil {
		return err
	}
	metrics.RecordBookingCreated(string(b.Kind))
	s.logger.Info(ctx, "booking created",
		logger.String("id", b.ID),
		logger.String("kind", string(b.Kind)),
	)
	return nil
}
