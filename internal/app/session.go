package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/okian/novhub/internal/domain/model"
	"github.com/okian/novhub/internal/domain/scoring"
	"github.com/okian/novhub/internal/domain/types"
	"github.com/okian/novhub/pkg/logger"
	"github.com/okian/novhub/pkg/metrics"
)

// Login signs in as email with no credential check, replacing any previous
// session. An empty email yields model.ErrValidation.
func (s *Service) Login(ctx context.Context, email string) (model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.User{}, fmt.Errorf("%w: email is required", model.ErrValidation)
	}
	u := model.UserFromEmail(email)
	if err := s.sessions.Save(ctx, u); err != nil {
		return model.User{}, err
	}
	metrics.RecordLogin()
	s.logger.Info(ctx, "user signed in", logger.String("email", u.Email))
	return u, nil
}

// CurrentUser returns the signed-in user, if any.
func (s *Service) CurrentUser(ctx context.Context) (model.User, bool, error) {
	return s.sessions.Current(ctx)
}

// Dashboard returns the signed-in user's applications and bookings. Without
// a session it yields model.ErrUnauthorized.
func (s *Service) Dashboard(ctx context.Context) (types.Dashboard, error) {
	u, ok, err := s.sessions.Current(ctx)
	if err != nil {
		return types.Dashboard{}, err
	}
	if !ok {
		return types.Dashboard{}, fmt.Errorf("%w: sign in to view the dashboard", model.ErrUnauthorized)
	}

	all, err := s.apps.LoadAll(ctx)
	if err != nil {
		return types.Dashboard{}, err
	}
	apps := make([]model.Application, 0, len(all))
	for _, a := range all {
		if strings.EqualFold(a.Email, u.Email) {
			apps = append(apps, a)
		}
	}
	bookings, err := s.bookings.ByEmail(ctx, u.Email)
	if err != nil {
		return types.Dashboard{}, err
	}

	return types.Dashboard{
		User:          u,
		Applications:  apps,
		Bookings:      bookings,
		SandboxPoints: s.scorer.Score(scoring.Input{Applications: len(apps), Bookings: len(bookings)}),
	}, nil
}

// UnlockAdmin checks passcode against the shared admin secret in constant
// time. A mismatch yields model.ErrUnauthorized.
func (s *Service) UnlockAdmin(ctx context.Context, passcode string) error {
	ok := subtle.ConstantTimeCompare([]byte(passcode), []byte(s.passcode)) == 1
	metrics.RecordAdminUnlock(ok)
	if !ok {
		s.logger.Warn(ctx, "admin unlock denied")
		return fmt.Errorf("%w: wrong admin passcode", model.ErrUnauthorized)
	}
	return nil
}

// Stats returns the display counters.
func (s *Service) Stats(ctx context.Context) (types.Stats, error) {
	all, err := s.stats.All(ctx)
	if err != nil {
		return types.Stats{}, err
	}
	return types.Stats{
		Students: all[model.StatStudents],
		Startups: all[model.StatStartups],
		Mentors:  all[model.StatMentors],
	}, nil
}

// Contact stores a contact-form message and queues an acknowledgement.
// Email and message are required.
func (s *Service) Contact(ctx context.Context, name, email, message string) (model.ContactMessage, error) {
	m := model.ContactMessage{
		ID:        s.newID(),
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Message:   strings.TrimSpace(message),
		CreatedAt: s.now(),
	}
	if m.Email == "" || m.Message == "" {
		metrics.RecordValidationFailure("contact")
		return model.ContactMessage{}, fmt.Errorf("%w: email and message are required", model.ErrValidation)
	}
	if err := s.messages.Prepend(ctx, m); err != nil {
		return model.ContactMessage{}, err
	}
	s.notify(ctx, model.NotifyContactAcknowledged, m.Email,
		"Thanks for reaching out",
		"We received your message and will reply soon.")
	return m, nil
}

// ListMessages returns every contact message, newest first.
func (s *Service) ListMessages(ctx context.Context) ([]model.ContactMessage, error) {
	return s.messages.LoadAll(ctx)
}
