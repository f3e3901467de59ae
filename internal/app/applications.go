package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/novhub/internal/domain/lifecycle"
	"github.com/okian/novhub/internal/domain/model"
	"github.com/okian/novhub/internal/domain/types"
	"github.com/okian/novhub/pkg/logger"
	"github.com/okian/novhub/pkg/metrics"
)

// SubmitApplication creates a pending application, persists it first in the
// list and bumps the students counter. A non-empty idempotencyKey that was
// already used yields model.ErrDuplicate and writes nothing.
func (s *Service) SubmitApplication(ctx context.Context, in model.ApplicationInput, idempotencyKey string) (model.Application, error) {
	if idempotencyKey != "" && s.tracker.Claim(ctx, idempotencyKey) {
		metrics.RecordDuplicateSubmission()
		return model.Application{}, fmt.Errorf("%w: idempotency key %q", model.ErrDuplicate, idempotencyKey)
	}

	app := lifecycle.NewApplication(in, s.newID(), s.now())
	if err := s.apps.Prepend(ctx, app); err != nil {
		if idempotencyKey != "" {
			s.tracker.Release(ctx, idempotencyKey)
		}
		return model.Application{}, err
	}
	metrics.RecordApplicationSubmitted()

	// The counter is advisory; the application is already stored.
	if _, err := s.stats.Increment(ctx, model.StatStudents, 1); err != nil {
		s.logger.Error(ctx, "students counter not incremented",
			logger.String("applicationID", app.ID),
			logger.Error(err),
		)
	}

	s.notify(ctx, model.NotifyApplicationReceived, app.Email,
		"Application received",
		fmt.Sprintf("Hi %s, we received your application to %s.", app.Name, app.Program))
	s.logger.Info(ctx, "application submitted",
		logger.String("id", app.ID),
		logger.String("program", app.Program),
	)
	return app, nil
}

// ReviewApplication applies an admin decision. An unknown id yields
// model.ErrNotFound and changes nothing. Deciding an already reviewed
// application is a no-op: the stored record is returned with Changed false
// and a warning.
func (s *Service) ReviewApplication(ctx context.Context, id, decision string) (types.ReviewResult, error) {
	d, err := model.ParseDecision(decision)
	if err != nil {
		return types.ReviewResult{}, err
	}

	app, err := s.apps.UpdateByID(ctx, id, func(a *model.Application) error {
		_, err := lifecycle.Decide(a, d, s.now())
		return err
	})
	switch {
	case errors.Is(err, model.ErrAlreadyReviewed):
		metrics.RecordReviewRepeated()
		s.logger.Warn(ctx, "application already reviewed; decision ignored",
			logger.String("id", id),
			logger.String("status", string(app.Status)),
			logger.String("decision", string(d)),
		)
		return types.ReviewResult{
			Application: app,
			Changed:     false,
			Warning:     fmt.Sprintf("application already %s", app.Status),
		}, nil
	case err != nil:
		return types.ReviewResult{}, err
	}

	metrics.RecordApplicationReviewed(string(app.Status))
	s.notify(ctx, model.NotifyApplicationReviewed, app.Email,
		"Application "+string(app.Status),
		fmt.Sprintf("Hi %s, your application has been %s.", app.Name, app.Status))
	s.logger.Info(ctx, "application reviewed",
		logger.String("id", app.ID),
		logger.String("status", string(app.Status)),
	)
	return types.ReviewResult{Application: app, Changed: true}, nil
}

// ListApplications returns every application, newest first.
func (s *Service) ListApplications(ctx context.Context) ([]model.Application, error) {
	return s.apps.LoadAll(ctx)
}

// GetApplication returns one application.
func (s *Service) GetApplication(ctx context.Context, id string) (model.Application, error) {
	return s.apps.Get(ctx, id)
}
