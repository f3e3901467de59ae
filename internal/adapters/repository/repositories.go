package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/novhub/internal/domain/model"
	"github.com/okian/novhub/pkg/logger"
	"github.com/okian/novhub/pkg/metrics"
)

// Storage keys.
const (
	KeyApplications = "apps"
	KeyBookings     = "bookings"
	KeyMessages     = "messages"
	KeyUser         = "user"
)

// ApplicationRepository persists applications under "apps".
type ApplicationRepository struct {
	*Collection[model.Application]
}

// NewApplicationRepository returns the application repository over store.
func NewApplicationRepository(store KeyValueStore, opts ...Option) *ApplicationRepository {
	return &ApplicationRepository{Collection: NewCollection[model.Application](store, KeyApplications, opts...)}
}

// BookingRepository persists bookings under "bookings".
type BookingRepository struct {
	*Collection[model.Booking]
}

// NewBookingRepository returns the booking repository over store.
func NewBookingRepository(store KeyValueStore, opts ...Option) *BookingRepository {
	return &BookingRepository{Collection: NewCollection[model.Booking](store, KeyBookings, opts...)}
}

// ByEmail returns the bookings made with email, newest first.
func (r *BookingRepository) ByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	all, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Booking, 0, len(all))
	for _, b := range all {
		if strings.EqualFold(b.Email, email) {
			out = append(out, b)
		}
	}
	return out, nil
}

// MessageRepository persists contact messages under "messages".
type MessageRepository struct {
	*Collection[model.ContactMessage]
}

// NewMessageRepository returns the message repository over store.
func NewMessageRepository(store KeyValueStore, opts ...Option) *MessageRepository {
	return &MessageRepository{Collection: NewCollection[model.ContactMessage](store, KeyMessages, opts...)}
}

// SessionRepository keeps the single demo session under "user".
type SessionRepository struct {
	store  KeyValueStore
	logger logger.Logger
}

// NewSessionRepository returns the session repository over store.
func NewSessionRepository(store KeyValueStore, opts ...Option) *SessionRepository {
	o := buildOptions(opts)
	return &SessionRepository{store: store, logger: o.logger}
}

// Save replaces the current session.
func (r *SessionRepository) Save(ctx context.Context, u model.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return r.store.Set(ctx, KeyUser, string(raw))
}

// Current returns the signed-in user. ok is false when nobody is signed in
// or the stored value cannot be decoded.
func (r *SessionRepository) Current(ctx context.Context) (model.User, bool, error) {
	raw, exists, err := r.store.Get(ctx, KeyUser)
	if err != nil || !exists || raw == "" || raw == "null" {
		return model.User{}, false, err
	}
	var u model.User
	err = json.Unmarshal([]byte(raw), &u)
	if err == nil && u.Email == "" {
		err = errors.New("missing email")
	}
	if err != nil {
		metrics.RecordMalformedRecord(KeyUser)
		r.logger.Warn(ctx, "malformed session treated as signed out",
			logger.Error(fmt.Errorf("%w: %w", ErrMalformed, err)))
		return model.User{}, false, nil
	}
	return u, true, nil
}

// StatsRepository keeps the advisory display counters under "stat_*".
type StatsRepository struct {
	store  KeyValueStore
	logger logger.Logger
}

// NewStatsRepository returns the stats repository over store.
func NewStatsRepository(store KeyValueStore, opts ...Option) *StatsRepository {
	o := buildOptions(opts)
	return &StatsRepository{store: store, logger: o.logger}
}

func (r *StatsRepository) parse(ctx context.Context, name model.StatName, raw string, exists bool) int {
	if !exists || raw == "" {
		return name.Default()
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		metrics.RecordMalformedRecord(name.Key())
		r.logger.Warn(ctx, "malformed counter reset to default",
			logger.String("key", name.Key()),
			logger.Error(fmt.Errorf("%w: %w", ErrMalformed, err)),
		)
		return name.Default()
	}
	return n
}

// Get returns the counter value, or its default if it was never written.
func (r *StatsRepository) Get(ctx context.Context, name model.StatName) (int, error) {
	raw, exists, err := r.store.Get(ctx, name.Key())
	if err != nil {
		return 0, err
	}
	return r.parse(ctx, name, raw, exists), nil
}

// Increment atomically adds delta to the counter and returns the new value.
func (r *StatsRepository) Increment(ctx context.Context, name model.StatName, delta int) (int, error) {
	var next int
	err := r.store.Update(ctx, name.Key(), func(cur string, exists bool) (string, error) {
		next = r.parse(ctx, name, cur, exists) + delta
		return strconv.Itoa(next), nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// All returns every counter keyed by name.
func (r *StatsRepository) All(ctx context.Context) (map[model.StatName]int, error) {
	out := make(map[model.StatName]int, len(model.StatNames))
	for _, name := range model.StatNames {
		v, err := r.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}
