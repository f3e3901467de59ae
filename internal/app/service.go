// Package service implements the operations behind the HTTP API: the
// application and booking lifecycles, the demo session, the admin gate and
// the display counters, all persisted through one KeyValueStore.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/novhub/internal/adapters/mq/queue"
	"github.com/okian/novhub/internal/adapters/mq/worker"
	"github.com/okian/novhub/internal/adapters/repository"
	"github.com/okian/novhub/internal/domain/catalog"
	"github.com/okian/novhub/internal/domain/dedupe"
	"github.com/okian/novhub/internal/domain/model"
	"github.com/okian/novhub/internal/domain/scoring"
	"github.com/okian/novhub/internal/domain/upload"
	"github.com/okian/novhub/pkg/logger"
	"github.com/okian/novhub/pkg/metrics"
)

const defaultPasscode = "novadmin123"

// Clock supplies createdAt/reviewedAt timestamps.
type Clock func() time.Time

// IDGenerator supplies opaque unique record ids.
type IDGenerator func() string

// Service implements the API dependencies for the incubator site.
type Service struct {
	mu sync.Mutex

	store    repository.KeyValueStore
	apps     *repository.ApplicationRepository
	bookings *repository.BookingRepository
	messages *repository.MessageRepository
	sessions *repository.SessionRepository
	stats    *repository.StatsRepository

	tracker  dedupe.Tracker
	outbox   *queue.InMemoryQueue
	pool     *worker.Pool
	notifier worker.Notifier
	scorer   *scoring.Scorer
	uploader *upload.Simulator
	uploads  *upload.Registry

	// Configuration
	passcode       string
	dedupeSize     int
	queueSize      int
	workerCount    int
	uploadMaxBytes int64
	uploadInterval time.Duration

	now   Clock
	newID IDGenerator

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.now = c
		}
	}
}

// WithIDGenerator replaces the uuid-based id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Service) {
		if g != nil {
			s.newID = g
		}
	}
}

// WithAdminPasscode sets the shared admin secret.
func WithAdminPasscode(p string) Option {
	return func(s *Service) {
		if p != "" {
			s.passcode = p
		}
	}
}

// WithDedupeSize bounds the idempotency-key tracker.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithQueueSize bounds the notification outbox.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of notification workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithNotifier sets where notifications are delivered. Defaults to the log.
func WithNotifier(n worker.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithUploadLimits sets the simulated upload size limit and step interval.
func WithUploadLimits(maxBytes int64, interval time.Duration) Option {
	return func(s *Service) {
		if maxBytes > 0 {
			s.uploadMaxBytes = maxBytes
		}
		if interval > 0 {
			s.uploadInterval = interval
		}
	}
}

// New constructs a Service over store.
func New(store repository.KeyValueStore, opts ...Option) *Service {
	s := &Service{
		store:          store,
		passcode:       defaultPasscode,
		dedupeSize:     10_000,
		queueSize:      1024,
		workerCount:    2,
		uploadMaxBytes: 5 << 20,
		uploadInterval: 60 * time.Millisecond,
		now:            func() time.Time { return time.Now().UTC() },
		newID:          uuid.NewString,
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	repoOpts := []repository.Option{repository.WithLogger(s.logger.Named("repository"))}
	s.apps = repository.NewApplicationRepository(store, repoOpts...)
	s.bookings = repository.NewBookingRepository(store, repoOpts...)
	s.messages = repository.NewMessageRepository(store, repoOpts...)
	s.sessions = repository.NewSessionRepository(store, repoOpts...)
	s.stats = repository.NewStatsRepository(store, repoOpts...)

	s.tracker = dedupe.NewInMemoryTracker(dedupe.WithMaxSize(s.dedupeSize))
	s.outbox = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	if s.notifier == nil {
		s.notifier = worker.NewLogNotifier(s.logger.Named("notifier"))
	}
	s.pool = worker.NewPool(s.outbox, s.notifier,
		worker.WithWorkerCount(s.workerCount),
		worker.WithPoolLogger(s.logger.Named("worker-pool")),
	)
	s.scorer = scoring.New()
	s.uploader = upload.NewSimulator(
		upload.WithMaxBytes(s.uploadMaxBytes),
		upload.WithInterval(s.uploadInterval),
	)
	s.uploads = upload.NewRegistry()
	return s
}

// Start launches the notification workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.pool.Start(ctx)
	s.started = true
	s.logger.Info(ctx, "service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop drains the notification outbox and stops the workers. The store is
// owned by the caller and stays open.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false
	if err := s.pool.Shutdown(ctx); err != nil {
		return fmt.Errorf("stop workers: %w", err)
	}
	s.logger.Info(ctx, "service stopped")
	return nil
}

// Catalog returns the static site content.
func (s *Service) Catalog() catalog.Catalog {
	return catalog.Get()
}

// notify queues n for delivery. A full or closed outbox drops n; the
// originating operation has already succeeded and is not failed.
func (s *Service) notify(ctx context.Context, kind model.NotificationKind, recipient, subject, body string) {
	if recipient == "" {
		return
	}
	n := model.Notification{
		ID:        s.newID(),
		Kind:      kind,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		CreatedAt: s.now(),
	}
	if err := s.outbox.Enqueue(ctx, n); err != nil {
		s.logger.Warn(ctx, "notification dropped",
			logger.String("kind", string(kind)),
			logger.Error(err),
		)
	}
}

// GetStats returns service statistics for monitoring and refreshes the
// gauges derived from persisted state.
func (s *Service) GetStats(ctx context.Context) (map[string]any, error) {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	apps, err := s.apps.Len(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.Len(ctx)
	if err != nil {
		return nil, err
	}
	queueLen := s.outbox.Len()
	active := s.uploads.Active()

	metrics.UpdateApplicationsTotal(apps)
	metrics.UpdateBookingsTotal(bookings)
	metrics.UpdateUploadsActive(active)

	return map[string]any{
		"started":       started,
		"workerCount":   s.pool.Size(),
		"queueLength":   queueLen,
		"dedupeEntries": s.tracker.Size(),
		"applications":  apps,
		"bookings":      bookings,
		"activeUploads": active,
	}, nil
}
