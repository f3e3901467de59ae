package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/novhub/internal/domain/model"
	"github.com/okian/novhub/pkg/logger"
	"github.com/okian/novhub/pkg/metrics"
)

const (
	defaultPoolSize     = 2
	poolShutdownTimeout = 30 * time.Second
)

// Source is where workers read notifications from.
type Source interface {
	Dequeue() <-chan model.Notification
}

// Worker delivers notifications from a Source until it is drained or the
// context ends.
type Worker struct {
	source   Source
	notifier Notifier
	name     string
	logger   logger.Logger

	done chan struct{}
}

// New creates a worker with configuration options.
func New(source Source, notifier Notifier, opts ...Option) *Worker {
	w := &Worker{
		source:   source,
		notifier: notifier,
		name:     "worker",
		logger:   logger.Nop(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run processes notifications until the source channel closes or ctx is
// canceled.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	items := w.source.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-items:
			if !ok {
				return
			}
			if err := w.process(ctx, n); err != nil {
				w.logger.Error(ctx, "notification failed", logger.Error(err))
			}
		}
	}
}

// Done is closed when Run returns.
func (w *Worker) Done() <-chan struct{} { return w.done }

func (w *Worker) process(ctx context.Context, n model.Notification) error {
	start := time.Now()
	err := w.notifier.Notify(ctx, n)
	metrics.RecordDispatchLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		metrics.RecordNotificationError()
		return fmt.Errorf("deliver %s %s: %w", n.Kind, n.ID, err)
	}
	metrics.RecordNotificationSent(string(n.Kind))
	return nil
}

// Pool runs a fixed set of workers over one source.
type Pool struct {
	workers []*Worker
	source  Source
	size    int
	logger  logger.Logger
	cancel  context.CancelFunc
}

// NewPool creates a pool delivering to notifier.
func NewPool(source Source, notifier Notifier, opts ...PoolOption) *Pool {
	p := &Pool{
		source: source,
		size:   defaultPoolSize,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.workers = make([]*Worker, p.size)
	for i := range p.workers {
		p.workers[i] = New(source, notifier,
			WithName("worker-"+strconv.Itoa(i)),
			WithLogger(p.logger),
		)
	}
	metrics.UpdateWorkerCount(p.size)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start launches every worker. Canceling ctx does not stop them: workers
// run until Shutdown closes and drains the source, so pending notifications
// survive a canceled caller.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(context.WithoutCancel(ctx))
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the source if it can be closed, then waits for workers to
// drain it. Workers still busy when ctx ends are canceled.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.source.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	waitCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var err error
	for i, w := range p.workers {
		select {
		case <-w.Done():
		case <-waitCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			err = fmt.Errorf("shutdown timed out: %w", waitCtx.Err())
		}
	}
	if p.cancel != nil {
		p.cancel()
	}
	metrics.UpdateWorkerCount(0)
	return err
}
