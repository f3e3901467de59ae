// Package upload simulates a resume upload as a cancellable, stepped task.
// No file content is ever stored; only the file name survives, on the
// application record.
package upload

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/novhub/internal/domain/model"
)

const (
	defaultMaxBytes = 5 * 1024 * 1024
	defaultStep     = 10
	defaultInterval = 60 * time.Millisecond
)

// State is the phase of a Task.
type State string

const (
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateCanceled  State = "canceled"
)

// ProgressFunc receives each progress step, 0..100.
type ProgressFunc func(percent int)

// Option applies a configuration option to the Simulator.
type Option func(*Simulator)

// WithMaxBytes sets the largest accepted file size.
func WithMaxBytes(n int64) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// WithStep sets the percentage advanced per tick.
func WithStep(step int) Option {
	return func(s *Simulator) {
		if step > 0 && step <= 100 {
			s.step = step
		}
	}
}

// WithInterval sets the delay between ticks.
func WithInterval(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.interval = d
		}
	}
}

// Simulator starts upload tasks.
type Simulator struct {
	maxBytes int64
	step     int
	interval time.Duration
}

// NewSimulator creates a simulator: 5 MiB limit, 10% every 60ms.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{maxBytes: defaultMaxBytes, step: defaultStep, interval: defaultInterval}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxBytes returns the configured size limit.
func (s *Simulator) MaxBytes() int64 { return s.maxBytes }

// Start validates the file and begins a task. The task runs until it
// completes, Cancel is called, or ctx is done.
func (s *Simulator) Start(ctx context.Context, name string, size int64, onProgress ProgressFunc) (*Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: file name is required", model.ErrValidation)
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: negative file size", model.ErrValidation)
	}
	if size > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", model.ErrTooLarge, size, s.maxBytes)
	}

	runCtx, cancel := context.WithCancel(ctx)
	t := &Task{
		name:      name,
		size:      size,
		state:     StateRunning,
		startedAt: time.Now(),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go t.run(runCtx, s.step, s.interval, onProgress)
	return t, nil
}

// Task is one simulated upload.
type Task struct {
	name      string
	size      int64
	startedAt time.Time

	mu      sync.RWMutex
	percent int
	state   State

	cancel context.CancelFunc
	done   chan struct{}
}

// Snapshot is a point-in-time view of a Task.
type Snapshot struct {
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
	Percent  int    `json:"percent"`
	State    State  `json:"state"`
}

func (t *Task) run(ctx context.Context, step int, interval time.Duration, onProgress ProgressFunc) {
	defer close(t.done)
	defer t.cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for p := 0; ; p += step {
		p = min(p, 100)
		t.mu.Lock()
		t.percent = p
		t.mu.Unlock()
		if onProgress != nil {
			onProgress(p)
		}
		if p == 100 {
			t.finish(StateCompleted)
			return
		}
		select {
		case <-ctx.Done():
			t.finish(StateCanceled)
			return
		case <-ticker.C:
		}
	}
}

func (t *Task) finish(s State) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}

// Cancel stops a running task. It is a no-op once the task has finished.
func (t *Task) Cancel() { t.cancel() }

// Done is closed when the task stops for any reason.
func (t *Task) Done() <-chan struct{} { return t.done }

// FileName returns the uploaded file's name.
func (t *Task) FileName() string { return t.name }

// StartedAt returns when the task began.
func (t *Task) StartedAt() time.Time { return t.startedAt }

// Snapshot returns the task's current progress.
func (t *Task) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Snapshot{FileName: t.name, Size: t.size, Percent: t.percent, State: t.state}
}
