// Package dedupe tracks idempotency keys so that a re-sent form submission
// is not stored twice.
package dedupe

import (
	"container/list"
	"context"
	"sync"
	"time"
)

const (
	defaultMaxSize = 10_000
	defaultTTL     = 24 * time.Hour
)

// Tracker records idempotency keys.
type Tracker interface {
	// Claim records key and reports whether it had already been claimed.
	Claim(ctx context.Context, key string) bool

	// Release forgets key so the submission can be retried. Used when the
	// operation guarded by a claim fails.
	Release(ctx context.Context, key string)

	// Size returns the number of live claims.
	Size() int
}

type claim struct {
	key string
	at  time.Time
}

// inMemoryTracker keeps claims in insertion order; the front is the newest.
type inMemoryTracker struct {
	mu      sync.Mutex
	byKey   map[string]*list.Element
	order   *list.List
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

// NewInMemoryTracker creates a bounded, expiring tracker.
func NewInMemoryTracker(opts ...Option) Tracker {
	t := &inMemoryTracker{
		maxSize: defaultMaxSize,
		ttl:     defaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.byKey = make(map[string]*list.Element)
	t.order = list.New()
	return t
}

func (t *inMemoryTracker) Claim(_ context.Context, key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.expire(now)

	if _, ok := t.byKey[key]; ok {
		return true
	}
	if t.maxSize > 0 {
		for t.order.Len() >= t.maxSize {
			t.remove(t.order.Back())
		}
	}
	t.byKey[key] = t.order.PushFront(claim{key: key, at: now})
	return false
}

func (t *inMemoryTracker) Release(_ context.Context, key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if el, ok := t.byKey[key]; ok {
		t.remove(el)
	}
}

func (t *inMemoryTracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expire(t.now())
	return t.order.Len()
}

// expire drops claims older than ttl. Must be called with t.mu held.
func (t *inMemoryTracker) expire(now time.Time) {
	if t.ttl <= 0 {
		return
	}
	for el := t.order.Back(); el != nil; el = t.order.Back() {
		if now.Sub(el.Value.(claim).at) < t.ttl {
			return
		}
		t.remove(el)
	}
}

// remove must be called with t.mu held.
func (t *inMemoryTracker) remove(el *list.Element) {
	if el == nil {
		return
	}
	delete(t.byKey, el.Value.(claim).key)
	t.order.Remove(el)
}
