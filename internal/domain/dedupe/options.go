package dedupe

import "time"

// Option applies a configuration option to the in-memory tracker.
type Option func(*inMemoryTracker)

// WithMaxSize bounds the number of remembered keys. When full, the oldest
// claim is forgotten first. A value <= 0 disables the bound.
func WithMaxSize(maxSize int) Option {
	return func(t *inMemoryTracker) {
		t.maxSize = maxSize
	}
}

// WithTTL forgets a claim after ttl. A value <= 0 keeps claims until evicted.
func WithTTL(ttl time.Duration) Option {
	return func(t *inMemoryTracker) {
		t.ttl = ttl
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *inMemoryTracker) {
		if now != nil {
			t.now = now
		}
	}
}
