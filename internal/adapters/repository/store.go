// Package repository implements the persisted-state model: a string
// key-value store with several backends, an ordered record collection on top
// of it, and one typed repository per entity.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/novhub/pkg/metrics"
)

// UpdateFunc computes the next value of a key from its current one.
// Returning an error aborts the update without writing; the error is passed
// back to the caller unchanged.
type UpdateFunc func(current string, exists bool) (string, error)

// KeyValueStore is the persistence substrate. Values are opaque strings.
type KeyValueStore interface {
	// Get returns the value under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set overwrites key.
	Set(ctx context.Context, key, value string) error

	// Update performs an atomic read-modify-write of key. Concurrent
	// Updates of the same key never lose each other's writes.
	// fn may run more than once and must not call back into the store.
	Update(ctx context.Context, key string, fn UpdateFunc) error

	// Close releases backend resources.
	Close() error
}

// observe records latency and failure metrics for one store call and wraps
// backend errors as ErrStorage.
func observe(op string, start time.Time, err error) error {
	metrics.RecordStoreOperation(op, float64(time.Since(start).Microseconds())/1000)
	if err == nil {
		return nil
	}
	if inner, ok := unwrapAbort(err); ok {
		return inner
	}
	metrics.RecordStoreError(op)
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
