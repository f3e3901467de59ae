package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/okian/novhub/internal/domain/model"
	"github.com/okian/novhub/pkg/logger"
	"github.com/okian/novhub/pkg/metrics"
)

// Identifiable is implemented by every record kept in a Collection.
type Identifiable interface {
	RecordID() string
}

// Option applies a configuration option to a Collection or typed repository.
type Option func(*options)

type options struct {
	logger logger.Logger
}

// WithLogger sets the logger used for malformed-data warnings.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Collection is an ordered, most-recent-first list of records stored as a
// JSON array under one key. Lookups are linear scans.
type Collection[T Identifiable] struct {
	store  KeyValueStore
	key    string
	logger logger.Logger
}

// NewCollection binds a collection to key in store.
func NewCollection[T Identifiable](store KeyValueStore, key string, opts ...Option) *Collection[T] {
	o := buildOptions(opts)
	return &Collection[T]{store: store, key: key, logger: o.logger}
}

// Key returns the storage key.
func (c *Collection[T]) Key() string { return c.key }

// decode never fails: absent, empty, null and malformed values all decode to
// an empty list. Malformed data is logged and counted.
func (c *Collection[T]) decode(ctx context.Context, raw string, exists bool) []T {
	if !exists || raw == "" {
		return []T{}
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		metrics.RecordMalformedRecord(c.key)
		c.logger.Warn(ctx, "malformed collection treated as empty",
			logger.String("key", c.key),
			logger.Error(fmt.Errorf("%w: %w", ErrMalformed, err)),
		)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

func (c *Collection[T]) encode(items []T) (string, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", c.key, err)
	}
	return string(raw), nil
}

// LoadAll returns every record, newest first.
func (c *Collection[T]) LoadAll(ctx context.Context) ([]T, error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, err
	}
	return c.decode(ctx, raw, ok), nil
}

// Len returns the number of records.
func (c *Collection[T]) Len(ctx context.Context) (int, error) {
	items, err := c.LoadAll(ctx)
	return len(items), err
}

// Prepend inserts rec at index 0, keeping the order of everything else.
func (c *Collection[T]) Prepend(ctx context.Context, rec T) error {
	return c.store.Update(ctx, c.key, func(cur string, ok bool) (string, error) {
		items := c.decode(ctx, cur, ok)
		return c.encode(append([]T{rec}, items...))
	})
}

// SaveAll overwrites the whole collection.
func (c *Collection[T]) SaveAll(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := c.encode(items)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.key, raw)
}

// FindByID returns the index and record with the given id, or -1 and
// model.ErrNotFound. Ids are assumed unique; the first match wins.
func (c *Collection[T]) FindByID(ctx context.Context, id string) (int, T, error) {
	var zero T
	items, err := c.LoadAll(ctx)
	if err != nil {
		return -1, zero, err
	}
	if i := indexOf(items, id); i >= 0 {
		return i, items[i], nil
	}
	return -1, zero, fmt.Errorf("%w: %s %q", model.ErrNotFound, c.key, id)
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	_, rec, err := c.FindByID(ctx, id)
	return rec, err
}

// UpdateByID atomically applies mutate to the record with the given id and
// persists the whole list. If the id is unknown nothing is written and
// model.ErrNotFound is returned. If mutate fails nothing is written and its
// error is returned together with the unmodified record.
func (c *Collection[T]) UpdateByID(ctx context.Context, id string, mutate func(*T) error) (T, error) {
	var result T
	err := c.store.Update(ctx, c.key, func(cur string, ok bool) (string, error) {
		items := c.decode(ctx, cur, ok)
		i := indexOf(items, id)
		if i < 0 {
			return "", fmt.Errorf("%w: %s %q", model.ErrNotFound, c.key, id)
		}
		rec := items[i]
		if err := mutate(&rec); err != nil {
			result = items[i]
			return "", err
		}
		items[i] = rec
		result = rec
		return c.encode(items)
	})
	return result, err
}

func indexOf[T Identifiable](items []T, id string) int {
	for i := range items {
		if items[i].RecordID() == id {
			return i
		}
	}
	return -1
}
