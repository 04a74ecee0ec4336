package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// EventCollectionUpdated is published with {"collection": key} after each save
const EventCollectionUpdated = "collection.updated"

// Blobs bundles what every settings-backed repository needs
type Blobs struct {
	store    SettingsStore
	log      zerolog.Logger
	notifier Notifier
}

// NewBlobs wires a settings store to a logger and an optional notifier
func NewBlobs(store SettingsStore, log zerolog.Logger, notifier Notifier) *Blobs {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Blobs{
		store:    store,
		log:      log.With().Str("component", "blobs").Logger(),
		notifier: notifier,
	}
}

// Store exposes the underlying settings store
func (b *Blobs) Store() SettingsStore {
	return b.store
}

// load decodes the blob under key into dst. found is false when no row
// exists; transport and decode failures are returned.
func (b *Blobs) load(ctx context.Context, key string, dst interface{}) (found bool, err error) {
	raw, err := b.store.Read(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (b *Blobs) warn(err error, key string) {
	b.log.Warn().Err(err).Str("key", key).Msg("settings read failed, serving defaults")
}

// write stores v under key. Consoles are told about the change only once
// the surrounding transaction, if any, has committed.
func (b *Blobs) write(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := b.store.Write(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	AfterCommit(ctx, func() {
		b.notifier.Publish(EventCollectionUpdated, map[string]interface{}{"collection": key})
	})
	return nil
}

// Collection is a JSON array stored whole under one settings key.
// Every save replaces the stored array; the last writer wins.
type Collection[T any] struct {
	blobs    *Blobs
	key      string
	fallback func() []T
}

// NewCollection binds a collection to key
func NewCollection[T any](blobs *Blobs, key string) *Collection[T] {
	return &Collection[T]{blobs: blobs, key: key}
}

// WithFallback sets the list served when the record is missing or unreadable
func (c *Collection[T]) WithFallback(fn func() []T) *Collection[T] {
	c.fallback = fn
	return c
}

func (c *Collection[T]) Key() string {
	return c.key
}

func (c *Collection[T]) empty() []T {
	if c.fallback != nil {
		return c.fallback()
	}
	return []T{}
}

// Get returns the stored list for display. It never fails: a missing or
// unreadable record yields the fallback, or an empty non-nil slice.
func (c *Collection[T]) Get(ctx context.Context) []T {
	items, err := c.Load(ctx)
	if err != nil {
		c.blobs.warn(err, c.key)
		return c.empty()
	}
	return items
}

// Load is the read behind a mutation. A missing record yields the fallback;
// an unreadable one is an error, so nothing is saved over data that could
// not be seen.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	var items []T
	found, err := c.blobs.load(ctx, c.key, &items)
	if err != nil {
		return nil, err
	}
	if !found {
		return c.empty(), nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save replaces the stored list with items
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.blobs.write(ctx, c.key, items)
}

// Registry is a JSON object keyed by id, stored whole under one settings key
type Registry[V any] struct {
	blobs *Blobs
	key   string
}

func NewRegistry[V any](blobs *Blobs, key string) *Registry[V] {
	return &Registry[V]{blobs: blobs, key: key}
}

func (r *Registry[V]) Key() string {
	return r.key
}

// Get returns the stored map, or an empty non-nil map on any read failure
func (r *Registry[V]) Get(ctx context.Context) map[string]V {
	m, err := r.Load(ctx)
	if err != nil {
		r.blobs.warn(err, r.key)
		return map[string]V{}
	}
	return m
}

// Load returns the stored map, empty when missing, or the read error
func (r *Registry[V]) Load(ctx context.Context) (map[string]V, error) {
	var m map[string]V
	if _, err := r.blobs.load(ctx, r.key, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]V{}
	}
	return m, nil
}

func (r *Registry[V]) Save(ctx context.Context, m map[string]V) error {
	if m == nil {
		m = map[string]V{}
	}
	return r.blobs.write(ctx, r.key, m)
}

// Document is a single JSON object stored under one settings key
type Document[T any] struct {
	blobs *Blobs
	key   string
}

func NewDocument[T any](blobs *Blobs, key string) *Document[T] {
	return &Document[T]{blobs: blobs, key: key}
}

// Get returns the stored value; found is false when it is missing or unreadable
func (d *Document[T]) Get(ctx context.Context) (value T, found bool) {
	found, err := d.blobs.load(ctx, d.key, &value)
	if err != nil {
		d.blobs.warn(err, d.key)
	}
	if !found || err != nil {
		var zero T
		return zero, false
	}
	return value, true
}

func (d *Document[T]) Save(ctx context.Context, value T) error {
	return d.blobs.write(ctx, d.key, value)
}
