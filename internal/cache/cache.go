// Package cache stores raw context-layer payloads keyed by category and extent.
package cache

import (
	"context"
	"time"
)

type Store interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Close() error
}

type tiered struct {
	mem  Store
	back Store
}

// Tiered layers a memory store in front of a backing store. Reads promote
// backing hits into memory; writes go to both.
func Tiered(mem, back Store) Store {
	return &tiered{mem: mem, back: back}
}

func (t *tiered) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok, err := t.mem.Get(ctx, key); err == nil && ok {
		return v, true, nil
	}
	v, ok, err := t.back.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = t.mem.Set(ctx, key, v, 0)
	return v, true, nil
}

func (t *tiered) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	_ = t.mem.Set(ctx, key, val, ttl)
	return t.back.Set(ctx, key, val, ttl)
}

func (t *tiered) Close() error {
	_ = t.mem.Close()
	return t.back.Close()
}
