// Package memory provides an in-process LRU cache store.
package memory

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type Store struct {
	lru *lru.Cache[string, []byte]
}

func New(size int) (*Store, error) {
	if size <= 0 {
		size = 64
	}
	c, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("lru init: %w", err)
	}
	return &Store{lru: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.lru.Get(key)
	return v, ok, nil
}

// Set ignores ttl; entries live until evicted by the LRU policy or the
// process exits.
func (s *Store) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	s.lru.Add(key, val)
	return nil
}

func (s *Store) Close() error {
	s.lru.Purge()
	return nil
}
