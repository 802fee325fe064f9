package query

import (
	"context"
	"sync"
	"time"
)

// Entry is a stored query result together with the time it was fetched.
type Entry[T any] struct {
	Data      T         `json:"data"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Store persists entries between fetches.
type Store[T any] interface {
	Get(ctx context.Context, key Key) (Entry[T], bool, error)
	Set(ctx context.Context, key Key, entry Entry[T]) error
	Delete(ctx context.Context, key Key) error
}

// MemoryStore is an in-process Store.
type MemoryStore[T any] struct {
	mu      sync.RWMutex
	entries map[Key]Entry[T]
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{entries: make(map[Key]Entry[T])}
}

func (s *MemoryStore[T]) Get(_ context.Context, key Key) (Entry[T], bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok, nil
}

func (s *MemoryStore[T]) Set(_ context.Context, key Key, entry Entry[T]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
	return nil
}

func (s *MemoryStore[T]) Delete(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Len returns the number of stored entries.
func (s *MemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
