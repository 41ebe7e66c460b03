// Package memory provides an in-process Store. It backs tests and the CLI's
// "memory" driver, and can be told to fail so callers can exercise the
// storage-failure paths.
package memory

import (
	"context"
	"sync"

	"github.com/xraph/lendbook"
	"github.com/xraph/lendbook/store"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

// Store keeps blobs in a map guarded by a mutex.
type Store struct {
	mu     sync.RWMutex
	blobs  map[string][]byte
	closed bool

	getErr error
	setErr error

	gets int
	sets int
}

// New returns an empty memory store.
func New() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

// Seed stores value under key without counting it as a Set call.
func (s *Store) Seed(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = clone(value)
}

// FailGets makes every following Get return err. Pass nil to recover.
func (s *Store) FailGets(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getErr = err
}

// FailSets makes every following Set return err. Pass nil to recover.
func (s *Store) FailSets(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErr = err
}

// Gets reports how many Get calls reached the store.
func (s *Store) Gets() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gets
}

// Sets reports how many Set calls reached the store, failed ones included.
func (s *Store) Sets() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sets
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gets++
	if s.closed {
		return nil, lendbook.ErrStoreClosed
	}
	if s.getErr != nil {
		return nil, s.getErr
	}

	v, ok := s.blobs[key]
	if !ok {
		return nil, lendbook.ErrKeyNotFound
	}
	return clone(v), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sets++
	if s.closed {
		return lendbook.ErrStoreClosed
	}
	if s.setErr != nil {
		return s.setErr
	}

	s.blobs[key] = clone(value)
	return nil
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping reports ErrStoreClosed after Close.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return lendbook.ErrStoreClosed
	}
	return nil
}

// Close marks the store closed. Stored blobs are kept.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
