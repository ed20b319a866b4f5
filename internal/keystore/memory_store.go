package keystore

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu  sync.Mutex
	rec *Record
}

// NewMemoryStore constructs an in-memory store for tests.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (s *memoryStore) Load(_ context.Context) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return nil, nil
	}
	rec := *s.rec
	return &rec, nil
}

func (s *memoryStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = &rec
	return nil
}

func (s *memoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = nil
	return nil
}

func (s *memoryStore) MarkFunded(_ context.Context, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil || s.rec.PublicAddress != address {
		return nil
	}
	s.rec.Funded = true
	return nil
}
