package contacts

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu      sync.Mutex
	storage []Contact
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) List(_ context.Context) ([]Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Contact{}, r.storage...), nil
}

func (r *memoryRepository) Add(_ context.Context, input AddInput) (Contact, error) {
	contact, err := newContact(input)
	if err != nil {
		return Contact{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage = append(r.storage, contact)
	return contact, nil
}

func (r *memoryRepository) Update(_ context.Context, id string, input UpdateInput) (*Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.storage {
		if c.ID == id {
			r.storage[i] = input.apply(c, time.Now().UTC())
			updated := r.storage[i]
			return &updated, nil
		}
	}
	return nil, nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.storage {
		if c.ID == id {
			r.storage = append(r.storage[:i], r.storage[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepository) FindByAddress(_ context.Context, address string) (*Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.storage {
		if c.Address == address {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}
