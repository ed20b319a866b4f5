package contacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	contactsFileName = "contacts.json"
	schemaVersion    = 1
)

type filePayload struct {
	Version  int       `json:"version"`
	Contacts []Contact `json:"contacts"`
}

// FileRepository persists the address book as a single JSON file, replaced
// wholesale on every write.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileRepository builds a repository rooted at dir.
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{path: filepath.Join(dir, contactsFileName)}
}

// List returns the full address book in stored order.
func (r *FileRepository) List(_ context.Context) ([]Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

// Add assigns a fresh id and timestamps, appends and persists.
func (r *FileRepository) Add(_ context.Context, input AddInput) (Contact, error) {
	contact, err := newContact(input)
	if err != nil {
		return Contact{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.read()
	if err != nil {
		return Contact{}, err
	}
	all = append(all, contact)
	if err := r.write(all); err != nil {
		return Contact{}, err
	}
	return contact, nil
}

// Update merges the given fields over the stored record and refreshes
// updatedAt. Unknown ids return nil with nothing written.
func (r *FileRepository) Update(_ context.Context, id string, input UpdateInput) (*Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.read()
	if err != nil {
		return nil, err
	}
	for i, c := range all {
		if c.ID != id {
			continue
		}
		all[i] = input.apply(c, time.Now().UTC())
		if err := r.write(all); err != nil {
			return nil, err
		}
		updated := all[i]
		return &updated, nil
	}
	return nil, nil
}

// Delete removes the matching record and reports whether anything was removed.
func (r *FileRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.read()
	if err != nil {
		return false, err
	}
	for i, c := range all {
		if c.ID == id {
			all = append(all[:i], all[i+1:]...)
			if err := r.write(all); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// FindByAddress returns the first contact whose address matches exactly.
func (r *FileRepository) FindByAddress(_ context.Context, address string) (*Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.read()
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if c.Address == address {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (r *FileRepository) read() ([]Contact, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Contact{}, nil
		}
		return nil, fmt.Errorf("read contacts file: %w", err)
	}

	var p filePayload
	if err := json.Unmarshal(data, &p); err != nil || p.Version != schemaVersion {
		// Corrupt or stale-schema data degrades to an empty book.
		return []Contact{}, nil
	}
	if p.Contacts == nil {
		return []Contact{}, nil
	}
	return p.Contacts, nil
}

func (r *FileRepository) write(all []Contact) error {
	data, err := json.Marshal(filePayload{Version: schemaVersion, Contacts: all})
	if err != nil {
		return fmt.Errorf("encode contacts: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		return fmt.Errorf("write contacts file: %w", err)
	}
	return nil
}
