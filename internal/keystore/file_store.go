package keystore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const walletFileName = "wallet.json"

// FileStore persists the wallet record as a JSON file in the data directory,
// replaced wholesale on every save.
type FileStore struct {
	path   string
	sealer *Sealer
}

// NewFileStore builds a store rooted at dir. The sealer may be nil.
func NewFileStore(dir string, sealer *Sealer) *FileStore {
	return &FileStore{path: filepath.Join(dir, walletFileName), sealer: sealer}
}

// Load reads the persisted record, returning nil when the file is missing or
// undecodable.
func (s *FileStore) Load(_ context.Context) (*Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read wallet file: %w", err)
	}
	return decodeRecord(data, s.sealer), nil
}

// Save overwrites the persisted record unconditionally.
func (s *FileStore) Save(_ context.Context, rec Record) error {
	data, err := encodeRecord(rec, s.sealer)
	if err != nil {
		return fmt.Errorf("encode wallet: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write wallet file: %w", err)
	}
	return nil
}

// Clear removes the persisted record. Removing an absent record is not an error.
func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove wallet file: %w", err)
	}
	return nil
}

// MarkFunded flips the funded flag when the stored record matches the given
// address. A missing or mismatching record is left untouched, which keeps a
// late faucet response from corrupting a wallet imported in the meantime.
func (s *FileStore) MarkFunded(ctx context.Context, address string) error {
	rec, err := s.Load(ctx)
	if err != nil || rec == nil || rec.PublicAddress != address {
		return err
	}
	rec.Funded = true
	return s.Save(ctx, *rec)
}
