package keystore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const walletKey = "lumenvault:wallet"

// RedisStore persists the wallet record as a JSON blob under a fixed key.
type RedisStore struct {
	client *redis.Client
	sealer *Sealer
}

// NewRedisStore builds a Redis-backed store. The sealer may be nil.
func NewRedisStore(client *redis.Client, sealer *Sealer) *RedisStore {
	return &RedisStore{client: client, sealer: sealer}
}

// Load reads the persisted record, returning nil when the key is missing or
// the blob is undecodable.
func (s *RedisStore) Load(ctx context.Context) (*Record, error) {
	data, err := s.client.Get(ctx, walletKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("read wallet key: %w", err)
	}
	return decodeRecord(data, s.sealer), nil
}

// Save overwrites the persisted record unconditionally.
func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	data, err := encodeRecord(rec, s.sealer)
	if err != nil {
		return fmt.Errorf("encode wallet: %w", err)
	}
	if err := s.client.Set(ctx, walletKey, data, 0).Err(); err != nil {
		return fmt.Errorf("write wallet key: %w", err)
	}
	return nil
}

// Clear removes the persisted record.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, walletKey).Err(); err != nil {
		return fmt.Errorf("delete wallet key: %w", err)
	}
	return nil
}

// MarkFunded flips the funded flag when the stored record matches the given
// address; no-op otherwise.
func (s *RedisStore) MarkFunded(ctx context.Context, address string) error {
	rec, err := s.Load(ctx)
	if err != nil || rec == nil || rec.PublicAddress != address {
		return err
	}
	rec.Funded = true
	return s.Save(ctx, *rec)
}
