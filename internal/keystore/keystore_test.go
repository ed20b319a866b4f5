package keystore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var testRecord = Record{
	PublicAddress: "GDQNY3PBOJOKYZSRMK2S7LHHGWZIUISD4QORETLMXEWXBI7KFZZMKTL3",
	SecretKey:     "SDHOAMBNLGCE2MV5ZKIVZAQD3VCLGP53P3OBSBI6UN5L5XZI5TKHFQL4",
	Funded:        false,
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	if err := NewFileStore(dir, nil).Save(ctx, testRecord); err != nil {
		t.Fatalf("save: %v", err)
	}

	// A fresh store instance must see exactly what was saved.
	loaded, err := NewFileStore(dir, nil).Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil || *loaded != testRecord {
		t.Fatalf("loaded %+v, want %+v", loaded, testRecord)
	}
}

func TestFileStoreLoadAbsent(t *testing.T) {
	rec, err := NewFileStore(t.TempDir(), nil).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected absent record, got %+v", rec)
	}
}

func TestFileStoreCorruptPayloadIsAbsent(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, walletFileName), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	rec, err := NewFileStore(dir, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec != nil {
		t.Fatalf("corrupt payload should load as absent, got %+v", rec)
	}
}

func TestFileStoreVersionMismatchIsAbsent(t *testing.T) {
	dir := t.TempDir()
	blob := []byte(`{"version":2,"publicAddress":"GABC","secretKey":"SABC","funded":true}`)
	if err := os.WriteFile(filepath.Join(dir, walletFileName), blob, 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	rec, err := NewFileStore(dir, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec != nil {
		t.Fatalf("version mismatch should load as absent, got %+v", rec)
	}
}

func TestFileStoreMarkFunded(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	store := NewFileStore(dir, nil)

	if err := store.Save(ctx, testRecord); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mismatching address must not touch the record.
	if err := store.MarkFunded(ctx, "GOTHERADDRESS"); err != nil {
		t.Fatalf("mark funded mismatch: %v", err)
	}
	rec, _ := store.Load(ctx)
	if rec.Funded {
		t.Fatalf("funded flag flipped for wrong address")
	}

	if err := store.MarkFunded(ctx, testRecord.PublicAddress); err != nil {
		t.Fatalf("mark funded: %v", err)
	}
	rec, _ = store.Load(ctx)
	if !rec.Funded {
		t.Fatalf("funded flag not set")
	}
}

func TestFileStoreClear(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	store := NewFileStore(dir, nil)

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear on empty store: %v", err)
	}

	if err := store.Save(ctx, testRecord); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	rec, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec != nil {
		t.Fatalf("record survived clear: %+v", rec)
	}
}

func TestSealedSecretRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	sealer := NewSealer("correct horse")

	if err := NewFileStore(dir, sealer).Save(ctx, testRecord); err != nil {
		t.Fatalf("save: %v", err)
	}

	// The raw file must not contain the secret in the clear.
	raw, err := os.ReadFile(filepath.Join(dir, walletFileName))
	if err != nil {
		t.Fatalf("read raw file: %v", err)
	}
	if bytes.Contains(raw, []byte(testRecord.SecretKey)) {
		t.Fatalf("secret stored in the clear")
	}

	loaded, err := NewFileStore(dir, sealer).Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil || loaded.SecretKey != testRecord.SecretKey {
		t.Fatalf("sealed secret did not round-trip: %+v", loaded)
	}

	// Wrong passphrase degrades to absent, never an error.
	loaded, err = NewFileStore(dir, NewSealer("wrong")).Load(ctx)
	if err != nil {
		t.Fatalf("load with wrong passphrase: %v", err)
	}
	if loaded != nil {
		t.Fatalf("wrong passphrase yielded a record: %+v", loaded)
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	store := NewRedisStore(client, nil)

	if err := store.Save(ctx, testRecord); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil || *loaded != testRecord {
		t.Fatalf("loaded %+v, want %+v", loaded, testRecord)
	}

	if err := store.MarkFunded(ctx, testRecord.PublicAddress); err != nil {
		t.Fatalf("mark funded: %v", err)
	}
	loaded, _ = store.Load(ctx)
	if !loaded.Funded {
		t.Fatalf("funded flag not set")
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	loaded, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if loaded != nil {
		t.Fatalf("record survived clear: %+v", loaded)
	}
}
