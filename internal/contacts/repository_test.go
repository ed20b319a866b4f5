package contacts

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestAddAssignsIDAndTimestamps(t *testing.T) {
	repo := NewFileRepository(t.TempDir())
	ctx := context.Background()

	before, _ := repo.List(ctx)

	added, err := repo.Add(ctx, AddInput{Name: "Alice", Address: "GALICE", Tags: []string{"friend"}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.ID == "" {
		t.Fatalf("no id assigned")
	}
	if !added.CreatedAt.Equal(added.UpdatedAt) {
		t.Fatalf("createdAt %v != updatedAt %v", added.CreatedAt, added.UpdatedAt)
	}

	after, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(after) != len(before)+1 {
		t.Fatalf("expected %d contacts, got %d", len(before)+1, len(after))
	}
	for _, c := range before {
		if c.ID == added.ID {
			t.Fatalf("id %s reused", added.ID)
		}
	}
}

func TestAddRequiresNameAndAddress(t *testing.T) {
	repo := NewFileRepository(t.TempDir())
	ctx := context.Background()

	if _, err := repo.Add(ctx, AddInput{Name: "Alice"}); err != ErrInvalidContact {
		t.Fatalf("expected ErrInvalidContact, got %v", err)
	}
	if _, err := repo.Add(ctx, AddInput{Address: "GALICE"}); err != ErrInvalidContact {
		t.Fatalf("expected ErrInvalidContact, got %v", err)
	}

	all, _ := repo.List(ctx)
	if len(all) != 0 {
		t.Fatalf("invalid adds were persisted: %+v", all)
	}
}

func TestUpdateChangesOnlyGivenFields(t *testing.T) {
	repo := NewFileRepository(t.TempDir())
	ctx := context.Background()

	added, err := repo.Add(ctx, AddInput{Name: "Alice", Address: "GALICE", Memo: "rent", Tags: []string{"friend"}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	name := "X"
	updated, err := repo.Update(ctx, added.ID, UpdateInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated == nil {
		t.Fatalf("update returned absent for existing id")
	}
	if updated.Name != "X" {
		t.Fatalf("name not updated: %q", updated.Name)
	}
	if updated.Address != added.Address || updated.Memo != added.Memo {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "friend" {
		t.Fatalf("tags changed: %v", updated.Tags)
	}
	if !updated.CreatedAt.Equal(added.CreatedAt) {
		t.Fatalf("createdAt changed")
	}
	if updated.UpdatedAt.Before(added.UpdatedAt) {
		t.Fatalf("updatedAt not refreshed")
	}
}

func TestUpdateUnknownIDIsNoWrite(t *testing.T) {
	repo := NewFileRepository(t.TempDir())
	ctx := context.Background()

	added, _ := repo.Add(ctx, AddInput{Name: "Alice", Address: "GALICE"})

	name := "X"
	updated, err := repo.Update(ctx, "no-such-id", UpdateInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated != nil {
		t.Fatalf("expected absent, got %+v", updated)
	}

	all, _ := repo.List(ctx)
	if len(all) != 1 || all[0].Name != added.Name {
		t.Fatalf("list changed after no-op update: %+v", all)
	}
}

func TestDeleteTwice(t *testing.T) {
	repo := NewFileRepository(t.TempDir())
	ctx := context.Background()

	added, _ := repo.Add(ctx, AddInput{Name: "Alice", Address: "GALICE"})
	repo.Add(ctx, AddInput{Name: "Bob", Address: "GBOB"})

	removed, err := repo.Delete(ctx, added.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !removed {
		t.Fatalf("first delete reported false")
	}
	all, _ := repo.List(ctx)
	if len(all) != 1 {
		t.Fatalf("expected 1 contact after delete, got %d", len(all))
	}

	removed, err = repo.Delete(ctx, added.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if removed {
		t.Fatalf("second delete reported true")
	}
	all, _ = repo.List(ctx)
	if len(all) != 1 {
		t.Fatalf("list length changed on no-op delete: %d", len(all))
	}
}

func TestFindByAddress(t *testing.T) {
	repo := NewFileRepository(t.TempDir())
	ctx := context.Background()

	repo.Add(ctx, AddInput{Name: "Alice", Address: "GALICE"})
	repo.Add(ctx, AddInput{Name: "Alias", Address: "GALICE"})

	found, err := repo.FindByAddress(ctx, "GALICE")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found == nil || found.Name != "Alice" {
		t.Fatalf("expected first match Alice, got %+v", found)
	}

	found, err = repo.FindByAddress(ctx, "GNOBODY")
	if err != nil {
		t.Fatalf("find unknown: %v", err)
	}
	if found != nil {
		t.Fatalf("expected absent, got %+v", found)
	}
}

func TestCorruptFileYieldsEmptyList(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, contactsFileName), []byte("]["), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	all, err := NewFileRepository(dir).List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty list, got %+v", all)
	}
}

func TestListSurvivesFreshInstance(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	added, err := NewFileRepository(dir).Add(ctx, AddInput{Name: "Alice", Address: "GALICE", Tags: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	all, err := NewFileRepository(dir).List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(all))
	}
	got := all[0]
	if got.ID != added.ID || got.Name != added.Name || got.Address != added.Address {
		t.Fatalf("round-trip mismatch: %+v vs %+v", got, added)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "a" || got.Tags[1] != "b" {
		t.Fatalf("tags did not round-trip: %v", got.Tags)
	}
}
