package contacts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidContact indicates a new contact is missing its name or address.
var ErrInvalidContact = errors.New("contact name and address are required")

// Repository persists the address book. List returns an empty slice (never
// nil-as-absent) when no contacts exist; corrupt persisted data also yields
// an empty list. Update returns nil without writing when the id is unknown;
// Delete reports whether a record was actually removed.
type Repository interface {
	List(ctx context.Context) ([]Contact, error)
	Add(ctx context.Context, input AddInput) (Contact, error)
	Update(ctx context.Context, id string, input UpdateInput) (*Contact, error)
	Delete(ctx context.Context, id string) (bool, error)
	FindByAddress(ctx context.Context, address string) (*Contact, error)
}

func newContact(input AddInput) (Contact, error) {
	if input.Name == "" || input.Address == "" {
		return Contact{}, ErrInvalidContact
	}
	now := time.Now().UTC()
	return Contact{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Address:   input.Address,
		Memo:      input.Memo,
		Tags:      append([]string(nil), input.Tags...),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
