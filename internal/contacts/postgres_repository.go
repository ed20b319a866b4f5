package contacts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores the address book in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the contacts table if it does not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS contacts (
        id UUID PRIMARY KEY,
        name TEXT NOT NULL,
        address TEXT NOT NULL,
        memo TEXT NOT NULL DEFAULT '',
        tags TEXT[] NOT NULL DEFAULT '{}',
        created_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`)
	return err
}

// List returns all contacts in insertion order.
func (r *PostgresRepository) List(ctx context.Context) ([]Contact, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, address, memo, tags, created_at, updated_at
        FROM contacts ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all := []Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, c)
	}
	return all, rows.Err()
}

// Add inserts a new contact with a fresh id and matching timestamps.
func (r *PostgresRepository) Add(ctx context.Context, input AddInput) (Contact, error) {
	contact, err := newContact(input)
	if err != nil {
		return Contact{}, err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO contacts (id, name, address, memo, tags, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.MustParse(contact.ID), contact.Name, contact.Address, contact.Memo, contact.Tags,
		contact.CreatedAt, contact.UpdatedAt)
	if err != nil {
		return Contact{}, err
	}
	return contact, nil
}

// Update merges the given fields over the stored row; unknown ids return nil.
func (r *PostgresRepository) Update(ctx context.Context, id string, input UpdateInput) (*Contact, error) {
	contactID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	row := r.db.QueryRow(ctx, `SELECT id, name, address, memo, tags, created_at, updated_at
        FROM contacts WHERE id = $1`, contactID)
	current, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	updated := input.apply(current, time.Now().UTC())
	_, err = r.db.Exec(ctx, `UPDATE contacts SET name = $2, address = $3, memo = $4, tags = $5, updated_at = $6
        WHERE id = $1`, contactID, updated.Name, updated.Address, updated.Memo, updated.Tags, updated.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the row and reports whether anything was removed.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	contactID, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, contactID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// FindByAddress returns the earliest-created contact with the given address.
func (r *PostgresRepository) FindByAddress(ctx context.Context, address string) (*Contact, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, address, memo, tags, created_at, updated_at
        FROM contacts WHERE address = $1 ORDER BY created_at, id LIMIT 1`, address)
	contact, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

func scanContact(row pgx.Row) (Contact, error) {
	var c Contact
	var id uuid.UUID
	if err := row.Scan(&id, &c.Name, &c.Address, &c.Memo, &c.Tags, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return Contact{}, err
	}
	c.ID = id.String()
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}
