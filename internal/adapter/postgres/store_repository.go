package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/YelzhanWeb/mamantilie/internal/interfaces"
)

const (
	createStoreTable = `
		CREATE TABLE IF NOT EXISTS order_store (
			name       TEXT PRIMARY KEY,
			document   BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	selectDocument = `SELECT document FROM order_store WHERE name = $1`
	upsertDocument = `
		INSERT INTO order_store (name, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`
)

// StoreRepository keeps the whole order document in one row, keyed by name.
type StoreRepository struct {
	db   DB
	name string
}

var _ interfaces.ByteStore = (*StoreRepository)(nil)

func NewStoreRepository(db DB, name string) *StoreRepository {
	return &StoreRepository{db: db, name: name}
}

// Migrate creates the table if it does not exist yet.
func (r *StoreRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createStoreTable); err != nil {
		return fmt.Errorf("failed to create order_store table: %w", err)
	}
	return nil
}

func (r *StoreRepository) ReadStore(ctx context.Context) ([]byte, bool, error) {
	var doc []byte
	err := r.db.QueryRow(ctx, selectDocument, r.name).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read order store %q: %w", r.name, err)
	}
	return doc, true, nil
}

func (r *StoreRepository) WriteStore(ctx context.Context, data []byte) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, upsertDocument, r.name, data)
	if err != nil {
		return fmt.Errorf("failed to write order store %q: %w", r.name, err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("failed to write order store %q: %d rows affected", r.name, tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit order store %q: %w", r.name, err)
	}
	return nil
}
