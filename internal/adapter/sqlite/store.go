package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/YelzhanWeb/mamantilie/internal/interfaces"
)

const schema = `
CREATE TABLE IF NOT EXISTS order_store (
	name       TEXT PRIMARY KEY,
	document   BLOB NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Store keeps the order document in a single SQLite row.
type Store struct {
	db   *sqlx.DB
	name string
}

var _ interfaces.ByteStore = (*Store)(nil)

// Open connects to the database file at path and creates the table when needed.
func Open(ctx context.Context, path, name string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// sqlite3 допускает одного писателя
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create order_store table: %w", err)
	}

	return &Store{db: db, name: name}, nil
}

func (s *Store) ReadStore(ctx context.Context) ([]byte, bool, error) {
	var doc []byte
	err := s.db.GetContext(ctx, &doc, `SELECT document FROM order_store WHERE name = ?`, s.name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read order store %q: %w", s.name, err)
	}
	return doc, true, nil
}

func (s *Store) WriteStore(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO order_store (name, document, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		s.name, data)
	if err != nil {
		return fmt.Errorf("failed to write order store %q: %w", s.name, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
