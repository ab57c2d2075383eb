package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"campus-dashboard/internal/repository"
)

const createKVTable = `
CREATE TABLE IF NOT EXISTS client_storage (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);
`

// KeyValueRepository persists string pairs in sqlite.
type KeyValueRepository struct {
	db *sql.DB
}

func NewKeyValueRepository(db *sql.DB) repository.KeyValue {
	return &KeyValueRepository{db: db}
}

func (r *KeyValueRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createKVTable); err != nil {
		return fmt.Errorf("create client_storage table: %w", err)
	}
	return nil
}

func (r *KeyValueRepository) Get(ctx context.Context, key string) (string, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT value
FROM client_storage
WHERE key = ?`,
		key,
	)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", repository.ErrKeyNotFound
		}
		return "", fmt.Errorf("scan value: %w", err)
	}
	return value, nil
}

func (r *KeyValueRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO client_storage (key, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key,
		value,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert value: %w", err)
	}
	return nil
}

func (r *KeyValueRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM client_storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete value: %w", err)
	}
	return nil
}
