package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/dmitrijs2005/fieldsync/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get returns (nil, nil) when the key is absent.
func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get metadata[%s]: %w", common.ErrStoreUnavailable, key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("%w: set metadata[%s]: %w", common.ErrStoreUnavailable, key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("%w: delete metadata[%s]: %w", common.ErrStoreUnavailable, key, err)
	}
	return nil
}

// GetBool treats a missing key as false.
func (r *SQLiteRepository) GetBool(ctx context.Context, key string) (bool, error) {
	v, err := r.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return len(v) == 1 && v[0] == 1, nil
}

func (r *SQLiteRepository) SetBool(ctx context.Context, key string, v bool) error {
	b := byte(0)
	if v {
		b = 1
	}
	return r.Set(ctx, key, []byte{b})
}
