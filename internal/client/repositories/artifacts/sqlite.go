package artifacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/dmitrijs2005/fieldsync/internal/dbx"
)

// DB is satisfied by *sql.DB.
type DB interface {
	dbx.DBTX
	dbx.TxBeginner
}

// SQLiteRepository implements Repository on top of the local SQLite database.
type SQLiteRepository struct {
	db DB
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DB.
func NewSQLiteRepository(db DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// tableFor maps a kind to its table. Table names never come from user input.
func tableFor(kind models.Kind) (string, error) {
	switch kind {
	case models.KindMedia, models.KindNote, models.KindTask, models.KindChecklist:
		return string(kind), nil
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnknownKind, kind)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", common.ErrStoreUnavailable, op, err)
}

// Put upserts an artifact by id. The row is written by a single statement so
// a crash cannot leave a partial record behind.
func (r *SQLiteRepository) Put(ctx context.Context, a *models.Artifact) error {
	if err := a.Validate(); err != nil {
		return err
	}
	table, err := tableFor(a.Kind())
	if err != nil {
		return err
	}
	doc, content, err := models.EncodePayload(a.Payload)
	if err != nil {
		return err
	}

	query := `INSERT INTO ` + table + ` (id, owner_user_id, target_collection_id, created_at, payload, content)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET owner_user_id = excluded.owner_user_id,
				target_collection_id = excluded.target_collection_id,
				created_at = excluded.created_at,
				payload = excluded.payload,
				content = excluded.content`
	_, err = r.db.ExecContext(ctx, query,
		a.ID, a.OwnerUserID, a.TargetCollectionID, a.CreatedAt.UnixNano(), doc, content)
	if err != nil {
		return unavailable("put "+table, err)
	}
	return nil
}

// GetAll lists every pending artifact of the kind, oldest insertion first.
func (r *SQLiteRepository) GetAll(ctx context.Context, kind models.Kind) ([]*models.Artifact, error) {
	return r.getAll(ctx, r.db, kind)
}

func (r *SQLiteRepository) getAll(ctx context.Context, db dbx.DBTX, kind models.Kind) ([]*models.Artifact, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, owner_user_id, target_collection_id, created_at, payload, content
			FROM ` + table + ` ORDER BY rowid`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, unavailable("select "+table, err)
	}
	defer rows.Close()

	result := []*models.Artifact{}
	for rows.Next() {
		var (
			a         models.Artifact
			target    sql.NullString
			createdAt int64
			doc       []byte
			content   []byte
		)
		if err := rows.Scan(&a.ID, &a.OwnerUserID, &target, &createdAt, &doc, &content); err != nil {
			return nil, unavailable("scan "+table, err)
		}
		if target.Valid {
			a.TargetCollectionID = &target.String
		}
		a.CreatedAt = time.Unix(0, createdAt).UTC()
		a.Payload, err = models.DecodePayload(kind, doc, content)
		if err != nil {
			return nil, unavailable("decode "+table+"/"+a.ID, err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate "+table, err)
	}
	return result, nil
}

// Remove deletes the artifact; zero affected rows is not an error.
func (r *SQLiteRepository) Remove(ctx context.Context, kind models.Kind, id string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id); err != nil {
		return unavailable("delete "+table, err)
	}
	return nil
}

// Count returns the number of rows in the kind's table.
func (r *SQLiteRepository) Count(ctx context.Context, kind models.Kind) (int, error) {
	return r.count(ctx, r.db, kind)
}

func (r *SQLiteRepository) count(ctx context.Context, db dbx.DBTX, kind models.Kind) (int, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return 0, unavailable("count "+table, err)
	}
	return n, nil
}

// Counts reads all four counts inside one transaction.
func (r *SQLiteRepository) Counts(ctx context.Context) (models.PendingCounts, error) {
	var counts models.PendingCounts
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, kind := range models.Kinds {
			n, err := r.count(ctx, tx, kind)
			if err != nil {
				return err
			}
			counts.Set(kind, n)
		}
		return nil
	})
	if err != nil {
		return models.PendingCounts{}, wrapTx(err)
	}
	return counts, nil
}

// Snapshot reads every kind inside one transaction so totals computed from
// it are consistent.
func (r *SQLiteRepository) Snapshot(ctx context.Context) (map[models.Kind][]*models.Artifact, error) {
	snap := make(map[models.Kind][]*models.Artifact, len(models.Kinds))
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, kind := range models.Kinds {
			items, err := r.getAll(ctx, tx, kind)
			if err != nil {
				return err
			}
			snap[kind] = items
		}
		return nil
	})
	if err != nil {
		return nil, wrapTx(err)
	}
	return snap, nil
}

// wrapTx makes begin/commit failures distinguishable as store failures while
// leaving already-wrapped errors alone.
func wrapTx(err error) error {
	if errors.Is(err, common.ErrStoreUnavailable) {
		return err
	}
	return unavailable("transaction", err)
}
