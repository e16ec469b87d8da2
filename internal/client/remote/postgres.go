package remote

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/jackc/pgx/v5"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresRecordStore inserts records through the pgx database/sql driver.
type PostgresRecordStore struct {
	db *sql.DB
}

func NewPostgresRecordStore(dsn string) (*PostgresRecordStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return newPostgresRecordStore(db), nil
}

func newPostgresRecordStore(db *sql.DB) *PostgresRecordStore {
	return &PostgresRecordStore{db: db}
}

func (p *PostgresRecordStore) Close() error {
	return p.db.Close()
}

// buildInsert renders an INSERT with columns in sorted order so the statement
// text is stable for a given set of fields.
func buildInsert(table string, fields map[string]any) (string, []any) {
	cols := make([]string, 0, len(fields))
	for c := range fields {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	quoted := make([]string, len(cols))
	params := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
		params[i] = "$" + strconv.Itoa(i+1)
		args[i] = fields[c]
	}

	query := "INSERT INTO " + pgx.Identifier{table}.Sanitize() +
		" (" + strings.Join(quoted, ", ") + ") VALUES (" + strings.Join(params, ", ") + ") RETURNING id"
	return query, args
}

func (p *PostgresRecordStore) InsertRecord(ctx context.Context, table string, fields map[string]any) (string, error) {
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: %s: no fields", common.ErrInsertFailed, table)
	}
	query, args := buildInsert(table, fields)

	var id string
	if err := p.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return "", fmt.Errorf("%w: %s: %w", common.ErrInsertFailed, table, err)
	}
	return id, nil
}
