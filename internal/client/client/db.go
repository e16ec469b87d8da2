package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/fieldsync/internal/client/migrations"
	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/artifacts"
	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/dmitrijs2005/fieldsync/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	DB        *sql.DB
	Artifacts artifacts.Repository
	Metadata  metadata.Repository
}

// Close releases the underlying database.
func (r *Repositories) Close() error {
	return r.DB.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func dsnFor(path string) string {
	if path == ":memory:" {
		return path
	}
	return "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
}

// Open opens the SQLite database at path and migrates it to the latest schema.
// A single connection is kept open: SQLite serialises writers anyway and an
// in-memory database would otherwise be different on every connection.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if _, err := filex.EnsureParentDir(path); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
		}
	}

	db, err := sql.Open("sqlite", dsnFor(path))
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", common.ErrStoreUnavailable, path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: open %s: %w", common.ErrStoreUnavailable, path, err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migrate %s: %w", common.ErrStoreUnavailable, path, err)
	}
	return db, nil
}

func InitDatabase(ctx context.Context, path string) (*Repositories, error) {
	db, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}

	repos := &Repositories{
		DB:        db,
		Artifacts: artifacts.NewSQLiteRepository(db),
		Metadata:  metadata.NewSQLiteRepository(db),
	}
	return repos, nil
}
