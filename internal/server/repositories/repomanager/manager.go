// Package repomanager vends identity-store repositories for a storage
// backend and applies that backend's embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophid/internal/dbx"
	"github.com/dmitrijs2005/gophid/internal/filex"
	"github.com/dmitrijs2005/gophid/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// sqlOpen is a seam for testing sql.Open.
var sqlOpen = sql.Open

// Open connects to the configured backend and returns the pool together
// with the matching manager. The caller owns the returned *sql.DB.
func Open(backend, dsn string) (*sql.DB, RepositoryManager, error) {
	var (
		driver string
		m      RepositoryManager
	)

	switch backend {
	case BackendPostgres:
		driver, m = "pgx", NewPostgresRepositoryManager()
	case BackendSQLite:
		driver, m = "sqlite", NewSQLiteRepositoryManager()
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", backend)
	}

	if backend == BackendSQLite {
		if _, err := filex.EnsureParentDir(dsn); err != nil {
			return nil, nil, err
		}
	}

	db, err := sqlOpen(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", backend, err)
	}

	if backend == BackendSQLite {
		// an in-memory database lives and dies with its connection
		db.SetMaxOpenConns(1)
	}

	return db, m, nil
}
