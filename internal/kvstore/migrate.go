package kvstore

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	pgmigrations "github.com/dmitrijs2005/staffdir/internal/migrations/postgres"
	sqlitemigrations "github.com/dmitrijs2005/staffdir/internal/migrations/sqlite"
	"github.com/pressly/goose/v3"
)

const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "pgx"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations for dialect to db.
func RunMigrations(ctx context.Context, db *sql.DB, dialect string) error {
	var migrations fs.FS
	switch dialect {
	case DialectSQLite:
		migrations = sqlitemigrations.Migrations
	case DialectPostgres:
		migrations = pgmigrations.Migrations
	default:
		return fmt.Errorf("unsupported migration dialect %q", dialect)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	return gooseUpContext(ctx, db, ".")
}
