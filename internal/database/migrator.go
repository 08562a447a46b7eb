package database

import (
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/jdholdren/postboard/internal/migrations"
)

// RunMigrations brings the schema for dialect up to date.
func RunMigrations(dbx *sqlx.DB, dialect Dialect) error {
	var (
		src     fs.FS
		driver  database.Driver
		name    string
		instErr error
	)
	switch dialect {
	case DialectSQLite:
		src, name = migrations.SQLite, "sqlite"
		driver, instErr = sqlite.WithInstance(dbx.DB, &sqlite.Config{})
	case DialectPostgres:
		src, name = migrations.Postgres, "postgres"
		driver, instErr = migratepgx.WithInstance(dbx.DB, &migratepgx.Config{})
	default:
		return fmt.Errorf("no migrations for dialect %q", dialect)
	}
	if instErr != nil {
		return fmt.Errorf("error creating %s instance for migration: %s", dialect, instErr)
	}

	d, err := iofs.New(src, name)
	if err != nil {
		return fmt.Errorf("error creating migrations source: %s", err)
	}
	migrator, err := migrate.NewWithInstance("iofs", d, string(dialect), driver)
	if err != nil {
		return fmt.Errorf("error creating migrator: %s", err)
	}
	if err := migrator.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("error migrating: %s", err)
	}
	slog.Info("migrated", "dialect", dialect)

	return nil
}
