package repos

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// runMigrations applies pending migrations on the pool itself so that
// in-memory SQLite databases see the schema.
func runMigrations(db *sqlx.DB, driver string) error {
	var (
		target database.Driver
		dir    string
		err    error
	)
	switch driver {
	case DriverSQLite:
		dir = "migrations/sqlite"
		target, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	case DriverPgx:
		dir = "migrations/postgres"
		target, err = migratepgx.WithInstance(db.DB, &migratepgx.Config{})
	default:
		return fmt.Errorf("unsupported driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("create %s migration driver: %w", driver, err)
	}

	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}
	defer src.Close()

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	// m.Close would close the shared pool; the caller owns it.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
