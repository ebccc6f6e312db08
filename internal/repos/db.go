package repos

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	DriverSQLite = "sqlite"
	DriverPgx    = "pgx"
)

var (
	// ErrNotFound indicates a record does not exist or is not visible to the caller.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness conflict.
	ErrAlreadyExists = errors.New("record already exists")
)

// OpenDB opens an SQLite database (":memory:" works) and applies migrations.
func OpenDB(dsn string) (*sqlx.DB, error) {
	return Open(DriverSQLite, dsn)
}

func Open(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// One connection: writes are serialized and :memory: stays a single database.
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if driver == DriverSQLite {
		if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}
	if err := runMigrations(db, driver); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// isUniqueViolation recognizes duplicate-key errors from both supported drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
