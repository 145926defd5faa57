// Package history keeps a journal of control actions in a SQLite database.
package history

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/trly/servicedeck/internal/log"

	// Register migrate's sqlite3 driver.
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"

	// Register sqlite3 driver.
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ConnectionString returns the migrate URL for the database at path.
func ConnectionString(path string) string {
	return "sqlite3://" + path
}

// Open creates the database directory if needed, applies migrations and
// returns a ready connection.
func Open(path string, logger log.Logger) (*sql.DB, error) {
	path = os.ExpandEnv(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	if err := Up(path, logger); err != nil {
		return nil, fmt.Errorf("migrating history database: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("Connected to history database", "path", path)
	return db, nil
}

// Up runs database migrations to latest version.
func Up(path string, logger log.Logger) error {
	m, err := migrationInstance(path, logger)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Debug("No new database migrations to apply")
		return nil
	case err != nil:
		return err
	}

	logger.Debug("Database migrations applied successfully")
	return nil
}

// Down rolls back all database migrations.
func Down(path string, logger log.Logger) error {
	m, err := migrationInstance(path, logger)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func migrationInstance(path string, logger log.Logger) (*migrate.Migrate, error) {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, ConnectionString(path))
	if err != nil {
		return nil, err
	}
	m.Log = &migrationLogger{logger: logger}
	return m, nil
}

type migrationLogger struct {
	logger log.Logger
}

func (l *migrationLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug("Migration: " + fmt.Sprintf(format, v...))
}

func (l *migrationLogger) Verbose() bool {
	return false
}
