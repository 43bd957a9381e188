package db

import (
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// gooseLogger forwards goose output to slog instead of the std logger.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	slog.Debug(fmt.Sprintf(format, v...), "component", "migrations")
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	// goose would exit here; the error is returned from UpdateSchema instead
	slog.Error(fmt.Sprintf(format, v...), "component", "migrations")
}

// UpdateSchema applies the embedded migrations that have not run yet.
func (s *Storage) UpdateSchema() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("error setting migration dialect: %w", err)
	}

	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("error applying migrations: %w", err)
	}

	return nil
}

// SchemaVersion returns the latest applied migration version.
func (s *Storage) SchemaVersion() (int64, error) {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return 0, fmt.Errorf("error setting migration dialect: %w", err)
	}

	version, err := goose.GetDBVersion(s.db)
	if err != nil {
		return 0, fmt.Errorf("error reading schema version: %w", err)
	}

	return version, nil
}
