package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type Storage struct {
	db *sql.DB
}

// ConnectDB opens the sqlite database at dbPath with foreign keys enforced.
// ":memory:" gives a private in-memory database.
func ConnectDB(dbPath string) (*Storage, error) {
	dsn := buildDSN(dbPath)

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// one connection: single writer, and :memory: stays the same database
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	return &Storage{db: conn}, nil
}

func buildDSN(dbPath string) string {
	params := "_foreign_keys=on&_busy_timeout=5000"
	if strings.HasPrefix(dbPath, "file:") {
		if strings.Contains(dbPath, "?") {
			return dbPath + "&" + params
		}
		return dbPath + "?" + params
	}
	return "file:" + dbPath + "?" + params
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Ping() error {
	return s.db.Ping()
}

func isConstraintError(err error, code sqlite3.ErrNoExtended) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == code
	}
	return false
}

func isUniqueViolation(err error) bool {
	return isConstraintError(err, sqlite3.ErrConstraintUnique)
}

func isForeignKeyViolation(err error) bool {
	return isConstraintError(err, sqlite3.ErrConstraintForeignKey)
}
