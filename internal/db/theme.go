package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

type Theme struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description"`
	StackTechnology string    `db:"stack_technology" json:"stackTechnology"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// CreateTheme inserts a new theme. The unique index on name decides
// conflicts, so two concurrent creates with the same name cannot both win.
func (s *Storage) CreateTheme(name, description, stackTechnology string) (*Theme, error) {
	theme := &Theme{
		ID:              nanoid.Must(),
		Name:            name,
		Description:     description,
		StackTechnology: stackTechnology,
		CreatedAt:       time.Now().UTC(),
	}

	query := `
		INSERT INTO themes (id, name, description, stack_technology, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query, theme.ID, theme.Name, theme.Description, theme.StackTechnology, theme.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("theme %q: %w", name, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("error creating theme: %w", err)
	}

	return theme, nil
}

func (s *Storage) GetThemes() ([]Theme, error) {
	query := `
		SELECT id, name, description, stack_technology, created_at
		FROM themes
		ORDER BY created_at, rowid
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error getting themes: %w", err)
	}
	defer rows.Close()

	themes := []Theme{}
	for rows.Next() {
		var theme Theme
		if err := rows.Scan(
			&theme.ID,
			&theme.Name,
			&theme.Description,
			&theme.StackTechnology,
			&theme.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning theme: %w", err)
		}
		themes = append(themes, theme)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating theme rows: %w", err)
	}

	return themes, nil
}

func (s *Storage) GetTheme(themeID string) (*Theme, error) {
	query := `
		SELECT id, name, description, stack_technology, created_at
		FROM themes
		WHERE id = ?
	`
	return s.scanTheme(s.db.QueryRow(query, themeID))
}

func (s *Storage) GetThemeByName(name string) (*Theme, error) {
	query := `
		SELECT id, name, description, stack_technology, created_at
		FROM themes
		WHERE name = ?
	`
	return s.scanTheme(s.db.QueryRow(query, name))
}

func (s *Storage) scanTheme(row *sql.Row) (*Theme, error) {
	var theme Theme
	err := row.Scan(
		&theme.ID,
		&theme.Name,
		&theme.Description,
		&theme.StackTechnology,
		&theme.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting theme: %w", err)
	}

	return &theme, nil
}

// DeleteTheme removes the theme; its flashcards go with it through the
// ON DELETE CASCADE foreign key. Reports whether a row was removed.
func (s *Storage) DeleteTheme(themeID string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM themes WHERE id = ?`, themeID)
	if err != nil {
		return false, fmt.Errorf("error deleting theme: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error checking deleted theme: %w", err)
	}

	return affected > 0, nil
}
