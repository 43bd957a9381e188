package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

type Level string

const (
	LevelJunior Level = "Junior"
	LevelMid    Level = "Mid"
	LevelSenior Level = "Senior"
)

type QuestionType string

const (
	TypeConceptual   QuestionType = "Conceptual"
	TypePractical    QuestionType = "Practical"
	TypeSystemDesign QuestionType = "SystemDesign"
	TypeTricky       QuestionType = "Tricky"
)

type Source string

const (
	SourceAI     Source = "AI"
	SourceManual Source = "Manual"
)

func (l Level) Valid() bool {
	switch l {
	case LevelJunior, LevelMid, LevelSenior:
		return true
	}
	return false
}

func (t QuestionType) Valid() bool {
	switch t {
	case TypeConceptual, TypePractical, TypeSystemDesign, TypeTricky:
		return true
	}
	return false
}

func (s Source) Valid() bool {
	return s == SourceAI || s == SourceManual
}

type Flashcard struct {
	ID        string       `db:"id" json:"id"`
	ThemeID   string       `db:"theme_id" json:"themeId"`
	Question  string       `db:"question" json:"question"`
	Answer    string       `db:"answer" json:"answer"`
	Level     Level        `db:"level" json:"level"`
	Type      QuestionType `db:"type" json:"type"`
	Source    Source       `db:"source" json:"source"`
	Approved  bool         `db:"approved" json:"approved"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
}

// FlashcardFilter narrows ListFlashcards. Zero values match everything.
type FlashcardFilter struct {
	ThemeID  string
	Approved *bool
	Source   *Source
	Level    *Level
	Type     *QuestionType
}

// FlashcardUpdate holds the mutable fields of a flashcard.
type FlashcardUpdate struct {
	Question string
	Answer   string
	Level    Level
	Type     QuestionType
	Approved bool
}

const flashcardColumns = `id, theme_id, question, answer, level, type, source, approved, created_at`

const insertFlashcardQuery = `
	INSERT INTO flashcards (id, theme_id, question, answer, level, type, source, approved, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// AddManualFlashcard stores a human-authored flashcard, which is approved from the start.
func (s *Storage) AddManualFlashcard(themeID, question, answer string, level Level, qType QuestionType) (*Flashcard, error) {
	return s.AddFlashcard(Flashcard{
		ThemeID:  themeID,
		Question: question,
		Answer:   answer,
		Level:    level,
		Type:     qType,
		Source:   SourceManual,
		Approved: true,
	})
}

// AddFlashcard inserts card, assigning an id and creation time when missing.
// Returns ErrNotFound when the theme does not exist.
func (s *Storage) AddFlashcard(card Flashcard) (*Flashcard, error) {
	prepareFlashcard(&card, time.Now().UTC())

	_, err := s.db.Exec(insertFlashcardQuery,
		card.ID, card.ThemeID, card.Question, card.Answer,
		card.Level, card.Type, card.Source, card.Approved, card.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("theme %s: %w", card.ThemeID, ErrNotFound)
		}
		return nil, fmt.Errorf("error adding flashcard: %w", err)
	}

	return &card, nil
}

// AddFlashcardsInBatch inserts all cards under themeID in one transaction.
// Either every card is stored or none is.
func (s *Storage) AddFlashcardsInBatch(themeID string, cards []Flashcard) ([]Flashcard, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(insertFlashcardQuery)
	if err != nil {
		return nil, fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	saved := make([]Flashcard, 0, len(cards))
	for i, card := range cards {
		card.ThemeID = themeID
		prepareFlashcard(&card, now)

		_, err = stmt.Exec(
			card.ID, card.ThemeID, card.Question, card.Answer,
			card.Level, card.Type, card.Source, card.Approved, card.CreatedAt,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return nil, fmt.Errorf("theme %s: %w", themeID, ErrNotFound)
			}
			return nil, fmt.Errorf("error inserting flashcard %d: %w", i, err)
		}
		saved = append(saved, card)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	return saved, nil
}

func prepareFlashcard(card *Flashcard, now time.Time) {
	if card.ID == "" {
		card.ID = nanoid.Must()
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
}

func (s *Storage) GetFlashcard(cardID string) (*Flashcard, error) {
	query := `SELECT ` + flashcardColumns + ` FROM flashcards WHERE id = ?`

	var card Flashcard
	err := s.db.QueryRow(query, cardID).Scan(
		&card.ID,
		&card.ThemeID,
		&card.Question,
		&card.Answer,
		&card.Level,
		&card.Type,
		&card.Source,
		&card.Approved,
		&card.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting flashcard: %w", err)
	}

	return &card, nil
}

func (s *Storage) GetFlashcardsByTheme(themeID string) ([]Flashcard, error) {
	return s.ListFlashcards(FlashcardFilter{ThemeID: themeID})
}

func (s *Storage) ListFlashcards(filter FlashcardFilter) ([]Flashcard, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if filter.ThemeID != "" {
		conditions = append(conditions, "theme_id = ?")
		args = append(args, filter.ThemeID)
	}
	if filter.Approved != nil {
		conditions = append(conditions, "approved = ?")
		args = append(args, *filter.Approved)
	}
	if filter.Source != nil {
		conditions = append(conditions, "source = ?")
		args = append(args, *filter.Source)
	}
	if filter.Level != nil {
		conditions = append(conditions, "level = ?")
		args = append(args, *filter.Level)
	}
	if filter.Type != nil {
		conditions = append(conditions, "type = ?")
		args = append(args, *filter.Type)
	}

	query := `SELECT ` + flashcardColumns + ` FROM flashcards`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at, rowid`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing flashcards: %w", err)
	}
	defer rows.Close()

	cards := []Flashcard{}
	for rows.Next() {
		var card Flashcard
		if err := rows.Scan(
			&card.ID,
			&card.ThemeID,
			&card.Question,
			&card.Answer,
			&card.Level,
			&card.Type,
			&card.Source,
			&card.Approved,
			&card.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning flashcard: %w", err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating flashcard rows: %w", err)
	}

	return cards, nil
}

// UpdateFlashcard overwrites the mutable fields. Theme, source and creation
// time never change.
func (s *Storage) UpdateFlashcard(cardID string, update FlashcardUpdate) (*Flashcard, error) {
	query := `
		UPDATE flashcards
		SET question = ?, answer = ?, level = ?, type = ?, approved = ?
		WHERE id = ?
	`

	res, err := s.db.Exec(query, update.Question, update.Answer, update.Level, update.Type, update.Approved, cardID)
	if err != nil {
		return nil, fmt.Errorf("error updating flashcard: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("error checking updated flashcard: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return s.GetFlashcard(cardID)
}

// ApproveFlashcard marks the card approved. Approving an approved card is a
// no-op that still reports true; false means no such card.
func (s *Storage) ApproveFlashcard(cardID string) (bool, error) {
	res, err := s.db.Exec(`UPDATE flashcards SET approved = 1 WHERE id = ?`, cardID)
	if err != nil {
		return false, fmt.Errorf("error approving flashcard: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error checking approved flashcard: %w", err)
	}

	return affected > 0, nil
}

func (s *Storage) DeleteFlashcard(cardID string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM flashcards WHERE id = ?`, cardID)
	if err != nil {
		return false, fmt.Errorf("error deleting flashcard: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error checking deleted flashcard: %w", err)
	}

	return affected > 0, nil
}
