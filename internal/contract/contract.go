package contract

import (
	"time"

	"interviewcards/internal/db"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CreateThemeRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	Description     string `json:"description" validate:"max=1000"`
	StackTechnology string `json:"stackTechnology" validate:"max=200"`
}

type CreateFlashcardRequest struct {
	ThemeID  string          `json:"themeId" validate:"required"`
	Question string          `json:"question" validate:"required"`
	Answer   string          `json:"answer" validate:"required"`
	Level    db.Level        `json:"level" validate:"required,oneof=Junior Mid Senior"`
	Type     db.QuestionType `json:"type" validate:"required,oneof=Conceptual Practical SystemDesign Tricky"`
}

// GenerateFlashcardsRequest asks the model for Count drafts. A nil Level
// lets the model mix levels; a zero Count falls back to the default.
type GenerateFlashcardsRequest struct {
	ThemeID string    `json:"themeId" validate:"required"`
	Level   *db.Level `json:"level" validate:"omitempty,oneof=Junior Mid Senior"`
	Count   int       `json:"count" validate:"omitempty,min=1,max=50"`
}

// UpdateFlashcardRequest carries the whole flashcard. Only question, answer,
// level, type and approved are applied; the rest is ignored.
type UpdateFlashcardRequest struct {
	ID        string          `json:"id" validate:"required"`
	ThemeID   string          `json:"themeId"`
	Question  string          `json:"question" validate:"required"`
	Answer    string          `json:"answer" validate:"required"`
	Level     db.Level        `json:"level" validate:"required,oneof=Junior Mid Senior"`
	Type      db.QuestionType `json:"type" validate:"required,oneof=Conceptual Practical SystemDesign Tricky"`
	Source    db.Source       `json:"source"`
	Approved  bool            `json:"approved"`
	CreatedAt time.Time       `json:"createdAt"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	Generation string `json:"generation"`
	Schema     int64  `json:"schema"`
}
