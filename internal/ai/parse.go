package ai

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	nanoid "github.com/matoous/go-nanoid/v2"

	"interviewcards/internal/db"
)

//go:embed templates/generate_flashcards.txt
var promptTemplate string

const anyLevel = "cualquier nivel"

// BuildPrompt fills the generation template for the given request.
func BuildPrompt(req GenerateRequest) string {
	level := anyLevel
	if req.Level != nil {
		level = string(*req.Level)
	}

	r := strings.NewReplacer(
		"{{theme}}", req.Theme,
		"{{stack}}", req.Stack,
		"{{level}}", level,
		"{{count}}", strconv.Itoa(req.Count),
	)
	return r.Replace(promptTemplate)
}

// generatedFlashcard is the shape the model is asked to produce. Field
// matching is case-insensitive through encoding/json.
type generatedFlashcard struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
	Level    *string `json:"level"`
	Type     *string `json:"type"`
}

// StripCodeFence removes a leading ```json or ``` and a trailing ``` from
// the trimmed content. Each marker is stripped on its own.
func StripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// ParseFlashcards turns model output into normalized candidates, keeping the
// model's order. An empty array yields no candidates and no error; malformed
// JSON is an error.
func ParseFlashcards(content string) ([]db.Flashcard, error) {
	cleaned := StripCodeFence(content)

	var items []generatedFlashcard
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, fmt.Errorf("error parsing flashcards JSON: %w", err)
	}

	cards := make([]db.Flashcard, 0, len(items))
	for _, item := range items {
		cards = append(cards, db.Flashcard{
			ID:       nanoid.Must(),
			Question: deref(item.Question),
			Answer:   deref(item.Answer),
			Level:    ParseLevel(deref(item.Level)),
			Type:     ParseQuestionType(deref(item.Type)),
			Source:   db.SourceAI,
			Approved: false,
		})
	}

	return cards, nil
}

// ParseLevel maps free text to a level, defaulting to Mid.
func ParseLevel(s string) db.Level {
	switch strings.ToLower(s) {
	case "junior":
		return db.LevelJunior
	case "mid":
		return db.LevelMid
	case "senior":
		return db.LevelSenior
	default:
		return db.LevelMid
	}
}

// ParseQuestionType maps free text to a question type, defaulting to Conceptual.
func ParseQuestionType(s string) db.QuestionType {
	switch strings.ToLower(s) {
	case "conceptual":
		return db.TypeConceptual
	case "practical":
		return db.TypePractical
	case "systemdesign":
		return db.TypeSystemDesign
	case "tricky":
		return db.TypeTricky
	default:
		return db.TypeConceptual
	}
}

// parseOllamaResponse unwraps the {"response": "..."} envelope. A body
// without that field is taken as the model output itself.
func parseOllamaResponse(body []byte) ([]db.Flashcard, error) {
	return ParseFlashcards(extractOllamaContent(body))
}

func extractOllamaContent(body []byte) string {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return string(body)
	}

	raw, ok := envelope["response"]
	if !ok {
		return string(body)
	}

	var content *string
	if err := json.Unmarshal(raw, &content); err != nil {
		// not a string; hand the raw value to the array parser
		return string(raw)
	}

	return deref(content)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
