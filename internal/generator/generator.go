package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"interviewcards/internal/ai"
	"interviewcards/internal/db"
)

// DefaultCount is used when the caller does not say how many flashcards to generate.
const DefaultCount = 5

var (
	ErrThemeNotFound         = errors.New("theme not found")
	ErrNoFlashcardsGenerated = errors.New("no flashcards could be generated")
)

// Generator turns a theme into a batch of unapproved AI flashcards.
type Generator struct {
	storage *db.Storage
	client  ai.FlashcardGenerator
	logger  *slog.Logger
}

func NewGenerator(storage *db.Storage, client ai.FlashcardGenerator, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		storage: storage,
		client:  client,
		logger:  logger,
	}
}

// Client exposes the underlying generation client, e.g. for health probes.
func (g *Generator) Client() ai.FlashcardGenerator {
	return g.client
}

// Generate asks the generation client for count flashcards about the theme
// and stores all of them in one transaction as unapproved AI drafts. The
// stored flashcards are returned in the order the model produced them.
func (g *Generator) Generate(ctx context.Context, themeID string, level *db.Level, count int) ([]db.Flashcard, error) {
	if count <= 0 {
		count = DefaultCount
	}

	theme, err := g.storage.GetTheme(themeID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrThemeNotFound, themeID)
		}
		return nil, fmt.Errorf("error getting theme: %w", err)
	}

	// the generation call is bounded by the client's own timeout, not by the caller
	callCtx := context.WithoutCancel(ctx)

	candidates, err := g.client.GenerateFlashcards(callCtx, ai.GenerateRequest{
		Theme: theme.Name,
		Stack: theme.StackTechnology,
		Level: level,
		Count: count,
	})
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		g.logger.WarnContext(ctx, "generation returned no flashcards", "theme_id", themeID)
		return nil, ErrNoFlashcardsGenerated
	}

	drafts := make([]db.Flashcard, 0, len(candidates))
	for _, c := range candidates {
		drafts = append(drafts, db.Flashcard{
			ID:       c.ID,
			Question: c.Question,
			Answer:   c.Answer,
			Level:    c.Level,
			Type:     c.Type,
			Source:   db.SourceAI,
			Approved: false,
		})
	}

	saved, err := g.storage.AddFlashcardsInBatch(theme.ID, drafts)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			// theme deleted while the model was busy
			return nil, fmt.Errorf("%w: %s", ErrThemeNotFound, themeID)
		}
		return nil, fmt.Errorf("error saving generated flashcards: %w", err)
	}

	g.logger.InfoContext(ctx, "generated flashcards", "theme_id", theme.ID, "requested", count, "created", len(saved))

	return saved, nil
}
