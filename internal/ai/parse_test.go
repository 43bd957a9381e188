package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewcards/internal/db"
)

func TestParseOllamaResponse_FencedJSON(t *testing.T) {
	body := `{"response": "` + "```json\\n" + `[{\"question\":\"Q\",\"answer\":\"A\",\"level\":\"junior\",\"type\":\"practical\"}]\n` + "```" + `"}`

	cards, err := parseOllamaResponse([]byte(body))
	require.NoError(t, err)
	require.Len(t, cards, 1)

	card := cards[0]
	assert.Equal(t, "Q", card.Question)
	assert.Equal(t, "A", card.Answer)
	assert.Equal(t, db.LevelJunior, card.Level)
	assert.Equal(t, db.TypePractical, card.Type)
	assert.Equal(t, db.SourceAI, card.Source)
	assert.False(t, card.Approved)
	assert.NotEmpty(t, card.ID)
	assert.Empty(t, card.ThemeID)
	assert.True(t, card.CreatedAt.IsZero())
}

func TestParseOllamaResponse_Envelope(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		questions []string
		wantErr   bool
	}{
		{
			name:      "plain array in response field",
			body:      `{"model":"llama3","response":"[{\"question\":\"Q1\",\"answer\":\"A1\"}]","done":true}`,
			questions: []string{"Q1"},
		},
		{
			name:      "no response field uses raw body",
			body:      `[{"question":"Q1","answer":"A1"},{"question":"Q2","answer":"A2"}]`,
			questions: []string{"Q1", "Q2"},
		},
		{
			name:      "empty array",
			body:      `{"response":"[]"}`,
			questions: []string{},
		},
		{
			name:    "malformed model output",
			body:    `{"response":"[{\"question\": \"Q1\""}`,
			wantErr: true,
		},
		{
			name:    "object instead of array",
			body:    `{"response":"{\"question\":\"Q1\"}"}`,
			wantErr: true,
		},
		{
			name:    "empty response string",
			body:    `{"response":""}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards, err := parseOllamaResponse([]byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			questions := make([]string, 0, len(cards))
			for _, c := range cards {
				questions = append(questions, c.Question)
			}
			assert.Equal(t, tt.questions, questions)
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no fence", `[]`, `[]`},
		{"json fence", "```json\n[]\n```", `[]`},
		{"bare fence", "```\n[1]\n```", `[1]`},
		{"surrounding whitespace", "  \n```json [] ```  \n", `[]`},
		{"only opening fence", "```json\n[]", `[]`},
		{"only closing fence", "[]\n```", `[]`},
		{"inner fence is kept", "```json\n[\"```\"]\n```", "[\"```\"]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripCodeFence(tt.input))
		})
	}
}

func TestParseFlashcards_Normalization(t *testing.T) {
	content := `[
		{"question":"Q1","answer":"A1","level":"expert"},
		{"QUESTION":"Q2","Answer":"A2","Level":"SENIOR","Type":"SystemDesign"},
		{"level":"Mid","type":"TRICKY"},
		{"question":"Q4","answer":"A4","level":"","type":"unknown"}
	]`

	cards, err := ParseFlashcards(content)
	require.NoError(t, err)
	require.Len(t, cards, 4)

	assert.Equal(t, db.LevelMid, cards[0].Level, "unrecognized level defaults to Mid")
	assert.Equal(t, db.TypeConceptual, cards[0].Type, "missing type defaults to Conceptual")

	assert.Equal(t, "Q2", cards[1].Question, "field names match case-insensitively")
	assert.Equal(t, "A2", cards[1].Answer)
	assert.Equal(t, db.LevelSenior, cards[1].Level)
	assert.Equal(t, db.TypeSystemDesign, cards[1].Type)

	assert.Equal(t, "", cards[2].Question, "missing question becomes empty")
	assert.Equal(t, "", cards[2].Answer)
	assert.Equal(t, db.LevelMid, cards[2].Level)
	assert.Equal(t, db.TypeTricky, cards[2].Type)

	assert.Equal(t, db.LevelMid, cards[3].Level)
	assert.Equal(t, db.TypeConceptual, cards[3].Type)

	ids := map[string]bool{}
	for _, c := range cards {
		assert.Equal(t, db.SourceAI, c.Source)
		assert.False(t, c.Approved)
		ids[c.ID] = true
	}
	assert.Len(t, ids, 4, "every candidate gets its own id")
}

func TestParseLevelAndType(t *testing.T) {
	assert.Equal(t, db.LevelJunior, ParseLevel("Junior"))
	assert.Equal(t, db.LevelJunior, ParseLevel("JUNIOR"))
	assert.Equal(t, db.LevelSenior, ParseLevel("senior"))
	assert.Equal(t, db.LevelMid, ParseLevel("Principal"))
	assert.Equal(t, db.LevelMid, ParseLevel(""))

	assert.Equal(t, db.TypePractical, ParseQuestionType("Practical"))
	assert.Equal(t, db.TypeSystemDesign, ParseQuestionType("systemdesign"))
	assert.Equal(t, db.TypeTricky, ParseQuestionType("Tricky"))
	assert.Equal(t, db.TypeConceptual, ParseQuestionType("System Design"))
	assert.Equal(t, db.TypeConceptual, ParseQuestionType(""))
}

func TestBuildPrompt(t *testing.T) {
	senior := db.LevelSenior
	prompt := BuildPrompt(GenerateRequest{Theme: "Concurrency", Stack: "Go", Level: &senior, Count: 7})

	assert.Contains(t, prompt, "Tema: Concurrency")
	assert.Contains(t, prompt, "Stack: Go")
	assert.Contains(t, prompt, "Nivel: Senior")
	assert.Contains(t, prompt, "Genera exactamente 7 preguntas")
	assert.Contains(t, prompt, `"question"`)
	assert.False(t, strings.Contains(prompt, "{{"), "all placeholders replaced")

	anyLevelPrompt := BuildPrompt(GenerateRequest{Theme: "Concurrency", Stack: "Go", Count: 3})
	assert.Contains(t, anyLevelPrompt, "Nivel: cualquier nivel")
}
