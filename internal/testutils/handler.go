package testutils

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"interviewcards/internal/ai"
	"interviewcards/internal/db"
	"interviewcards/internal/generator"
	"interviewcards/internal/handler"
	"interviewcards/internal/middleware"
)

const TestDBPath = ":memory:"

// CustomValidator implements the echo.Validator interface
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// FakeOllama stands in for the generation service. Response is returned
// verbatim from /api/generate with Status.
type FakeOllama struct {
	Server *httptest.Server

	mu          sync.Mutex
	status      int
	response    string
	tagsStatus  int
	generations int
}

func NewFakeOllama(t *testing.T) *FakeOllama {
	t.Helper()

	f := &FakeOllama{
		status:     http.StatusOK,
		response:   `{"response":"[]"}`,
		tagsStatus: http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tags", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		status := f.tagsStatus
		f.mu.Unlock()

		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"models":[]}`))
	})
	mux.HandleFunc("POST /api/generate", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)

		f.mu.Lock()
		f.generations++
		status, response := f.status, f.response
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)

	return f
}

func (f *FakeOllama) Respond(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.response = body
}

// RespondWithCards wraps a raw JSON array the way the service does.
func (f *FakeOllama) RespondWithCards(cardsJSON string) {
	envelope, _ := json.Marshal(map[string]string{"response": cardsJSON})
	f.Respond(http.StatusOK, string(envelope))
}

func (f *FakeOllama) SetProbeStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tagsStatus = status
}

func (f *FakeOllama) Generations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generations
}

func setupTestDB(t *testing.T) *db.Storage {
	t.Helper()

	storage, err := db.ConnectDB(TestDBPath)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() {
		if err := storage.Close(); err != nil {
			t.Logf("Warning: Failed to close test database: %v", err)
		}
	})

	if err := storage.UpdateSchema(); err != nil {
		t.Fatalf("Failed to update schema: %v", err)
	}

	return storage
}

// SetupHandlerDependencies builds the full echo stack over a fresh in-memory
// database. A nil ollama gets a fake that answers with an empty array.
func SetupHandlerDependencies(t *testing.T, ollama *FakeOllama) *echo.Echo {
	t.Helper()

	if ollama == nil {
		ollama = NewFakeOllama(t)
	}

	storage := setupTestDB(t)

	logr := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := ai.NewOllamaClient(ai.OllamaConfig{
		BaseURL:      ollama.Server.URL,
		Model:        ai.DefaultOllamaModel,
		Timeout:      10 * time.Second,
		ProbeTimeout: time.Second,
	}, logr)
	if err != nil {
		t.Fatalf("Failed to create generation client: %v", err)
	}

	gen := generator.NewGenerator(storage, client, logr)
	h := handler.New(storage, gen, logr)

	e := echo.New()

	middleware.Setup(e, logr, nil)

	e.Validator = &CustomValidator{validator: validator.New()}

	h.RegisterRoutes(e)

	return e
}

func PerformRequest(t *testing.T, e *echo.Echo, method, path, body string, expectedStatus int) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != expectedStatus {
		t.Errorf("Expected status %d, got %d, body: %s", expectedStatus, rec.Code, rec.Body.String())
	}
	return rec
}

func ParseResponse[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var result T
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	return result
}
