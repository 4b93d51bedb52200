package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/livepoll/livepoll/cliparse"
	"github.com/livepoll/livepoll/db"
	"github.com/livepoll/livepoll/models"
	"github.com/livepoll/livepoll/store"
)

// SetupTestDB opens a fresh SQLite database in a per-test temp dir and
// installs the full schema. The file (and everything in it) is removed
// when the test finishes.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "livepoll_test.db")
	conn, err := db.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3525,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		HostKeySalt:  "test-host-salt",
		VoteRetries:  3,
	}
}

// NewTestStore wraps a fresh test database in a PollStore.
func NewTestStore(t *testing.T) *store.PollStore {
	t.Helper()
	return store.New(SetupTestDB(t), GetTestConfig().VoteRetries)
}

// TestQuestions is a two-question fixture: three options then two.
func TestQuestions() []models.Question {
	return []models.Question{
		{
			Text: "Favorite language?",
			Options: []models.Option{
				{Text: "Go"}, {Text: "Rust"}, {Text: "Python"},
			},
		},
		{
			Text: "Tabs or spaces?",
			Options: []models.Option{
				{Text: "Tabs"}, {Text: "Spaces"},
			},
		},
	}
}

// CreateTestPoll creates a poll with the standard fixture questions
// and moves it to the requested status. Live polls start on question 0
// with voting open.
func CreateTestPoll(t *testing.T, s *store.PollStore, status string) models.Poll {
	t.Helper()

	poll, err := s.CreatePoll("u_test-owner", "Test Poll", TestQuestions())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	switch status {
	case models.StatusDraft:
	case models.StatusLive:
		if err := s.StartPresentation(poll.ID, nil); err != nil {
			t.Fatalf("Failed to start test poll: %v", err)
		}
	case models.StatusEnded:
		if err := s.StartPresentation(poll.ID, nil); err != nil {
			t.Fatalf("Failed to start test poll: %v", err)
		}
		if err := s.EndPoll(poll.ID); err != nil {
			t.Fatalf("Failed to end test poll: %v", err)
		}
	default:
		t.Fatalf("Unknown test poll status %q", status)
	}

	got, err := s.GetPoll(poll.ID)
	if err != nil {
		t.Fatalf("Failed to reload test poll: %v", err)
	}
	return got
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// DecodeJSON decodes a recorded response body, failing the test on a
// malformed payload.
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
}

// AssertStatus fails the test when the recorded status differs.
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, want, w.Body.String())
	}
}
