package editor

import (
	"bytes"
	"database/sql"
	"testing"

	"github.com/inkwell-blog/inkwell/internal/config"
	"github.com/inkwell-blog/inkwell/internal/sse"
	_ "github.com/mattn/go-sqlite3"
)

// In-memory database for testing
type testDb struct {
	*sql.DB
}

func (t *testDb) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return t.DB.Query(query, args...)
}

func (t *testDb) Exec(query string, args ...interface{}) (sql.Result, error) {
	return t.DB.Exec(query, args...)
}

func (t *testDb) Get() *sql.DB {
	return t.DB
}

func (t *testDb) Close() error {
	return t.DB.Close()
}

func (t *testDb) InitDB() error {
	_, err := t.DB.Exec(`
		CREATE TABLE IF NOT EXISTS drafts (
			id TEXT PRIMARY KEY,
			title TEXT,
			content BLOB,
			user_id TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func setupTestDb(t *testing.T) *testDb {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	testDB := &testDb{DB: sqlDB}
	if err := testDB.InitDB(); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { testDB.Close() })
	return testDB
}

func TestDBRepository(t *testing.T) {
	testDB := setupTestDb(t)
	repo := NewDBRepository(testDB)

	content := []byte(`{"blocks":[{"id":"a","type":"paragraph","data":{"text":"Hello","styles":{}}}]}`)

	t.Run("Create and get draft", func(t *testing.T) {
		draft, err := repo.CreateDraft()
		if err != nil {
			t.Fatalf("Failed to create draft: %v", err)
		}
		if draft.ID == "" {
			t.Error("Expected a draft id")
		}
		if draft.Initialized {
			t.Error("New draft should not be initialized")
		}

		got, err := repo.GetDraft(draft.ID)
		if err != nil {
			t.Fatalf("Failed to get draft: %v", err)
		}
		if len(got.Content) != 0 {
			t.Errorf("Expected empty content, got %s", got.Content)
		}
	})

	t.Run("Save round-trips content", func(t *testing.T) {
		draft, err := repo.CreateDraft()
		if err != nil {
			t.Fatalf("Failed to create draft: %v", err)
		}

		if err := repo.SaveDraft(draft.ID, content); err != nil {
			t.Fatalf("Failed to save draft: %v", err)
		}

		got, err := repo.GetDraft(draft.ID)
		if err != nil {
			t.Fatalf("Failed to get draft: %v", err)
		}
		if !bytes.Equal(got.Content, content) {
			t.Errorf("Content = %s, want %s", got.Content, content)
		}
		if !got.Initialized {
			t.Error("Draft with content should be initialized")
		}
	})

	t.Run("Save to unknown draft inserts when non-empty", func(t *testing.T) {
		if err := repo.SaveDraft("adopted", content); err != nil {
			t.Fatalf("Failed to save draft: %v", err)
		}
		got, err := repo.GetDraft("adopted")
		if err != nil {
			t.Fatalf("Failed to get draft: %v", err)
		}
		if !bytes.Equal(got.Content, content) {
			t.Errorf("Content = %s, want %s", got.Content, content)
		}
	})

	t.Run("Empty save to unknown draft is dropped", func(t *testing.T) {
		if err := repo.SaveDraft("ghost", nil); err != nil {
			t.Fatalf("Expected nil error, got %v", err)
		}
		if _, err := repo.GetDraft("ghost"); err == nil {
			t.Error("Expected error for draft that was never created")
		}
	})

	t.Run("Delete removes the draft", func(t *testing.T) {
		draft, err := repo.CreateDraft()
		if err != nil {
			t.Fatalf("Failed to create draft: %v", err)
		}
		if err := repo.DeleteDraft(draft.ID); err != nil {
			t.Fatalf("Failed to delete draft: %v", err)
		}
		if _, err := repo.GetDraft(draft.ID); err == nil {
			t.Error("Expected error getting deleted draft")
		}
	})

	t.Run("Unknown draft errors", func(t *testing.T) {
		if _, err := repo.GetDraft("nope"); err == nil {
			t.Error("Expected error for unknown draft")
		}
	})
}

// A second repository over the same database must see drafts saved by
// the first, which is what keeps drafts alive across a restart.
func TestDBRepositorySurvivesRestart(t *testing.T) {
	testDB := setupTestDb(t)

	first := NewDBRepository(testDB)
	draft, err := first.CreateDraft()
	if err != nil {
		t.Fatalf("Failed to create draft: %v", err)
	}

	content := []byte(`{"blocks":[{"id":"b","type":"heading","data":{"text":"Title","level":2,"styles":{}}}]}`)
	if err := first.SaveDraft(draft.ID, content); err != nil {
		t.Fatalf("Failed to save draft: %v", err)
	}

	second := NewDBRepository(testDB)
	got, err := second.GetDraft(draft.ID)
	if err != nil {
		t.Fatalf("Failed to get draft after restart: %v", err)
	}
	if !bytes.Equal(got.Content, content) {
		t.Errorf("Content = %s, want %s", got.Content, content)
	}
}

func TestHandlerWithDBRepository(t *testing.T) {
	testDB := setupTestDb(t)
	repo := NewDBRepository(testDB)

	if config.AppConfig == nil {
		config.AppConfig = &config.Config{}
		config.ApplyDefaults(config.AppConfig)
	}
	h := NewHandler(repo, &fakeUploader{url: "/uploaded.png"}, sse.NewSSEClients(), nil)
	mux := newTestMux(h)

	draft, err := repo.CreateDraft()
	if err != nil {
		t.Fatalf("Failed to create draft: %v", err)
	}

	block := insertViaAPI(t, mux, draft.ID, "paragraph")

	stored, err := repo.GetDraft(draft.ID)
	if err != nil {
		t.Fatalf("Failed to get draft: %v", err)
	}
	if !bytes.Contains(stored.Content, []byte(block.ID)) {
		t.Errorf("Persisted draft %s should contain block %s", stored.Content, block.ID)
	}
}
