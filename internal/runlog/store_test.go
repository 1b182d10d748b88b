package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteStore_WriteList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	now := time.Now().UTC()
	entries := []Entry{
		{
			InvocationID: "inv-1",
			Phase:        "setup",
			Key:          "request.received",
			Hook:         "audit-log",
			DurationMS:   3,
			CreatedAt:    now.Add(-2 * time.Hour),
		},
		{
			InvocationID: "inv-2",
			Phase:        "run",
			Key:          "request.received",
			Hook:         "audit-log",
			DurationMS:   12,
			CreatedAt:    now.Add(-1 * time.Hour),
		},
		{
			InvocationID: "inv-3",
			Phase:        "run",
			Key:          "response.ready",
			Hook:         "audit-log",
			DurationMS:   1,
			ErrorMessage: "hook rejected run",
			CreatedAt:    now,
		},
	}

	for _, entry := range entries {
		if err := s.Write(context.Background(), entry); err != nil {
			t.Fatalf("write run log entry: %v", err)
		}
	}

	got, err := s.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("list run log: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	// Newest first.
	if got[0].InvocationID != "inv-3" || got[2].InvocationID != "inv-1" {
		t.Errorf("unexpected order: %q, %q, %q", got[0].InvocationID, got[1].InvocationID, got[2].InvocationID)
	}
	if got[0].ErrorMessage != "hook rejected run" {
		t.Errorf("error message not persisted: %+v", got[0])
	}
}

func TestSQLiteStore_ListLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	for i := 0; i < 5; i++ {
		if err := s.Write(context.Background(), Entry{
			Phase: "run",
			Key:   "request.received",
		}); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	got, err := s.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected limit of 2, got %d entries", len(got))
	}
}

func TestNewPostgresStore_RequiresDSN(t *testing.T) {
	if _, err := NewPostgresStore("  "); err == nil {
		t.Error("expected error for empty postgres dsn")
	}
}
