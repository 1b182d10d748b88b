package audit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ferro-labs/ferrohooks"
	"github.com/ferro-labs/ferrohooks/internal/runlog"
)

func TestAuditLog_RecordsRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	b, err := New(map[string]interface{}{"driver": "sqlite", "dsn": dbPath})
	if err != nil {
		t.Fatal(err)
	}
	b.Key = "request.received"

	r := ferrohooks.New(nil)
	if err := r.Register(b); err != nil {
		t.Fatal(err)
	}
	if err := r.Setup(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Run(context.Background(), "request.received", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Run(context.Background(), "request.received", nil); err != nil {
		t.Fatal(err)
	}
	// Teardown closes the store.
	if err := r.Teardown(context.Background()); err != nil {
		t.Fatal(err)
	}

	store, err := runlog.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })

	entries, err := store.List(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 run log entries, got %d", len(entries))
	}
	if entries[0].Key != "request.received" || entries[0].Hook != "audit-log" {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
}

func TestAuditLog_NoopDriver(t *testing.T) {
	b, err := New(map[string]interface{}{"driver": "noop"})
	if err != nil {
		t.Fatal(err)
	}
	b.Key = "k"

	r := ferrohooks.New(nil)
	if err := r.Register(b); err != nil {
		t.Fatal(err)
	}
	if err := r.Setup(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Run(context.Background(), "k", nil); err != nil {
		t.Fatal(err)
	}
	if err := r.Teardown(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestAuditLog_UnknownDriver(t *testing.T) {
	if _, err := New(map[string]interface{}{"driver": "oracle"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}
