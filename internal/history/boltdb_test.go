package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/ServerWatch/conn-monitor/internal/domain"
)

func newTestStore(t *testing.T) *BoltDBStore {
	t.Helper()
	store, err := NewBoltDBStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testEvent(i int, at time.Time) *domain.ConnectionEvent {
	return &domain.ConnectionEvent{
		ID:         fmt.Sprintf("id-%d", i),
		ObservedAt: at,
		Region:     "EastUs",
		ServerID:   fmt.Sprintf("srv-%d", i),
		SessionID:  fmt.Sprintf("session-%d", i),
		Address:    "203.0.113.5:7777",
		Source:     "client.log",
	}
}

func TestBoltDBStore_AppendAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := store.Append(ctx, testEvent(i, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	// Newest first
	for i, wantServer := range []string{"srv-4", "srv-3", "srv-2"} {
		if entries[i].ServerID != wantServer {
			t.Errorf("entries[%d].ServerID = %q, want %q", i, entries[i].ServerID, wantServer)
		}
	}
}

func TestBoltDBStore_Last(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	last, err := store.Last(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if last != nil {
		t.Fatalf("Last() on empty journal = %+v, want nil", last)
	}

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		if err := store.Append(ctx, testEvent(i, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}

	last, err = store.Last(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if last == nil || last.ServerID != "srv-1" {
		t.Errorf("Last() = %+v, want srv-1", last)
	}
}

func TestBoltDBStore_RecentLimitLargerThanJournal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Append(ctx, testEvent(0, time.Now().UTC())); err != nil {
		t.Fatal(err)
	}

	entries, err := store.Recent(ctx, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d entries, want 1", len(entries))
	}
}
