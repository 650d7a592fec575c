package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/waterfall/pkg/cache"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

var rows = []waterfall.RawItem{
	{Name: "A", Value: waterfall.Num(10)},
	{Name: "B", Value: waterfall.Num(-4)},
}

func TestNew(t *testing.T) {
	s := New(rows, waterfall.Options{Width: 300}, time.Hour)
	if !strings.HasPrefix(s.ID, "chart_") {
		t.Errorf("ID = %q", s.ID)
	}
	if s.IsExpired() {
		t.Error("new session expired")
	}
	if forever := New(rows, waterfall.Options{}, 0); forever.IsExpired() || !forever.ExpiresAt.IsZero() {
		t.Error("session without ttl should never expire")
	}
}

func TestTouch(t *testing.T) {
	s := New(rows, waterfall.Options{}, time.Minute)
	before := s.ExpiresAt
	time.Sleep(time.Millisecond)
	s.Touch(rows[:1], waterfall.Options{TotalLabel: "Net"}, time.Hour)
	if len(s.Data) != 1 || s.Options.TotalLabel != "Net" {
		t.Errorf("Touch did not replace state: %+v", s)
	}
	if !s.ExpiresAt.After(before) || !s.UpdatedAt.After(s.CreatedAt) {
		t.Error("Touch did not extend expiry")
	}
}

func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if got, err := store.Get(ctx, "chart_missing"); got != nil || err != nil {
		t.Errorf("Get(missing) = %v, %v", got, err)
	}

	s := New(rows, waterfall.Options{Width: 300, TotalLabel: "Net"}, time.Hour)
	if err := store.Set(ctx, s); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := store.Get(ctx, s.ID)
	if err != nil || got == nil {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if got.ID != s.ID || len(got.Data) != 2 || *got.Data[1].Value != -4 || got.Options.TotalLabel != "Net" {
		t.Errorf("round trip mismatch: %+v", got)
	}

	expired := New(rows, waterfall.Options{}, time.Hour)
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	if err := store.Set(ctx, expired); err != nil {
		t.Fatalf("Set(expired): %v", err)
	}
	if got, _ := store.Get(ctx, expired.ID); got != nil {
		t.Error("expired session returned")
	}
	if err := store.Cleanup(ctx); err != nil {
		t.Errorf("Cleanup: %v", err)
	}

	if err := store.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := store.Get(ctx, s.ID); got != nil {
		t.Error("session survived Delete")
	}
	if err := store.Delete(ctx, s.ID); err != nil {
		t.Errorf("Delete(missing): %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	testStore(t, store)
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	old := New(rows, waterfall.Options{}, time.Hour)
	old.ExpiresAt = time.Now().Add(-time.Second)
	_ = store.Set(ctx, old)
	_ = store.Set(ctx, New(rows, waterfall.Options{}, time.Hour))
	if err := store.Cleanup(ctx); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d after cleanup, want 1", store.Len())
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s := New(rows, waterfall.Options{TotalLabel: "A"}, 0)
	_ = store.Set(ctx, s)
	s.Options.TotalLabel = "B"
	got, _ := store.Get(ctx, s.ID)
	if got.Options.TotalLabel != "A" {
		t.Error("store shares state with caller")
	}
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	testStore(t, store)
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "sessions"))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "secret.json"), []byte(`{"id":"x"}`), 0600); err != nil {
		t.Fatal(err)
	}
	if got, err := store.Get(ctx, "../secret"); got != nil || err != nil {
		t.Errorf("Get(../secret) = %v, %v", got, err)
	}
	bad := New(rows, waterfall.Options{}, 0)
	bad.ID = "../escape"
	if err := store.Set(ctx, bad); err == nil {
		t.Error("Set accepted a path id")
	}
}

func TestRedisStoreUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := NewRedisStore(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	if !errors.Is(err, cache.ErrNetwork) {
		t.Errorf("err = %v, want ErrNetwork", err)
	}
}
