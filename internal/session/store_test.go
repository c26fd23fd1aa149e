package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		CreatedAt:  now,
		LastAccess: now,
		ExpiresAt:  now.Add(time.Hour),
		Client: Client{
			Name:       "test-client",
			Version:    "1.0",
			RemoteAddr: "127.0.0.1:12345",
		},
		ProtocolVersion: "2024-11-05",
	}
}

func TestMemoryStore_SetAndGet(t *testing.T) {
	store := NewMemoryStore(zerolog.Nop())
	defer store.Close()
	ctx := context.Background()

	sess := testSession("test-session-1")
	if err := store.Set(ctx, sess.ID, sess); err != nil {
		t.Fatalf("Failed to set session: %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if got.ID != sess.ID {
		t.Errorf("Expected ID %s, got %s", sess.ID, got.ID)
	}
	if got.Client.RemoteAddr != sess.Client.RemoteAddr {
		t.Errorf("Expected remote addr %s, got %s", sess.Client.RemoteAddr, got.Client.RemoteAddr)
	}
}

func TestMemoryStore_GetNonExistent(t *testing.T) {
	store := NewMemoryStore(zerolog.Nop())
	defer store.Close()

	_, err := store.Get(context.Background(), "missing")
	if err == nil {
		t.Fatal("Expected error for missing session")
	}
	serr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Expected *Error, got %T", err)
	}
	if serr.Code != ErrNotFound {
		t.Errorf("Expected code %s, got %s", ErrNotFound, serr.Code)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore(zerolog.Nop())
	defer store.Close()
	ctx := context.Background()

	sess := testSession("test-session-2")
	if err := store.Set(ctx, sess.ID, sess); err != nil {
		t.Fatalf("Failed to set session: %v", err)
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if _, err := store.Get(ctx, sess.ID); err == nil {
		t.Error("Expected deleted session to be gone")
	}
	if err := store.Delete(ctx, sess.ID); err == nil {
		t.Error("Expected error when deleting twice")
	}
}

func TestMemoryStore_ListAndCount(t *testing.T) {
	store := NewMemoryStore(zerolog.Nop())
	defer store.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		sess := testSession(fmt.Sprintf("test-session-%d", i))
		if err := store.Set(ctx, sess.ID, sess); err != nil {
			t.Fatalf("Failed to set session %d: %v", i, err)
		}
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count sessions: %v", err)
	}
	if count != 5 {
		t.Errorf("Expected 5 sessions, got %d", count)
	}

	sessions, err := store.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list sessions: %v", err)
	}
	if len(sessions) != 5 {
		t.Errorf("Expected 5 listed sessions, got %d", len(sessions))
	}

	// Mutating a listed copy must not affect the stored session.
	sessions[0].ProtocolVersion = "mutated"
	stored, err := store.Get(ctx, sessions[0].ID)
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if stored.ProtocolVersion == "mutated" {
		t.Error("List returned a shared pointer instead of a copy")
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore(zerolog.Nop())
	defer store.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("concurrent-%d", i)
			if err := store.Set(ctx, id, testSession(id)); err != nil {
				t.Errorf("Set failed: %v", err)
			}
			if _, err := store.Get(ctx, id); err != nil {
				t.Errorf("Get failed: %v", err)
			}
			if _, err := store.List(ctx); err != nil {
				t.Errorf("List failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count sessions: %v", err)
	}
	if count != 20 {
		t.Errorf("Expected 20 sessions, got %d", count)
	}
}
