package memory

import (
	"context"
	"testing"
	"time"
)

func TestSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(time.Minute)

	if err := store.Put(ctx, "tok-1", "alice"); err != nil {
		t.Fatalf("put: %v", err)
	}
	username, ok, err := store.Lookup(ctx, "tok-1")
	if err != nil || !ok || username != "alice" {
		t.Fatalf("expected alice session, got %q ok=%v err=%v", username, ok, err)
	}

	if err := store.Delete(ctx, "tok-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Lookup(ctx, "tok-1"); ok {
		t.Fatalf("expected session removed")
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1000, 0)
	store := NewSessionStoreWithClock(time.Minute, func() time.Time { return now })

	_ = store.Put(ctx, "tok-1", "alice")
	now = now.Add(61 * time.Second)
	if _, ok, _ := store.Lookup(ctx, "tok-1"); ok {
		t.Fatalf("expected expired session to be rejected")
	}
}
