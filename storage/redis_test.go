package storage

import (
	"context"
	"errors"
	"testing"

	"menu-planner/domain"
)

func TestRedisStoreSaveLoad(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()
	store := NewRedisStore(client)

	if _, err := store.LoadDraft(ctx, domain.DraftKey); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound, got %v", err)
	}
	if err := store.SaveDraft(ctx, domain.DraftKey, []byte("first")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveDraft(ctx, domain.DraftKey, []byte("second")); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.LoadDraft(ctx, domain.DraftKey)
	if err != nil || string(got) != "second" {
		t.Fatalf("expected last write to win, got %q %v", got, err)
	}
	if ttl := mr.TTL(domain.DraftKey); ttl != 0 {
		t.Fatalf("expected no expiry, got %v", ttl)
	}
}

func TestRedisStoreSurfacesConnectionErrors(t *testing.T) {
	mr, client := newRedis(t)
	mr.Close()
	if _, err := NewRedisStore(client).LoadDraft(context.Background(), domain.DraftKey); err == nil || errors.Is(err, domain.ErrDraftNotFound) {
		t.Fatalf("expected a connection error, got %v", err)
	}
}
