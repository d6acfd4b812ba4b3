package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"menu-planner/domain"
)

type stubBackend struct {
	saveDraftFn func(ctx context.Context, key string, payload []byte) error
	loadDraftFn func(ctx context.Context, key string) ([]byte, error)
}

func (s *stubBackend) SaveDraft(ctx context.Context, key string, payload []byte) error {
	if s.saveDraftFn == nil {
		return errors.New("unexpected SaveDraft call")
	}
	return s.saveDraftFn(ctx, key, payload)
}

func (s *stubBackend) LoadDraft(ctx context.Context, key string) ([]byte, error) {
	if s.loadDraftFn == nil {
		return nil, errors.New("unexpected LoadDraft call")
	}
	return s.loadDraftFn(ctx, key)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCacheLoadDraftMissThenHit(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()
	expected := `{"Lunch":[]}`

	var calls int
	cache := NewCache(&stubBackend{
		loadDraftFn: func(ctx context.Context, key string) ([]byte, error) {
			calls++
			if key != domain.DraftKey {
				t.Fatalf("unexpected key: %s", key)
			}
			return []byte(expected), nil
		},
	}, client, time.Minute)

	payload, err := cache.LoadDraft(ctx, domain.DraftKey)
	if err != nil {
		t.Fatalf("load draft: %v", err)
	}
	if string(payload) != expected {
		t.Fatalf("unexpected payload: %s", payload)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call to backend, got %d", calls)
	}
	if ttl := mr.TTL(draftCacheKey(domain.DraftKey)); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected TTL: %v", ttl)
	}

	cached, err := cache.LoadDraft(ctx, domain.DraftKey)
	if err != nil {
		t.Fatalf("load cached draft: %v", err)
	}
	if string(cached) != expected {
		t.Fatalf("unexpected cached payload: %s", cached)
	}
	if calls != 1 {
		t.Fatalf("expected cached load to avoid backend, calls=%d", calls)
	}
}

func TestCacheLoadDraftNotFoundIsNotCached(t *testing.T) {
	mr, client := newRedis(t)
	cache := NewCache(&stubBackend{
		loadDraftFn: func(context.Context, string) ([]byte, error) {
			return nil, domain.ErrDraftNotFound
		},
	}, client, time.Minute)

	if _, err := cache.LoadDraft(context.Background(), domain.DraftKey); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound, got %v", err)
	}
	if mr.Exists(draftCacheKey(domain.DraftKey)) {
		t.Fatalf("miss should not be cached")
	}
}

func TestCacheSaveDraftWritesThrough(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()

	var saved []byte
	cache := NewCache(&stubBackend{
		saveDraftFn: func(_ context.Context, _ string, payload []byte) error {
			saved = payload
			return nil
		},
	}, client, time.Minute)

	if err := cache.SaveDraft(ctx, domain.DraftKey, []byte("v2")); err != nil {
		t.Fatalf("save draft: %v", err)
	}
	if string(saved) != "v2" {
		t.Fatalf("backend not written: %q", saved)
	}
	got, err := mr.Get(draftCacheKey(domain.DraftKey))
	if err != nil || got != "v2" {
		t.Fatalf("cache not refreshed: %q %v", got, err)
	}
}

func TestCacheSaveDraftErrorEvicts(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()
	if err := mr.Set(draftCacheKey(domain.DraftKey), "stale"); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	boom := errors.New("table unavailable")
	cache := NewCache(&stubBackend{
		saveDraftFn: func(context.Context, string, []byte) error { return boom },
	}, client, time.Minute)

	if err := cache.SaveDraft(ctx, domain.DraftKey, []byte("v3")); !errors.Is(err, boom) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if mr.Exists(draftCacheKey(domain.DraftKey)) {
		t.Fatalf("expected cached draft to be evicted")
	}
}

func TestCacheWithoutRedisPassesThrough(t *testing.T) {
	var calls int
	cache := NewCache(&stubBackend{
		loadDraftFn: func(context.Context, string) ([]byte, error) {
			calls++
			return []byte("x"), nil
		},
	}, nil, time.Minute)
	for i := 0; i < 2; i++ {
		if _, err := cache.LoadDraft(context.Background(), "k"); err != nil {
			t.Fatalf("load: %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("expected every load to hit the backend, got %d", calls)
	}
}

func TestCacheBoardDraftRoundTrip(t *testing.T) {
	_, client := newRedis(t)
	ctx := context.Background()
	cache := NewCache(NewRedisStore(client), client, time.Minute)

	board := domain.NewBoard(domain.DefaultCatalog())
	board.AddRow(domain.Lunch)
	board.SetCategories(domain.Lunch, 0, []string{"Sandwich"})
	board.SetApplyAll(domain.Lunch, 0, true)
	if err := board.SaveDraft(ctx, cache); err != nil {
		t.Fatalf("save: %v", err)
	}

	restored := domain.NewBoard(domain.DefaultCatalog())
	if err := restored.LoadDraft(ctx, cache); err != nil {
		t.Fatalf("load: %v", err)
	}
	rows, _ := restored.Rows(domain.Lunch)
	if len(rows) != 1 || !rows[0].ApplyToAll || len(rows[0].Days[6]) != 3 {
		t.Fatalf("unexpected restored rows: %#v", rows)
	}
}
