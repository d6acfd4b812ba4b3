package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"menu-planner/domain"
)

func TestFileDraftRoundTrip(t *testing.T) {
	store := File{Path: filepath.Join(t.TempDir(), "nested", "draft.json")}
	ctx := context.Background()

	if _, err := store.LoadDraft(ctx, domain.DraftKey); !errors.Is(err, domain.ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound, got %v", err)
	}

	board := domain.NewBoard(domain.DefaultCatalog())
	board.AddRow(domain.Snack)
	board.SetCategories(domain.Snack, 0, []string{"Chips"})
	if err := board.SaveDraft(ctx, store); err != nil {
		t.Fatalf("save: %v", err)
	}

	restored := domain.NewBoard(domain.DefaultCatalog())
	if err := restored.LoadDraft(ctx, store); err != nil {
		t.Fatalf("load: %v", err)
	}
	rows, _ := restored.Rows(domain.Snack)
	if len(rows) != 1 || rows[0].Categories[0] != "Chips" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestFileDraftHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := File{Path: filepath.Join(t.TempDir(), "draft.json")}
	if err := store.SaveDraft(ctx, domain.DraftKey, []byte("{}")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
