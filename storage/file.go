package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"menu-planner/domain"
)

// File keeps a single draft in a local file. The key is ignored.
type File struct {
	Path string
}

func (f File) SaveDraft(ctx context.Context, _ string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(f.Path, payload, 0o644)
}

func (f File) LoadDraft(ctx context.Context, _ string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrDraftNotFound
	}
	return data, err
}
