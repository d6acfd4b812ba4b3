package api

import (
	"context"

	"menu-planner/domain"
)

// Journal records applied commands for auditing and replay.
type Journal interface {
	EnqueueCommands(ctx context.Context, boardID string, cmds []domain.Command) error
}

// Deduper prevents a command from being applied twice.
type Deduper interface {
	// AddMany records the keys and reports which of them were newly added.
	AddMany(ctx context.Context, boardID string, keys []string) ([]bool, error)
	// Remove deletes a previously added key so the command may be retried.
	Remove(ctx context.Context, boardID, key string) error
}
