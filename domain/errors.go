package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSection is returned for meal section names outside the fixed set.
	ErrUnknownSection = errors.New("unknown meal section")
	// ErrDayLocked is returned when a single day slot is edited while the row
	// mirrors its resolved options on every day.
	ErrDayLocked = errors.New("day slots are locked while apply-to-all is on")
	// ErrInvalidDay is returned for day indexes outside Mon..Sun.
	ErrInvalidDay = errors.New("invalid day index")
	// ErrUnknownCommand is returned by Board.Apply for unsupported command types.
	ErrUnknownCommand = errors.New("unknown command type")
	// ErrFetchPending is returned when a section prefill is already in flight.
	ErrFetchPending = errors.New("fetch already in progress")
	// ErrDraftNotFound is returned by draft stores when no draft was saved yet.
	ErrDraftNotFound = errors.New("draft not found")
)

// CommandError reports which command of a batch failed.
type CommandError struct {
	Index int
	Type  CommandType
	Err   error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %d (%s): %v", e.Index, e.Type, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
