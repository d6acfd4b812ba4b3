package domain

// CommandType names a single board mutation.
type CommandType string

const (
	CmdAddRow         CommandType = "add-row"
	CmdRemoveRow      CommandType = "remove-row"
	CmdSetCategories  CommandType = "set-categories"
	CmdToggleApplyAll CommandType = "toggle-apply-all"
	CmdSetApplyAll    CommandType = "set-apply-all"
	CmdSetDay         CommandType = "set-day"
	CmdClearDay       CommandType = "clear-day"
	CmdMoveRow        CommandType = "move-row"
	CmdSetSearch      CommandType = "set-search"
	CmdExpand         CommandType = "expand"
	CmdCollapse       CommandType = "collapse"
	CmdExpandAll      CommandType = "expand-all"
	CmdCollapseAll    CommandType = "collapse-all"
	CmdDeleteAll      CommandType = "delete-all"
	CmdDeleteAllMenus CommandType = "delete-all-menus"
)

// Command represents one user action on the board. Fields a type does not use
// are ignored.
type Command struct {
	// ID carries the idempotency key once the command is journaled.
	ID             string      `json:"id,omitempty"`
	IdempotencyKey string      `json:"idempotencyKey"`
	Type           CommandType `json:"type"`
	Section        string      `json:"section,omitempty"`
	// Index is a store index, never a position in a filtered view. A non-zero
	// Row takes precedence and is resolved when the command is applied.
	Index      int      `json:"index,omitempty"`
	Row        RowID    `json:"row,omitempty"`
	To         *int     `json:"to,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Day        int      `json:"day,omitempty"`
	Options    []string `json:"options,omitempty"`
	On         bool     `json:"on,omitempty"`
	Term       string   `json:"term,omitempty"`
	Timestamp  int64    `json:"timestamp"`
}

// CommandEnvelope wraps an applied command for the journal.
type CommandEnvelope struct {
	BoardID string  `json:"boardId"`
	Command Command `json:"command"`
}

func (c Command) rowRef() RowRef {
	return RowRef{ID: c.Row, Index: c.Index}
}
