package domain

import (
	"context"

	"github.com/bytedance/sonic"
)

// DraftKey is the fixed key the board draft is stored under.
const DraftKey = "menu-plan:draft"

// Draft is the persisted form of a board: section -> rows.
type Draft map[MealSection][]PlanRow

// DraftStore is the key/value persistence collaborator.
type DraftStore interface {
	SaveDraft(ctx context.Context, key string, payload []byte) error
	// LoadDraft returns ErrDraftNotFound when nothing is stored under key.
	LoadDraft(ctx context.Context, key string) ([]byte, error)
}

// EncodeDraft serialises a draft as {"Lunch": [row, ...], ...}.
func EncodeDraft(d Draft) ([]byte, error) {
	raw := make(map[string][]PlanRow, len(d))
	for section, rows := range d {
		if rows == nil {
			rows = []PlanRow{}
		}
		raw[string(section)] = rows
	}
	return sonic.ConfigStd.Marshal(raw)
}

// DecodeDraft parses a stored draft. Unknown sections are rejected.
func DecodeDraft(data []byte) (Draft, error) {
	var raw map[string][]PlanRow
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	d := make(Draft, len(raw))
	for name, rows := range raw {
		section, err := ParseSection(name)
		if err != nil {
			return nil, err
		}
		d[section] = rows
	}
	return d, nil
}
