package domain

import (
	"github.com/bytedance/sonic"
)

// DaysPerWeek is the fixed number of day slots of every row.
const DaysPerWeek = 7

// DaysOfWeek names the day slots in order.
var DaysOfWeek = [DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// PlanRow is one line of a section: selected categories, the apply-all flag and
// the per-day selections. Rows are values; transitions return new rows and never
// modify the slices of the receiver.
type PlanRow struct {
	Categories []string
	ApplyToAll bool
	Days       [DaysPerWeek][]string
}

// NewRow returns an empty Manual row.
func NewRow() PlanRow {
	r := PlanRow{Categories: []string{}}
	for i := range r.Days {
		r.Days[i] = []string{}
	}
	return r
}

// Clone returns a deep copy of the row.
func (r PlanRow) Clone() PlanRow {
	out := PlanRow{
		Categories: append([]string{}, r.Categories...),
		ApplyToAll: r.ApplyToAll,
	}
	for i, d := range r.Days {
		out.Days[i] = append([]string{}, d...)
	}
	return out
}

type planRowJSON struct {
	Category   []string   `json:"category"`
	ApplyToAll bool       `json:"applyToAll"`
	Days       [][]string `json:"days"`
}

// MarshalJSON writes the row with empty lists instead of nulls.
func (r PlanRow) MarshalJSON() ([]byte, error) {
	n := r.Clone()
	days := make([][]string, DaysPerWeek)
	for i := range days {
		days[i] = n.Days[i]
	}
	return sonic.Marshal(planRowJSON{Category: n.Categories, ApplyToAll: n.ApplyToAll, Days: days})
}

// UnmarshalJSON accepts rows with missing, short or long day lists and
// normalises them to seven slots. Blank and repeated names are dropped from
// the categories and from Manual day slots; Synced slots are rebuilt by the
// board from the categories.
func (r *PlanRow) UnmarshalJSON(data []byte) error {
	var raw planRowJSON
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	row := NewRow()
	row.Categories = normalizeSelection(raw.Category)
	row.ApplyToAll = raw.ApplyToAll
	for i := 0; i < DaysPerWeek && i < len(raw.Days); i++ {
		if row.ApplyToAll {
			row.Days[i] = append([]string{}, raw.Days[i]...)
		} else {
			row.Days[i] = normalizeSelection(raw.Days[i])
		}
	}
	*r = row
	return nil
}
