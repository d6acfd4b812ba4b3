package domain

import "strings"

// RowState is the apply-all state of a row.
type RowState int

const (
	// Manual rows keep independent day selections.
	Manual RowState = iota
	// Synced rows mirror the resolved options on all seven days.
	Synced
)

func (s RowState) String() string {
	if s == Synced {
		return "synced"
	}
	return "manual"
}

// Resolver flattens selected categories into their options.
type Resolver func(categories []string) []string

// Resolver binds the catalog's resolution to one section.
func (c *Catalog) Resolver(section MealSection) Resolver {
	return func(categories []string) []string {
		return c.Resolve(section, categories)
	}
}

// State reports whether the row is Synced or Manual.
func (r PlanRow) State() RowState {
	if r.ApplyToAll {
		return Synced
	}
	return Manual
}

// WithCategories replaces the category selection. Synced rows re-resolve every
// day slot; Manual rows keep their day selections even when they no longer
// belong to the selected categories.
func (r PlanRow) WithCategories(categories []string, resolve Resolver) PlanRow {
	out := r
	out.Categories = normalizeSelection(categories)
	if out.ApplyToAll {
		out.Days = syncedDays(resolve(out.Categories))
	}
	return out
}

// WithApplyAll switches the row between Manual and Synced. Turning it on copies
// the resolved options into every slot; turning it off empties every slot.
func (r PlanRow) WithApplyAll(on bool, resolve Resolver) PlanRow {
	if r.ApplyToAll == on {
		return r
	}
	out := r
	out.ApplyToAll = on
	if on {
		out.Days = syncedDays(resolve(out.Categories))
	} else {
		out.Days = emptyDays()
	}
	return out
}

// ToggleApplyAll flips the apply-all flag.
func (r PlanRow) ToggleApplyAll(resolve Resolver) PlanRow {
	return r.WithApplyAll(!r.ApplyToAll, resolve)
}

// WithDay replaces one day slot of a Manual row.
func (r PlanRow) WithDay(day int, options []string) (PlanRow, error) {
	if day < 0 || day >= DaysPerWeek {
		return r, ErrInvalidDay
	}
	if r.ApplyToAll {
		return r, ErrDayLocked
	}
	out := r
	out.Days[day] = normalizeSelection(options)
	return out, nil
}

// WithoutDay empties one day slot of a Manual row.
func (r PlanRow) WithoutDay(day int) (PlanRow, error) {
	return r.WithDay(day, nil)
}

// Normalize returns the row with clean selections. A Synced row gets every
// slot re-resolved from its categories regardless of the stored days.
func (r PlanRow) Normalize(resolve Resolver) PlanRow {
	out := NewRow()
	out.Categories = normalizeSelection(r.Categories)
	out.ApplyToAll = r.ApplyToAll
	if out.ApplyToAll {
		out.Days = syncedDays(resolve(out.Categories))
		return out
	}
	for i, d := range r.Days {
		out.Days[i] = normalizeSelection(d)
	}
	return out
}

func syncedDays(resolved []string) [DaysPerWeek][]string {
	var days [DaysPerWeek][]string
	for i := range days {
		days[i] = append([]string{}, resolved...)
	}
	return days
}

func emptyDays() [DaysPerWeek][]string {
	var days [DaysPerWeek][]string
	for i := range days {
		days[i] = []string{}
	}
	return days
}

// normalizeSelection drops blank names (the "None" choice) and repeats while
// keeping first-seen order.
func normalizeSelection(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
