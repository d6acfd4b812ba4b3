package domain

// DragResult describes a finished drag. Destination is nil when the drag was
// cancelled or dropped outside the list.
type DragResult struct {
	Source      int  `json:"source"`
	Destination *int `json:"destination"`
}

// Reorder applies a drag result. A cancelled drag returns rows itself.
func Reorder(rows []PlanRow, result DragResult) []PlanRow {
	if result.Destination == nil {
		return rows
	}
	return Move(rows, result.Source, *result.Destination)
}

// Move removes the row at from and re-inserts it at to. The input slice is not
// modified. Out-of-range indexes and from == to return rows itself.
func Move(rows []PlanRow, from, to int) []PlanRow {
	if from < 0 || from >= len(rows) || to < 0 || to >= len(rows) || from == to {
		return rows
	}
	return moveItem(rows, from, to)
}

func moveItem[T any](items []T, from, to int) []T {
	out := make([]T, 0, len(items))
	moved := items[from]
	for i, it := range items {
		if i == from {
			continue
		}
		out = append(out, it)
	}
	out = append(out, moved)
	copy(out[to+1:], out[to:len(out)-1])
	out[to] = moved
	return out
}
