package domain

// RowID identifies a row within its store independent of its position.
type RowID uint64

// Entry is a row together with its store position and identity. Views built
// from a filtered store keep Index pointing into the unfiltered store.
type Entry struct {
	Index int
	ID    RowID
	Row   PlanRow
}

// RowRef addresses a row by identity, or by store index when ID is zero.
type RowRef struct {
	ID    RowID
	Index int
}

// At addresses the row at a store index.
func At(index int) RowRef {
	return RowRef{Index: index}
}

// RowStore is the ordered collection of rows of one meal section. Every
// mutation installs a new backing slice, so slices handed out by Snapshot stay
// valid and unchanged.
type RowStore struct {
	rows   []PlanRow
	ids    []RowID
	nextID RowID
}

// NewRowStore returns an empty store.
func NewRowStore() *RowStore {
	return &RowStore{}
}

// Len returns the number of rows.
func (s *RowStore) Len() int {
	return len(s.rows)
}

// AddRow appends an empty row and returns its identity.
func (s *RowStore) AddRow() RowID {
	return s.append(NewRow())
}

func (s *RowStore) append(row PlanRow) RowID {
	s.nextID++
	id := s.nextID
	rows := make([]PlanRow, len(s.rows), len(s.rows)+1)
	copy(rows, s.rows)
	ids := make([]RowID, len(s.ids), len(s.ids)+1)
	copy(ids, s.ids)
	s.rows = append(rows, row)
	s.ids = append(ids, id)
	return id
}

// Row returns the row at a store index.
func (s *RowStore) Row(index int) (PlanRow, bool) {
	if index < 0 || index >= len(s.rows) {
		return PlanRow{}, false
	}
	return s.rows[index], true
}

// IndexOf returns the current store index of a row identity.
func (s *RowStore) IndexOf(id RowID) (int, bool) {
	for i, v := range s.ids {
		if v == id {
			return i, true
		}
	}
	return -1, false
}

// RemoveRow deletes the row at a store index. Indexes outside the store are a
// no-op and report false.
func (s *RowStore) RemoveRow(index int) bool {
	if index < 0 || index >= len(s.rows) {
		return false
	}
	rows := make([]PlanRow, 0, len(s.rows)-1)
	rows = append(rows, s.rows[:index]...)
	rows = append(rows, s.rows[index+1:]...)
	ids := make([]RowID, 0, len(s.ids)-1)
	ids = append(ids, s.ids[:index]...)
	ids = append(ids, s.ids[index+1:]...)
	s.rows, s.ids = rows, ids
	return true
}

// RemoveByID deletes a row by identity.
func (s *RowStore) RemoveByID(id RowID) bool {
	i, ok := s.IndexOf(id)
	if !ok {
		return false
	}
	return s.RemoveRow(i)
}

// UpdateRow replaces one row with fn's result. All other rows are carried over
// unchanged.
func (s *RowStore) UpdateRow(index int, fn func(PlanRow) PlanRow) bool {
	if index < 0 || index >= len(s.rows) {
		return false
	}
	rows := make([]PlanRow, len(s.rows))
	copy(rows, s.rows)
	rows[index] = fn(rows[index])
	s.rows = rows
	return true
}

// Move relocates a row, keeping its identity.
func (s *RowStore) Move(from, to int) bool {
	if from < 0 || from >= len(s.rows) || to < 0 || to >= len(s.rows) || from == to {
		return false
	}
	s.rows = moveItem(s.rows, from, to)
	s.ids = moveItem(s.ids, from, to)
	return true
}

// Snapshot returns the rows in order. The result must be treated as read-only.
func (s *RowStore) Snapshot() []PlanRow {
	out := make([]PlanRow, len(s.rows))
	copy(out, s.rows)
	return out
}

// Entries returns every row with its index and identity.
func (s *RowStore) Entries() []Entry {
	return s.Filter("")
}

// Filter returns the entries matching term without touching the store.
func (s *RowStore) Filter(term string) []Entry {
	out := make([]Entry, 0, len(s.rows))
	for i, row := range s.rows {
		if !Matches(row, term) {
			continue
		}
		out = append(out, Entry{Index: i, ID: s.ids[i], Row: row})
	}
	return out
}

// Locate returns the current store index of ref, or -1 when an identity is no
// longer present.
func (s *RowStore) Locate(ref RowRef) int {
	if ref.ID == 0 {
		return ref.Index
	}
	if i, ok := s.IndexOf(ref.ID); ok {
		return i
	}
	return -1
}

// Clear removes every row.
func (s *RowStore) Clear() {
	s.rows = nil
	s.ids = nil
}

// Replace swaps the whole content for rows. Every row gets a new identity.
func (s *RowStore) Replace(rows []PlanRow) {
	next := make([]PlanRow, len(rows))
	ids := make([]RowID, len(rows))
	for i, r := range rows {
		s.nextID++
		next[i] = r.Clone()
		ids[i] = s.nextID
	}
	s.rows, s.ids = next, ids
}
