package domain

// BoardView is the read model served to clients.
type BoardView struct {
	SearchTerm string        `json:"searchTerm"`
	Sections   []SectionView `json:"sections"`
}

// SectionView lists the visible rows of one section.
type SectionView struct {
	Name     MealSection `json:"name"`
	Expanded bool        `json:"expanded"`
	Loading  bool        `json:"loading"`
	// Total counts all rows, including those hidden by the search term.
	Total int       `json:"total"`
	Rows  []RowView `json:"rows"`
}

// RowView is a visible row. Index is the store index and is what row commands
// must carry.
type RowView struct {
	Index   int      `json:"index"`
	ID      RowID    `json:"id"`
	State   string   `json:"state"`
	Row     PlanRow  `json:"row"`
	Options []string `json:"options"`
	Color   string   `json:"color"`
}

// View builds the read model under the lock.
func (b *Board) View() BoardView {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := BoardView{SearchTerm: b.term, Sections: make([]SectionView, 0, len(sections))}
	for _, section := range sections {
		s := b.stores[section]
		entries := s.Filter(b.term)
		sv := SectionView{
			Name:     section,
			Expanded: b.expanded[section],
			Loading:  b.loading[section],
			Total:    s.Len(),
			Rows:     make([]RowView, 0, len(entries)),
		}
		for _, e := range entries {
			sv.Rows = append(sv.Rows, RowView{
				Index:   e.Index,
				ID:      e.ID,
				State:   e.Row.State().String(),
				Row:     e.Row,
				Options: b.catalog.Resolve(section, e.Row.Categories),
				Color:   b.catalog.RowColor(section, e.Row),
			})
		}
		v.Sections = append(v.Sections, sv)
	}
	return v
}
