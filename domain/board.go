package domain

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const defaultFetchTimeout = 10 * time.Second

// Board owns one RowStore per meal section together with the global search
// term, the per-section expand flags and the in-flight fetch flags. All
// operations are serialized by a single mutex.
type Board struct {
	mu           sync.Mutex
	catalog      *Catalog
	stores       map[MealSection]*RowStore
	expanded     map[MealSection]bool
	loading      map[MealSection]bool
	term         string
	logger       *log.Logger
	onChange     func()
	fetchTimeout time.Duration
}

// BoardOption customises a Board.
type BoardOption func(*Board)

// WithLogger sets the logger used for fetch failures.
func WithLogger(l *log.Logger) BoardOption {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithChangeHook registers fn to run after every state change, outside the lock.
func WithChangeHook(fn func()) BoardOption {
	return func(b *Board) { b.onChange = fn }
}

// WithFetchTimeout bounds each section prefill.
func WithFetchTimeout(d time.Duration) BoardOption {
	return func(b *Board) {
		if d > 0 {
			b.fetchTimeout = d
		}
	}
}

// NewBoard creates an empty board over catalog.
func NewBoard(catalog *Catalog, opts ...BoardOption) *Board {
	if catalog == nil {
		panic("domain.NewBoard: catalog is nil")
	}
	b := &Board{
		catalog:      catalog,
		stores:       make(map[MealSection]*RowStore, len(sections)),
		expanded:     make(map[MealSection]bool, len(sections)),
		loading:      make(map[MealSection]bool, len(sections)),
		logger:       log.StandardLogger(),
		fetchTimeout: defaultFetchTimeout,
	}
	for _, s := range sections {
		b.stores[s] = NewRowStore()
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Catalog returns the board's catalog.
func (b *Board) Catalog() *Catalog {
	return b.catalog
}

func (b *Board) notify() {
	if b.onChange != nil {
		b.onChange()
	}
}

func (b *Board) store(section MealSection) (*RowStore, error) {
	s, ok := b.stores[section]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	return s, nil
}

// mutate runs fn against a section's store under the lock and fires the change
// hook when fn reports a change.
func (b *Board) mutate(section MealSection, fn func(s *RowStore) (bool, error)) (bool, error) {
	b.mu.Lock()
	s, err := b.store(section)
	if err != nil {
		b.mu.Unlock()
		return false, err
	}
	changed, err := fn(s)
	b.mu.Unlock()
	if changed {
		b.notify()
	}
	return changed, err
}

// updateRow applies a transition that may reject the change. The row is
// located under the lock.
func (b *Board) updateRow(section MealSection, ref RowRef, fn func(PlanRow) (PlanRow, error)) (bool, error) {
	return b.mutate(section, func(s *RowStore) (bool, error) {
		index := s.Locate(ref)
		row, ok := s.Row(index)
		if !ok {
			return false, nil
		}
		next, err := fn(row)
		if err != nil {
			return false, err
		}
		return s.UpdateRow(index, func(PlanRow) PlanRow { return next }), nil
	})
}

// AddRow appends an empty row and returns its store index.
func (b *Board) AddRow(section MealSection) (int, error) {
	index := -1
	_, err := b.mutate(section, func(s *RowStore) (bool, error) {
		s.AddRow()
		index = s.Len() - 1
		return true, nil
	})
	return index, err
}

// RemoveRow deletes the row at a store index; out-of-range indexes are ignored.
func (b *Board) RemoveRow(section MealSection, index int) (bool, error) {
	return b.removeRow(section, At(index))
}

// RemoveRowByID deletes a row by identity. An identity that is gone, because
// the row was removed or the section was replaced, is ignored.
func (b *Board) RemoveRowByID(section MealSection, id RowID) (bool, error) {
	return b.mutate(section, func(s *RowStore) (bool, error) {
		return s.RemoveByID(id), nil
	})
}

func (b *Board) removeRow(section MealSection, ref RowRef) (bool, error) {
	return b.mutate(section, func(s *RowStore) (bool, error) {
		return s.RemoveRow(s.Locate(ref)), nil
	})
}

// SetCategories replaces a row's categories.
func (b *Board) SetCategories(section MealSection, index int, categories []string) (bool, error) {
	return b.setCategories(section, At(index), categories)
}

func (b *Board) setCategories(section MealSection, ref RowRef, categories []string) (bool, error) {
	resolve := b.catalog.Resolver(section)
	return b.updateRow(section, ref, func(r PlanRow) (PlanRow, error) {
		return r.WithCategories(categories, resolve), nil
	})
}

// ToggleApplyAll flips a row between Manual and Synced.
func (b *Board) ToggleApplyAll(section MealSection, index int) (bool, error) {
	return b.toggleApplyAll(section, At(index))
}

func (b *Board) toggleApplyAll(section MealSection, ref RowRef) (bool, error) {
	resolve := b.catalog.Resolver(section)
	return b.updateRow(section, ref, func(r PlanRow) (PlanRow, error) {
		return r.ToggleApplyAll(resolve), nil
	})
}

// SetApplyAll sets a row's apply-all flag.
func (b *Board) SetApplyAll(section MealSection, index int, on bool) (bool, error) {
	return b.setApplyAll(section, At(index), on)
}

func (b *Board) setApplyAll(section MealSection, ref RowRef, on bool) (bool, error) {
	resolve := b.catalog.Resolver(section)
	return b.updateRow(section, ref, func(r PlanRow) (PlanRow, error) {
		return r.WithApplyAll(on, resolve), nil
	})
}

// SetDay replaces one day's selection of a Manual row.
func (b *Board) SetDay(section MealSection, index, day int, options []string) (bool, error) {
	return b.setDay(section, At(index), day, options)
}

func (b *Board) setDay(section MealSection, ref RowRef, day int, options []string) (bool, error) {
	return b.updateRow(section, ref, func(r PlanRow) (PlanRow, error) {
		return r.WithDay(day, options)
	})
}

// ClearDay empties one day of a Manual row.
func (b *Board) ClearDay(section MealSection, index, day int) (bool, error) {
	return b.clearDay(section, At(index), day)
}

func (b *Board) clearDay(section MealSection, ref RowRef, day int) (bool, error) {
	return b.updateRow(section, ref, func(r PlanRow) (PlanRow, error) {
		return r.WithoutDay(day)
	})
}

// MoveRow relocates a row. A nil destination is a cancelled drag.
func (b *Board) MoveRow(section MealSection, from int, to *int) (bool, error) {
	return b.moveRow(section, At(from), to)
}

func (b *Board) moveRow(section MealSection, from RowRef, to *int) (bool, error) {
	return b.mutate(section, func(s *RowStore) (bool, error) {
		if to == nil {
			return false, nil
		}
		return s.Move(s.Locate(from), *to), nil
	})
}

// Rows returns a section's rows in order.
func (b *Board) Rows(section MealSection) ([]PlanRow, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.store(section)
	if err != nil {
		return nil, err
	}
	return s.Snapshot(), nil
}

// VisibleRows returns the section's rows that match the global search term.
func (b *Board) VisibleRows(section MealSection) ([]Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.store(section)
	if err != nil {
		return nil, err
	}
	return s.Filter(b.term), nil
}

// SetSearchTerm stores the term every section filters by.
func (b *Board) SetSearchTerm(term string) {
	b.mu.Lock()
	changed := b.term != term
	b.term = term
	b.mu.Unlock()
	if changed {
		b.notify()
	}
}

// SearchTerm returns the global search term.
func (b *Board) SearchTerm() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.term
}

func (b *Board) setExpanded(section MealSection, open bool) error {
	b.mu.Lock()
	if _, err := b.store(section); err != nil {
		b.mu.Unlock()
		return err
	}
	changed := b.expanded[section] != open
	b.expanded[section] = open
	b.mu.Unlock()
	if changed {
		b.notify()
	}
	return nil
}

// Expand opens one section. Other sections keep their state.
func (b *Board) Expand(section MealSection) error {
	return b.setExpanded(section, true)
}

// Collapse closes one section.
func (b *Board) Collapse(section MealSection) error {
	return b.setExpanded(section, false)
}

func (b *Board) setAllExpanded(open bool) {
	b.mu.Lock()
	for _, s := range sections {
		b.expanded[s] = open
	}
	b.mu.Unlock()
	b.notify()
}

// ExpandAll opens every section.
func (b *Board) ExpandAll() { b.setAllExpanded(true) }

// CollapseAll closes every section.
func (b *Board) CollapseAll() { b.setAllExpanded(false) }

// Expanded reports a section's expand flag.
func (b *Board) Expanded(section MealSection) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.expanded[section]
}

// DeleteAll clears one section.
func (b *Board) DeleteAll(section MealSection) error {
	_, err := b.mutate(section, func(s *RowStore) (bool, error) {
		s.Clear()
		return true, nil
	})
	return err
}

// DeleteAllMenus clears every section.
func (b *Board) DeleteAllMenus() {
	b.mu.Lock()
	for _, s := range b.stores {
		s.Clear()
	}
	b.mu.Unlock()
	b.notify()
}

// Snapshot returns every section's rows, copied under the lock.
func (b *Board) Snapshot() Draft {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := make(Draft, len(b.stores))
	for section, s := range b.stores {
		d[section] = s.Snapshot()
	}
	return d
}

// ExportAll projects every section and hands the sheets to exp. Exporter
// errors are returned unchanged.
func (b *Board) ExportAll(ctx context.Context, exp Exporter) error {
	sheets := ProjectDraft(b.Snapshot(), b.catalog)
	return exp.Export(ctx, sheets)
}

// SaveDraft stores the current snapshot under DraftKey. Last write wins.
func (b *Board) SaveDraft(ctx context.Context, store DraftStore) error {
	payload, err := EncodeDraft(b.Snapshot())
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	return store.SaveDraft(ctx, DraftKey, payload)
}

// LoadDraft replaces every section present in the stored draft.
func (b *Board) LoadDraft(ctx context.Context, store DraftStore) error {
	payload, err := store.LoadDraft(ctx, DraftKey)
	if err != nil {
		return err
	}
	draft, err := DecodeDraft(payload)
	if err != nil {
		return fmt.Errorf("decode draft: %w", err)
	}
	for section, rows := range draft {
		draft[section] = b.normalizeRows(section, rows)
	}
	b.mu.Lock()
	for section, rows := range draft {
		b.stores[section].Replace(rows)
	}
	b.mu.Unlock()
	b.notify()
	return nil
}

// Loading reports whether a prefill is in flight for section.
func (b *Board) Loading(section MealSection) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading[section]
}

// StartFetch prefills a section in the background. It fails with
// ErrFetchPending while another fetch for the section runs. The returned
// channel is closed once the fetch has finished, successfully or not. A failed
// fetch leaves the section unchanged and is logged.
func (b *Board) StartFetch(ctx context.Context, section MealSection, f Fetcher) (<-chan struct{}, error) {
	b.mu.Lock()
	if _, err := b.store(section); err != nil {
		b.mu.Unlock()
		return nil, err
	}
	if b.loading[section] {
		b.mu.Unlock()
		return nil, ErrFetchPending
	}
	b.loading[section] = true
	b.mu.Unlock()
	b.notify()

	done := make(chan struct{})
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.fetchTimeout)
	go func() {
		defer close(done)
		defer cancel()
		rows, err := f.FetchRows(fetchCtx, section)
		if err == nil {
			rows = b.normalizeRows(section, rows)
		}

		b.mu.Lock()
		if err == nil {
			b.stores[section].Replace(rows)
		}
		b.loading[section] = false
		b.mu.Unlock()

		if err != nil {
			b.logger.WithError(err).WithField("section", section).Error("failed to fetch section rows")
		} else {
			b.logger.WithFields(log.Fields{"section": section, "rows": len(rows)}).Debug("section prefilled")
		}
		b.notify()
	}()
	return done, nil
}

// normalizeRows brings rows from outside the board in line with the row
// invariants before they replace a section.
func (b *Board) normalizeRows(section MealSection, rows []PlanRow) []PlanRow {
	resolve := b.catalog.Resolver(section)
	out := make([]PlanRow, len(rows))
	for i, r := range rows {
		out[i] = r.Normalize(resolve)
	}
	return out
}
