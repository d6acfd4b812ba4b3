package domain

import (
	"context"
	"strings"
)

// CategoryHeader is the first column of an exported sheet.
const CategoryHeader = "Category"

// Headers returns the fixed export column order: Category, then Day Mon..Day Sun.
func Headers() []string {
	out := make([]string, 0, DaysPerWeek+1)
	out = append(out, CategoryHeader)
	for _, d := range DaysOfWeek {
		out = append(out, "Day "+d)
	}
	return out
}

// Record is the flat projection of one row.
type Record struct {
	Category string
	Days     [DaysPerWeek]string
	// Color is the row's display color; exporters may ignore it.
	Color string
}

// Values returns the record's cells in Headers order.
func (r Record) Values() []string {
	out := make([]string, 0, DaysPerWeek+1)
	out = append(out, r.Category)
	out = append(out, r.Days[:]...)
	return out
}

// Map returns the record keyed by header name.
func (r Record) Map() map[string]string {
	out := make(map[string]string, DaysPerWeek+1)
	values := r.Values()
	for i, h := range Headers() {
		out[h] = values[i]
	}
	return out
}

// Sheet is one section's worth of exported records.
type Sheet struct {
	Name string
	Rows []Record
}

// Exporter turns sheets into an artifact, e.g. a spreadsheet.
type Exporter interface {
	Export(ctx context.Context, sheets []Sheet) error
}

// ProjectRow flattens a row into a Record.
func ProjectRow(row PlanRow) Record {
	rec := Record{Category: strings.Join(row.Categories, ", ")}
	for i, d := range row.Days {
		rec.Days[i] = strings.Join(d, ", ")
	}
	return rec
}

// ProjectDraft builds one sheet per section in display order. Sections absent
// from the draft produce empty sheets.
func ProjectDraft(draft Draft, catalog *Catalog) []Sheet {
	sheets := make([]Sheet, 0, len(sections))
	for _, section := range sections {
		rows := draft[section]
		sheet := Sheet{Name: string(section), Rows: make([]Record, 0, len(rows))}
		for _, row := range rows {
			rec := ProjectRow(row)
			if catalog != nil {
				rec.Color = catalog.RowColor(section, row)
			}
			sheet.Rows = append(sheet.Rows, rec)
		}
		sheets = append(sheets, sheet)
	}
	return sheets
}
