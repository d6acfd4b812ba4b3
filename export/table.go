package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"menu-planner/domain"
)

// Table renders every sheet as a console table.
type Table struct {
	w io.Writer
}

// NewTable creates a console exporter writing to w.
func NewTable(w io.Writer) *Table {
	return &Table{w: w}
}

func (t *Table) Export(ctx context.Context, sheets []domain.Sheet) error {
	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return err
		}
		tw := table.NewWriter()
		tw.SetOutputMirror(t.w)
		tw.SetStyle(table.StyleRounded)
		tw.SetTitle(sheet.Name)

		headers := domain.Headers()
		header := table.Row{}
		for _, h := range headers {
			header = append(header, h)
		}
		tw.AppendHeader(header)
		for _, rec := range sheet.Rows {
			cells := rec.Map()
			row := table.Row{}
			for _, h := range headers {
				row = append(row, cells[h])
			}
			tw.AppendRow(row)
		}
		tw.Render()
		if _, err := fmt.Fprintln(t.w); err != nil {
			return fmt.Errorf("failed writing spacer newline: %w", err)
		}
	}
	return nil
}

// RenderCatalog writes one table per section listing categories, colors and
// options in catalog order.
func RenderCatalog(w io.Writer, c *domain.Catalog) {
	for _, section := range domain.Sections() {
		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		tw.SetStyle(table.StyleRounded)
		tw.SetTitle(section.String())
		tw.AppendHeader(table.Row{"Category", "Color", "Options"})
		for _, cat := range c.Categories(section) {
			tw.AppendRow(table.Row{cat.Name, cat.Color, strings.Join(cat.Options, ", ")})
		}
		tw.Render()
	}
}

