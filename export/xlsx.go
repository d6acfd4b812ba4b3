// Package export turns projected board sheets into artifacts: an xlsx workbook
// for download and plain tables for the terminal.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"menu-planner/domain"
)

const defaultSheet = "Sheet1"

// XLSX writes every sheet as a worksheet of one workbook.
type XLSX struct {
	w io.Writer
}

// NewXLSX creates an exporter writing the workbook to w.
func NewXLSX(w io.Writer) *XLSX {
	return &XLSX{w: w}
}

func (x *XLSX) Export(ctx context.Context, sheets []domain.Sheet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := Workbook(sheets)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(x.w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// XLSXFile writes the workbook to a path.
type XLSXFile struct {
	Path string
}

func (x XLSXFile) Export(ctx context.Context, sheets []domain.Sheet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := Workbook(sheets)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(x.Path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// Workbook builds the workbook: a bold header row, then one row per record
// tinted with the record's color. The default sheet is removed once at least
// one section sheet exists.
func Workbook(sheets []domain.Sheet) (*excelize.File, error) {
	f := excelize.NewFile()
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}
	fills := map[string]int{}

	headers := domain.Headers()
	for _, sheet := range sheets {
		if _, err := f.NewSheet(sheet.Name); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", sheet.Name, err)
		}
		if err := writeRow(f, sheet.Name, 1, headers); err != nil {
			f.Close()
			return nil, err
		}
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		if err := f.SetCellStyle(sheet.Name, "A1", last, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
		for i, rec := range sheet.Rows {
			row := i + 2
			if err := writeRow(f, sheet.Name, row, rec.Values()); err != nil {
				f.Close()
				return nil, err
			}
			style, err := fillStyle(f, fills, rec.Color)
			if err != nil {
				f.Close()
				return nil, err
			}
			if style == 0 {
				continue
			}
			first, _ := excelize.CoordinatesToCellName(1, row)
			last, _ := excelize.CoordinatesToCellName(len(headers), row)
			if err := f.SetCellStyle(sheet.Name, first, last, style); err != nil {
				f.Close()
				return nil, err
			}
		}
	}
	if len(sheets) > 0 {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			f.Close()
			return nil, err
		}
		f.SetActiveSheet(0)
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

// fillStyle returns a cached solid fill style for color, or 0 when the color
// cannot be used.
func fillStyle(f *excelize.File, cache map[string]int, color string) (int, error) {
	hex, ok := normalizeColor(color)
	if !ok {
		return 0, nil
	}
	if id, ok := cache[hex]; ok {
		return id, nil
	}
	id, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hex}},
	})
	if err != nil {
		return 0, err
	}
	cache[hex] = id
	return id, nil
}

// normalizeColor expands #RGB and #RRGGBB into RRGGBB.
func normalizeColor(color string) (string, bool) {
	c := strings.TrimPrefix(strings.TrimSpace(color), "#")
	switch len(c) {
	case 3:
		c = string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	case 6:
	default:
		return "", false
	}
	for _, r := range c {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return "", false
		}
	}
	return strings.ToUpper(c), true
}
