package export

import (
	"bytes"
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"menu-planner/domain"
)

func sampleSheets() []domain.Sheet {
	b := domain.NewBoard(domain.DefaultCatalog())
	b.AddRow(domain.Lunch)
	b.SetCategories(domain.Lunch, 0, []string{"Salad", "Pasta"})
	b.SetDay(domain.Lunch, 0, 0, []string{"Caesar", "Macaroni"})
	b.AddRow(domain.Lunch)
	b.AddRow(domain.Snack)
	b.SetCategories(domain.Snack, 0, []string{"Chips"})
	b.SetApplyAll(domain.Snack, 0, true)
	return domain.ProjectDraft(b.Snapshot(), b.Catalog())
}

func TestXLSXWorkbookLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := NewXLSX(&buf).Export(context.Background(), sampleSheets()); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{"Lunch", "Dinner", "Snack"}) {
		t.Fatalf("unexpected sheets: %v", got)
	}

	rows, err := f.GetRows("Lunch")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if !reflect.DeepEqual(rows[0], domain.Headers()) {
		t.Fatalf("unexpected header row: %v", rows[0])
	}
	if v, _ := f.GetCellValue("Lunch", "A2"); v != "Salad, Pasta" {
		t.Fatalf("unexpected category cell: %q", v)
	}
	if v, _ := f.GetCellValue("Lunch", "B2"); v != "Caesar, Macaroni" {
		t.Fatalf("unexpected Mon cell: %q", v)
	}
	if v, _ := f.GetCellValue("Lunch", "H2"); v != "" {
		t.Fatalf("expected empty Sun cell, got %q", v)
	}
	if v, _ := f.GetCellValue("Snack", "H2"); v != "Potato, Tortilla, Pita" {
		t.Fatalf("unexpected synced Sun cell: %q", v)
	}

	dinner, err := f.GetRows("Dinner")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(dinner) != 1 {
		t.Fatalf("expected header only for empty section, got %d rows", len(dinner))
	}
}

func TestXLSXStyles(t *testing.T) {
	f, err := Workbook(sampleSheets())
	if err != nil {
		t.Fatalf("workbook: %v", err)
	}
	defer f.Close()

	id, err := f.GetCellStyle("Lunch", "C1")
	if err != nil {
		t.Fatalf("header style: %v", err)
	}
	style, err := f.GetStyle(id)
	if err != nil {
		t.Fatalf("get style: %v", err)
	}
	if style.Font == nil || !style.Font.Bold {
		t.Fatalf("expected bold header")
	}

	id, err = f.GetCellStyle("Lunch", "D2")
	if err != nil {
		t.Fatalf("row style: %v", err)
	}
	style, err = f.GetStyle(id)
	if err != nil {
		t.Fatalf("get style: %v", err)
	}
	if len(style.Fill.Color) != 1 || !strings.HasSuffix(strings.ToUpper(style.Fill.Color[0]), "64B5F6") {
		t.Fatalf("expected salad tint, got %v", style.Fill.Color)
	}
}

func TestXLSXFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu-plan.xlsx")
	if err := (XLSXFile{Path: path}).Export(context.Background(), sampleSheets()); err != nil {
		t.Fatalf("export: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	if n := len(f.GetSheetList()); n != 3 {
		t.Fatalf("expected 3 sheets, got %d", n)
	}
}

func TestXLSXCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	if err := NewXLSX(&buf).Export(ctx, sampleSheets()); err == nil {
		t.Fatalf("expected context error")
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written")
	}
}

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "#000", want: "000000", ok: true},
		{in: "#64b5f6", want: "64B5F6", ok: true},
		{in: "FF9800", want: "FF9800", ok: true},
		{in: "", ok: false},
		{in: "red", ok: false},
		{in: "#12345G", ok: false},
	}
	for _, tt := range tests {
		got, ok := normalizeColor(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("normalizeColor(%q) = %q, %v", tt.in, got, ok)
		}
	}
}
