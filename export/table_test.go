package export

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"menu-planner/domain"
)

func TestTableExport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTable(&buf).Export(context.Background(), sampleSheets()); err != nil {
		t.Fatalf("export: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Lunch", "Dinner", "Snack", "DAY MON", "Salad, Pasta", "Caesar, Macaroni", "Potato, Tortilla, Pita"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Lunch") > strings.Index(out, "Snack") {
		t.Fatalf("sections out of order")
	}
}

func TestRenderCatalog(t *testing.T) {
	var buf bytes.Buffer
	RenderCatalog(&buf, domain.DefaultCatalog())
	out := buf.String()
	for _, want := range []string{"Salad", "#64B5F6", "Caesar, Greek, Cobb", "Cookies"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
