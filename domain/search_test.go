package domain

import "testing"

func TestMatches(t *testing.T) {
	resolve := DefaultCatalog().Resolver(Dinner)
	steak := NewRow().WithCategories([]string{"Steak"}, resolve)
	sushi, _ := NewRow().WithCategories([]string{"Sushi"}, resolve).WithDay(4, []string{"California Roll"})

	tests := []struct {
		name string
		row  PlanRow
		term string
		want bool
	}{
		{name: "empty term matches empty row", row: NewRow(), term: "", want: true},
		{name: "empty term matches any row", row: steak, term: "", want: true},
		{name: "category match", row: steak, term: "steak", want: true},
		{name: "case insensitive", row: steak, term: "STE", want: true},
		{name: "no match", row: steak, term: "roll", want: false},
		{name: "day match", row: sushi, term: "california r", want: true},
		{name: "joined categories", row: NewRow().WithCategories([]string{"Steak", "Pizza"}, resolve), term: "steak piz", want: true},
		{name: "days are not joined across slots", row: sushi, term: "roll sushi", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.row, tt.term); got != tt.want {
				t.Fatalf("Matches(%q) = %v, want %v", tt.term, got, tt.want)
			}
		})
	}
}
