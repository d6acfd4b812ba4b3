package domain

import "strings"

// Matches reports whether a row is visible for a search term. The term is
// matched case-insensitively against the space-joined category names and
// against each day's space-joined options. The empty term matches every row.
func Matches(row PlanRow, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	if strings.Contains(strings.ToLower(strings.Join(row.Categories, " ")), needle) {
		return true
	}
	for _, day := range row.Days {
		if strings.Contains(strings.ToLower(strings.Join(day, " ")), needle) {
			return true
		}
	}
	return false
}
