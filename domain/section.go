package domain

import (
	"fmt"
	"strings"
)

// MealSection identifies a top-level grouping of the weekly plan.
type MealSection string

const (
	Lunch  MealSection = "Lunch"
	Dinner MealSection = "Dinner"
	Snack  MealSection = "Snack"
)

var sections = []MealSection{Lunch, Dinner, Snack}

// Sections returns every meal section in display order.
func Sections() []MealSection {
	out := make([]MealSection, len(sections))
	copy(out, sections)
	return out
}

// ParseSection resolves a section name case-insensitively.
func ParseSection(name string) (MealSection, error) {
	name = strings.TrimSpace(name)
	for _, s := range sections {
		if strings.EqualFold(string(s), name) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, name)
}

func (s MealSection) valid() bool {
	for _, known := range sections {
		if s == known {
			return true
		}
	}
	return false
}

func (s MealSection) String() string { return string(s) }
