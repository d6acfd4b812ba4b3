package domain

import (
	"fmt"
	"strings"
)

// DefaultColor is used when a row has no category with a known color.
const DefaultColor = "#000"

// Category is one selectable dish category of a meal section.
type Category struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
	Color   string   `json:"color"`
}

// Catalog maps (section, category) to its options and display color. It is
// built once and never modified; accessors hand out copies.
type Catalog struct {
	categories map[MealSection][]Category
	index      map[MealSection]map[string]int
}

// NewCatalog validates entries and returns an immutable catalog. Category order
// within a section is preserved.
func NewCatalog(entries map[MealSection][]Category) (*Catalog, error) {
	c := &Catalog{
		categories: make(map[MealSection][]Category, len(entries)),
		index:      make(map[MealSection]map[string]int, len(entries)),
	}
	for section, cats := range entries {
		if !section.valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
		}
		idx := make(map[string]int, len(cats))
		list := make([]Category, 0, len(cats))
		for _, cat := range cats {
			name := strings.TrimSpace(cat.Name)
			if name == "" {
				return nil, fmt.Errorf("catalog %s: category with empty name", section)
			}
			if _, dup := idx[name]; dup {
				return nil, fmt.Errorf("catalog %s: duplicate category %q", section, name)
			}
			if len(cat.Options) == 0 {
				return nil, fmt.Errorf("catalog %s/%s: options must not be empty", section, name)
			}
			idx[name] = len(list)
			list = append(list, Category{
				Name:    name,
				Options: append([]string(nil), cat.Options...),
				Color:   cat.Color,
			})
		}
		c.categories[section] = list
		c.index[section] = idx
	}
	return c, nil
}

// MustCatalog is NewCatalog for static literals.
func MustCatalog(entries map[MealSection][]Category) *Catalog {
	c, err := NewCatalog(entries)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultCatalog returns the built-in three-section catalog.
func DefaultCatalog() *Catalog {
	return MustCatalog(map[MealSection][]Category{
		Lunch: {
			{Name: "Salad", Options: []string{"Caesar", "Greek", "Cobb"}, Color: "#64B5F6"},
			{Name: "Sandwich", Options: []string{"Turkey", "Ham", "Veggie"}, Color: "#4CAF50"},
			{Name: "Pasta", Options: []string{"Spaghetti", "Fettuccine", "Macaroni"}, Color: "#FFEB3B"},
		},
		Dinner: {
			{Name: "Steak", Options: []string{"Ribeye", "Sirloin", "Filet Mignon"}, Color: "#F44336"},
			{Name: "Pizza", Options: []string{"Margherita", "Pepperoni", "Veggie"}, Color: "#FF9800"},
			{Name: "Sushi", Options: []string{"Salmon", "Tuna", "California Roll"}, Color: "#9C27B0"},
		},
		Snack: {
			{Name: "Fruit", Options: []string{"Apple", "Banana", "Grapes"}, Color: "#E91E63"},
			{Name: "Chips", Options: []string{"Potato", "Tortilla", "Pita"}, Color: "#00BCD4"},
			{Name: "Cookies", Options: []string{"Chocolate Chip", "Oatmeal", "Peanut Butter"}, Color: "#FFC107"},
		},
	})
}

// Categories lists the categories of a section in configuration order.
func (c *Catalog) Categories(section MealSection) []Category {
	src := c.categories[section]
	out := make([]Category, len(src))
	for i, cat := range src {
		out[i] = Category{Name: cat.Name, Options: append([]string(nil), cat.Options...), Color: cat.Color}
	}
	return out
}

// CategoryNames lists category names of a section in configuration order.
func (c *Catalog) CategoryNames(section MealSection) []string {
	src := c.categories[section]
	out := make([]string, len(src))
	for i, cat := range src {
		out[i] = cat.Name
	}
	return out
}

func (c *Catalog) lookup(section MealSection, name string) (Category, bool) {
	i, ok := c.index[section][name]
	if !ok {
		return Category{}, false
	}
	return c.categories[section][i], true
}

// Options returns a copy of one category's options.
func (c *Catalog) Options(section MealSection, name string) ([]string, bool) {
	cat, ok := c.lookup(section, name)
	if !ok {
		return nil, false
	}
	return append([]string(nil), cat.Options...), true
}

// Color returns one category's display color.
func (c *Catalog) Color(section MealSection, name string) (string, bool) {
	cat, ok := c.lookup(section, name)
	if !ok {
		return "", false
	}
	return cat.Color, true
}

// Resolve concatenates the options of the selected categories in selection
// order. Options shared by two categories appear twice. Categories missing from
// the catalog contribute nothing.
func (c *Catalog) Resolve(section MealSection, selected []string) []string {
	out := []string{}
	for _, name := range selected {
		cat, ok := c.lookup(section, name)
		if !ok {
			continue
		}
		out = append(out, cat.Options...)
	}
	return out
}

// RowColor is the color of the row's first category, or DefaultColor.
func (c *Catalog) RowColor(section MealSection, row PlanRow) string {
	if len(row.Categories) == 0 {
		return DefaultColor
	}
	if color, ok := c.Color(section, row.Categories[0]); ok && color != "" {
		return color
	}
	return DefaultColor
}
