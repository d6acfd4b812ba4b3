package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"menu-planner/domain"
)

type categoryEntry struct {
	Options []string `yaml:"options"`
	Color   string   `yaml:"color"`
}

// LoadCatalog reads a catalog file. An empty path yields the built-in catalog.
func LoadCatalog(path string) (*domain.Catalog, error) {
	if path == "" {
		return domain.DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML (or JSON) catalog of the form
// {section: {category: {options: [...], color: "..."}}}. Category order follows
// the document.
func ParseCatalog(data []byte) (*domain.Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("catalog must be a mapping of meal sections")
	}

	entries := make(map[domain.MealSection][]domain.Category, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		section, err := domain.ParseSection(root.Content[i].Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", root.Content[i].Line, err)
		}
		cats, err := decodeCategories(root.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", section, err)
		}
		entries[section] = append(entries[section], cats...)
	}
	return domain.NewCatalog(entries)
}

func decodeCategories(node *yaml.Node) ([]domain.Category, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of categories", node.Line)
	}
	cats := make([]domain.Category, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var entry categoryEntry
		if err := node.Content[i+1].Decode(&entry); err != nil {
			return nil, fmt.Errorf("category %q: %w", node.Content[i].Value, err)
		}
		cats = append(cats, domain.Category{
			Name:    node.Content[i].Value,
			Options: entry.Options,
			Color:   entry.Color,
		})
	}
	return cats, nil
}
