// Package catalog lists the entry categories and payment modes offered to
// the user.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is the set of categories and modes entries may carry.
type Catalog struct {
	Categories      []string `yaml:"categories"`
	Modes           []string `yaml:"modes"`
	DefaultCategory string   `yaml:"default_category"`
	DefaultMode     string   `yaml:"default_mode"`
	// Strict rejects values outside the lists instead of accepting them as
	// free text.
	Strict bool `yaml:"strict"`
}

// Default is used when no catalog file is configured.
func Default() *Catalog {
	return &Catalog{
		Categories:      []string{"General", "Food", "Travel", "Bills", "Salary", "Shopping", "Health", "Rent"},
		Modes:           []string{"Cash", "Online", "Card", "Cheque"},
		DefaultCategory: "General",
		DefaultMode:     "Cash",
	}
}

// Load reads a catalog from a YAML file, filling missing defaults.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	def := Default()
	if len(c.Categories) == 0 {
		c.Categories = def.Categories
	}
	if len(c.Modes) == 0 {
		c.Modes = def.Modes
	}
	if c.DefaultCategory == "" {
		c.DefaultCategory = c.Categories[0]
	}
	if c.DefaultMode == "" {
		c.DefaultMode = c.Modes[0]
	}
	return &c, nil
}

// Category returns the canonical spelling of value, the default when value
// is blank, and false when strict mode does not know the value.
func (c *Catalog) Category(value string) (string, bool) {
	return c.resolve(value, c.Categories, c.DefaultCategory)
}

// Mode is Category for payment modes.
func (c *Catalog) Mode(value string) (string, bool) {
	return c.resolve(value, c.Modes, c.DefaultMode)
}

func (c *Catalog) resolve(value string, known []string, def string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return def, true
	}
	for _, k := range known {
		if strings.EqualFold(k, value) {
			return k, true
		}
	}
	return value, !c.Strict
}
