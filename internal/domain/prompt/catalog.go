// Package prompt serves the static prompt templates advertised over MCP.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yml
var catalogYAML []byte

// Template is a parameterless prompt returned verbatim.
type Template struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Text        string `yaml:"text"`
}

// Catalog is the ordered set of prompt templates.
type Catalog struct {
	Prompts []Template `yaml:"prompts"`
}

// LoadCatalog parses the embedded catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog parses a catalog document. Names must be unique and non-empty.
func ParseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse prompt catalog: %w", err)
	}

	seen := make(map[string]bool, len(catalog.Prompts))
	for _, tmpl := range catalog.Prompts {
		name := strings.TrimSpace(tmpl.Name)
		if name == "" {
			return nil, fmt.Errorf("prompt catalog: template without name")
		}
		if seen[name] {
			return nil, fmt.Errorf("prompt catalog: duplicate template %q", name)
		}
		seen[name] = true
	}
	return &catalog, nil
}

// Get looks a template up by name.
func (c *Catalog) Get(name string) (Template, bool) {
	for _, tmpl := range c.Prompts {
		if tmpl.Name == name {
			return tmpl, true
		}
	}
	return Template{}, false
}
