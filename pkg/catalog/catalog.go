package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed engines.yaml
var embeddedCatalog []byte

// ErrUnknownKind is returned when an entry names a kind with no factory.
var ErrUnknownKind = errors.New("catalog: unknown engine kind")

// Entry configures one engine.
type Entry struct {
	Name    string            `json:"name" yaml:"name"`
	Kind    string            `json:"kind" yaml:"kind"`
	Options map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
}

// Option returns the value configured for key, or "" when unset.
func (e Entry) Option(key string) string {
	if e.Options == nil {
		return ""
	}
	return e.Options[key]
}

// Catalog is an ordered list of engine entries.
type Catalog struct {
	Engines []Entry `json:"engines" yaml:"engines"`
}

// Default returns the embedded catalog.
func Default() Catalog {
	c, err := Parse(embeddedCatalog, "engines.yaml")
	if err != nil {
		// The embedded document is validated by tests.
		panic(err)
	}
	return c
}

// Load reads a catalog from path. An empty path returns Default.
func Load(path string) (Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a JSON or YAML catalog and validates its entries.
func Parse(data []byte, source string) (Catalog, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Catalog{}, fmt.Errorf("catalog: file %s is empty", source)
	}

	var doc Catalog
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = Catalog{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Catalog{}, fmt.Errorf("catalog: parse %s: invalid JSON or YAML: %w", source, err)
		}
	}

	if err := doc.validate(source); err != nil {
		return Catalog{}, err
	}
	return doc, nil
}

func (c Catalog) validate(source string) error {
	seen := make(map[string]struct{}, len(c.Engines))
	for idx, entry := range c.Engines {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return fmt.Errorf("catalog: file %s entry %d has an empty name", source, idx)
		}
		if strings.TrimSpace(entry.Kind) == "" {
			return fmt.Errorf("catalog: file %s engine %q has an empty kind", source, name)
		}
		key := strings.ToLower(name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("catalog: file %s defines duplicate engine %q", source, name)
		}
		seen[key] = struct{}{}
	}
	return nil
}
