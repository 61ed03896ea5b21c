// Package catalog manages collections of contract definitions
// loaded from JSON or YAML files, with optional live reload
// through a file watcher.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"digital.vasic.conformance/pkg/contract"
)

// Catalog holds contract definitions loaded from files. Later
// loads overwrite earlier definitions with the same name, which
// is what lets the watcher refresh a running catalog in place.
type Catalog struct {
	mu          sync.RWMutex
	definitions map[contract.Name]*contract.Definition
	sources     []string
}

// New creates a new empty Catalog.
func New() *Catalog {
	return &Catalog{
		definitions: make(map[contract.Name]*contract.Definition),
	}
}

// LoadFile loads contract definitions from a JSON or YAML file.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog file %s: %w", path, err)
	}

	file, err := parseForPath(data, path)
	if err != nil {
		return fmt.Errorf("catalog file %s: %w", path, err)
	}

	return c.merge(file, path)
}

// LoadDir loads all .json, .yaml, and .yml files from a
// directory. It does not recurse into subdirectories.
func (c *Catalog) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read catalog directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		if err := c.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// merge stores the file's definitions, last write winning.
func (c *Catalog) merge(file *File, source string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range file.Contracts {
		def := &file.Contracts[i]
		if def.Name == "" {
			return fmt.Errorf(
				"contract at index %d in %s has no name", i, source,
			)
		}
		c.definitions[def.Name] = def
	}

	for _, s := range c.sources {
		if s == source {
			return nil
		}
	}
	c.sources = append(c.sources, source)
	return nil
}

// Get retrieves a contract definition by name.
func (c *Catalog) Get(name contract.Name) (*contract.Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.definitions[name]
	return def, ok
}

// All returns all loaded definitions sorted by name.
func (c *Catalog) All() []*contract.Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]*contract.Definition, 0, len(c.definitions))
	for _, def := range c.definitions {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// ByCategory returns definitions filtered by category.
func (c *Catalog) ByCategory(category string) []*contract.Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var result []*contract.Definition
	for _, def := range c.definitions {
		if def.Category == category {
			result = append(result, def)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// ByTag returns definitions carrying the given tag.
func (c *Catalog) ByTag(tag string) []*contract.Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var result []*contract.Definition
	for _, def := range c.definitions {
		for _, t := range def.Tags {
			if t == tag {
				result = append(result, def)
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Count returns the number of loaded definitions.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.definitions)
}

// Sources returns the list of loaded file paths.
func (c *Catalog) Sources() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]string, len(c.sources))
	copy(result, c.sources)
	return result
}
