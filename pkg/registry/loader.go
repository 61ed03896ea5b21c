package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"digital.vasic.conformance/pkg/catalog"
	"digital.vasic.conformance/pkg/contract"
	"digital.vasic.conformance/pkg/httpclient"
)

// LoadDefinitionsFromFile reads a catalog file of contract
// definitions and registers each one into the given registry,
// along with its compiled contract. `.yaml`/`.yml` files parse
// as YAML, everything else as JSON.
func LoadDefinitionsFromFile(
	reg Registry,
	path string,
) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf(
			"failed to read definitions file %s: %w",
			path, err,
		)
	}

	var file *catalog.File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		file, err = catalog.ParseYAML(data)
	default:
		file, err = catalog.ParseJSON(data)
	}
	if err != nil {
		return fmt.Errorf(
			"failed to parse definitions from %s: %w",
			path, err,
		)
	}

	return registerFile(reg, file, path)
}

// LoadDefinitionsFromDir loads all .json and .yaml/.yml
// definition catalog files from a directory. It does not
// recurse into subdirectories.
func LoadDefinitionsFromDir(
	reg Registry,
	dir string,
) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf(
			"failed to read directory %s: %w", dir, err,
		)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}

		p := filepath.Join(dir, entry.Name())
		if err := LoadDefinitionsFromFile(reg, p); err != nil {
			return fmt.Errorf(
				"failed to load %s: %w", p, err,
			)
		}
	}

	return nil
}

// LoadDefinitionsFromURL fetches a remote catalog through the
// given client and registers its definitions plus compiled
// contracts.
func LoadDefinitionsFromURL(
	ctx context.Context,
	reg Registry,
	client *httpclient.Client,
	path string,
) error {
	file, err := client.FetchCatalog(ctx, path)
	if err != nil {
		return fmt.Errorf(
			"failed to fetch definitions from %s: %w",
			path, err,
		)
	}
	return registerFile(reg, file, path)
}

// registerFile registers every definition in the file, then
// compiles each into a contract. Compilation runs in passes so
// a definition may embed one declared later in the same file;
// embeds already present in the registry resolve too.
func registerFile(
	reg Registry,
	file *catalog.File,
	source string,
) error {
	pending := make(
		[]*contract.Definition, 0, len(file.Contracts),
	)
	for i := range file.Contracts {
		def := &file.Contracts[i]
		if def.Name == "" {
			return fmt.Errorf(
				"definition at index %d in %s has no name",
				i, source,
			)
		}
		if err := reg.RegisterDefinition(def); err != nil {
			return fmt.Errorf(
				"definition %s from %s: %w",
				def.Name, source, err,
			)
		}
		pending = append(pending, def)
	}

	resolve := func(name contract.Name) (contract.Contract, bool) {
		c, err := reg.Get(name)
		if err != nil {
			return contract.Contract{}, false
		}
		return c, true
	}

	for len(pending) > 0 {
		var remaining []*contract.Definition
		var firstErr error

		for _, def := range pending {
			c, err := def.Compile(resolve)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				remaining = append(remaining, def)
				continue
			}
			if err := reg.Register(c); err != nil {
				return fmt.Errorf(
					"contract %s from %s: %w",
					def.Name, source, err,
				)
			}
		}

		// No definition compiled this pass, so the leftovers
		// can never resolve.
		if len(remaining) == len(pending) {
			return fmt.Errorf(
				"contract %s from %s: %w",
				remaining[0].Name, source, firstErr,
			)
		}
		pending = remaining
	}

	return nil
}
