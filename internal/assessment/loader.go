package assessment

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog/*.yaml
var builtinFS embed.FS

// Parse decodes and validates a single YAML assessment document.
// name is only used in error messages.
func Parse(name string, data []byte) (Assessment, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Assessment{}, fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, name, err)
	}
	if err := validateDocument(name, doc); err != nil {
		return Assessment{}, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	var a Assessment
	if err := yaml.Unmarshal(data, &a); err != nil {
		return Assessment{}, fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, name, err)
	}
	if err := validateAssessment(a); err != nil {
		return Assessment{}, fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, name, err)
	}
	return a, nil
}

// Builtin parses the definitions embedded in the binary.
func Builtin() ([]Assessment, error) {
	return loadFS(builtinFS, "catalog")
}

// LoadDir parses every *.yaml and *.yml file directly inside dir.
// Any invalid file fails the whole load.
func LoadDir(dir string) ([]Assessment, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog dir: %s is not a directory", dir)
	}
	return loadFS(os.DirFS(dir), ".")
}

func loadFS(fsys fs.FS, root string) ([]Assessment, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var out []Assessment
	ids := make(map[string]string)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		p := name
		if root != "." {
			p = root + "/" + name
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		a, err := Parse(filepath.Base(name), data)
		if err != nil {
			return nil, err
		}
		if prev, dup := ids[a.ID]; dup {
			return nil, fmt.Errorf("%w: id %q defined in both %s and %s", ErrInvalidCatalog, a.ID, prev, name)
		}
		ids[a.ID] = name
		out = append(out, a)
	}

	sortAssessments(out)
	return out, nil
}

func sortAssessments(list []Assessment) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Order != list[j].Order {
			return list[i].Order < list[j].Order
		}
		return list[i].ID < list[j].ID
	})
}
