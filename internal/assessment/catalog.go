package assessment

import (
	"fmt"
)

// DefaultID is the assessment served when a lookup misses.
const DefaultID = "gad7"

// Catalog is the read-only registry of assessment definitions. It is built
// once at startup and passed to whatever needs it; nothing in this package
// holds a global instance.
type Catalog struct {
	byID      map[string]Assessment
	ordered   []string
	defaultID string
}

// NewCatalog builds a catalog from the given definitions. defaultID must
// name one of them; an empty defaultID means DefaultID.
func NewCatalog(defaultID string, list ...Assessment) (*Catalog, error) {
	if defaultID == "" {
		defaultID = DefaultID
	}

	c := &Catalog{
		byID:      make(map[string]Assessment, len(list)),
		defaultID: defaultID,
	}
	sorted := append([]Assessment(nil), list...)
	sortAssessments(sorted)
	for _, a := range sorted {
		if _, dup := c.byID[a.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, a.ID)
		}
		c.byID[a.ID] = a.clone()
		c.ordered = append(c.ordered, a.ID)
	}

	if _, ok := c.byID[defaultID]; !ok {
		return nil, fmt.Errorf("%w: default assessment %q not defined", ErrInvalidCatalog, defaultID)
	}
	return c, nil
}

// NewBuiltinCatalog builds a catalog from the embedded definitions, merged
// with any extra ones. An extra definition replaces a builtin with the
// same id.
func NewBuiltinCatalog(defaultID string, extra ...Assessment) (*Catalog, error) {
	builtin, err := Builtin()
	if err != nil {
		return nil, err
	}
	return NewCatalog(defaultID, merge(builtin, extra)...)
}

// MustBuiltin is NewBuiltinCatalog with the default id and no extras.
// It panics if the embedded definitions are broken, which is a build defect.
func MustBuiltin() *Catalog {
	c, err := NewBuiltinCatalog(DefaultID)
	if err != nil {
		panic(err)
	}
	return c
}

func merge(base, extra []Assessment) []Assessment {
	idx := make(map[string]int, len(base))
	out := append([]Assessment(nil), base...)
	for i, a := range out {
		idx[a.ID] = i
	}
	for _, a := range extra {
		if i, ok := idx[a.ID]; ok {
			out[i] = a
			continue
		}
		idx[a.ID] = len(out)
		out = append(out, a)
	}
	return out
}

// Get returns the assessment with the given id, falling back to the
// default assessment when the id is unknown. It never fails.
func (c *Catalog) Get(id string) Assessment {
	if a, ok := c.byID[id]; ok {
		return a.clone()
	}
	return c.byID[c.defaultID].clone()
}

// Lookup returns the assessment with the given id or a *NotFoundError.
func (c *Catalog) Lookup(id string) (Assessment, error) {
	a, ok := c.byID[id]
	if !ok {
		return Assessment{}, &NotFoundError{ID: id}
	}
	return a.clone(), nil
}

// Resolve picks Lookup when strict is set and Get otherwise.
func (c *Catalog) Resolve(id string, strict bool) (Assessment, error) {
	if strict {
		return c.Lookup(id)
	}
	return c.Get(id), nil
}

// Has reports whether id is defined.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Default returns the default assessment.
func (c *Catalog) Default() Assessment {
	return c.byID[c.defaultID].clone()
}

// DefaultID returns the id served on a miss.
func (c *Catalog) DefaultID() string { return c.defaultID }

// IDs returns all ids in display order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.ordered...)
}

// All returns every assessment in display order.
func (c *Catalog) All() []Assessment {
	out := make([]Assessment, 0, len(c.ordered))
	for _, id := range c.ordered {
		out = append(out, c.byID[id].clone())
	}
	return out
}

// Len returns the number of assessments.
func (c *Catalog) Len() int { return len(c.ordered) }
