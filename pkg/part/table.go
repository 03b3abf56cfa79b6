package part

import (
	"github.com/partres/partres/pkg/errors"
)

// Table is a provider's ordered provides table: unscoped name to the
// version/target-tagged variants of that part. Declaration order is
// preserved because variant selection is first-match and because the
// resolver's output must be deterministic.
type Table struct {
	names    []string
	variants map[string][]*Part
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{variants: make(map[string][]*Part)}
}

// Add registers the variants of a part under an unscoped name.
// Variants are tried in the given order during resolution, so they
// must be declared from the newest version constraint to the oldest.
func (t *Table) Add(name string, variants ...*Part) error {
	if err := errors.ValidatePartName(name); err != nil {
		return err
	}
	if len(variants) == 0 {
		return errors.New(errors.ErrCodeInvalidMetadata, "part %q has an empty variant list", name)
	}
	if _, dup := t.variants[name]; dup {
		return errors.New(errors.ErrCodeInvalidMetadata, "part %q is declared twice", name)
	}

	t.names = append(t.names, name)
	t.variants[name] = variants
	return nil
}

// MustAdd is like Add but panics on error. For static metadata tables.
func (t *Table) MustAdd(name string, variants ...*Part) {
	if err := t.Add(name, variants...); err != nil {
		panic(err)
	}
}

// Names returns the declared names in declaration order.
func (t *Table) Names() []string {
	return t.names
}

// Variants returns the declared variants for a name, or nil.
func (t *Table) Variants(name string) []*Part {
	return t.variants[name]
}

// Has reports whether the table declares a name.
func (t *Table) Has(name string) bool {
	_, ok := t.variants[name]
	return ok
}

// Len returns the number of declared names.
func (t *Table) Len() int {
	return len(t.names)
}
