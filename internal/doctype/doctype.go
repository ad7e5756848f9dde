// Package doctype holds the table of document types to audit: for each type,
// the dotted paths of its URI-typed fields and the field that identifies a
// document in diagnostics.
package doctype

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownType is returned when a type name has no table entry.
	ErrUnknownType = errors.New("unknown document type")
	// ErrInvalidTable is returned when a table fails validation.
	ErrInvalidTable = errors.New("invalid document type table")
)

// Spec describes one document type.
type Spec struct {
	Name    string   `yaml:"name"`
	IDField string   `yaml:"id_field"`
	Fields  []string `yaml:"fields"`
}

// Table is an ordered, read-only list of document types.
type Table struct {
	specs []Spec
}

// NewTable validates specs and returns a table holding a copy of them.
func NewTable(specs ...Spec) (Table, error) {
	if len(specs) == 0 {
		return Table{}, fmt.Errorf("%w: no document types", ErrInvalidTable)
	}

	seen := make(map[string]struct{}, len(specs))
	copied := make([]Spec, 0, len(specs))
	for i, s := range specs {
		if s.Name == "" {
			return Table{}, fmt.Errorf("%w: type #%d has no name", ErrInvalidTable, i+1)
		}
		if _, dup := seen[s.Name]; dup {
			return Table{}, fmt.Errorf("%w: duplicate type %q", ErrInvalidTable, s.Name)
		}
		seen[s.Name] = struct{}{}

		if s.IDField == "" {
			return Table{}, fmt.Errorf("%w: type %q has no id_field", ErrInvalidTable, s.Name)
		}
		if len(s.Fields) == 0 {
			return Table{}, fmt.Errorf("%w: type %q has no fields", ErrInvalidTable, s.Name)
		}
		if slices.Contains(s.Fields, "") {
			return Table{}, fmt.Errorf("%w: type %q has an empty field path", ErrInvalidTable, s.Name)
		}

		copied = append(copied, Spec{
			Name:    s.Name,
			IDField: s.IDField,
			Fields:  slices.Clone(s.Fields),
		})
	}

	return Table{specs: copied}, nil
}

// MustTable is like NewTable but panics on an invalid table.
func MustTable(specs ...Spec) Table {
	t, err := NewTable(specs...)
	if err != nil {
		panic(err)
	}
	return t
}

// Specs returns the document types in table order.
func (t Table) Specs() []Spec {
	out := make([]Spec, len(t.specs))
	for i, s := range t.specs {
		out[i] = Spec{Name: s.Name, IDField: s.IDField, Fields: slices.Clone(s.Fields)}
	}
	return out
}

// Names returns the type names in table order.
func (t Table) Names() []string {
	names := make([]string, len(t.specs))
	for i, s := range t.specs {
		names[i] = s.Name
	}
	return names
}

// Len is the number of document types.
func (t Table) Len() int { return len(t.specs) }

// Lookup returns the spec for name.
func (t Table) Lookup(name string) (Spec, bool) {
	for _, s := range t.specs {
		if s.Name == name {
			return Spec{Name: s.Name, IDField: s.IDField, Fields: slices.Clone(s.Fields)}, true
		}
	}
	return Spec{}, false
}

// Only restricts the table to names, keeping table order.
func (t Table) Only(names ...string) (Table, error) {
	if len(names) == 0 {
		return t, nil
	}
	for _, name := range names {
		if _, ok := t.Lookup(name); !ok {
			return Table{}, fmt.Errorf("%w: %q", ErrUnknownType, name)
		}
	}

	kept := make([]Spec, 0, len(names))
	for _, s := range t.specs {
		if slices.Contains(names, s.Name) {
			kept = append(kept, s)
		}
	}
	return Table{specs: kept}, nil
}
