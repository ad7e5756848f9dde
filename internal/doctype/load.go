package doctype

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type tableFile struct {
	Types []Spec `yaml:"types"`
}

// LoadFile reads a YAML document type table:
//
//	types:
//	  - name: organism
//	    id_field: biosampleId
//	    fields: [pedigree]
func LoadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read document type table %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML document type table.
func Parse(data []byte) (Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Table{}, fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}
	return NewTable(f.Types...)
}
