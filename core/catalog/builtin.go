// core/catalog/builtin.go
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed adapters.tsv
var builtinTSV string

// Default parses and validates the embedded adapter table. Each call returns
// a fresh catalog with zeroed scores.
func Default() (*Catalog, error) {
	specs, err := BuiltinSpecs()
	if err != nil {
		return nil, err
	}
	c, err := FromSpecs(specs)
	if err != nil {
		return nil, fmt.Errorf("built-in catalog: %w", err)
	}
	return c, nil
}

// BuiltinSpecs returns the embedded table in authoring form.
func BuiltinSpecs() ([]Spec, error) {
	return ParseTSV(strings.NewReader(builtinTSV), "adapters.tsv")
}
