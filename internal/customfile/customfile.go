// Package customfile loads operator-supplied adapters that extend the
// built-in catalog.
//
// Structured files (yaml, json, toml, anything Viper reads) look like:
//
//	adapters:
//	  - name: Barcode 1 (forward)
//	    start: {label: BC01, seq: AAGAAAGTTGTCGGTGTCTTTGTG}
//	    end:   {label: BC01_rev, seq: CACAAAGACACCGACAACTTTCTT}
//	  - name: My symmetric adapter
//	    both:  {label: mine, seq: ACGTACGT}
//
// Files ending in .tsv use the catalog's tab-separated format.
package customfile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"porecat-core/adapter"
	"porecat-core/catalog"
)

type fragment struct {
	Label string `mapstructure:"label"`
	Seq   string `mapstructure:"seq"`
}

func (f fragment) toFragment() adapter.Fragment {
	return adapter.Fragment{Label: f.Label, Seq: f.Seq}
}

type entry struct {
	Name  string   `mapstructure:"name"`
	Start fragment `mapstructure:"start"`
	End   fragment `mapstructure:"end"`
	Both  fragment `mapstructure:"both"`
}

type file struct {
	Adapters []entry `mapstructure:"adapters"`
}

// Load reads custom adapter specs from path.
func Load(path string) ([]catalog.Spec, error) {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return catalog.LoadTSV(path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read adapters %s: %w", path, err)
	}
	// Unknown keys are errors: a misspelled fragment key would otherwise
	// decode to an absent fragment.
	var f file
	if err := v.UnmarshalExact(&f); err != nil {
		return nil, fmt.Errorf("decode adapters %s: %w", path, err)
	}
	if len(f.Adapters) == 0 {
		return nil, fmt.Errorf("%s: no adapters listed", path)
	}

	specs := make([]catalog.Spec, 0, len(f.Adapters))
	for _, e := range f.Adapters {
		specs = append(specs, catalog.Spec{
			Name:  e.Name,
			Start: e.Start.toFragment(),
			End:   e.End.toFragment(),
			Both:  e.Both.toFragment(),
		})
	}
	return specs, nil
}

// Extend returns base extended with the adapters in path. An empty path
// returns base unchanged.
func Extend(base *catalog.Catalog, path string) (*catalog.Catalog, error) {
	if path == "" {
		return base, nil
	}
	specs, err := Load(path)
	if err != nil {
		return nil, err
	}
	return base.WithExtra(specs)
}
