// core/catalog/catalog.go
package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"porecat-core/adapter"
	"porecat-core/match"
)

var (
	ErrNotFound = errors.New("adapter not found")
	ErrInvalid  = errors.New("invalid adapter catalog")
)

// Catalog is the ordered set of known adapters. It is validated once by New
// and never changes shape afterwards; only adapter score fields are written.
type Catalog struct {
	adapters []*adapter.Adapter
	byName   map[string]*adapter.Adapter
}

// New validates adapters and builds a catalog. Every violation is reported in
// a single joined error that wraps ErrInvalid.
func New(adapters ...*adapter.Adapter) (*Catalog, error) {
	c := &Catalog{
		adapters: make([]*adapter.Adapter, 0, len(adapters)),
		byName:   make(map[string]*adapter.Adapter, len(adapters)),
	}
	var errs []error
	for i, a := range adapters {
		if a == nil {
			errs = append(errs, fmt.Errorf("entry %d: nil adapter", i+1))
			continue
		}
		if err := validate(a); err != nil {
			errs = append(errs, fmt.Errorf("entry %d (%q): %w", i+1, a.Name, err))
			continue
		}
		if _, dup := c.byName[a.Name]; dup {
			errs = append(errs, fmt.Errorf("entry %d: duplicate name %q", i+1, a.Name))
			continue
		}
		c.byName[a.Name] = a
		c.adapters = append(c.adapters, a)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return c, nil
}

// FromSpecs expands specs and builds a catalog.
func FromSpecs(specs []Spec) (*Catalog, error) {
	as := make([]*adapter.Adapter, 0, len(specs))
	for _, s := range specs {
		as = append(as, s.Adapter())
	}
	return New(as...)
}

func validate(a *adapter.Adapter) error {
	if a.Name == "" {
		return errors.New("empty name")
	}
	if !a.HasStart() && !a.HasEnd() {
		return errors.New("neither start nor end sequence")
	}
	var errs []error
	for _, side := range []struct {
		name string
		f    adapter.Fragment
	}{{"start", a.Start}, {"end", a.End}} {
		if side.f.IsZero() {
			continue
		}
		if strings.TrimSpace(side.f.Label) == "" {
			errs = append(errs, fmt.Errorf("%s: empty label", side.name))
		}
		if ok, idx := match.IsACGT(side.f.Seq); !ok {
			if idx < 0 || adapter.NormalizeSeq(side.f.Seq) == "" {
				errs = append(errs, fmt.Errorf("%s: empty sequence", side.name))
			} else {
				errs = append(errs, fmt.Errorf("%s: invalid base %q at %d; allowed: A C G T", side.name, side.f.Seq[idx], idx+1))
			}
		}
	}
	return errors.Join(errs...)
}

// All returns every adapter in insertion order. The slice is a copy; the
// records are shared so aligners can write scores onto them.
func (c *Catalog) All() []*adapter.Adapter {
	out := make([]*adapter.Adapter, len(c.adapters))
	copy(out, c.adapters)
	return out
}

func (c *Catalog) Len() int { return len(c.adapters) }

// FindByName returns the single adapter with exactly this name.
func (c *Catalog) FindByName(name string) (*adapter.Adapter, error) {
	a, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return a, nil
}

// Barcodes returns the barcode entries in insertion order.
func (c *Catalog) Barcodes() []*adapter.Adapter {
	var out []*adapter.Adapter
	for _, a := range c.adapters {
		if a.IsBarcode() {
			out = append(out, a)
		}
	}
	return out
}

// WithExtra returns a new catalog holding copies of c's adapters followed by
// specs. The result is validated as a whole, so a custom entry reusing a
// built-in name is rejected.
func (c *Catalog) WithExtra(specs []Spec) (*Catalog, error) {
	as := make([]*adapter.Adapter, 0, len(c.adapters)+len(specs))
	for _, a := range c.adapters {
		as = append(as, a.Clone())
	}
	for _, s := range specs {
		as = append(as, s.Adapter())
	}
	return New(as...)
}

// ResetScores zeroes every adapter's scores.
func (c *Catalog) ResetScores() {
	for _, a := range c.adapters {
		a.ResetScores()
	}
}

// Issue is a non-fatal data finding.
type Issue struct {
	Name    string
	Message string
}

func (i Issue) String() string { return i.Name + ": " + i.Message }

var directionSuffix = regexp.MustCompile(`\((forward|reverse)\)$`)

// Lint reports barcodes whose "(forward)"/"(reverse)" name suffix disagrees
// with the orientation of their start label, and barcodes whose start and end
// fragments are not reverse complements of each other.
func (c *Catalog) Lint() []Issue {
	var out []Issue
	for _, a := range c.adapters {
		if !a.IsBarcode() {
			continue
		}
		if m := directionSuffix.FindStringSubmatch(a.Name); m != nil && a.HasStart() {
			if a.Orientation.String() != m[1] {
				out = append(out, Issue{
					Name:    a.Name,
					Message: fmt.Sprintf("name says %s but start label %q is %s", m[1], a.Start.Label, a.Orientation),
				})
			}
		}
		if a.HasStart() && a.HasEnd() && a.Start != a.End {
			if match.RevCompString(a.Start.Seq) != a.End.Seq {
				out = append(out, Issue{Name: a.Name, Message: "start and end sequences are not reverse complements"})
			}
		}
	}
	return out
}
