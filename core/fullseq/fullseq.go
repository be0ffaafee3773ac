// core/fullseq/fullseq.go
package fullseq

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"porecat-core/adapter"
	"porecat-core/catalog"
)

// Native barcoding kit anchors. The barcode sits between A and B at the read
// start and between C and D at the read end; C is the reverse complement of B.
const (
	NativeStartPrefix = "AATGTACTTCGTTCAGTTACGTATTGCTAAAGGTTAA"
	NativeStartSuffix = "CAGCACC"
	NativeEndPrefix   = "GGTGCTG"
	NativeEndSuffix   = "TTAACCTTTGCAATACGTAACTGAACGAAGT"
)

// Rapid barcoding kit anchors: Y-adapter top strand, then the barcode, then
// the rapid adapter.
const (
	RapidStartPrefix = "AATGTACTTCGTTCAGTTACGTATTGCT"
	RapidStartSuffix = "GTTTTCGCATTTATCGTGAAACGCTTTCGCGTTTTTCGTGCGCCGCTTCA"
)

var ErrBadIndex = errors.New("barcode index must be positive")

// Native builds the full native barcoding adapter for barcode index from the
// catalog entry "Barcode <index> (reverse)".
func Native(cat *catalog.Catalog, index int) (*adapter.Adapter, error) {
	bc, err := lookup(cat, index, "reverse")
	if err != nil {
		return nil, err
	}
	if !bc.HasStart() {
		return nil, fmt.Errorf("%s: %w", bc.Name, adapter.ErrNoStart)
	}
	if !bc.HasEnd() {
		return nil, fmt.Errorf("%s: %w", bc.Name, adapter.ErrNoEnd)
	}
	return adapter.New(
		fmt.Sprintf("Native barcoding %d (full sequence)", index),
		adapter.Fragment{
			Label: fmt.Sprintf("NB%02d_start", index),
			Seq:   NativeStartPrefix + bc.Start.Seq + NativeStartSuffix,
		},
		adapter.Fragment{
			Label: fmt.Sprintf("NB%02d_end", index),
			Seq:   NativeEndPrefix + bc.End.Seq + NativeEndSuffix,
		},
	), nil
}

// Rapid builds the full rapid barcoding adapter for barcode index from the
// catalog entry "Barcode <index> (forward)". The result has no end sequence.
func Rapid(cat *catalog.Catalog, index int) (*adapter.Adapter, error) {
	bc, err := lookup(cat, index, "forward")
	if err != nil {
		return nil, err
	}
	if !bc.HasStart() {
		return nil, fmt.Errorf("%s: %w", bc.Name, adapter.ErrNoStart)
	}
	return adapter.New(
		fmt.Sprintf("Rapid barcoding %d (full sequence)", index),
		adapter.Fragment{
			Label: fmt.Sprintf("RB%02d_full", index),
			Seq:   RapidStartPrefix + bc.Start.Seq + RapidStartSuffix,
		},
		adapter.Fragment{},
	), nil
}

func lookup(cat *catalog.Catalog, index int, direction string) (*adapter.Adapter, error) {
	if index < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadIndex, index)
	}
	return cat.FindByName(fmt.Sprintf("Barcode %d (%s)", index, direction))
}

var barcodeName = regexp.MustCompile(`^Barcode (\d+) \((forward|reverse)\)$`)

// Indexes returns, in catalog order, the index of every barcode entry named
// "Barcode <n> (<direction>)".
func Indexes(cat *catalog.Catalog, direction string) []int {
	var out []int
	for _, a := range cat.Barcodes() {
		m := barcodeName.FindStringSubmatch(a.Name)
		if m == nil || m[2] != direction {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			continue
		}
		out = append(out, n)
	}
	return out
}

// NativeAll builds the native full sequence for every reverse barcode entry.
func NativeAll(cat *catalog.Catalog) ([]*adapter.Adapter, error) {
	return buildAll(cat, Indexes(cat, "reverse"), Native)
}

// RapidAll builds the rapid full sequence for every forward barcode entry.
func RapidAll(cat *catalog.Catalog) ([]*adapter.Adapter, error) {
	return buildAll(cat, Indexes(cat, "forward"), Rapid)
}

func buildAll(cat *catalog.Catalog, idx []int, build func(*catalog.Catalog, int) (*adapter.Adapter, error)) ([]*adapter.Adapter, error) {
	out := make([]*adapter.Adapter, 0, len(idx))
	for _, i := range idx {
		a, err := build(cat, i)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
