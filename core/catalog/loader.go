// core/catalog/loader.go
package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"porecat-core/adapter"
)

// absent marks a missing fragment in TSV rows.
const absent = "*"

// Spec is the authoring form of one adapter: start/end fragments and the
// symmetric Both convenience, which overrides Start and End when set.
type Spec struct {
	Name  string
	Start adapter.Fragment
	End   adapter.Fragment
	Both  adapter.Fragment
}

// Adapter expands s into an adapter record.
func (s Spec) Adapter() *adapter.Adapter {
	if !s.Both.IsZero() {
		return adapter.NewBothEnds(s.Name, s.Both)
	}
	return adapter.New(s.Name, s.Start, s.End)
}

// LoadTSV reads adapter specs from a tab-separated file.
func LoadTSV(path string) ([]Spec, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	return ParseTSV(fh, path)
}

// ParseTSV reads rows of
//
//	name  start_label  start_seq  [end_label  end_seq]
//
// separated by tabs (names may contain spaces). Blank lines and lines starting
// with '#' are skipped; "*" in a label/sequence column marks an absent fragment.
// src is only used in error messages.
func ParseTSV(r io.Reader, src string) ([]Spec, error) {
	var list []Spec
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		f := strings.Split(line, "\t")
		// Accept 3 (name start) or 5 (name start end) fields.
		if len(f) != 3 && len(f) != 5 {
			return nil, fmt.Errorf("%s:%d bad field count %d (want 3 or 5)", src, ln, len(f))
		}
		start, err := fragment(f[1], f[2])
		if err != nil {
			return nil, fmt.Errorf("%s:%d start: %w", src, ln, err)
		}
		s := Spec{Name: strings.TrimSpace(f[0]), Start: start}
		if len(f) == 5 {
			if s.End, err = fragment(f[3], f[4]); err != nil {
				return nil, fmt.Errorf("%s:%d end: %w", src, ln, err)
			}
		}
		list = append(list, s)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func fragment(label, seq string) (adapter.Fragment, error) {
	label, seq = strings.TrimSpace(label), strings.TrimSpace(seq)
	if label == absent && seq == absent {
		return adapter.Fragment{}, nil
	}
	if label == absent || seq == absent {
		return adapter.Fragment{}, fmt.Errorf("label %q and sequence %q must both be present or both be %q", label, seq, absent)
	}
	return adapter.Fragment{Label: label, Seq: seq}, nil
}
