// core/adapter/adapter.go
package adapter

import (
	"errors"
	"strings"
	"unicode"
)

// BarcodePrefix marks an adapter as a barcode. Classification is by name only,
// so custom barcodes must be named accordingly.
const BarcodePrefix = "Barcode "

var (
	ErrNoStart = errors.New("adapter has no start sequence")
	ErrNoEnd   = errors.New("adapter has no end sequence")
)

// Fragment is one labelled nucleotide sequence. The zero value means "absent".
type Fragment struct {
	Label string
	Seq   string
}

// IsZero reports whether the fragment is absent.
func (f Fragment) IsZero() bool { return f.Label == "" && f.Seq == "" }

type Kind int

const (
	KindChemistry Kind = iota
	KindBarcode
)

func (k Kind) String() string {
	if k == KindBarcode {
		return "barcode"
	}
	return "chemistry"
}

type Orientation int

const (
	Unknown Orientation = iota
	Forward
	Reverse
)

func (o Orientation) String() string {
	switch o {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return "unknown"
	}
}

// Score is one aligner result for an adapter: best start and end scores seen
// for a single read (or a batch of reads, after merging).
type Score struct {
	Start float64
	End   float64
}

// Best returns max(Start, End).
func (s Score) Best() float64 { return max(s.Start, s.End) }

// Max combines two scores field by field.
func (s Score) Max(o Score) Score {
	return Score{Start: max(s.Start, o.Start), End: max(s.End, o.End)}
}

// Adapter is one named adapter or barcode orientation. Everything except the
// two score fields is fixed at construction.
//
// Score fields are not synchronised. Concurrent aligners must serialise their
// writes or score into read-local Score values and Merge them afterwards.
type Adapter struct {
	Name  string
	Start Fragment
	End   Fragment

	Kind        Kind
	Orientation Orientation

	BestStartScore float64
	BestEndScore   float64
}

// New builds an adapter from optional start and end fragments. Sequences are
// normalised (whitespace stripped, upper-cased); labels are trimmed.
func New(name string, start, end Fragment) *Adapter {
	a := &Adapter{
		Name:  strings.TrimSpace(name),
		Start: normalize(start),
		End:   normalize(end),
	}
	a.classify()
	return a
}

// NewBothEnds builds a symmetric adapter: f is used for both the start and the
// end of the read.
func NewBothEnds(name string, f Fragment) *Adapter {
	return New(name, f, f)
}

func (a *Adapter) classify() {
	if strings.HasPrefix(a.Name, BarcodePrefix) {
		a.Kind = KindBarcode
	}
	switch {
	case a.Start.IsZero():
		a.Orientation = Unknown
	case strings.Contains(a.Start.Label, "_rev"):
		a.Orientation = Reverse
	default:
		a.Orientation = Forward
	}
}

// normalize cleans a present fragment. A fragment that was given but
// normalises to nothing keeps its raw text so it still counts as present and
// fails catalog validation instead of silently becoming absent.
func normalize(f Fragment) Fragment {
	if f.IsZero() {
		return f
	}
	n := Fragment{Label: strings.TrimSpace(f.Label), Seq: NormalizeSeq(f.Seq)}
	if n.IsZero() {
		return f
	}
	return n
}

// NormalizeSeq removes all whitespace and upper-cases bases.
func NormalizeSeq(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		out = append(out, unicode.ToUpper(r))
	}
	return string(out)
}

func (a *Adapter) HasStart() bool { return !a.Start.IsZero() }
func (a *Adapter) HasEnd() bool   { return !a.End.IsZero() }

// BestStartOrEndScore returns the larger of the two best scores.
func (a *Adapter) BestStartOrEndScore() float64 {
	return max(a.BestStartScore, a.BestEndScore)
}

// IsBarcode reports whether the adapter name starts with "Barcode ".
func (a *Adapter) IsBarcode() bool { return a.Kind == KindBarcode }

// BarcodeDirection reports Reverse when the start label contains "_rev" and
// Forward otherwise. Calling it on an adapter without a start fragment is a
// caller error.
func (a *Adapter) BarcodeDirection() (Orientation, error) {
	if !a.HasStart() {
		return Unknown, ErrNoStart
	}
	return a.Orientation, nil
}

// BarcodeName picks the shortest of the name, start label and end label (in
// that order on ties) and replaces spaces with underscores. It is used to name
// per-barcode outputs.
func (a *Adapter) BarcodeName() string {
	best := a.Name
	for _, c := range []string{a.Start.Label, a.End.Label} {
		if c == "" {
			continue
		}
		if len([]rune(c)) < len([]rune(best)) {
			best = c
		}
	}
	return strings.ReplaceAll(best, " ", "_")
}

func (a *Adapter) SetStartScore(v float64) { a.BestStartScore = v }
func (a *Adapter) SetEndScore(v float64)   { a.BestEndScore = v }

// Scores returns the current score fields as a Score.
func (a *Adapter) Scores() Score {
	return Score{Start: a.BestStartScore, End: a.BestEndScore}
}

// Merge applies s with keep-max semantics.
func (a *Adapter) Merge(s Score) {
	a.BestStartScore = max(a.BestStartScore, s.Start)
	a.BestEndScore = max(a.BestEndScore, s.End)
}

// ResetScores sets both scores back to 0.
func (a *Adapter) ResetScores() {
	a.BestStartScore, a.BestEndScore = 0, 0
}

// Clone returns an independent copy, scores included.
func (a *Adapter) Clone() *Adapter {
	c := *a
	return &c
}
