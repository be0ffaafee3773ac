// core/match/match.go
package match

import "bytes"

type Match struct {
	Pos        int
	Mismatches int
	Length     int
}

// Identity returns the percentage of matching bases, 0..100.
func (m Match) Identity() float64 {
	if m.Length == 0 {
		return 0
	}
	return 100 * float64(m.Length-m.Mismatches) / float64(m.Length)
}

func isUnambiguous(p []byte) bool {
	for _, c := range p {
		if c != 'A' && c != 'C' && c != 'G' && c != 'T' {
			return false
		}
	}
	return true
}

// FindMatches returns every placement of pattern inside seq with at most maxMM
// mismatches. capHits == 0 means unlimited.
func FindMatches(seq, pattern []byte, maxMM, capHits int) []Match {
	pl := len(pattern)
	if pl == 0 || len(seq) < pl {
		return nil
	}

	// Exact fast path.
	if maxMM == 0 && isUnambiguous(pattern) {
		out := make([]Match, 0, 4)
		for i := 0; ; {
			j := bytes.Index(seq[i:], pattern)
			if j < 0 {
				break
			}
			pos := i + j
			out = append(out, Match{Pos: pos, Length: pl})
			if capHits > 0 && len(out) >= capHits {
				break
			}
			i = pos + 1
		}
		return out
	}

	end := len(seq) - pl
	out := make([]Match, 0, 4)
window:
	for pos := 0; pos <= end; pos++ {
		mm := 0
		for j := 0; j < pl; j++ {
			if !BaseMatch(seq[pos+j], pattern[j]) {
				mm++
				if mm > maxMM {
					continue window
				}
			}
		}
		out = append(out, Match{Pos: pos, Mismatches: mm, Length: pl})
		if capHits > 0 && len(out) >= capHits {
			break
		}
	}
	return out
}

// Best returns the placement with the fewest mismatches (leftmost on ties).
func Best(seq, pattern []byte, maxMM int) (Match, bool) {
	hits := FindMatches(seq, pattern, maxMM, 0)
	if len(hits) == 0 {
		return Match{}, false
	}
	best := hits[0]
	for _, h := range hits[1:] {
		if h.Mismatches < best.Mismatches {
			best = h
		}
	}
	return best, true
}
