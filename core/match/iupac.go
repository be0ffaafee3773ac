// core/match/iupac.go
package match

/* -------------------------- IUPAC lookup table -------------------------- */

var iupacMask [256]byte // bit0=A bit1=C bit2=G bit3=T

func init() {
	set := func(c byte, bits byte) { iupacMask[c] = bits }
	set('A', 1)       // 0001
	set('C', 2)       // 0010
	set('G', 4)       // 0100
	set('T', 8)       // 1000
	set('R', 1|4)     // A/G
	set('Y', 2|8)     // C/T
	set('S', 2|4)     // C/G
	set('W', 1|8)     // A/T
	set('K', 4|8)     // G/T
	set('M', 1|2)     // A/C
	set('B', 2|4|8)   // C/G/T
	set('D', 1|4|8)   // A/G/T
	set('H', 1|2|8)   // A/C/T
	set('V', 1|2|4)   // A/C/G
	set('N', 1|2|4|8) // any (adapter side only)
}

// BaseMatch reports whether adapter base p is compatible with read base r.
// A read base outside {A,C,G,T} (N from the basecaller, lower-case noise) is a
// hard mismatch.
func BaseMatch(r, p byte) bool {
	if r != 'A' && r != 'C' && r != 'G' && r != 'T' {
		return false
	}
	return iupacMask[p]&iupacMask[r] != 0
}

// IsACGT reports whether s is non-empty and made only of A, C, G and T.
// It returns the 0-based index of the first offending byte, or -1.
func IsACGT(s string) (bool, int) {
	if s == "" {
		return false, -1
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T':
		default:
			return false, i
		}
	}
	return true, -1
}
