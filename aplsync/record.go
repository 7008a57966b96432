package aplsync

import (
	"strings"
)

// Normalized product codes must land in this range to count as real UPC/PLU
// codes. Anything shorter or longer is treated as header junk or line noise.
const (
	minCodeLength = 8
	maxCodeLength = 14
)

// ProductRecord is one candidate catalog record produced by a parser.
type ProductRecord struct {
	Code        string
	Name        string
	Brand       string
	Size        string
	Category    string
	Subcategory string
}

// NormalizeCode strips every non-numeric character from a raw code value.
func NormalizeCode(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCode reports whether a normalized code has a plausible length.
func ValidCode(code string) bool {
	return len(code) >= minCodeLength && len(code) <= maxCodeLength
}
