package table

import "fmt"

// Alignment positions a value inside its column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

// String returns the single-letter alignment code.
func (a Alignment) String() string {
	switch a {
	case AlignRight:
		return "r"
	case AlignCenter:
		return "c"
	default:
		return "l"
	}
}

// AlignmentFromCode maps 'l', 'r' and 'c' to an Alignment. Any other rune
// falls back to AlignLeft.
func AlignmentFromCode(code rune) Alignment {
	switch code {
	case 'r':
		return AlignRight
	case 'c':
		return AlignCenter
	default:
		return AlignLeft
	}
}

// ParseAlignment splits an alignment spec such as "llr" into one Alignment
// per rune. Columns beyond the end of the spec are left aligned; see At.
func ParseAlignment(spec string) AlignmentSpec {
	out := make(AlignmentSpec, 0, len(spec))
	for _, r := range spec {
		out = append(out, AlignmentFromCode(r))
	}
	return out
}

// AlignmentSpec is a positional list of column alignments.
type AlignmentSpec []Alignment

// At returns the alignment of column i, AlignLeft when the spec is shorter.
func (s AlignmentSpec) At(i int) Alignment {
	if i < 0 || i >= len(s) {
		return AlignLeft
	}
	return s[i]
}

// String re-encodes the spec as alignment codes.
func (s AlignmentSpec) String() string {
	b := make([]byte, 0, len(s))
	for _, a := range s {
		b = append(b, a.String()[0])
	}
	return string(b)
}

// ValidateAlignment rejects specs containing codes other than l, r and c.
// Rendering itself never fails on a bad spec; this is for flag parsing.
func ValidateAlignment(spec string) error {
	for i, r := range spec {
		if r != 'l' && r != 'r' && r != 'c' {
			return fmt.Errorf("invalid alignment code %q at position %d (expected l, r or c)", r, i)
		}
	}
	return nil
}
