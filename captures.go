package reform

// Captures holds the submatch positions of one successful match.
//
// Index 0 is the whole match, capture groups start at 1. It is the array
// every Reformable reads its own slots from.
type Captures struct {
	input string
	loc   []int // pairs of byte offsets as returned by FindStringSubmatchIndex
}

// NewCaptures wraps the result of FindStringSubmatchIndex on input.
func NewCaptures(input string, loc []int) Captures {
	return Captures{input: input, loc: loc}
}

// Len returns the number of slots including the whole match.
func (c Captures) Len() int {
	return len(c.loc) / 2
}

// Get returns the text of slot i. The second result is false when the slot
// is out of range or its group did not participate in the match.
func (c Captures) Get(i int) (string, bool) {
	if i < 0 || 2*i+1 >= len(c.loc) {
		return "", false
	}
	start, end := c.loc[2*i], c.loc[2*i+1]
	if start < 0 || end < 0 {
		return "", false
	}
	return c.input[start:end], true
}

// Text returns the text of slot i, or "" if it is absent.
func (c Captures) Text(i int) string {
	s, _ := c.Get(i)
	return s
}

// Input returns the string the captures were taken from.
func (c Captures) Input() string {
	return c.input
}

// Slice returns the texts of slots [offset, offset+width).
func (c Captures) Slice(offset, width int) []string {
	out := make([]string, 0, width)
	for i := offset; i < offset+width; i++ {
		out = append(out, c.Text(i))
	}
	return out
}
