package reform

import (
	"fmt"
	"sync"

	"github.com/coregx/coregex"
)

// Matcher applies a composed pattern to whole input strings.
//
// The regular expression is compiled on first use and then shared by all
// goroutines for the lifetime of the Matcher. A Matcher is normally stored
// in a package-level variable, one per record type.
type Matcher struct {
	template string
	pattern  string

	once sync.Once
	re   *coregex.Regex
}

// NewMatcher returns a matcher for pattern. template is only used in
// diagnostics; pass the pattern again if there is none.
func NewMatcher(template, pattern string) *Matcher {
	return &Matcher{template: template, pattern: pattern}
}

// Template returns the template the pattern was composed from.
func (m *Matcher) Template() string {
	return m.template
}

// Pattern returns the unanchored composed pattern.
func (m *Matcher) Pattern() string {
	return m.pattern
}

// Anchored returns the pattern as it is matched against input: the whole
// input has to match.
func (m *Matcher) Anchored() string {
	return anchor(m.pattern)
}

// Regex returns the compiled, anchored regular expression.
//
// A pattern that does not compile is a defect of the schema that produced
// it, not a property of any input, so Regex panics.
func (m *Matcher) Regex() *coregex.Regex {
	m.once.Do(func() {
		re, err := coregex.Compile(anchor(m.pattern))
		if err != nil {
			panic(fmt.Sprintf("reform: cannot compile pattern %q of template %q: %v", m.pattern, m.template, err))
		}
		m.re = re
	})
	return m.re
}

// Match matches input as a whole and returns its captures.
func (m *Matcher) Match(input string) (Captures, error) {
	loc := m.Regex().FindStringSubmatchIndex(input)
	if loc == nil {
		return Captures{}, &NoMatchError{
			Template: m.template,
			Pattern:  m.pattern,
			Request:  input,
		}
	}
	return NewCaptures(input, loc), nil
}

// MatchString reports whether input matches as a whole.
func (m *Matcher) MatchString(input string) bool {
	return m.Regex().MatchString(input)
}

func anchor(pattern string) string {
	return `^(?:` + pattern + `)$`
}
