package reform

import (
	"fmt"
	"sort"
	"strings"
)

// This file contains the template analyzer. A template is a regular
// expression in which `{name}` marks a placeholder, `{{` is a literal `{`
// and `}}` is a literal `}`. Since `{` is also special in regular
// expression syntax, a literal brace in the matched text has to be escaped
// twice:
//
//	Vec\{{{x},\s*{y}\}}  ->  Vec\{<x>,\s*<y>\}
//
// Template grammar:
//
//	template:
//	    [<segment>]^*
//	segment:
//	    <literal> | <placeholder>
//	literal:
//	    '{{' | '}}' | '}' | <any character except '{' and '}'>
//	placeholder:
//	    '{' <name> '}'
//	name:
//	    [<any character except '}'> | <placeholder>]^*
//
// A `}` that closes nothing is literal. A placeholder nested inside another
// one is recorded as a placeholder name of its own, but only the outermost
// placeholder is substituted.

const (
	openBrace  = '{'
	closeBrace = '}'
)

// PlaceholderSet is the set of distinct placeholder names of a template.
type PlaceholderSet map[string]struct{}

// Contains reports whether name is a placeholder of the template.
func (ps PlaceholderSet) Contains(name string) bool {
	_, ok := ps[name]
	return ok
}

// Names returns the placeholder names in lexical order.
func (ps PlaceholderSet) Names() []string {
	names := make([]string, 0, len(ps))
	for name := range ps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Segment is either literal pattern text or an outermost placeholder.
type Segment struct {
	Text          string // unescaped literal text, or the placeholder name
	IsPlaceholder bool
}

// Template is an analyzed template string.
type Template struct {
	Source       string
	Segments     []Segment
	Placeholders PlaceholderSet
}

// Placeholders scans template and returns the set of placeholder names it
// contains. On an unterminated placeholder the names found so far are
// returned together with ErrUnterminatedPlaceholder.
func Placeholders(template string) (PlaceholderSet, error) {
	t, err := ParseTemplate(template)
	if t == nil {
		return nil, err
	}
	return t.Placeholders, err
}

// ParseTemplate analyzes template in a single left to right scan.
func ParseTemplate(template string) (*Template, error) {
	var (
		stack    []int // positions just after each open brace
		segments []Segment
		literal  strings.Builder
		set      = make(PlaceholderSet)
	)

	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, Segment{Text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(template); i++ {
		c := template[i]

		switch c {
		case openBrace:
			if i+1 < len(template) && template[i+1] == openBrace {
				// Escaped brace, only literal outside of a placeholder body
				if len(stack) == 0 {
					literal.WriteByte(openBrace)
				}
				i++
				continue
			}
			if len(stack) == 0 {
				flush()
			}
			stack = append(stack, i+1)

		case closeBrace:
			if len(stack) == 0 {
				literal.WriteByte(closeBrace)
				if i+1 < len(template) && template[i+1] == closeBrace {
					i++
				}
				continue
			}
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			name := template[start:i]
			set[name] = struct{}{}
			if len(stack) == 0 {
				segments = append(segments, Segment{Text: name, IsPlaceholder: true})
			}

		default:
			if len(stack) == 0 {
				literal.WriteByte(c)
			}
		}
	}
	flush()

	t := &Template{
		Source:       template,
		Segments:     segments,
		Placeholders: set,
	}

	if len(stack) > 0 {
		return t, fmt.Errorf(
			"%w: %q opened at offset %d",
			ErrUnterminatedPlaceholder, template, stack[0]-1,
		)
	}
	return t, nil
}

// Expand substitutes every placeholder with the pattern returned by sub.
func (t *Template) Expand(sub func(name string) (string, error)) (string, error) {
	var b strings.Builder
	for _, seg := range t.Segments {
		if !seg.IsPlaceholder {
			b.WriteString(seg.Text)
			continue
		}
		pattern, err := sub(seg.Text)
		if err != nil {
			return "", err
		}
		b.WriteString(pattern)
	}
	return b.String(), nil
}

// Occurrences returns the outermost placeholder names in template order.
func (t *Template) Occurrences() []string {
	var names []string
	for _, seg := range t.Segments {
		if seg.IsPlaceholder {
			names = append(names, seg.Text)
		}
	}
	return names
}
