package reform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     []string
		wantErr  error
	}{
		{"simple", "{year}-{month}-{day}", []string{"day", "month", "year"}, nil},
		{"no_placeholders", `\d+-\d+`, []string{}, nil},
		{"escaped_span", "{{literal}}", []string{}, nil},
		{"escaped_around_placeholders", `Vec\{{{x},\s*{y}\}}`, []string{"x", "y"}, nil},
		{"stray_close", "a}b{c}", []string{"c"}, nil},
		{"empty_name", "{}", []string{""}, nil},
		{"nested", "{a{b}}", []string{"a{b}", "b"}, nil},
		{"repeated_name", "{a} {a}", []string{"a"}, nil},
		{"regex_quantifier_escaped", `(\d{{4}})`, []string{}, nil},
		{"unterminated", "{year}-{month", []string{"year"}, ErrUnterminatedPlaceholder},
		{"unterminated_only", "{", []string{}, ErrUnterminatedPlaceholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Placeholders(tt.template)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, set.Names())
		})
	}
}

func TestParseTemplateSegments(t *testing.T) {
	tmpl, err := ParseTemplate(`Vec\{{{x},\s*{y}\}}`)
	require.NoError(t, err)

	assert.Equal(t, []Segment{
		{Text: `Vec\{`},
		{Text: "x", IsPlaceholder: true},
		{Text: `,\s*`},
		{Text: "y", IsPlaceholder: true},
		{Text: `\}`},
	}, tmpl.Segments)
	assert.Equal(t, []string{"x", "y"}, tmpl.Occurrences())
}

func TestTemplateExpand(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"date", "{year}-{month}", `(\d+)-(\d+)`},
		{"escaped_braces", `Vec\{{{x}\}}`, `Vec\{(\d+)\}`},
		{"doubled_close_outside", "a}}b", "a}b"},
		{"single_close_outside", "a}b", "a}b"},
		{"quantifier", `\d{{2}}{x}`, `\d{2}(\d+)`},
		{"outermost_only", "<{a{b}}>", `<(\d+)>`},
	}

	sub := func(string) (string, error) { return `(\d+)`, nil }
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := ParseTemplate(tt.template)
			require.NoError(t, err)

			got, err := tmpl.Expand(sub)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTemplateUnterminatedOffset(t *testing.T) {
	tmpl, err := ParseTemplate("ab{cd")
	require.ErrorIs(t, err, ErrUnterminatedPlaceholder)
	assert.Contains(t, err.Error(), "offset 2")
	require.NotNil(t, tmpl)
	assert.Equal(t, []Segment{{Text: "ab"}}, tmpl.Segments)
}
