package records

import (
	"testing"
	"time"

	reform "github.com/SimonDaKappa/go-reform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2018-12-22 20:23")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2018, Month: 12, Day: 22, Hour: 20, Minute: 23}, date)

	// Only the numeric type limits the values
	date, err = ParseDate("2018-13-99 20:23")
	require.NoError(t, err)
	assert.Equal(t, uint8(13), date.Month)
	assert.Equal(t, uint8(99), date.Day)
}

func TestParseDateNoMatch(t *testing.T) {
	date, err := ParseDate("not-a-date")
	assert.Equal(t, Date{}, date)

	var nme *reform.NoMatchError
	require.ErrorAs(t, err, &nme)
	assert.Equal(t, "not-a-date", nme.Request)
	assert.Equal(t, `string "not-a-date" does not match format "{year}-{month}-{day} {hour}:{minute}"`, err.Error())
}

func TestParseDateOverflow(t *testing.T) {
	date, err := ParseDate("99999-1-1 1:1")
	assert.Equal(t, Date{}, date)

	var re *reform.ReconstructionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "year", re.Field)
	assert.Equal(t, "99999", re.Text)
}

func TestParseVec(t *testing.T) {
	tests := []struct {
		input string
		want  Vec
	}{
		{"Vec{-0.4,1e-3,   2e-3}", Vec{X: -0.4, Y: 0.001, Z: 0.002}},
		{"Vec{1,\t2,3}", Vec{X: 1, Y: 2, Z: 3}},
		{"Vec{.5, +6., 7E1}", Vec{X: 0.5, Y: 6, Z: 70}},
	}

	for _, tt := range tests {
		got, err := ParseVec(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ParseVec("Vec(1, 2, 3)")
	var nme *reform.NoMatchError
	assert.ErrorAs(t, err, &nme)
}

func TestParseSpan(t *testing.T) {
	start := Date{Year: 2018, Month: 12, Day: 22, Hour: 20, Minute: 23}
	end := Date{Year: 2019, Month: 1, Day: 1, Hour: 0, Minute: 0}

	tests := []struct {
		input string
		want  Span
	}{
		{"2018-12-22 20:23", Span{Start: start}},
		{"2018-12-22 20:23 -> 2019-1-1 0:0", Span{Start: start, End: &end}},
		{"2018-12-22 20:23 in 1h30m", Span{Start: start, Took: 90 * time.Minute}},
		{"2018-12-22 20:23 -> 2019-1-1 0:0 in 250ms", Span{Start: start, End: &end, Took: 250 * time.Millisecond}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSpan(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// The reflection path composes the generated methods the same way
			viaReflection, err := reform.Parse[Span](tt.input)
			require.NoError(t, err)
			assert.Equal(t, got, viaReflection)
		})
	}
}

func TestParseSpanNestedError(t *testing.T) {
	_, err := ParseSpan("2018-12-22 20:23 -> 2019-1-1 0:999")

	var re *reform.ReconstructionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "end.minute", re.Field)
}

func TestGeneratedWidths(t *testing.T) {
	assert.Equal(t, 5, (*Date).ReformWidth(nil))
	assert.Equal(t, 11, (*Span).ReformWidth(nil))
	assert.Equal(t, 3, (*Vec).ReformWidth(nil))
}
