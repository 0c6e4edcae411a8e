package gen

import (
	"bytes"
	"log"
	"testing"

	reform "github.com/SimonDaKappa/go-reform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dateRecord() *Record {
	return &Record{
		Name:     "Date",
		Template: "{year}-{month}-{day} {hour}:{minute}",
		Fields: []*Field{
			{GoName: "Year", Name: "year", Type: "uint16"},
			{GoName: "Month", Name: "month", Type: "uint8"},
			{GoName: "Day", Name: "day", Type: "uint8"},
			{GoName: "Hour", Name: "hour", Type: "uint8"},
			{GoName: "Minute", Name: "minute", Type: "uint8"},
		},
	}
}

func spanRecord() *Record {
	return &Record{
		Name:     "Span",
		Template: "{start} -> {end}",
		Fields: []*Field{
			{GoName: "Start", Name: "start", Type: "Date"},
			{GoName: "End", Name: "end", Type: "*Date"},
		},
	}
}

func TestResolveLeaves(t *testing.T) {
	compiled, err := Resolve(&Package{Name: "logs", Records: []*Record{dateRecord()}}, nil)
	require.NoError(t, err)
	require.Len(t, compiled, 1)

	date := compiled[0]
	assert.Equal(t, `(\d+)-(\d+)-(\d+) (\d+):(\d+)`, date.Schema.Pattern)
	assert.Equal(t, 5, date.Schema.Width)
	require.Len(t, date.Steps, 5)
	for i, step := range date.Steps {
		assert.Equal(t, reform.BaseOffset+i, step.Offset)
		assert.Equal(t, 1, step.Width)
		assert.Same(t, date.Record.Fields[i], step.Field)
	}
}

func TestResolveNestedRecords(t *testing.T) {
	// Span is listed before the record it refers to
	pkg := &Package{Name: "logs", Records: []*Record{spanRecord(), dateRecord()}}

	compiled, err := Resolve(pkg, nil)
	require.NoError(t, err)
	require.Len(t, compiled, 2)
	assert.Equal(t, "Span", compiled[0].Record.Name)
	assert.Equal(t, "Date", compiled[1].Record.Name)

	span := compiled[0]
	date := `(\d+)-(\d+)-(\d+) (\d+):(\d+)`
	assert.Equal(t, date+" -> "+date, span.Schema.Pattern)
	assert.Equal(t, 10, span.Schema.Width)
	require.Len(t, span.Steps, 2)
	assert.Equal(t, 1, span.Steps[0].Offset)
	assert.Equal(t, 5, span.Steps[0].Width)
	assert.Equal(t, 6, span.Steps[1].Offset)
}

func TestResolvePatternOverride(t *testing.T) {
	pkg := &Package{Name: "logs", Records: []*Record{{
		Name:     "LogLine",
		Template: `\[{level}\] {message}`,
		Fields: []*Field{
			{GoName: "Level", Name: "level", Type: "Level", Pattern: `(\w+)`},
			{GoName: "Message", Name: "message", Type: "string"},
		},
	}}}

	compiled, err := Resolve(pkg, nil)
	require.NoError(t, err)
	assert.Equal(t, `\[(\w+)\] (.*)`, compiled[0].Schema.Pattern)
}

func TestResolveSkipsIgnoredAndUnreferenced(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	pkg := &Package{Name: "logs", Records: []*Record{{
		Name:     "Pair",
		Template: "{a},{b}",
		Fields: []*Field{
			{GoName: "A", Name: "a", Type: "int"},
			{GoName: "Cache", Name: "Cache", Type: "map[string]int", Ignore: true},
			{GoName: "Note", Name: "note", Type: "string"},
			{GoName: "B", Name: "b", Type: "int"},
		},
	}}}

	compiled, err := Resolve(pkg, logger)
	require.NoError(t, err)

	pair := compiled[0]
	assert.Equal(t, []string{"note"}, pair.Schema.Excluded)
	require.Len(t, pair.Steps, 2)
	assert.Equal(t, "A", pair.Steps[0].Field.GoName)
	assert.Equal(t, "B", pair.Steps[1].Field.GoName)
	assert.Equal(t, 2, pair.Steps[1].Offset)
	assert.Contains(t, buf.String(), "[note]")
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		records []*Record
		wantErr error
	}{
		{
			name:    "no_records",
			wantErr: ErrNoRecords,
		},
		{
			name: "recursive",
			records: []*Record{{
				Name:     "Node",
				Template: "{value}(?:,{next})?",
				Fields: []*Field{
					{GoName: "Value", Name: "value", Type: "int"},
					{GoName: "Next", Name: "next", Type: "*Node"},
				},
			}},
			wantErr: reform.ErrRecursiveSchema,
		},
		{
			name: "unknown_type",
			records: []*Record{{
				Name:     "Weather",
				Template: "{temp}",
				Fields:   []*Field{{GoName: "Temp", Name: "temp", Type: "Celsius"}},
			}},
			wantErr: ErrUnknownType,
		},
		{
			name: "pattern_on_composite",
			records: []*Record{
				dateRecord(),
				{
					Name:     "Stamp",
					Template: "{at}",
					Fields:   []*Field{{GoName: "At", Name: "at", Type: "Date", Pattern: `(.*)`}},
				},
			},
			wantErr: reform.ErrPatternOnComposite,
		},
		{
			name: "placeholder_order",
			records: []*Record{{
				Name:     "Swapped",
				Template: "{b} {a}",
				Fields: []*Field{
					{GoName: "A", Name: "a", Type: "int"},
					{GoName: "B", Name: "b", Type: "int"},
				},
			}},
			wantErr: reform.ErrPlaceholderOrder,
		},
		{
			name: "unknown_placeholder",
			records: []*Record{{
				Name:     "Typo",
				Template: "{valeu}",
				Fields:   []*Field{{GoName: "Value", Name: "value", Type: "int"}},
			}},
			wantErr: reform.ErrUnknownPlaceholder,
		},
		{
			name: "unterminated",
			records: []*Record{{
				Name:     "Open",
				Template: "{value",
				Fields:   []*Field{{GoName: "Value", Name: "value", Type: "int"}},
			}},
			wantErr: reform.ErrUnterminatedPlaceholder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled, err := Resolve(&Package{Name: "logs", Records: tt.records}, nil)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, compiled)
		})
	}
}
