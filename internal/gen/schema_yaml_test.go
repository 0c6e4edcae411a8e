package gen

import (
	"strings"
	"testing"

	reform "github.com/SimonDaKappa/go-reform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dateSchema = `
package: logs
records:
  - name: Date
    template: '{year}-{month}-{day}'
    fields:
      - {name: year, type: uint16, pattern: '(\d{4})'}
      - {name: month, type: uint8}
      - {name: day, type: uint8}
      - {name: source_file, type: string, ignore: true}
  - name: Entry
    template: '{at} {level}: {message}'
    fields:
      - {name: at, type: Date}
      - {name: level, go: Severity, type: string, pattern: '(\w+)'}
      - {name: message, type: string}
`

func TestLoadSchema(t *testing.T) {
	pkg, err := LoadSchema(strings.NewReader(dateSchema))
	require.NoError(t, err)

	assert.Equal(t, "logs", pkg.Name)
	require.Len(t, pkg.Records, 2)

	date := pkg.Records[0]
	assert.Equal(t, "Date", date.Name)
	assert.Equal(t, "{year}-{month}-{day}", date.Template)
	assert.True(t, date.Declare)
	assert.Equal(t, "records[0]", date.Pos)
	assert.Equal(t, []*Field{
		{GoName: "Year", Name: "year", Type: "uint16", Pattern: `(\d{4})`},
		{GoName: "Month", Name: "month", Type: "uint8"},
		{GoName: "Day", Name: "day", Type: "uint8"},
		{GoName: "SourceFile", Name: "source_file", Type: "string", Ignore: true},
	}, date.Fields)

	entry := pkg.Records[1]
	assert.Equal(t, "records[1]", entry.Pos)
	assert.Equal(t, "Severity", entry.Fields[1].GoName)
	assert.Equal(t, "level", entry.Fields[1].Name)
}

func TestLoadSchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
		errText string
	}{
		{
			name:    "missing_package",
			yaml:    "records: []\n",
			wantErr: ErrMissingPackage,
		},
		{
			name: "missing_template",
			yaml: `
package: logs
records:
  - name: Date
    fields:
      - {name: year, type: int}
`,
			wantErr: reform.ErrMissingTemplate,
			errText: "records[0]: Date",
		},
		{
			name: "missing_field_type",
			yaml: `
package: logs
records:
  - name: Date
    template: '{year}'
    fields:
      - {name: year}
`,
			wantErr: ErrMissingFieldKey,
		},
		{
			name: "unknown_key",
			yaml: `
package: logs
records:
  - name: Date
    template: '{year}'
    fields:
      - {name: year, type: int, kind: leaf}
`,
			errText: "kind",
		},
		{
			name:    "not_yaml",
			yaml:    "package: [logs",
			errText: "error decoding schema file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, err := LoadSchema(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Nil(t, pkg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.errText != "" {
				assert.Contains(t, err.Error(), tt.errText)
			}
		})
	}
}
