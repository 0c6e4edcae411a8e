package main

import (
	"bytes"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dateSource = `package logs

//reform:template "{year}-{month}-{day}"
type Date struct {
	Year  uint16 ` + "`reform:\"year\"`" + `
	Month uint8  ` + "`reform:\"month\"`" + `
	Day   uint8  ` + "`reform:\"day\"`" + `
}

//reform:template "{date} {message}"
type Entry struct {
	Date    Date   ` + "`reform:\"date\"`" + `
	Message string ` + "`reform:\"message\"`" + `
}
`

const eventSchema = `package: events
records:
  - name: Event
    template: '{level}: {message}'
    fields:
      - {name: level, type: string, pattern: '(\w+)'}
      - {name: message, type: string}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// readGenerated reads a generated file and checks that it parses.
func readGenerated(t *testing.T, path string) string {
	t.Helper()
	out, err := os.ReadFile(path)
	require.NoError(t, err)
	_, err = parser.ParseFile(token.NewFileSet(), path, out, 0)
	require.NoError(t, err, string(out))
	return string(out)
}

func TestRunSourceDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "date.go", dateSource)

	var stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"-dir", dir}, &stderr), stderr.String())
	assert.Contains(t, stderr.String(), "wrote 2 records")

	out := readGenerated(t, filepath.Join(dir, defaultOutput))
	assert.Contains(t, out, "package logs")
	assert.Contains(t, out, "func ParseDate(input string) (Date, error)")
	assert.Contains(t, out, "func ParseEntry(input string) (Entry, error)")

	// A second run skips the file it wrote before
	stderr.Reset()
	require.Equal(t, 0, run([]string{"-dir", dir}, &stderr), stderr.String())
	assert.Equal(t, out, readGenerated(t, filepath.Join(dir, defaultOutput)))
}

func TestRunTypeFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "date.go", dateSource)

	var stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"-dir", dir, "-type", "Date", "-o", "date_gen.go"}, &stderr), stderr.String())

	out := readGenerated(t, filepath.Join(dir, "date_gen.go"))
	assert.Contains(t, out, "func ParseDate(")
	assert.NotContains(t, out, "func ParseEntry(")
}

func TestRunSchemaFile(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "events.yaml", eventSchema)

	var stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"-dir", dir, "-schema", schema, "-o", "events_gen.go"}, &stderr), stderr.String())

	out := readGenerated(t, filepath.Join(dir, "events_gen.go"))
	assert.Contains(t, out, "package events")
	assert.Contains(t, out, "type Event struct")
	assert.Contains(t, out, "func ParseEvent(input string) (Event, error)")
}

func TestRunFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "date.go", dateSource)
	badSchema := writeFile(t, dir, "bad.yaml", "records: []\n")

	tests := []struct {
		name    string
		args    []string
		code    int
		message string
	}{
		{"unknown_flag", []string{"-verbose"}, 2, "flag provided but not defined"},
		{"help", []string{"-h"}, 0, "Usage of reformgen"},
		{"unknown_type", []string{"-dir", dir, "-type", "Date,Missing"}, 1, "type Missing"},
		{"missing_dir", []string{"-dir", filepath.Join(dir, "nope")}, 1, "nope"},
		{"empty_dir", []string{"-dir", t.TempDir()}, 1, "no annotated records found"},
		{"bad_schema", []string{"-schema", badSchema}, 1, "bad.yaml"},
		{"missing_schema", []string{"-schema", filepath.Join(dir, "none.yaml")}, 1, "none.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			assert.Equal(t, tt.code, run(tt.args, &stderr))
			assert.Contains(t, stderr.String(), tt.message)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"Date", "Entry"}, splitList(" Date, ,Entry "))
}
