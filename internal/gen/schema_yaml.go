package gen

import (
	"fmt"
	"io"

	reform "github.com/SimonDaKappa/go-reform"
	"gopkg.in/yaml.v3"
)

// SchemaFile is the YAML form of a package of records. Records listed in
// a schema file are declared by the generated code.
//
// Example YAML file:
//
//	package: logs
//	records:
//	  - name: Date
//	    template: '{year}-{month}-{day} {hour}:{minute}'
//	    fields:
//	      - {name: year, type: uint16, pattern: '(\d{4})'}
//	      - {name: month, type: uint8}
//	      - {name: day, type: uint8}
//	      - {name: hour, type: uint8}
//	      - {name: minute, type: uint8}
//	      - {name: source, go: Source, type: string, ignore: true}
type SchemaFile struct {
	// Package is the name of the generated package.
	Package string `yaml:"package"`

	// Records are the record declarations, in output order.
	Records []SchemaRecord `yaml:"records"`
}

// SchemaRecord describes one record.
type SchemaRecord struct {
	Name     string        `yaml:"name"`
	Template string        `yaml:"template"`
	Fields   []SchemaField `yaml:"fields"`
}

// SchemaField describes one field. Field order is the schema order.
type SchemaField struct {
	// Name is the placeholder name.
	Name string `yaml:"name"`

	// Go is the Go field name; defaults to Name in exported form.
	Go string `yaml:"go,omitempty"`

	// Type is a Go type expression, e.g. uint16, *time.Time or Date.
	Type string `yaml:"type"`

	// Pattern replaces the pattern of a leaf type.
	Pattern string `yaml:"pattern,omitempty"`

	// Ignore declares the field without matching it.
	Ignore bool `yaml:"ignore,omitempty"`
}

// LoadSchema decodes a YAML schema file.
func LoadSchema(r io.Reader) (*Package, error) {
	var file SchemaFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("error decoding schema file: %w", err)
	}
	return file.Build()
}

// Build converts the decoded file into a Package.
func (sf *SchemaFile) Build() (*Package, error) {
	if sf.Package == "" {
		return nil, ErrMissingPackage
	}

	pkg := &Package{Name: sf.Package}
	for i, sr := range sf.Records {
		record := &Record{
			Name:     sr.Name,
			Template: sr.Template,
			Declare:  true,
			Pos:      fmt.Sprintf("records[%d]", i),
		}
		if sr.Template == "" {
			return nil, record.where(reform.ErrMissingTemplate)
		}
		for _, f := range sr.Fields {
			if f.Name == "" || f.Type == "" {
				return nil, record.where(ErrMissingFieldKey)
			}
			goName := f.Go
			if goName == "" {
				goName = exportName(f.Name)
			}
			record.Fields = append(record.Fields, &Field{
				GoName:  goName,
				Name:    f.Name,
				Type:    f.Type,
				Pattern: f.Pattern,
				Ignore:  f.Ignore,
			})
		}
		pkg.Records = append(pkg.Records, record)
	}
	return pkg, nil
}
