// Command reformgen generates reform.Reformable implementations for
// annotated records.
//
// Records are read either from the Go files of a package directory,
// where a struct is annotated with a directive in its doc comment,
//
//	//reform:template "{year}-{month}-{day}"
//	type Date struct {
//	    Year  uint16 `reform:"year"`
//	    Month uint8  `reform:"month"`
//	    Day   uint8  `reform:"day"`
//	}
//
// or from a YAML schema file passed with -schema, in which case the
// struct declarations are generated as well.
//
// Typical use is a go:generate line next to the records:
//
//	//go:generate reformgen -type Date,Entry
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	reform "github.com/SimonDaKappa/go-reform"
	"github.com/SimonDaKappa/go-reform/internal/gen"
)

const defaultOutput = gen.DefaultOutput

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	logger := log.New(stderr, "reformgen: ", 0)

	fs := flag.NewFlagSet("reformgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		flagDir    = fs.String("dir", ".", "package directory to read annotated records from")
		flagTypes  = fs.String("type", "", "comma separated record names to generate; all annotated records by default")
		flagSchema = fs.String("schema", "", "YAML schema file; records are declared by the generated code")
		flagOutput = fs.String("o", defaultOutput, "output file, relative to -dir; - writes to stdout")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	pkg, err := load(*flagDir, *flagSchema, *flagOutput)
	if err != nil {
		logger.Println(err)
		return 1
	}

	if err := pkg.Filter(splitList(*flagTypes), reform.ErrMissingTemplate); err != nil {
		logger.Println(err)
		return 1
	}

	var buf bytes.Buffer
	if err := gen.Generate(pkg, &buf, logger); err != nil {
		logger.Println(err)
		return 1
	}

	if *flagOutput == "-" {
		if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
			logger.Println(err)
			return 1
		}
		return 0
	}

	out := *flagOutput
	if !filepath.IsAbs(out) {
		out = filepath.Join(*flagDir, out)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		logger.Println(err)
		return 1
	}
	logger.Printf("wrote %d records to %s", len(pkg.Records), out)
	return 0
}

// load reads the records either from the schema file or from dir.
func load(dir, schema, output string) (*gen.Package, error) {
	if schema == "" {
		return gen.LoadDir(dir, filepath.Base(output))
	}

	f, err := os.Open(schema)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pkg, err := gen.LoadSchema(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", schema, err)
	}
	return pkg, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
