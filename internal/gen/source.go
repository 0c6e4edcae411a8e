package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	reform "github.com/SimonDaKappa/go-reform"
)

// LoadDir reads the non-test Go files of dir, skipping skip (the output
// file of a previous run), and collects every annotated record.
func LoadDir(dir string, skip string) (*Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || name == skip {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)

	fset := token.NewFileSet()
	pkg := &Package{}
	for _, name := range files {
		file, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ParseComments)
		if err != nil {
			return nil, err
		}
		if err := collect(fset, file, pkg); err != nil {
			return nil, err
		}
	}
	return pkg, nil
}

// ParseSource collects the annotated records of a single file. src is
// passed to parser.ParseFile.
func ParseSource(filename string, src any) (*Package, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	pkg := &Package{}
	if err := collect(fset, file, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

func collect(fset *token.FileSet, file *ast.File, pkg *Package) error {
	if pkg.Name == "" {
		pkg.Name = file.Name.Name
	} else if pkg.Name != file.Name.Name {
		return fmt.Errorf("%s: found packages %s and %s", fset.Position(file.Package), pkg.Name, file.Name.Name)
	}

	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)

			doc := ts.Doc
			if doc == nil && len(gd.Specs) == 1 {
				doc = gd.Doc
			}
			payload, found := directive(doc)
			if !found {
				continue
			}

			pos := fset.Position(ts.Pos()).String()
			record, err := recordOf(ts, payload, pos)
			if err != nil {
				return err
			}
			pkg.Records = append(pkg.Records, record)
		}
	}
	return nil
}

// directive returns the payload of the //reform:template line of doc.
func directive(doc *ast.CommentGroup) (string, bool) {
	if doc == nil {
		return "", false
	}
	for _, c := range doc.List {
		if rest, ok := strings.CutPrefix(c.Text, reform.TemplateDirective); ok {
			if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
				continue
			}
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}

// templateLiteral checks that payload is exactly one Go string literal and
// returns its value.
func templateLiteral(payload string) (string, error) {
	var s scanner.Scanner
	fset := token.NewFileSet()
	src := []byte(payload)
	file := fset.AddFile("", fset.Base(), len(src))

	failed := false
	s.Init(file, src, func(token.Position, string) { failed = true }, 0)

	_, tok, lit := s.Scan()
	if tok != token.STRING {
		return "", reform.ErrTemplateNotLiteral
	}
	value, err := strconv.Unquote(lit)
	if err != nil {
		return "", reform.ErrTemplateNotLiteral
	}

	_, next, nextLit := s.Scan()
	if next == token.SEMICOLON && nextLit == "\n" {
		_, next, _ = s.Scan()
	}
	if next != token.EOF || failed {
		return "", reform.ErrTemplateNotLiteral
	}
	return value, nil
}

func recordOf(ts *ast.TypeSpec, payload string, pos string) (*Record, error) {
	record := &Record{Name: ts.Name.Name, Pos: pos}

	template, err := templateLiteral(payload)
	if err != nil {
		return nil, record.where(err)
	}
	record.Template = template

	st, ok := ts.Type.(*ast.StructType)
	if !ok || ts.TypeParams != nil {
		return nil, record.where(reform.ErrNotStruct)
	}

	for _, f := range st.Fields.List {
		var (
			tag    string
			hasTag bool
		)
		if f.Tag != nil {
			raw, err := strconv.Unquote(f.Tag.Value)
			if err != nil {
				return nil, record.where(err)
			}
			tag, hasTag = reflect.StructTag(raw).Lookup(reform.TagName)
		}

		if len(f.Names) == 0 {
			if strings.TrimSpace(tag) == reform.TagIgnore {
				continue
			}
			return nil, record.where(fmt.Errorf("%w: embedded %s", reform.ErrUnnamedField, types.ExprString(f.Type)))
		}

		for _, ident := range f.Names {
			if ident.Name == reform.TemplateFieldName {
				continue
			}
			field := &Field{GoName: ident.Name, Name: ident.Name, Type: types.ExprString(f.Type)}
			if hasTag {
				ft, err := reform.ParseFieldTag(ident.Name, tag)
				if err != nil {
					return nil, record.where(err)
				}
				field.Name, field.Pattern, field.Ignore = ft.Name, ft.Pattern, ft.Ignore
			}
			record.Fields = append(record.Fields, field)
		}
	}
	return record, nil
}
