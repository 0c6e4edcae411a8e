package gen

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/dave/jennifer/jen"

	reform "github.com/SimonDaKappa/go-reform"
)

const reformPath = "github.com/SimonDaKappa/go-reform"

// qualifiers maps the package qualifiers a declared field type may use to
// their import paths.
var qualifiers = map[string]string{
	"reform": reformPath,
	"time":   "time",
	"uuid":   "github.com/google/uuid",
}

// Generate resolves pkg and writes the generated file to w. logger
// receives the warnings of the schema compiler and may be nil.
func Generate(pkg *Package, w io.Writer, logger *log.Logger) error {
	compiled, err := Resolve(pkg, logger)
	if err != nil {
		return err
	}

	f := jen.NewFile(pkg.Name)
	f.HeaderComment("Code generated by reformgen. DO NOT EDIT.")
	f.ImportName(reformPath, "reform")

	for _, c := range compiled {
		if c.Record.Declare {
			if err := declare(f, c.Record); err != nil {
				return err
			}
		}
		emit(f, c)
	}

	return f.Render(w)
}

// declare writes the struct declaration of a record read from a schema
// file.
func declare(f *jen.File, r *Record) error {
	fields := make([]jen.Code, 0, len(r.Fields))
	for _, field := range r.Fields {
		typ, err := typeCode(field.Type)
		if err != nil {
			return r.where(fmt.Errorf("field %s: %w", field.GoName, err))
		}
		fields = append(fields, jen.Id(field.GoName).Add(typ).Tag(map[string]string{
			reform.TagName: fieldTag(field),
		}))
	}

	f.Commentf("%s is parsed from %q.", r.Name, r.Template)
	f.Type().Id(r.Name).Struct(fields...)
	f.Line()
	return nil
}

// fieldTag renders the reform tag of a declared field.
func fieldTag(field *Field) string {
	if field.Ignore {
		return reform.TagIgnore
	}
	if field.Pattern == "" {
		return field.Name
	}
	return fmt.Sprintf("%s %s%s%c%s%c",
		field.Name, reform.PatternSubTagPrefix, reform.DefaultKeyValueTagDelim,
		reform.DefaultSubTagDelimiter, field.Pattern, reform.DefaultSubTagDelimiter,
	)
}

// typeCode converts a Go type expression as written in a schema file.
func typeCode(expr string) (jen.Code, error) {
	switch {
	case strings.HasPrefix(expr, "*"):
		elem, err := typeCode(expr[1:])
		if err != nil {
			return nil, err
		}
		return jen.Op("*").Add(elem), nil
	case strings.HasPrefix(expr, "[]"):
		elem, err := typeCode(expr[2:])
		if err != nil {
			return nil, err
		}
		return jen.Index().Add(elem), nil
	}

	qual, name, found := strings.Cut(expr, ".")
	if !found {
		return jen.Id(expr), nil
	}
	path, ok := qualifiers[qual]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, expr)
	}
	return jen.Qual(path, name), nil
}

// emit writes the matcher and the Reformable implementation of a record.
func emit(f *jen.File, c *Compiled) {
	var (
		name     = c.Record.Name
		prefix   = lowerFirst(name)
		template = prefix + "ReformTemplate"
		pattern  = prefix + "ReformPattern"
		matcher  = prefix + "ReformMatcher"
	)

	f.Const().Defs(
		jen.Id(template).Op("=").Lit(c.Schema.Template),
		jen.Id(pattern).Op("=").Lit(c.Schema.Pattern),
	)
	f.Line()

	f.Var().Id(matcher).Op("=").Qual(reformPath, "NewMatcher").Call(jen.Id(template), jen.Id(pattern))
	f.Line()

	f.Func().Params(jen.Op("*").Id(name)).Id("ReformTemplate").Params().String().Block(
		jen.Return(jen.Id(template)),
	)
	f.Line()

	f.Func().Params(jen.Op("*").Id(name)).Id("ReformPattern").Params().String().Block(
		jen.Return(jen.Id(pattern)),
	)
	f.Line()

	f.Func().Params(jen.Op("*").Id(name)).Id("ReformWidth").Params().Int().Block(
		jen.Return(jen.Lit(c.Schema.Width)),
	)
	f.Line()

	body := make([]jen.Code, 0, len(c.Steps)+1)
	for _, step := range c.Steps {
		at := jen.Id("offset")
		if rel := step.Offset - reform.BaseOffset; rel > 0 {
			at = jen.Id("offset").Op("+").Lit(rel)
		}
		body = append(body, jen.If(
			jen.Err().Op(":=").Qual(reformPath, "DecodeField").Call(
				jen.Lit(step.Field.Name),
				jen.Op("&").Id("v").Dot(step.Field.GoName),
				jen.Id("c"),
				at,
			),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err())))
	}
	body = append(body, jen.Return(jen.Qual(reformPath, "Validate").Call(jen.Id("v"))))

	f.Func().Params(jen.Id("v").Op("*").Id(name)).Id("ReformFrom").Params(
		jen.Id("c").Qual(reformPath, "Captures"),
		jen.Id("offset").Int(),
	).Error().Block(body...)
	f.Line()

	f.Commentf("Parse%s parses input as a whole into a %s.", name, name)
	f.Func().Id("Parse"+name).Params(jen.Id("input").String()).Params(jen.Id(name), jen.Error()).Block(
		jen.List(jen.Id("c"), jen.Err()).Op(":=").Id(matcher).Dot("Match").Call(jen.Id("input")),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Id(name).Values(), jen.Err()),
		),
		jen.Var().Id("v").Id(name),
		jen.If(
			jen.Err().Op(":=").Id("v").Dot("ReformFrom").Call(jen.Id("c"), jen.Qual(reformPath, "BaseOffset")),
			jen.Err().Op("!=").Nil(),
		).Block(
			jen.Return(jen.Id(name).Values(), jen.Err()),
		),
		jen.Return(jen.Id("v"), jen.Nil()),
	)
	f.Line()
}
