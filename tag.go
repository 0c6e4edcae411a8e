package reform

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Base Error types for tag parsing errors
var (
	ErrSubTagNotFound       = errors.New("subtag not found")
	ErrMultipleTemplates    = errors.New("more than one template annotation in struct")
	ErrInvalidFieldTag      = errors.New("invalid reform field tag")
	ErrPatternOnComposite   = errors.New("pattern override is only allowed on leaf fields")
	ErrUnterminatedSubTag   = errors.New("unterminated subtag value")
	ErrMissingSubTagValue   = errors.New("no value found after subtag")
)

// This file contains the tag parser for the reform package. A record
// declares its template on a blank field and may rename or re-pattern its
// fields:
//
//	type Date struct {
//	    _     struct{} `reform:"{year}-{month}-{day}"`
//	    Year  uint16   `reform:"year pattern:'(\\d{4})'"`
//	    Month uint8    `reform:"month"`
//	    Day   uint8    `reform:"day"`
//	    Note  string   `reform:"-"`
//	}
//
// Tag grammar:
//
//	template_tag:
//	    reform:"<template>"          // on the blank field only, taken verbatim
//	field_tag:
//	    reform:"<name> <subtag_list>" | reform:"-"
//	name:
//	    <string without ':' or whitespace> // defaults to the Go field name
//	subtag_list:
//	    [<subtag>]^*                 // Space Separated
//	subtag:
//	    pattern:'<regex>'            // replaces the leaf pattern, same width

// FieldTag corresponds to the `reform` tag of a record field.
type FieldTag struct {
	Name    string // placeholder name
	Pattern string // pattern override, empty if none
	Ignore  bool   // field tagged `reform:"-"`
}

// templateOf returns the template declared by typ.
func templateOf(typ reflect.Type) (string, error) {
	if typ.Implements(templaterType) {
		return reflect.Zero(typ).Interface().(Templater).ReformTemplate(), nil
	}
	if reflect.PointerTo(typ).Implements(templaterType) {
		return reflect.New(typ).Interface().(Templater).ReformTemplate(), nil
	}

	var (
		template string
		found    bool
	)
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag, ok := field.Tag.Lookup(TagName)
		if !ok || field.Name != TemplateFieldName {
			continue
		}
		if found {
			return "", fmt.Errorf("%w: %s", ErrMultipleTemplates, typ)
		}
		template, found = tag, true
	}
	if !found {
		return "", ErrMissingTemplate
	}
	return template, nil
}

// hasTemplate reports whether typ declares a template at all.
func hasTemplate(typ reflect.Type) bool {
	if typ.Kind() != reflect.Struct {
		return false
	}
	_, err := templateOf(typ)
	return !errors.Is(err, ErrMissingTemplate)
}

// DecodeFieldTag decodes the reform tag of field.
func DecodeFieldTag(field reflect.StructField) (FieldTag, error) {
	tag, ok := field.Tag.Lookup(TagName)
	if !ok {
		return FieldTag{Name: field.Name}, nil
	}
	return ParseFieldTag(field.Name, tag)
}

// ParseFieldTag decodes the value of a reform field tag written on the
// field fieldName.
func ParseFieldTag(fieldName, tag string) (FieldTag, error) {
	tag = strings.TrimSpace(tag)
	if tag == TagIgnore {
		return FieldTag{Name: fieldName, Ignore: true}, nil
	}

	ft := FieldTag{Name: fieldName}

	// The leading token is the name unless it already is a subtag
	// Example: "year pattern:'(\d{4})'" -> "year" as name
	head, rest, _ := strings.Cut(tag, " ")
	if head != "" && !strings.Contains(head, DefaultKeyValueTagDelim) {
		ft.Name = head
		tag = rest
	}

	subTags, err := SubTags(tag)
	if err != nil {
		return FieldTag{}, fmt.Errorf("%w for field %s: %w", ErrInvalidFieldTag, fieldName, err)
	}
	for key, value := range subTags {
		switch key {
		case PatternSubTagPrefix:
			ft.Pattern = value
		default:
			return FieldTag{}, fmt.Errorf("%w for field %s: unknown subtag %q", ErrInvalidFieldTag, fieldName, key)
		}
	}

	return ft, nil
}

// SubTags returns all key:'value' pairs of tag.
func SubTags(tag string) (map[string]string, error) {
	return SubTagsByDelimiter(tag, DefaultSubTagDelimiter)
}

// SubTagsByDelimiter returns all key:<delim>value<delim> pairs of tag.
// Values may also be undelimited, running to the next space.
func SubTagsByDelimiter(tag string, delim byte) (map[string]string, error) {
	result := make(map[string]string)

	i := 0
	for i < len(tag) {
		// Skip whitespace
		for i < len(tag) && (tag[i] == ' ' || tag[i] == '\t') {
			i++
		}
		if i >= len(tag) {
			break
		}

		// Find the next key:value pair
		colonIdx := strings.Index(tag[i:], DefaultKeyValueTagDelim)
		if colonIdx == -1 {
			return nil, fmt.Errorf("%w: %q", ErrSubTagNotFound, tag[i:])
		}
		colonIdx += i

		key := strings.TrimSpace(tag[i:colonIdx])
		value, end, err := subTagValue(tag, colonIdx+1, delim)
		if err != nil {
			return nil, fmt.Errorf("%w %q", err, key)
		}
		result[key] = value
		i = end
	}

	return result, nil
}

// SubTag returns the value of key in tag.
func SubTag(tag string, key string) (string, error) {
	return SubTagByDelimiter(tag, key, DefaultSubTagDelimiter)
}

// Example: tag = `year pattern:'(\d{4})'`
//
// SubTagByDelimiter(tag, "pattern", '\'') should return `(\d{4})`
func SubTagByDelimiter(tag string, key string, delim byte) (string, error) {
	search := key + DefaultKeyValueTagDelim
	idx := strings.Index(tag, search)
	if idx == -1 {
		return "", ErrSubTagNotFound
	}

	value, _, err := subTagValue(tag, idx+len(search), delim)
	if err != nil {
		return "", fmt.Errorf("%w %q", err, key)
	}
	return value, nil
}

// subTagValue reads the value starting at start and returns it with the
// index just past it. A backslash keeps the following character, including
// the delimiter, and is itself kept so regular expression escapes survive.
func subTagValue(tag string, start int, delim byte) (string, int, error) {
	for start < len(tag) && (tag[start] == ' ' || tag[start] == '\t') {
		start++
	}
	if start >= len(tag) {
		return "", start, ErrMissingSubTagValue
	}

	// If the value doesn't start with our delimiter, it's a simple value
	if tag[start] != delim {
		end := start
		for end < len(tag) && tag[end] != ' ' && tag[end] != '\t' {
			end++
		}
		return tag[start:end], end, nil
	}

	start++ // skip opening delimiter

	var builder strings.Builder
	escaped := false
	for i := start; i < len(tag); i++ {
		c := tag[i]

		if c == '\\' && !escaped {
			escaped = true
			builder.WriteByte(c)
			continue
		}

		if c == delim && !escaped {
			return builder.String(), i + 1, nil
		}

		builder.WriteByte(c)
		escaped = false
	}

	return "", len(tag), ErrUnterminatedSubTag
}
