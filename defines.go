package reform

import (
	"encoding"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// constants for the reform struct tag
const (
	TagName                 = "reform"
	TagIgnore               = "-"
	PatternSubTagPrefix     = "pattern"
	DefaultSubTagDelimiter  = byte('\'')
	DefaultKeyValueTagDelim = ":"
	TemplateFieldName       = "_"
	TemplateDirective       = "//reform:template"
)

// Patterns of the built-in leaf types. Each contributes exactly one
// capture group; internal grouping is non-capturing.
const (
	PatternUnsigned = `(\d+)`
	PatternSigned   = `([\+-]?\d+)`
	PatternFloat    = `((?:[\+-]?\d+(?:.\d*)?|.\d+)(?:[eE][\+-]?\d+)?)`
	PatternText     = `(.*)`
	PatternBool     = `([Tt][Rr][Uu][Ee]|[Ff][Aa][Ll][Ss][Ee]|[Yy][Ee][Ss]|[Nn][Oo]|[Oo][Nn]|[Oo][Ff][Ff]|1|0)`
	PatternUUID     = `((?:urn:uuid:)?\{?[0-9a-fA-F]{8}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{4}-?[0-9a-fA-F]{12}\}?)`
	PatternDuration = `([\+-]?(?:(?:\d+(?:\.\d*)?|\.\d+)(?:ns|us|µs|μs|ms|s|m|h))+|0)`
	PatternTime     = `(\d{4}-\d{2}-\d{2}(?:[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[\+-]\d{2}:\d{2})?)?)`
	PatternJSON     = `(\{.*\}|\[.*\])`
)

// leafPatterns maps Go type expressions, as written in source, to the
// pattern of the built-in leaf implementation. Used by the generator.
var leafPatterns = map[string]string{
	"uint":          PatternUnsigned,
	"uint8":         PatternUnsigned,
	"uint16":        PatternUnsigned,
	"uint32":        PatternUnsigned,
	"uint64":        PatternUnsigned,
	"uintptr":       PatternUnsigned,
	"byte":          PatternUnsigned,
	"int":           PatternSigned,
	"int8":          PatternSigned,
	"int16":         PatternSigned,
	"int32":         PatternSigned,
	"int64":         PatternSigned,
	"rune":          PatternSigned,
	"float32":       PatternFloat,
	"float64":       PatternFloat,
	"string":        PatternText,
	"[]byte":        PatternText,
	"bool":          PatternBool,
	"uuid.UUID":     PatternUUID,
	"time.Duration": PatternDuration,
	"time.Time":     PatternTime,
	"reform.JSON":   PatternJSON,
}

// LeafPattern returns the pattern of the built-in leaf type written as
// typeExpr in Go source. Every leaf has capture width 1.
func LeafPattern(typeExpr string) (string, bool) {
	p, ok := leafPatterns[typeExpr]
	return p, ok
}

// reflect.TypeOf constants for type checks
var (
	UUIDType            = reflect.TypeOf(uuid.UUID{})
	TimeType            = reflect.TypeOf(time.Time{})
	DurationType        = reflect.TypeOf(time.Duration(0))
	ByteSliceType       = reflect.TypeOf([]byte{})
	reformableType      = reflect.TypeOf((*Reformable)(nil)).Elem()
	templaterType       = reflect.TypeOf((*Templater)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)
