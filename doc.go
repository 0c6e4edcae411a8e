// Package reform parses strings into structs using format-like templates
// that compile to regular expressions.
//
// A record declares a template on a blank field. The template is a regular
// expression in which `{name}` stands for the field tagged `name` (or with
// that Go name). Each field type contributes its own sub-pattern, and the
// captures of a match are routed back to the fields that own them:
//
//	type Date struct {
//	    _      struct{} `reform:"{year}-{month}-{day} {hour}:{minute}"`
//	    Year   uint16   `reform:"year"`
//	    Month  uint8    `reform:"month"`
//	    Day    uint8    `reform:"day"`
//	    Hour   uint8    `reform:"hour"`
//	    Minute uint8    `reform:"minute"`
//	}
//
//	date, err := reform.Parse[Date]("2018-12-22 20:23")
//
// Since the template is a regular expression, special characters must be
// escaped, and `{` `}` must be doubled to stay literal. A literal brace in
// the input is thus escaped twice:
//
//	_ struct{} `reform:"Vec\\{{{x},\\s*{y},\\s*{z}\\}}"`
//
// Avoid capturing groups in templates; they shift the captures of every
// following field. Use non-capturing groups `(?:...)` instead. The capture
// count of every composed pattern is verified when the schema compiles.
// Placeholders must appear in the order their fields are declared.
//
// Supported field types are:
//   - signed and unsigned integers, float32 and float64
//   - string, []byte and bool
//   - time.Time, time.Duration, uuid.UUID and JSON
//   - types implementing encoding.TextUnmarshaler, matched as free text
//   - types implementing Reformable
//   - other records, composed recursively, and pointers to any of these
//   - types registered with RegisterType
//
// The input has to match the template as a whole. Every record type is
// compiled once per Registry, on first use, and the compiled matcher is
// shared between goroutines from then on.
//
// Fields that no placeholder refers to are left at their zero value and
// reported as a warning when the schema compiles; RegistryOpts.StrictFields
// turns the warning into an error, and `reform:"-"` silences it.
//
// A record implementing Validatable is validated after all of its fields
// are set. The error is returned as a *ValidationError.
//
// The reformgen command generates the same matchers ahead of time from
// `//reform:template` directives or a YAML schema file, so the template is
// checked at build time and no schema is compiled at run time.
package reform
