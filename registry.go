package reform

import (
	"fmt"
	"log"
	"os"
	"reflect"
	"sync"
)

// Registry compiles and caches the matchers of record types.
//
// Each record type is compiled at most once per Registry, the first time it
// is parsed, and the result is shared by all goroutines afterwards. Most
// programs use the package-level functions, which share a default
// Registry; a separate Registry is only needed for custom leaf types that
// must not leak into the rest of the program, or for different options.
type Registry struct {
	logger *log.Logger
	strict bool

	mu    sync.RWMutex
	types map[reflect.Type]*codec // custom leaves

	acyclic *onceCache[reflect.Type, struct{}]
	records *onceCache[reflect.Type, *codec]
	parsers *onceCache[reflect.Type, *compiledType]
	scans   *onceCache[string, *scanPlan]
}

// TypeSpec registers a leaf type the built-in set does not cover.
type TypeSpec struct {
	Type    reflect.Type
	Pattern string                                  // must contain exactly one capture group
	Decode  func(dst reflect.Value, text string) error // dst is settable and of Type
}

type RegistryOpts struct {
	Logger       *log.Logger // receives compile warnings; nil uses a stderr logger
	StrictFields bool        // fields absent from the template are an error
	Types        []TypeSpec
}

var (
	_defaultRegistry = MustNewRegistry(RegistryOpts{})
)

// Default returns the registry used by the package-level functions.
func Default() *Registry {
	return _defaultRegistry
}

func NewRegistry(opts RegistryOpts) (*Registry, error) {
	reg := &Registry{
		logger:  opts.Logger,
		strict:  opts.StrictFields,
		types:   make(map[reflect.Type]*codec),
		acyclic: newOnceCache[reflect.Type, struct{}](),
		records: newOnceCache[reflect.Type, *codec](),
		parsers: newOnceCache[reflect.Type, *compiledType](),
		scans:   newOnceCache[string, *scanPlan](),
	}
	if reg.logger == nil {
		reg.logger = log.New(os.Stderr, "reform: ", log.LstdFlags)
	}

	for _, spec := range opts.Types {
		if err := reg.RegisterType(spec); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// MustNewRegistry is NewRegistry that panics on error.
func MustNewRegistry(opts RegistryOpts) *Registry {
	reg, err := NewRegistry(opts)
	if err != nil {
		panic(err)
	}
	return reg
}

// RegisterType adds a custom leaf type. Registering drops every compiled
// schema of the registry, since the new type may change how they compile.
func (reg *Registry) RegisterType(spec TypeSpec) error {
	if spec.Type == nil || spec.Decode == nil {
		return fmt.Errorf("%w: type spec needs Type and Decode", ErrUnsupportedType)
	}
	if err := checkWidth(spec.Pattern, 1); err != nil {
		return fmt.Errorf("%s: %w", spec.Type, err)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.types[spec.Type]; exists {
		return fmt.Errorf("%w: %s", ErrTypeAlreadyRegistered, spec.Type)
	}
	reg.types[spec.Type] = leafCodec(spec.Type, spec.Pattern, spec.Decode)

	reg.acyclic.Clear()
	reg.records.Clear()
	reg.parsers.Clear()
	reg.scans.Clear()
	return nil
}

// RegisterType adds a custom leaf type to the default registry.
func RegisterType(spec TypeSpec) error {
	return _defaultRegistry.RegisterType(spec)
}

func (reg *Registry) registered(typ reflect.Type) (*codec, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	cd, ok := reg.types[typ]
	return cd, ok
}

func (reg *Registry) schemaOpts(typ reflect.Type) []SchemaOption {
	opts := []SchemaOption{WithLogger(reg.logger), withOwner(typ.String())}
	if reg.strict {
		opts = append(opts, WithStrictFields())
	}
	return opts
}

// Schema returns the compiled schema of the record type typ.
func (reg *Registry) Schema(typ reflect.Type) (*Schema, error) {
	if typ.Kind() != reflect.Struct {
		return nil, &CompileError{Type: typ, Err: ErrNotStruct}
	}
	ct, err := reg.compile(typ)
	if err != nil {
		return nil, err
	}
	if ct.codec.schema == nil {
		return nil, &CompileError{Type: typ, Err: ErrMissingTemplate}
	}
	return ct.codec.schema, nil
}

// SchemaOf returns the compiled schema of the record type typ in the
// default registry.
func SchemaOf(typ reflect.Type) (*Schema, error) {
	return _defaultRegistry.Schema(typ)
}

///////////////////////////////////////////////////////////////////////////////
// Compiled types
///////////////////////////////////////////////////////////////////////////////

// compiledType pairs the codec of a type with its matcher.
type compiledType struct {
	codec   *codec
	matcher *Matcher
}

// compile returns the compiled form of typ, building it on first use.
func (reg *Registry) compile(typ reflect.Type) (*compiledType, error) {
	return reg.parsers.GetOrCreate(typ, func() (*compiledType, error) {
		cd, err := reg.codecFor(typ, nil)
		if err != nil {
			return nil, &CompileError{Type: typ, Err: err}
		}
		return &compiledType{
			codec:   cd,
			matcher: NewMatcher(cd.describe(), cd.pattern),
		}, nil
	})
}

// parse matches input and reconstructs a fresh value of the compiled type.
// Nothing is returned unless every field reconstructed.
func (ct *compiledType) parse(input string) (reflect.Value, error) {
	c, err := ct.matcher.Match(input)
	if err != nil {
		return reflect.Value{}, err
	}

	fresh := reflect.New(ct.codec.typ).Elem()
	if err := ct.codec.decode(c, BaseOffset, fresh); err != nil {
		return reflect.Value{}, err
	}
	return fresh, nil
}

// ParseInto parses input into the value dest points to. dest is left
// unchanged when parsing fails.
func (reg *Registry) ParseInto(input string, dest any) error {
	value := reflect.ValueOf(dest)
	if value.Kind() != reflect.Ptr || value.IsNil() {
		return fmt.Errorf("%w, got %T", ErrInvalidDestination, dest)
	}

	ct, err := reg.compile(value.Type().Elem())
	if err != nil {
		return err
	}

	parsed, err := ct.parse(input)
	if err != nil {
		return err
	}
	value.Elem().Set(parsed)
	return nil
}

// ParseInto parses input into dest using the default registry.
func ParseInto(input string, dest any) error {
	return _defaultRegistry.ParseInto(input, dest)
}
