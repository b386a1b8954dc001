package typedjson

import (
	"reflect"

	"github.com/viant/typedjson/introspect"
	"github.com/viant/typedjson/jsonerr"
)

// Integer is the constraint of enum types.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// EnumOption adjusts an enum registration.
type EnumOption func(spec *introspect.EnumSpec) error

// AsFlags decodes comma separated constant names and combines their values.
func AsFlags() EnumOption {
	return func(spec *introspect.EnumSpec) error {
		spec.Flags = true
		return nil
	}
}

// WithEnumDefault decodes unrecognized names to the constant name.
func WithEnumDefault(name string) EnumOption {
	return func(spec *introspect.EnumSpec) error {
		return spec.SetDefault(name)
	}
}

// EnumAsInteger decodes the enum from a JSON integer of kind instead of a name.
func EnumAsInteger(kind reflect.Kind) EnumOption {
	return func(spec *introspect.EnumSpec) error {
		if !introspect.IsIntegerKind(kind) {
			return jsonerr.Build(jsonerr.UnsupportedShape, spec.Type.String(), "enum integer kind %v is not an integer kind", kind)
		}
		spec.AsInteger = kind
		return nil
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// RegisterEnum registers the constants of T. Registrations must precede the
// first decode of an affected type.
func RegisterEnum[T Integer](constants map[string]T, opts ...EnumOption) error {
	values := make(map[string]uint64, len(constants))
	for name, v := range constants {
		values[name] = uint64(v)
	}
	spec, err := introspect.NewEnumSpec(typeOf[T](), values)
	if err != nil {
		return err
	}
	for _, opt := range opts {
		if err = opt(spec); err != nil {
			return err
		}
	}
	introspect.Default.RegisterEnum(spec)
	return nil
}

// RegisterConstructor registers fn, a func(params...) T or func(params...)
// (T, error), as the way to build T. names map parameters to members in
// order; without names every parameter type must match exactly one field.
func RegisterConstructor[T any](fn interface{}, names ...string) error {
	spec, err := introspect.NewConstructorSpec(fn, names...)
	if err != nil {
		return err
	}
	if rType := typeOf[T](); spec.Type != rType {
		return jsonerr.Build(jsonerr.AmbiguousConstructorMapping, rType.String(), "constructor returns %v", spec.Type)
	}
	introspect.Default.RegisterConstructor(spec)
	return nil
}

// RegisterImplementation decodes the interface I as the concrete type T.
func RegisterImplementation[I any, T any]() error {
	return introspect.Default.RegisterImplementation(typeOf[I](), typeOf[T]())
}
