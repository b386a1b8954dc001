package introspect

import (
	"reflect"
	"sync"

	"github.com/viant/typedjson/jsonerr"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// ConstructorSpec describes a factory building an immutable composite from
// its member values. Names, when set, map parameter i to member Names[i].
type ConstructorSpec struct {
	Type     reflect.Type
	Fn       reflect.Value
	Params   []reflect.Type
	Names    []string
	HasError bool
}

// NewConstructorSpec validates fn, a func(params...) T or func(params...) (T, error).
func NewConstructorSpec(fn interface{}, names ...string) (*ConstructorSpec, error) {
	fnValue := reflect.ValueOf(fn)
	if !fnValue.IsValid() || fnValue.Kind() != reflect.Func || fnValue.IsNil() {
		return nil, jsonerr.Build(jsonerr.AmbiguousConstructorMapping, "", "constructor must be a non nil func, got %T", fn)
	}
	fnType := fnValue.Type()
	if fnType.IsVariadic() {
		return nil, jsonerr.Build(jsonerr.AmbiguousConstructorMapping, fnType.String(), "variadic constructor is not supported")
	}
	hasError := false
	switch fnType.NumOut() {
	case 1:
	case 2:
		if fnType.Out(1) != errorType {
			return nil, jsonerr.Build(jsonerr.AmbiguousConstructorMapping, fnType.String(), "second result must be error")
		}
		hasError = true
	default:
		return nil, jsonerr.Build(jsonerr.AmbiguousConstructorMapping, fnType.String(), "constructor must return T or (T, error)")
	}
	if len(names) > 0 && len(names) != fnType.NumIn() {
		return nil, jsonerr.Build(jsonerr.AmbiguousConstructorMapping, fnType.Out(0).String(), "%d member names for %d parameters", len(names), fnType.NumIn())
	}
	seen := map[string]bool{}
	for _, name := range names {
		if name == "" || seen[name] {
			return nil, jsonerr.Build(jsonerr.AmbiguousConstructorMapping, fnType.Out(0).String(), "member name %q is empty or repeated", name)
		}
		seen[name] = true
	}
	ret := &ConstructorSpec{Type: fnType.Out(0), Fn: fnValue, HasError: hasError, Names: names}
	for i := 0; i < fnType.NumIn(); i++ {
		ret.Params = append(ret.Params, fnType.In(i))
	}
	return ret, nil
}

// Registry holds enum, constructor and interface implementation registrations.
// Registrations must happen before the first decode of an affected type;
// compiled routines are never rebuilt.
type Registry struct {
	mu              sync.RWMutex
	enums           map[reflect.Type]*EnumSpec
	constructors    map[reflect.Type]*ConstructorSpec
	implementations map[reflect.Type]reflect.Type
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		enums:           map[reflect.Type]*EnumSpec{},
		constructors:    map[reflect.Type]*ConstructorSpec{},
		implementations: map[reflect.Type]reflect.Type{},
	}
}

// Default is the process wide registry.
var Default = NewRegistry()

// RegisterEnum registers spec for spec.Type.
func (r *Registry) RegisterEnum(spec *EnumSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enums[spec.Type] = spec
}

// Enum returns the enum spec of t.
func (r *Registry) Enum(t reflect.Type) (*EnumSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.enums[t]
	return spec, ok
}

// RegisterConstructor registers spec for spec.Type.
func (r *Registry) RegisterConstructor(spec *ConstructorSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[spec.Type] = spec
}

// Constructor returns the constructor of t.
func (r *Registry) Constructor(t reflect.Type) (*ConstructorSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.constructors[t]
	return spec, ok
}

// RegisterImplementation binds the non empty interface iface to the concrete impl.
func (r *Registry) RegisterImplementation(iface, impl reflect.Type) error {
	if iface.Kind() != reflect.Interface {
		return jsonerr.Build(jsonerr.UnsupportedShape, iface.String(), "not an interface")
	}
	if impl.Kind() == reflect.Interface || !impl.Implements(iface) {
		return jsonerr.Build(jsonerr.UnsupportedShape, iface.String(), "%v does not implement it", impl)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.implementations[iface] = impl
	return nil
}

// Implementation returns the concrete type registered for iface.
func (r *Registry) Implementation(iface reflect.Type) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	impl, ok := r.implementations[iface]
	return impl, ok
}
