package introspect

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/viant/typedjson/internal/directive"
	"github.com/viant/typedjson/jsonerr"
)

// EnumSpec describes an integer kind type decoded from constant names.
// Values hold the constant bit patterns zero extended to 64 bits.
type EnumSpec struct {
	Type       reflect.Type
	Names      []string
	Values     []uint64
	Flags      bool
	HasDefault bool
	Default    uint64
	// AsInteger, when set, decodes the enum from a JSON integer of this kind.
	AsInteger reflect.Kind
}

// IsIntegerKind returns true for signed and unsigned integer kinds.
func IsIntegerKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// NewEnumSpec creates a spec from constant names; names are ordered by value then name.
func NewEnumSpec(rType reflect.Type, constants map[string]uint64) (*EnumSpec, error) {
	if !IsIntegerKind(rType.Kind()) {
		return nil, jsonerr.Build(jsonerr.UnsupportedShape, rType.String(), "enum requires an integer kind, got %v", rType.Kind())
	}
	if len(constants) == 0 {
		return nil, jsonerr.Build(jsonerr.UnsupportedShape, rType.String(), "enum requires at least one constant")
	}
	names := make([]string, 0, len(constants))
	for name := range constants {
		if name == "" {
			return nil, jsonerr.Build(jsonerr.UnsupportedShape, rType.String(), "enum constant name is empty")
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		vi, vj := constants[names[i]], constants[names[j]]
		if vi != vj {
			return vi < vj
		}
		return names[i] < names[j]
	})
	ret := &EnumSpec{Type: rType, Names: names, Values: make([]uint64, len(names))}
	for i, name := range names {
		ret.Values[i] = constants[name]
	}
	return ret, nil
}

// Lookup returns the value of a constant name.
func (e *EnumSpec) Lookup(name string) (uint64, bool) {
	for i, candidate := range e.Names {
		if candidate == name {
			return e.Values[i], true
		}
	}
	return 0, false
}

// SetDefault configures the value used for unrecognized names.
func (e *EnumSpec) SetDefault(name string) error {
	v, ok := e.Lookup(name)
	if !ok {
		return jsonerr.Build(jsonerr.UnrecognizedEnumValue, e.Type.String(), "default %q is not a constant", name)
	}
	e.HasDefault = true
	e.Default = v
	return nil
}

// Apply returns a copy of e adjusted by a member directive, or e when d sets nothing for enums.
func (e *EnumSpec) Apply(d *directive.Directive) (*EnumSpec, error) {
	if d == nil || (d.EnumAs == reflect.Invalid && d.Default == "") {
		return e, nil
	}
	ret := *e
	if d.EnumAs != reflect.Invalid {
		ret.AsInteger = d.EnumAs
	}
	if d.Default != "" {
		if err := ret.SetDefault(d.Default); err != nil {
			return nil, err
		}
	}
	return &ret, nil
}

func (e *EnumSpec) String() string {
	return fmt.Sprintf("enum %v%v", e.Type, e.Names)
}
