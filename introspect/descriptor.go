// Package introspect derives the static shape of Go types for decoding:
// descriptors, ordered member plans, constructor mappings and the recursion
// registry of a type graph.
package introspect

import (
	"reflect"
	"time"

	"github.com/viant/typedjson/value"
)

// Kind is the grammar shape of a type.
type Kind int

const (
	Invalid Kind = iota
	Primitive
	Nullable
	List
	Array
	Map
	Enum
	Object
	Any
	Interface
)

var kindNames = [...]string{"invalid", "primitive", "nullable", "list", "array", "map", "enum", "object", "any", "interface"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// PrimitiveKind identifies the primitive reader of a leaf.
type PrimitiveKind int

const (
	NotPrimitive PrimitiveKind = iota
	Bool
	Int
	Int8
	Int16
	Int32
	Int64
	Uint
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	String
	Char
	GUID
	Decimal
	Time
	Duration
)

// IsFixedSize returns true for primitives stored inline without indirection.
func (p PrimitiveKind) IsFixedSize() bool {
	return p != NotPrimitive && p != String
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	guidType     = reflect.TypeOf(value.GUID{})
	decimalType  = reflect.TypeOf(value.Decimal{})
	charType     = reflect.TypeOf(value.Char(0))
)

var primitiveByKind = map[reflect.Kind]PrimitiveKind{
	reflect.Bool:    Bool,
	reflect.Int:     Int,
	reflect.Int8:    Int8,
	reflect.Int16:   Int16,
	reflect.Int32:   Int32,
	reflect.Int64:   Int64,
	reflect.Uint:    Uint,
	reflect.Uint8:   Uint8,
	reflect.Uint16:  Uint16,
	reflect.Uint32:  Uint32,
	reflect.Uint64:  Uint64,
	reflect.Float32: Float32,
	reflect.Float64: Float64,
	reflect.String:  String,
}

// PrimitiveOf returns the primitive kind of t or NotPrimitive. Named types
// keep the primitive of their underlying kind, except the value types of
// the value package and time.Time / time.Duration.
func PrimitiveOf(t reflect.Type) PrimitiveKind {
	switch t {
	case timeType:
		return Time
	case durationType:
		return Duration
	case guidType:
		return GUID
	case decimalType:
		return Decimal
	case charType:
		return Char
	}
	return primitiveByKind[t.Kind()]
}

// Descriptor is the immutable shape of one type. Descriptors of a graph
// share nodes, so recursive types form cycles through Elem or Object members.
type Descriptor struct {
	Type      reflect.Type
	Kind      Kind
	Primitive PrimitiveKind
	// Elem is the pointee, element, map value or registered interface implementation.
	Elem *Descriptor
	// Len is the length of an Array.
	Len    int
	Enum   *EnumSpec
	Object *ObjectPlan
	// Recursive marks objects reachable from themselves.
	Recursive bool
	// Reused marks objects referenced from more than one place in the graph.
	Reused bool
	refs   int
}

// Composite unwraps nullable, list, array, map and interface wrappers and
// returns the nearest object descriptor, or nil.
func (d *Descriptor) Composite() *Descriptor {
	for seen := 0; d != nil && seen < 64; seen++ {
		switch d.Kind {
		case Object:
			return d
		case Nullable, List, Array, Map, Interface:
			d = d.Elem
		default:
			return nil
		}
	}
	return nil
}

// References returns how many member, element or root references point to d.
func (d *Descriptor) References() int { return d.refs }
