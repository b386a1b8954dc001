package introspect

import (
	"reflect"
	"sort"
	"unsafe"

	"github.com/viant/typedjson/internal/directive"
	"github.com/viant/xunsafe"
)

// Bucket groups members for ordering; lower buckets come first.
type Bucket int

const (
	// ValueBucket holds fixed size primitives and enums.
	ValueBucket Bucket = iota
	// NullableBucket holds strings and pointers to primitives.
	NullableBucket
	// OtherBucket holds lists, maps, objects and interfaces.
	OtherBucket
	// RecursiveBucket holds members whose type reaches back into a cycle.
	RecursiveBucket
)

// Member is one (name, type, write target) entry of an object plan.
type Member struct {
	Name string
	// Field is the Go field name, or the constructor argument field name.
	Field      string
	Type       reflect.Type
	Descriptor *Descriptor
	// Offset accumulates field offsets through embedded structs, pointers included.
	// It only orders members; writes go through Target.
	Offset uintptr
	// Position is the declaration index, or the constructor parameter index.
	Position   int
	Depth      int
	Bucket     Bucket
	TimeLayout string
	Directive  *directive.Directive
	// Enum is the effective enum spec after member directives, nil for non enums.
	Enum     *EnumSpec
	Presence *xunsafe.Field
	chain    []*xunsafe.Field
}

// Target returns the member address inside holder, allocating nil embedded
// struct pointers on the way.
func (m *Member) Target(holder unsafe.Pointer) unsafe.Pointer {
	if len(m.chain) == 1 {
		return m.chain[0].Pointer(holder)
	}
	current := holder
	last := len(m.chain) - 1
	for i, f := range m.chain {
		ptr := f.Pointer(current)
		if i == last {
			return ptr
		}
		if f.Type.Kind() == reflect.Ptr {
			next := (*unsafe.Pointer)(ptr)
			if *next == nil {
				*next = reflect.New(f.Type.Elem()).UnsafePointer()
			}
			current = *next
		} else {
			current = ptr
		}
	}
	return current
}

// Presence flags members found in the input on a `setMarker:"true"` struct
// field whose bool fields are named after the members' Go fields.
type Presence struct {
	Holder *xunsafe.Field
	Type   reflect.Type
	Flags  map[string]*xunsafe.Field
}

// Ensure returns the marker struct address, allocating a nil marker pointer.
func (p *Presence) Ensure(holder unsafe.Pointer) unsafe.Pointer {
	if p.Type.Kind() != reflect.Ptr {
		return p.Holder.Pointer(holder)
	}
	if ptr := p.Holder.ValuePointer(holder); ptr != nil {
		return ptr
	}
	p.Holder.SetValue(holder, reflect.New(p.Type.Elem()).Interface())
	return p.Holder.ValuePointer(holder)
}

// ObjectPlan is the member plan of a composite type.
type ObjectPlan struct {
	Type    reflect.Type
	Members []*Member
	// Presence is nil unless the struct declares a presence marker.
	Presence *Presence
	// Constructor is set for immutable composites; members then target Args.
	Constructor *ConstructorSpec
	Args        reflect.Type
}

// Names returns member names in plan order.
func (p *ObjectPlan) Names() []string {
	ret := make([]string, len(p.Members))
	for i, m := range p.Members {
		ret[i] = m.Name
	}
	return ret
}

// Lookup returns the member named name or nil.
func (p *ObjectPlan) Lookup(name string) *Member {
	for _, m := range p.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// bucketOf classifies d; recursive composites go last.
func bucketOf(d *Descriptor) Bucket {
	if c := d.Composite(); c != nil && c.Recursive {
		return RecursiveBucket
	}
	switch d.Kind {
	case Enum:
		return ValueBucket
	case Primitive:
		if d.Primitive.IsFixedSize() {
			return ValueBucket
		}
		return NullableBucket
	case Nullable:
		if d.Elem.Kind == Primitive || d.Elem.Kind == Enum {
			return NullableBucket
		}
	}
	return OtherBucket
}

// order sorts members by bucket, then offset (constructor position for immutable composites).
func (p *ObjectPlan) order() {
	for _, m := range p.Members {
		m.Bucket = bucketOf(m.Descriptor)
	}
	byPosition := p.Constructor != nil
	sort.SliceStable(p.Members, func(i, j int) bool {
		a, b := p.Members[i], p.Members[j]
		if a.Bucket != b.Bucket {
			return a.Bucket < b.Bucket
		}
		if byPosition {
			return a.Position < b.Position
		}
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		return a.Position < b.Position
	})
}
