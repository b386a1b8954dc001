package introspect

import (
	"fmt"
	"reflect"

	"github.com/viant/typedjson/internal/directive"
	"github.com/viant/typedjson/internal/tagutil"
	"github.com/viant/typedjson/jsonerr"
	"github.com/viant/xunsafe"
)

// Config controls analysis.
type Config struct {
	// Registry supplies enums, constructors and implementations; nil uses Default.
	Registry *Registry
	// NameFormat transforms member names that are not named explicitly by a tag.
	NameFormat func(name string) string
}

// Graph is the analyzed type graph of a root type.
type Graph struct {
	Root  *Descriptor
	Types map[reflect.Type]*Descriptor
	// Recursive lists the recursive object types in discovery order.
	Recursive []reflect.Type
	order     []*Descriptor
}

// Descriptor returns the descriptor of t, if t is part of the graph.
func (g *Graph) Descriptor(t reflect.Type) (*Descriptor, bool) {
	d, ok := g.Types[t]
	return d, ok
}

// IsRecursive returns true when t is an object type reachable from itself.
func (g *Graph) IsRecursive(t reflect.Type) bool {
	d, ok := g.Types[t]
	return ok && d.Recursive
}

// IsReused returns true when t is an object type referenced from more than one place.
func (g *Graph) IsReused(t reflect.Type) bool {
	d, ok := g.Types[t]
	return ok && d.Reused
}

type analyzer struct {
	cfg   Config
	graph *Graph
}

// Analyze builds descriptors and member plans for every type reachable from
// rType, then flags recursive and reused object types.
func Analyze(rType reflect.Type, cfg Config) (*Graph, error) {
	if cfg.Registry == nil {
		cfg.Registry = Default
	}
	a := &analyzer{cfg: cfg, graph: &Graph{Types: map[reflect.Type]*Descriptor{}}}
	root, err := a.describe(rType)
	if err != nil {
		return nil, err
	}
	a.graph.Root = root
	a.countReferences()
	a.flagRecursive()
	for _, d := range a.graph.order {
		if d.Object != nil {
			d.Object.order()
		}
	}
	return a.graph, nil
}

func (a *analyzer) describe(t reflect.Type) (*Descriptor, error) {
	if d, ok := a.graph.Types[t]; ok {
		return d, nil
	}
	d := &Descriptor{Type: t}
	a.graph.Types[t] = d
	a.graph.order = append(a.graph.order, d)
	if err := a.fill(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (a *analyzer) fill(d *Descriptor) error {
	t := d.Type
	if spec, ok := a.cfg.Registry.Enum(t); ok {
		d.Kind = Enum
		d.Enum = spec
		return nil
	}
	if spec, ok := a.cfg.Registry.Constructor(t); ok {
		d.Kind = Object
		return a.constructorPlan(d, spec)
	}
	if p := PrimitiveOf(t); p != NotPrimitive {
		d.Kind = Primitive
		d.Primitive = p
		return nil
	}
	var err error
	switch t.Kind() {
	case reflect.Ptr:
		d.Kind = Nullable
		d.Elem, err = a.describe(t.Elem())
	case reflect.Slice:
		d.Kind = List
		d.Elem, err = a.describe(t.Elem())
	case reflect.Array:
		d.Kind = Array
		d.Len = t.Len()
		d.Elem, err = a.describe(t.Elem())
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return jsonerr.Build(jsonerr.UnsupportedKeyType, t.String(), "map key must be string kind, got %v", t.Key())
		}
		d.Kind = Map
		d.Elem, err = a.describe(t.Elem())
	case reflect.Struct:
		d.Kind = Object
		err = a.structPlan(d)
	case reflect.Interface:
		if t.NumMethod() == 0 {
			d.Kind = Any
			return nil
		}
		impl, ok := a.cfg.Registry.Implementation(t)
		if !ok {
			return jsonerr.Build(jsonerr.UnsupportedShape, t.String(), "interface has no registered implementation")
		}
		d.Kind = Interface
		d.Elem, err = a.describe(impl)
	default:
		return jsonerr.Build(jsonerr.UnsupportedShape, t.String(), "%v kind is not supported", t.Kind())
	}
	return err
}

func (a *analyzer) memberName(name string, explicit bool) string {
	if explicit || a.cfg.NameFormat == nil {
		return name
	}
	return a.cfg.NameFormat(name)
}

func (a *analyzer) newMember(owner reflect.Type, name, field string, fType reflect.Type, resolved tagutil.ResolvedFieldTag) (*Member, error) {
	fd, err := a.describe(fType)
	if err != nil {
		return nil, err
	}
	m := &Member{
		Name:       name,
		Field:      field,
		Type:       fType,
		Descriptor: fd,
		TimeLayout: resolved.TimeLayout,
		Directive:  resolved.Directive,
	}
	if enum := enumOf(fd); enum != nil {
		if m.Enum, err = enum.Apply(resolved.Directive); err != nil {
			return nil, err
		}
	} else if d := resolved.Directive; d != nil && (d.EnumAs != reflect.Invalid || d.Default != "") {
		return nil, jsonerr.Build(jsonerr.UnsupportedShape, owner.String(), "enum directive on non enum member %s", field)
	}
	return m, nil
}

// enumOf returns the enum spec reached through nullable and container wrappers.
func enumOf(d *Descriptor) *EnumSpec {
	for seen := 0; d != nil && seen < 64; seen++ {
		switch d.Kind {
		case Enum:
			return d.Enum
		case Nullable, List, Array, Map:
			d = d.Elem
		default:
			return nil
		}
	}
	return nil
}

func (a *analyzer) structPlan(d *Descriptor) error {
	t := d.Type
	plan := &ObjectPlan{Type: t}
	d.Object = plan
	byName := map[string]*Member{}
	var collect func(st reflect.Type, parent []*xunsafe.Field, base uintptr, depth int) error
	collect = func(st reflect.Type, parent []*xunsafe.Field, base uintptr, depth int) error {
		for i := 0; i < st.NumField(); i++ {
			sf := st.Field(i)
			if depth == 0 && sf.Tag.Get("setMarker") == "true" {
				plan.Presence = newPresence(sf)
				continue
			}
			resolved, err := tagutil.ResolveFieldTag(sf)
			if err != nil {
				return jsonerr.Build(jsonerr.UnsupportedShape, t.String(), "field %s: %v", sf.Name, err)
			}
			if resolved.Ignore {
				continue
			}
			xf := xunsafe.NewField(sf)
			chain := append(append(make([]*xunsafe.Field, 0, len(parent)+1), parent...), xf)
			if resolved.Inline {
				inlineType := sf.Type
				isPtr := inlineType.Kind() == reflect.Ptr
				if isPtr {
					inlineType = inlineType.Elem()
				}
				if inlineType.Kind() == reflect.Struct && PrimitiveOf(inlineType) == NotPrimitive {
					if isPtr && sf.PkgPath != "" {
						continue
					}
					if err = collect(inlineType, chain, base+sf.Offset, depth+1); err != nil {
						return err
					}
					continue
				}
			}
			if sf.PkgPath != "" {
				continue
			}
			name := a.memberName(resolved.Name, resolved.Explicit)
			m, err := a.newMember(t, name, sf.Name, sf.Type, resolved)
			if err != nil {
				return err
			}
			m.Offset = base + sf.Offset
			m.Depth = depth
			m.chain = chain
			if existing, ok := byName[name]; ok {
				if existing.Depth <= depth {
					continue
				}
				plan.remove(existing)
			}
			m.Position = len(plan.Members)
			byName[name] = m
			plan.Members = append(plan.Members, m)
		}
		return nil
	}
	if err := collect(t, nil, 0, 0); err != nil {
		return err
	}
	if plan.Presence != nil {
		for _, m := range plan.Members {
			m.Presence = plan.Presence.Flags[m.Field]
		}
	}
	return nil
}

func (p *ObjectPlan) remove(m *Member) {
	for i, candidate := range p.Members {
		if candidate == m {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			return
		}
	}
}

func newPresence(sf reflect.StructField) *Presence {
	holderType := sf.Type
	if holderType.Kind() == reflect.Ptr {
		holderType = holderType.Elem()
	}
	if holderType.Kind() != reflect.Struct {
		return nil
	}
	ret := &Presence{Holder: xunsafe.NewField(sf), Type: sf.Type, Flags: map[string]*xunsafe.Field{}}
	for j := 0; j < holderType.NumField(); j++ {
		mf := holderType.Field(j)
		if mf.Type.Kind() == reflect.Bool {
			ret.Flags[mf.Name] = xunsafe.NewField(mf)
		}
	}
	return ret
}

func (a *analyzer) constructorPlan(d *Descriptor, spec *ConstructorSpec) error {
	t := d.Type
	fields := make([]reflect.StructField, len(spec.Params))
	for i, param := range spec.Params {
		fields[i] = reflect.StructField{Name: fmt.Sprintf("P%d", i), Type: param}
	}
	args := reflect.StructOf(fields)
	plan := &ObjectPlan{Type: t, Constructor: spec, Args: args}
	d.Object = plan
	sources, err := a.constructorSources(spec)
	if err != nil {
		return err
	}
	for i := range spec.Params {
		sf := args.Field(i)
		m, err := a.newMember(t, sources[i].name, sf.Name, sf.Type, sources[i].tag)
		if err != nil {
			return err
		}
		m.Offset = sf.Offset
		m.Position = i
		m.chain = []*xunsafe.Field{xunsafe.NewField(sf)}
		plan.Members = append(plan.Members, m)
	}
	return nil
}

type paramSource struct {
	name string
	tag  tagutil.ResolvedFieldTag
}

// constructorSources maps constructor parameters to member names: explicit
// names win; otherwise each parameter type must match exactly one field of
// the produced struct.
func (a *analyzer) constructorSources(spec *ConstructorSpec) ([]paramSource, error) {
	t := spec.Type
	ret := make([]paramSource, len(spec.Params))
	if len(spec.Names) > 0 {
		for i, name := range spec.Names {
			ret[i] = paramSource{name: name, tag: tagutil.ResolvedFieldTag{Name: name, Explicit: true, Directive: &directive.Directive{}}}
		}
		return ret, nil
	}
	st := t
	if st.Kind() == reflect.Ptr {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil, jsonerr.Build(jsonerr.AmbiguousConstructorMapping, t.String(), "constructor of a non struct type requires explicit member names")
	}
	used := map[int]bool{}
	for i, param := range spec.Params {
		matched := -1
		count := 0
		var resolved tagutil.ResolvedFieldTag
		for j := 0; j < st.NumField(); j++ {
			sf := st.Field(j)
			if sf.Type != param {
				continue
			}
			tag, err := tagutil.ResolveFieldTag(sf)
			if err != nil {
				return nil, jsonerr.Build(jsonerr.UnsupportedShape, t.String(), "field %s: %v", sf.Name, err)
			}
			if tag.Ignore {
				continue
			}
			count++
			matched = j
			resolved = tag
		}
		if count != 1 {
			return nil, jsonerr.Build(jsonerr.AmbiguousConstructorMapping, t.String(), "parameter %d (%v) matches %d fields", i, param, count)
		}
		if used[matched] {
			return nil, jsonerr.Build(jsonerr.AmbiguousConstructorMapping, t.String(), "field %s is mapped by more than one parameter", st.Field(matched).Name)
		}
		used[matched] = true
		ret[i] = paramSource{name: a.memberName(resolved.Name, resolved.Explicit), tag: resolved}
	}
	return ret, nil
}
