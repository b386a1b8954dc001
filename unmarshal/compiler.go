package unmarshal

import (
	"reflect"
	"unsafe"

	"github.com/viant/typedjson/introspect"
	"github.com/viant/typedjson/jsonerr"
	"github.com/viant/typedjson/reader"
)

// hints carry member level settings down to leaves; object boundaries drop them.
type hints struct {
	enum       *introspect.EnumSpec
	timeLayout string
}

type shared struct {
	cell *cell
	fn   Func
}

type compiler struct {
	cfg      *Config
	config   configKey
	graph    *introspect.Graph
	cache    *Cache
	maxDepth int
	shared   map[*introspect.Descriptor]*shared
}

func newCompiler(cfg *Config, config configKey, graph *introspect.Graph, cache *Cache) *compiler {
	return &compiler{
		cfg:      cfg,
		config:   config,
		graph:    graph,
		cache:    cache,
		maxDepth: cfg.maxDepth(),
		shared:   map[*introspect.Descriptor]*shared{},
	}
}

// Compile builds a routine for graph without caching it.
func Compile(graph *introspect.Graph, cfg Config) (Func, error) {
	comp := newCompiler(&cfg, cfg.key(), graph, nil)
	return comp.compile(graph.Root, hints{})
}

func (c *compiler) compile(d *introspect.Descriptor, h hints) (Func, error) {
	switch d.Kind {
	case introspect.Primitive:
		fn, err := c.primitive(d, h)
		if err != nil {
			return nil, err
		}
		return c.valueNull(fn), nil
	case introspect.Enum:
		fn, err := c.enum(d, h)
		if err != nil {
			return nil, err
		}
		return c.valueNull(fn), nil
	case introspect.Nullable:
		return c.nullable(d, h)
	case introspect.List:
		return c.list(d, h)
	case introspect.Array:
		return c.array(d, h)
	case introspect.Map:
		return c.mapOf(d, h)
	case introspect.Object:
		if d.Recursive || d.Reused {
			return c.sharedObject(d)
		}
		return c.object(d)
	case introspect.Any:
		return c.any(), nil
	case introspect.Interface:
		return c.iface(d)
	}
	return nil, jsonerr.Build(jsonerr.UnsupportedShape, d.Type.String(), "%v shape has no routine", d.Kind)
}

// sharedObject compiles d once per build; recursive types are reached
// through a cell filled when their body is complete.
func (c *compiler) sharedObject(d *introspect.Descriptor) (Func, error) {
	if s, ok := c.shared[d]; ok {
		return s.fn, nil
	}
	if c.cache != nil && d != c.graph.Root {
		if fn, ok := c.cache.lookup(d.Type, c.config); ok {
			c.shared[d] = &shared{fn: fn}
			return fn, nil
		}
	}
	s := &shared{}
	if d.Recursive {
		s.cell = &cell{}
		s.fn = s.cell.call
	}
	c.shared[d] = s
	fn, err := c.object(d)
	if err != nil {
		delete(c.shared, d)
		return nil, err
	}
	if s.cell != nil {
		s.cell.set(fn)
	} else {
		s.fn = fn
	}
	return s.fn, nil
}

func (c *compiler) nullError(cur *reader.Cursor) error {
	return jsonerr.New(jsonerr.ExpectedToken, cur.Pos-len("null"), "null is not allowed for a non nullable value")
}

// valueNull wraps routines of non nullable destinations: under CompatNulls a
// null leaves the destination unchanged, under StrictNulls it fails.
func (c *compiler) valueNull(fn Func) Func {
	strict := c.cfg.Nulls == StrictNulls
	return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
		isNull, err := cur.Null()
		if err != nil {
			return err
		}
		if isNull {
			if strict {
				return c.nullError(cur)
			}
			return nil
		}
		return fn(cur, ptr, depth)
	}
}

func (c *compiler) nullable(d *introspect.Descriptor, h hints) (Func, error) {
	elemFn, err := c.compile(d.Elem, h)
	if err != nil {
		return nil, err
	}
	elemType := d.Type.Elem()
	return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
		isNull, err := cur.Null()
		if err != nil {
			return err
		}
		holder := (*unsafe.Pointer)(ptr)
		if isNull {
			*holder = nil
			return nil
		}
		if *holder == nil {
			*holder = reflect.New(elemType).UnsafePointer()
		}
		return elemFn(cur, *holder, depth)
	}, nil
}

func (c *compiler) any() Func {
	maxDepth := c.maxDepth
	return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
		v, err := cur.ReadAny(depth, maxDepth)
		if err != nil {
			return err
		}
		*(*interface{})(ptr) = v
		return nil
	}
}

func (c *compiler) iface(d *introspect.Descriptor) (Func, error) {
	implFn, err := c.compile(d.Elem, hints{})
	if err != nil {
		return nil, err
	}
	ifaceType := d.Type
	implType := d.Elem.Type
	return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
		target := reflect.NewAt(ifaceType, ptr).Elem()
		isNull, err := cur.Null()
		if err != nil {
			return err
		}
		if isNull {
			target.SetZero()
			return nil
		}
		impl := reflect.New(implType)
		if err = implFn(cur, impl.UnsafePointer(), depth); err != nil {
			return err
		}
		target.Set(impl.Elem())
		return nil
	}, nil
}
