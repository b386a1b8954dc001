package unmarshal

import (
	"math"
	"reflect"
	"strconv"
	"unsafe"

	"github.com/viant/typedjson/automaton"
	"github.com/viant/typedjson/introspect"
	"github.com/viant/typedjson/jsonerr"
	"github.com/viant/typedjson/reader"
	"github.com/viant/typedjson/value"
	"github.com/viant/xunsafe"
)

func (c *compiler) primitive(d *introspect.Descriptor, h hints) (Func, error) {
	switch d.Primitive {
	case introspect.Bool:
		return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
			v, err := cur.ReadBool()
			if err == nil {
				*xunsafe.AsBoolPtr(ptr) = v
			}
			return err
		}, nil
	case introspect.Int:
		return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
			v, err := cur.ReadInt()
			if err == nil {
				*xunsafe.AsIntPtr(ptr) = v
			}
			return err
		}, nil
	case introspect.Int8:
		return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
			v, err := cur.ReadInt8()
			if err == nil {
				*xunsafe.AsInt8Ptr(ptr) = v
			}
			return err
		}, nil
	case introspect.Int16:
		return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
			v, err := cur.ReadInt16()
			if err == nil {
				*xunsafe.AsInt16Ptr(ptr) = v
			}
			return err
		}, nil
	case introspect.Int32:
		return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
			v, err := cur.ReadInt32()
			if err == nil {
				*xunsafe.AsInt32Ptr(ptr) = v
			}
			return err
		}, nil
	case introspect.Int64:
		return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
			v, err := cur.ReadInt64()
			if err == nil {
				*xunsafe.AsInt64Ptr(ptr) = v
			}
			return err
		}, nil
	case introspect.Uint:
		return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
			v, err := cur.ReadUint()
			if err == nil {
				*xunsafe.AsUintPtr(ptr) = v
			}
			return err
		}, nil
	case introspect.Uint8:
		return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
			v, err := cur.ReadUint8()
			if err == nil {
				*xunsafe.AsUint8Ptr(ptr) = v
			}
			return err
		}, nil
	case introspect.Uint16:
		return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
			v, err := cur.ReadUint16()
			if err == nil {
				*xunsafe.AsUint16Ptr(ptr) = v
			}
			return err
		}, nil
	case introspect.Uint32:
		return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
			v, err := cur.ReadUint32()
			if err == nil {
				*xunsafe.AsUint32Ptr(ptr) = v
			}
			return err
		}, nil
	case introspect.Uint64:
		return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
			v, err := cur.ReadUint64()
			if err == nil {
				*xunsafe.AsUint64Ptr(ptr) = v
			}
			return err
		}, nil
	case introspect.Float32:
		return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
			v, err := cur.ReadFloat32()
			if err == nil {
				*xunsafe.AsFloat32Ptr(ptr) = v
			}
			return err
		}, nil
	case introspect.Float64:
		return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
			v, err := cur.ReadFloat64()
			if err == nil {
				*xunsafe.AsFloat64Ptr(ptr) = v
			}
			return err
		}, nil
	case introspect.String:
		return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
			v, err := cur.ReadString()
			if err == nil {
				*xunsafe.AsStringPtr(ptr) = v
			}
			return err
		}, nil
	case introspect.Char:
		return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
			v, err := cur.ReadChar()
			if err == nil {
				*(*value.Char)(ptr) = v
			}
			return err
		}, nil
	case introspect.GUID:
		return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
			v, err := cur.ReadGUID()
			if err == nil {
				*(*value.GUID)(ptr) = v
			}
			return err
		}, nil
	case introspect.Decimal:
		return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
			v, err := cur.ReadDecimal()
			if err == nil {
				*(*value.Decimal)(ptr) = v
			}
			return err
		}, nil
	case introspect.Time:
		return c.timeRoutine(h.timeLayout), nil
	case introspect.Duration:
		return c.durationRoutine(), nil
	}
	return nil, jsonerr.Build(jsonerr.UnsupportedShape, d.Type.String(), "no reader for primitive")
}

// integerReader reads a JSON integer of kind and returns its bit pattern.
func integerReader(kind reflect.Kind) func(cur *reader.Cursor) (uint64, error) {
	switch kind {
	case reflect.Int8:
		return func(cur *reader.Cursor) (uint64, error) { v, err := cur.ReadInt8(); return uint64(v), err }
	case reflect.Int16:
		return func(cur *reader.Cursor) (uint64, error) { v, err := cur.ReadInt16(); return uint64(v), err }
	case reflect.Int32:
		return func(cur *reader.Cursor) (uint64, error) { v, err := cur.ReadInt32(); return uint64(v), err }
	case reflect.Int, reflect.Int64:
		return func(cur *reader.Cursor) (uint64, error) { v, err := cur.ReadInt64(); return uint64(v), err }
	case reflect.Uint8:
		return func(cur *reader.Cursor) (uint64, error) { v, err := cur.ReadUint8(); return uint64(v), err }
	case reflect.Uint16:
		return func(cur *reader.Cursor) (uint64, error) { v, err := cur.ReadUint16(); return uint64(v), err }
	case reflect.Uint32:
		return func(cur *reader.Cursor) (uint64, error) { v, err := cur.ReadUint32(); return uint64(v), err }
	}
	return func(cur *reader.Cursor) (uint64, error) { return cur.ReadUint64() }
}

// integerStore writes the low bits of v into an integer of the given size.
func integerStore(size uintptr) func(ptr unsafe.Pointer, v uint64) {
	switch size {
	case 1:
		return func(ptr unsafe.Pointer, v uint64) { *xunsafe.AsUint8Ptr(ptr) = uint8(v) }
	case 2:
		return func(ptr unsafe.Pointer, v uint64) { *xunsafe.AsUint16Ptr(ptr) = uint16(v) }
	case 4:
		return func(ptr unsafe.Pointer, v uint64) { *xunsafe.AsUint32Ptr(ptr) = uint32(v) }
	}
	return func(ptr unsafe.Pointer, v uint64) { *xunsafe.AsUint64Ptr(ptr) = v }
}

func isSignedKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func kindBits(kind reflect.Kind) uint {
	switch kind {
	case reflect.Int8, reflect.Uint8:
		return 8
	case reflect.Int16, reflect.Uint16:
		return 16
	case reflect.Int32, reflect.Uint32:
		return 32
	case reflect.Int, reflect.Uint, reflect.Uintptr:
		return strconv.IntSize
	}
	return 64
}

// integerFits reports whether a value read as from is representable by to.
func integerFits(from, to reflect.Kind) func(v uint64) bool {
	bits := kindBits(to)
	var lo int64
	var hi uint64 = math.MaxUint64 >> (64 - bits)
	if isSignedKind(to) {
		lo = -1 << (bits - 1)
		hi >>= 1
	}
	if !isSignedKind(from) {
		return func(v uint64) bool { return v <= hi }
	}
	return func(v uint64) bool {
		if s := int64(v); s < 0 {
			return s >= lo
		}
		return v <= hi
	}
}

func (c *compiler) enum(d *introspect.Descriptor, h hints) (Func, error) {
	spec := d.Enum
	if h.enum != nil && h.enum.Type == d.Type {
		spec = h.enum
	}
	store := integerStore(d.Type.Size())
	if spec.AsInteger != reflect.Invalid {
		read := integerReader(spec.AsInteger)
		fits := integerFits(spec.AsInteger, d.Type.Kind())
		typeName := d.Type.String()
		return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
			cur.SkipWS()
			start := cur.Pos
			v, err := read(cur)
			if err != nil {
				return err
			}
			if !fits(v) {
				return jsonerr.New(jsonerr.NumberOverflow, start, "%s overflows %s", cur.Data[start:cur.Pos], typeName)
			}
			store(ptr, v)
			return nil
		}, nil
	}
	useDefault := spec.HasDefault && c.cfg.Enums == UseEnumDefault
	typeName := d.Type.String()
	unrecognized := func(cur *reader.Cursor, start int, ptr unsafe.Pointer) error {
		if useDefault {
			store(ptr, spec.Default)
			return nil
		}
		return jsonerr.New(jsonerr.UnrecognizedEnumValue, start, "%s is not a %s constant", cur.Data[start:cur.Pos], typeName)
	}
	if spec.Flags {
		trie := automaton.NewTrie(spec.Names, automaton.Options{IgnoreCase: true, SkipWhitespace: true})
		return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
			cur.SkipWS()
			start := cur.Pos
			var buf [8]int
			indexes, ok, err := trie.Fold(cur, buf[:0])
			if err != nil {
				return err
			}
			if !ok {
				return unrecognized(cur, start, ptr)
			}
			var v uint64
			for _, idx := range indexes {
				v |= spec.Values[idx]
			}
			store(ptr, v)
			return nil
		}, nil
	}
	matcher := automaton.New(spec.Names, automaton.Options{IgnoreCase: true}, c.cfg.Matching)
	return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
		cur.SkipWS()
		start := cur.Pos
		idx, err := matcher.Match(cur)
		if err != nil {
			return err
		}
		if idx == automaton.NoMatch {
			return unrecognized(cur, start, ptr)
		}
		store(ptr, spec.Values[idx])
		return nil
	}, nil
}
