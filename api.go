package typedjson

import (
	"reflect"
	"unsafe"

	"github.com/viant/typedjson/jsonerr"
	"github.com/viant/typedjson/reader"
	"github.com/viant/typedjson/unmarshal"
	"github.com/viant/xunsafe"
)

var defaultCache = unmarshal.NewCache(nil)

// CacheStats reports activity of the process wide routine cache.
func CacheStats() unmarshal.Stats {
	return defaultCache.Stats()
}

// Unmarshal decodes exactly one JSON value from data into dest, a non nil
// pointer. Only whitespace may follow the value.
func Unmarshal(data []byte, dest interface{}, opts ...Option) error {
	if dest == nil {
		return jsonerr.New(jsonerr.NilDestination, -1, "destination is nil")
	}
	rType := reflect.TypeOf(dest)
	if rType.Kind() != reflect.Ptr {
		return jsonerr.New(jsonerr.NilDestination, -1, "destination %v is not a pointer", rType)
	}
	ptr := xunsafe.AsPointer(dest)
	if ptr == nil {
		return jsonerr.New(jsonerr.NilDestination, -1, "destination %v is nil", rType)
	}
	cfg := resolveOptions(opts)
	if cfg.err != nil {
		return cfg.err
	}
	fn, err := defaultCache.Get(rType.Elem(), cfg.config())
	if err != nil {
		return err
	}
	_, err = run(fn, data, ptr, false)
	return err
}

// Decode decodes data into a new T.
func Decode[T any](data []byte, opts ...Option) (T, error) {
	var ret T
	routine, err := For[T](opts...)
	if err != nil {
		return ret, err
	}
	return routine.Decode(data)
}

// Routine is the compiled decoder of T for one option set.
type Routine[T any] struct {
	fn unmarshal.Func
}

// For returns the routine of T, building it on first use. A failed build is
// returned identically on every later call.
func For[T any](opts ...Option) (*Routine[T], error) {
	cfg := resolveOptions(opts)
	if cfg.err != nil {
		return nil, cfg.err
	}
	fn, err := defaultCache.Get(reflect.TypeOf((*T)(nil)).Elem(), cfg.config())
	if err != nil {
		return nil, err
	}
	return &Routine[T]{fn: fn}, nil
}

// Decode decodes exactly one value into a new T.
func (r *Routine[T]) Decode(data []byte) (T, error) {
	var ret T
	_, err := run(r.fn, data, unsafe.Pointer(&ret), false)
	return ret, err
}

// DecodeInto decodes into dest, keeping values of members absent from data.
func (r *Routine[T]) DecodeInto(data []byte, dest *T) error {
	if dest == nil {
		return jsonerr.New(jsonerr.NilDestination, -1, "destination is nil")
	}
	_, err := run(r.fn, data, unsafe.Pointer(dest), false)
	return err
}

// DecodePrefix decodes the first value of data and returns the number of
// bytes consumed, including whitespace following the value.
func (r *Routine[T]) DecodePrefix(data []byte) (T, int, error) {
	var ret T
	n, err := run(r.fn, data, unsafe.Pointer(&ret), true)
	return ret, n, err
}

func run(fn unmarshal.Func, data []byte, ptr unsafe.Pointer, prefix bool) (int, error) {
	cur := acquireCursor(data)
	defer releaseCursor(cur)
	if err := fn(cur, ptr, 0); err != nil {
		return cur.Pos, err
	}
	err := trailing(cur, prefix)
	return cur.Pos, err
}

func trailing(cur *reader.Cursor, prefix bool) error {
	cur.SkipWS()
	if prefix || cur.EOF() {
		return nil
	}
	return jsonerr.New(jsonerr.TrailingData, cur.Pos, "unexpected '%c' after top-level value", cur.Data[cur.Pos])
}
