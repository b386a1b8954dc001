package unmarshal

import (
	"reflect"
	"unsafe"

	"github.com/viant/typedjson/introspect"
	"github.com/viant/typedjson/jsonerr"
	"github.com/viant/typedjson/reader"
)

type sliceHeader struct {
	Data unsafe.Pointer
	Len  int
	Cap  int
}

const minSliceCap = 4

// open consumes the opening bracket of a container at depth+1.
func (c *compiler) open(cur *reader.Cursor, bracket, closing byte, depth int) (bool, error) {
	if depth+1 > c.maxDepth {
		return false, cur.DepthError(c.maxDepth)
	}
	if err := cur.Expect(bracket); err != nil {
		return false, err
	}
	b, err := cur.Peek()
	if err != nil {
		return false, err
	}
	if b == closing {
		cur.Pos++
		return true, nil
	}
	return false, nil
}

// next consumes ',' (returning false) or the closing bracket (returning true).
func next(cur *reader.Cursor, closing byte) (bool, error) {
	b, err := cur.Peek()
	if err != nil {
		return false, err
	}
	switch b {
	case ',':
		cur.Pos++
		return false, nil
	case closing:
		cur.Pos++
		return true, nil
	}
	return false, cur.Unexpected("',' or '" + string(closing) + "'")
}

func (c *compiler) list(d *introspect.Descriptor, h hints) (Func, error) {
	elemFn, err := c.compile(d.Elem, h)
	if err != nil {
		return nil, err
	}
	sliceType := d.Type
	elemType := sliceType.Elem()
	elemSize := elemType.Size()
	grow := func(ptr unsafe.Pointer, header *sliceHeader) {
		newCap := header.Cap * 2
		if newCap < minSliceCap {
			newCap = minSliceCap
		}
		grown := reflect.MakeSlice(sliceType, header.Len, newCap)
		reflect.Copy(grown, reflect.NewAt(sliceType, ptr).Elem())
		header.Data = grown.UnsafePointer()
		header.Cap = newCap
	}
	return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
		header := (*sliceHeader)(ptr)
		isNull, err := cur.Null()
		if err != nil {
			return err
		}
		if isNull {
			reflect.NewAt(sliceType, ptr).Elem().SetZero()
			return nil
		}
		empty, err := c.open(cur, '[', ']', depth)
		if err != nil {
			return err
		}
		reused := header.Cap
		header.Len = 0
		if empty {
			if header.Data == nil {
				reflect.NewAt(sliceType, ptr).Elem().Set(reflect.MakeSlice(sliceType, 0, 0))
			}
			return nil
		}
		for {
			if header.Len == header.Cap {
				grow(ptr, header)
			}
			elemPtr := unsafe.Add(header.Data, uintptr(header.Len)*elemSize)
			if header.Len < reused {
				reflect.NewAt(elemType, elemPtr).Elem().SetZero()
			}
			if err = elemFn(cur, elemPtr, depth+1); err != nil {
				return err
			}
			header.Len++
			done, err := next(cur, ']')
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}, nil
}

func (c *compiler) array(d *introspect.Descriptor, h hints) (Func, error) {
	elemFn, err := c.compile(d.Elem, h)
	if err != nil {
		return nil, err
	}
	arrayType := d.Type
	elemType := arrayType.Elem()
	elemSize := elemType.Size()
	length := d.Len
	fn := func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
		empty, err := c.open(cur, '[', ']', depth)
		if err != nil {
			return err
		}
		i := 0
		for !empty {
			if i == length {
				return jsonerr.New(jsonerr.ExpectedCharacter, cur.Pos, "expected ']' after %d elements of %v", length, arrayType)
			}
			if err = elemFn(cur, unsafe.Add(ptr, uintptr(i)*elemSize), depth+1); err != nil {
				return err
			}
			i++
			if empty, err = next(cur, ']'); err != nil {
				return err
			}
		}
		for ; i < length; i++ {
			reflect.NewAt(elemType, unsafe.Add(ptr, uintptr(i)*elemSize)).Elem().SetZero()
		}
		return nil
	}
	return c.valueNull(fn), nil
}

func (c *compiler) mapOf(d *introspect.Descriptor, h hints) (Func, error) {
	elemFn, err := c.compile(d.Elem, h)
	if err != nil {
		return nil, err
	}
	mapType := d.Type
	keyType := mapType.Key()
	elemType := mapType.Elem()
	return func(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
		target := reflect.NewAt(mapType, ptr).Elem()
		isNull, err := cur.Null()
		if err != nil {
			return err
		}
		if isNull {
			target.SetZero()
			return nil
		}
		empty, err := c.open(cur, '{', '}', depth)
		if err != nil {
			return err
		}
		if target.IsNil() {
			target.Set(reflect.MakeMap(mapType))
		}
		for !empty {
			key, err := cur.ReadString()
			if err != nil {
				return err
			}
			if err = cur.Expect(':'); err != nil {
				return err
			}
			elem := reflect.New(elemType)
			if err = elemFn(cur, elem.UnsafePointer(), depth+1); err != nil {
				return err
			}
			target.SetMapIndex(reflect.ValueOf(key).Convert(keyType), elem.Elem())
			if empty, err = next(cur, '}'); err != nil {
				return err
			}
		}
		return nil
	}, nil
}
