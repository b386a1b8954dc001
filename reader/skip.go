package reader

import (
	"github.com/viant/typedjson/jsonerr"
)

// DepthError returns a RecursionLimitExceeded error at the current position.
func (c *Cursor) DepthError(maxDepth int) error {
	return jsonerr.New(jsonerr.RecursionLimitExceeded, c.Pos, "nesting exceeds %d levels", maxDepth)
}

// Skip consumes one JSON value, validating its grammar without materializing it.
// depth is the nesting level of the value being skipped.
func (c *Cursor) Skip(depth, maxDepth int) error {
	b, err := c.Peek()
	if err != nil {
		return err
	}
	switch b {
	case '{':
		return c.skipObject(depth+1, maxDepth)
	case '[':
		return c.skipArray(depth+1, maxDepth)
	case '"':
		return c.SkipString()
	case 't':
		return c.Literal("true")
	case 'f':
		return c.Literal("false")
	case 'n':
		return c.Literal("null")
	}
	_, err = c.ScanNumber()
	return err
}

func (c *Cursor) skipObject(depth, maxDepth int) error {
	if depth > maxDepth {
		return c.DepthError(maxDepth)
	}
	c.Pos++
	b, err := c.Peek()
	if err != nil {
		return err
	}
	if b == '}' {
		c.Pos++
		return nil
	}
	for {
		if err = c.SkipString(); err != nil {
			return err
		}
		if err = c.Expect(':'); err != nil {
			return err
		}
		if err = c.Skip(depth, maxDepth); err != nil {
			return err
		}
		if b, err = c.Peek(); err != nil {
			return err
		}
		switch b {
		case ',':
			c.Pos++
		case '}':
			c.Pos++
			return nil
		default:
			return c.Unexpected("',' or '}'")
		}
	}
}

func (c *Cursor) skipArray(depth, maxDepth int) error {
	if depth > maxDepth {
		return c.DepthError(maxDepth)
	}
	c.Pos++
	b, err := c.Peek()
	if err != nil {
		return err
	}
	if b == ']' {
		c.Pos++
		return nil
	}
	for {
		if err = c.Skip(depth, maxDepth); err != nil {
			return err
		}
		if b, err = c.Peek(); err != nil {
			return err
		}
		switch b {
		case ',':
			c.Pos++
		case ']':
			c.Pos++
			return nil
		default:
			return c.Unexpected("',' or ']'")
		}
	}
}

// ReadAny reads any JSON value into map[string]interface{}, []interface{},
// float64, string, bool or nil.
func (c *Cursor) ReadAny(depth, maxDepth int) (interface{}, error) {
	b, err := c.Peek()
	if err != nil {
		return nil, err
	}
	switch b {
	case '{':
		return c.readAnyObject(depth+1, maxDepth)
	case '[':
		return c.readAnyArray(depth+1, maxDepth)
	case '"':
		return c.ReadString()
	case 't', 'f':
		return c.ReadBool()
	case 'n':
		return nil, c.Literal("null")
	}
	return c.ReadFloat64()
}

func (c *Cursor) readAnyObject(depth, maxDepth int) (map[string]interface{}, error) {
	if depth > maxDepth {
		return nil, c.DepthError(maxDepth)
	}
	c.Pos++
	obj := make(map[string]interface{})
	b, err := c.Peek()
	if err != nil {
		return nil, err
	}
	if b == '}' {
		c.Pos++
		return obj, nil
	}
	for {
		key, err := c.ReadString()
		if err != nil {
			return nil, err
		}
		if err = c.Expect(':'); err != nil {
			return nil, err
		}
		val, err := c.ReadAny(depth, maxDepth)
		if err != nil {
			return nil, err
		}
		obj[key] = val
		if b, err = c.Peek(); err != nil {
			return nil, err
		}
		switch b {
		case ',':
			c.Pos++
		case '}':
			c.Pos++
			return obj, nil
		default:
			return nil, c.Unexpected("',' or '}'")
		}
	}
}

func (c *Cursor) readAnyArray(depth, maxDepth int) ([]interface{}, error) {
	if depth > maxDepth {
		return nil, c.DepthError(maxDepth)
	}
	c.Pos++
	arr := make([]interface{}, 0)
	b, err := c.Peek()
	if err != nil {
		return nil, err
	}
	if b == ']' {
		c.Pos++
		return arr, nil
	}
	for {
		v, err := c.ReadAny(depth, maxDepth)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
		if b, err = c.Peek(); err != nil {
			return nil, err
		}
		switch b {
		case ',':
			c.Pos++
		case ']':
			c.Pos++
			return arr, nil
		default:
			return nil, c.Unexpected("',' or ']'")
		}
	}
}
