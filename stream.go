package typedjson

import (
	"io"
	"reflect"

	"github.com/viant/typedjson/jsonerr"
	"github.com/viant/typedjson/reader"
	"github.com/viant/typedjson/unmarshal"
	"github.com/viant/xunsafe"
)

const streamBufferSize = 4096

// Decoder reads a sequence of whitespace separated JSON values from a stream.
type Decoder struct {
	r        io.Reader
	options  Options
	buf      []byte
	start    int
	end      int
	eof      bool
	cur      *reader.Cursor
	maxDepth int
}

// NewDecoder creates a stream decoder.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	options := resolveOptions(opts)
	maxDepth := options.MaxDepth
	if maxDepth <= 0 {
		maxDepth = unmarshal.DefaultMaxDepth
	}
	return &Decoder{
		r:        r,
		options:  options,
		buf:      make([]byte, streamBufferSize),
		cur:      reader.New(nil),
		maxDepth: maxDepth,
	}
}

// Decode decodes the next value into dest; it returns io.EOF once the stream
// holds no more values.
func (d *Decoder) Decode(dest interface{}) error {
	if dest == nil {
		return jsonerr.New(jsonerr.NilDestination, -1, "destination is nil")
	}
	rType := reflect.TypeOf(dest)
	ptr := xunsafe.AsPointer(dest)
	if rType.Kind() != reflect.Ptr || ptr == nil {
		return jsonerr.New(jsonerr.NilDestination, -1, "destination %v is not a non nil pointer", rType)
	}
	if d.options.err != nil {
		return d.options.err
	}
	fn, err := defaultCache.Get(rType.Elem(), d.options.config())
	if err != nil {
		return err
	}
	size, err := d.next()
	if err != nil {
		return err
	}
	d.cur.Reset(d.buf[d.start : d.start+size])
	err = fn(d.cur, ptr, 0)
	d.start += size
	return err
}

// next returns the size of the next complete value at d.start, reading
// until the grammar skip succeeds.
func (d *Decoder) next() (int, error) {
	for {
		for d.start < d.end && isSpace(d.buf[d.start]) {
			d.start++
		}
		if d.start == d.end {
			if d.eof {
				return 0, io.EOF
			}
			if err := d.fill(); err != nil {
				return 0, err
			}
			continue
		}
		window := d.buf[d.start:d.end]
		d.cur.Reset(window)
		err := d.cur.Skip(0, d.maxDepth)
		if err == nil && (d.cur.Pos < len(window) || d.eof) {
			return d.cur.Pos, nil
		}
		if d.eof {
			return 0, err
		}
		if err != nil && !jsonerr.Is(err, jsonerr.UnexpectedEndOfInput) {
			return 0, err
		}
		if err = d.fill(); err != nil {
			return 0, err
		}
	}
}

// fill compacts the window and reads more input, doubling the buffer when full.
func (d *Decoder) fill() error {
	if d.start > 0 {
		d.end = copy(d.buf, d.buf[d.start:d.end])
		d.start = 0
	}
	if d.end == len(d.buf) {
		grown := make([]byte, 2*len(d.buf))
		copy(grown, d.buf[:d.end])
		d.buf = grown
	}
	n, err := d.r.Read(d.buf[d.end:])
	d.end += n
	switch {
	case err == io.EOF:
		d.eof = true
	case err != nil:
		return err
	}
	return nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
