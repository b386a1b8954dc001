package typedjson

import (
	"sync"

	"github.com/viant/typedjson/reader"
)

// cursorPool recycles parse contexts so scratch accumulators keep their capacity.
var cursorPool = sync.Pool{New: func() interface{} { return reader.New(nil) }}

func acquireCursor(data []byte) *reader.Cursor {
	cur := cursorPool.Get().(*reader.Cursor)
	cur.Reset(data)
	return cur
}

func releaseCursor(cur *reader.Cursor) {
	cur.Release()
	cursorPool.Put(cur)
}
