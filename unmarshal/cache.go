package unmarshal

import (
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/viant/typedjson/introspect"
	"github.com/viant/typedjson/reader"
)

type cacheKey struct {
	rType  reflect.Type
	config configKey
}

// entry is a terminal build outcome: a routine or the build error.
type entry struct {
	fn  Func
	err error
}

// cell is the indirection through which recursive types call their own
// routine before it is complete.
type cell struct {
	fn atomic.Pointer[Func]
}

func (c *cell) set(fn Func) { c.fn.Store(&fn) }

func (c *cell) call(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
	return (*c.fn.Load())(cur, ptr, depth)
}

// Stats reports cache activity.
type Stats struct {
	Builds   int64
	Failures int64
	Entries  int64
}

// Cache holds compiled routines per (type, configuration). Published entries
// are read without locking; builds are serialized and re-check the map
// before compiling.
type Cache struct {
	entries  sync.Map // map[cacheKey]*entry
	mu       sync.Mutex
	logger   *slog.Logger
	builds   atomic.Int64
	failures atomic.Int64
	size     atomic.Int64
}

// NewCache creates a cache; a nil logger uses slog.Default.
func NewCache(logger *slog.Logger) *Cache {
	return &Cache{logger: logger}
}

// Stats returns build counters.
func (c *Cache) Stats() Stats {
	return Stats{Builds: c.builds.Load(), Failures: c.failures.Load(), Entries: c.size.Load()}
}

func (c *Cache) log(cfg *Config) *slog.Logger {
	switch {
	case cfg.Logger != nil:
		return cfg.Logger
	case c.logger != nil:
		return c.logger
	}
	return slog.Default()
}

// Get returns the routine of rType under cfg, building it on first use.
// Failed builds are cached and the same error is returned to every caller.
func (c *Cache) Get(rType reflect.Type, cfg Config) (Func, error) {
	key := cacheKey{rType: rType, config: cfg.key()}
	if v, ok := c.entries.Load(key); ok {
		e := v.(*entry)
		return e.fn, e.err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.entries.Load(key); ok {
		e := v.(*entry)
		return e.fn, e.err
	}
	e := c.build(rType, &cfg, key.config)
	c.publish(key, e)
	return e.fn, e.err
}

func (c *Cache) publish(key cacheKey, e *entry) {
	if _, loaded := c.entries.LoadOrStore(key, e); !loaded {
		c.size.Add(1)
	}
}

func (c *Cache) lookup(rType reflect.Type, config configKey) (Func, bool) {
	v, ok := c.entries.Load(cacheKey{rType: rType, config: config})
	if !ok {
		return nil, false
	}
	e := v.(*entry)
	return e.fn, e.err == nil
}

func (c *Cache) build(rType reflect.Type, cfg *Config, config configKey) *entry {
	started := time.Now()
	c.builds.Add(1)
	logger := c.log(cfg)
	graph, err := introspect.Analyze(rType, introspect.Config{Registry: cfg.registry(), NameFormat: cfg.NameFormat})
	if err != nil {
		c.failures.Add(1)
		logger.Warn("typedjson: build failed", "type", rType.String(), "error", err)
		return &entry{err: err}
	}
	comp := newCompiler(cfg, config, graph, c)
	fn, err := comp.compile(graph.Root, hints{})
	if err != nil {
		c.failures.Add(1)
		logger.Warn("typedjson: build failed", "type", rType.String(), "error", err)
		return &entry{err: err}
	}
	for d, shared := range comp.shared {
		if d.Type != rType {
			c.publish(cacheKey{rType: d.Type, config: config}, &entry{fn: shared.fn})
		}
	}
	logger.Debug("typedjson: built",
		"type", rType.String(),
		"duration", time.Since(started),
		"recursive", len(graph.Recursive),
		"reused", len(comp.shared),
	)
	return &entry{fn: fn}
}
