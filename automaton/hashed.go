package automaton

import (
	"github.com/viant/typedjson/jsonerr"
	"github.com/viant/typedjson/reader"
)

// MaxBuckets is the largest bucket table tried before falling back to a trie.
const MaxBuckets = 64

const (
	offset32 = 2166136261
	prime32  = 16777619
)

// Hash returns the 32-bit FNV-1a hash of name, folding ASCII case when ignoreCase.
func Hash(name []byte, ignoreCase bool) uint32 {
	h := uint32(offset32)
	for _, b := range name {
		if ignoreCase {
			b = lower(b)
		}
		h ^= uint32(b)
		h *= prime32
	}
	return h
}

// Hashed dispatches on the FNV-1a hash of the input, computed while the
// string is scanned, into a power-of-two bucket table holding at most one
// candidate per bucket. The bucket candidate is verified byte by byte.
type Hashed struct {
	names      []string
	buckets    []int32
	mask       uint32
	ignoreCase bool
}

// NewHashed returns hashed buckets over names using the smallest table size in
// 1..MaxBuckets without collisions, or false when none exists.
func NewHashed(names []string, ignoreCase bool) (*Hashed, bool) {
	normalized := make([]string, len(names))
	hashes := make([]uint32, len(names))
	for i, name := range names {
		if ignoreCase {
			folded := []byte(name)
			for j := range folded {
				folded[j] = lower(folded[j])
			}
			name = string(folded)
		}
		normalized[i] = name
		hashes[i] = Hash([]byte(name), false)
	}
	for size := 1; size <= MaxBuckets; size <<= 1 {
		if size < len(names) {
			continue
		}
		buckets := make([]int32, size)
		for i := range buckets {
			buckets[i] = NoMatch
		}
		mask := uint32(size - 1)
		collision := false
		for i, h := range hashes {
			bucket := h & mask
			if buckets[bucket] != NoMatch {
				collision = true
				break
			}
			buckets[bucket] = int32(i)
		}
		if !collision {
			return &Hashed{names: normalized, buckets: buckets, mask: mask, ignoreCase: ignoreCase}, true
		}
	}
	return nil, false
}

// Buckets returns the bucket table size.
func (h *Hashed) Buckets() int { return len(h.buckets) }

// Len returns the number of candidates.
func (h *Hashed) Len() int { return len(h.names) }

// Match consumes one quoted string and returns the candidate index or NoMatch.
// Escape-free names are hashed in place; a name with escapes is unescaped
// into the cursor scratch buffer first.
func (h *Hashed) Match(c *reader.Cursor) (int, error) {
	if err := openQuote(c); err != nil {
		return NoMatch, err
	}
	data := c.Data
	start := c.Pos
	hash := uint32(offset32)
	for pos := start; pos < len(data); pos++ {
		b := data[pos]
		switch {
		case b == '"':
			c.Pos = pos + 1
			return h.verify(hash, data[start:pos]), nil
		case b == '\\':
			c.Pos = start - 1
			name, err := c.StringBytes()
			if err != nil {
				return NoMatch, err
			}
			return h.Lookup(name), nil
		case b < 0x20:
			return NoMatch, jsonerr.New(jsonerr.ExpectedCharacter, pos, "control character in string")
		}
		if h.ignoreCase {
			b = lower(b)
		}
		hash ^= uint32(b)
		hash *= prime32
	}
	c.Pos = len(data)
	return NoMatch, c.EndOfInput()
}

// Lookup returns the candidate index of name or NoMatch.
func (h *Hashed) Lookup(name []byte) int {
	return h.verify(Hash(name, h.ignoreCase), name)
}

func (h *Hashed) verify(hash uint32, name []byte) int {
	idx := h.buckets[hash&h.mask]
	if idx == NoMatch {
		return NoMatch
	}
	candidate := h.names[idx]
	if len(candidate) != len(name) {
		return NoMatch
	}
	for i, b := range name {
		if h.ignoreCase {
			b = lower(b)
		}
		if b != candidate[i] {
			return NoMatch
		}
	}
	return int(idx)
}
