package automaton

import (
	"unicode/utf8"

	"github.com/viant/typedjson/jsonerr"
	"github.com/viant/typedjson/reader"
)

const dead = -1

type edge struct {
	label byte
	next  int32
}

type node struct {
	edges    []edge
	terminal int32
}

// Trie is a byte-level state machine over candidate names. Escaped input
// characters are fed as their UTF-8 bytes, so an escape matches its literal form.
type Trie struct {
	nodes []node
	count int
	opts  Options
}

// NewTrie builds a trie over names.
func NewTrie(names []string, opts Options) *Trie {
	t := &Trie{nodes: []node{{terminal: NoMatch}}, count: len(names), opts: opts}
	for i, name := range names {
		state := 0
		for j := 0; j < len(name); j++ {
			b := name[j]
			if opts.IgnoreCase {
				b = lower(b)
			}
			state = t.extend(state, b)
		}
		if t.nodes[state].terminal == NoMatch {
			t.nodes[state].terminal = int32(i)
		}
	}
	return t
}

func (t *Trie) extend(state int, b byte) int {
	if next := t.step(state, b); next != dead {
		return next
	}
	t.nodes = append(t.nodes, node{terminal: NoMatch})
	next := len(t.nodes) - 1
	t.nodes[state].edges = append(t.nodes[state].edges, edge{label: b, next: int32(next)})
	return next
}

func (t *Trie) step(state int, b byte) int {
	for _, e := range t.nodes[state].edges {
		if e.label == b {
			return int(e.next)
		}
	}
	return dead
}

func (t *Trie) feed(state int, b byte) int {
	if state == dead {
		return dead
	}
	if t.opts.SkipWhitespace && isSpace(b) {
		return state
	}
	if t.opts.IgnoreCase {
		b = lower(b)
	}
	return t.step(state, b)
}

func (t *Trie) feedRune(state int, r rune) int {
	if r < utf8.RuneSelf {
		return t.feed(state, byte(r))
	}
	var encoded [utf8.UTFMax]byte
	n := utf8.EncodeRune(encoded[:], r)
	for i := 0; i < n; i++ {
		state = t.feed(state, encoded[i])
	}
	return state
}

func (t *Trie) terminal(state int) int {
	if state == dead {
		return NoMatch
	}
	return int(t.nodes[state].terminal)
}

// Len returns the number of candidates.
func (t *Trie) Len() int { return t.count }

// Match consumes one quoted string and returns the candidate index or NoMatch.
func (t *Trie) Match(c *reader.Cursor) (int, error) {
	if err := openQuote(c); err != nil {
		return NoMatch, err
	}
	data := c.Data
	pos := c.Pos
	state := 0
	for pos < len(data) {
		b := data[pos]
		switch {
		case b == '"':
			c.Pos = pos + 1
			return t.terminal(state), nil
		case b == '\\':
			r, width, err := c.DecodeEscape(pos)
			if err != nil {
				return NoMatch, err
			}
			pos += width
			state = t.feedRune(state, r)
		case b < 0x20:
			return NoMatch, jsonerr.New(jsonerr.ExpectedCharacter, pos, "control character in string")
		default:
			state = t.feed(state, b)
			pos++
		}
	}
	c.Pos = pos
	return NoMatch, c.EndOfInput()
}

// Fold consumes a quoted string holding candidate names separated by ','
// and appends their indexes to dst. It returns false when any name is not
// recognized; an empty string yields no indexes.
func (t *Trie) Fold(c *reader.Cursor, dst []int) ([]int, bool, error) {
	if err := openQuote(c); err != nil {
		return dst, false, err
	}
	data := c.Data
	pos := c.Pos
	state := 0
	matched := true
	tokens := 0
	empty := true
	finish := func() {
		tokens++
		if idx := t.terminal(state); idx != NoMatch {
			dst = append(dst, idx)
		} else {
			matched = false
		}
		state = 0
	}
	for pos < len(data) {
		b := data[pos]
		switch {
		case b == '"':
			c.Pos = pos + 1
			if !(empty && tokens == 0) {
				finish()
			}
			return dst, matched, nil
		case b == ',':
			finish()
			pos++
		case b == '\\':
			r, width, err := c.DecodeEscape(pos)
			if err != nil {
				return dst, false, err
			}
			pos += width
			if r == ',' {
				finish()
				continue
			}
			empty = false
			state = t.feedRune(state, r)
		case b < 0x20:
			return dst, false, jsonerr.New(jsonerr.ExpectedCharacter, pos, "control character in string")
		default:
			if !isSpace(b) {
				empty = false
			}
			state = t.feed(state, b)
			pos++
		}
	}
	c.Pos = pos
	return dst, false, c.EndOfInput()
}

// Lookup returns the candidate index of name or NoMatch.
func (t *Trie) Lookup(name []byte) int {
	state := 0
	for _, b := range name {
		state = t.feed(state, b)
	}
	return t.terminal(state)
}
