// Package automaton recognizes quoted JSON strings against a fixed set of
// candidate names known at build time.
package automaton

import (
	"github.com/viant/typedjson/reader"
)

// NoMatch is returned when the string names no candidate.
const NoMatch = -1

// Strategy selects the matching scheme.
type Strategy int

const (
	// Auto hashes sets with more than AutoHashThreshold candidates, otherwise uses a trie.
	Auto Strategy = iota
	// TrieOnly always builds a trie.
	TrieOnly
	// HashOnly builds hashed buckets, falling back to a trie when no bucket size is collision-free.
	HashOnly
)

func (s Strategy) String() string {
	switch s {
	case TrieOnly:
		return "trie"
	case HashOnly:
		return "hash"
	}
	return "auto"
}

// AutoHashThreshold is the candidate count above which Auto selects hashing.
const AutoHashThreshold = 4

// Matcher identifies the candidate named by the quoted string at the cursor.
type Matcher interface {
	// Match consumes one quoted string, including escapes and the closing quote,
	// and returns the candidate index or NoMatch.
	Match(c *reader.Cursor) (int, error)
	// Lookup returns the candidate index of an already unescaped name.
	Lookup(name []byte) int
	// Len returns the number of candidates.
	Len() int
}

// Options control case and whitespace handling.
type Options struct {
	// IgnoreCase folds ASCII letters on both sides.
	IgnoreCase bool
	// SkipWhitespace ignores whitespace inside the quoted string (trie only).
	SkipWhitespace bool
}

// New builds a matcher over names; index i of the result refers to names[i].
// When names repeat (after case folding), the first occurrence wins.
func New(names []string, opts Options, strategy Strategy) Matcher {
	useHash := strategy == HashOnly || (strategy == Auto && len(names) > AutoHashThreshold)
	if useHash && !opts.SkipWhitespace {
		if h, ok := NewHashed(names, opts.IgnoreCase); ok {
			return h
		}
	}
	return NewTrie(names, opts)
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// openQuote skips whitespace and consumes the opening quote.
func openQuote(c *reader.Cursor) error {
	b, err := c.Peek()
	if err != nil {
		return err
	}
	if b != '"' {
		return c.Unexpected("string")
	}
	c.Pos++
	return nil
}
