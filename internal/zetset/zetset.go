// Package zetset implements ZetSet, the insertion-ordered line → bookkeeping
// map that every zetline operation is built on top of.
package zetset

import (
	"unsafe"

	"github.com/relset/zetline/internal/bookkeeping"
	"github.com/relset/zetline/internal/lines"
)

// LaterOperand is anything that can present its content one line at a time.
// The set does not care whether the bytes come from a file, a network
// socket, or an in-memory buffer — only that ForEachLine observes every
// line exactly once, in order, and reports a failure if reading stops short.
type LaterOperand interface {
	ForEachLine(fn func(line []byte) error) error
}

// Set is the ordered line → bookkeeping.Item map described in the
// specification as ZetSet. Keys preserve the order in which they were first
// seen; Retain removes entries without disturbing that order.
type Set struct {
	index map[string]int
	keys  []string
	items []bookkeeping.Item
}

// New seeds a Set from the first operand's full byte buffer. Lines are
// stored as borrowed views into first — first must outlive the Set. A line
// repeated within first has its item merged with template on each repeat
// rather than being re-inserted.
func New(first []byte, terminator byte, template bookkeeping.Item) *Set {
	s := &Set{index: make(map[string]int)}
	lines.Each(first, terminator, func(line []byte) {
		key := borrow(line)
		if i, ok := s.index[key]; ok {
			s.items[i] = s.items[i].Merge(template)
			return
		}
		s.index[key] = len(s.keys)
		s.keys = append(s.keys, key)
		s.items = append(s.items, template)
	})
	return s
}

// InsertOrUpdate drives operand's lines through the set: a line already
// present has its item merged with template; a line not yet present is
// inserted with an owned copy of its bytes and template as its item. Used
// by Union and the occurrence-count kernels.
func (s *Set) InsertOrUpdate(operand LaterOperand, template bookkeeping.Item) error {
	return operand.ForEachLine(func(line []byte) error {
		key := borrow(line)
		if i, ok := s.index[key]; ok {
			s.items[i] = s.items[i].Merge(template)
			return nil
		}
		owned := string(line)
		s.index[owned] = len(s.keys)
		s.keys = append(s.keys, owned)
		s.items = append(s.items, template)
		return nil
	})
}

// UpdateIfPresent drives operand's lines through the set, merging template
// into any line already present and silently dropping lines that are not.
// No allocation occurs for a line that misses. Used by Diff and Intersect.
func (s *Set) UpdateIfPresent(operand LaterOperand, template bookkeeping.Item) error {
	return operand.ForEachLine(func(line []byte) error {
		key := borrow(line)
		i, ok := s.index[key]
		if !ok {
			return nil
		}
		s.items[i] = s.items[i].Merge(template)
		return nil
	})
}

// Retain removes every entry whose item's RetentionValue fails pred,
// preserving the relative order of survivors.
func (s *Set) Retain(pred func(retentionValue uint32) bool) {
	keys := s.keys[:0]
	items := s.items[:0]
	index := make(map[string]int, len(s.keys))
	for i, k := range s.keys {
		if !pred(s.items[i].RetentionValue()) {
			continue
		}
		index[k] = len(keys)
		keys = append(keys, k)
		items = append(items, s.items[i])
	}
	s.keys, s.items, s.index = keys, items, index
}

// Each yields every surviving (key, item) pair in insertion order. Iteration
// stops early, returning fn's error, if fn returns one.
func (s *Set) Each(fn func(key string, item bookkeeping.Item) error) error {
	for i, k := range s.keys {
		if err := fn(k, s.items[i]); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of entries currently in the set.
func (s *Set) Len() int { return len(s.keys) }

// borrow reinterprets line as a string without copying it. It is safe to use
// as a map key and for read-only comparisons, but the returned string must
// not be retained past the lifetime of the buffer line was sliced from —
// New relies on first outliving the Set to make this sound for the first
// operand; InsertOrUpdate and UpdateIfPresent only ever use the borrowed key
// for a lookup within the same call, never storing it.
func borrow(line []byte) string {
	if len(line) == 0 {
		return ""
	}
	return unsafe.String(&line[0], len(line))
}
