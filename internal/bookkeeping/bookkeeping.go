// Package bookkeeping holds the per-line auxiliary values that back every
// zetline operation. A single ordered set (see package zetset) is reused
// across Union, Intersect, Diff and the occurrence-count operations by
// swapping in one of these shapes as the set's item type; each shape tracks
// only the information its operation actually needs.
package bookkeeping

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrTooManyFiles is returned by NextFile when a file counter would wrap
// past the 32-bit limit zetline uses for file and line counts.
var ErrTooManyFiles = errors.New("zetline can't handle more than 4294967295 input files")

// Item is the contract every bookkeeping shape satisfies. It plays the role
// the specification calls "Retainable" (NextFile, Merge, RetentionValue) and
// "Bookkeeping" (Logs, Count) combined into a single interface, since Go has
// no trait supertrait relationship to mirror the split.
type Item interface {
	// NextFile returns the item as it should read at the start of the next
	// file operand. Called exactly once between operands, never mid-file.
	NextFile() (Item, error)

	// Merge folds another item — almost always the kernel's current
	// per-file template — into this one, as when a key already present in
	// the set is seen again.
	Merge(other Item) Item

	// RetentionValue is the scalar a retention predicate is evaluated
	// against at the end of a calculation.
	RetentionValue() uint32

	// Logs reports whether this shape contributes a count column to the
	// output. Shapes used purely for retention (LastFileSeen) or not at
	// all (Noop, Unlogged) report false.
	Logs() bool

	// Count is the value placed in the output column when Logs is true.
	Count() uint32
}

// WriteCount renders item's count column, right justified to width and
// followed by a single space, or the literal token "overflow" in the same
// width when the count has saturated. Callers skip this entirely when
// item.Logs() is false.
func WriteCount(out io.Writer, width int, item Item) error {
	n := item.Count()
	if n == math.MaxUint32 {
		_, err := fmt.Fprintf(out, "%*s ", width, "overflow")
		return err
	}
	_, err := fmt.Fprintf(out, "%*d ", width, n)
	return err
}

func saturatingAdd32(a, b uint32) uint32 {
	sum := uint64(a) + uint64(b)
	if sum > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(sum)
}

func checkedAdd32(a, b uint32) (uint32, bool) {
	sum := uint64(a) + uint64(b)
	if sum > math.MaxUint32 {
		return 0, false
	}
	return uint32(sum), true
}

// Noop carries no state at all. It backs Union, the operation that keeps
// every line it sees and needs no retention test.
type Noop struct{}

// NewNoop returns the zero-state item for Union.
func NewNoop() Item { return Noop{} }

func (n Noop) NextFile() (Item, error)        { return n, nil }
func (n Noop) Merge(Item) Item                { return n }
func (n Noop) RetentionValue() uint32         { return 0 }
func (n Noop) Logs() bool                     { return false }
func (n Noop) Count() uint32                  { return 0 }

// LineCount tracks how many times, in total, a line has been seen across
// every operand. It backs Single and Multiple, and doubles as the log=Lines
// reporting shape for every other operation.
type LineCount struct{ n uint32 }

// NewLineCount returns the initial count for a line's first sighting: 1.
func NewLineCount() Item { return LineCount{n: 1} }

func (l LineCount) NextFile() (Item, error) { return l, nil }
func (l LineCount) Merge(Item) Item         { return LineCount{n: saturatingAdd32(l.n, 1)} }
func (l LineCount) RetentionValue() uint32  { return l.n }
func (l LineCount) Logs() bool              { return true }
func (l LineCount) Count() uint32           { return l.n }

// LastFileSeen records the 0-based index of the most recent operand in
// which a line was seen. It backs Diff and Intersect, neither of which
// reports a count column on its own.
type LastFileSeen struct{ fileNumber uint32 }

// NewLastFileSeen returns the item for a line first seen in operand 0.
func NewLastFileSeen() Item { return LastFileSeen{fileNumber: 0} }

func (f LastFileSeen) NextFile() (Item, error) {
	next, ok := checkedAdd32(f.fileNumber, 1)
	if !ok {
		return f, ErrTooManyFiles
	}
	return LastFileSeen{fileNumber: next}, nil
}

func (f LastFileSeen) Merge(other Item) Item {
	return LastFileSeen{fileNumber: other.RetentionValue()}
}

func (f LastFileSeen) RetentionValue() uint32 { return f.fileNumber }
func (f LastFileSeen) Logs() bool             { return false }
func (f LastFileSeen) Count() uint32          { return 0 }

// FileCount tracks the number of distinct operands a line has appeared in.
// It backs SingleByFile and MultipleByFile, and doubles as the log=Files
// reporting shape for every other operation.
type FileCount struct {
	fileNumber uint32
	filesSeen  uint32
}

// NewFileCount returns the item for a line first seen in operand 0: it has
// appeared in exactly one file so far.
func NewFileCount() Item { return FileCount{fileNumber: 0, filesSeen: 1} }

func (f FileCount) NextFile() (Item, error) {
	next, ok := checkedAdd32(f.fileNumber, 1)
	if !ok {
		return f, ErrTooManyFiles
	}
	return FileCount{fileNumber: next, filesSeen: f.filesSeen}, nil
}

func (f FileCount) Merge(other Item) Item {
	o, ok := other.(FileCount)
	if !ok {
		return f
	}
	if o.fileNumber != f.fileNumber {
		return FileCount{fileNumber: o.fileNumber, filesSeen: f.filesSeen + 1}
	}
	return f
}

func (f FileCount) RetentionValue() uint32 { return f.filesSeen }
func (f FileCount) Logs() bool             { return true }
func (f FileCount) Count() uint32          { return f.filesSeen }

// Dual pairs a retention shape with a reporting shape so a single pass over
// the input can drive a selection predicate (from R) while independently
// logging a count (from B). The dispatcher only reaches for Dual when R and
// B track different state; where both would be the same counter it uses
// that counter alone.
type Dual struct {
	Retention Item
	Log       Item
}

// NewDual builds a combined item from a retention shape and a logging shape.
func NewDual(retention, log Item) Item { return Dual{Retention: retention, Log: log} }

func (d Dual) NextFile() (Item, error) {
	r, err := d.Retention.NextFile()
	if err != nil {
		return d, err
	}
	l, err := d.Log.NextFile()
	if err != nil {
		return d, err
	}
	return Dual{Retention: r, Log: l}, nil
}

func (d Dual) Merge(other Item) Item {
	o, ok := other.(Dual)
	if !ok {
		return d
	}
	return Dual{Retention: d.Retention.Merge(o.Retention), Log: d.Log.Merge(o.Log)}
}

func (d Dual) RetentionValue() uint32 { return d.Retention.RetentionValue() }
func (d Dual) Logs() bool             { return d.Log.Logs() }
func (d Dual) Count() uint32          { return d.Log.Count() }

// Unlogged wraps a retention shape to explicitly suppress its count column,
// used when log mode is None but a shape that happens to satisfy Logs (like
// LineCount or FileCount) is still needed for retention.
type Unlogged struct{ Inner Item }

// NewUnlogged suppresses inner's count column while keeping its retention
// semantics.
func NewUnlogged(inner Item) Item { return Unlogged{Inner: inner} }

func (u Unlogged) NextFile() (Item, error) {
	next, err := u.Inner.NextFile()
	return Unlogged{Inner: next}, err
}

func (u Unlogged) Merge(other Item) Item {
	o, ok := other.(Unlogged)
	if !ok {
		return u
	}
	return Unlogged{Inner: u.Inner.Merge(o.Inner)}
}

func (u Unlogged) RetentionValue() uint32 { return u.Inner.RetentionValue() }
func (u Unlogged) Logs() bool             { return false }
func (u Unlogged) Count() uint32          { return 0 }

// Logged wraps a retention-only shape (LastFileSeen, Noop) to report its
// retention value as a count. It is not reached by the current dispatcher —
// every path that needs both retention and logging uses Dual instead — but
// it is a legitimate shape in its own right and is exercised directly by
// this package's tests.
type Logged struct{ Inner Item }

// NewLogged reports inner's retention value as its count.
func NewLogged(inner Item) Item { return Logged{Inner: inner} }

func (l Logged) NextFile() (Item, error) {
	next, err := l.Inner.NextFile()
	return Logged{Inner: next}, err
}

func (l Logged) Merge(other Item) Item {
	o, ok := other.(Logged)
	if !ok {
		return l
	}
	return Logged{Inner: l.Inner.Merge(o.Inner)}
}

func (l Logged) RetentionValue() uint32 { return l.Inner.RetentionValue() }
func (l Logged) Logs() bool             { return true }
func (l Logged) Count() uint32          { return l.Inner.RetentionValue() }
