// Package calculate implements the seven set operations zetline supports,
// dispatching to the bookkeeping shape each (operation, log mode) pair needs
// and driving a zetset.Set to produce the result.
package calculate

import (
	"fmt"
	"io"

	"github.com/relset/zetline/internal/bookkeeping"
	"github.com/relset/zetline/internal/output"
	"github.com/relset/zetline/internal/zetset"
)

// Operation names one of the seven set operations zetline computes.
type Operation int

const (
	Union Operation = iota
	Intersect
	Diff
	Single
	Multiple
	SingleByFile
	MultipleByFile
)

func (o Operation) String() string {
	switch o {
	case Union:
		return "union"
	case Intersect:
		return "intersect"
	case Diff:
		return "diff"
	case Single:
		return "single"
	case Multiple:
		return "multiple"
	case SingleByFile:
		return "single-by-file"
	case MultipleByFile:
		return "multiple-by-file"
	default:
		return "unknown"
	}
}

// ParseOperation maps a user-supplied operation name to an Operation.
func ParseOperation(name string) (Operation, error) {
	switch name {
	case "union":
		return Union, nil
	case "intersect":
		return Intersect, nil
	case "diff", "difference":
		return Diff, nil
	case "single":
		return Single, nil
	case "multiple":
		return Multiple, nil
	case "single-by-file", "singlebyfile":
		return SingleByFile, nil
	case "multiple-by-file", "multiplebyfile":
		return MultipleByFile, nil
	default:
		return 0, fmt.Errorf("unknown operation %q (want union, intersect, diff, single, multiple, single-by-file, or multiple-by-file)", name)
	}
}

// LogMode selects whether, and how, zetline reports an occurrence count
// alongside each surviving line.
type LogMode int

const (
	LogNone LogMode = iota
	LogLines
	LogFiles
)

// ParseLogMode maps a user-supplied --count value to a LogMode.
func ParseLogMode(name string) (LogMode, error) {
	switch name {
	case "", "none":
		return LogNone, nil
	case "lines":
		return LogLines, nil
	case "files":
		return LogFiles, nil
	default:
		return 0, fmt.Errorf("unknown count mode %q (want lines or files)", name)
	}
}

// OperandReadError wraps a failure reported by a later operand's
// ForEachLine callback.
type OperandReadError struct{ Err error }

func (e *OperandReadError) Error() string { return fmt.Sprintf("reading operand: %v", e.Err) }
func (e *OperandReadError) Unwrap() error { return e.Err }

// WriteError wraps a failure reported by the output sink while a result was
// being emitted.
type WriteError struct{ Err error }

func (e *WriteError) Error() string { return fmt.Sprintf("writing output: %v", e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// ErrTooManyFiles is returned (unwrapped) when advancing past the next
// operand would overflow a 32-bit file counter.
var ErrTooManyFiles = bookkeeping.ErrTooManyFiles

// Options configures a Calculate call's output formatting.
type Options struct {
	// Width is the fixed column width for the count. A value of 0 means
	// "natural width": the decimal width of the largest count seen.
	Width int
	// Color enables ANSI highlighting of the count column.
	Color bool
}

// Calculate computes operation over first (the first operand's full byte
// buffer) and rest (the later operands, each read lazily), writing
// surviving lines to out in first-occurrence order.
func Calculate(operation Operation, logMode LogMode, terminator byte, first []byte, rest []zetset.LaterOperand, opts Options, out io.Writer) error {
	switch logMode {
	case LogNone:
		switch operation {
		case Union:
			return union(bookkeeping.NewUnlogged(bookkeeping.NewNoop()), terminator, first, rest, opts, out)
		case Diff:
			return diff(bookkeeping.NewUnlogged(bookkeeping.NewLastFileSeen()), terminator, first, rest, opts, out)
		case Intersect:
			return intersect(bookkeeping.NewUnlogged(bookkeeping.NewLastFileSeen()), terminator, first, rest, opts, out)
		case Single:
			return count(bookkeeping.NewUnlogged(bookkeeping.NewLineCount()), keepSingle, terminator, first, rest, opts, out)
		case Multiple:
			return count(bookkeeping.NewUnlogged(bookkeeping.NewLineCount()), keepMultiple, terminator, first, rest, opts, out)
		case SingleByFile:
			return count(bookkeeping.NewUnlogged(bookkeeping.NewFileCount()), keepSingle, terminator, first, rest, opts, out)
		case MultipleByFile:
			return count(bookkeeping.NewUnlogged(bookkeeping.NewFileCount()), keepMultiple, terminator, first, rest, opts, out)
		}

	// When log mode is Lines and the operation is Single or Multiple, both
	// retention and logging need a LineCount, so dispatching through Dual
	// would track two identical counters. Call count directly with a bare
	// LineCount instead.
	case LogLines:
		switch operation {
		case Single:
			return count(bookkeeping.NewLineCount(), keepSingle, terminator, first, rest, opts, out)
		case Multiple:
			return count(bookkeeping.NewLineCount(), keepMultiple, terminator, first, rest, opts, out)
		default:
			return dispatch(operation, bookkeeping.NewLineCount(), terminator, first, rest, opts, out)
		}

	// Symmetric collapse for log mode Files and the by-file operations.
	case LogFiles:
		switch operation {
		case SingleByFile:
			return count(bookkeeping.NewFileCount(), keepSingle, terminator, first, rest, opts, out)
		case MultipleByFile:
			return count(bookkeeping.NewFileCount(), keepMultiple, terminator, first, rest, opts, out)
		case Single:
			// A line seen exactly once necessarily appears in exactly one
			// file, so its file count is always 1; no Dual needed.
			return count(bookkeeping.NewLineCount(), keepSingle, terminator, first, rest, opts, out)
		default:
			return dispatch(operation, bookkeeping.NewFileCount(), terminator, first, rest, opts, out)
		}
	}
	return fmt.Errorf("unknown log mode %v", logMode)
}

// dispatch handles the operations for which log and retention genuinely
// need separate counters: it wraps log in a Dual alongside the retention
// shape each operation needs.
func dispatch(operation Operation, log bookkeeping.Item, terminator byte, first []byte, rest []zetset.LaterOperand, opts Options, out io.Writer) error {
	switch operation {
	case Union:
		return union(log, terminator, first, rest, opts, out)
	case Diff:
		return diff(log, terminator, first, rest, opts, out)
	case Intersect:
		return intersect(log, terminator, first, rest, opts, out)
	case Single:
		return count(bookkeeping.NewDual(bookkeeping.NewLineCount(), log), keepSingle, terminator, first, rest, opts, out)
	case Multiple:
		return count(bookkeeping.NewDual(bookkeeping.NewLineCount(), log), keepMultiple, terminator, first, rest, opts, out)
	case SingleByFile:
		return count(bookkeeping.NewDual(bookkeeping.NewFileCount(), log), keepSingle, terminator, first, rest, opts, out)
	case MultipleByFile:
		return count(bookkeeping.NewDual(bookkeeping.NewFileCount(), log), keepMultiple, terminator, first, rest, opts, out)
	}
	return fmt.Errorf("unsupported operation %v", operation)
}

// union collects every line seen across every operand; log is used as-is,
// since Union needs no separate retention predicate.
func union(log bookkeeping.Item, terminator byte, first []byte, rest []zetset.LaterOperand, opts Options, out io.Writer) error {
	set := zetset.New(first, terminator, log)
	item := log
	for _, operand := range rest {
		next, err := item.NextFile()
		if err != nil {
			return err
		}
		item = next
		if err := set.InsertOrUpdate(operand, item); err != nil {
			return &OperandReadError{Err: err}
		}
	}
	return emit(set, opts, out)
}

// diff keeps only lines that remain exclusive to the first operand: any
// line re-seen in a later operand has its LastFileSeen bumped off 0, so the
// final retain keeps only entries still at the first operand's file number.
func diff(log bookkeeping.Item, terminator byte, first []byte, rest []zetset.LaterOperand, opts Options, out io.Writer) error {
	item := bookkeeping.NewDual(bookkeeping.NewLastFileSeen(), log)
	firstFile := item.RetentionValue()
	set := zetset.New(first, terminator, item)
	for _, operand := range rest {
		next, err := item.NextFile()
		if err != nil {
			return err
		}
		item = next
		if err := set.UpdateIfPresent(operand, item); err != nil {
			return &OperandReadError{Err: err}
		}
	}
	set.Retain(func(v uint32) bool { return v == firstFile })
	return emit(set, opts, out)
}

// intersect prunes the set after every operand to only the lines seen in
// that operand, bounding its size by the smallest operand processed so far.
func intersect(log bookkeeping.Item, terminator byte, first []byte, rest []zetset.LaterOperand, opts Options, out io.Writer) error {
	item := bookkeeping.NewDual(bookkeeping.NewLastFileSeen(), log)
	set := zetset.New(first, terminator, item)
	for _, operand := range rest {
		next, err := item.NextFile()
		if err != nil {
			return err
		}
		item = next
		thisFile := item.RetentionValue()
		if err := set.UpdateIfPresent(operand, item); err != nil {
			return &OperandReadError{Err: err}
		}
		set.Retain(func(v uint32) bool { return v == thisFile })
	}
	return emit(set, opts, out)
}

type keepMode int

const (
	keepSingle keepMode = iota
	keepMultiple
)

// count drives template across every operand exactly like union, then
// retains only lines whose retention value matches keep.
func count(template bookkeeping.Item, keep keepMode, terminator byte, first []byte, rest []zetset.LaterOperand, opts Options, out io.Writer) error {
	set := zetset.New(first, terminator, template)
	item := template
	for _, operand := range rest {
		next, err := item.NextFile()
		if err != nil {
			return err
		}
		item = next
		if err := set.InsertOrUpdate(operand, item); err != nil {
			return &OperandReadError{Err: err}
		}
	}
	switch keep {
	case keepSingle:
		set.Retain(func(v uint32) bool { return v == 1 })
	case keepMultiple:
		set.Retain(func(v uint32) bool { return v > 1 })
	}
	return emit(set, opts, out)
}

func emit(set *zetset.Set, opts Options, out io.Writer) error {
	if err := output.Write(set, opts.Width, opts.Color, out); err != nil {
		return &WriteError{Err: err}
	}
	return nil
}
