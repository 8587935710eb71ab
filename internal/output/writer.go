// Package output writes a zetset.Set's surviving lines, formatting the
// optional count column bookkeeping.WriteCount produces.
package output

import (
	"fmt"
	"io"

	"github.com/relset/zetline/internal/bookkeeping"
	"github.com/relset/zetline/internal/zetset"
)

const (
	ansiCount    = "\x1b[36m"
	ansiOverflow = "\x1b[31m"
	ansiReset    = "\x1b[0m"
)

// Write emits every surviving (key, item) pair in set, in insertion order,
// one per line. If the set's items log a count, each line is prefixed with
// that count rendered at width columns (0 meaning "size to the largest
// count present"); color wraps the count in ANSI escapes when true. Write
// does not buffer out itself — callers that want buffered output wrap out
// in a bufio.Writer before calling Write.
func Write(set *zetset.Set, width int, color bool, out io.Writer) error {
	logs := false
	_ = set.Each(func(_ string, item bookkeeping.Item) error {
		if item.Logs() {
			logs = true
		}
		return nil
	})

	if logs && width <= 0 {
		width = naturalWidth(set)
	}

	return set.Each(func(key string, item bookkeeping.Item) error {
		if logs {
			if err := writeCount(out, width, item, color); err != nil {
				return err
			}
		}
		_, err := io.WriteString(out, key)
		return err
	})
}

// naturalWidth returns the decimal width of the largest count among set's
// items, or 1 if the set is empty.
func naturalWidth(set *zetset.Set) int {
	var max uint32
	_ = set.Each(func(_ string, item bookkeeping.Item) error {
		if c := item.Count(); c > max {
			max = c
		}
		return nil
	})
	width := len(fmt.Sprintf("%d", max))
	if width < 1 {
		return 1
	}
	return width
}

func writeCount(out io.Writer, width int, item bookkeeping.Item, color bool) error {
	if !color {
		return bookkeeping.WriteCount(out, width, item)
	}
	code := ansiCount
	if item.Count() == ^uint32(0) {
		code = ansiOverflow
	}
	if _, err := io.WriteString(out, code); err != nil {
		return err
	}
	if err := bookkeeping.WriteCount(out, width, item); err != nil {
		return err
	}
	_, err := io.WriteString(out, ansiReset)
	return err
}
