// Package operand reads zetline's input files: the first operand is loaded
// whole into memory so its lines can be borrowed zero-copy by package
// zetset, while later operands are streamed one line at a time.
package operand

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/relset/zetline/internal/filesystem"
)

// maxLineSize bounds how large a single line may grow before bufio.Scanner
// gives up. Set well above wail's 1MB tail-line ceiling since a zetline
// operand line has no reason to be shorter than a whole small file.
const maxLineSize = 64 * 1024 * 1024

// File is a LaterOperand backed by a path on disk, opened fresh and
// streamed line by line on every ForEachLine call.
type File struct {
	Path       string
	Opener     filesystem.FileOpener
	Terminator byte
}

// ForEachLine opens the file, strips a leading UTF-8 BOM if present, and
// invokes fn once per line, terminator included, in the same shape package
// lines.Each produces for the first operand.
func (f File) ForEachLine(fn func(line []byte) error) error {
	rsc, err := f.Opener.Open(f.Path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Path, err)
	}
	defer rsc.Close()

	return scan(stripBOM(rsc), f.Terminator, fn)
}

// LoadFirst reads path (or stdin, for "-") entirely into memory and strips
// a leading BOM, producing the buffer package zetset.New borrows its first
// operand's lines from.
func LoadFirst(path string, opener filesystem.FileOpener, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stripBOM(stdin))
	}
	rsc, err := opener.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer rsc.Close()
	return io.ReadAll(stripBOM(rsc))
}

func scan(r io.Reader, terminator byte, fn func(line []byte) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
	scanner.Split(splitFunc(terminator))
	for scanner.Scan() {
		if err := fn(scanner.Bytes()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// splitFunc returns a bufio.SplitFunc that yields each line with its
// terminator retained, unlike bufio.ScanLines. Content is never altered —
// in particular a trailing \r before terminator is preserved, since
// zetline compares lines byte for byte rather than treating CRLF specially.
func splitFunc(terminator byte) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (advance int, token []byte, err error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}
		if i := bytes.IndexByte(data, terminator); i >= 0 {
			return i + 1, data[0 : i+1], nil
		}
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	}
}

// stripBOM wraps r so a leading UTF-8 byte order mark is discarded without
// otherwise transcoding the stream; zetline treats input as raw bytes, so
// the fallback decoder is a no-op.
func stripBOM(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(encoding.Nop.NewDecoder()))
}
