package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/relset/zetline/internal/bookkeeping"
	"github.com/relset/zetline/internal/zetset"
)

func TestWrite_NoCount(t *testing.T) {
	set := zetset.New([]byte("a\nb\n"), '\n', bookkeeping.NewUnlogged(bookkeeping.NewNoop()))
	var buf bytes.Buffer
	if err := Write(set, 0, false, &buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got, want := buf.String(), "a\nb\n"; got != want {
		t.Errorf("Write() = %q, want %q", got, want)
	}
}

func TestWrite_WithCount(t *testing.T) {
	set := zetset.New([]byte("a\na\nb\n"), '\n', bookkeeping.NewLineCount())
	var buf bytes.Buffer
	if err := Write(set, 0, false, &buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got, want := buf.String(), "2 a\n1 b\n"; got != want {
		t.Errorf("Write() = %q, want %q", got, want)
	}
}

func TestWrite_FixedWidth(t *testing.T) {
	set := zetset.New([]byte("a\n"), '\n', bookkeeping.NewLineCount())
	var buf bytes.Buffer
	if err := Write(set, 4, false, &buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got, want := buf.String(), "   1 a\n"; got != want {
		t.Errorf("Write() = %q, want %q", got, want)
	}
}

func TestWrite_Color(t *testing.T) {
	set := zetset.New([]byte("a\n"), '\n', bookkeeping.NewLineCount())
	var buf bytes.Buffer
	if err := Write(set, 0, true, &buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, ansiCount) || !strings.Contains(got, ansiReset) {
		t.Errorf("Write() with color = %q, want ANSI escapes present", got)
	}
	if !strings.HasSuffix(got, "a\n") {
		t.Errorf("Write() with color = %q, want line content intact", got)
	}
}
