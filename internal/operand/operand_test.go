package operand

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/relset/zetline/internal/filesystem"
)

func TestFile_ForEachLine(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "a.txt", []byte("one\ntwo\nthree"), 0644)

	f := File{Path: "a.txt", Opener: filesystem.NewAferoOpener(fs), Terminator: '\n'}

	var got []string
	err := f.ForEachLine(func(line []byte) error {
		got = append(got, string(line))
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachLine() error = %v", err)
	}

	want := []string{"one\n", "two\n", "three"}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFile_ForEachLine_NullTerminated(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "a.txt", []byte("one\x00two\x00"), 0644)

	f := File{Path: "a.txt", Opener: filesystem.NewAferoOpener(fs), Terminator: 0}

	var got []string
	err := f.ForEachLine(func(line []byte) error {
		got = append(got, string(line))
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachLine() error = %v", err)
	}
	want := []string{"one\x00", "two\x00"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFile_ForEachLine_StripsBOM(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello\n")...)
	afero.WriteFile(fs, "a.txt", content, 0644)

	f := File{Path: "a.txt", Opener: filesystem.NewAferoOpener(fs), Terminator: '\n'}

	var got []string
	if err := f.ForEachLine(func(line []byte) error {
		got = append(got, string(line))
		return nil
	}); err != nil {
		t.Fatalf("ForEachLine() error = %v", err)
	}
	if len(got) != 1 || got[0] != "hello\n" {
		t.Errorf("got %q, want [%q]", got, "hello\n")
	}
}

func TestLoadFirst_Stdin(t *testing.T) {
	r := strings.NewReader("a\nb\n")
	got, err := LoadFirst("-", nil, r)
	if err != nil {
		t.Fatalf("LoadFirst() error = %v", err)
	}
	if string(got) != "a\nb\n" {
		t.Errorf("got %q, want %q", got, "a\nb\n")
	}
}

func TestLoadFirst_File(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "a.txt", []byte("x\ny\n"), 0644)

	got, err := LoadFirst("a.txt", filesystem.NewAferoOpener(fs), nil)
	if err != nil {
		t.Fatalf("LoadFirst() error = %v", err)
	}
	if string(got) != "x\ny\n" {
		t.Errorf("got %q, want %q", got, "x\ny\n")
	}
}
