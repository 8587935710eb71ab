package zetset

import (
	"errors"
	"testing"

	"github.com/relset/zetline/internal/bookkeeping"
)

type sliceOperand [][]byte

func (s sliceOperand) ForEachLine(fn func(line []byte) error) error {
	for _, l := range s {
		if err := fn(l); err != nil {
			return err
		}
	}
	return nil
}

func keys(s *Set) []string {
	var got []string
	s.Each(func(k string, _ bookkeeping.Item) error {
		got = append(got, k)
		return nil
	})
	return got
}

func TestNew_DeduplicatesWithinFirst(t *testing.T) {
	s := New([]byte("a\nb\na\n"), '\n', bookkeeping.NewLineCount())
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	var count uint32
	s.Each(func(k string, item bookkeeping.Item) error {
		if k == "a\n" {
			count = item.Count()
		}
		return nil
	})
	if count != 2 {
		t.Errorf("count for repeated key = %d, want 2", count)
	}
}

func TestInsertOrUpdate_InsertsMissingAndMergesPresent(t *testing.T) {
	s := New([]byte("a\n"), '\n', bookkeeping.NewLineCount())
	operand := sliceOperand{[]byte("a\n"), []byte("b\n")}
	if err := s.InsertOrUpdate(operand, bookkeeping.NewLineCount()); err != nil {
		t.Fatalf("InsertOrUpdate() error = %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	got := keys(s)
	want := []string{"a\n", "b\n"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUpdateIfPresent_DropsMisses(t *testing.T) {
	s := New([]byte("a\nb\n"), '\n', bookkeeping.NewLineCount())
	operand := sliceOperand{[]byte("a\n"), []byte("z\n")}
	if err := s.UpdateIfPresent(operand, bookkeeping.NewLineCount()); err != nil {
		t.Fatalf("UpdateIfPresent() error = %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() should be unchanged by UpdateIfPresent, got %d", s.Len())
	}
	for _, k := range keys(s) {
		if k == "z\n" {
			t.Error("z\\n should not have been inserted")
		}
	}
}

func TestRetain_PreservesOrderOfSurvivors(t *testing.T) {
	s := New([]byte("a\nb\nc\n"), '\n', bookkeeping.NewLineCount())
	s.Retain(func(v uint32) bool { return v != 0 })
	got := keys(s)
	want := []string{"a\n", "b\n", "c\n"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRetain_RemovesNonMatching(t *testing.T) {
	s := New([]byte("a\nb\n"), '\n', bookkeeping.NewLineCount())
	s.Retain(func(v uint32) bool { return false })
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestEach_StopsOnError(t *testing.T) {
	s := New([]byte("a\nb\nc\n"), '\n', bookkeeping.NewLineCount())
	sentinel := errors.New("stop")
	var seen int
	err := s.Each(func(string, bookkeeping.Item) error {
		seen++
		return sentinel
	})
	if err != sentinel {
		t.Fatalf("Each() error = %v, want sentinel", err)
	}
	if seen != 1 {
		t.Errorf("seen = %d, want 1", seen)
	}
}
