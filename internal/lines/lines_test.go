package lines

import "testing"

func collect(buf []byte, terminator byte) []string {
	var got []string
	Each(buf, terminator, func(line []byte) {
		got = append(got, string(line))
	})
	return got
}

func TestEach_TerminatedLines(t *testing.T) {
	got := collect([]byte("a\nb\nc\n"), LF)
	want := []string{"a\n", "b\n", "c\n"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEach_TrailingUnterminatedLine(t *testing.T) {
	got := collect([]byte("a\nb"), LF)
	want := []string{"a\n", "b"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEach_EmptyBuffer(t *testing.T) {
	got := collect(nil, LF)
	if len(got) != 0 {
		t.Errorf("got %q, want no lines", got)
	}
}

func TestEach_NulTerminator(t *testing.T) {
	got := collect([]byte("a\x00b\x00"), NUL)
	want := []string{"a\x00", "b\x00"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %q, want %q", got, want)
	}
}
