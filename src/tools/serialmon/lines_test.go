package serialmon

import (
	"io"
	"strings"
	"testing"
)

func TestReadLineStripsControl(t *testing.T) {
	l := NewLineReader(strings.NewReader("hello\r\nwo\x07rld\r\npartial"), 64)
	for _, want := range []string{"hello", "world"} {
		got, err := l.ReadLine()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("expected %q got %q", want, got)
		}
	}
	got, err := l.ReadLine()
	if err != io.EOF || got != "partial" {
		t.Errorf("expected the partial line with EOF, got %q %v", got, err)
	}
}

func TestReadLineDropsOverflow(t *testing.T) {
	l := NewLineReader(strings.NewReader("abcdefgh\n"), 4)
	got, err := l.ReadLine()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "abcd" || l.Dropped != 4 {
		t.Errorf("expected abcd with 4 dropped, got %q and %d", got, l.Dropped)
	}
}

func TestColorize(t *testing.T) {
	if got := Colorize("ERROR: mailbox timed out"); got != ansiRed+"ERROR: mailbox timed out"+ansiReset {
		t.Errorf("error line not colored: %q", got)
	}
	if got := Colorize(" WARN: hot"); !strings.HasPrefix(got, ansiYellow) {
		t.Errorf("warning line not colored: %q", got)
	}
	if got := Colorize("plain text"); got != "plain text" {
		t.Errorf("plain line should be untouched: %q", got)
	}
}
