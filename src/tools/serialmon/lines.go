// Package serialmon reads the diagnostic output a board writes on its mini
// UART and makes it readable on a host terminal.
package serialmon

import (
	"io"
	"strings"
)

// LineReader splits the byte stream from the board into lines.  The UART
// sends \r\n, control characters are dropped and lines longer than the buffer
// are cut, with the count of dropped characters kept in Dropped.
type LineReader struct {
	in      io.Reader
	buf     []byte
	Dropped int
}

func NewLineReader(in io.Reader, max int) *LineReader {
	if max < 1 {
		max = 256
	}
	return &LineReader{in: in, buf: make([]byte, max)}
}

// ReadLine blocks until a full line arrives.  A partial line at end of input
// is returned together with io.EOF.
func (l *LineReader) ReadLine() (string, error) {
	count := 0
	one := make([]byte, 1)
	for {
		r, err := l.in.Read(one)
		if r == 0 {
			if err != nil {
				return string(l.buf[:count]), err
			}
			continue
		}
		c := one[0]
		switch {
		case c == '\n':
			return string(l.buf[:count]), nil
		case c < 32 && c != '\t':
			continue
		default:
			if count == len(l.buf) {
				l.Dropped++
				continue
			}
			l.buf[count] = c
			count++
		}
	}
}

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiGreen  = "\x1b[32m"
	ansiGrey   = "\x1b[90m"
	ansiCyan   = "\x1b[36m"
	ansiBold   = "\x1b[1;31m"
)

var prefixColors = []struct {
	prefix, color string
}{
	{"FATAL:", ansiBold},
	{"ERROR:", ansiRed},
	{" WARN:", ansiYellow},
	{" INFO:", ansiGreen},
	{"DEBUG:", ansiGrey},
	{"STATS[", ansiCyan},
}

// Colorize wraps a log line in the color for its level.  Lines without a
// level prefix come back untouched.
func Colorize(line string) string {
	for _, p := range prefixColors {
		if strings.HasPrefix(line, p.prefix) {
			return p.color + line + ansiReset
		}
	}
	return line
}
