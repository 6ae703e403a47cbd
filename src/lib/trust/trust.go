package trust

import (
	"fmt"
	"io"
	"os"
)

type MaskLevel int

const (
	Nothing   MaskLevel = 0x0
	ErrorMask MaskLevel = 0x1
	WarnMask  MaskLevel = 0x2
	InfoMask  MaskLevel = 0x4
	DebugMask MaskLevel = 0x8
	StatsMask MaskLevel = 0x10
	fatalMask MaskLevel = 0x80
)

var level = fatalMask | StatsMask | ErrorMask | WarnMask | InfoMask

// std is the package level logger, used by the Errorf, Warnf... functions.
var std = NewLogger(os.Stdout)

// Exit is called by Fatalf after the message has been written.  Boards
// replace it with something that parks the core.
var Exit = os.Exit

// SetLevel lets you set an error mask directly. You can pass in something like
// ErrorMask | DebugMask to control exactly what gets printed.  It returns the
// previous mask.  Setting a level implies all the levels "below" it, so
// WarnMask also turns on Info, Debug and Stats.
func SetLevel(mask MaskLevel) MaskLevel {
	if mask&0x1f == 0 {
		std.printf(" WARN: trust.SetLevel is turning off log messages\n")
	}
	result := Nothing
	switch {
	case mask&ErrorMask > 0:
		result |= ErrorMask
		fallthrough
	case mask&WarnMask > 0:
		result |= WarnMask
		fallthrough
	case mask&InfoMask > 0:
		result |= InfoMask
		fallthrough
	case mask&DebugMask > 0:
		result |= DebugMask
		fallthrough
	case mask&StatsMask > 0:
		result |= StatsMask
	}
	r := level & 0x1f
	level = result | fatalMask
	return r
}

func Level() MaskLevel {
	return level
}

func LevelToString() string {
	result := ""
	if level&ErrorMask > 0 {
		result += "error "
	}
	if level&WarnMask > 0 {
		result += "warn "
	}
	if level&InfoMask > 0 {
		result += "info "
	}
	if level&DebugMask > 0 {
		result += "debug "
	}
	if level&StatsMask > 0 {
		result += "stats"
	}
	return result
}

// SetOutput changes where the package level functions write.  On the board
// this is usually the mini uart or the framebuffer console.
func SetOutput(w io.Writer) {
	std.out = w
}

// Logger is a level-masked logger bound to a particular writer.  The mask is
// shared with the package level functions.
type Logger struct {
	out io.Writer
}

func NewLogger(w io.Writer) *Logger {
	return &Logger{out: w}
}

func (l *Logger) printf(format string, params ...interface{}) {
	if l.out == nil {
		return
	}
	fmt.Fprintf(l.out, format, params...)
}

func (l *Logger) logf(m MaskLevel, format string, params ...interface{}) {
	if level&m == 0 {
		return
	}
	start := 0
	switch {
	case m&ErrorMask > 0:
		l.printf("ERROR:")
	case m&WarnMask > 0:
		l.printf(" WARN:")
	case m&InfoMask > 0:
		l.printf(" INFO:")
	case m&DebugMask > 0:
		l.printf("DEBUG:")
	case m&StatsMask > 0:
		s, ok := params[0].(string)
		if !ok {
			s = "unknown"
		}
		l.printf("STATS[%s]:", s)
		start = 1
	case m&fatalMask > 0:
		l.printf("FATAL:")
	}
	if len(format) == 0 {
		format = "\n"
	} else if format[len(format)-1] != '\n' {
		format += "\n"
	}
	l.printf(format, params[start:]...)
}

//Errorf prints the given log message (format + params) using the ErrorMask level.
func (l *Logger) Errorf(format string, params ...interface{}) {
	l.logf(ErrorMask, format, params...)
}

//Warnf prints the given log message (format + params) using the WarnMask level.
func (l *Logger) Warnf(format string, params ...interface{}) {
	l.logf(WarnMask, format, params...)
}

//Infof prints the given log message (format + params) using the InfoMask level.
func (l *Logger) Infof(format string, params ...interface{}) {
	l.logf(InfoMask, format, params...)
}

//Debugf prints the given log message (format + params) using the DebugMask level.
func (l *Logger) Debugf(format string, params ...interface{}) {
	l.logf(DebugMask, format, params...)
}

func (l *Logger) Statsf(category string, format string, params ...interface{}) {
	l.logf(StatsMask, format, append([]interface{}{category}, params...)...)
}

//Fatalf prints the given log message (format + params) and then calls Exit
//with the exitCode provided.  Fatalf is not maskable.
func Fatalf(exitCode int, format string, params ...interface{}) {
	std.logf(fatalMask, format, params...)
	Exit(exitCode)
}

//Errorf prints the given log message (format + params) using the ErrorMask level.
func Errorf(format string, params ...interface{}) {
	std.logf(ErrorMask, format, params...)
}

//Warnf prints the given log message (format + params) using the WarnMask level.
func Warnf(format string, params ...interface{}) {
	std.logf(WarnMask, format, params...)
}

//Infof prints the given log message (format + params) using the InfoMask level.
func Infof(format string, params ...interface{}) {
	std.logf(InfoMask, format, params...)
}

//Debugf prints the given log message (format + params) using the DebugMask level.
func Debugf(format string, params ...interface{}) {
	std.logf(DebugMask, format, params...)
}

//Stats prints the given log message (format + params) using the StatsMask level and
//takes an extra parameter that will be visible in the log message as the category
//of stats that is reported.
func Statsf(category string, format string, params ...interface{}) {
	std.logf(StatsMask, format, append([]interface{}{category}, params...)...)
}
