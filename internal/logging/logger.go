package logging

import (
	"fmt"
	"io"
	"time"
)

// Logger writes plain log lines, with optional verbose output and timing.
// The zero value discards everything.
type Logger struct {
	Writer  io.Writer
	Verbose bool
	Scope   string
}

func New(writer io.Writer, verbose bool) Logger {
	return Logger{Writer: writer, Verbose: verbose}
}

// Named returns a copy whose lines are prefixed with scope.
func (l Logger) Named(scope string) Logger {
	if l.Scope != "" {
		scope = l.Scope + "." + scope
	}
	l.Scope = scope
	return l
}

func (l Logger) Infof(format string, args ...any) {
	l.write("", format, args...)
}

func (l Logger) Warnf(format string, args ...any) {
	l.write("warn: ", format, args...)
}

func (l Logger) Verbosef(format string, args ...any) {
	if !l.Verbose {
		return
	}
	l.write("verbose: ", format, args...)
}

// Measure returns a stop function that logs the elapsed time when called.
func (l Logger) Measure(label string) func() {
	if !l.Verbose {
		return func() {}
	}
	start := time.Now()
	return func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		l.Verbosef("%s took %s", label, elapsed)
	}
}

func (l Logger) write(level, format string, args ...any) {
	if l.Writer == nil {
		return
	}
	prefix := level
	if l.Scope != "" {
		prefix += "[" + l.Scope + "] "
	}
	fmt.Fprintf(l.Writer, prefix+format+"\n", args...)
}
