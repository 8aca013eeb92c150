package particles

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
)

// Logger is the logging surface used by the engine and its renderers.
type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (lv Level) String() string {
	switch lv {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "LEVEL(" + fmt.Sprint(int(lv)) + ")"
}

// DefaultLogger writes "[prefix] LEVEL: message" lines. Debug and info go to
// the regular stream, warnings and errors to the error stream.
type DefaultLogger struct {
	prefix  string
	debug   atomic.Bool
	regular *log.Logger
	errors  *log.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewWriterLogger(prefix, debug, os.Stdout, os.Stderr)
}

func NewWriterLogger(prefix string, debug bool, out, errOut io.Writer) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	l := &DefaultLogger{
		prefix:  prefix,
		regular: log.New(out, "", flags),
		errors:  log.New(errOut, "", flags),
	}
	l.debug.Store(debug)
	return l
}

func (l *DefaultLogger) DebugEnabled() bool    { return l.debug.Load() }
func (l *DefaultLogger) SetDebug(enabled bool) { l.debug.Store(enabled) }

func (l *DefaultLogger) logf(lv Level, format string, args ...any) {
	if lv == LevelDebug && !l.debug.Load() {
		return
	}
	head := lv.String()
	if l.prefix != "" {
		head = "[" + l.prefix + "] " + head
	}
	dst := l.regular
	if lv >= LevelWarn {
		dst = l.errors
	}
	dst.Print(head + ": " + fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

type nopLogger struct{}

func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool   { return false }
func (nopLogger) SetDebug(bool)        {}
func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// taggedLogger prepends a fixed tag (the owning system's ID) to every message.
type taggedLogger struct {
	Logger
	tag string
}

func withTag(l Logger, tag string) Logger {
	if l == nil {
		return NewNopLogger()
	}
	return &taggedLogger{Logger: l, tag: tag}
}

func (t *taggedLogger) Debugf(format string, args ...any) {
	t.Logger.Debugf("%s "+format, append([]any{t.tag}, args...)...)
}

func (t *taggedLogger) Infof(format string, args ...any) {
	t.Logger.Infof("%s "+format, append([]any{t.tag}, args...)...)
}

func (t *taggedLogger) Warnf(format string, args ...any) {
	t.Logger.Warnf("%s "+format, append([]any{t.tag}, args...)...)
}

func (t *taggedLogger) Errorf(format string, args ...any) {
	t.Logger.Errorf("%s "+format, append([]any{t.tag}, args...)...)
}
