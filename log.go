// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwvip

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Level is a logging severity.
//
type Level int32

// Logging levels, from least to most verbose.
//
const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var levelNames = [...]string{"error", "warn", "info", "debug"}

func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "level(" + fmt.Sprint(int32(l)) + ")"
	}
	return levelNames[l]
}

// ParseLevel returns the level with the given name.
//
func ParseLevel(name string) (Level, error) {
	for i, n := range levelNames {
		if strings.EqualFold(n, name) {
			return Level(i), nil
		}
	}
	return LevelInfo, errors.Errorf("unknown log level %q", name)
}

type logCore struct {
	level atomic.Int32
	out   *log.Logger
}

// Logger is a leveled logger. Every line is prefixed with the simulation cycle
// (when attached to a Sim) and the logger name.
//
// A nil *Logger discards everything.
//
type Logger struct {
	core  *logCore
	name  string
	clock func() uint64
}

// NewLogger returns a logger writing to w.
//
func NewLogger(w io.Writer, level Level) *Logger {
	c := &logCore{out: log.New(w, "", 0)}
	c.level.Store(int32(level))
	return &Logger{core: c}
}

// Discard returns a logger that drops all output.
//
func Discard() *Logger {
	return NewLogger(io.Discard, LevelError)
}

// Named returns a child logger sharing output and level with l.
//
func (l *Logger) Named(name string) *Logger {
	if l == nil {
		return nil
	}
	n := name
	if l.name != "" {
		n = l.name + "." + name
	}
	return &Logger{core: l.core, name: n, clock: l.clock}
}

func (l *Logger) withClock(clock func() uint64) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{core: l.core, name: l.name, clock: clock}
}

// SetLevel sets the level of l and of all loggers sharing its output.
//
func (l *Logger) SetLevel(level Level) {
	if l == nil {
		return
	}
	l.core.level.Store(int32(level))
}

// Enabled returns true if messages at the given level are written.
//
func (l *Logger) Enabled(level Level) bool {
	return l != nil && level <= Level(l.core.level.Load())
}

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	var b strings.Builder
	if l.clock != nil {
		fmt.Fprintf(&b, "[%8d] ", l.clock())
	}
	b.WriteString(strings.ToUpper(level.String()[:1]))
	b.WriteByte(' ')
	if l.name != "" {
		b.WriteString(l.name)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, format, args...)
	l.core.out.Output(3, b.String())
}

// Debugf logs a debug message.
func (l *Logger) Debugf(format string, args ...interface{}) { l.logf(LevelDebug, format, args...) }

// Infof logs an informational message.
func (l *Logger) Infof(format string, args ...interface{}) { l.logf(LevelInfo, format, args...) }

// Warnf logs a warning.
func (l *Logger) Warnf(format string, args ...interface{}) { l.logf(LevelWarn, format, args...) }

// Errorf logs an error.
func (l *Logger) Errorf(format string, args ...interface{}) { l.logf(LevelError, format, args...) }
