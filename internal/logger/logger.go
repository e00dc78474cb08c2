// Package logger provides the process-wide structured logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Levels accepted in log.level.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Encodings accepted in log.format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

const rootName = "labclimate"

// Logger is a sugared zap logger; handlers log with Infow/Errorw and
// snake_case event names.
type Logger struct {
	*zap.SugaredLogger
}

var (
	process     *Logger
	processOnce sync.Once
)

// Get returns the process logger. Level and format are fixed by the first call.
func Get(level, format string) *Logger {
	processOnce.Do(func() {
		process = New(newStdoutCore(parseLevel(level), format))
	})
	return process
}

// New wraps an arbitrary core, e.g. an observer in tests.
func New(core zapcore.Core) *Logger {
	return &Logger{SugaredLogger: zap.New(core).Named(rootName).Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(zapcore.NewNopCore())
}

// Component returns a child logger tagged with the emitting package.
func (l *Logger) Component(name string) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.Named(name)}
}
