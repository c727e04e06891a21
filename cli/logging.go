package cli

import (
	"fmt"
	"io"
)

// Level filters logger output. Messages below the configured level are
// dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (level Level) String() string {
	switch level {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return "unknown"
}

// ShortString is the fixed-width tag used in log lines.
func (level Level) ShortString() string {
	switch level {
	case LevelDebug:
		return "DBG"
	case LevelInfo:
		return "INF"
	case LevelWarn:
		return "WRN"
	case LevelError:
		return "ERR"
	}
	return "???"
}

// Logger writes leveled lines in the form "TAG message". The CLI keeps all
// logging on stderr so command output stays pipeable.
type Logger struct {
	level Level
	out   io.Writer
}

func NewLogger(level Level, out io.Writer) *Logger {
	return &Logger{level: level, out: out}
}

func (logger *Logger) Debugf(format string, a ...interface{}) {
	logger.logf(LevelDebug, format, a...)
}

func (logger *Logger) Infof(format string, a ...interface{}) {
	logger.logf(LevelInfo, format, a...)
}

func (logger *Logger) Warnf(format string, a ...interface{}) {
	logger.logf(LevelWarn, format, a...)
}

func (logger *Logger) Errorf(format string, a ...interface{}) {
	logger.logf(LevelError, format, a...)
}

func (logger *Logger) logf(level Level, format string, a ...interface{}) {
	if logger == nil || level < logger.level {
		return
	}
	fmt.Fprintf(logger.out, "%s %s\n", level.ShortString(), fmt.Sprintf(format, a...))
}
