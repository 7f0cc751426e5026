package logging

import (
	"io"
	"strings"
	"sync"
	"time"
)

// Level represents a log level
type Level int

const (
	// DebugLevel covers per-chunk and per-pair detail
	DebugLevel Level = iota
	// InfoLevel is the default logging priority
	InfoLevel
	// WarnLevel marks degraded but usable results, e.g. undefined scores
	WarnLevel
	// ErrorLevel marks failed loads and populate runs
	ErrorLevel
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < DebugLevel || l > ErrorLevel {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel converts a case-insensitive level name to a Level. Unknown
// names map to InfoLevel.
func ParseLevel(s string) Level {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		return WarnLevel
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i)
		}
	}
	return InfoLevel
}

// Field is one key-value pair attached to a log line.
type Field struct {
	Key   string
	Value any
}

// Logger writes leveled, structured lines.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With returns a child logger that adds fields to every line
	With(fields ...Field) Logger
	// Enabled reports whether lines at level are written
	Enabled(level Level) bool
}

// Keys owned by the line header. Fields using them are renamed with a
// "field." prefix.
const (
	timeKey  = "time"
	levelKey = "level"
	msgKey   = "msg"
)

// JSONLogger writes one flat JSON object per line. Children created by With
// share the parent's writer lock, so lines never interleave.
type JSONLogger struct {
	writer io.Writer
	level  Level
	fields []Field
	mu     *sync.Mutex
	now    func() time.Time
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field)   {}
func (NopLogger) Info(string, ...Field)    {}
func (NopLogger) Warn(string, ...Field)    {}
func (NopLogger) Error(string, ...Field)   {}
func (n NopLogger) With(...Field) Logger   { return n }
func (NopLogger) Enabled(level Level) bool { return false }

// NewNopLogger creates a logger that discards all output
func NewNopLogger() Logger {
	return NopLogger{}
}

// TimedOperation logs the duration of one operation when it ends.
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}
