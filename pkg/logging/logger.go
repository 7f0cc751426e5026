package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// NewJSONLogger creates a logger writing lines at or above level to writer.
func NewJSONLogger(writer io.Writer, level Level) *JSONLogger {
	return &JSONLogger{
		writer: writer,
		level:  level,
		mu:     &sync.Mutex{},
		now:    time.Now,
	}
}

func (l *JSONLogger) log(level Level, msg string, fields []Field) {
	if level < l.level {
		return
	}

	line := make(map[string]any, 3+len(l.fields)+len(fields))
	for _, group := range [][]Field{l.fields, fields} {
		for _, f := range group {
			key := f.Key
			if key == timeKey || key == levelKey || key == msgKey {
				key = "field." + key
			}
			line[key] = f.Value
		}
	}
	line[timeKey] = l.now().UTC().Format(time.RFC3339Nano)
	line[levelKey] = level.String()
	line[msgKey] = msg

	data, err := json.Marshal(line)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		fmt.Fprintf(l.writer, "[ERROR] Failed to marshal log entry %q: %v\n", msg, err)
		return
	}
	l.writer.Write(append(data, '\n'))
}

func (l *JSONLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *JSONLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *JSONLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *JSONLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

// Enabled reports whether level passes the logger's threshold.
func (l *JSONLogger) Enabled(level Level) bool {
	return level >= l.level
}

// With returns a child logger that shares the writer, level and lock.
func (l *JSONLogger) With(fields ...Field) Logger {
	child := *l
	child.fields = make([]Field, 0, len(l.fields)+len(fields))
	child.fields = append(append(child.fields, l.fields...), fields...)
	return &child
}

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: logger,
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// End logs the operation at INFO with its latency.
func (t *TimedOperation) End(fields ...Field) time.Duration {
	elapsed := time.Since(t.start)
	t.logger.Info(t.msg, t.with(append(fields, Latency(elapsed)))...)
	return elapsed
}

// EndError logs the operation at ERROR with its latency and cause.
func (t *TimedOperation) EndError(err error) time.Duration {
	elapsed := time.Since(t.start)
	t.logger.Error(t.msg, t.with([]Field{Latency(elapsed), Error(err)})...)
	return elapsed
}

func (t *TimedOperation) with(extra []Field) []Field {
	out := make([]Field, 0, len(t.fields)+len(extra))
	return append(append(out, t.fields...), extra...)
}
