package logging

import (
	"fmt"
	"time"
)

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Error records err under "error"; a nil error is logged as null.
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Domain helpers

func Component(name string) Field {
	return String("component", name)
}

func Measure(name string) Field {
	return String("measure", name)
}

func RunID(id string) Field {
	return String("run_id", id)
}

// Chunk reports a zero-based chunk index as "n/total", counting from 1.
func Chunk(index, total int) Field {
	return String("chunk", fmt.Sprintf("%d/%d", index+1, total))
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func File(p string) Field {
	return String("file", p)
}
