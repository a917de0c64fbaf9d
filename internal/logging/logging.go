package logging

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Logger writes one JSON object per line. Every entry carries ts, level and,
// when set, component; callers add event-specific fields.
type Logger struct {
	mu        *sync.Mutex
	w         io.Writer
	loc       *time.Location
	component string
}

// New returns a Logger writing to w with timestamps in loc.
// A nil writer means stdout, a nil location means UTC.
func New(w io.Writer, loc *time.Location) *Logger {
	if w == nil {
		w = os.Stdout
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{mu: &sync.Mutex{}, w: w, loc: loc}
}

// Nop discards everything.
func Nop() *Logger {
	return New(io.Discard, time.UTC)
}

// With returns a child logger tagging entries with component. It shares the writer.
func (l *Logger) With(component string) *Logger {
	cp := *l
	cp.component = component
	return &cp
}

// Location returns the time zone used for timestamps.
func (l *Logger) Location() *time.Location {
	return l.loc
}

// Info logs event at info level.
func (l *Logger) Info(event string, fields map[string]any) {
	l.write("info", event, fields)
}

// Warn logs event at warn level.
func (l *Logger) Warn(event string, fields map[string]any) {
	l.write("warn", event, fields)
}

// Error logs event at error level with err stored under error_message.
func (l *Logger) Error(event string, err error, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	if err != nil {
		fields["error_message"] = err.Error()
	}
	l.write("error", event, fields)
}

// Log writes a prebuilt entry. A missing level is derived from status the
// way the migration runner reports it: "error" status logs at error level.
func (l *Logger) Log(data map[string]any) {
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}
	l.emit(data)
}

func (l *Logger) write(level, event string, fields map[string]any) {
	data := make(map[string]any, len(fields)+4)
	for k, v := range fields {
		data[k] = v
	}
	data["level"] = level
	data["event"] = event
	l.emit(data)
}

func (l *Logger) emit(data map[string]any) {
	data["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	if l.component != "" {
		if _, ok := data["component"]; !ok {
			data["component"] = l.component
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		b, _ = json.Marshal(map[string]any{
			"ts":            data["ts"],
			"level":         "error",
			"event":         "log_marshal_failed",
			"error_message": err.Error(),
		})
	}
	b = append(b, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.Write(b)
}
