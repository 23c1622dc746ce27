package scheduler_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/joeycumines/logiface"

	"github.com/reactorkit/rrs/scheduler"
)

// logifaceEvent is the minimal logiface.Event needed to carry a scheduler
// log entry through to a Writer: a level, a message, and the one field
// (category) the scheduler attaches to every entry.
type logifaceEvent struct {
	logiface.UnimplementedEvent
	level    logiface.Level
	category string
	msg      string
}

func (e *logifaceEvent) Level() logiface.Level { return e.level }

func (e *logifaceEvent) AddField(key string, val any) {
	if key == "category" {
		if s, ok := val.(string); ok {
			e.category = s
		}
	}
}

func (e *logifaceEvent) AddString(key, val string) bool {
	if key == "category" {
		e.category = val
		return true
	}
	return false
}

func (e *logifaceEvent) AddMessage(msg string) bool {
	e.msg = msg
	return true
}

// logifaceSchedulerLogger adapts a logiface.Logger into scheduler.Logger,
// proving the scheduler's logging seam is implementable in terms of a real
// structured-logging backend rather than only scheduler.DefaultLogger.
type logifaceSchedulerLogger struct {
	log *logiface.Logger[*logifaceEvent]
}

func newLogifaceSchedulerLogger(w *bytes.Buffer, level scheduler.LogLevel) logifaceSchedulerLogger {
	log := logiface.New[*logifaceEvent](
		logiface.WithEventFactory[*logifaceEvent](logiface.NewEventFactoryFunc(func(level logiface.Level) *logifaceEvent {
			return &logifaceEvent{level: level}
		})),
		logiface.WithWriter[*logifaceEvent](logiface.NewWriterFunc(func(e *logifaceEvent) error {
			_, err := w.WriteString(e.level.String() + " [" + e.category + "] " + e.msg + "\n")
			return err
		})),
		logiface.WithLevel[*logifaceEvent](logifaceLevel(level)),
	)
	return logifaceSchedulerLogger{log: log}
}

// logifaceLevel maps scheduler's four-level scheme onto logiface's syslog
// levels, keeping the ordering (more severe = numerically smaller).
func logifaceLevel(level scheduler.LogLevel) logiface.Level {
	switch level {
	case scheduler.LevelDebug:
		return logiface.LevelDebug
	case scheduler.LevelInfo:
		return logiface.LevelInformational
	case scheduler.LevelWarn:
		return logiface.LevelWarning
	case scheduler.LevelError:
		return logiface.LevelError
	default:
		return logiface.LevelInformational
	}
}

func (a logifaceSchedulerLogger) IsEnabled(level scheduler.LogLevel) bool {
	return logifaceLevel(level) <= a.log.Level()
}

func (a logifaceSchedulerLogger) Log(entry scheduler.LogEntry) {
	b := a.log.Build(logifaceLevel(entry.Level))
	if b == nil {
		return
	}
	b.Str("category", entry.Category).Log(entry.Message)
}

// TestLogifaceSchedulerLogger runs a trivial scheduler job with the
// logiface-backed logger wired in at debug level, then checks that at
// least an instant-lifecycle line made it through to the buffer.
func TestLogifaceSchedulerLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogifaceSchedulerLogger(&buf, scheduler.LevelDebug)

	pr := scheduler.NewParallelRuntime(1, scheduler.WithLogger(logger))

	done := make(chan struct{})
	pr.Execute(func(rt *scheduler.Runtime) {
		close(done)
	}, 1)

	<-done

	if buf.Len() == 0 {
		t.Fatal("expected the logiface-backed logger to have received at least one entry")
	}
	if !strings.Contains(buf.String(), "[instant]") {
		t.Fatalf("expected an instant-phase log line, got: %s", buf.String())
	}
}
