package pipeline

import (
	"log/slog"
	"time"
)

// Level classifies a pipeline event.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelSuccess Level = "success"
)

// Stage names the pipeline stage that emitted an event.
type Stage string

const (
	StageParseRules Stage = "parse_rules"
	StageGroup      Stage = "group"
	StageExpand     Stage = "expand"
	StageCost       Stage = "cost"
	StagePrice      Stage = "price"
	StageAssemble   Stage = "assemble"
	StageSerialize  Stage = "serialize"
)

// Event is one structured entry of the run log. The event stream replaces
// console tracing: business logic records events, and observers (HTTP
// responses, the CLI, slog) consume them.
type Event struct {
	Time    time.Time      `json:"time"`
	Level   Level          `json:"level"`
	Stage   Stage          `json:"stage"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// Recorder accumulates pipeline events and mirrors them to slog.
type Recorder struct {
	logger *slog.Logger
	events []Event
}

// NewRecorder creates a recorder mirroring to the given logger. A nil
// logger falls back to slog.Default.
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{logger: logger}
}

// Events returns the recorded events in order.
func (r *Recorder) Events() []Event {
	return r.events
}

// Record appends one event. Fields come as alternating key/value pairs, the
// slog convention.
func (r *Recorder) Record(level Level, stage Stage, msg string, kv ...any) {
	ev := Event{
		Time:    time.Now(),
		Level:   level,
		Stage:   stage,
		Message: msg,
	}
	if len(kv) > 0 {
		ev.Fields = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			if k, ok := kv[i].(string); ok {
				ev.Fields[k] = kv[i+1]
			}
		}
	}
	r.events = append(r.events, ev)

	args := append([]any{"stage", string(stage)}, kv...)
	switch level {
	case LevelWarning:
		r.logger.Warn(msg, args...)
	case LevelError:
		r.logger.Error(msg, args...)
	default:
		r.logger.Info(msg, args...)
	}
}

// Info records an info event.
func (r *Recorder) Info(stage Stage, msg string, kv ...any) {
	r.Record(LevelInfo, stage, msg, kv...)
}

// Warn records a warning event.
func (r *Recorder) Warn(stage Stage, msg string, kv ...any) {
	r.Record(LevelWarning, stage, msg, kv...)
}

// Error records an error event.
func (r *Recorder) Error(stage Stage, msg string, kv ...any) {
	r.Record(LevelError, stage, msg, kv...)
}

// Success records a success event.
func (r *Recorder) Success(stage Stage, msg string, kv ...any) {
	r.Record(LevelSuccess, stage, msg, kv...)
}
