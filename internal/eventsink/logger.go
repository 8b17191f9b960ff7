package eventsink

import "log/slog"

// Logger emits every event as a structured slog record, the default sink
// when no external event bus is wired.
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a Logger sink. A nil logger falls back to slog.Default().
func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger}
}

func (l *Logger) Emit(evt Event) {
	attrs := []any{
		"event_type", evt.Type,
		"source", evt.Source,
		"timestamp", evt.Timestamp,
	}
	if evt.TaskID != "" {
		attrs = append(attrs, "task_id", evt.TaskID)
	}
	for k, v := range evt.Metadata {
		attrs = append(attrs, k, v)
	}

	switch evt.Severity {
	case SeverityError:
		l.logger.Error("seeker event", attrs...)
	case SeverityWarning:
		l.logger.Warn("seeker event", attrs...)
	default:
		l.logger.Info("seeker event", attrs...)
	}
}
