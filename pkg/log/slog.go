package log

import (
	"context"
	"log/slog"
)

// SlogLogger adapts *slog.Logger to Logger.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps l. A nil l falls back to slog.Default().
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{logger: l}
}

// Default returns a Logger backed by the current slog default, so it picks
// up whatever SetupLogger installed.
func Default() Logger {
	return NewSlogLogger(slog.Default())
}

func (s *SlogLogger) Debug(msg string, fields ...any) { s.logger.Debug(msg, fields...) }
func (s *SlogLogger) Info(msg string, fields ...any)  { s.logger.Info(msg, fields...) }
func (s *SlogLogger) Warn(msg string, fields ...any)  { s.logger.Warn(msg, fields...) }

func (s *SlogLogger) Error(msg string, fields ...any) {
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			fields = append([]any{ErrAttr(err)}, fields[1:]...)
		}
	}
	s.logger.Error(msg, fields...)
}

func (s *SlogLogger) With(fields ...any) Logger {
	return &SlogLogger{logger: s.logger.With(fields...)}
}

func (s *SlogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.logger.Enabled(ctx, slog.Level(level))
}
