package observability

import "log/slog"

// SlogLogger bridges Logger onto a slog.Logger, letting callers reuse
// whatever handler their process already configured.
type SlogLogger struct {
	base *slog.Logger
}

// NewSlogLogger wraps base. A nil base falls back to slog.Default().
func NewSlogLogger(base *slog.Logger) *SlogLogger {
	if base == nil {
		base = slog.Default()
	}
	return &SlogLogger{base: base}
}

func (l *SlogLogger) Debug(msg string, fields ...Field) { l.base.Debug(msg, args(fields)...) }
func (l *SlogLogger) Info(msg string, fields ...Field)  { l.base.Info(msg, args(fields)...) }
func (l *SlogLogger) Warn(msg string, fields ...Field)  { l.base.Warn(msg, args(fields)...) }
func (l *SlogLogger) Error(msg string, fields ...Field) { l.base.Error(msg, args(fields)...) }

func (l *SlogLogger) With(fields ...Field) Logger {
	return &SlogLogger{base: l.base.With(args(fields)...)}
}

func args(fields []Field) []any {
	out := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		out = append(out, f.Key(), f.Value())
	}
	return out
}
