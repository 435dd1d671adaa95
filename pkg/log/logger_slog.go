package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Các mức không có sẵn trong slog được đặt giữa các mức chuẩn.
const (
	levelNotice    = slog.Level(2)
	levelCritical  = slog.Level(12)
	levelAlert     = slog.Level(14)
	levelEmergency = slog.Level(16)
)

// SlogLogger adapts Logger onto log/slog so output can be structured JSON.
type SlogLogger struct {
	inner *slog.Logger
}

func NewSlogLogger(w io.Writer, format, level string) *SlogLogger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key != slog.LevelKey {
				return a
			}
			if lvl, ok := a.Value.Any().(slog.Level); ok {
				a.Value = slog.StringValue(levelName(lvl))
			}
			return a
		},
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &SlogLogger{inner: slog.New(handler)}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func levelName(l slog.Level) string {
	switch l {
	case levelNotice:
		return "NOTICE"
	case levelCritical:
		return "CRITICAL"
	case levelAlert:
		return "ALERT"
	case levelEmergency:
		return "EMERGENCY"
	default:
		return l.String()
	}
}

func (l *SlogLogger) log(ctx context.Context, level slog.Level, format string, args ...interface{}) {
	if !l.inner.Enabled(ctx, level) {
		return
	}
	l.inner.Log(ctx, level, fmt.Sprintf(format, args...))
}

func (l *SlogLogger) Info(ctx context.Context, format string, args ...interface{}) {
	l.log(ctx, slog.LevelInfo, format, args...)
}

func (l *SlogLogger) Alert(ctx context.Context, format string, args ...interface{}) {
	l.log(ctx, levelAlert, format, args...)
}

func (l *SlogLogger) Error(ctx context.Context, format string, args ...interface{}) {
	l.log(ctx, slog.LevelError, format, args...)
}

func (l *SlogLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	l.log(ctx, slog.LevelWarn, format, args...)
}

func (l *SlogLogger) Debug(ctx context.Context, format string, args ...interface{}) {
	l.log(ctx, slog.LevelDebug, format, args...)
}

func (l *SlogLogger) Notice(ctx context.Context, format string, args ...interface{}) {
	l.log(ctx, levelNotice, format, args...)
}

func (l *SlogLogger) Critical(ctx context.Context, format string, args ...interface{}) {
	l.log(ctx, levelCritical, format, args...)
}

func (l *SlogLogger) Emergency(ctx context.Context, format string, args ...interface{}) {
	l.log(ctx, levelEmergency, format, args...)
}
