package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

type Logger interface {
	Info(ctx context.Context, format string, args ...interface{})
	Alert(ctx context.Context, format string, args ...interface{})
	Error(ctx context.Context, format string, args ...interface{})
	Warn(ctx context.Context, format string, args ...interface{})
	Debug(ctx context.Context, format string, args ...interface{})
	Notice(ctx context.Context, format string, args ...interface{})
	Critical(ctx context.Context, format string, args ...interface{})
	Emergency(ctx context.Context, format string, args ...interface{})
}

// New chọn logger theo format: "console" (mặc định) hoặc "text"/"json" dùng slog.
func New(format, level string) (Logger, error) {
	return NewWithWriter(os.Stdout, format, level)
}

func NewWithWriter(w io.Writer, format, level string) (Logger, error) {
	switch strings.ToLower(format) {
	case "", "console":
		return NewCslLoggerWithWriter(w), nil
	case "text", "json":
		return NewSlogLogger(w, format, level), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
}
