package log

import (
	"context"
	"io"
	"log"
	"os"
)

type CslLogger struct {
	out *log.Logger
}

func NewCslLogger() (*CslLogger, error) {
	return NewCslLoggerWithWriter(os.Stderr), nil
}

func NewCslLoggerWithWriter(w io.Writer) *CslLogger {
	return &CslLogger{out: log.New(w, "", log.LstdFlags)}
}

func (l *CslLogger) printf(level, format string, args ...interface{}) {
	l.out.Printf("["+level+"] "+format, args...)
}

func (l *CslLogger) Info(ctx context.Context, format string, args ...interface{}) {
	l.printf("INFO", format, args...)
}

func (l *CslLogger) Alert(ctx context.Context, format string, args ...interface{}) {
	l.printf("ALERT", format, args...)
}

func (l *CslLogger) Error(ctx context.Context, format string, args ...interface{}) {
	l.printf("ERROR", format, args...)
}

func (l *CslLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	l.printf("WARN", format, args...)
}

func (l *CslLogger) Debug(ctx context.Context, format string, args ...interface{}) {
	l.printf("DEBUG", format, args...)
}

func (l *CslLogger) Critical(ctx context.Context, format string, args ...interface{}) {
	l.printf("CRITICAL", format, args...)
}

func (l *CslLogger) Emergency(ctx context.Context, format string, args ...interface{}) {
	l.printf("EMERGENCY", format, args...)
}

func (l *CslLogger) Notice(ctx context.Context, format string, args ...interface{}) {
	l.printf("NOTICE", format, args...)
}
