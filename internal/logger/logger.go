// Package logger provides structured logging for the application.
// It wraps log/slog with JSON formatting and supports context-based logging
// with request IDs, pipeline run IDs, and college names.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	slogbetterstack "github.com/samber/slog-betterstack"
)

// Logger is the application logger.
type Logger struct {
	*slog.Logger
}

// Options configures logger outputs and Better Stack integration.
type Options struct {
	BetterStackToken    string
	BetterStackEndpoint string
	Version             string
}

// New creates a new logger instance with JSON formatting.
// The pipeline's operational surface is line-oriented logging on stderr.
func New(level string) *Logger {
	return NewWithOptions(level, os.Stderr, Options{})
}

// NewWithWriter creates a new logger instance writing to the provided writer.
func NewWithWriter(level string, w io.Writer) *Logger {
	return NewWithOptions(level, w, Options{})
}

// NewWithOptions creates a new logger instance with configurable sinks.
// When BetterStackToken is provided, logs are also sent to Better Stack.
func NewWithOptions(level string, w io.Writer, opts Options) *Logger {
	logLevel := parseLevel(level)
	replaceAttr := replaceAttrFunc()

	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       logLevel,
		ReplaceAttr: replaceAttr,
	})

	handlers := []slog.Handler{jsonHandler}
	if opts.BetterStackToken != "" {
		bsOption := slogbetterstack.Option{
			Level:       logLevel,
			Token:       opts.BetterStackToken,
			Endpoint:    opts.BetterStackEndpoint,
			Timeout:     5 * time.Second,
			ReplaceAttr: replaceAttr,
		}
		handlers = append(handlers, bsOption.NewBetterstackHandler())
	}

	var handler slog.Handler
	if len(handlers) == 1 {
		handler = handlers[0]
	} else {
		handler = NewMultiHandler(handlers...)
	}

	baseLogger := slog.New(NewContextHandler(handler))
	if opts.Version != "" {
		baseLogger = baseLogger.With("version", opts.Version)
	}
	return &Logger{Logger: baseLogger}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func replaceAttrFunc() func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			a.Key = "timestamp"
		}
		if a.Key == slog.LevelKey {
			a.Key = "level"
			level := a.Value.String()
			if level == "WARN" {
				level = "warning"
			} else {
				level = strings.ToLower(level)
			}
			a.Value = slog.StringValue(level)
		}
		if a.Key == slog.MessageKey {
			a.Key = "message"
		}
		return a
	}
}

// WithModule creates a new entry with module field.
func (l *Logger) WithModule(module string) *Logger {
	return &Logger{Logger: l.With("module", module)}
}

// WithError creates a new entry with error field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.With("error", err)}
}

// WithField creates a new entry with a single field.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{Logger: l.With(key, value)}
}

// WithFields creates a new entry with multiple fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{Logger: l.With(args...)}
}

// Infof logs a formatted message at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

// Warnf logs a formatted message at warn level.
func (l *Logger) Warnf(format string, args ...any) {
	l.Warn(fmt.Sprintf(format, args...))
}

// Errorf logs a formatted message at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

// Debugf logs a formatted message at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.Debug(fmt.Sprintf(format, args...))
}

// SetDefault installs l as the process-wide slog default so that package
// level slog calls flow through the same handler chain.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}
