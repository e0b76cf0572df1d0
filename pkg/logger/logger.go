package logger

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with additional convenience methods
type Logger struct {
	*slog.Logger
}

// New creates a new structured logger
func New(level string) *Logger {
	// Parse log level
	var logLevel slog.Level
	switch level {
	case "debug", "DEBUG":
		logLevel = slog.LevelDebug
	case "info", "INFO":
		logLevel = slog.LevelInfo
	case "warn", "WARN", "warning", "WARNING":
		logLevel = slog.LevelWarn
	case "error", "ERROR":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	// Create handler with options
	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	// Use JSON handler for production, text handler for development
	var handler slog.Handler
	if os.Getenv("ENVIRONMENT") == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// RequestLogger creates a logger with request context
func (l *Logger) RequestLogger(requestID, method, path string) *Logger {
	return &Logger{
		Logger: l.Logger.With(
			slog.String("request_id", requestID),
			slog.String("method", method),
			slog.String("path", path),
		),
	}
}

// WithComponent creates a logger with component context
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("component", component)),
	}
}

// WithError logs an error with additional context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// ExpansionStarted logs the start of a fabric expansion.
func (l *Logger) ExpansionStarted(ctx context.Context, level string, nports int) {
	l.Logger.InfoContext(ctx, "expansion started",
		slog.String("level", level),
		slog.Int("nports", nports),
	)
}

// ExpansionCompleted logs a successful expansion.
func (l *Logger) ExpansionCompleted(ctx context.Context, sid int, actions int, duration string) {
	l.Logger.InfoContext(ctx, "expansion completed",
		slog.Int("sid", sid),
		slog.Int("actions", actions),
		slog.String("duration", duration),
	)
}

// PlannerSolved logs the outcome of a planner invocation.
func (l *Logger) PlannerSolved(ctx context.Context, moves int, actions int) {
	l.Logger.InfoContext(ctx, "planner solved",
		slog.Int("moves", moves),
		slog.Int("actions", actions),
	)
}

// RouteRecomputed logs an ECMP route recomputation push.
func (l *Logger) RouteRecomputed(ctx context.Context, priority int, switches int) {
	l.Logger.InfoContext(ctx, "routes recomputed",
		slog.Int("priority", priority),
		slog.Int("switches", switches),
	)
}

// FlowInstallFailed logs a southbound flow install failure.
func (l *Logger) FlowInstallFailed(ctx context.Context, sid int, host int, err error) {
	l.Logger.ErrorContext(ctx, "flow install failed",
		slog.Int("sid", sid),
		slog.Int("host", host),
		slog.String("error", err.Error()),
	)
}

// APIRequest logs incoming API requests
func (l *Logger) APIRequest(ctx context.Context, method, path, remoteAddr string) {
	l.Logger.InfoContext(ctx, "API request",
		slog.String("method", method),
		slog.String("path", path),
		slog.String("remote_addr", remoteAddr),
	)
}

// APIResponse logs API responses
func (l *Logger) APIResponse(ctx context.Context, method, path string, statusCode int, duration string) {
	l.Logger.InfoContext(ctx, "API response",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status_code", statusCode),
		slog.String("duration", duration),
	)
}