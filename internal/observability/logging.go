// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global structured logger used throughout the application.
var Logger zerolog.Logger

// ContextKey is the type for request-scoped context keys read by the logger.
type ContextKey string

const (
	// RequestIDKey is the context key for the request ID.
	RequestIDKey ContextKey = "request_id"
	// UserIDKey is the context key for the authenticated user ID.
	UserIDKey ContextKey = "user_id"
	// TraceIDKey is the context key for the trace ID.
	TraceIDKey ContextKey = "trace_id"
)

func init() {
	InitLogger("info", os.Getenv("APP_ENV"))
}

// InitLogger configures the global logger. Development environments get a
// human-friendly console writer, everything else writes JSON to stdout.
func InitLogger(level, env string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	var writer io.Writer = os.Stdout
	if env == "" || env == "development" {
		writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}

	Logger = zerolog.New(writer).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "projecthub-api").
		Logger()
}

// Ctx returns a logger enriched with the request ID, user ID and trace ID
// stored in ctx, if any.
func Ctx(ctx context.Context) *zerolog.Logger {
	l := Logger.With()
	if ctx != nil {
		if rid, ok := ctx.Value(RequestIDKey).(string); ok && rid != "" {
			l = l.Str("request_id", rid)
		}
		if uid, ok := ctx.Value(UserIDKey).(uint); ok && uid != 0 {
			l = l.Uint("user_id", uid)
		}
		if tid, ok := ctx.Value(TraceIDKey).(string); ok && tid != "" {
			l = l.Str("trace_id", tid)
		}
	}
	logger := l.Logger()
	return &logger
}

// WithUserID returns a copy of ctx carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// WithRequestID returns a copy of ctx carrying the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}
