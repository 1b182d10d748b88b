// Package logging provides structured JSON logging with invocation ID
// propagation. It wraps Go's built-in log/slog with registry-specific
// helpers: an ID minted per Run invocation (or per inspect-API request) and
// extracted from context.
package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"os"
)

type contextKey string

const invocationIDKey contextKey = "invocation_id"

// Logger is the package-level structured logger. Callers should prefer
// FromContext(ctx) to automatically attach the invocation ID.
var Logger *slog.Logger

func init() {
	Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// Setup (re-)initialises the package logger. level is one of debug/info/warn/error
// (default info). format is "json" (default) or "text".
func Setup(level, format string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

// NewInvocationID generates a random 16-byte hex invocation ID.
func NewInvocationID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// WithInvocationID stores an invocation ID in the context.
func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationIDKey, id)
}

// InvocationIDFromContext retrieves the invocation ID stored in the context.
func InvocationIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(invocationIDKey).(string)
	return v
}

// FromContext returns a *slog.Logger pre-annotated with the invocation_id
// from ctx.
func FromContext(ctx context.Context) *slog.Logger {
	if id := InvocationIDFromContext(ctx); id != "" {
		return Logger.With("invocation_id", id)
	}
	return Logger
}

// Middleware injects an invocation ID into every request context and echoes
// it in the X-Invocation-ID response header. Uses the incoming
// X-Invocation-ID header if present, otherwise generates a new one.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Invocation-ID")
		if id == "" {
			id = NewInvocationID()
		}
		ctx := WithInvocationID(r.Context(), id)
		w.Header().Set("X-Invocation-ID", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
