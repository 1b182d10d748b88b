// Package logger provides the phase-logger hook: a structured log line for
// every phase invocation on the extension point it attaches to. Register it
// with a blank import:
//
//	_ "github.com/ferro-labs/ferrohooks/internal/hooks/logger"
package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/ferro-labs/ferrohooks"
	"github.com/ferro-labs/ferrohooks/internal/logging"
)

func init() {
	ferrohooks.RegisterFactory("phase-logger", New)
}

// New builds a phase-logger bundle. Settings:
//
//	level: debug | info | warn | error (default info)
func New(settings map[string]interface{}) (ferrohooks.Bundle, error) {
	logLevel := slog.LevelInfo
	if level, ok := settings["level"].(string); ok {
		switch level {
		case "debug":
			logLevel = slog.LevelDebug
		case "warn":
			logLevel = slog.LevelWarn
		case "error":
			logLevel = slog.LevelError
		}
	}

	return ferrohooks.Bundle{
		Name:        "phase-logger",
		Description: "logs every phase invocation on its extension point",
		Setup: []ferrohooks.SetupFunc{
			func(ctx context.Context, _ *ferrohooks.SharedContext, _ *ferrohooks.PhaseContext) error {
				logging.FromContext(ctx).Log(ctx, logLevel, "extension point set up",
					"timestamp", time.Now().UTC().Format(time.RFC3339),
				)
				return nil
			},
		},
		Run: []ferrohooks.RunFunc{
			func(ctx context.Context, acc ferrohooks.Value, data any, _ *ferrohooks.SharedContext, _ *ferrohooks.PhaseContext) (any, error) {
				logging.FromContext(ctx).Log(ctx, logLevel, "extension point run",
					"has_accumulator", acc.Present(),
					"has_data", data != nil,
					"timestamp", time.Now().UTC().Format(time.RFC3339),
				)
				// Observability only: pass the accumulator through unchanged.
				return acc.Interface(), nil
			},
		},
		Teardown: []ferrohooks.TeardownFunc{
			func(ctx context.Context, _ *ferrohooks.SharedContext, _ *ferrohooks.PhaseContext) error {
				logging.FromContext(ctx).Log(ctx, logLevel, "extension point torn down",
					"timestamp", time.Now().UTC().Format(time.RFC3339),
				)
				return nil
			},
		},
	}, nil
}
