package ferrohooks

import (
	"context"
	"log/slog"
	"time"

	"github.com/ferro-labs/ferrohooks/internal/logging"
	"github.com/ferro-labs/ferrohooks/internal/metrics"
)

// Observer is the observability hook the registry notifies around
// registration and each phase invocation. The registry never depends on
// observer behavior: implementations must not panic, and they cannot fail.
type Observer interface {
	HookRegistered(key string, b Bundle)
	PhaseStarted(phase Phase, key string)
	PhaseCompleted(phase Phase, key string, elapsed time.Duration, err error)
}

// NopObserver ignores all notifications. It is the registry default.
type NopObserver struct{}

func (NopObserver) HookRegistered(string, Bundle)                      {}
func (NopObserver) PhaseStarted(Phase, string)                         {}
func (NopObserver) PhaseCompleted(Phase, string, time.Duration, error) {}

// LogObserver emits a structured log line per registration and completed
// phase invocation.
type LogObserver struct {
	// Level used for registration and successful completions. Phase errors
	// always log at error level. Defaults to the zero value, slog.LevelInfo.
	Level slog.Level
}

func (o LogObserver) HookRegistered(key string, b Bundle) {
	logging.Logger.Log(context.Background(), o.Level, "hook registered",
		"key", key,
		"name", b.Name,
		"position", string(b.position()),
		"run_callbacks", len(b.Run),
	)
}

func (o LogObserver) PhaseStarted(Phase, string) {}

func (o LogObserver) PhaseCompleted(phase Phase, key string, elapsed time.Duration, err error) {
	if err != nil {
		logging.Logger.Error("phase failed",
			"phase", string(phase),
			"key", key,
			"duration_ms", elapsed.Milliseconds(),
			"error", err.Error(),
		)
		return
	}
	logging.Logger.Log(context.Background(), o.Level, "phase completed",
		"phase", string(phase),
		"key", key,
		"duration_ms", elapsed.Milliseconds(),
	)
}

// MetricsObserver records registrations, phase executions, and phase latency
// in the Prometheus collectors from internal/metrics.
type MetricsObserver struct{}

func (MetricsObserver) HookRegistered(key string, b Bundle) {
	metrics.RegistrationsTotal.WithLabelValues(key, string(b.position())).Inc()
}

func (MetricsObserver) PhaseStarted(Phase, string) {}

func (MetricsObserver) PhaseCompleted(phase Phase, key string, elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.PhaseExecutionsTotal.WithLabelValues(string(phase), key, status).Inc()
	metrics.PhaseDuration.WithLabelValues(string(phase), key).Observe(elapsed.Seconds())
}

// MultiObserver fans notifications out to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) HookRegistered(key string, b Bundle) {
	for _, o := range m {
		o.HookRegistered(key, b)
	}
}

func (m MultiObserver) PhaseStarted(phase Phase, key string) {
	for _, o := range m {
		o.PhaseStarted(phase, key)
	}
}

func (m MultiObserver) PhaseCompleted(phase Phase, key string, elapsed time.Duration, err error) {
	for _, o := range m {
		o.PhaseCompleted(phase, key, elapsed, err)
	}
}
