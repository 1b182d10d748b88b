// Package ratelimit provides the rate-limit hook: a token-bucket cap on how
// often an extension point may run. An exhausted bucket fails the run, which
// propagates to the Run caller per the registry's error policy. Register it
// with a blank import:
//
//	_ "github.com/ferro-labs/ferrohooks/internal/hooks/ratelimit"
package ratelimit

import (
	"context"
	"fmt"

	"github.com/ferro-labs/ferrohooks"
	"github.com/ferro-labs/ferrohooks/internal/metrics"
	"github.com/ferro-labs/ferrohooks/internal/ratelimit"
)

func init() {
	ferrohooks.RegisterFactory("rate-limit", New)
}

// New builds a rate-limit bundle. Settings:
//
//	rate:  allowed runs per second (default 10)
//	burst: bucket capacity (default rate)
func New(settings map[string]interface{}) (ferrohooks.Bundle, error) {
	rate := floatSetting(settings, "rate", 10)
	burst := floatSetting(settings, "burst", 0)
	if rate <= 0 {
		return ferrohooks.Bundle{}, fmt.Errorf("rate-limit: rate must be > 0, got %v", rate)
	}

	store := ratelimit.NewStore(rate, burst)

	return ferrohooks.Bundle{
		Name:        "rate-limit",
		Description: "rejects runs once the extension point's token bucket is empty",
		Run: []ferrohooks.RunFunc{
			func(_ context.Context, acc ferrohooks.Value, _ any, _ *ferrohooks.SharedContext, phase *ferrohooks.PhaseContext) (any, error) {
				if !store.Allow(phase.Key) {
					metrics.RateLimitRejections.WithLabelValues(phase.Key).Inc()
					return nil, fmt.Errorf("rate-limit: extension point %q exceeded %v runs/s", phase.Key, rate)
				}
				return acc.Interface(), nil
			},
		},
	}, nil
}

// floatSetting reads a numeric setting that may arrive as int, float64, or
// be absent, depending on whether the manifest came from YAML or JSON.
func floatSetting(settings map[string]interface{}, name string, fallback float64) float64 {
	switch v := settings[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return fallback
	}
}
