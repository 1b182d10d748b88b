// Package audit provides the audit-log hook: every run on its extension
// point is persisted as a runlog entry. Register it with a blank import:
//
//	_ "github.com/ferro-labs/ferrohooks/internal/hooks/audit"
package audit

import (
	"context"
	"fmt"

	"github.com/ferro-labs/ferrohooks"
	"github.com/ferro-labs/ferrohooks/internal/logging"
	"github.com/ferro-labs/ferrohooks/internal/runlog"
)

func init() {
	ferrohooks.RegisterFactory("audit-log", New)
}

// New builds an audit-log bundle. Settings:
//
//	driver: sqlite (default) | postgres | noop
//	dsn:    database path or connection string
//
// The store is opened during setup and closed during teardown, so runs
// before setup (or after a failed setup) are not recorded.
func New(settings map[string]interface{}) (ferrohooks.Bundle, error) {
	driver, _ := settings["driver"].(string)
	dsn, _ := settings["dsn"].(string)
	switch driver {
	case "", "sqlite", "postgres", "noop":
	default:
		return ferrohooks.Bundle{}, fmt.Errorf("audit-log: unknown driver %q", driver)
	}

	var writer runlog.Writer = runlog.NoopWriter{}
	var store *runlog.SQLStore

	return ferrohooks.Bundle{
		Name:        "audit-log",
		Description: "persists a run log entry per phase execution",
		Setup: []ferrohooks.SetupFunc{
			func(_ context.Context, _ *ferrohooks.SharedContext, _ *ferrohooks.PhaseContext) error {
				var err error
				switch driver {
				case "postgres":
					store, err = runlog.NewPostgresStore(dsn)
				case "noop":
					return nil
				default:
					store, err = runlog.NewSQLiteStore(dsn)
				}
				if err != nil {
					return err
				}
				writer = store
				return nil
			},
		},
		Run: []ferrohooks.RunFunc{
			func(ctx context.Context, acc ferrohooks.Value, _ any, _ *ferrohooks.SharedContext, phase *ferrohooks.PhaseContext) (any, error) {
				if err := writer.Write(ctx, runlog.Entry{
					InvocationID: logging.InvocationIDFromContext(ctx),
					Phase:        string(ferrohooks.PhaseRun),
					Key:          phase.Key,
					Hook:         "audit-log",
				}); err != nil {
					return nil, fmt.Errorf("audit-log: %w", err)
				}
				return acc.Interface(), nil
			},
		},
		Teardown: []ferrohooks.TeardownFunc{
			func(_ context.Context, _ *ferrohooks.SharedContext, _ *ferrohooks.PhaseContext) error {
				if store == nil {
					return nil
				}
				err := store.Close()
				store = nil
				writer = runlog.NoopWriter{}
				return err
			},
		},
	}, nil
}
