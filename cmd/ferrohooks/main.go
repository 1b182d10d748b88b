// Package main provides the ferrohooks command-line tool: manifest
// validation, hook listing, and a small host server exposing the inspect API.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ferro-labs/ferrohooks"
	"github.com/ferro-labs/ferrohooks/internal/version"

	// Register built-in hooks so they can be loaded from config.
	_ "github.com/ferro-labs/ferrohooks/internal/hooks/audit"
	_ "github.com/ferro-labs/ferrohooks/internal/hooks/logger"
	_ "github.com/ferro-labs/ferrohooks/internal/hooks/ratelimit"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ferrohooks",
		Short:         "FerroHooks extension-point registry tool",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(validateCmd(), hooksCmd(), serveCmd(), versionCmd())
	return root
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a hook manifest (JSON/YAML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := ferrohooks.LoadConfig(args[0])
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := ferrohooks.ValidateConfig(*cfg); err != nil {
				return fmt.Errorf("validation error: %w", err)
			}

			fmt.Printf("✓ Config is valid\n")
			fmt.Printf("  Extension points: %d\n", len(cfg.ExtensionPoints))
			for _, ep := range cfg.ExtensionPoints {
				var hookNames []string
				for _, hc := range ep.Hooks {
					status := "disabled"
					if hc.Enabled {
						status = "enabled"
					}
					hookNames = append(hookNames, fmt.Sprintf("%s (%s)", hc.Name, status))
				}
				fmt.Printf("  %-24s %s\n", ep.Key, strings.Join(hookNames, ", "))
			}
			return nil
		},
	}
}

func hooksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hooks",
		Short: "List all registered hook factories",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			names := ferrohooks.RegisteredHooks()
			if len(names) == 0 {
				fmt.Println("No hooks registered.")
				return nil
			}
			fmt.Println("Registered hooks:")
			for _, name := range names {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("ferrohooks %s\n", version.String())
		},
	}
}
