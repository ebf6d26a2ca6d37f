package cmd

import (
	"fmt"

	"github.com/atticdev/attic/internal/telemetry"
	"github.com/spf13/cobra"
)

// telemetryCmd represents the telemetry command
var telemetryCmd = &cobra.Command{
	Use:   "telemetry [on|off|status]",
	Short: "Control anonymous usage events",
	Long: `Show or change whether anonymous usage events are sent. Events are
off by default, carry no personal data, and are keyed by a random
identifier stored in ~/.attic/telemetry.json.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off", "status"},
	RunE:      runTelemetry,
}

func init() {
	rootCmd.AddCommand(telemetryCmd)
}

func runTelemetry(cmd *cobra.Command, args []string) error {
	cfg, err := telemetry.Load()
	if err != nil {
		return fmt.Errorf("load telemetry config: %w", err)
	}

	action := "status"
	if len(args) > 0 {
		action = args[0]
	}

	switch action {
	case "on":
		cfg.Enabled = true
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("save telemetry config: %w", err)
		}
		cmd.Println("Anonymous usage events enabled.")
	case "off":
		cfg.Enabled = false
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("save telemetry config: %w", err)
		}
		cmd.Println("Anonymous usage events disabled.")
	case "status":
		if cfg.IsEnabled() {
			cmd.Println("Anonymous usage events are enabled.")
		} else {
			cmd.Println("Anonymous usage events are disabled.")
		}
	default:
		return fmt.Errorf("unknown action %q (want on, off, or status)", action)
	}
	return nil
}
