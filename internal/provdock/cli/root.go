// Package cli wires the provdock commands: one cobra subcommand per operator
// action plus the interactive console as the default.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ltoma/provdock/common/environment"
)

var profilePath string

var rootCmd = &cobra.Command{
	Use:   "provdock",
	Short: "Operator console for prover node containers",
	Long: `provdock provisions and supervises isolated prover node containers.

Each node is one container named after its id, with a host-side log file and
a daily crontab entry that cleans that log. Run without arguments for the
interactive console, or use the subcommands for scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConsole,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile",
		environment.StringOr("PROVDOCK_PROFILE", "/etc/provdock/profile.yaml"),
		"deploy profile file (missing file = defaults)")
}

// Execute runs the CLI. Interrupts cancel the command context so long-lived
// operations like log following stop cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
