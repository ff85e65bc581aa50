package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ltoma/provdock/internal/provdock/naming"
)

var logsCmd = &cobra.Command{
	Use:   "logs <node-id>",
	Short: "Follow a node's log output until interrupted",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	if err := naming.ValidateID(args[0]); err != nil {
		return err
	}

	d, err := buildDeps(cmd.Context())
	if err != nil {
		return err
	}

	// Blocks until Ctrl-C; a fresh invocation starts from the current tail.
	return d.runtime.StreamLogs(cmd.Context(), naming.ContainerName(args[0]), os.Stdout)
}
