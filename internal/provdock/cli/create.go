package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ltoma/provdock/common/trace"
)

var createCmd = &cobra.Command{
	Use:   "create <node-id>",
	Short: "Provision and start a prover node",
	Long: `Create builds the node image if needed, replaces any existing container of
the same id, starts the node with its credential injected, and installs the
daily log-cleanup crontab entry.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := trace.WithID(cmd.Context(), trace.NewID())

	d, err := buildDeps(ctx)
	if err != nil {
		return err
	}

	handle, err := d.manager.Create(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("node %s is up (container %s)\n", handle.ID, handle.ContainerName)
	return nil
}
