package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ltoma/provdock/common/trace"
)

var removeCmd = &cobra.Command{
	Use:   "remove <node-id>...",
	Short: "Tear down one or more nodes",
	Long: `Remove tears down each named node: container, host log file and cleanup
crontab entry. Targets that are already gone are fine; one node's failure
does not stop the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := trace.WithID(cmd.Context(), trace.NewID())

	d, err := buildDeps(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, o := range d.manager.BatchTeardown(ctx, args) {
		if o.Err != nil {
			failed++
			fmt.Printf("%s: failed: %v\n", o.ID, o.Err)
		} else {
			fmt.Printf("%s: removed\n", o.ID)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d nodes failed to tear down", failed, len(args))
	}
	return nil
}
