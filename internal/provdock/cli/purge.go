package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ltoma/provdock/common/trace"
)

var purgeYes bool

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Tear down every node",
	Long: `Purge tears down all nodes found in the container engine's listing.
Destructive; requires --yes.`,
	Args: cobra.NoArgs,
	RunE: runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)
	purgeCmd.Flags().BoolVar(&purgeYes, "yes", false, "confirm removal of all nodes")
}

func runPurge(cmd *cobra.Command, _ []string) error {
	if !purgeYes {
		return fmt.Errorf("refusing to remove all nodes without --yes")
	}

	ctx := trace.WithID(cmd.Context(), trace.NewID())

	d, err := buildDeps(ctx)
	if err != nil {
		return err
	}

	outcomes, err := d.manager.TeardownAll(ctx)
	if err != nil {
		return err
	}
	if len(outcomes) == 0 {
		fmt.Println("nothing to remove")
		return nil
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			fmt.Printf("%s: failed: %v\n", o.ID, o.Err)
		} else {
			fmt.Printf("%s: removed\n", o.ID)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d nodes failed to tear down", failed, len(outcomes))
	}
	return nil
}
