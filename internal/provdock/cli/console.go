package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ltoma/provdock/common/version"
	"github.com/ltoma/provdock/internal/provdock/console"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Run the interactive operator menu",
	Args:  cobra.NoArgs,
	RunE:  runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

func runConsole(cmd *cobra.Command, _ []string) error {
	d, err := buildDeps(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("provdock %s\n", version.Info())

	c := console.New(d.manager, d.reporter, d.runtime, os.Stdin, os.Stdout)
	if err := c.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
