package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ltoma/provdock/common/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(*cobra.Command, []string) {
		fmt.Println("provdock " + version.Info())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
