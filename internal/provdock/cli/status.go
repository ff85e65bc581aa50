package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ltoma/provdock/internal/provdock/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List all nodes with run state and resource usage",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	d, err := buildDeps(cmd.Context())
	if err != nil {
		return err
	}

	report, err := d.reporter.ListAll(cmd.Context())
	if err != nil {
		return err
	}

	if len(report.Nodes) == 0 {
		fmt.Println("no nodes")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tSTATE\tUSAGE")
	for _, n := range report.Nodes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", n.ID, n.State, status.FormatUsage(n.Usage))
	}
	tw.Flush()

	if len(report.Failed) > 0 {
		fmt.Printf("attention: %d node(s) exited: %s\n",
			len(report.Failed), strings.Join(report.Failed, ", "))
	}
	return nil
}
