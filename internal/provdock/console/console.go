// Package console implements the interactive operator menu. It owns no
// lifecycle logic of its own: every menu option maps 1:1 onto a Manager or
// Reporter operation, and the confirmation gate for remove-all lives here,
// not in the manager.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ltoma/provdock/common/trace"
	"github.com/ltoma/provdock/internal/provdock/manager"
	"github.com/ltoma/provdock/internal/provdock/runtime"
	"github.com/ltoma/provdock/internal/provdock/status"
)

// Lifecycle is the subset of the manager the console drives.
type Lifecycle interface {
	Create(ctx context.Context, id string) (runtime.NodeHandle, error)
	BatchTeardown(ctx context.Context, ids []string) []manager.Outcome
	TeardownAll(ctx context.Context) ([]manager.Outcome, error)
}

// Reporter is the subset of the status reporter the console drives.
type Reporter interface {
	ListAll(ctx context.Context) (status.Report, error)
}

// LogStreamer follows one node's log output.
type LogStreamer interface {
	StreamLogs(ctx context.Context, name string, out io.Writer) error
}

// Console is the interactive menu loop.
type Console struct {
	lifecycle Lifecycle
	reporter  Reporter
	logs      LogStreamer
	in        *bufio.Scanner
	out       io.Writer
}

// New creates a Console reading operator input from in and writing to out.
func New(lc Lifecycle, rep Reporter, logs LogStreamer, in io.Reader, out io.Writer) *Console {
	return &Console{
		lifecycle: lc,
		reporter:  rep,
		logs:      logs,
		in:        bufio.NewScanner(in),
		out:       out,
	}
}

// Run drives the menu until the operator quits, input ends, or ctx is
// cancelled. Commands execute strictly sequentially.
func (c *Console) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		fmt.Fprint(c.out, "\n"+
			"provdock - prover node console\n"+
			"  1) create node\n"+
			"  2) node status\n"+
			"  3) follow node logs\n"+
			"  4) remove selected nodes\n"+
			"  5) remove all nodes\n"+
			"  6) quit\n"+
			"> ")

		choice, ok := c.readLine()
		if !ok {
			return nil
		}

		var err error
		switch strings.TrimSpace(choice) {
		case "1":
			err = c.createNode(ctx)
		case "2":
			err = c.showStatus(ctx)
		case "3":
			err = c.followLogs(ctx)
		case "4":
			err = c.removeSelected(ctx)
		case "5":
			err = c.removeAll(ctx)
		case "6", "q", "quit":
			return nil
		default:
			fmt.Fprintf(c.out, "unknown option %q\n", strings.TrimSpace(choice))
		}
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
}

func (c *Console) createNode(ctx context.Context) error {
	fmt.Fprint(c.out, "node id: ")
	id, ok := c.readLine()
	if !ok {
		return nil
	}
	ctx = trace.WithID(ctx, trace.NewID())

	handle, err := c.lifecycle.Create(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "node %s is up (container %s)\n", handle.ID, handle.ContainerName)
	return nil
}

func (c *Console) showStatus(ctx context.Context) error {
	report, err := c.reporter.ListAll(ctx)
	if err != nil {
		return err
	}
	c.renderReport(report)
	return nil
}

func (c *Console) renderReport(report status.Report) {
	if len(report.Nodes) == 0 {
		fmt.Fprintln(c.out, "no nodes")
		return
	}

	tw := tabwriter.NewWriter(c.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNODE\tSTATE\tUSAGE")
	for i, n := range report.Nodes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, n.ID, n.State, status.FormatUsage(n.Usage))
	}
	tw.Flush()

	if len(report.Failed) > 0 {
		fmt.Fprintf(c.out, "attention: %d node(s) exited: %s\n",
			len(report.Failed), strings.Join(report.Failed, ", "))
	}
}

func (c *Console) followLogs(ctx context.Context) error {
	report, err := c.reporter.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(report.Nodes) == 0 {
		fmt.Fprintln(c.out, "no nodes")
		return nil
	}
	c.renderReport(report)

	fmt.Fprint(c.out, "node number: ")
	line, ok := c.readLine()
	if !ok {
		return nil
	}
	idx, err := parseIndex(line, len(report.Nodes))
	if err != nil {
		return err
	}

	node := report.Nodes[idx]
	fmt.Fprintf(c.out, "following %s (interrupt to stop)\n", node.ID)
	return c.logs.StreamLogs(ctx, node.ContainerName, c.out)
}

func (c *Console) removeSelected(ctx context.Context) error {
	report, err := c.reporter.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(report.Nodes) == 0 {
		fmt.Fprintln(c.out, "no nodes")
		return nil
	}
	c.renderReport(report)

	fmt.Fprint(c.out, "node numbers to remove (e.g. 1,3): ")
	line, ok := c.readLine()
	if !ok {
		return nil
	}
	indices, err := parseIndexList(line, len(report.Nodes))
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(indices))
	for _, idx := range indices {
		ids = append(ids, report.Nodes[idx].ID)
	}

	ctx = trace.WithID(ctx, trace.NewID())
	c.reportOutcomes(c.lifecycle.BatchTeardown(ctx, ids))
	return nil
}

func (c *Console) removeAll(ctx context.Context) error {
	fmt.Fprint(c.out, "remove ALL nodes, their logs and cleanup entries? type 'yes' to confirm: ")
	answer, ok := c.readLine()
	if !ok {
		return nil
	}
	if strings.TrimSpace(answer) != "yes" {
		fmt.Fprintln(c.out, "aborted")
		return nil
	}

	ctx = trace.WithID(ctx, trace.NewID())
	outcomes, err := c.lifecycle.TeardownAll(ctx)
	if err != nil {
		return err
	}
	c.reportOutcomes(outcomes)
	return nil
}

func (c *Console) reportOutcomes(outcomes []manager.Outcome) {
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(c.out, "  %s: failed: %v\n", o.ID, o.Err)
		} else {
			fmt.Fprintf(c.out, "  %s: removed\n", o.ID)
		}
	}
	if len(outcomes) == 0 {
		fmt.Fprintln(c.out, "nothing to remove")
	}
}

func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

// parseIndex converts a 1-based menu selection into a 0-based slice index.
func parseIndex(s string, n int) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || idx < 1 || idx > n {
		return 0, fmt.Errorf("invalid selection %q, expected 1-%d", strings.TrimSpace(s), n)
	}
	return idx - 1, nil
}

// parseIndexList parses a comma-separated list of 1-based selections,
// deduplicating while preserving order.
func parseIndexList(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	seen := make(map[int]bool, len(parts))
	indices := make([]int, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		idx, err := parseIndex(p, n)
		if err != nil {
			return nil, err
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		indices = append(indices, idx)
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("no selection")
	}
	return indices, nil
}
