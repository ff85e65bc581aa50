// Package status reports the live state of every managed node: run state
// classification plus a best-effort resource sample for running nodes.
package status

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docker/go-units"

	"github.com/ltoma/provdock/internal/provdock/registry"
	"github.com/ltoma/provdock/internal/provdock/runtime"
)

// NodeStatus is one node's entry in a listing.
type NodeStatus struct {
	ID            string
	ContainerName string
	State         runtime.ContainerState
	Usage         runtime.Usage
}

// Report is the result of one full listing pass.
type Report struct {
	// Nodes holds one entry per registered node, in the order the engine
	// listed them.
	Nodes []NodeStatus
	// Failed holds the ids of nodes observed in the exited state, for
	// caller-side highlighting.
	Failed []string
}

// Reporter queries the runtime for node state. Per-node engine failures are
// isolated: a node the engine cannot answer for degrades to unknown instead
// of aborting the whole listing.
type Reporter struct {
	runtime runtime.Runtime
}

// NewReporter creates a Reporter.
func NewReporter(rt runtime.Runtime) *Reporter {
	return &Reporter{runtime: rt}
}

// ListAll enumerates the derived registry and classifies every node. Only a
// failure of the enumeration itself is fatal.
func (r *Reporter) ListAll(ctx context.Context) (Report, error) {
	nodes, err := registry.List(ctx, r.runtime)
	if err != nil {
		return Report{}, fmt.Errorf("list nodes: %w", err)
	}

	report := Report{Nodes: make([]NodeStatus, 0, len(nodes))}
	for _, n := range nodes {
		ns := NodeStatus{ID: n.ID, ContainerName: n.ContainerName}

		state, err := r.runtime.InspectState(ctx, n.ContainerName)
		if err != nil {
			slog.Warn("node state unavailable", "node", n.ID, "err", err)
			state = runtime.StateUnknown
		}
		ns.State = state

		if state == runtime.StateRunning {
			usage, err := r.runtime.SampleUsage(ctx, n.ContainerName)
			if err != nil {
				slog.Warn("usage sample failed", "node", n.ID, "err", err)
				usage = runtime.Unavailable()
			}
			ns.Usage = usage
		}

		if state == runtime.StateExited {
			report.Failed = append(report.Failed, n.ID)
		}
		report.Nodes = append(report.Nodes, ns)
	}
	return report, nil
}

// FormatUsage renders a usage sample for operator display.
func FormatUsage(u runtime.Usage) string {
	if !u.Valid {
		return "unavailable"
	}
	return fmt.Sprintf("%.1f%% cpu, %s mem", u.CPUPercent, units.BytesSize(float64(u.MemoryBytes)))
}
