// Package registry derives the current node set from the container engine's
// own listing. There is deliberately no store and no cache: a node exists
// exactly when its container does, so the registry and the engine can never
// disagree.
package registry

import (
	"context"

	"github.com/ltoma/provdock/internal/provdock/naming"
	"github.com/ltoma/provdock/internal/provdock/runtime"
)

// List enumerates managed node containers in the order the engine reports
// them, dropping anything whose name does not follow the naming scheme
// (e.g. a container someone hand-labelled).
func List(ctx context.Context, rt runtime.Runtime) ([]runtime.NodeHandle, error) {
	handles, err := rt.List(ctx)
	if err != nil {
		return nil, err
	}
	nodes := handles[:0]
	for _, h := range handles {
		if h.ContainerName != naming.ContainerName(h.ID) {
			continue
		}
		nodes = append(nodes, h)
	}
	return nodes, nil
}

// IDs returns just the node ids, in listing order.
func IDs(ctx context.Context, rt runtime.Runtime) ([]string, error) {
	nodes, err := List(ctx, rt)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids, nil
}
