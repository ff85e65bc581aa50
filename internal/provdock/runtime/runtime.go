// Package runtime defines the façade over the container engine used to run
// prover node containers.
package runtime

import (
	"context"
	"io"
)

// Runtime abstracts the container engine (Docker locally; substitutable with
// a fake in tests). Implementations must keep ForceRemove idempotent and must
// report an absent container as StateAbsent rather than an error.
type Runtime interface {
	// EnsureImage makes sure the node image exists, building it when
	// missing. Returns the image reference to start containers from.
	// A failed build returns a *BuildError carrying the build output tail.
	EnsureImage(ctx context.Context) (string, error)

	// CreateAndStart creates and starts a node container. It does not
	// replace an existing container of the same name; callers remove the
	// old one first.
	CreateAndStart(ctx context.Context, spec NodeSpec) (NodeHandle, error)

	// ForceRemove removes the named container, running or not. Removing a
	// container that does not exist is a successful no-op.
	ForceRemove(ctx context.Context, name string) error

	// InspectState classifies the named container's current engine state.
	InspectState(ctx context.Context, name string) (ContainerState, error)

	// SampleUsage takes a one-shot resource usage sample. Only meaningful
	// for running containers; otherwise the returned Usage is unavailable.
	SampleUsage(ctx context.Context, name string) (Usage, error)

	// StreamLogs follows the container's log output, writing lines to out
	// until ctx is cancelled or the stream ends. Streams always start from
	// the current tail; they are not resumable.
	StreamLogs(ctx context.Context, name string, out io.Writer) error

	// List returns all managed node containers, running or not, in the
	// order the engine reports them.
	List(ctx context.Context) ([]NodeHandle, error)
}
