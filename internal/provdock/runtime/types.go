// Package runtime defines shared types for the container engine abstraction.
package runtime

// NodeSpec describes how a node container should be created.
type NodeSpec struct {
	// ID is the node identifier (also the node's credential).
	ID string
	// Image is the container image reference to run.
	Image string
	// Env holds environment variables to inject into the container.
	Env map[string]string
	// Binds are host-to-container bind mounts in "host:container" form.
	// Used to expose the node's log file to host-side tooling.
	Binds []string
	// Labels are extra engine labels to attach to the container.
	Labels map[string]string
}

// NodeHandle identifies a managed node container.
type NodeHandle struct {
	// ID is the logical node id recovered from the naming scheme.
	ID string
	// ContainerID is the engine's container ID.
	ContainerID string
	// ContainerName is the container name derived from the node id.
	ContainerName string
}

// ContainerState classifies a container for lifecycle decisions. The engine
// knows more states (created, paused, removing); everything that is neither
// running nor cleanly gone maps onto these four.
type ContainerState string

const (
	// StateAbsent means no container of that name exists.
	StateAbsent ContainerState = "absent"
	// StateRunning means the container's entry process is alive.
	StateRunning ContainerState = "running"
	// StateExited means the container exists but its entry process ended.
	StateExited ContainerState = "exited"
	// StateUnknown covers transient engine states and inspect failures.
	StateUnknown ContainerState = "unknown"
)

// Usage is a point-in-time resource sample for a running container.
type Usage struct {
	CPUPercent  float64
	MemoryBytes uint64
	// Valid is false when no sample could be taken (container not running,
	// stats call failed). Consumers render such samples as "unavailable".
	Valid bool
}

// Unavailable is the sentinel Usage returned when sampling is not possible.
func Unavailable() Usage {
	return Usage{}
}
