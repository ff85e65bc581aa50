// Package docker provides the Docker Engine adapter for running prover node
// containers.
package docker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	dockerclient "github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/ltoma/provdock/internal/provdock/naming"
	"github.com/ltoma/provdock/internal/provdock/runtime"
)

const (
	labelManagedBy = "provdock.managed-by"
	labelNodeID    = "provdock.node-id"
	managedByValue = "provdock"

	// logTail is how far back a fresh log stream starts.
	logTail = "200"
)

// Adapter implements runtime.Runtime against the Docker Engine API.
type Adapter struct {
	client *dockerclient.Client
	image  string
}

// New creates a Docker adapter building and running the given image tag.
// Connects via the DOCKER_HOST env var or the default socket path.
func New(imageTag string) (*Adapter, error) {
	cli, err := dockerclient.NewClientWithOpts(
		dockerclient.FromEnv,
		dockerclient.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	return &Adapter{client: cli, image: imageTag}, nil
}

// EnsureImage builds the embedded node image context if the configured tag is
// not already present. Idempotent: an existing image is reused as-is.
func (a *Adapter) EnsureImage(ctx context.Context) (string, error) {
	images, err := a.client.ImageList(ctx, image.ListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", a.image)),
	})
	if err != nil {
		return "", fmt.Errorf("list images: %w", err)
	}
	if len(images) > 0 {
		return a.image, nil
	}

	buildCtx, err := buildContext()
	if err != nil {
		return "", fmt.Errorf("assemble build context: %w", err)
	}

	resp, err := a.client.ImageBuild(ctx, buildCtx, types.ImageBuildOptions{
		Tags:        []string{a.image},
		Remove:      true,
		ForceRemove: true,
	})
	if err != nil {
		return "", &runtime.BuildError{Image: a.image, Err: err}
	}
	defer resp.Body.Close()

	if tail, err := drainBuildOutput(resp.Body); err != nil {
		return "", &runtime.BuildError{Image: a.image, Output: tail, Err: err}
	}
	return a.image, nil
}

// CreateAndStart creates and starts a node container from spec. A create that
// collides with an existing name fails; callers remove the stale container
// first.
func (a *Adapter) CreateAndStart(ctx context.Context, spec runtime.NodeSpec) (runtime.NodeHandle, error) {
	containerName := naming.ContainerName(spec.ID)

	env := make([]string, 0, len(spec.Env))
	for k, v := range spec.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	labels := map[string]string{
		labelManagedBy: managedByValue,
		labelNodeID:    spec.ID,
	}
	for k, v := range spec.Labels {
		labels[k] = v
	}

	containerCfg := &container.Config{
		Image:  spec.Image,
		Env:    env,
		Labels: labels,
	}

	// No restart policy: a dead prover must show up as "exited" in status
	// listings instead of being silently resurrected.
	hostCfg := &container.HostConfig{
		Binds: spec.Binds,
	}

	resp, err := a.client.ContainerCreate(ctx, containerCfg, hostCfg, nil, nil, containerName)
	if err != nil {
		return runtime.NodeHandle{}, fmt.Errorf("create container %s: %w", containerName, err)
	}

	if err := a.client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		// Best-effort cleanup so a failed start leaves nothing behind.
		_ = a.client.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return runtime.NodeHandle{}, fmt.Errorf("start container %s: %w", containerName, err)
	}

	return runtime.NodeHandle{
		ID:            spec.ID,
		ContainerID:   resp.ID,
		ContainerName: containerName,
	}, nil
}

// ForceRemove removes the named container, running or not. Absent containers
// are a successful no-op.
func (a *Adapter) ForceRemove(ctx context.Context, name string) error {
	err := a.client.ContainerRemove(ctx, name, container.RemoveOptions{Force: true})
	if err != nil && !dockerclient.IsErrNotFound(err) {
		return fmt.Errorf("remove container %s: %w", name, err)
	}
	return nil
}

// InspectState classifies the named container's engine state.
func (a *Adapter) InspectState(ctx context.Context, name string) (runtime.ContainerState, error) {
	inspect, err := a.client.ContainerInspect(ctx, name)
	if err != nil {
		if dockerclient.IsErrNotFound(err) {
			return runtime.StateAbsent, nil
		}
		return runtime.StateUnknown, fmt.Errorf("inspect container %s: %w", name, err)
	}
	if inspect.State == nil {
		return runtime.StateUnknown, nil
	}
	return parseContainerState(inspect.State.Status), nil
}

// SampleUsage takes a one-shot resource sample of the named container.
// Returns the unavailable sentinel (not an error) when the container is gone.
func (a *Adapter) SampleUsage(ctx context.Context, name string) (runtime.Usage, error) {
	resp, err := a.client.ContainerStats(ctx, name, false)
	if err != nil {
		if dockerclient.IsErrNotFound(err) {
			return runtime.Unavailable(), nil
		}
		return runtime.Unavailable(), fmt.Errorf("stats %s: %w", name, err)
	}
	defer resp.Body.Close()

	var stats container.StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return runtime.Unavailable(), fmt.Errorf("decode stats %s: %w", name, err)
	}
	return usageFromStats(stats), nil
}

// StreamLogs follows the container's log output from the current tail until
// ctx is cancelled. The engine multiplexes stdout/stderr into one stream;
// both are demuxed onto out.
func (a *Adapter) StreamLogs(ctx context.Context, name string, out io.Writer) error {
	rc, err := a.client.ContainerLogs(ctx, name, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
		Tail:       logTail,
	})
	if err != nil {
		if dockerclient.IsErrNotFound(err) {
			return fmt.Errorf("logs %s: %w", name, runtime.ErrNotFound)
		}
		return fmt.Errorf("logs %s: %w", name, err)
	}
	defer rc.Close()

	if _, err := stdcopy.StdCopy(out, out, rc); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream logs %s: %w", name, err)
	}
	return nil
}

// List returns all managed node containers in engine order.
func (a *Adapter) List(ctx context.Context) ([]runtime.NodeHandle, error) {
	containers, err := a.client.ContainerList(ctx, container.ListOptions{
		All: true,
		Filters: filters.NewArgs(
			filters.Arg("label", labelManagedBy+"="+managedByValue),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}

	handles := make([]runtime.NodeHandle, 0, len(containers))
	for _, c := range containers {
		name := ""
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}
		id := c.Labels[labelNodeID]
		if id == "" {
			// Label lost somehow; fall back to the naming scheme.
			recovered, ok := naming.IDFromContainerName(name)
			if !ok {
				continue
			}
			id = recovered
		}
		handles = append(handles, runtime.NodeHandle{
			ID:            id,
			ContainerID:   c.ID,
			ContainerName: name,
		})
	}
	return handles, nil
}

// --- helpers ---

func parseContainerState(s string) runtime.ContainerState {
	switch strings.ToLower(s) {
	case "running", "restarting":
		return runtime.StateRunning
	case "exited", "dead", "created":
		return runtime.StateExited
	case "removing":
		return runtime.StateAbsent
	default:
		return runtime.StateUnknown
	}
}

// usageFromStats applies the engine's CPU percentage formula and subtracts
// the page cache from the raw memory figure, matching what `docker stats`
// shows.
func usageFromStats(stats container.StatsResponse) runtime.Usage {
	cpuDelta := float64(stats.CPUStats.CPUUsage.TotalUsage) - float64(stats.PreCPUStats.CPUUsage.TotalUsage)
	sysDelta := float64(stats.CPUStats.SystemUsage) - float64(stats.PreCPUStats.SystemUsage)

	cpuPercent := 0.0
	if sysDelta > 0 && cpuDelta >= 0 {
		cpus := float64(stats.CPUStats.OnlineCPUs)
		if cpus == 0 {
			cpus = float64(len(stats.CPUStats.CPUUsage.PercpuUsage))
		}
		if cpus == 0 {
			cpus = 1
		}
		cpuPercent = cpuDelta / sysDelta * cpus * 100.0
	}

	mem := stats.MemoryStats.Usage
	if cache, ok := stats.MemoryStats.Stats["inactive_file"]; ok && cache < mem {
		mem -= cache
	}

	return runtime.Usage{CPUPercent: cpuPercent, MemoryBytes: mem, Valid: true}
}

// drainBuildOutput consumes the engine's JSON build stream, keeping a short
// tail of plain-text output, and returns that tail plus the build error if
// the stream reports one.
func drainBuildOutput(r io.Reader) (string, error) {
	const tailLines = 20

	type buildMessage struct {
		Stream string `json:"stream"`
		Error  string `json:"error"`
	}

	var tail []string
	dec := json.NewDecoder(r)
	for {
		var msg buildMessage
		if err := dec.Decode(&msg); err != nil {
			if err == io.EOF {
				break
			}
			return strings.Join(tail, ""), fmt.Errorf("read build output: %w", err)
		}
		if msg.Error != "" {
			return strings.Join(tail, ""), fmt.Errorf("%s", msg.Error)
		}
		if msg.Stream == "" {
			continue
		}
		tail = append(tail, msg.Stream)
		if len(tail) > tailLines {
			tail = tail[1:]
		}
	}
	return strings.Join(tail, ""), nil
}
