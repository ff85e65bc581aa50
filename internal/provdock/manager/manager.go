// Package manager implements the node lifecycle: create, teardown, and the
// batch teardown variants. It composes the container runtime, the host
// scheduler and the naming scheme, and owns the idempotency rules: which
// collaborator failures are fatal and which are tolerated.
package manager

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ltoma/provdock/common/trace"
	"github.com/ltoma/provdock/internal/provdock/naming"
	"github.com/ltoma/provdock/internal/provdock/profile"
	"github.com/ltoma/provdock/internal/provdock/registry"
	"github.com/ltoma/provdock/internal/provdock/runtime"
	"github.com/ltoma/provdock/internal/provdock/sched"
)

// ErrInvalidID rejects an empty or unsafe node id before any collaborator
// call is made.
var ErrInvalidID = naming.ErrInvalidID

// Outcome is the per-id result of a batch teardown.
type Outcome struct {
	ID  string
	Err error
}

// Manager drives node lifecycle operations. Collaborators are injected so
// tests can substitute fakes.
type Manager struct {
	runtime runtime.Runtime
	sched   sched.Scheduler
	profile *profile.Profile
}

// New creates a Manager.
func New(rt runtime.Runtime, s sched.Scheduler, p *profile.Profile) *Manager {
	return &Manager{runtime: rt, sched: s, profile: p}
}

// Create provisions and starts the node with the given id. An existing node
// of the same id is replaced in place, never duplicated.
//
// Ordering is infrastructure first, scheduling last: the image is ensured,
// any stale container is removed, the log file is created, the container is
// started, and only then is the recurring log-cleanup entry installed. A
// failed start therefore never orphans a cleanup entry with nothing to clean.
func (m *Manager) Create(ctx context.Context, id string) (runtime.NodeHandle, error) {
	if err := naming.ValidateID(id); err != nil {
		return runtime.NodeHandle{}, err
	}

	log := slog.With("node", id, "trace", trace.FromContext(ctx))

	image, err := m.runtime.EnsureImage(ctx)
	if err != nil {
		return runtime.NodeHandle{}, err
	}

	containerName := naming.ContainerName(id)
	if err := m.runtime.ForceRemove(ctx, containerName); err != nil {
		return runtime.NodeHandle{}, fmt.Errorf("replace node %s: %w", id, err)
	}

	logPath := naming.LogPath(m.profile.LogDir, id)
	if err := ensureLogFile(logPath); err != nil {
		return runtime.NodeHandle{}, fmt.Errorf("create node %s: %w", id, err)
	}

	handle, err := m.runtime.CreateAndStart(ctx, runtime.NodeSpec{
		ID:    id,
		Image: image,
		Env:   map[string]string{runtime.CredentialEnv: id},
		Binds: []string{logPath + ":" + runtime.ContainerLogPath},
	})
	if err != nil {
		return runtime.NodeHandle{}, err
	}
	log.Info("node container started", "container", handle.ContainerName)

	entry := sched.Entry{
		Name:     naming.ScheduleEntryName(id),
		Schedule: m.profile.CleanupSchedule,
		Command:  "rm -f " + logPath,
	}
	if err := m.sched.InstallRecurring(ctx, entry); err != nil {
		// The node is up; only housekeeping failed. Surface it, but do
		// not tear the node back down.
		return handle, fmt.Errorf("node %s started, but installing log cleanup failed: %w", id, err)
	}
	log.Info("log cleanup scheduled", "entry", entry.Name, "schedule", entry.Schedule)

	return handle, nil
}

// Teardown removes the node's container, log file and cleanup entry. Each
// step tolerates an absent target, so tearing down a partially created or
// already-removed node succeeds. A real collaborator failure stops the pass
// and is returned.
func (m *Manager) Teardown(ctx context.Context, id string) error {
	if err := naming.ValidateID(id); err != nil {
		return err
	}

	if err := m.runtime.ForceRemove(ctx, naming.ContainerName(id)); err != nil {
		return fmt.Errorf("teardown %s: %w", id, err)
	}

	logPath := naming.LogPath(m.profile.LogDir, id)
	if err := os.Remove(logPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("teardown %s: remove log: %w", id, err)
	}

	if err := m.sched.RemoveEntry(ctx, naming.ScheduleEntryName(id)); err != nil {
		return fmt.Errorf("teardown %s: %w", id, err)
	}

	slog.Info("node removed", "node", id, "trace", trace.FromContext(ctx))
	return nil
}

// BatchTeardown tears down each id independently. One id's failure does not
// stop the rest; callers get one outcome per id, in input order.
func (m *Manager) BatchTeardown(ctx context.Context, ids []string) []Outcome {
	outcomes := make([]Outcome, 0, len(ids))
	for _, id := range ids {
		outcomes = append(outcomes, Outcome{ID: id, Err: m.Teardown(ctx, id)})
	}
	return outcomes
}

// TeardownAll tears down every node in the derived registry. Confirmation is
// the caller's job; this method does not ask.
func (m *Manager) TeardownAll(ctx context.Context) ([]Outcome, error) {
	ids, err := registry.IDs(ctx, m.runtime)
	if err != nil {
		return nil, fmt.Errorf("teardown all: %w", err)
	}
	return m.BatchTeardown(ctx, ids), nil
}

// ensureLogFile creates the node's host-side log file (and its directory)
// with fixed permissions. An existing file is left as-is.
func ensureLogFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	return f.Close()
}
