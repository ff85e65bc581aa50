// Package crontab implements sched.Scheduler on top of the host user's
// crontab(1).
//
// Each managed entry occupies two adjacent lines: a marker comment carrying
// the entry name, then the cron line itself:
//
//	# provdock:cleanup-abc123
//	0 0 * * * rm -f /var/log/provdock/prover-abc123.log
//
// Install and remove are keyed on the marker, so both are idempotent and
// never touch lines the operator put there by hand.
package crontab

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ltoma/provdock/internal/provdock/sched"
)

const markerPrefix = "# provdock:"

// Scheduler drives the host crontab binary.
type Scheduler struct {
	// binary is the crontab executable name, overridable for tests.
	binary string
}

// New returns a crontab-backed Scheduler.
func New() *Scheduler {
	return &Scheduler{binary: "crontab"}
}

// Available checks that the crontab binary is on PATH.
func (s *Scheduler) Available(context.Context) error {
	if _, err := exec.LookPath(s.binary); err != nil {
		return fmt.Errorf("scheduling facility unavailable: %w", err)
	}
	return nil
}

// InstallRecurring installs entry into the user's crontab, replacing any
// prior entry of the same name.
func (s *Scheduler) InstallRecurring(ctx context.Context, entry sched.Entry) error {
	if err := sched.ValidateExpression(entry.Schedule); err != nil {
		return fmt.Errorf("install %s: %w", entry.Name, err)
	}
	current, err := s.read(ctx)
	if err != nil {
		return fmt.Errorf("install %s: %w", entry.Name, err)
	}
	if err := s.write(ctx, upsert(current, entry)); err != nil {
		return fmt.Errorf("install %s: %w", entry.Name, err)
	}
	return nil
}

// RemoveEntry removes the named entry. A missing entry is a successful no-op
// and does not rewrite the crontab at all.
func (s *Scheduler) RemoveEntry(ctx context.Context, name string) error {
	current, err := s.read(ctx)
	if err != nil {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	next, found := remove(current, name)
	if !found {
		return nil
	}
	if err := s.write(ctx, next); err != nil {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

// read returns the current crontab contents. An empty crontab ("no crontab
// for user", exit status 1 with empty stdout) reads as "".
func (s *Scheduler) read(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, s.binary, "-l")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stdout.Len() == 0 {
			return "", nil
		}
		return "", fmt.Errorf("crontab -l: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// write replaces the user's crontab wholesale.
func (s *Scheduler) write(ctx context.Context, content string) error {
	cmd := exec.CommandContext(ctx, s.binary, "-")
	cmd.Stdin = strings.NewReader(content)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("crontab -: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// --- pure crontab text manipulation ---

func marker(name string) string {
	return markerPrefix + name
}

// upsert returns content with entry's marker block replacing any existing
// block of the same name, or appended at the end.
func upsert(content string, entry sched.Entry) string {
	stripped, _ := remove(content, entry.Name)
	var b strings.Builder
	b.WriteString(stripped)
	if stripped != "" && !strings.HasSuffix(stripped, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(marker(entry.Name))
	b.WriteByte('\n')
	b.WriteString(entry.Schedule)
	b.WriteByte(' ')
	b.WriteString(entry.Command)
	b.WriteByte('\n')
	return b.String()
}

// remove returns content without the named marker block, and whether the
// block was present. The line immediately following the marker is dropped
// with it.
func remove(content, name string) (string, bool) {
	if content == "" {
		return "", false
	}
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	found := false
	for i := 0; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == marker(name) {
			found = true
			i++ // skip the cron line belonging to the marker
			continue
		}
		kept = append(kept, lines[i])
	}
	if !found {
		return content, false
	}
	out := strings.Join(kept, "\n")
	return out, true
}
