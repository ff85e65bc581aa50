// Package sched defines the façade over the host's periodic-task facility.
// The core uses it for exactly one thing: a per-node recurring entry that
// truncates the node's log file.
package sched

import "context"

// Entry is one recurring scheduled task, keyed by Name.
type Entry struct {
	// Name identifies the entry for install/remove. One entry per node.
	Name string
	// Schedule is a standard 5-field cron expression.
	Schedule string
	// Command is the shell command the facility runs on each tick.
	Command string
}

// Scheduler abstracts the host scheduling facility (crontab locally;
// substitutable with a fake in tests).
type Scheduler interface {
	// Available reports whether the facility can be used at all. Called
	// once at startup, not on every operation.
	Available(ctx context.Context) error

	// InstallRecurring installs entry, replacing any prior entry with the
	// same name. Idempotent.
	InstallRecurring(ctx context.Context, entry Entry) error

	// RemoveEntry removes the named entry. Removing an entry that does not
	// exist is a successful no-op.
	RemoveEntry(ctx context.Context, name string) error
}

// DailyCleanupSchedule is the default cadence for per-node log cleanup.
const DailyCleanupSchedule = "0 0 * * *"
