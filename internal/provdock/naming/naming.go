// Package naming defines the deterministic mapping between a node identifier
// and the names of the artifacts derived from it: the container name, the
// host-side log file path, and the cleanup schedule entry name.
//
// The mapping is the only registry this system has. A node exists exactly when
// a container whose name matches ContainerName(id) exists, so every function
// here must stay injective for distinct valid ids.
package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// ContainerPrefix is prepended to every managed container name.
	ContainerPrefix = "provdock-node"

	// LogFilePrefix is prepended to every per-node log file name.
	LogFilePrefix = "prover"

	// scheduleEntryPrefix keys the recurring log-cleanup entry for a node.
	scheduleEntryPrefix = "cleanup"

	// MaxIDLength bounds operator-supplied ids. Derived names feed into
	// container names, file paths and crontab lines, all of which have
	// practical length limits of their own.
	MaxIDLength = 64
)

// ErrInvalidID is wrapped by every ValidateID failure.
var ErrInvalidID = fmt.Errorf("invalid node id")

// ValidateID checks an operator-supplied node id. Ids end up verbatim in
// container names, host file paths and scheduled shell commands, so the
// allowed alphabet is strict: ASCII letters, digits, '.', '_' and '-', not
// starting with a separator character.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("%w: %q exceeds %d characters", ErrInvalidID, id, MaxIDLength)
	}
	if id[0] == '.' || id[0] == '-' || id[0] == '_' {
		return fmt.Errorf("%w: %q starts with %q", ErrInvalidID, id, string(id[0]))
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '_' || r == '-':
		default:
			return fmt.Errorf("%w: %q contains disallowed character %q", ErrInvalidID, id, string(r))
		}
	}
	return nil
}

// ContainerName returns the container name for a node id.
func ContainerName(id string) string {
	return ContainerPrefix + "-" + id
}

// IDFromContainerName recovers the node id from a managed container name.
// Returns false for names that do not follow the scheme.
func IDFromContainerName(name string) (string, bool) {
	id, ok := strings.CutPrefix(name, ContainerPrefix+"-")
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// LogPath returns the host-side log file path for a node id.
func LogPath(logDir, id string) string {
	return filepath.Join(logDir, LogFilePrefix+"-"+id+".log")
}

// ScheduleEntryName returns the name of the recurring log-cleanup entry
// installed for a node.
func ScheduleEntryName(id string) string {
	return scheduleEntryPrefix + "-" + id
}
