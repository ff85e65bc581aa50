// Package profile defines the deploy profile: the handful of host-side
// settings the console needs to run nodes (image tag, log directory, cleanup
// cadence).
//
// The profile is a small versioned YAML file. Every field has a default, so
// running without a profile file works; environment variables override file
// values for one-off changes.
package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ltoma/provdock/common/environment"
	"github.com/ltoma/provdock/internal/provdock/sched"
)

// SpecVersion is the API version string required in every profile file.
const SpecVersion = "provdock/v1"

// Defaults.
const (
	DefaultImage           = "provdock/prover-node:latest"
	DefaultLogDir          = "/var/log/provdock"
	DefaultCleanupSchedule = sched.DailyCleanupSchedule
)

// Environment override variables.
const (
	EnvImage           = "PROVDOCK_IMAGE"
	EnvLogDir          = "PROVDOCK_LOG_DIR"
	EnvCleanupSchedule = "PROVDOCK_CLEANUP_SCHEDULE"
)

// Profile is the root type for a deploy profile.
type Profile struct {
	// APIVersion must be "provdock/v1".
	APIVersion string `yaml:"apiVersion"`

	// Image is the node container image tag to build and run.
	Image string `yaml:"image,omitempty"`

	// LogDir is the host directory holding one log file per node.
	LogDir string `yaml:"logDir,omitempty"`

	// CleanupSchedule is the cron cadence of the per-node log cleanup
	// entry.
	CleanupSchedule string `yaml:"cleanupSchedule,omitempty"`
}

// Default returns a profile with every field at its default value.
func Default() *Profile {
	return &Profile{
		APIVersion:      SpecVersion,
		Image:           DefaultImage,
		LogDir:          DefaultLogDir,
		CleanupSchedule: DefaultCleanupSchedule,
	}
}

// Load reads the profile file at path, applies defaults and environment
// overrides, and validates the result. A missing file is not an error: the
// defaults (plus overrides) apply.
func Load(path string) (*Profile, error) {
	p := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// fine, defaults apply
	case err != nil:
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	default:
		parsed, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", path, err)
		}
		p = parsed
	}

	p.Image = environment.StringOr(EnvImage, p.Image)
	p.LogDir = environment.StringOr(EnvLogDir, p.LogDir)
	p.CleanupSchedule = environment.StringOr(EnvCleanupSchedule, p.CleanupSchedule)

	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse decodes a profile YAML document and fills unset fields with
// defaults. It does not validate; Load does that after applying overrides.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	d := Default()
	if p.Image == "" {
		p.Image = d.Image
	}
	if p.LogDir == "" {
		p.LogDir = d.LogDir
	}
	if p.CleanupSchedule == "" {
		p.CleanupSchedule = d.CleanupSchedule
	}
	return &p, nil
}

// Validate checks a profile for structural correctness.
func Validate(p *Profile) error {
	if p == nil {
		return fmt.Errorf("profile must not be nil")
	}
	if p.APIVersion != SpecVersion {
		return fmt.Errorf("apiVersion must be %q, got %q", SpecVersion, p.APIVersion)
	}
	if strings.TrimSpace(p.Image) == "" {
		return fmt.Errorf("image must not be empty")
	}
	if !filepath.IsAbs(p.LogDir) {
		return fmt.Errorf("logDir must be an absolute path, got %q", p.LogDir)
	}
	if err := sched.ValidateExpression(p.CleanupSchedule); err != nil {
		return fmt.Errorf("cleanupSchedule: %w", err)
	}
	return nil
}
