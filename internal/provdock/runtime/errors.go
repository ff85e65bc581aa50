package runtime

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that the target container, image or file does not
// exist. Removal-style operations treat it as success; everything else
// surfaces it.
var ErrNotFound = errors.New("not found")

// BuildError reports a failed node image build. Output carries the tail of
// the engine's build log so the operator sees the actual compiler/apt/etc.
// diagnostic, not just "build failed".
type BuildError struct {
	Image  string
	Output string
	Err    error
}

func (e *BuildError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("build image %s: %v\n%s", e.Image, e.Err, e.Output)
	}
	return fmt.Sprintf("build image %s: %v", e.Image, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }
