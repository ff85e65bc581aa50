package cli

import (
	"context"
	"fmt"

	"github.com/ltoma/provdock/internal/provdock/manager"
	"github.com/ltoma/provdock/internal/provdock/profile"
	"github.com/ltoma/provdock/internal/provdock/runtime"
	"github.com/ltoma/provdock/internal/provdock/runtime/docker"
	"github.com/ltoma/provdock/internal/provdock/sched/crontab"
	"github.com/ltoma/provdock/internal/provdock/status"
)

// deps bundles the constructed collaborators for one command invocation.
type deps struct {
	profile  *profile.Profile
	runtime  runtime.Runtime
	manager  *manager.Manager
	reporter *status.Reporter
}

// buildDeps loads the profile and constructs the real collaborators. The
// scheduler capability check happens once here, not per operation.
func buildDeps(ctx context.Context) (*deps, error) {
	p, err := profile.Load(profilePath)
	if err != nil {
		return nil, err
	}

	rt, err := docker.New(p.Image)
	if err != nil {
		return nil, fmt.Errorf("container engine: %w", err)
	}

	sc := crontab.New()
	if err := sc.Available(ctx); err != nil {
		return nil, err
	}

	return &deps{
		profile:  p,
		runtime:  rt,
		manager:  manager.New(rt, sc, p),
		reporter: status.NewReporter(rt),
	}, nil
}
