package status_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ltoma/provdock/internal/provdock/naming"
	"github.com/ltoma/provdock/internal/provdock/runtime"
	"github.com/ltoma/provdock/internal/provdock/status"
)

// fakeRuntime satisfies runtime.Runtime with scriptable states and faults.
type fakeRuntime struct {
	order      []string // container names in listing order
	states     map[string]runtime.ContainerState
	inspectErr map[string]error
	usage      map[string]runtime.Usage
	usageErr   map[string]error
	listErr    error
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		states:     make(map[string]runtime.ContainerState),
		inspectErr: make(map[string]error),
		usage:      make(map[string]runtime.Usage),
		usageErr:   make(map[string]error),
	}
}

func (f *fakeRuntime) add(id string, state runtime.ContainerState) {
	name := naming.ContainerName(id)
	f.order = append(f.order, name)
	f.states[name] = state
}

func (f *fakeRuntime) EnsureImage(context.Context) (string, error) { return "img", nil }

func (f *fakeRuntime) CreateAndStart(context.Context, runtime.NodeSpec) (runtime.NodeHandle, error) {
	return runtime.NodeHandle{}, errors.New("not used")
}

func (f *fakeRuntime) ForceRemove(context.Context, string) error { return nil }

func (f *fakeRuntime) InspectState(_ context.Context, name string) (runtime.ContainerState, error) {
	if err := f.inspectErr[name]; err != nil {
		return runtime.StateUnknown, err
	}
	state, ok := f.states[name]
	if !ok {
		return runtime.StateAbsent, nil
	}
	return state, nil
}

func (f *fakeRuntime) SampleUsage(_ context.Context, name string) (runtime.Usage, error) {
	if err := f.usageErr[name]; err != nil {
		return runtime.Unavailable(), err
	}
	if u, ok := f.usage[name]; ok {
		return u, nil
	}
	return runtime.Usage{CPUPercent: 5, MemoryBytes: 1 << 20, Valid: true}, nil
}

func (f *fakeRuntime) StreamLogs(context.Context, string, io.Writer) error { return nil }

func (f *fakeRuntime) List(context.Context) ([]runtime.NodeHandle, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	handles := make([]runtime.NodeHandle, 0, len(f.order))
	for _, name := range f.order {
		id, _ := naming.IDFromContainerName(name)
		handles = append(handles, runtime.NodeHandle{ID: id, ContainerName: name})
	}
	return handles, nil
}

func TestListAllClassifiesStates(t *testing.T) {
	rt := newFakeRuntime()
	rt.add("up1", runtime.StateRunning)
	rt.add("down1", runtime.StateExited)
	rt.add("up2", runtime.StateRunning)

	report, err := status.NewReporter(rt).ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}

	if len(report.Nodes) != 3 {
		t.Fatalf("%d nodes, want 3", len(report.Nodes))
	}
	// Order follows the engine listing.
	wantIDs := []string{"up1", "down1", "up2"}
	for i, want := range wantIDs {
		if report.Nodes[i].ID != want {
			t.Errorf("Nodes[%d].ID = %q, want %q", i, report.Nodes[i].ID, want)
		}
	}

	for _, ns := range report.Nodes {
		switch ns.State {
		case runtime.StateRunning:
			if !ns.Usage.Valid {
				t.Errorf("running node %s has unavailable usage", ns.ID)
			}
		case runtime.StateExited:
			if ns.Usage.Valid {
				t.Errorf("exited node %s has a usage sample", ns.ID)
			}
		}
	}

	if len(report.Failed) != 1 || report.Failed[0] != "down1" {
		t.Errorf("Failed = %v, want [down1]", report.Failed)
	}
}

func TestListAllIsolatesPerNodeFailures(t *testing.T) {
	rt := newFakeRuntime()
	rt.add("ok", runtime.StateRunning)
	rt.add("broken", runtime.StateRunning)
	rt.inspectErr[naming.ContainerName("broken")] = errors.New("engine timeout")

	report, err := status.NewReporter(rt).ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(report.Nodes) != 2 {
		t.Fatalf("%d nodes, want 2", len(report.Nodes))
	}

	byID := map[string]status.NodeStatus{}
	for _, ns := range report.Nodes {
		byID[ns.ID] = ns
	}
	if byID["ok"].State != runtime.StateRunning {
		t.Errorf("ok state = %q", byID["ok"].State)
	}
	if byID["broken"].State != runtime.StateUnknown {
		t.Errorf("broken state = %q, want unknown", byID["broken"].State)
	}
}

func TestListAllUsageFailureIsNotFatal(t *testing.T) {
	rt := newFakeRuntime()
	rt.add("up1", runtime.StateRunning)
	rt.usageErr[naming.ContainerName("up1")] = errors.New("stats hiccup")

	report, err := status.NewReporter(rt).ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if report.Nodes[0].Usage.Valid {
		t.Error("usage should be unavailable after sampling failure")
	}
}

func TestListAllEnumerationFailureIsFatal(t *testing.T) {
	rt := newFakeRuntime()
	rt.listErr = errors.New("engine unreachable")

	if _, err := status.NewReporter(rt).ListAll(context.Background()); err == nil {
		t.Fatal("want error when enumeration fails")
	}
}

func TestFormatUsage(t *testing.T) {
	if got := status.FormatUsage(runtime.Unavailable()); got != "unavailable" {
		t.Errorf("FormatUsage(unavailable) = %q", got)
	}
	got := status.FormatUsage(runtime.Usage{CPUPercent: 42.3, MemoryBytes: 512 * 1024 * 1024, Valid: true})
	if !strings.Contains(got, "42.3%") || !strings.Contains(got, "512MiB") {
		t.Errorf("FormatUsage = %q", got)
	}
}
