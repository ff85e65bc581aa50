package docker

// Unit tests for the pure helpers: state classification, the stats → Usage
// conversion, build-output draining and the embedded build context.

import (
	"archive/tar"
	"io"
	"strings"
	"testing"

	"github.com/docker/docker/api/types/container"

	"github.com/ltoma/provdock/internal/provdock/runtime"
)

func TestParseContainerState(t *testing.T) {
	cases := []struct {
		input string
		want  runtime.ContainerState
	}{
		{"running", runtime.StateRunning},
		{"RUNNING", runtime.StateRunning}, // case-insensitive
		{"restarting", runtime.StateRunning},
		{"exited", runtime.StateExited},
		{"dead", runtime.StateExited},
		{"created", runtime.StateExited},
		{"removing", runtime.StateAbsent},
		{"paused", runtime.StateUnknown},
		{"", runtime.StateUnknown},
	}

	for _, tc := range cases {
		got := parseContainerState(tc.input)
		if got != tc.want {
			t.Errorf("parseContainerState(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestUsageFromStats(t *testing.T) {
	var stats container.StatsResponse
	stats.CPUStats.CPUUsage.TotalUsage = 400
	stats.PreCPUStats.CPUUsage.TotalUsage = 200
	stats.CPUStats.SystemUsage = 2000
	stats.PreCPUStats.SystemUsage = 1000
	stats.CPUStats.OnlineCPUs = 4
	stats.MemoryStats.Usage = 1024 * 1024
	stats.MemoryStats.Stats = map[string]uint64{"inactive_file": 1024}

	u := usageFromStats(stats)
	if !u.Valid {
		t.Fatal("usage not valid")
	}
	// (400-200)/(2000-1000) * 4 cpus * 100 = 80%
	if u.CPUPercent != 80.0 {
		t.Errorf("CPUPercent = %v, want 80", u.CPUPercent)
	}
	if u.MemoryBytes != 1024*1024-1024 {
		t.Errorf("MemoryBytes = %d, want %d", u.MemoryBytes, 1024*1024-1024)
	}
}

func TestUsageFromStatsZeroSystemDelta(t *testing.T) {
	var stats container.StatsResponse
	stats.MemoryStats.Usage = 512

	u := usageFromStats(stats)
	if u.CPUPercent != 0 {
		t.Errorf("CPUPercent = %v, want 0 when no system delta", u.CPUPercent)
	}
	if u.MemoryBytes != 512 {
		t.Errorf("MemoryBytes = %d, want 512", u.MemoryBytes)
	}
}

func TestDrainBuildOutput(t *testing.T) {
	stream := `{"stream":"Step 1/3 : FROM ubuntu:24.04\n"}
{"stream":" ---> abc123\n"}
{"stream":"Successfully built abc123\n"}
`
	tail, err := drainBuildOutput(strings.NewReader(stream))
	if err != nil {
		t.Fatalf("drainBuildOutput: %v", err)
	}
	if !strings.Contains(tail, "Successfully built") {
		t.Errorf("tail missing build output: %q", tail)
	}
}

func TestDrainBuildOutputError(t *testing.T) {
	stream := `{"stream":"Step 2/3 : RUN apt-get install nonsense\n"}
{"error":"The command '/bin/sh -c apt-get install nonsense' returned a non-zero code: 100"}
`
	tail, err := drainBuildOutput(strings.NewReader(stream))
	if err == nil {
		t.Fatal("want error from build stream")
	}
	if !strings.Contains(err.Error(), "non-zero code") {
		t.Errorf("error missing engine diagnostic: %v", err)
	}
	if !strings.Contains(tail, "Step 2/3") {
		t.Errorf("tail missing preceding output: %q", tail)
	}
}

func TestBuildContextContainsRecipe(t *testing.T) {
	r, err := buildContext()
	if err != nil {
		t.Fatalf("buildContext: %v", err)
	}

	found := map[string]bool{}
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read tar: %v", err)
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			t.Fatalf("read %s: %v", hdr.Name, err)
		}
		found[hdr.Name] = len(data) > 0
	}

	for _, name := range []string{"Dockerfile", "entrypoint.sh"} {
		if !found[name] {
			t.Errorf("build context missing %s", name)
		}
	}
}
