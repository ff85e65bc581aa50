package naming

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	valid := []string{"abc123", "node-7", "a", "prover.eu-west", "X_9", strings.Repeat("a", MaxIDLength)}
	for _, id := range valid {
		if err := ValidateID(id); err != nil {
			t.Errorf("ValidateID(%q) = %v, want nil", id, err)
		}
	}

	invalid := []string{
		"",
		"   ",
		"-abc",
		".hidden",
		"_x",
		"a/b",
		"a b",
		"a;rm -rf /",
		"ä",
		strings.Repeat("a", MaxIDLength+1),
	}
	for _, id := range invalid {
		err := ValidateID(id)
		if err == nil {
			t.Errorf("ValidateID(%q) = nil, want error", id)
			continue
		}
		if !errors.Is(err, ErrInvalidID) {
			t.Errorf("ValidateID(%q) = %v, want ErrInvalidID", id, err)
		}
	}
}

func TestDerivedNamesAreDeterministicAndDistinct(t *testing.T) {
	ids := []string{"a", "b", "ab", "a-b", "node1", "node2"}

	seenContainers := make(map[string]string)
	seenLogs := make(map[string]string)
	for _, id := range ids {
		cn := ContainerName(id)
		if cn != ContainerName(id) {
			t.Fatalf("ContainerName(%q) not deterministic", id)
		}
		if prev, dup := seenContainers[cn]; dup {
			t.Errorf("ContainerName collision: %q and %q both map to %q", prev, id, cn)
		}
		seenContainers[cn] = id

		lp := LogPath("/var/log/provdock", id)
		if prev, dup := seenLogs[lp]; dup {
			t.Errorf("LogPath collision: %q and %q both map to %q", prev, id, lp)
		}
		seenLogs[lp] = id
	}
}

func TestContainerNameRoundTrip(t *testing.T) {
	for _, id := range []string{"abc123", "x", "node-1.eu"} {
		got, ok := IDFromContainerName(ContainerName(id))
		if !ok || got != id {
			t.Errorf("IDFromContainerName(ContainerName(%q)) = %q, %v", id, got, ok)
		}
	}

	for _, name := range []string{"", "provdock-node", "provdock-node-", "other-thing", "prover-x"} {
		if id, ok := IDFromContainerName(name); ok {
			t.Errorf("IDFromContainerName(%q) = %q, want no match", name, id)
		}
	}
}

func TestLogPath(t *testing.T) {
	got := LogPath("/var/log/provdock", "abc123")
	want := "/var/log/provdock/prover-abc123.log"
	if got != want {
		t.Errorf("LogPath = %q, want %q", got, want)
	}
}

func TestScheduleEntryName(t *testing.T) {
	if got := ScheduleEntryName("abc123"); got != "cleanup-abc123" {
		t.Errorf("ScheduleEntryName = %q, want cleanup-abc123", got)
	}
}
