package trace

import (
	"context"
	"strings"
	"testing"
)

func TestNewIDUnique(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Fatalf("two generated IDs collide: %s", a)
	}
	if !strings.HasPrefix(a, "op_") {
		t.Errorf("ID %q missing op_ prefix", a)
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	if got := FromContext(ctx); got != "" {
		t.Errorf("FromContext(empty) = %q, want empty", got)
	}

	id := NewID()
	ctx = WithID(ctx, id)
	if got := FromContext(ctx); got != id {
		t.Errorf("FromContext = %q, want %q", got, id)
	}
}
