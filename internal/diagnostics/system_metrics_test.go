package diagnostics

import (
	"context"
	"testing"
)

func TestCollect(t *testing.T) {
	snap := Collect(context.Background(), "")

	if snap.Timestamp.IsZero() {
		t.Fatalf("snapshot missing timestamp")
	}
	if snap.CPUCount <= 0 {
		t.Fatalf("cpu count = %d", snap.CPUCount)
	}
	if snap.MemTotalMB == 0 {
		t.Fatalf("memory total missing")
	}
}
