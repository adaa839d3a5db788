package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestStaticToolset_Invoke(t *testing.T) {
	ts := NewStatic(map[string]string{
		"logs.errors": "ERROR payment timeout x42",
	})

	out, err := ts.Invoke(context.Background(), "logs.errors", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ERROR payment timeout x42" {
		t.Fatalf("output = %q", out)
	}

	if _, err := ts.Invoke(context.Background(), "logs.volume", nil); err == nil {
		t.Fatalf("unknown operation must fail")
	}
}

func TestStaticToolset_FromDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "trace.slowest.txt"), []byte("span data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "metrics.cpu.txt"), []byte("cpu 40%"), 0o644); err != nil {
		t.Fatal(err)
	}

	ts, err := NewStaticFromDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ops := ts.Operations()
	if len(ops) != 2 || ops[0] != "metrics.cpu" || ops[1] != "trace.slowest" {
		t.Fatalf("operations = %v", ops)
	}

	out, err := ts.Invoke(context.Background(), "trace.slowest", nil)
	if err != nil || out != "span data" {
		t.Fatalf("invoke = %q, %v", out, err)
	}
}
