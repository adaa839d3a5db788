// Package telemetry provides toolset adapters panels use to fetch raw
// telemetry data.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
)

// StaticToolset serves canned telemetry keyed by operation name. It backs
// demos, dry runs, and tests; real deployments plug in live backends behind
// the same port.
type StaticToolset struct {
	data map[string]string
}

// NewStatic creates a toolset over an in-memory operation map.
func NewStatic(data map[string]string) *StaticToolset {
	if data == nil {
		data = make(map[string]string)
	}
	return &StaticToolset{data: data}
}

// NewStaticFromDir loads one operation per file from dir. The file name maps
// to the operation: "trace.slowest.txt" serves operation "trace.slowest".
func NewStaticFromDir(dir string) (*StaticToolset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading telemetry directory: %w", err)
	}

	data := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		payload, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		data[name] = string(payload)
	}
	return &StaticToolset{data: data}, nil
}

// Operations returns the served operation names, sorted.
func (t *StaticToolset) Operations() []string {
	ops := make([]string, 0, len(t.data))
	for op := range t.data {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// Invoke returns the canned payload for an operation.
func (t *StaticToolset) Invoke(ctx context.Context, op string, args map[string]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	out, ok := t.data[op]
	if !ok {
		return "", core.ErrTool(core.CodeOperationUnknown, "unknown operation: "+op)
	}
	return out, nil
}
