package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
)

// LastResultFile is the well-known export name consumed by external tooling.
const LastResultFile = "last_result.json"

// ExportResult atomically writes the result as pretty-printed JSON into the
// state directory. Readers never observe a partially written file.
func ExportResult(stateDir string, result *core.CouncilResult) error {
	if err := os.MkdirAll(stateDir, 0o750); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing result: %w", err)
	}

	path := filepath.Join(stateDir, LastResultFile)
	if err := renameio.WriteFile(path, payload, 0o640); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// LoadExportedResult reads back the last exported result.
func LoadExportedResult(stateDir string) (*core.CouncilResult, error) {
	path := filepath.Join(stateDir, LastResultFile)
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var result core.CouncilResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &result, nil
}
