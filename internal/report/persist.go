package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteArtifact saves v as pretty-printed JSON under dir with a timestamped
// name, creating dir if needed. It returns the path written.
func WriteArtifact(dir, prefix string, v any, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("report: create artifact dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.json", prefix, at.UTC().Format("20060102-150405"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("report: marshal artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("report: write artifact: %w", err)
	}
	return path, nil
}
