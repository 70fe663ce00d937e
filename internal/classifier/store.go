package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveModel writes the model weights as JSON under dir and returns the file
// path recorded on the model version row.
func SaveModel(dir string, m *Model) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create model dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("model_%s.json", m.Version))
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal model: %w", err)
	}

	// Write via a temp file so a crash never leaves a torn model behind.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write model file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to finalize model file: %w", err)
	}
	return path, nil
}

// LoadModel reads model weights back from disk.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model file %s: %w", path, err)
	}
	return &m, nil
}
