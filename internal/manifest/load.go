package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a scenehost manifest file.
func Load(path string) (Manifest, error) {
	var m Manifest

	// Clean the path to prevent directory traversal attacks
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) // #nosec G304 - Manifest path is trusted (from the embedding host)
	if err != nil {
		return m, fmt.Errorf("failed to read manifest file: %w", err)
	}

	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("failed to parse manifest file: %w", err)
	}

	return m, nil
}
