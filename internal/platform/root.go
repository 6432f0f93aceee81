package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFileName is the per-project configuration file looked up by
// FindConfig.
const ConfigFileName = "notter.yaml"

// FindConfig recursively looks upwards from startDir for a notter.yaml.
// It returns the file's absolute path, or an error when the filesystem
// root is reached without a hit.
func FindConfig(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no %s found above %s", ConfigFileName, startDir)
}
