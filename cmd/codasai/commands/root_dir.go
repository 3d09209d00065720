package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/codasai/codasai/internal/config"
)

// findGuideRoot walks up from start looking for a .codasai directory,
// the same way git locates the nearest enclosing repository.
func findGuideRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		if info, err := os.Stat(filepath.Join(dir, config.Dir)); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s directory found in %s or any parent", config.Dir, start)
		}
		dir = parent
	}
}
