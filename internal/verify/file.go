package verify

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/claimcheck/claimcheck/internal/model"
)

// verifyFileExists checks that a claimed file was actually created
func verifyFileExists(value, dir string, _ model.VerifierConfig) model.Outcome {
	if value == "" {
		return fail("No file path provided to verify", map[string]any{
			"error": "missing_path",
		})
	}

	fullPath := value
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(dir, fullPath)
	}
	fullPath = filepath.Clean(fullPath)

	info, err := os.Stat(fullPath)
	if err != nil {
		// Report whether the parent directory exists to aid diagnosis: a
		// missing parent usually means the path was never written at all.
		_, parentErr := os.Stat(filepath.Dir(fullPath))
		return fail(fmt.Sprintf("File does not exist: %s", value), map[string]any{
			"path":          fullPath,
			"parent_exists": parentErr == nil,
			"cwd":           dir,
		})
	}

	if info.IsDir() {
		return fail(fmt.Sprintf("Path exists but is not a file: %s", value), map[string]any{
			"path":         fullPath,
			"is_directory": true,
		})
	}

	return pass(fmt.Sprintf("File exists: %s", value), map[string]any{
		"path":    fullPath,
		"size":    info.Size(),
		"is_file": true,
	})
}
