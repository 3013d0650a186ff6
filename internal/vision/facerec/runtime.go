package facerec

import (
	"errors"
	"fmt"
	"os/exec"
)

func findRuntime(runtime string) (string, error) {
	binPath, err := exec.LookPath(runtime)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("facerec: `%s` not found in PATH: %w", runtime, err)
		}
		return "", fmt.Errorf("facerec: failed to locate binary: %w", err)
	}

	return binPath, nil
}
