package stage

import (
	"fmt"
	"os/exec"

	"searchtube/internal/services"
)

// RequireBinary verifies an external tool is resolvable on PATH.
// On failure it returns a services.ErrValidation suitable for stage Prepare methods.
func RequireBinary(name string) (string, error) {
	resolved, err := exec.LookPath(name)
	if err != nil {
		return "", services.Wrap(
			services.ErrValidation, "stage", "resolve binary",
			fmt.Sprintf("%s not found on PATH; install it or adjust the config", name), err)
	}
	return resolved, nil
}
