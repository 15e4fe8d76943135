package doctor

import (
	"fmt"
	"os/exec"
)

// BinaryCheck verifies an external tool is in PATH.
type BinaryCheck struct {
	// Binary is the executable name to look up.
	Binary string

	// Proxy marks tools that actually run on the compute nodes; a local
	// miss is only a warning because the nodes share the same image.
	Proxy bool

	// Install is the suggestion shown when the binary is missing.
	Install string
}

func (c *BinaryCheck) Name() string     { return "binary_" + c.Binary }
func (c *BinaryCheck) Category() string { return "DEPENDENCIES" }

func (c *BinaryCheck) Run() CheckResult {
	path, err := exec.LookPath(c.Binary)
	if err != nil {
		status := StatusFail
		msg := fmt.Sprintf("%s not found in PATH", c.Binary)
		if c.Proxy {
			status = StatusWarn
			msg = fmt.Sprintf("%s not found locally (runs on the nodes, so this may be fine)", c.Binary)
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     status,
			Message:    msg,
			Suggestion: c.Install,
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s found (%s)", c.Binary, path),
	}
}

// NewDependencyChecks returns the standard tool-availability checks.
func NewDependencyChecks() []Check {
	return []Check{
		&BinaryCheck{Binary: "srun", Install: "Run zizkeys from a cluster submit host"},
		&BinaryCheck{Binary: "sinfo", Install: "Run zizkeys from a cluster submit host"},
		&BinaryCheck{Binary: "ssh-keygen", Proxy: true},
		&BinaryCheck{Binary: "ssh-copy-id", Proxy: true},
	}
}
