package doctor

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// LoginHostCheck inspects ~/.ssh/config for the shared login host. A
// matching stanza is not required (the default address is a plain FQDN),
// but when one exists it confirms the name resolves to something the
// user's SSH setup knows about.
type LoginHostCheck struct {
	Host string

	// ConfigPath overrides the ssh config location. Empty means
	// ~/.ssh/config.
	ConfigPath string
}

func (c *LoginHostCheck) Name() string     { return "login_host" }
func (c *LoginHostCheck) Category() string { return "SSH" }

func (c *LoginHostCheck) Run() CheckResult {
	path := c.ConfigPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return CheckResult{
				Name:       c.Name(),
				Status:     StatusWarn,
				Message:    "Cannot determine home directory",
				Suggestion: "Check HOME environment variable",
			}
		}
		path = filepath.Join(home, ".ssh", "config")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		// No ssh config at all; a bare FQDN still works.
		return c.fallback()
	}

	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "Couldn't parse " + path,
			Suggestion: "Check the SSH config syntax",
		}
	}

	if hostname, _ := cfg.Get(c.Host, "HostName"); hostname != "" {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: c.Host + " resolves to " + hostname + " via " + path,
		}
	}

	return c.fallback()
}

// fallback passes when the configured name is already fully qualified.
func (c *LoginHostCheck) fallback() CheckResult {
	if strings.Contains(c.Host, ".") {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: c.Host + " (no ssh config stanza; using the name directly)",
		}
	}

	return CheckResult{
		Name:       c.Name(),
		Status:     StatusWarn,
		Message:    c.Host + " is not in ~/.ssh/config and is not fully qualified",
		Suggestion: "Add a Host stanza for it, or set login_host to an FQDN",
	}
}
