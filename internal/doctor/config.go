package doctor

import (
	"github.com/oxcsml/zizkeys/internal/config"
)

// ConfigFileCheck verifies the config file can be found, loaded, and validated.
type ConfigFileCheck struct {
	// Explicit is the --config flag value, if any.
	Explicit string
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return "CONFIG" }

func (c *ConfigFileCheck) Run() CheckResult {
	path, err := config.Find(c.Explicit)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Cannot locate config file",
			Suggestion: err.Error(),
		}
	}
	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No " + config.ConfigFileName + " found; defaults will be used",
			Suggestion: "Run 'zizkeys init' to create one",
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Config file " + path + " failed to load",
			Suggestion: "Check the YAML syntax",
		}
	}
	if err := config.Validate(cfg); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Config file " + path + " is invalid",
			Suggestion: err.Error(),
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Config loaded from " + path,
	}
}

// KeyFileCheck warns when no key path is configured. An empty key path is
// accepted by the provisioner, but the remote tools will fail obscurely.
type KeyFileCheck struct {
	Cfg *config.Config
}

func (c *KeyFileCheck) Name() string     { return "key_file" }
func (c *KeyFileCheck) Category() string { return "CONFIG" }

func (c *KeyFileCheck) Run() CheckResult {
	if c.Cfg == nil || c.Cfg.KeyFile == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "key_file is empty; ssh-keygen will be invoked with an empty path",
			Suggestion: "Set key_file in " + config.ConfigFileName + ", e.g. ~/.ssh/id_rsa_ziz",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "key_file: " + c.Cfg.KeyFile,
	}
}
