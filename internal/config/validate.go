package config

import (
	"fmt"
	"strings"

	"github.com/oxcsml/zizkeys/internal/errors"
)

// validKeyTypes are the key types ssh-keygen accepts that we support.
var validKeyTypes = map[string]bool{
	"rsa":     true,
	"ed25519": true,
	"ecdsa":   true,
}

// Validate checks the config for structural errors.
//
// An empty key_file is intentionally accepted: both remote invocations
// reference the value verbatim, empty or not.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Config version %d is newer than this zizkeys understands (%d)", cfg.Version, CurrentConfigVersion),
			"Update zizkeys, or set version to "+fmt.Sprint(CurrentConfigVersion))
	}

	if err := validatePartitionFormat(cfg.Srun.PartitionFormat); err != nil {
		return err
	}

	if cfg.Srun.Binary == "" {
		return errors.New(errors.ErrConfig,
			"srun.binary must not be empty",
			"Remove the srun section to use the default ('srun')")
	}

	if !validKeyTypes[cfg.Keygen.Type] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown key type: %s", cfg.Keygen.Type),
			"Supported types: rsa, ed25519, ecdsa")
	}

	if cfg.Keygen.Type == "rsa" && cfg.Keygen.Bits < 1024 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("RSA key length %d is too short", cfg.Keygen.Bits),
			"Use at least 1024 bits; the cluster default is 2048")
	}

	if cfg.LoginHost == "" {
		return errors.New(errors.ErrConfig,
			"login_host must not be empty",
			"Remove the login_host line to use the default ("+DefaultLoginHost+")")
	}

	return nil
}

// validatePartitionFormat requires exactly one %s verb and no other verbs.
func validatePartitionFormat(format string) error {
	if format == "" {
		return errors.New(errors.ErrConfig,
			"srun.partition_format must not be empty",
			"Remove the line to use the default ("+DefaultPartitionFormat+")")
	}

	stripped := strings.ReplaceAll(format, "%%", "")
	count := strings.Count(stripped, "%s")
	verbs := strings.Count(stripped, "%")
	if count != 1 || verbs != 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("srun.partition_format needs exactly one %%s verb, got %q", format),
			"Example: "+DefaultPartitionFormat)
	}

	return nil
}
