package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Expand resolves ~ prefixes and ${VAR} references in a path.
// Unset variables expand to the empty string, matching shell behavior.
func Expand(path string) string {
	if path == "" {
		return path
	}

	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.Expand(path, func(name string) string {
		switch name {
		case "HOME":
			home, _ := os.UserHomeDir()
			return home
		default:
			return os.Getenv(name)
		}
	})
}
