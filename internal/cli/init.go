package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/oxcsml/zizkeys/internal/config"
	"github.com/oxcsml/zizkeys/internal/errors"
	"github.com/oxcsml/zizkeys/internal/ui"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

const configHeader = `# zizkeys configuration.
# key_file is the key pair location on each GPU node; the public key is
# installed on login_host by 'zizkeys provision'.
`

// initCommand writes a starter zizkeys.yaml to the current directory.
func initCommand(force bool) error {
	path := filepath.Join(".", config.ConfigFileName)

	if _, err := os.Stat(path); err == nil && !force {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", path),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	cfg.KeyFile = "~/.ssh/id_rsa_ziz"

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to render config",
			"This shouldn't happen - please report this bug!")
	}

	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write "+path,
			"Check directory permissions")
	}

	successStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	fmt.Printf("%s Wrote %s\n", successStyle.Render(ui.SymbolSuccess), path)
	fmt.Println("Edit key_file if you want a different key location, then run 'zizkeys provision'.")

	return nil
}
