package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/oxcsml/zizkeys/internal/config"
	"github.com/oxcsml/zizkeys/internal/errors"
	"github.com/oxcsml/zizkeys/internal/provision"
	"github.com/oxcsml/zizkeys/internal/slurm"
	"github.com/oxcsml/zizkeys/internal/ui"
	"golang.org/x/term"
)

// provisionCommand implements the provision command logic.
func provisionCommand(nodesFlag string, dryRun bool) error {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	nodes, err := parseNodes(nodesFlag)
	if err != nil {
		return err
	}

	// ssh-copy-id prompts for a password on the controlling terminal;
	// warn (but don't stop) when stdin isn't one.
	if !dryRun && !term.IsTerminal(int(os.Stdin.Fd())) {
		warnStyle := lipgloss.NewStyle().Foreground(ui.ColorWarning)
		fmt.Fprintf(os.Stderr, "%s stdin is not a terminal; the install step's password prompts may fail\n",
			warnStyle.Render(ui.SymbolFail))
	}

	client := slurm.NewClient(cfg.Srun.Binary, cfg.Srun.SinfoBinary)
	p := provision.New(cfg, client)

	_, lastExit := p.Run(provision.Options{
		Nodes:  nodes,
		DryRun: dryRun,
	})

	SetExitStatus(lastExit)
	return nil
}

// parseNodes splits and validates a --nodes flag value.
// An empty flag selects all nodes.
func parseNodes(flag string) ([]string, error) {
	if flag == "" {
		return nil, nil
	}

	var nodes []string
	for _, part := range strings.Split(flag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		nodes = append(nodes, part)
	}

	if err := provision.ValidateNodes(nodes); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid --nodes value",
			"Use a comma-separated subset of: "+strings.Join(provision.Nodes, ", "))
	}

	return nodes, nil
}
