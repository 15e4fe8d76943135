package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/oxcsml/zizkeys/internal/config"
	"github.com/oxcsml/zizkeys/internal/keys"
	"github.com/oxcsml/zizkeys/internal/provision"
	"github.com/oxcsml/zizkeys/internal/slurm"
	"github.com/oxcsml/zizkeys/internal/ui"
)

// statusCommand inspects each node for a key at the configured path.
func statusCommand(nodesFlag string) error {
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
	if len(nodes) == 0 {
		nodes = provision.Nodes
	}

	client := slurm.NewClient(cfg.Srun.Binary, cfg.Srun.SinfoBinary)
	display := ui.NewStepDisplay(os.Stdout)
	pubPath := cfg.KeyFile + ".pub"

	fmt.Println()
	for _, node := range nodes {
		partition := fmt.Sprintf(cfg.Srun.PartitionFormat, node)
		display.Header(node, partition)

		spinner := ui.NewSpinner("reading " + pubPath)
		spinner.Start()

		res, err := client.Capture(slurm.Job{
			Partition: partition,
			Argv:      []string{"cat", pubPath},
		})
		if err != nil {
			spinner.Fail()
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if res.ExitCode != 0 {
			spinner.Fail()
			display.Muted("no key found")
			continue
		}

		spinner.Success()
		line := bytes.TrimSpace(res.Stdout)
		info, err := keys.Parse(line)
		if err != nil {
			display.Muted("unreadable key: " + err.Error())
			continue
		}
		display.Muted(info.String())
	}
	fmt.Println()

	return nil
}
