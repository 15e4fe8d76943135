package doctor

import (
	"fmt"
	"strings"

	"github.com/oxcsml/zizkeys/internal/config"
	"github.com/oxcsml/zizkeys/internal/provision"
)

// PartitionLister is the subset of the slurm client the partitions check needs.
type PartitionLister interface {
	Partitions() ([]string, error)
}

// PartitionsCheck verifies all four node partitions are visible in sinfo.
type PartitionsCheck struct {
	Cfg    *config.Config
	Lister PartitionLister
}

func (c *PartitionsCheck) Name() string     { return "partitions" }
func (c *PartitionsCheck) Category() string { return "SLURM" }

func (c *PartitionsCheck) Run() CheckResult {
	available, err := c.Lister.Partitions()
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Couldn't list partitions",
			Suggestion: err.Error(),
		}
	}

	visible := make(map[string]bool, len(available))
	for _, p := range available {
		visible[p] = true
	}

	var missing []string
	for _, node := range provision.Nodes {
		partition := fmt.Sprintf(c.Cfg.Srun.PartitionFormat, node)
		if !visible[partition] {
			missing = append(missing, partition)
		}
	}

	if len(missing) > 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Partitions not visible in sinfo: " + strings.Join(missing, ", "),
			Suggestion: "Check you are on the right cluster and the nodes are up",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("All %d node partitions visible", len(provision.Nodes)),
	}
}
