// Package provision drives SSH key provisioning across the fixed set of
// ziz GPU nodes.
//
// Each node gets two srun jobs, in order: a key-generation job on the
// node's partition, then an interactive ssh-copy-id job that installs the
// public key on the shared login host. Nodes are processed strictly
// sequentially and a failed step never stops the remaining work — the
// loop carries on exactly as the underlying tools would when chained in
// a shell script.
package provision

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/oxcsml/zizkeys/internal/config"
	"github.com/oxcsml/zizkeys/internal/logger"
	"github.com/oxcsml/zizkeys/internal/slurm"
	"github.com/oxcsml/zizkeys/internal/ui"
)

// Nodes is the fixed ordered set of node identifiers.
var Nodes = []string{"1", "2", "3", "4"}

// Step names used in results and display.
const (
	StepKeygen  = "keygen"
	StepInstall = "install"
)

// Options configures a provisioning run.
type Options struct {
	// Nodes restricts the run to a subset, in the given order.
	// Empty means all four nodes.
	Nodes []string

	// DryRun prints the srun command lines without submitting anything.
	DryRun bool
}

// StepResult records the outcome of one submitted job.
type StepResult struct {
	Name     string
	ExitCode int
	Err      error
	Duration time.Duration
	Skipped  bool
}

// OK reports whether the step ran and exited zero.
func (s StepResult) OK() bool {
	return !s.Skipped && s.Err == nil && s.ExitCode == 0
}

// NodeResult records both step outcomes for one node.
type NodeResult struct {
	Node      string
	Partition string
	Keygen    StepResult
	Install   StepResult
}

// Provisioner drives key generation and distribution for the fixed nodes.
type Provisioner struct {
	cfg    *config.Config
	runner slurm.Runner
	out    io.Writer
	errOut io.Writer
	log    logger.Logger
}

// New creates a Provisioner. Output writers default to stdout/stderr.
func New(cfg *config.Config, runner slurm.Runner) *Provisioner {
	return &Provisioner{
		cfg:    cfg,
		runner: runner,
		out:    os.Stdout,
		errOut: os.Stderr,
		log:    logger.NewEnvLogger("[provision]"),
	}
}

// SetOutput redirects the provisioner's streamed job output and status lines.
func (p *Provisioner) SetOutput(out, errOut io.Writer) {
	p.out = out
	p.errOut = errOut
}

// SetLogger overrides the provisioner's logger.
func (p *Provisioner) SetLogger(l logger.Logger) {
	p.log = l
}

// PartitionFor maps a node identifier to its partition name.
func (p *Provisioner) PartitionFor(node string) string {
	return fmt.Sprintf(p.cfg.Srun.PartitionFormat, node)
}

// KeygenJob builds the key-generation job for a node: RSA by default,
// empty passphrase, with "y" fed to stdin so an existing key is
// overwritten without stopping the run.
func (p *Provisioner) KeygenJob(node string) slurm.Job {
	argv := []string{"ssh-keygen", "-t", p.cfg.Keygen.Type}
	if p.cfg.Keygen.Type == "rsa" {
		argv = append(argv, "-b", strconv.Itoa(p.cfg.Keygen.Bits))
	}
	argv = append(argv, "-N", "", "-f", p.cfg.KeyFile)

	return slurm.Job{
		Partition: p.PartitionFor(node),
		Argv:      argv,
		Stdin:     strings.NewReader("y\n"),
	}
}

// InstallJob builds the interactive key-installation job for a node.
// Every node targets the same login host; ssh-copy-id prompts for the
// user's password on the attached terminal.
func (p *Provisioner) InstallJob(node string) slurm.Job {
	return slurm.Job{
		Partition:   p.PartitionFor(node),
		Argv:        []string{"ssh-copy-id", "-i", p.cfg.KeyFile, p.cfg.LoginHost},
		Interactive: true,
	}
}

// ValidateNodes checks that every requested identifier is one of the
// fixed nodes and rejects duplicates.
func ValidateNodes(requested []string) error {
	known := make(map[string]bool, len(Nodes))
	for _, n := range Nodes {
		known[n] = true
	}

	seen := make(map[string]bool, len(requested))
	for _, n := range requested {
		if !known[n] {
			return fmt.Errorf("unknown node %q (valid nodes: %s)", n, strings.Join(Nodes, ", "))
		}
		if seen[n] {
			return fmt.Errorf("node %q given more than once", n)
		}
		seen[n] = true
	}
	return nil
}

// Run executes the provisioning loop and returns the per-node results and
// the exit code of the last submitted job. The returned exit code is what
// the process should exit with, mirroring a shell script's behavior of
// inheriting the status of its final command.
func (p *Provisioner) Run(opts Options) ([]NodeResult, int) {
	nodes := opts.Nodes
	if len(nodes) == 0 {
		nodes = Nodes
	}

	display := ui.NewStepDisplay(p.out)
	lastExit := 0
	results := make([]NodeResult, 0, len(nodes))

	for _, node := range nodes {
		partition := p.PartitionFor(node)
		display.Header(node, partition)

		result := NodeResult{Node: node, Partition: partition}

		result.Keygen = p.runStep(display, StepKeygen, p.KeygenJob(node), opts.DryRun)
		if !result.Keygen.Skipped {
			lastExit = result.Keygen.ExitCode
		}

		// The install step runs even when keygen failed; the original
		// workflow never checked, and silently adding the check would
		// change which prompts the user sees.
		result.Install = p.runStep(display, StepInstall, p.InstallJob(node), opts.DryRun)
		if !result.Install.Skipped {
			lastExit = result.Install.ExitCode
		}

		results = append(results, result)
		fmt.Fprintln(p.out)
	}

	return results, lastExit
}

// runStep submits one job and renders its status line.
func (p *Provisioner) runStep(display *ui.StepDisplay, name string, job slurm.Job, dryRun bool) StepResult {
	if dryRun {
		display.Muted(p.runner.CommandLine(job))
		display.Skipped(name, "dry run")
		return StepResult{Name: name, Skipped: true}
	}

	p.log.Debug("%s: %s", name, p.runner.CommandLine(job))

	start := time.Now()
	code, err := p.runner.Run(job, p.out, p.errOut)
	elapsed := time.Since(start)

	if err != nil {
		fmt.Fprintln(p.errOut, err)
		display.Failed(name, code)
		return StepResult{Name: name, ExitCode: code, Err: err, Duration: elapsed}
	}

	if code != 0 {
		display.Failed(name, code)
	} else {
		display.Success(name, elapsed)
	}

	return StepResult{Name: name, ExitCode: code, Duration: elapsed}
}
