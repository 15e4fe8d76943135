// Package slurm submits jobs to the cluster through the site srun binary.
//
// srun is treated as an opaque external tool: zizkeys builds the argv,
// attaches the right stdio, and reports the exit code. Anything the job
// prints goes straight to the caller's writers, exactly as it would when
// running srun by hand.
package slurm

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/oxcsml/zizkeys/internal/errors"
	"github.com/oxcsml/zizkeys/internal/logger"
	"github.com/oxcsml/zizkeys/internal/util"
)

// Job describes a single remote command submitted via srun.
type Job struct {
	// Partition the job is submitted to.
	Partition string

	// Argv is the remote command and its arguments.
	Argv []string

	// Interactive attaches a pseudo-terminal (--pty) and the invoking
	// user's stdin, for jobs that prompt on the controlling terminal.
	Interactive bool

	// Stdin optionally feeds input to a non-interactive job, e.g. an
	// automatic "y" for an overwrite confirmation. Ignored when
	// Interactive is set.
	Stdin io.Reader
}

// Result holds captured output from a job.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner is the job-submission interface the rest of zizkeys programs
// against. Client is the real implementation.
type Runner interface {
	// Run submits a job and blocks until it finishes, streaming output.
	// The job's exit code is returned separately from spawn errors.
	Run(job Job, stdout, stderr io.Writer) (int, error)

	// Capture submits a job and collects its output.
	Capture(job Job) (*Result, error)

	// CommandLine renders the full srun invocation for display.
	CommandLine(job Job) string
}

// Client submits jobs by invoking the srun binary.
type Client struct {
	binary      string
	sinfoBinary string
	log         logger.Logger
}

// NewClient creates a client around the given srun and sinfo binaries.
func NewClient(binary, sinfoBinary string) *Client {
	return &Client{
		binary:      binary,
		sinfoBinary: sinfoBinary,
		log:         logger.NewEnvLogger("[slurm]"),
	}
}

// SetLogger overrides the client's logger. Useful for tests.
func (c *Client) SetLogger(l logger.Logger) {
	c.log = l
}

// argv builds the complete local argv for a job.
func (c *Client) argv(job Job) []string {
	args := []string{c.binary, "--partition=" + job.Partition}
	if job.Interactive {
		args = append(args, "--pty")
	}
	return append(args, job.Argv...)
}

// CommandLine renders the invocation as a copy-pasteable shell string.
func (c *Client) CommandLine(job Job) string {
	return util.QuoteCommandLine(c.argv(job))
}

// Run submits the job and blocks until it completes, streaming output to
// the provided writers. Interactive jobs get the invoking terminal's stdin
// so remote password prompts reach the user.
//
// A nonzero remote exit code is not an error: it is returned as-is, the way
// the shell would report it. Only spawn failures produce an error.
func (c *Client) Run(job Job, stdout, stderr io.Writer) (int, error) {
	args := c.argv(job)
	c.log.Debug("run: %s", strings.Join(args, " "))

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if job.Interactive {
		cmd.Stdin = os.Stdin
	} else if job.Stdin != nil {
		cmd.Stdin = job.Stdin
	}

	runErr := cmd.Run()
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return -1, errors.WrapWithCode(runErr, errors.ErrSlurm,
			"Couldn't invoke "+c.binary,
			"Make sure you are on a submit host with "+c.binary+" in PATH.")
	}

	return 0, nil
}

// Capture submits the job and collects stdout and stderr.
func (c *Client) Capture(job Job) (*Result, error) {
	args := c.argv(job)
	c.log.Debug("capture: %s", strings.Join(args, " "))

	cmd := exec.Command(args[0], args[1:]...)
	if job.Stdin != nil && !job.Interactive {
		cmd.Stdin = job.Stdin
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	res := &Result{
		Stdout: []byte(stdout.String()),
		Stderr: []byte(stderr.String()),
	}
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return nil, errors.WrapWithCode(runErr, errors.ErrSlurm,
			"Couldn't invoke "+c.binary,
			"Make sure you are on a submit host with "+c.binary+" in PATH.")
	}

	return res, nil
}

// Partitions lists the partition names sinfo reports, with the default
// partition marker (*) stripped.
func (c *Client) Partitions() ([]string, error) {
	cmd := exec.Command(c.sinfoBinary, "-h", "-o", "%P")
	out, err := cmd.Output()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSlurm,
			"Couldn't list partitions via "+c.sinfoBinary,
			"Make sure you are on a submit host with "+c.sinfoBinary+" in PATH.")
	}

	seen := make(map[string]bool)
	var partitions []string
	for _, line := range strings.Split(string(out), "\n") {
		name := strings.TrimSuffix(strings.TrimSpace(line), "*")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		partitions = append(partitions, name)
	}

	return partitions, nil
}
