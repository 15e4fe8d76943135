package provision

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/oxcsml/zizkeys/internal/config"
	"github.com/oxcsml/zizkeys/internal/logger"
	"github.com/oxcsml/zizkeys/internal/slurm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records submitted jobs and replays scripted exit codes.
type fakeRunner struct {
	jobs      []slurm.Job
	exitCodes []int
	errs      []error
	rendered  []string
}

func (f *fakeRunner) Run(job slurm.Job, stdout, stderr io.Writer) (int, error) {
	f.jobs = append(f.jobs, job)
	i := len(f.jobs) - 1

	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	code := 0
	if i < len(f.exitCodes) {
		code = f.exitCodes[i]
	}
	return code, err
}

func (f *fakeRunner) Capture(job slurm.Job) (*slurm.Result, error) {
	f.jobs = append(f.jobs, job)
	return &slurm.Result{}, nil
}

func (f *fakeRunner) CommandLine(job slurm.Job) string {
	line := fmt.Sprintf("srun --partition=%s %v", job.Partition, job.Argv)
	f.rendered = append(f.rendered, line)
	return line
}

func newTestProvisioner(cfg *config.Config, runner slurm.Runner) *Provisioner {
	p := New(cfg, runner)
	p.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})
	p.SetLogger(logger.Noop())
	return p
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.KeyFile = "/home/user/.ssh/id_rsa_ziz"
	return cfg
}

func TestRun_AllNodesInOrder(t *testing.T) {
	runner := &fakeRunner{}
	p := newTestProvisioner(testConfig(), runner)

	results, lastExit := p.Run(Options{})

	require.Len(t, results, 4)
	require.Len(t, runner.jobs, 8) // keygen + install per node
	assert.Equal(t, 0, lastExit)

	expected := []string{
		"ziz-gpu01-debug", "ziz-gpu01-debug",
		"ziz-gpu02-debug", "ziz-gpu02-debug",
		"ziz-gpu03-debug", "ziz-gpu03-debug",
		"ziz-gpu04-debug", "ziz-gpu04-debug",
	}
	for i, job := range runner.jobs {
		assert.Equal(t, expected[i], job.Partition, "job %d", i)
	}

	// keygen before install on every node
	for i := 0; i < len(runner.jobs); i += 2 {
		assert.Equal(t, "ssh-keygen", runner.jobs[i].Argv[0])
		assert.Equal(t, "ssh-copy-id", runner.jobs[i+1].Argv[0])
	}
}

func TestRun_KeygenInvocation(t *testing.T) {
	runner := &fakeRunner{}
	p := newTestProvisioner(testConfig(), runner)

	p.Run(Options{Nodes: []string{"2"}})

	require.Len(t, runner.jobs, 2)
	keygen := runner.jobs[0]

	assert.Equal(t, []string{
		"ssh-keygen", "-t", "rsa", "-b", "2048", "-N", "", "-f", "/home/user/.ssh/id_rsa_ziz",
	}, keygen.Argv)
	assert.False(t, keygen.Interactive)

	// Overwrite confirmation is answered automatically.
	require.NotNil(t, keygen.Stdin)
	answer, err := io.ReadAll(keygen.Stdin)
	require.NoError(t, err)
	assert.Equal(t, "y\n", string(answer))
}

func TestRun_KeygenNonRSAOmitsBits(t *testing.T) {
	cfg := testConfig()
	cfg.Keygen.Type = "ed25519"
	runner := &fakeRunner{}
	p := newTestProvisioner(cfg, runner)

	p.Run(Options{Nodes: []string{"1"}})

	require.NotEmpty(t, runner.jobs)
	assert.Equal(t, []string{
		"ssh-keygen", "-t", "ed25519", "-N", "", "-f", "/home/user/.ssh/id_rsa_ziz",
	}, runner.jobs[0].Argv)
}

func TestRun_InstallInvocation(t *testing.T) {
	runner := &fakeRunner{}
	p := newTestProvisioner(testConfig(), runner)

	p.Run(Options{})

	// Every install job targets the same login host, independent of node.
	for i := 1; i < len(runner.jobs); i += 2 {
		install := runner.jobs[i]
		assert.Equal(t, []string{
			"ssh-copy-id", "-i", "/home/user/.ssh/id_rsa_ziz", "ziz.stats.ox.ac.uk",
		}, install.Argv)
		assert.True(t, install.Interactive)
	}
}

func TestRun_EmptyKeyFilePassesThrough(t *testing.T) {
	cfg := config.DefaultConfig() // KeyFile left empty
	runner := &fakeRunner{}
	p := newTestProvisioner(cfg, runner)

	p.Run(Options{Nodes: []string{"1"}})

	require.Len(t, runner.jobs, 2)
	assert.Contains(t, runner.jobs[0].Argv, "")
	assert.Equal(t, "", runner.jobs[0].Argv[len(runner.jobs[0].Argv)-1])
	assert.Equal(t, "", runner.jobs[1].Argv[2])
}

func TestRun_FailureDoesNotStopLoop(t *testing.T) {
	runner := &fakeRunner{
		exitCodes: []int{1}, // node 1 keygen fails
	}
	p := newTestProvisioner(testConfig(), runner)

	results, lastExit := p.Run(Options{})

	// Install for node 1 still ran, and all later nodes were processed.
	require.Len(t, runner.jobs, 8)
	require.Len(t, results, 4)
	assert.Equal(t, 1, results[0].Keygen.ExitCode)
	assert.False(t, results[0].Install.Skipped)
	assert.Equal(t, 0, lastExit) // last job succeeded
}

func TestRun_LastExitCodeWins(t *testing.T) {
	runner := &fakeRunner{
		exitCodes: []int{0, 0, 0, 0, 0, 0, 0, 3},
	}
	p := newTestProvisioner(testConfig(), runner)

	_, lastExit := p.Run(Options{})
	assert.Equal(t, 3, lastExit)
}

func TestRun_SpawnErrorRecordedAndLoopContinues(t *testing.T) {
	runner := &fakeRunner{
		exitCodes: []int{-1},
		errs:      []error{fmt.Errorf("srun: command not found")},
	}
	p := newTestProvisioner(testConfig(), runner)

	results, lastExit := p.Run(Options{Nodes: []string{"1", "2"}})

	require.Len(t, runner.jobs, 4)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Keygen.Err)
	assert.False(t, results[0].Keygen.OK())
	assert.Equal(t, 0, lastExit)
}

func TestRun_NodeSubsetKeepsGivenOrder(t *testing.T) {
	runner := &fakeRunner{}
	p := newTestProvisioner(testConfig(), runner)

	results, _ := p.Run(Options{Nodes: []string{"4", "2"}})

	require.Len(t, results, 2)
	assert.Equal(t, "4", results[0].Node)
	assert.Equal(t, "2", results[1].Node)
	assert.Equal(t, "ziz-gpu04-debug", runner.jobs[0].Partition)
	assert.Equal(t, "ziz-gpu02-debug", runner.jobs[2].Partition)
}

func TestRun_DryRunSubmitsNothing(t *testing.T) {
	runner := &fakeRunner{}
	p := newTestProvisioner(testConfig(), runner)

	results, lastExit := p.Run(Options{DryRun: true})

	assert.Empty(t, runner.jobs)
	assert.Equal(t, 0, lastExit)
	require.Len(t, results, 4)
	for _, r := range results {
		assert.True(t, r.Keygen.Skipped)
		assert.True(t, r.Install.Skipped)
	}
	// Both command lines rendered per node.
	assert.Len(t, runner.rendered, 8)
}

func TestPartitionFor(t *testing.T) {
	p := newTestProvisioner(testConfig(), &fakeRunner{})

	assert.Equal(t, "ziz-gpu01-debug", p.PartitionFor("1"))
	assert.Equal(t, "ziz-gpu04-debug", p.PartitionFor("4"))
}

func TestValidateNodes(t *testing.T) {
	assert.NoError(t, ValidateNodes(nil))
	assert.NoError(t, ValidateNodes([]string{"1", "3"}))
	assert.Error(t, ValidateNodes([]string{"5"}))
	assert.Error(t, ValidateNodes([]string{"0"}))
	assert.Error(t, ValidateNodes([]string{"2", "2"}))
}
