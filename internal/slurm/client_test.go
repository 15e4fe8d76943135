package slurm

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oxcsml/zizkeys/internal/errors"
	"github.com/oxcsml/zizkeys/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeStub creates an executable shell script standing in for srun/sinfo.
func writeStub(t *testing.T, name, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755)
	require.NoError(t, err)
	return path
}

func TestCommandLine(t *testing.T) {
	c := NewClient("srun", "sinfo")

	line := c.CommandLine(Job{
		Partition: "ziz-gpu01-debug",
		Argv:      []string{"ssh-keygen", "-t", "rsa", "-b", "2048", "-N", "", "-f", "/home/u/.ssh/id_rsa_ziz"},
	})

	assert.Equal(t, "srun --partition=ziz-gpu01-debug ssh-keygen -t rsa -b 2048 -N '' -f /home/u/.ssh/id_rsa_ziz", line)
}

func TestCommandLine_Interactive(t *testing.T) {
	c := NewClient("srun", "sinfo")

	line := c.CommandLine(Job{
		Partition:   "ziz-gpu02-debug",
		Argv:        []string{"ssh-copy-id", "-i", "/home/u/.ssh/id_rsa_ziz", "ziz.stats.ox.ac.uk"},
		Interactive: true,
	})

	assert.Contains(t, line, "--pty")
	assert.True(t, strings.HasPrefix(line, "srun --partition=ziz-gpu02-debug --pty"))
}

func TestRun_StreamsOutputAndExitCode(t *testing.T) {
	stub := writeStub(t, "srun", `echo "args: $@"
echo "oops" >&2
exit 7`)
	c := NewClient(stub, "sinfo")
	c.SetLogger(logger.Noop())

	var stdout, stderr bytes.Buffer
	code, err := c.Run(Job{Partition: "p", Argv: []string{"true"}}, &stdout, &stderr)

	require.NoError(t, err) // nonzero exit is not an error
	assert.Equal(t, 7, code)
	assert.Contains(t, stdout.String(), "--partition=p")
	assert.Contains(t, stderr.String(), "oops")
}

func TestRun_StdinFedToJob(t *testing.T) {
	stub := writeStub(t, "srun", `cat`)
	c := NewClient(stub, "sinfo")
	c.SetLogger(logger.Noop())

	var stdout, stderr bytes.Buffer
	code, err := c.Run(Job{
		Partition: "p",
		Argv:      []string{"ssh-keygen"},
		Stdin:     strings.NewReader("y\n"),
	}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "y\n", stdout.String())
}

func TestRun_SpawnFailure(t *testing.T) {
	c := NewClient("/nonexistent/srun", "sinfo")
	c.SetLogger(logger.Noop())

	var stdout, stderr bytes.Buffer
	code, err := c.Run(Job{Partition: "p", Argv: []string{"true"}}, &stdout, &stderr)

	assert.Equal(t, -1, code)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSlurm))
}

func TestCapture(t *testing.T) {
	stub := writeStub(t, "srun", `echo "hello from node"
echo "warning" >&2`)
	c := NewClient(stub, "sinfo")
	c.SetLogger(logger.Noop())

	res, err := c.Capture(Job{Partition: "p", Argv: []string{"cat", "/x.pub"}})

	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello from node\n", string(res.Stdout))
	assert.Equal(t, "warning\n", string(res.Stderr))
}

func TestCapture_NonZeroExit(t *testing.T) {
	stub := writeStub(t, "srun", `echo "no such file" >&2
exit 1`)
	c := NewClient(stub, "sinfo")
	c.SetLogger(logger.Noop())

	res, err := c.Capture(Job{Partition: "p", Argv: []string{"cat", "/missing"}})

	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, string(res.Stderr), "no such file")
}

func TestPartitions(t *testing.T) {
	sinfo := writeStub(t, "sinfo", `echo "debug*"
echo "ziz-gpu01-debug"
echo "ziz-gpu01-debug"
echo "ziz-gpu02-debug"
echo ""`)
	c := NewClient("srun", sinfo)
	c.SetLogger(logger.Noop())

	partitions, err := c.Partitions()

	require.NoError(t, err)
	// Default marker stripped, duplicates and blanks dropped.
	assert.Equal(t, []string{"debug", "ziz-gpu01-debug", "ziz-gpu02-debug"}, partitions)
}

func TestPartitions_SinfoMissing(t *testing.T) {
	c := NewClient("srun", "/nonexistent/sinfo")
	c.SetLogger(logger.Noop())

	_, err := c.Partitions()

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSlurm))
}
