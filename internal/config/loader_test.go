package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oxcsml/zizkeys/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
version: 1
key_file: /scratch/keys/id_rsa_ziz
login_host: login.example.ac.uk
srun:
  binary: /opt/slurm/bin/srun
  partition_format: "cluster-%s"
keygen:
  type: rsa
  bits: 4096
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/scratch/keys/id_rsa_ziz", cfg.KeyFile)
	assert.Equal(t, "login.example.ac.uk", cfg.LoginHost)
	assert.Equal(t, "/opt/slurm/bin/srun", cfg.Srun.Binary)
	assert.Equal(t, "cluster-%s", cfg.Srun.PartitionFormat)
	assert.Equal(t, 4096, cfg.Keygen.Bits)
	// Unspecified values fall back to defaults.
	assert.Equal(t, "sinfo", cfg.Srun.SinfoBinary)
}

func TestLoad_MinimalConfigGetsDefaults(t *testing.T) {
	path := writeConfig(t, "key_file: ~/.ssh/id_rsa_ziz\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	home, herr := os.UserHomeDir()
	require.NoError(t, herr)
	assert.Equal(t, filepath.Join(home, ".ssh", "id_rsa_ziz"), cfg.KeyFile)
	assert.Equal(t, DefaultLoginHost, cfg.LoginHost)
	assert.Equal(t, "srun", cfg.Srun.Binary)
	assert.Equal(t, DefaultPartitionFormat, cfg.Srun.PartitionFormat)
	assert.Equal(t, "rsa", cfg.Keygen.Type)
	assert.Equal(t, 2048, cfg.Keygen.Bits)
}

func TestLoad_EmptyKeyFileAccepted(t *testing.T) {
	path := writeConfig(t, "login_host: ziz.stats.ox.ac.uk\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.KeyFile)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "key_file: [unclosed\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFind_ExplicitPath(t *testing.T) {
	path := writeConfig(t, "key_file: /x\n")

	found, err := Find(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestFind_ExplicitMissing(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFind_CurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("key_file: /x\n"), 0o644))
	t.Chdir(dir)

	found, err := Find("")
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestLoadOrDefault_NoFileAnywhere(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.KeyFile)
	assert.Equal(t, DefaultLoginHost, cfg.LoginHost)
}
