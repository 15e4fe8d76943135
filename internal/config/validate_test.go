package config

import (
	"testing"

	"github.com/oxcsml/zizkeys/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, Validate(DefaultConfig()))
}

func TestValidate_EmptyKeyFileAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KeyFile = ""

	// The empty path flows through to the remote tools untouched.
	assert.NoError(t, Validate(cfg))
}

func TestValidate_FutureVersion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Version = CurrentConfigVersion + 1

	err := Validate(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestValidate_PartitionFormat(t *testing.T) {
	tests := []struct {
		name   string
		format string
		ok     bool
	}{
		{"default", DefaultPartitionFormat, true},
		{"custom", "gpu-%s", true},
		{"empty", "", false},
		{"no verb", "ziz-gpu01-debug", false},
		{"two verbs", "%s-%s", false},
		{"wrong verb", "ziz-gpu%d-debug", false},
		{"escaped percent", "gpu%%-%s", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Srun.PartitionFormat = tt.format
			err := Validate(cfg)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_KeyType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Keygen.Type = "dsa"

	assert.Error(t, Validate(cfg))

	cfg.Keygen.Type = "ed25519"
	assert.NoError(t, Validate(cfg))
}

func TestValidate_ShortRSAKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Keygen.Bits = 512

	assert.Error(t, Validate(cfg))
}

func TestValidate_EmptyLoginHost(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LoginHost = ""

	assert.Error(t, Validate(cfg))
}

func TestValidate_EmptySrunBinary(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Srun.Binary = ""

	assert.Error(t, Validate(cfg))
}
