package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "'hello'", ShellQuote("hello"))
	assert.Equal(t, "''", ShellQuote(""))
	assert.Equal(t, `'it'\''s'`, ShellQuote("it's"))
}

func TestNeedsQuoting(t *testing.T) {
	assert.True(t, NeedsQuoting(""))
	assert.True(t, NeedsQuoting("a b"))
	assert.True(t, NeedsQuoting("$HOME"))
	assert.True(t, NeedsQuoting("~/key"))
	assert.False(t, NeedsQuoting("ssh-keygen"))
	assert.False(t, NeedsQuoting("--partition=ziz-gpu01-debug"))
	assert.False(t, NeedsQuoting("/home/u/.ssh/id_rsa"))
}

func TestQuoteCommandLine(t *testing.T) {
	line := QuoteCommandLine([]string{"srun", "--partition=p", "ssh-keygen", "-N", "", "-f", "/home/u/key"})
	assert.Equal(t, "srun --partition=p ssh-keygen -N '' -f /home/u/key", line)

	line = QuoteCommandLine([]string{"echo", "two words"})
	assert.Equal(t, "echo 'two words'", line)
}
