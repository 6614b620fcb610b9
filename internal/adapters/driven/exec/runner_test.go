package exec

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/seqsearch-cli/internal/core/ports/driven"
)

func skipWithoutSh(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestRunner_RunCapturesStreams(t *testing.T) {
	skipWithoutSh(t)
	dir := t.TempDir()
	stdout := filepath.Join(dir, "stdout")
	stderr := filepath.Join(dir, "stderr")
	runner := NewRunner()

	err := runner.Run(context.Background(), driven.CommandSpec{
		Path: "sh",
		Args: []string{"-c", "echo out; echo err >&2"},
	}, stdout, stderr)

	require.NoError(t, err)
	outData, err := os.ReadFile(stdout)
	require.NoError(t, err)
	assert.Equal(t, "out\n", string(outData))
	errData, err := os.ReadFile(stderr)
	require.NoError(t, err)
	assert.Equal(t, "err\n", string(errData))
}

func TestRunner_RunNonZeroExit(t *testing.T) {
	skipWithoutSh(t)
	runner := NewRunner()

	err := runner.Run(context.Background(), driven.CommandSpec{
		Path: "sh",
		Args: []string{"-c", "exit 3"},
	}, "", "")

	var exitErr *driven.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
}

func TestRunner_Output(t *testing.T) {
	skipWithoutSh(t)
	runner := NewRunner()

	out, err := runner.Output(context.Background(), driven.CommandSpec{
		Path: "sh",
		Args: []string{"-c", "echo '  12345;cluster  '"},
	})

	require.NoError(t, err)
	assert.Equal(t, "12345;cluster", out, "stdout is trimmed")
}

func TestRunner_LookPath(t *testing.T) {
	skipWithoutSh(t)
	runner := NewRunner()

	assert.NoError(t, runner.LookPath("sh"))
	assert.Error(t, runner.LookPath("definitely-not-a-real-binary-xyz"))
}
