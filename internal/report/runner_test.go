package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestArtifactRunnerFeedsStdin(t *testing.T) {
	dir := t.TempDir()
	bin := writeScript(t, dir, "echoer", "read n\necho \"got $n\"")

	result, err := NewArtifactRunner().Run(context.Background(), bin, "5\n")
	require.NoError(t, err)

	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Stdout, "got 5")
}

func TestArtifactRunnerNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	bin := writeScript(t, dir, "failer", "echo 'runtime panic' >&2\nexit 3")

	result, err := NewArtifactRunner().Run(context.Background(), bin, "5\n")
	require.NoError(t, err)

	assert.Equal(t, 3, result.ExitCode)
	assert.Contains(t, result.Stderr, "runtime panic")
}

func TestArtifactRunnerMissingBinary(t *testing.T) {
	_, err := NewArtifactRunner().Run(context.Background(), filepath.Join(t.TempDir(), "missing"), "5\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run artifact")
}
