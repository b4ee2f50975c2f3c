package helpers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	AddGlobalFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestExtractCLIFlags(t *testing.T) {
	t.Run("Should return only flags that were set", func(t *testing.T) {
		cmd := newTestCommand(t, "--screenshots-dir", "/var/shots", "--log-json", "--timeout", "30s")

		flags, err := ExtractCLIFlags(cmd)
		require.NoError(t, err)

		assert.Equal(t, map[string]any{
			"screenshots-dir": "/var/shots",
			"log-json":        true,
			"timeout":         30 * time.Second,
		}, flags)
	})

	t.Run("Should skip flags without a configuration key", func(t *testing.T) {
		cmd := newTestCommand(t, "--config", "mobai.yaml", "--env-file", "")

		flags, err := ExtractCLIFlags(cmd)
		require.NoError(t, err)

		assert.Empty(t, flags)
	})
}

func TestLoadEnvironmentFile(t *testing.T) {
	t.Run("Should load variables from the env file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(path, []byte("MOBAI_HELPERS_TEST_DIR=/from/env-file\n"), 0o600))
		t.Cleanup(func() { os.Unsetenv("MOBAI_HELPERS_TEST_DIR") })
		cmd := newTestCommand(t, "--env-file", path)

		require.NoError(t, LoadEnvironmentFile(cmd))

		assert.Equal(t, "/from/env-file", os.Getenv("MOBAI_HELPERS_TEST_DIR"))
	})

	t.Run("Should ignore a missing env file", func(t *testing.T) {
		cmd := newTestCommand(t, "--env-file", filepath.Join(t.TempDir(), "missing.env"))

		assert.NoError(t, LoadEnvironmentFile(cmd))
	})

	t.Run("Should reject a directory", func(t *testing.T) {
		cmd := newTestCommand(t, "--env-file", t.TempDir())

		err := LoadEnvironmentFile(cmd)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a regular file")
	})

	t.Run("Should do nothing when the flag is empty", func(t *testing.T) {
		cmd := newTestCommand(t, "--env-file", "")

		assert.NoError(t, LoadEnvironmentFile(cmd))
	})
}
