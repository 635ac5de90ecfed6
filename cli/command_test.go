package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOptions(t *testing.T) {
	cmd := NewStandardCommand("refactor", "test")
	require.NoError(t, cmd.PersistentFlags().Set("verbose", "true"))
	require.NoError(t, cmd.PersistentFlags().Set("json", "true"))
	require.NoError(t, cmd.PersistentFlags().Set("config", "/tmp/refactor.yml"))
	require.NoError(t, cmd.ParseFlags(nil))

	opts := GetOptions(cmd)

	assert.True(t, opts.Verbose)
	assert.True(t, opts.JSONOutput)
	assert.Equal(t, "/tmp/refactor.yml", opts.ConfigFile)
}

func TestGetLoggerHonorsFlags(t *testing.T) {
	cmd := NewStandardCommand("refactor", "test")
	require.NoError(t, cmd.PersistentFlags().Set("verbose", "true"))
	require.NoError(t, cmd.PersistentFlags().Set("json", "true"))
	require.NoError(t, cmd.ParseFlags(nil))

	logger := GetLogger(cmd)

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func TestInitConfigExplicitPath(t *testing.T) {
	path, err := InitConfig("/some/refactor.yml")
	require.NoError(t, err)
	assert.Equal(t, "/some/refactor.yml", path)
}

func TestInitConfigFindsProjectFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "refactor.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("refactor:\n  before_context: 2\n"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	path, err := InitConfig("")
	require.NoError(t, err)
	assert.Equal(t, "refactor.yml", filepath.Base(path))
}
