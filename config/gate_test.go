package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(t *testing.T, dir string) *Gate {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	gate, err := NewGate(dir, logger.WithField("component", "test"))
	require.NoError(t, err)
	return gate
}

func TestGateInitialLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	writeFile(t, dir, "refactor.yml", `
refactor:
  before_context: 6
`)

	gate := newTestGate(t, dir)
	assert.Equal(t, 6, gate.Current().Refactor.Before())
}

func TestGateMissingConfigFallsBackToDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	gate := newTestGate(t, t.TempDir())
	assert.Equal(t, DefaultBeforeContext, gate.Current().Refactor.Before())
}

func TestGateReloadSwapsWholesale(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	path := writeFile(t, dir, "refactor.yml", `
refactor:
  before_context: 2
  after_context: 2
`)

	gate := newTestGate(t, dir)
	before := gate.Current()
	require.Equal(t, 2, before.Refactor.Before())

	require.NoError(t, os.WriteFile(path, []byte(`
refactor:
  before_context: 8
`), 0644))
	gate.handleChange(path)

	after := gate.Current()
	assert.Equal(t, 8, after.Refactor.Before())
	// New value is a complete merged object, not a patch of the old one.
	assert.Equal(t, DefaultAfterContext, after.Refactor.After())
	// The previous snapshot is untouched.
	assert.Equal(t, 2, before.Refactor.Before())
}

func TestGateKeepsPreviousConfigOnBrokenReload(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	path := writeFile(t, dir, "refactor.yml", `
refactor:
  before_context: 2
`)

	gate := newTestGate(t, dir)
	require.NoError(t, os.WriteFile(path, []byte("refactor:\n  before_context: -5\n"), 0644))
	gate.handleChange(path)

	assert.Equal(t, 2, gate.Current().Refactor.Before())
}

func TestGateDebouncesRapidChanges(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	path := writeFile(t, dir, "refactor.yml", `
refactor:
  before_context: 2
`)

	gate := newTestGate(t, dir)
	gate.debounce = time.Hour
	gate.lastChange = time.Now()

	require.NoError(t, os.WriteFile(path, []byte("refactor:\n  before_context: 9\n"), 0644))
	gate.handleChange(path)

	assert.Equal(t, 2, gate.Current().Refactor.Before())
}

func TestIsConfigFile(t *testing.T) {
	assert.True(t, isConfigFile(filepath.Join("/tmp", "refactor.yml")))
	assert.True(t, isConfigFile("refactor.override.yaml"))
	assert.True(t, isConfigFile("refactor.toml"))
	assert.False(t, isConfigFile("grove.yml"))
	assert.False(t, isConfigFile("main.go"))
}
