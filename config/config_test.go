package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 3, cfg.Refactor.Before())
	assert.Equal(t, 3, cfg.Refactor.After())
	assert.Equal(t, "tab split", cfg.Refactor.OpenCommand)
	assert.True(t, cfg.Refactor.Save())
	assert.Equal(t, "<leader>rr", cfg.Refactor.MenuTrigger)
	assert.Equal(t, 2000, cfg.Refactor.Timeout())
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "refactor.yml", `
refactor:
  before_context: 5
  after_context: 1
  save_on_write: false
  exclude:
    - vendor/
    - "*.pb.go"
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Refactor.Before())
	assert.Equal(t, 1, cfg.Refactor.After())
	assert.False(t, cfg.Refactor.Save())
	assert.Equal(t, []string{"vendor/", "*.pb.go"}, cfg.Refactor.Exclude)
	// Defaults fill whatever the file left out.
	assert.Equal(t, "tab split", cfg.Refactor.OpenCommand)
	// Unknown top-level keys land in Extensions.
	assert.Contains(t, cfg.Extensions, "logging")
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "refactor.toml", `
[refactor]
before_context = 2
open_command = "vsplit"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Refactor.Before())
	assert.Equal(t, "vsplit", cfg.Refactor.OpenCommand)
	assert.Equal(t, 3, cfg.Refactor.After())
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("REFACTOR_TEST_OPEN", "botright split")
	dir := t.TempDir()
	path := writeFile(t, dir, "refactor.yml", `
refactor:
  open_command: ${REFACTOR_TEST_OPEN}
  menu_trigger: ${REFACTOR_TEST_UNSET:-<leader>rm}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "botright split", cfg.Refactor.OpenCommand)
	assert.Equal(t, "<leader>rm", cfg.Refactor.MenuTrigger)
}

func TestLoadRejectsNegativeContext(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "refactor.yml", `
refactor:
  before_context: -1
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestUnmarshalExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "refactor.yml", `
refactor:
  before_context: 4
logging:
  level: debug
  report_caller: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	var logCfg struct {
		Level        string `yaml:"level"`
		ReportCaller bool   `yaml:"report_caller"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "debug", logCfg.Level)
	assert.True(t, logCfg.ReportCaller)

	// Missing keys leave the target zero-valued.
	var missing struct {
		Value string `yaml:"value"`
	}
	require.NoError(t, cfg.UnmarshalExtension("absent", &missing))
	assert.Empty(t, missing.Value)
}

func TestLoadFromMergesLayers(t *testing.T) {
	global := t.TempDir()
	project := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", global)

	require.NoError(t, os.MkdirAll(filepath.Join(global, "grove"), 0755))
	writeFile(t, filepath.Join(global, "grove"), "refactor.yml", `
refactor:
  before_context: 10
  after_context: 10
  menu_trigger: <leader>gg
`)
	writeFile(t, project, "refactor.yml", `
refactor:
  after_context: 2
`)
	writeFile(t, project, "refactor.override.yml", `
refactor:
  after_context: 7
`)

	cfg, err := LoadFrom(project)
	require.NoError(t, err)

	// Global value survives where the project is silent.
	assert.Equal(t, 10, cfg.Refactor.Before())
	assert.Equal(t, "<leader>gg", cfg.Refactor.MenuTrigger)
	// Override beats project beats global.
	assert.Equal(t, 7, cfg.Refactor.After())
}

func TestLoadFromWithoutConfigUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultBeforeContext, cfg.Refactor.Before())
	assert.Equal(t, DefaultAfterContext, cfg.Refactor.After())
}

func TestFindConfigFileSearchesUpward(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	expected := writeFile(t, root, "refactor.yml", "refactor: {}\n")

	found, err := FindConfigFile(nested)
	require.NoError(t, err)
	assert.Equal(t, expected, found)

	_, err = FindConfigFile(t.TempDir())
	assert.Error(t, err)
}
