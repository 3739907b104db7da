package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults tests the built-in configuration
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir()) // no ~/.memtriage.yaml in play

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"vol", "vol.py", "volatility3"}, cfg.Candidates)
	assert.Equal(t, []int{0, 1}, cfg.AcceptExitCodes)
	assert.Equal(t, "-f", cfg.ImageFlag)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{
		"windows.pslist",
		"windows.pstree",
		"windows.netscan",
		"windows.dlllist",
		"windows.cmdline",
		"windows.malfind",
	}, cfg.Plugins)
}

// TestLoad_EnvironmentOverrides tests MEMTRIAGE_* bindings
func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MEMTRIAGE_LOG_LEVEL", "debug")
	t.Setenv("MEMTRIAGE_IMAGE_FLAG", "--file")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "--file", cfg.ImageFlag)
}

// TestLoad_ConfigFileOverrides tests explicit YAML config files
func TestLoad_ConfigFileOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "memtriage.yaml")
	content := `candidates:
  - vol3
accept_exit_codes:
  - 0
  - 2
plugins:
  - windows.pslist
  - windows.netscan
log_level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"vol3"}, cfg.Candidates)
	assert.Equal(t, []int{0, 2}, cfg.AcceptExitCodes)
	assert.Equal(t, []string{"windows.pslist", "windows.netscan"}, cfg.Plugins)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "-f", cfg.ImageFlag, "unset keys keep their defaults")
}

// TestLoad_MissingExplicitConfigFile_Fails tests the explicit-file path
func TestLoad_MissingExplicitConfigFile_Fails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

// TestLoad_HomeConfigFile_IsPickedUp tests the implicit config location
func TestLoad_HomeConfigFile_IsPickedUp(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	content := "log_level: error\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, ".memtriage.yaml"), []byte(content), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}
