package cli

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFakeVol installs a stand-in Volatility binary into dir. It answers
// the -h probe and otherwise echoes its invocation like a plugin run.
func writeFakeVol(t *testing.T, dir, name string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tool scripts require a POSIX shell")
	}
	script := `#!/bin/sh
if [ "$1" = "-h" ]; then
  echo "usage: vol [-h] -f FILE plugin"
  exit 0
fi
echo "tool=$0 image=$2 plugin=$3"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(script), 0o755))
}

// isolateEnv points PATH at toolDir alone and HOME at a scratch dir so no
// real Volatility install or user config leaks into the test.
func isolateEnv(t *testing.T, toolDir string) {
	t.Helper()
	t.Setenv("PATH", toolDir)
	t.Setenv("HOME", t.TempDir())
}

// TestRunCommand_DefaultPlugins_ProducesCaseFiles covers the default
// triage scenario end to end: six raw captures plus the index.
func TestRunCommand_DefaultPlugins_ProducesCaseFiles(t *testing.T) {
	toolDir := t.TempDir()
	writeFakeVol(t, toolDir, "vol")
	isolateEnv(t, toolDir)

	caseDir := filepath.Join(t.TempDir(), "cases", "CASE001")

	root := NewRootCommand()
	root.SetArgs([]string{"run", "-f", "mem.raw", "-o", caseDir})
	require.NoError(t, root.ExecuteContext(context.Background()))

	expected := []string{
		"windows_pslist.txt",
		"windows_pstree.txt",
		"windows_netscan.txt",
		"windows_dlllist.txt",
		"windows_cmdline.txt",
		"windows_malfind.txt",
	}
	for _, name := range expected {
		path := filepath.Join(caseDir, "raw", name)
		content, err := os.ReadFile(path)
		require.NoError(t, err, "capture file %s must exist", name)
		assert.Contains(t, string(content), "image=mem.raw")
	}

	index, err := os.ReadFile(filepath.Join(caseDir, "INDEX.md"))
	require.NoError(t, err)
	for _, name := range expected {
		assert.Contains(t, string(index), name)
	}
	assert.Contains(t, string(index), "## Quick Review Hints")
}

// TestRunCommand_PluginOverride_RunsOnlyRequested tests the --plugins flag
func TestRunCommand_PluginOverride_RunsOnlyRequested(t *testing.T) {
	toolDir := t.TempDir()
	writeFakeVol(t, toolDir, "vol")
	isolateEnv(t, toolDir)

	caseDir := filepath.Join(t.TempDir(), "CASE002")

	root := NewRootCommand()
	root.SetArgs([]string{"run", "-f", "mem.raw", "-o", caseDir,
		"--plugins", "windows.pslist,windows.netscan"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	entries, err := os.ReadDir(filepath.Join(caseDir, "raw"))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	index, err := os.ReadFile(filepath.Join(caseDir, "INDEX.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "windows_pslist.txt")
	assert.Contains(t, string(index), "windows_netscan.txt")
	assert.NotContains(t, string(index), "windows_malfind.txt")
}

// TestRunCommand_Rerun_RefreshesIndexKeepsStaleCaptures tests re-running
// the same case directory with a different plugin set.
func TestRunCommand_Rerun_RefreshesIndexKeepsStaleCaptures(t *testing.T) {
	toolDir := t.TempDir()
	writeFakeVol(t, toolDir, "vol")
	isolateEnv(t, toolDir)

	caseDir := filepath.Join(t.TempDir(), "CASE003")

	root := NewRootCommand()
	root.SetArgs([]string{"run", "-f", "mem.raw", "-o", caseDir,
		"--plugins", "windows.pslist"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	root = NewRootCommand()
	root.SetArgs([]string{"run", "-f", "mem.raw", "-o", caseDir,
		"--plugins", "windows.netscan"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	// The first run's capture stays on disk; only the index is refreshed.
	assert.FileExists(t, filepath.Join(caseDir, "raw", "windows_pslist.txt"))

	index, err := os.ReadFile(filepath.Join(caseDir, "INDEX.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "windows_netscan.txt")
	assert.NotContains(t, string(index), "windows_pslist.txt")
}

// TestRunCommand_PluginFailure_IsNonFatal tests that a crashing plugin
// does not abort the run or the command.
func TestRunCommand_PluginFailure_IsNonFatal(t *testing.T) {
	toolDir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Skip("fake tool scripts require a POSIX shell")
	}
	script := `#!/bin/sh
if [ "$1" = "-h" ]; then exit 0; fi
case "$3" in
  windows.pstree)
    echo "Traceback: unsupported plugin" >&2
    exit 1
    ;;
  *)
    echo "plugin=$3"
    ;;
esac
`
	require.NoError(t, os.WriteFile(filepath.Join(toolDir, "vol"), []byte(script), 0o755))
	isolateEnv(t, toolDir)

	caseDir := filepath.Join(t.TempDir(), "CASE004")

	root := NewRootCommand()
	root.SetArgs([]string{"run", "-f", "mem.raw", "-o", caseDir,
		"--plugins", "windows.pslist,windows.pstree,windows.netscan"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	failed, err := os.ReadFile(filepath.Join(caseDir, "raw", "windows_pstree.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(failed), "Traceback", "error text is captured verbatim")

	index, err := os.ReadFile(filepath.Join(caseDir, "INDEX.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "windows_pstree.txt", "failed plugins still appear in the index")
}

// TestExecute_ToolMissing_ExitsWithDedicatedCode tests exit code mapping
func TestExecute_ToolMissing_ExitsWithDedicatedCode(t *testing.T) {
	isolateEnv(t, t.TempDir()) // PATH holds no vol at all

	caseDir := filepath.Join(t.TempDir(), "CASE005")

	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"memtriage", "run", "-f", "mem.raw", "-o", caseDir}

	code := Execute(context.Background())
	assert.Equal(t, ExitToolNotFound, code)

	_, statErr := os.Stat(caseDir)
	assert.True(t, os.IsNotExist(statErr), "no case directory contents may be created")
}

// TestExecute_UsageError_ExitsWithGenericCode tests the generic error path
func TestExecute_UsageError_ExitsWithGenericCode(t *testing.T) {
	isolateEnv(t, t.TempDir())

	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"memtriage", "run"} // required flags missing

	code := Execute(context.Background())
	assert.Equal(t, ExitError, code)
}

// TestRunCommand_IndexOrderMatchesSuppliedOrder tests index ordering
func TestRunCommand_IndexOrderMatchesSuppliedOrder(t *testing.T) {
	toolDir := t.TempDir()
	writeFakeVol(t, toolDir, "vol")
	isolateEnv(t, toolDir)

	caseDir := filepath.Join(t.TempDir(), "CASE006")

	root := NewRootCommand()
	root.SetArgs([]string{"run", "-f", "mem.raw", "-o", caseDir,
		"--plugins", "windows.netscan,windows.pslist"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	index, err := os.ReadFile(filepath.Join(caseDir, "INDEX.md"))
	require.NoError(t, err)

	netscan := strings.Index(string(index), "windows_netscan.txt")
	pslist := strings.Index(string(index), "windows_pslist.txt")
	require.NotEqual(t, -1, netscan)
	require.NotEqual(t, -1, pslist)
	assert.Less(t, netscan, pslist, "index order must match the supplied plugin order")
}
