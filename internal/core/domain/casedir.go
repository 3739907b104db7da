package domain

import (
	"fmt"
	"os"
	"path/filepath"
)

// IndexFileName is the fixed name of the Markdown summary inside a case
// directory.
const IndexFileName = "INDEX.md"

// rawDirName is the subdirectory holding per-plugin captures.
const rawDirName = "raw"

// CaseDir represents the per-investigation output folder. It is a pure
// value; nothing touches the filesystem until Prepare is called.
type CaseDir struct {
	root string
}

// NewCaseDir creates a CaseDir value object for the given path.
func NewCaseDir(root string) (CaseDir, error) {
	if root == "" {
		return CaseDir{}, fmt.Errorf("case directory path cannot be empty")
	}
	return CaseDir{root: root}, nil
}

// Root returns the case directory path as supplied.
func (c CaseDir) Root() string {
	return c.root
}

// RawDir returns the path of the raw-output subdirectory.
func (c CaseDir) RawDir() string {
	return filepath.Join(c.root, rawDirName)
}

// IndexPath returns the path of the Markdown index file.
func (c CaseDir) IndexPath() string {
	return filepath.Join(c.root, IndexFileName)
}

// OutputPath returns the capture file path for the given plugin.
func (c CaseDir) OutputPath(p Plugin) string {
	return filepath.Join(c.RawDir(), p.OutputFileName())
}

// Prepare creates the case directory and its raw subdirectory. It is
// idempotent; re-running against an existing case directory is the normal
// way to refresh a triage.
func (c CaseDir) Prepare() error {
	if err := os.MkdirAll(c.RawDir(), 0o755); err != nil {
		return fmt.Errorf("failed to prepare case directory %s: %w", c.root, err)
	}
	return nil
}

// String implements fmt.Stringer.
func (c CaseDir) String() string {
	return c.root
}
