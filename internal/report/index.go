// Package report renders the per-case Markdown index.
package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/EdwardHuber/process-triage-dashboard/internal/core/triage"
)

// stampLayout matches the compact timestamp used in the index header.
const stampLayout = "20060102-150405"

// reviewHints is the static triage checklist appended to every index.
// Nothing in here is derived from captured plugin output.
const reviewHints = `## Quick Review Hints
- pslist / pstree: odd parent-child pairs, short-lived procs, unusual names.
- netscan: unexpected outbound connections, high ports, shells with net.
- dlllist: unsigned or unusual DLL paths in user-writable dirs.
- cmdline: suspicious flags, base64 strings, LOLBins.
- malfind: injected code regions (follow up only in a lab environment).`

// IndexWriter writes INDEX.md into the case directory, overwriting any
// prior content.
type IndexWriter struct{}

// NewIndexWriter creates an IndexWriter.
func NewIndexWriter() *IndexWriter {
	return &IndexWriter{}
}

// Write renders the summary and persists it to the case directory's fixed
// index filename.
func (w *IndexWriter) Write(summary triage.Summary) error {
	content := Render(summary)
	if err := os.WriteFile(summary.CaseDir.IndexPath(), []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

// Render produces the full Markdown document for a summary: timestamped
// header, run metadata, one output line per plugin in run order, then the
// static review hints.
func Render(summary triage.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Memory Forensics Triage — %s\n", summary.StartedAt.Format(stampLayout))
	fmt.Fprintf(&b, "- Image: `%s`\n", summary.ImagePath)
	fmt.Fprintf(&b, "- Volatility: `%s`\n", summary.Tool)
	fmt.Fprintf(&b, "- Run ID: `%s`\n", summary.RunID)

	names := make([]string, 0, len(summary.Records))
	for _, rec := range summary.Records {
		names = append(names, rec.Plugin.Name())
	}
	fmt.Fprintf(&b, "- Plugins: %s\n", strings.Join(names, ", "))

	b.WriteString("\n## Outputs\n")
	for _, rec := range summary.Records {
		fmt.Fprintf(&b, "- `%s`\n", rec.OutputPath)
	}

	b.WriteString("\n")
	b.WriteString(reviewHints)
	b.WriteString("\n")

	return b.String()
}
