package voltool

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/EdwardHuber/process-triage-dashboard/internal/core/domain"
	"github.com/EdwardHuber/process-triage-dashboard/internal/core/triage"
)

// DefaultImageFlag is the flag Volatility 3 takes the memory image under.
const DefaultImageFlag = "-f"

// Runner executes individual plugins, redirecting the child's stdout and
// stderr into a single capture file. One child at a time; the caller
// drives the sequencing.
type Runner struct {
	imageFlag string
}

// NewRunner creates a Runner. An empty imageFlag falls back to the default.
func NewRunner(imageFlag string) *Runner {
	if imageFlag == "" {
		imageFlag = DefaultImageFlag
	}
	return &Runner{imageFlag: imageFlag}
}

// Run invokes `<tool> <imageFlag> <imagePath> <plugin> [extraArgs...]`,
// capturing combined output verbatim into outputPath (truncated on open)
// and blocking until the child exits. The child's exit status is recorded
// but never treated as a run failure; triage wants whatever text the tool
// produced, error output included.
func (r *Runner) Run(ctx context.Context, tool, imagePath string, plugin domain.Plugin, outputPath string, extraArgs []string) triage.RunRecord {
	record := triage.RunRecord{
		Plugin:     plugin,
		OutputPath: outputPath,
		StartedAt:  time.Now(),
	}

	// Never truncate a prior capture for a run that cannot start.
	if err := ctx.Err(); err != nil {
		record.ExitCode = -1
		record.Err = err.Error()
		return record
	}

	out, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		record.ExitCode = -1
		record.Err = err.Error()
		return record
	}
	defer out.Close()

	args := make([]string, 0, 3+len(extraArgs))
	args = append(args, r.imageFlag, imagePath, plugin.Name())
	args = append(args, extraArgs...)

	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Stdout = out
	cmd.Stderr = out

	runErr := cmd.Run()
	record.Duration = time.Since(record.StartedAt)

	switch {
	case runErr == nil:
		record.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			record.ExitCode = exitErr.ExitCode()
		} else {
			record.ExitCode = -1
		}
		record.Err = runErr.Error()
	}

	return record
}
