package triage

import (
	"context"

	"github.com/EdwardHuber/process-triage-dashboard/internal/core/domain"
)

// ToolLocator resolves the Volatility 3 command to invoke.
type ToolLocator interface {
	// Locate returns the first usable command name. It must not touch the
	// case directory; a failed lookup is the one fatal condition of a run.
	Locate(ctx context.Context) (string, error)
}

// PluginRunner executes a single plugin against a memory image, capturing
// the child's combined stdout and stderr into outputPath.
type PluginRunner interface {
	Run(ctx context.Context, tool, imagePath string, plugin domain.Plugin, outputPath string, extraArgs []string) RunRecord
}

// ReportWriter renders and persists the case index after all plugins have
// been attempted.
type ReportWriter interface {
	Write(summary Summary) error
}

// Observer receives progress notifications during a run. Implementations
// must be cheap; they are called inline between sequential plugin
// executions.
type Observer interface {
	PluginStarted(index, total int, plugin domain.Plugin, outputPath string)
	PluginFinished(index, total int, record RunRecord)
}

// NopObserver is an Observer that ignores every notification.
type NopObserver struct{}

func (NopObserver) PluginStarted(int, int, domain.Plugin, string) {}

func (NopObserver) PluginFinished(int, int, RunRecord) {}
