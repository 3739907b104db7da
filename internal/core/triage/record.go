package triage

import (
	"time"

	"github.com/EdwardHuber/process-triage-dashboard/internal/core/domain"
)

// RunRecord captures what happened when a single plugin was executed.
// The exit code and error text are informational only; the run loop never
// branches on them.
type RunRecord struct {
	Plugin     domain.Plugin
	OutputPath string
	StartedAt  time.Time
	Duration   time.Duration
	ExitCode   int
	Err        string
}

// Summary describes a completed triage run, in the order the plugins were
// attempted. It is the input to the report writer.
type Summary struct {
	RunID     string
	ImagePath string
	Tool      string
	StartedAt time.Time
	CaseDir   domain.CaseDir
	Records   []RunRecord
}

// Plugins returns the attempted plugins in run order.
func (s Summary) Plugins() []domain.Plugin {
	plugins := make([]domain.Plugin, 0, len(s.Records))
	for _, rec := range s.Records {
		plugins = append(plugins, rec.Plugin)
	}
	return plugins
}
