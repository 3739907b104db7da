package triage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/EdwardHuber/process-triage-dashboard/internal/core/domain"
)

// Request describes a single triage run.
type Request struct {
	ImagePath string
	CaseDir   domain.CaseDir
	Plugins   []domain.Plugin
	ExtraArgs []string
}

// Service orchestrates a triage run: locate the tool, prepare the case
// directory, execute each plugin strictly in order, then write the index.
type Service struct {
	locator  ToolLocator
	runner   PluginRunner
	reporter ReportWriter
	observer Observer
	logger   *zap.Logger
}

// NewService wires a triage service from its collaborators. A nil observer
// is replaced with a no-op.
func NewService(locator ToolLocator, runner PluginRunner, reporter ReportWriter, observer Observer, logger *zap.Logger) *Service {
	if observer == nil {
		observer = NopObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		locator:  locator,
		runner:   runner,
		reporter: reporter,
		observer: observer,
		logger:   logger,
	}
}

// Run executes the full triage. Locating the tool happens before any case
// directory content is created, so a missing tool leaves the filesystem
// untouched. Per-plugin failures are recorded, never fatal.
func (s *Service) Run(ctx context.Context, req Request) (Summary, error) {
	if len(req.Plugins) == 0 {
		return Summary{}, fmt.Errorf("no plugins requested")
	}

	tool, err := s.locator.Locate(ctx)
	if err != nil {
		return Summary{}, err
	}
	s.logger.Info("resolved analysis tool", zap.String("tool", tool))

	if err := req.CaseDir.Prepare(); err != nil {
		return Summary{}, err
	}

	summary := Summary{
		RunID:     uuid.NewString(),
		ImagePath: req.ImagePath,
		Tool:      tool,
		StartedAt: time.Now(),
		CaseDir:   req.CaseDir,
		Records:   make([]RunRecord, 0, len(req.Plugins)),
	}

	total := len(req.Plugins)
	for i, plugin := range req.Plugins {
		// An interrupt must stop the run without touching the remaining
		// plugins' prior captures and without rewriting the index.
		if err := ctx.Err(); err != nil {
			s.logger.Warn("run interrupted",
				zap.String("plugin", plugin.Name()),
				zap.Int("completed", len(summary.Records)),
			)
			return summary, err
		}

		outputPath := req.CaseDir.OutputPath(plugin)

		s.observer.PluginStarted(i, total, plugin, outputPath)
		s.logger.Info("running plugin",
			zap.String("plugin", plugin.Name()),
			zap.String("output", outputPath),
		)

		record := s.runner.Run(ctx, tool, req.ImagePath, plugin, outputPath, req.ExtraArgs)
		summary.Records = append(summary.Records, record)

		s.observer.PluginFinished(i, total, record)
		s.logger.Info("plugin finished",
			zap.String("plugin", plugin.Name()),
			zap.Int("exit_code", record.ExitCode),
			zap.Duration("duration", record.Duration),
		)
	}

	if err := s.reporter.Write(summary); err != nil {
		return summary, fmt.Errorf("failed to write case index: %w", err)
	}
	s.logger.Info("case saved",
		zap.String("case_dir", req.CaseDir.Root()),
		zap.String("run_id", summary.RunID),
	)

	return summary, nil
}
