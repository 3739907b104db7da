package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EdwardHuber/process-triage-dashboard/internal/config"
	"github.com/EdwardHuber/process-triage-dashboard/internal/core/domain"
	"github.com/EdwardHuber/process-triage-dashboard/internal/core/triage"
	"github.com/EdwardHuber/process-triage-dashboard/internal/infrastructure/voltool"
	"github.com/EdwardHuber/process-triage-dashboard/internal/logging"
	"github.com/EdwardHuber/process-triage-dashboard/internal/report"
)

// RunFlags holds command-line flags for the run command.
type RunFlags struct {
	ImagePath string
	OutDir    string
	Plugins   []string
	ExtraArgs []string
	Live      bool
}

// newRunCommand creates the run subcommand.
func newRunCommand() *cobra.Command {
	flags := &RunFlags{}

	cmd := &cobra.Command{
		Use:   "run -f <image> -o <case-dir>",
		Short: "Run a triage pass against a memory image",
		Long: `Run a triage pass against a memory image.

Each requested plugin is executed strictly in order, one at a time, and
its combined stdout/stderr is captured verbatim into <case-dir>/raw/.
Plugin failures are non-fatal: whatever text the tool produced is kept
and the run moves on. After the last plugin, <case-dir>/INDEX.md is
written with the run summary and a static review checklist.

Examples:
  # Default triage set (pslist, pstree, netscan, dlllist, cmdline, malfind)
  memtriage run -f mem.raw -o cases/CASE001

  # Explicit plugin selection
  memtriage run -f mem.raw -o cases/CASE001 --plugins windows.pslist,windows.netscan

  # Live progress view
  memtriage run -f mem.raw -o cases/CASE001 --live`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTriage(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.ImagePath, "file", "f", "", "Memory image (e.g. mem.raw)")
	cmd.Flags().StringVarP(&flags.OutDir, "outdir", "o", "", "Case output directory (e.g. cases/CASE001)")
	cmd.Flags().StringSliceVar(&flags.Plugins, "plugins", nil, "Plugins to run, overriding the default triage set")
	cmd.Flags().StringSliceVar(&flags.ExtraArgs, "extra-args", nil, "Extra arguments appended to every plugin invocation")
	cmd.Flags().BoolVar(&flags.Live, "live", false, "Show a live progress view instead of log output")

	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("outdir")

	return cmd
}

// runTriage wires the triage service from configuration and executes it.
func runTriage(cmd *cobra.Command, flags *RunFlags) error {
	ctx := cmd.Context()

	configFile, _ := cmd.Flags().GetString("config")
	debugMode, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	pluginNames := flags.Plugins
	if len(pluginNames) == 0 {
		pluginNames = cfg.Plugins
	}
	plugins, err := domain.NewPlugins(pluginNames)
	if err != nil {
		return err
	}

	caseDir, err := domain.NewCaseDir(flags.OutDir)
	if err != nil {
		return err
	}

	req := triage.Request{
		ImagePath: flags.ImagePath,
		CaseDir:   caseDir,
		Plugins:   plugins,
		ExtraArgs: flags.ExtraArgs,
	}

	locator := voltool.NewLocator(cfg.Candidates, cfg.AcceptExitCodes)
	runner := voltool.NewRunner(cfg.ImageFlag)
	writer := report.NewIndexWriter()

	if flags.Live {
		return runLive(ctx, cmd.OutOrStdout(), locator, runner, writer, req)
	}

	logger, err := logging.NewLogger(cfg.LogLevel, debugMode)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	svc := triage.NewService(locator, runner, writer, nil, logger)
	summary, err := svc.Run(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Case saved to: %s\n", summary.CaseDir.Root())
	return nil
}
