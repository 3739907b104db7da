package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/EdwardHuber/process-triage-dashboard/internal/infrastructure/voltool"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// Exit codes. ExitToolNotFound is distinct so wrappers can tell "install
// Volatility" apart from generic failures.
const (
	ExitOK           = 0
	ExitError        = 1
	ExitToolNotFound = 2
)

// NewRootCommand builds the base command when called without any
// subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "memtriage",
		Short: "Memory forensics triage over Volatility 3",
		Long: `memtriage runs a quick, broad triage pass over a memory image.

It locates an installed Volatility 3 binary, runs a set of analysis
plugins against the image one at a time, saves each plugin's raw output
into a case directory, and writes a Markdown index summarizing the run.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default is $HOME/.memtriage.yaml)")

	rootCmd.AddCommand(newRunCommand())

	return rootCmd
}

// goVersion returns the Go version used to build the binary.
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// Execute runs the root command and maps the outcome to a process exit
// code. A missing analysis tool gets its own code and a hint, since the
// fix is an environment change rather than a usage change.
func Execute(ctx context.Context) int {
	rootCmd := NewRootCommand()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, voltool.ErrToolNotFound) {
			fmt.Fprintf(os.Stderr, "[!] %v. Add it to PATH.\n", err)
			return ExitToolNotFound
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	return ExitOK
}
