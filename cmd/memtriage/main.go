package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/EdwardHuber/process-triage-dashboard/internal/interfaces/cli"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		// Kills the in-flight plugin via the command context. Partial
		// capture files are left in place on purpose.
		cancel()
	}()

	os.Exit(cli.Execute(ctx))
}
