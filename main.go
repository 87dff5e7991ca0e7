package main

import (
	"context"
	"os"
	"os/signal"

	"gapcheck/internal/cli"
)

func main() {
	// An operator interrupt cancels the run context; the session runner
	// kills its child processes and unwinds with a non-zero exit.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
