package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"polyprompt/cli"
)

const (
	Version = "v0.1.0"
	License = "Apache-2.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, Version); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
