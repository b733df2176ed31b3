package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pcbrender/cmd/pcbrender/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cmd.NewRoot(ctx).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
