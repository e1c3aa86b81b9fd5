package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/deusflow/newsbot/internal/app"
	"github.com/deusflow/newsbot/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		logger.Error("run failed", "error", err)
		stop()
		os.Exit(1)
	}
}
