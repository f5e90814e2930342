// Package main is the entry point for the dtask CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dtask/internal/backend"
	"dtask/internal/cli"
	"dtask/internal/commands"
	"dtask/internal/config"
	"dtask/internal/logging"
	"dtask/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		logger := logging.New(os.Stderr, cfg.Debug)
		logger.Debug("opening task store", "backend", cfg.Backend, "collection", cfg.Collection)
		return backend.Open(ctx, cfg, logger)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}
