package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/admin/astro/rashi-api/internal/app"
)

const (
	appName   = "rashi_api"
	envPrefix = "RASHI_API"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := app.NewEnvConfig(envPrefix)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	a, err := app.New(appName, cfg)
	if err != nil {
		return fmt.Errorf("failed to init app: %w", err)
	}

	return a.Run(ctx)
}
