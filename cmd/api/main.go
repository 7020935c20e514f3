package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"tasksAPI/internal/app"
	"tasksAPI/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg).Init(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(ctx)
}
