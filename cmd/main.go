package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/brightsteps/sessionscribe-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Start(); err != nil {
		a.Log.Error("Failed to start background plumbing", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("Server listening", "addr", a.Cfg.Addr)
		return a.Run(a.Cfg.Addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		a.Log.Info("Shutting down...")
		return nil
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		a.Log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
