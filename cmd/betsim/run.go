package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/alejandrodnm/betsim/internal/application/engine"
)

const stopFile = "STOP"

// runLoop drives the engine until the context is cancelled or a STOP file
// appears in the working directory. The file is a convenience for detached
// runs where Ctrl+C is not available.
func runLoop(ctx context.Context, eng *engine.Engine) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go watchStopFile(ctx, cancel)

	slog.Info("simulation started — press Ctrl+C or create STOP file to exit")
	if err := eng.Run(ctx); err != nil {
		slog.Error("engine exited with error", "err", err)
	}
}

func watchStopFile(ctx context.Context, cancel context.CancelFunc) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := os.Stat(stopFile); err == nil {
				slog.Info("STOP file detected — shutting down simulation")
				os.Remove(stopFile)
				cancel()
				return
			}
		}
	}
}
