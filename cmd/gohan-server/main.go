package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gohan-planner/internal/app"
	"gohan-planner/internal/auth"
	"gohan-planner/internal/config"
	"gohan-planner/internal/logger"
	"gohan-planner/internal/server"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Wire storage, generation and notifications
	rt, err := app.Build(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to initialize application", "error", err)
	}
	defer rt.Close()

	if cfg.SitePassword == "" {
		lg.Warn("SITE_PASSWORD not set, every page is public")
	}
	gate := auth.NewGate(cfg.SitePassword, cfg.IsProduction())

	// 3. Start Server with Graceful Shutdown
	srv, err := server.New(rt.App, gate, lg, server.Options{
		Addr:               ":" + cfg.Port,
		DataDir:            cfg.DataDir,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Production:         cfg.IsProduction(),
	})
	if err != nil {
		lg.Fatal("failed to build http server", "error", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			lg.Error("server stopped", "error", err)
			os.Exit(1)
		}
		return
	case <-ctx.Done():
	}
	lg.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		lg.Error("server forced to shutdown", "error", err)
	}

	lg.Info("server exiting")
}
