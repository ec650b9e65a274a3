package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/onegoal/onegoal/internal/app"
	"github.com/onegoal/onegoal/internal/config"
	"github.com/onegoal/onegoal/internal/logger"
	"github.com/onegoal/onegoal/internal/metrics"
	"github.com/onegoal/onegoal/internal/middleware"
	"github.com/onegoal/onegoal/internal/routes"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
	defer logger.Flush()

	metrics.Register()

	app, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	if cfg.SchedulerEnabled {
		err = app.StartScheduler()
		if err != nil {
			slog.Error("failed to start scheduler", "error", err)
			os.Exit(1)
		}
		defer app.SchedulerService.Stop()
	}

	stopCleanup := make(chan struct{})
	defer close(stopCleanup)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	go limiter.CleanupLoop(stopCleanup)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      routes.SetupRoutes(app, limiter),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "url", "http://localhost:"+cfg.Port)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
}
