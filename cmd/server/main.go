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

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/sitewalk-tasks/internal/app"
	"github.com/yukikurage/sitewalk-tasks/internal/config"
	"github.com/yukikurage/sitewalk-tasks/internal/handlers"
	"github.com/yukikurage/sitewalk-tasks/internal/middleware"
	"github.com/yukikurage/sitewalk-tasks/internal/scheduler"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}

	// Weekly digest
	if cfg.Digest.Enabled {
		digest := scheduler.NewDigestScheduler(a.EmailService, cfg.Digest.Schedule)
		if err := digest.Start(); err != nil {
			slog.Error("failed to start digest scheduler", "error", err)
			os.Exit(1)
		}
		defer digest.Stop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS())
	handlers.RegisterRoutes(r, a.Handlers())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
}
