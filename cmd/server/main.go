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

	"fakeout/internal/app"
	"fakeout/internal/config"
	httpTransport "fakeout/internal/transport/http"
)

func main() {
	cfg := config.Load()

	var logger *slog.Logger
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}

	slog.SetDefault(logger)

	logger.Info("starting fakeout game server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	art := app.NewHTTPArtSource(cfg.Art.APIURL, cfg.Art.APIKey)
	notifier := app.NewHTTPWinnerNotifier(cfg.Reward.WebhookURL, cfg.Reward.SharedSecret)

	hub := app.NewHub(app.NewTickScheduler(), art, notifier, cfg.Admin.SharedSecret, cfg.Game.RoomCodeLength, cfg.Game.MaxPlayers, logger)
	defer hub.Close()

	server := httpTransport.NewServer(cfg, hub, logger)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
