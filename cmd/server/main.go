package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/imposteur-game/lobby-server/internal/config"
	"github.com/imposteur-game/lobby-server/internal/factory"
	"github.com/imposteur-game/lobby-server/internal/server"
	"github.com/imposteur-game/lobby-server/internal/storage/memory"
	redisstorage "github.com/imposteur-game/lobby-server/internal/storage/redis"
	"github.com/imposteur-game/lobby-server/internal/transport/ws"
)

// sessionSweepInterval is how often the memory backend reclaims
// expired sessions; the redis backend expires keys itself
const sessionSweepInterval = time.Hour

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	factoryCfg := factory.Config{
		StorageType: cfg.StorageType,
		SessionTTL:  cfg.SessionTTL,
		Logger:      logger,
	}

	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if memStore, ok := app.Storage.(*memory.Storage); ok {
		go sweepSessions(ctx, memStore, logger)
	}

	router := ws.NewRouter(app.Handler, logger)

	serverCfg := server.DefaultConfig()
	serverCfg.Port = cfg.Port
	srv := server.New(router, serverCfg, logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info("server started", slog.String("addr", srv.Addr()))

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// sweepSessions periodically reclaims expired sessions from the
// in-memory store
func sweepSessions(ctx context.Context, store *memory.Storage, logger *slog.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := store.SweepExpiredSessions(ctx); removed > 0 {
				logger.Info("expired sessions swept", slog.Int("removed", removed))
			}
		}
	}
}
