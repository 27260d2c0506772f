package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/imposteur-game/lobby-server/internal/dependencies/clock"
	"github.com/imposteur-game/lobby-server/internal/dependencies/random"
	"github.com/imposteur-game/lobby-server/internal/services/handshake"
	"github.com/imposteur-game/lobby-server/internal/services/room"
	"github.com/imposteur-game/lobby-server/internal/storage"
	"github.com/imposteur-game/lobby-server/internal/storage/memory"
	redisstorage "github.com/imposteur-game/lobby-server/internal/storage/redis"
	"github.com/imposteur-game/lobby-server/internal/transport/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Handshake  *handshake.Service
	Registry   *room.Registry
	Controller *room.Controller

	// Transport
	Hub     *ws.Hub
	Handler *ws.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// SessionTTL bounds session retention (zero means the backend default)
	SessionTTL time.Duration
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()
	rnd := random.New()

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New(clk, memory.Config{SessionTTL: cfg.SessionTTL})
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisCfg := *cfg.RedisConfig
		if cfg.SessionTTL > 0 {
			redisCfg.SessionTTL = cfg.SessionTTL
		}
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	hub := ws.NewHub(logger)
	registry := room.NewRegistry(store, clk, rnd)
	controller := room.NewController(store, registry, hub, clk, logger)
	handshakeService := handshake.New(store, clk, logger)
	handler := ws.NewHandler(hub, handshakeService, controller, logger)

	return &App{
		Storage:    store,
		Clock:      clk,
		Random:     rnd,
		Handshake:  handshakeService,
		Registry:   registry,
		Controller: controller,
		Hub:        hub,
		Handler:    handler,
	}
}
