package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/gridlive/gridlive/internal/dependencies/clock"
	"github.com/gridlive/gridlive/internal/dependencies/random"
	"github.com/gridlive/gridlive/internal/gateway"
	"github.com/gridlive/gridlive/internal/services/registry"
	"github.com/gridlive/gridlive/internal/services/session"
	"github.com/gridlive/gridlive/internal/storage"
	"github.com/gridlive/gridlive/internal/storage/memory"
	redisstorage "github.com/gridlive/gridlive/internal/storage/redis"
	"github.com/gridlive/gridlive/internal/transport/ws"
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

	// Engine
	Registry          *registry.Service
	SessionController *session.Controller

	// Transport
	Hub     *ws.Hub
	Gateway *gateway.Gateway
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired around one
// engine instance.
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	registryService := registry.New(store, clk, rnd, logger)
	sessionController := session.NewController(store, registryService, clk, rnd, logger)

	hub := ws.NewHub(rnd, logger)
	gw := gateway.New(registryService, sessionController, hub, logger)
	hub.SetDispatcher(gw)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		Registry:          registryService,
		SessionController: sessionController,
		Hub:               hub,
		Gateway:           gw,
	}
}
