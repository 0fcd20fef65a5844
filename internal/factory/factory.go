package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/snatchgame-go/internal/dependencies/clock"
	"github.com/mcoot/snatchgame-go/internal/dependencies/random"
	"github.com/mcoot/snatchgame-go/internal/services/auth"
	"github.com/mcoot/snatchgame-go/internal/services/dictionary"
	"github.com/mcoot/snatchgame-go/internal/services/game"
	"github.com/mcoot/snatchgame-go/internal/services/replay"
	"github.com/mcoot/snatchgame-go/internal/services/resolver"
	"github.com/mcoot/snatchgame-go/internal/services/room"
	"github.com/mcoot/snatchgame-go/internal/storage"
	"github.com/mcoot/snatchgame-go/internal/storage/memory"
	redisstorage "github.com/mcoot/snatchgame-go/internal/storage/redis"
	"github.com/mcoot/snatchgame-go/internal/web/sse"
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
	DictionaryService *dictionary.Service
	ResolverService   *resolver.Service
	Recorder          *replay.Recorder
	GameController    *game.Controller
	RoomController    *room.Controller
	AuthService       *auth.Service
	HubManager        *sse.HubManager
}

// Config holds configuration for the application factory
type Config struct {
	// DictionaryPath is the path to the dictionary file (optional)
	// If empty, dictionary must be loaded manually
	DictionaryPath string
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
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

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, authCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	// Create services
	dictService := dictionary.New(store)
	resolverService := resolver.New(dictService)
	recorder := replay.New()
	gameController := game.NewController(store, resolverService, recorder, clk, rnd, logger)
	roomController := room.NewController(store, gameController, clk, rnd)
	authService := auth.New(store, clk, rnd, authCfg)
	hubManager := sse.NewHubManager(logger)

	// Timer-driven mutations (reveals, window expiries, the end
	// countdown) have no request in flight to broadcast from, so the
	// game controller reports them through this hook
	gameController.SetEvents(&engineEvents{
		broadcaster:    sse.NewBroadcaster(hubManager, logger),
		roomController: roomController,
		logger:         logger,
	})

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		DictionaryService: dictService,
		ResolverService:   resolverService,
		Recorder:          recorder,
		GameController:    gameController,
		RoomController:    roomController,
		AuthService:       authService,
		HubManager:        hubManager,
	}
}
