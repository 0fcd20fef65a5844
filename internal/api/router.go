package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/snatchgame-go/internal/api/handler"
	"github.com/mcoot/snatchgame-go/internal/api/middleware"
	"github.com/mcoot/snatchgame-go/internal/dependencies/clock"
	basemiddleware "github.com/mcoot/snatchgame-go/internal/middleware"
	"github.com/mcoot/snatchgame-go/internal/services/auth"
	"github.com/mcoot/snatchgame-go/internal/services/game"
	"github.com/mcoot/snatchgame-go/internal/services/room"
	"github.com/mcoot/snatchgame-go/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Clock          clock.Clock
	AuthService    *auth.Service
	RoomController *room.Controller
	GameController *game.Controller
	HubManager     *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	roomHandler := handler.NewRoomHandler(cfg.RoomController, cfg.HubManager, cfg.Clock, cfg.Logger)
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.HubManager, cfg.Clock, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := basemiddleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/upgrade", playerHandler.Upgrade).Methods(http.MethodPost)
	playerProtected.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)

	// Room routes (all require auth)
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Use(authMiddleware)
	rooms.HandleFunc("", roomHandler.Create).Methods(http.MethodPost)
	rooms.HandleFunc("", roomHandler.ListPublic).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}", roomHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}/join", roomHandler.Join).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/leave", roomHandler.Leave).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/config", roomHandler.UpdateConfig).Methods(http.MethodPatch)
	rooms.HandleFunc("/{code}/transfer-host", roomHandler.TransferHost).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/start", roomHandler.StartGame).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/end", roomHandler.EndGame).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/events", roomHandler.Events).Methods(http.MethodGet)

	// Game routes (all require auth)
	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("/{game_id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{game_id}/flip", gameHandler.Flip).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}/claim", gameHandler.RequestClaim).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}/claim/submit", gameHandler.SubmitClaim).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}/presteals", gameHandler.AddPreSteal).Methods(http.MethodPost)
	games.HandleFunc("/{game_id}/presteals/{entry_id}", gameHandler.RemovePreSteal).Methods(http.MethodDelete)
	games.HandleFunc("/{game_id}/presteals/{entry_id}", gameHandler.ReorderPreSteal).Methods(http.MethodPatch)
	games.HandleFunc("/{game_id}/replay", gameHandler.Replay).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
