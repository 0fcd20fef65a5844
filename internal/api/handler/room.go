package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/snatchgame-go/internal/api/middleware"
	"github.com/mcoot/snatchgame-go/internal/api/request"
	"github.com/mcoot/snatchgame-go/internal/api/response"
	"github.com/mcoot/snatchgame-go/internal/dependencies/clock"
	"github.com/mcoot/snatchgame-go/internal/model"
	"github.com/mcoot/snatchgame-go/internal/services/room"
	"github.com/mcoot/snatchgame-go/internal/web/sse"
)

// RoomHandler handles room-related endpoints
type RoomHandler struct {
	roomController *room.Controller
	hubManager     *sse.HubManager
	broadcaster    *sse.Broadcaster
	clock          clock.Clock
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomController *room.Controller, hubManager *sse.HubManager, clk clock.Clock, logger *slog.Logger) *RoomHandler {
	var broadcaster *sse.Broadcaster
	if hubManager != nil {
		broadcaster = sse.NewBroadcaster(hubManager, logger)
	}
	return &RoomHandler{
		roomController: roomController,
		hubManager:     hubManager,
		broadcaster:    broadcaster,
		clock:          clk,
	}
}

// applyConfig overlays provided fields onto a config
func applyConfig(base model.RoomConfig, req request.RoomConfigRequest) model.RoomConfig {
	if req.MaxPlayers != nil {
		base.MaxPlayers = *req.MaxPlayers
	}
	if req.IsPublic != nil {
		base.IsPublic = *req.IsPublic
	}
	if req.FlipTimerEnabled != nil {
		base.FlipTimerEnabled = *req.FlipTimerEnabled
	}
	if req.FlipTimerSeconds != nil {
		base.FlipTimerSeconds = *req.FlipTimerSeconds
	}
	if req.ClaimTimerSeconds != nil {
		base.ClaimTimerSeconds = *req.ClaimTimerSeconds
	}
	if req.PreStealEnabled != nil {
		base.PreStealEnabled = *req.PreStealEnabled
	}
	return base
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body for default config
		req = request.CreateRoomRequest{}
	}

	config := applyConfig(model.DefaultRoomConfig(), req.Config)
	created, err := h.roomController.CreateRoom(r.Context(), *player, config)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(created))
}

// Get handles GET /api/v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	rm, err := h.roomController.GetRoom(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// ListPublic handles GET /api/v1/rooms
func (h *RoomHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.roomController.ListPublicRooms(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	summaries := make([]response.RoomSummary, len(rooms))
	for i, rm := range rooms {
		summaries[i] = response.RoomSummaryFromModel(rm)
	}
	response.JSON(w, http.StatusOK, summaries)
}

// Join handles POST /api/v1/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	if err := h.roomController.JoinRoom(r.Context(), code, *player); err != nil {
		WriteError(w, err)
		return
	}

	rm, err := h.roomController.GetRoom(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.BroadcastPlayerJoined(code, *player)
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// Leave handles POST /api/v1/rooms/{code}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	if err := h.roomController.LeaveRoom(r.Context(), code, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.BroadcastPlayerLeft(code, player.ID, player.DisplayName)
	}

	response.NoContent(w)
}

// UpdateConfig handles PATCH /api/v1/rooms/{code}/config
func (h *RoomHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	rm, err := h.roomController.GetRoom(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	config := applyConfig(rm.Config, req.Config)
	if err := h.roomController.UpdateConfig(r.Context(), code, player.ID, config); err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.BroadcastStateChanged(code, "")
	}

	response.JSON(w, http.StatusOK, response.RoomConfigFromModel(config))
}

// TransferHost handles POST /api/v1/rooms/{code}/transfer-host
func (h *RoomHandler) TransferHost(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.TransferHostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.NewHostID == "" {
		WriteError(w, NewInvalidRequestError("new_host_id is required"))
		return
	}

	newHostID := model.PlayerID(req.NewHostID)
	if err := h.roomController.TransferHost(r.Context(), code, player.ID, newHostID); err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.BroadcastHostChanged(code, player.ID, newHostID)
	}

	response.NoContent(w)
}

// StartGame handles POST /api/v1/rooms/{code}/start
func (h *RoomHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	game, err := h.roomController.StartGame(r.Context(), code, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		rm, _ := h.roomController.GetRoom(r.Context(), code)
		if rm != nil {
			h.broadcaster.BroadcastGameStarted(rm, game)
		}
	}

	response.JSON(w, http.StatusCreated, response.GameStateFromModel(game, player.ID, h.clock.Now()))
}

// EndGame handles POST /api/v1/rooms/{code}/end
func (h *RoomHandler) EndGame(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	if err := h.roomController.EndGame(r.Context(), code, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.BroadcastStateChanged(code, "")
	}

	response.NoContent(w)
}

// Events handles GET /api/v1/rooms/{code}/events - the SSE stream
func (h *RoomHandler) Events(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	// Only members may subscribe
	rm, err := h.roomController.GetRoom(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}
	if rm.GetMember(player.ID) == nil {
		WriteError(w, model.ErrNotInRoom)
		return
	}

	hub := h.hubManager.GetOrCreateHub(code)
	sse.ServeSSE(w, r, hub, player.ID)
}
