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
	"github.com/mcoot/snatchgame-go/internal/services/game"
	"github.com/mcoot/snatchgame-go/internal/web/sse"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	gameController *game.Controller
	hubManager     *sse.HubManager
	broadcaster    *sse.Broadcaster
	clock          clock.Clock
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller, hubManager *sse.HubManager, clk clock.Clock, logger *slog.Logger) *GameHandler {
	var broadcaster *sse.Broadcaster
	if hubManager != nil {
		broadcaster = sse.NewBroadcaster(hubManager, logger)
	}
	return &GameHandler{
		gameController: gameController,
		hubManager:     hubManager,
		broadcaster:    broadcaster,
		clock:          clk,
	}
}

// Get handles GET /api/v1/games/{game_id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	gameID := model.GameID(mux.Vars(r)["game_id"])

	g, err := h.gameController.ViewGame(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(g, player.ID, h.clock.Now()))
}

// Flip handles POST /api/v1/games/{game_id}/flip
func (h *GameHandler) Flip(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	gameID := model.GameID(mux.Vars(r)["game_id"])

	if err := h.gameController.Flip(r.Context(), gameID, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	g, err := h.gameController.ViewGame(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.BroadcastFlipStarted(g)
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(g, player.ID, h.clock.Now()))
}

// RequestClaim handles POST /api/v1/games/{game_id}/claim
func (h *GameHandler) RequestClaim(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	gameID := model.GameID(mux.Vars(r)["game_id"])

	window, err := h.gameController.RequestClaim(r.Context(), gameID, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		if g, err := h.gameController.ViewGame(r.Context(), gameID); err == nil {
			h.broadcaster.BroadcastClaimOpened(g)
		}
	}

	now := h.clock.Now()
	response.JSON(w, http.StatusOK, response.ClaimWindow{
		PlayerID: string(window.PlayerID),
		EndsInMs: window.EndsAt.Sub(now).Milliseconds(),
	})
}

// SubmitClaim handles POST /api/v1/games/{game_id}/claim/submit
func (h *GameHandler) SubmitClaim(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	gameID := model.GameID(mux.Vars(r)["game_id"])

	var req request.SubmitClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Word == "" {
		WriteError(w, NewInvalidRequestError("word is required"))
		return
	}

	event, err := h.gameController.SubmitClaim(r.Context(), gameID, player.ID, req.Word)
	if err != nil {
		// A failed submission still consumed the window
		if h.broadcaster != nil {
			if g, gerr := h.gameController.ViewGame(r.Context(), gameID); gerr == nil {
				h.broadcaster.BroadcastClaimClosed(g, player.ID)
			}
		}
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		if g, gerr := h.gameController.ViewGame(r.Context(), gameID); gerr == nil {
			h.broadcaster.BroadcastClaimResolved(g, *event)
			if g.Status == model.GameStatusEnded {
				h.broadcaster.BroadcastGameEnded(g)
			}
		}
	}

	response.JSON(w, http.StatusOK, response.ClaimEventFromModel(*event))
}

// AddPreSteal handles POST /api/v1/games/{game_id}/presteals
func (h *GameHandler) AddPreSteal(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	gameID := model.GameID(mux.Vars(r)["game_id"])

	var req request.AddPreStealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.TriggerLetters == "" {
		WriteError(w, NewInvalidRequestError("trigger_letters is required"))
		return
	}
	if req.ClaimWord == "" {
		WriteError(w, NewInvalidRequestError("claim_word is required"))
		return
	}

	entry, err := h.gameController.AddPreStealEntry(r.Context(), gameID, player.ID, req.TriggerLetters, req.ClaimWord)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PreStealEntryFromModel(*entry))
}

// RemovePreSteal handles DELETE /api/v1/games/{game_id}/presteals/{entry_id}
func (h *GameHandler) RemovePreSteal(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	entryID := model.PreStealEntryID(vars["entry_id"])

	if err := h.gameController.RemovePreStealEntry(r.Context(), gameID, player.ID, entryID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// ReorderPreSteal handles PATCH /api/v1/games/{game_id}/presteals/{entry_id}
func (h *GameHandler) ReorderPreSteal(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	vars := mux.Vars(r)
	gameID := model.GameID(vars["game_id"])
	entryID := model.PreStealEntryID(vars["entry_id"])

	var req request.ReorderPreStealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.gameController.ReorderPreStealEntry(r.Context(), gameID, player.ID, entryID, req.ToIndex); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Replay handles GET /api/v1/games/{game_id}/replay
func (h *GameHandler) Replay(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["game_id"])

	g, err := h.gameController.ViewGame(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	steps := make([]response.ReplayStep, len(g.Replay))
	for i, step := range g.Replay {
		var state any
		if err := json.Unmarshal(step.State, &state); err != nil {
			WriteError(w, NewInternalError())
			return
		}
		steps[i] = response.ReplayStep{
			Index:     step.Index,
			Kind:      string(step.Kind),
			Timestamp: step.Timestamp,
			State:     state,
		}
	}

	response.JSON(w, http.StatusOK, response.Replay{
		GameID: string(g.ID),
		Steps:  steps,
	})
}
