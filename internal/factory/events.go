package factory

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/snatchgame-go/internal/model"
	"github.com/mcoot/snatchgame-go/internal/services/game"
	"github.com/mcoot/snatchgame-go/internal/services/room"
	"github.com/mcoot/snatchgame-go/internal/web/sse"
)

// engineEvents relays timer-driven game mutations to SSE clients and,
// when a game ends on its own countdown, returns the room to its ended
// state. Callbacks run with the game's runtime lock held, so they only
// read the game synchronously and never call back into the game
// controller.
type engineEvents struct {
	broadcaster    *sse.Broadcaster
	roomController *room.Controller
	logger         *slog.Logger
}

var _ game.Events = (*engineEvents)(nil)

func (e *engineEvents) FlipStarted(g *model.Game) {
	e.broadcaster.BroadcastFlipStarted(g)
}

func (e *engineEvents) TileRevealed(g *model.Game, tile model.Tile) {
	e.broadcaster.BroadcastTileRevealed(g, tile)
}

func (e *engineEvents) ClaimResolved(g *model.Game, event model.ClaimEvent) {
	e.broadcaster.BroadcastClaimResolved(g, event)
}

func (e *engineEvents) ClaimWindowExpired(g *model.Game, playerID model.PlayerID) {
	e.broadcaster.BroadcastClaimClosed(g, playerID)
}

func (e *engineEvents) GameEnded(g *model.Game) {
	e.broadcaster.BroadcastGameEnded(g)

	// The room controller only touches storage here, never the game
	// controller, so this is safe from inside the hook. A host-driven
	// end has already completed the room by the time the game ends.
	err := e.roomController.CompleteGame(context.Background(), g.RoomCode)
	if err != nil && !errors.Is(err, model.ErrNoGameInProgress) {
		e.logger.Error("failed to complete room after game end",
			slog.String("room_code", string(g.RoomCode)),
			slog.String("game_id", string(g.ID)),
			slog.String("error", err.Error()),
		)
		return
	}

	e.broadcaster.BroadcastStateChanged(g.RoomCode, g.ID)
}
