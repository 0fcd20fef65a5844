package sse

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mcoot/snatchgame-go/internal/model"
)

// Broadcaster pushes game and room events to SSE clients as JSON
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// send marshals the event and broadcasts it to the room's hub, if any.
// Rooms with no connected clients have no hub; that's not an error.
func (b *Broadcaster) send(event model.Event) {
	hub := b.hubManager.GetHub(event.RoomCode)
	if hub == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("sse failed to marshal event",
			slog.String("room", string(event.RoomCode)),
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(string(event.Type), string(data))
}

// BroadcastPlayerJoined announces a player joining a room
func (b *Broadcaster) BroadcastPlayerJoined(roomCode model.RoomCode, player model.Player) {
	b.send(model.Event{
		Type:      model.EventPlayerJoined,
		Timestamp: time.Now(),
		RoomCode:  roomCode,
		PlayerID:  player.ID,
		Payload:   model.PlayerJoinedPayload{Player: player},
	})
}

// BroadcastPlayerLeft announces a player leaving a room
func (b *Broadcaster) BroadcastPlayerLeft(roomCode model.RoomCode, playerID model.PlayerID, displayName string) {
	b.send(model.Event{
		Type:      model.EventPlayerLeft,
		Timestamp: time.Now(),
		RoomCode:  roomCode,
		PlayerID:  playerID,
		Payload:   model.PlayerLeftPayload{PlayerID: playerID, DisplayName: displayName},
	})
}

// BroadcastHostChanged announces a host transfer
func (b *Broadcaster) BroadcastHostChanged(roomCode model.RoomCode, oldHost, newHost model.PlayerID) {
	b.send(model.Event{
		Type:      model.EventHostChanged,
		Timestamp: time.Now(),
		RoomCode:  roomCode,
		PlayerID:  newHost,
		Payload:   model.HostChangedPayload{OldHostID: oldHost, NewHostID: newHost},
	})
}

// BroadcastGameStarted announces a new game in a room
func (b *Broadcaster) BroadcastGameStarted(room *model.Room, game *model.Game) {
	b.send(model.Event{
		Type:      model.EventGameStarted,
		Timestamp: time.Now(),
		RoomCode:  room.Code,
		GameID:    game.ID,
		Payload: model.GameStartedPayload{
			GameID:  game.ID,
			Players: game.TurnOrder,
			Config:  game.Config,
		},
	})
}

// BroadcastFlipStarted announces a flip with its reveal time
func (b *Broadcaster) BroadcastFlipStarted(game *model.Game) {
	if game.PendingFlip == nil {
		return
	}
	b.send(model.Event{
		Type:      model.EventFlipStarted,
		Timestamp: time.Now(),
		RoomCode:  game.RoomCode,
		GameID:    game.ID,
		PlayerID:  game.PendingFlip.PlayerID,
		Payload: model.FlipStartedPayload{
			PlayerID:  game.PendingFlip.PlayerID,
			RevealsAt: game.PendingFlip.RevealsAt,
		},
	})
}

// BroadcastTileRevealed announces a newly revealed center tile
func (b *Broadcaster) BroadcastTileRevealed(game *model.Game, tile model.Tile) {
	b.send(model.Event{
		Type:      model.EventTileRevealed,
		Timestamp: time.Now(),
		RoomCode:  game.RoomCode,
		GameID:    game.ID,
		Payload: model.TileRevealedPayload{
			Tile:         tile,
			NextPlayerID: game.TurnPlayerID(),
			BagRemaining: len(game.Bag),
		},
	})
}

// BroadcastClaimOpened announces an exclusive claim window opening
func (b *Broadcaster) BroadcastClaimOpened(game *model.Game) {
	if game.ClaimWindow == nil {
		return
	}
	b.send(model.Event{
		Type:      model.EventClaimOpened,
		Timestamp: time.Now(),
		RoomCode:  game.RoomCode,
		GameID:    game.ID,
		PlayerID:  game.ClaimWindow.PlayerID,
	})
}

// BroadcastClaimClosed announces a claim window closing without a claim
func (b *Broadcaster) BroadcastClaimClosed(game *model.Game, playerID model.PlayerID) {
	b.send(model.Event{
		Type:      model.EventClaimClosed,
		Timestamp: time.Now(),
		RoomCode:  game.RoomCode,
		GameID:    game.ID,
		PlayerID:  playerID,
	})
}

// BroadcastClaimResolved announces a successful claim, manual or automatic
func (b *Broadcaster) BroadcastClaimResolved(game *model.Game, event model.ClaimEvent) {
	b.send(model.Event{
		Type:      model.EventClaimResolved,
		Timestamp: time.Now(),
		RoomCode:  game.RoomCode,
		GameID:    game.ID,
		PlayerID:  event.PlayerID,
		Payload:   model.ClaimResolvedPayload{Event: event},
	})
}

// BroadcastGameEnded announces a finished game with final scores
func (b *Broadcaster) BroadcastGameEnded(game *model.Game) {
	scores := make(map[model.PlayerID]int, len(game.Players))
	var winner model.PlayerID
	best := -1
	tied := false
	for _, p := range game.Players {
		scores[p.ID] = p.Score
		switch {
		case p.Score > best:
			best = p.Score
			winner = p.ID
			tied = false
		case p.Score == best:
			tied = true
		}
	}
	if tied {
		winner = ""
	}
	b.send(model.Event{
		Type:      model.EventGameEnded,
		Timestamp: time.Now(),
		RoomCode:  game.RoomCode,
		GameID:    game.ID,
		Payload: model.GameEndedPayload{
			GameID: game.ID,
			Scores: scores,
			Winner: winner,
		},
	})
}

// BroadcastStateChanged signals clients to refetch game state. Used for
// state transitions with no dedicated event type.
func (b *Broadcaster) BroadcastStateChanged(roomCode model.RoomCode, gameID model.GameID) {
	b.send(model.Event{
		Type:      model.EventStateChanged,
		Timestamp: time.Now(),
		RoomCode:  roomCode,
		GameID:    gameID,
	})
}
