package model

import "time"

// EventType identifies the type of broadcast event
type EventType string

const (
	// Room events
	EventPlayerJoined EventType = "player_joined"
	EventPlayerLeft   EventType = "player_left"
	EventHostChanged  EventType = "host_changed"
	EventGameStarted  EventType = "game_started"
	EventGameEnded    EventType = "game_ended"

	// Game events
	EventFlipStarted   EventType = "flip_started"
	EventTileRevealed  EventType = "tile_revealed"
	EventClaimOpened   EventType = "claim_window_opened"
	EventClaimClosed   EventType = "claim_window_closed"
	EventClaimResolved EventType = "claim_resolved"
	EventStateChanged  EventType = "state_changed"
)

// Event is the base structure for all broadcast events
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RoomCode  RoomCode  `json:"room_code"`
	GameID    GameID    `json:"game_id,omitempty"`  // Empty for room-only events
	PlayerID  PlayerID  `json:"player_id,omitempty"` // The player who triggered or is affected
	Payload   any       `json:"payload,omitempty"`   // Type-specific data
}

// PlayerJoinedPayload contains data for player joined events
type PlayerJoinedPayload struct {
	Player Player `json:"player"`
}

// PlayerLeftPayload contains data for player left events
type PlayerLeftPayload struct {
	PlayerID    PlayerID `json:"player_id"`
	DisplayName string   `json:"display_name"`
}

// HostChangedPayload contains data for host changed events
type HostChangedPayload struct {
	OldHostID PlayerID `json:"old_host_id"`
	NewHostID PlayerID `json:"new_host_id"`
}

// GameStartedPayload contains data for game started events
type GameStartedPayload struct {
	GameID  GameID     `json:"game_id"`
	Players []PlayerID `json:"players"`
	Config  RoomConfig `json:"config"`
}

// FlipStartedPayload contains data for flip started events
type FlipStartedPayload struct {
	PlayerID  PlayerID  `json:"player_id"`
	RevealsAt time.Time `json:"reveals_at"`
}

// TileRevealedPayload contains data for tile revealed events
type TileRevealedPayload struct {
	Tile         Tile     `json:"tile"`
	NextPlayerID PlayerID `json:"next_player_id"`
	BagRemaining int      `json:"bag_remaining"`
}

// ClaimResolvedPayload contains data for resolved claims (manual or auto)
type ClaimResolvedPayload struct {
	Event ClaimEvent `json:"event"`
}

// GameEndedPayload contains data for game ended events
type GameEndedPayload struct {
	GameID GameID           `json:"game_id"`
	Scores map[PlayerID]int `json:"scores"`
	Winner PlayerID         `json:"winner,omitempty"` // Empty if tie
}
