package model

import "time"

// RoomCode is a human-readable identifier for joining rooms
type RoomCode string

// RoomState represents the current phase of a room
type RoomState string

const (
	RoomStateLobby  RoomState = "lobby"   // Waiting for a game to start
	RoomStateInGame RoomState = "in-game" // Game currently active
	RoomStateEnded  RoomState = "ended"   // Most recent game finished, room still open
)

// RoomMember represents a player's membership in a room
type RoomMember struct {
	Player    Player
	IsHost    bool
	Connected bool
	JoinedAt  time.Time
}

// RoomConfig holds the settings applied to games started in this room
type RoomConfig struct {
	MaxPlayers        int
	IsPublic          bool
	FlipTimerEnabled  bool
	FlipTimerSeconds  int // 1-60; auto-flips for the turn player when enabled
	ClaimTimerSeconds int // 1-10; length of an exclusive claim window
	PreStealEnabled   bool
}

// DefaultRoomConfig returns the default room configuration
func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		MaxPlayers:        6,
		IsPublic:          false,
		FlipTimerEnabled:  false,
		FlipTimerSeconds:  15,
		ClaimTimerSeconds: 5,
		PreStealEnabled:   true,
	}
}

// Validate checks the config against its allowed ranges
func (c RoomConfig) Validate() error {
	if c.MaxPlayers < 2 || c.MaxPlayers > 8 {
		return ErrInvalidConfig
	}
	if c.FlipTimerSeconds < 1 || c.FlipTimerSeconds > 60 {
		return ErrInvalidConfig
	}
	if c.ClaimTimerSeconds < 1 || c.ClaimTimerSeconds > 10 {
		return ErrInvalidConfig
	}
	return nil
}

// Room represents a group of players who play games together
type Room struct {
	Code        RoomCode
	State       RoomState
	Members     []RoomMember
	Config      RoomConfig
	CurrentGame *GameID // nil when State is lobby
	PastGames   []GameID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy of the room, sharing no mutable state with
// the original
func (r *Room) Clone() *Room {
	cp := *r
	cp.Members = append([]RoomMember(nil), r.Members...)
	cp.PastGames = append([]GameID(nil), r.PastGames...)
	if r.CurrentGame != nil {
		id := *r.CurrentGame
		cp.CurrentGame = &id
	}
	return &cp
}

// GetHost returns the current host member, or nil if none
func (r *Room) GetHost() *RoomMember {
	for i := range r.Members {
		if r.Members[i].IsHost {
			return &r.Members[i]
		}
	}
	return nil
}

// GetMember returns the member with the given player ID, or nil if not found
func (r *Room) GetMember(playerID PlayerID) *RoomMember {
	for i := range r.Members {
		if r.Members[i].Player.ID == playerID {
			return &r.Members[i]
		}
	}
	return nil
}
