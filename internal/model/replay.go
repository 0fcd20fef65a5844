package model

import (
	"encoding/json"
	"time"
)

// ReplayKind identifies the semantic event a replay step records
type ReplayKind string

const (
	ReplayGameStarted       ReplayKind = "game_started"
	ReplayFlipStarted       ReplayKind = "flip_started"
	ReplayTileRevealed      ReplayKind = "tile_revealed"
	ReplayTurnAdvanced      ReplayKind = "turn_advanced"
	ReplayClaimWindowOpened ReplayKind = "claim_window_opened"
	ReplayClaimWindowClosed ReplayKind = "claim_window_closed"
	ReplayClaim             ReplayKind = "claim"
	ReplayPreStealClaim     ReplayKind = "pre_steal_claim"
	ReplayPreStealEdited    ReplayKind = "pre_steal_edited"
	ReplayConnectionChanged ReplayKind = "connection_changed"
	ReplayGameEnded         ReplayKind = "game_ended"
)

// ReplayStep is one deduplicated snapshot in a game's replay log.
// Indices are 0-based, strictly increasing, with no gaps.
type ReplayStep struct {
	Index     int
	Kind      ReplayKind
	Timestamp time.Time
	State     json.RawMessage // canonical GameSnapshot serialization
}

// GameSnapshot mirrors Game minus the replay log itself, so snapshots can
// be embedded in replay steps without recursion. Field order is fixed;
// together with encoding/json's sorted map keys this makes the serialized
// form canonical, and that serialized form is the dedup hash.
type GameSnapshot struct {
	ID       GameID
	RoomCode RoomCode
	Status   GameStatus
	Config   RoomConfig

	Bag         []Tile
	CenterTiles []Tile
	BagSize     int

	Players   []*GamePlayer
	TurnOrder []PlayerID
	TurnIndex int

	PendingFlip        *PendingFlip
	ClaimWindow        *ClaimWindow
	ClaimCooldowns     map[PlayerID]time.Time
	TurnAdvancePending bool

	PreStealEnabled    bool
	PreStealPrecedence []PlayerID

	LastClaimEvent *ClaimEvent
	EndCountdownAt time.Time
}

// SnapshotOf captures the game's current state as a GameSnapshot
func SnapshotOf(g *Game) GameSnapshot {
	return GameSnapshot{
		ID:                 g.ID,
		RoomCode:           g.RoomCode,
		Status:             g.Status,
		Config:             g.Config,
		Bag:                g.Bag,
		CenterTiles:        g.CenterTiles,
		BagSize:            g.BagSize,
		Players:            g.Players,
		TurnOrder:          g.TurnOrder,
		TurnIndex:          g.TurnIndex,
		PendingFlip:        g.PendingFlip,
		ClaimWindow:        g.ClaimWindow,
		ClaimCooldowns:     g.ClaimCooldowns,
		TurnAdvancePending: g.TurnAdvancePending,
		PreStealEnabled:    g.PreStealEnabled,
		PreStealPrecedence: g.PreStealPrecedence,
		LastClaimEvent:     g.LastClaimEvent,
		EndCountdownAt:     g.EndCountdownAt,
	}
}

// PersistedGameState is the unit of persistence for a game: the full
// aggregate including its replay log, as plain structured data with no
// live timers. Timer deadlines are absolute timestamps, so a hydrated
// game can re-arm its timers from the stored values.
type PersistedGameState struct {
	Version int
	SavedAt time.Time
	Game    *Game
}

// PersistedStateVersion is the current PersistedGameState layout version
const PersistedStateVersion = 1

// RecomputeSnapshotHash rederives LastSnapshotHash from the final replay
// step. Called after hydrating a persisted game; the hash is never stored.
func (g *Game) RecomputeSnapshotHash() {
	if len(g.Replay) == 0 {
		g.LastSnapshotHash = ""
		return
	}
	g.LastSnapshotHash = string(g.Replay[len(g.Replay)-1].State)
}
