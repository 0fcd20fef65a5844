package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameStatus represents the lifecycle phase of a game
type GameStatus string

const (
	GameStatusInGame GameStatus = "in-game"
	GameStatusEnded  GameStatus = "ended"
)

// TileID uniquely identifies a tile within a game
type TileID string

// Tile is a single letter tile. Immutable once created; a tile lives in
// exactly one of the bag, the center pool, or one word's tile list.
type Tile struct {
	ID     TileID
	Letter rune
}

// WordID uniquely identifies a claimed word
type WordID string

// Word is a claimed word owned by a player. Destroyed when stolen (its
// tiles move into the stealing word) or when the game ends.
type Word struct {
	ID        WordID
	Text      string
	OwnerID   PlayerID
	TileIDs   []TileID // ordered; TileIDs[i] carries Text[i]
	CreatedAt time.Time
}

// PreStealEntryID uniquely identifies a pre-steal entry
type PreStealEntryID string

// PreStealEntry is a player-authored standing order: when exactly the
// trigger letters are available in the center, claim the given word
// automatically. Entries are ordered per player; insertion order is
// priority among that player's own entries.
type PreStealEntry struct {
	ID             PreStealEntryID
	TriggerLetters string // letters that must be drawn from the center, uppercase
	ClaimWord      string // the full word to claim, uppercase
	CreatedAt      time.Time
}

// GamePlayer is a player's in-game state
type GamePlayer struct {
	ID              PlayerID
	Name            string
	Connected       bool
	Words           []Word
	PreStealEntries []PreStealEntry
	Score           int // derived: sum of owned word lengths, recomputed on every change
}

// RecomputeScore rederives Score from the player's words
func (p *GamePlayer) RecomputeScore() {
	score := 0
	for _, w := range p.Words {
		score += len(w.Text)
	}
	p.Score = score
}

// PendingFlip records a reveal in progress. The tile itself stays at the
// head of the bag until the reveal completes, so tile conservation holds
// at every observable state.
type PendingFlip struct {
	Token     string
	PlayerID  PlayerID
	StartedAt time.Time
	RevealsAt time.Time
}

// ClaimWindow is the exclusive, time-boxed right for one player to submit
// a claim. At most one window may be open per game.
type ClaimWindow struct {
	Token    string
	PlayerID PlayerID
	OpenedAt time.Time
	EndsAt   time.Time
}

// ClaimKind classifies a resolved claim
type ClaimKind string

const (
	ClaimKindFresh     ClaimKind = "claim"     // built entirely from center tiles
	ClaimKindExtension ClaimKind = "extension" // source word belonged to the claimant
	ClaimKindSteal     ClaimKind = "steal"     // source word belonged to someone else
)

// ClaimOrigin records whether a claim was manual or auto-resolved
type ClaimOrigin string

const (
	ClaimOriginManual   ClaimOrigin = "manual"
	ClaimOriginPreSteal ClaimOrigin = "pre-steal"
)

// ClaimEvent is a diagnostic record of the most recent resolved claim
type ClaimEvent struct {
	Kind          ClaimKind
	Origin        ClaimOrigin
	PlayerID      PlayerID
	WordID        WordID
	Word          string
	SourceWordID  WordID   // empty for fresh claims
	SourceOwnerID PlayerID // empty for fresh claims
	AddedLetters  string   // letters drawn from the center, sorted
	At            time.Time
}

// Game is the per-room aggregate mutated by the core engine. One live
// instance exists while Status is in-game; it becomes read-only history
// once ended.
type Game struct {
	ID       GameID
	RoomCode RoomCode
	Status   GameStatus
	Config   RoomConfig

	Bag         []Tile // ordered remaining tiles; Bag[0] is the next reveal
	CenterTiles []Tile // face-up unclaimed pool
	BagSize     int    // original bag size, for conservation checks

	Players   []*GamePlayer
	TurnOrder []PlayerID
	TurnIndex int

	PendingFlip        *PendingFlip
	ClaimWindow        *ClaimWindow
	ClaimCooldowns     map[PlayerID]time.Time // player -> cooldown expiry
	TurnAdvancePending bool                   // reveal finished during an open claim window

	PreStealEnabled    bool
	PreStealPrecedence []PlayerID // rotation queue; head is considered first

	LastClaimEvent *ClaimEvent
	EndCountdownAt time.Time // zero until the bag empties

	Replay []ReplayStep

	// LastSnapshotHash is the serialized form of the latest replay step's
	// state. Never persisted; recomputed on hydration.
	LastSnapshotHash string `json:"-"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of the game, sharing no mutable state with
// the live instance. Replay step payloads are immutable once recorded
// and are shared.
func (g *Game) Clone() *Game {
	cp := *g
	cp.Bag = append([]Tile(nil), g.Bag...)
	cp.CenterTiles = append([]Tile(nil), g.CenterTiles...)
	cp.TurnOrder = append([]PlayerID(nil), g.TurnOrder...)
	cp.PreStealPrecedence = append([]PlayerID(nil), g.PreStealPrecedence...)
	cp.Replay = append([]ReplayStep(nil), g.Replay...)

	cp.Players = make([]*GamePlayer, len(g.Players))
	for i, p := range g.Players {
		pc := *p
		pc.Words = make([]Word, len(p.Words))
		for j, w := range p.Words {
			pc.Words[j] = w
			pc.Words[j].TileIDs = append([]TileID(nil), w.TileIDs...)
		}
		pc.PreStealEntries = append([]PreStealEntry(nil), p.PreStealEntries...)
		cp.Players[i] = &pc
	}

	if g.ClaimCooldowns != nil {
		cp.ClaimCooldowns = make(map[PlayerID]time.Time, len(g.ClaimCooldowns))
		for id, expiry := range g.ClaimCooldowns {
			cp.ClaimCooldowns[id] = expiry
		}
	}
	if g.PendingFlip != nil {
		pf := *g.PendingFlip
		cp.PendingFlip = &pf
	}
	if g.ClaimWindow != nil {
		cw := *g.ClaimWindow
		cp.ClaimWindow = &cw
	}
	if g.LastClaimEvent != nil {
		ev := *g.LastClaimEvent
		cp.LastClaimEvent = &ev
	}

	return &cp
}

// TurnPlayerID returns the player whose turn it is to flip
func (g *Game) TurnPlayerID() PlayerID {
	if len(g.TurnOrder) == 0 {
		return ""
	}
	return g.TurnOrder[g.TurnIndex]
}

// PlayerByID returns the in-game player with the given ID, or nil
func (g *Game) PlayerByID(id PlayerID) *GamePlayer {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// AllWords returns every claimed word on the board, in player then
// insertion order. The returned pointers alias game state.
func (g *Game) AllWords() []*Word {
	var words []*Word
	for _, p := range g.Players {
		for i := range p.Words {
			words = append(words, &p.Words[i])
		}
	}
	return words
}

// TileCount returns the number of tiles across the bag, center, and all
// words. It must always equal BagSize.
func (g *Game) TileCount() int {
	n := len(g.Bag) + len(g.CenterTiles)
	for _, p := range g.Players {
		for _, w := range p.Words {
			n += len(w.TileIDs)
		}
	}
	return n
}

// NextConnectedTurnIndex returns the index of the next connected player in
// turn order after from, wrapping. Returns from if nobody else is connected.
func (g *Game) NextConnectedTurnIndex(from int) int {
	n := len(g.TurnOrder)
	for step := 1; step <= n; step++ {
		idx := (from + step) % n
		p := g.PlayerByID(g.TurnOrder[idx])
		if p != nil && p.Connected {
			return idx
		}
	}
	return from
}

// IsOnCooldown reports whether the player's claim cooldown is still running
func (g *Game) IsOnCooldown(playerID PlayerID, now time.Time) bool {
	expiry, ok := g.ClaimCooldowns[playerID]
	return ok && now.Before(expiry)
}
