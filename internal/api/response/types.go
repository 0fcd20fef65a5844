package response

import (
	"time"

	"github.com/mcoot/snatchgame-go/internal/model"
	"github.com/mcoot/snatchgame-go/internal/services/auth"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}

// RoomConfig represents room configuration
type RoomConfig struct {
	MaxPlayers        int  `json:"max_players"`
	IsPublic          bool `json:"is_public"`
	FlipTimerEnabled  bool `json:"flip_timer_enabled"`
	FlipTimerSeconds  int  `json:"flip_timer_seconds"`
	ClaimTimerSeconds int  `json:"claim_timer_seconds"`
	PreStealEnabled   bool `json:"pre_steal_enabled"`
}

// RoomConfigFromModel converts model.RoomConfig
func RoomConfigFromModel(c model.RoomConfig) RoomConfig {
	return RoomConfig{
		MaxPlayers:        c.MaxPlayers,
		IsPublic:          c.IsPublic,
		FlipTimerEnabled:  c.FlipTimerEnabled,
		FlipTimerSeconds:  c.FlipTimerSeconds,
		ClaimTimerSeconds: c.ClaimTimerSeconds,
		PreStealEnabled:   c.PreStealEnabled,
	}
}

// RoomMember represents a room member
type RoomMember struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	IsHost      bool   `json:"is_host"`
	Connected   bool   `json:"connected"`
}

// RoomMemberFromModel converts model.RoomMember
func RoomMemberFromModel(m model.RoomMember) RoomMember {
	return RoomMember{
		PlayerID:    string(m.Player.ID),
		DisplayName: m.Player.DisplayName,
		IsHost:      m.IsHost,
		Connected:   m.Connected,
	}
}

// Room represents a room in API responses
type Room struct {
	Code        string       `json:"code"`
	State       string       `json:"state"`
	Config      RoomConfig   `json:"config"`
	Members     []RoomMember `json:"members"`
	CurrentGame *string      `json:"current_game"`
	PastGames   []string     `json:"past_games,omitempty"`
}

// RoomFromModel converts model.Room
func RoomFromModel(r *model.Room) Room {
	members := make([]RoomMember, len(r.Members))
	for i, m := range r.Members {
		members[i] = RoomMemberFromModel(m)
	}

	past := make([]string, len(r.PastGames))
	for i, g := range r.PastGames {
		past[i] = string(g)
	}

	var currentGame *string
	if r.CurrentGame != nil {
		g := string(*r.CurrentGame)
		currentGame = &g
	}

	return Room{
		Code:        string(r.Code),
		State:       string(r.State),
		Config:      RoomConfigFromModel(r.Config),
		Members:     members,
		CurrentGame: currentGame,
		PastGames:   past,
	}
}

// RoomSummary is the compact form used when listing public rooms
type RoomSummary struct {
	Code        string `json:"code"`
	State       string `json:"state"`
	MemberCount int    `json:"member_count"`
	MaxPlayers  int    `json:"max_players"`
}

// RoomSummaryFromModel converts a model.Room to a RoomSummary
func RoomSummaryFromModel(r *model.Room) RoomSummary {
	return RoomSummary{
		Code:        string(r.Code),
		State:       string(r.State),
		MemberCount: len(r.Members),
		MaxPlayers:  r.Config.MaxPlayers,
	}
}

// Tile represents a face-up tile
type Tile struct {
	ID     string `json:"id"`
	Letter string `json:"letter"`
}

// TileFromModel converts model.Tile
func TileFromModel(t model.Tile) Tile {
	return Tile{
		ID:     string(t.ID),
		Letter: string(t.Letter),
	}
}

// Word represents a claimed word
type Word struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	OwnerID string `json:"owner_id"`
}

// WordFromModel converts model.Word
func WordFromModel(w model.Word) Word {
	return Word{
		ID:      string(w.ID),
		Text:    w.Text,
		OwnerID: string(w.OwnerID),
	}
}

// GamePlayer represents a player's public in-game state
type GamePlayer struct {
	PlayerID   string `json:"player_id"`
	Name       string `json:"name"`
	Connected  bool   `json:"connected"`
	Words      []Word `json:"words"`
	Score      int    `json:"score"`
	CooldownMs int64  `json:"cooldown_ms,omitempty"`
}

// PendingFlip represents an in-flight tile reveal
type PendingFlip struct {
	PlayerID   string `json:"player_id"`
	RevealInMs int64  `json:"reveal_in_ms"`
}

// ClaimWindow represents an open exclusive claim window
type ClaimWindow struct {
	PlayerID string `json:"player_id"`
	EndsInMs int64  `json:"ends_in_ms"`
}

// ClaimEvent represents a resolved claim
type ClaimEvent struct {
	Kind          string    `json:"kind"`
	Origin        string    `json:"origin"`
	PlayerID      string    `json:"player_id"`
	WordID        string    `json:"word_id"`
	Word          string    `json:"word"`
	SourceWordID  string    `json:"source_word_id,omitempty"`
	SourceOwnerID string    `json:"source_owner_id,omitempty"`
	AddedLetters  string    `json:"added_letters"`
	At            time.Time `json:"at"`
}

// ClaimEventFromModel converts model.ClaimEvent
func ClaimEventFromModel(e model.ClaimEvent) ClaimEvent {
	return ClaimEvent{
		Kind:          string(e.Kind),
		Origin:        string(e.Origin),
		PlayerID:      string(e.PlayerID),
		WordID:        string(e.WordID),
		Word:          e.Word,
		SourceWordID:  string(e.SourceWordID),
		SourceOwnerID: string(e.SourceOwnerID),
		AddedLetters:  e.AddedLetters,
		At:            e.At,
	}
}

// PreStealEntry represents one of the viewer's own pre-steal entries.
// Other players' entries are never exposed.
type PreStealEntry struct {
	ID             string `json:"id"`
	TriggerLetters string `json:"trigger_letters"`
	ClaimWord      string `json:"claim_word"`
}

// PreStealEntryFromModel converts model.PreStealEntry
func PreStealEntryFromModel(e model.PreStealEntry) PreStealEntry {
	return PreStealEntry{
		ID:             string(e.ID),
		TriggerLetters: e.TriggerLetters,
		ClaimWord:      e.ClaimWord,
	}
}

// GameState is the viewer-specific projection of a game
type GameState struct {
	ID             string          `json:"id"`
	RoomCode       string          `json:"room_code"`
	Status         string          `json:"status"`
	Config         RoomConfig      `json:"config"`
	BagRemaining   int             `json:"bag_remaining"`
	CenterTiles    []Tile          `json:"center_tiles"`
	Players        []GamePlayer    `json:"players"`
	TurnOrder      []string        `json:"turn_order"`
	TurnPlayerID   string          `json:"turn_player_id"`
	PendingFlip    *PendingFlip    `json:"pending_flip,omitempty"`
	ClaimWindow    *ClaimWindow    `json:"claim_window,omitempty"`
	LastClaim      *ClaimEvent     `json:"last_claim,omitempty"`
	EndInMs        int64           `json:"end_in_ms,omitempty"`
	MyPreSteals    []PreStealEntry `json:"my_pre_steals,omitempty"`
	MyCooldownMs   int64           `json:"my_cooldown_ms,omitempty"`
}

// remainingMs clamps a deadline to a non-negative millisecond duration
func remainingMs(deadline, now time.Time) int64 {
	d := deadline.Sub(now)
	if d < 0 {
		return 0
	}
	return d.Milliseconds()
}

// GameStateFromModel projects a game for one viewer. Pre-steal entries
// belonging to other players are omitted; timers are reported as
// remaining durations so clients need no clock agreement.
func GameStateFromModel(g *model.Game, viewerID model.PlayerID, now time.Time) GameState {
	center := make([]Tile, len(g.CenterTiles))
	for i, t := range g.CenterTiles {
		center[i] = TileFromModel(t)
	}

	players := make([]GamePlayer, len(g.Players))
	for i, p := range g.Players {
		words := make([]Word, len(p.Words))
		for j, w := range p.Words {
			words[j] = WordFromModel(w)
		}
		gp := GamePlayer{
			PlayerID:  string(p.ID),
			Name:      p.Name,
			Connected: p.Connected,
			Words:     words,
			Score:     p.Score,
		}
		if expiry, ok := g.ClaimCooldowns[p.ID]; ok {
			gp.CooldownMs = remainingMs(expiry, now)
		}
		players[i] = gp
	}

	order := make([]string, len(g.TurnOrder))
	for i, pid := range g.TurnOrder {
		order[i] = string(pid)
	}

	state := GameState{
		ID:           string(g.ID),
		RoomCode:     string(g.RoomCode),
		Status:       string(g.Status),
		Config:       RoomConfigFromModel(g.Config),
		BagRemaining: len(g.Bag),
		CenterTiles:  center,
		Players:      players,
		TurnOrder:    order,
		TurnPlayerID: string(g.TurnPlayerID()),
	}

	if g.PendingFlip != nil {
		state.PendingFlip = &PendingFlip{
			PlayerID:   string(g.PendingFlip.PlayerID),
			RevealInMs: remainingMs(g.PendingFlip.RevealsAt, now),
		}
	}
	if g.ClaimWindow != nil {
		state.ClaimWindow = &ClaimWindow{
			PlayerID: string(g.ClaimWindow.PlayerID),
			EndsInMs: remainingMs(g.ClaimWindow.EndsAt, now),
		}
	}
	if g.LastClaimEvent != nil {
		e := ClaimEventFromModel(*g.LastClaimEvent)
		state.LastClaim = &e
	}
	if !g.EndCountdownAt.IsZero() {
		state.EndInMs = remainingMs(g.EndCountdownAt, now)
	}

	if viewer := g.PlayerByID(viewerID); viewer != nil {
		entries := make([]PreStealEntry, len(viewer.PreStealEntries))
		for i, e := range viewer.PreStealEntries {
			entries[i] = PreStealEntryFromModel(e)
		}
		state.MyPreSteals = entries
		if expiry, ok := g.ClaimCooldowns[viewerID]; ok {
			state.MyCooldownMs = remainingMs(expiry, now)
		}
	}

	return state
}

// ReplayStep represents one step of a finished game's replay
type ReplayStep struct {
	Index     int       `json:"index"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	State     any       `json:"state"`
}

// Replay is the full replay log of a game
type Replay struct {
	GameID string       `json:"game_id"`
	Steps  []ReplayStep `json:"steps"`
}
