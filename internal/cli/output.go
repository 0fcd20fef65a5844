package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case Room:
		o.printRoom(v)
	case []RoomSummary:
		o.printRoomList(v)
	case RoomConfig:
		o.printRoomConfig(v)
	case GameState:
		o.printGameState(v)
	case ClaimWindow:
		o.printClaimWindow(v)
	case ClaimEvent:
		o.printClaimEvent(v)
	case PreStealEntry:
		o.printPreStealEntry(v)
	case Replay:
		o.printReplay(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// RoomConfig response type
type RoomConfig struct {
	MaxPlayers        int  `json:"max_players"`
	IsPublic          bool `json:"is_public"`
	FlipTimerEnabled  bool `json:"flip_timer_enabled"`
	FlipTimerSeconds  int  `json:"flip_timer_seconds"`
	ClaimTimerSeconds int  `json:"claim_timer_seconds"`
	PreStealEnabled   bool `json:"pre_steal_enabled"`
}

// RoomMember response type
type RoomMember struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	IsHost      bool   `json:"is_host"`
	Connected   bool   `json:"connected"`
}

// Room response type
type Room struct {
	Code        string       `json:"code"`
	State       string       `json:"state"`
	Config      RoomConfig   `json:"config"`
	Members     []RoomMember `json:"members"`
	CurrentGame *string      `json:"current_game"`
	PastGames   []string     `json:"past_games,omitempty"`
}

// RoomSummary response type
type RoomSummary struct {
	Code        string `json:"code"`
	State       string `json:"state"`
	MemberCount int    `json:"member_count"`
	MaxPlayers  int    `json:"max_players"`
}

// Tile response type
type Tile struct {
	ID     string `json:"id"`
	Letter string `json:"letter"`
}

// Word response type
type Word struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	OwnerID string `json:"owner_id"`
}

// GamePlayer response type
type GamePlayer struct {
	PlayerID   string `json:"player_id"`
	Name       string `json:"name"`
	Connected  bool   `json:"connected"`
	Words      []Word `json:"words"`
	Score      int    `json:"score"`
	CooldownMs int64  `json:"cooldown_ms,omitempty"`
}

// PendingFlip response type
type PendingFlip struct {
	PlayerID   string `json:"player_id"`
	RevealInMs int64  `json:"reveal_in_ms"`
}

// ClaimWindow response type
type ClaimWindow struct {
	PlayerID string `json:"player_id"`
	EndsInMs int64  `json:"ends_in_ms"`
}

// ClaimEvent response type
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

// PreStealEntry response type
type PreStealEntry struct {
	ID             string `json:"id"`
	TriggerLetters string `json:"trigger_letters"`
	ClaimWord      string `json:"claim_word"`
}

// GameState response type
type GameState struct {
	ID           string          `json:"id"`
	RoomCode     string          `json:"room_code"`
	Status       string          `json:"status"`
	Config       RoomConfig      `json:"config"`
	BagRemaining int             `json:"bag_remaining"`
	CenterTiles  []Tile          `json:"center_tiles"`
	Players      []GamePlayer    `json:"players"`
	TurnOrder    []string        `json:"turn_order"`
	TurnPlayerID string          `json:"turn_player_id"`
	PendingFlip  *PendingFlip    `json:"pending_flip,omitempty"`
	ClaimWindow  *ClaimWindow    `json:"claim_window,omitempty"`
	LastClaim    *ClaimEvent     `json:"last_claim,omitempty"`
	EndInMs      int64           `json:"end_in_ms,omitempty"`
	MyPreSteals  []PreStealEntry `json:"my_pre_steals,omitempty"`
	MyCooldownMs int64           `json:"my_cooldown_ms,omitempty"`
}

// ReplayStep response type
type ReplayStep struct {
	Index     int       `json:"index"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	State     any       `json:"state"`
}

// Replay response type
type Replay struct {
	GameID string       `json:"game_id"`
	Steps  []ReplayStep `json:"steps"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printRoom(rm Room) {
	fmt.Printf("Room: %s\n", rm.Code)
	fmt.Printf("State: %s\n", rm.State)
	if rm.CurrentGame != nil {
		fmt.Printf("Current Game: %s\n", *rm.CurrentGame)
	}
	fmt.Printf("Members (%d/%d):\n", len(rm.Members), rm.Config.MaxPlayers)
	for _, m := range rm.Members {
		hostStr := ""
		if m.IsHost {
			hostStr = " [host]"
		}
		connStr := ""
		if !m.Connected {
			connStr = " (disconnected)"
		}
		fmt.Printf("  - %s (%s)%s%s\n", m.DisplayName, m.PlayerID, hostStr, connStr)
	}
	fmt.Println("Config:")
	o.printRoomConfigIndented(rm.Config, "  ")
}

func (o *Output) printRoomList(rooms []RoomSummary) {
	if len(rooms) == 0 {
		fmt.Println("No public rooms")
		return
	}
	for _, rm := range rooms {
		fmt.Printf("%s  %s  %d/%d players\n", rm.Code, rm.State, rm.MemberCount, rm.MaxPlayers)
	}
}

func (o *Output) printRoomConfig(c RoomConfig) {
	o.printRoomConfigIndented(c, "")
}

func (o *Output) printRoomConfigIndented(c RoomConfig, indent string) {
	fmt.Printf("%sMax Players: %d\n", indent, c.MaxPlayers)
	fmt.Printf("%sPublic: %s\n", indent, yesNo(c.IsPublic))
	fmt.Printf("%sFlip Timer: %s", indent, yesNo(c.FlipTimerEnabled))
	if c.FlipTimerEnabled {
		fmt.Printf(" (%ds)", c.FlipTimerSeconds)
	}
	fmt.Println()
	fmt.Printf("%sClaim Window: %ds\n", indent, c.ClaimTimerSeconds)
	fmt.Printf("%sPre-Steals: %s\n", indent, yesNo(c.PreStealEnabled))
}

func (o *Output) printGameState(g GameState) {
	fmt.Printf("Game: %s (room %s)\n", g.ID, g.RoomCode)
	fmt.Printf("Status: %s\n", g.Status)
	fmt.Printf("Bag: %d tiles remaining\n", g.BagRemaining)

	letters := make([]string, 0, len(g.CenterTiles))
	for _, t := range g.CenterTiles {
		letters = append(letters, t.Letter)
	}
	if len(letters) > 0 {
		fmt.Printf("Center: %s\n", strings.Join(letters, " "))
	} else {
		fmt.Println("Center: (empty)")
	}

	if g.TurnPlayerID != "" {
		fmt.Printf("Turn: %s\n", g.TurnPlayerID)
	}
	if g.PendingFlip != nil {
		fmt.Printf("Flipping: %s (reveals in %dms)\n", g.PendingFlip.PlayerID, g.PendingFlip.RevealInMs)
	}
	if g.ClaimWindow != nil {
		fmt.Printf("Claim window: %s (%dms left)\n", g.ClaimWindow.PlayerID, g.ClaimWindow.EndsInMs)
	}
	if g.EndInMs > 0 {
		fmt.Printf("Game ends in: %dms\n", g.EndInMs)
	}

	fmt.Println("\nPlayers:")
	for _, p := range g.Players {
		marker := ""
		if p.PlayerID == g.TurnPlayerID {
			marker = " *"
		}
		fmt.Printf("  %s (%s): %d points%s\n", p.Name, p.PlayerID, p.Score, marker)
		for _, w := range p.Words {
			fmt.Printf("    - %s\n", w.Text)
		}
		if p.CooldownMs > 0 {
			fmt.Printf("    (on cooldown for %dms)\n", p.CooldownMs)
		}
	}

	if g.LastClaim != nil {
		fmt.Println("\nLast claim:")
		o.printClaimEventIndented(*g.LastClaim, "  ")
	}

	if len(g.MyPreSteals) > 0 {
		fmt.Println("\nYour pre-steals:")
		for i, e := range g.MyPreSteals {
			fmt.Printf("  %d. %s + \"%s\" -> %s\n", i+1, e.ID, e.TriggerLetters, e.ClaimWord)
		}
	}
	if g.MyCooldownMs > 0 {
		fmt.Printf("\nYou are on cooldown for %dms\n", g.MyCooldownMs)
	}
}

func (o *Output) printClaimWindow(cw ClaimWindow) {
	fmt.Printf("Claim window open for %s\n", cw.PlayerID)
	fmt.Printf("Closes in: %dms\n", cw.EndsInMs)
}

func (o *Output) printClaimEvent(e ClaimEvent) {
	o.printClaimEventIndented(e, "")
}

func (o *Output) printClaimEventIndented(e ClaimEvent, indent string) {
	fmt.Printf("%s%s claimed %s (%s, %s)\n", indent, e.PlayerID, e.Word, e.Kind, e.Origin)
	if e.SourceWordID != "" {
		fmt.Printf("%sStolen from: %s (word %s)\n", indent, e.SourceOwnerID, e.SourceWordID)
	}
	if e.AddedLetters != "" {
		fmt.Printf("%sCenter letters used: %s\n", indent, e.AddedLetters)
	}
}

func (o *Output) printPreStealEntry(e PreStealEntry) {
	fmt.Printf("Pre-steal registered: %s\n", e.ID)
	fmt.Printf("Trigger: %s\n", e.TriggerLetters)
	fmt.Printf("Word: %s\n", e.ClaimWord)
}

func (o *Output) printReplay(r Replay) {
	fmt.Printf("Replay: %s (%d steps)\n", r.GameID, len(r.Steps))
	for _, s := range r.Steps {
		fmt.Printf("  %3d. [%s] %s\n", s.Index, s.Timestamp.Format("15:04:05.000"), s.Kind)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
