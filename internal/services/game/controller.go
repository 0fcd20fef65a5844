package game

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/snatchgame-go/internal/dependencies/clock"
	"github.com/mcoot/snatchgame-go/internal/dependencies/random"
	"github.com/mcoot/snatchgame-go/internal/model"
	"github.com/mcoot/snatchgame-go/internal/services/replay"
	"github.com/mcoot/snatchgame-go/internal/services/resolver"
	"github.com/mcoot/snatchgame-go/internal/storage"
)

// Engine timing defaults. Reveal delay and cooldown are product
// constants; the claim window length comes from room config.
const (
	// RevealDelay is the pause between a flip request and the tile
	// landing face-up in the center
	RevealDelay = time.Second

	// ClaimCooldown is how long a player waits after a consumed claim
	// attempt, unless a tile reveal clears it first
	ClaimCooldown = 5 * time.Second

	// EndCountdown runs once the bag empties; when it fires the game
	// ends. Successful claims restart it.
	EndCountdown = 60 * time.Second

	idAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Controller owns the game state machine: the tile bag and turn flow,
// the flip-reveal and claim-window timers, claim execution, and the
// pre-steal auto-resolver. Every mutation to one game runs under that
// game's runtime lock, giving each room a single logical writer.
type Controller struct {
	storage  storage.Storage
	resolver *resolver.Service
	recorder *replay.Recorder
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
	events   Events

	mu       sync.Mutex
	runtimes map[model.GameID]*gameRuntime
}

// NewController creates a new game controller
func NewController(
	storage storage.Storage,
	resolverService *resolver.Service,
	recorder *replay.Recorder,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:  storage,
		resolver: resolverService,
		recorder: recorder,
		clock:    clock,
		random:   random,
		logger:   logger,
		runtimes: make(map[model.GameID]*gameRuntime),
	}
}

// CreateGame starts a new game for a room: fresh shuffled bag, empty
// center, players zeroed, turn and pre-steal precedence in seat order
func (c *Controller) CreateGame(ctx context.Context, roomCode model.RoomCode, players []model.Player, cfg model.RoomConfig) (*model.Game, error) {
	if len(players) < 2 {
		return nil, model.ErrInsufficientPlayers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	gameID := model.GameID(c.random.String(12, idAlphabet))

	gamePlayers := make([]*model.GamePlayer, len(players))
	order := make([]model.PlayerID, len(players))
	for i, p := range players {
		gamePlayers[i] = &model.GamePlayer{
			ID:        p.ID,
			Name:      p.DisplayName,
			Connected: true,
		}
		order[i] = p.ID
	}

	bag := buildBag(c.random)

	g := &model.Game{
		ID:                 gameID,
		RoomCode:           roomCode,
		Status:             model.GameStatusInGame,
		Config:             cfg,
		Bag:                bag,
		CenterTiles:        []model.Tile{},
		BagSize:            len(bag),
		Players:            gamePlayers,
		TurnOrder:          order,
		TurnIndex:          0,
		ClaimCooldowns:     make(map[model.PlayerID]time.Time),
		PreStealEnabled:    cfg.PreStealEnabled,
		PreStealPrecedence: append([]model.PlayerID(nil), order...),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	rt := c.runtime(gameID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	c.record(g, model.ReplayGameStarted)
	if err := c.saveGame(ctx, g); err != nil {
		return nil, err
	}

	c.scheduleAutoFlip(rt, g)

	c.logger.Info("game created",
		slog.String("game_id", string(gameID)),
		slog.String("room_code", string(roomCode)),
		slog.Int("player_count", len(players)),
		slog.Int("bag_size", len(bag)),
	)

	return g.Clone(), nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// ViewGame returns a detached snapshot of a game for read paths. The
// copy is taken under the game's runtime lock when the game is live, so
// callers never observe a state mid-mutation and can project the result
// without racing the timer callbacks.
func (c *Controller) ViewGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	rt, ok := c.peekRuntime(gameID)
	if ok {
		rt.mu.Lock()
		defer rt.mu.Unlock()
	}
	g, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return g.Clone(), nil
}

// Flip starts a tile reveal for the requesting player. The tile stays at
// the head of the bag until the reveal delay elapses; flips during
// another flip or an open claim window are rejected, not queued.
func (c *Controller) Flip(ctx context.Context, gameID model.GameID, playerID model.PlayerID) error {
	rt := c.runtime(gameID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	g, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return err
	}

	if err := c.flipLocked(rt, g, playerID); err != nil {
		return err
	}

	return c.saveGame(ctx, g)
}

// flipLocked validates and opens a pending flip. Caller holds the
// runtime lock and saves afterwards.
func (c *Controller) flipLocked(rt *gameRuntime, g *model.Game, playerID model.PlayerID) error {
	if g.Status != model.GameStatusInGame {
		return model.ErrGameEnded
	}
	if playerID != g.TurnPlayerID() {
		return model.ErrNotYourTurn
	}
	if g.PendingFlip != nil {
		return model.ErrFlipInProgress
	}
	if g.ClaimWindow != nil {
		return model.ErrClaimInProgress
	}
	if len(g.Bag) == 0 {
		return model.ErrBagEmpty
	}

	rt.timers.setAutoFlip(nil)

	now := c.clock.Now()
	token := c.random.String(16, idAlphabet)
	g.PendingFlip = &model.PendingFlip{
		Token:     token,
		PlayerID:  playerID,
		StartedAt: now,
		RevealsAt: now.Add(RevealDelay),
	}

	rt.timers.setFlipReveal(c.clock.AfterFunc(RevealDelay, func() {
		c.completeReveal(g.ID, token)
	}))

	c.record(g, model.ReplayFlipStarted)

	c.logger.Info("flip started",
		slog.String("game_id", string(g.ID)),
		slog.String("player_id", string(playerID)),
	)
	return nil
}

// completeReveal is the flip timer callback: it moves the tile into the
// center, clears cooldowns, runs the pre-steal auto-resolver, and
// advances the turn. The token guards against stale timers firing after
// the game has moved on.
func (c *Controller) completeReveal(gameID model.GameID, token string) {
	ctx := context.Background()
	rt := c.runtime(gameID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	g, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		c.logger.Warn("reveal fired for missing game", slog.String("game_id", string(gameID)))
		return
	}
	if g.Status != model.GameStatusInGame || g.PendingFlip == nil || g.PendingFlip.Token != token {
		// Stale timer: the flip was superseded or the game ended
		return
	}

	now := c.clock.Now()
	tile := g.Bag[0]
	g.Bag = g.Bag[1:]
	g.CenterTiles = append(g.CenterTiles, tile)
	g.PendingFlip = nil

	// Cooldowns last until the next flip or their timer, whichever first
	for playerID := range g.ClaimCooldowns {
		delete(g.ClaimCooldowns, playerID)
	}
	rt.timers.clearAllCooldowns()

	c.record(g, model.ReplayTileRevealed)

	preStealFired := c.maybeRunAutoPreSteal(g, now)
	if preStealFired {
		c.record(g, model.ReplayPreStealClaim)
	}

	if g.ClaimWindow != nil {
		// A manual claim is mid-flight; advance once it resolves
		g.TurnAdvancePending = true
	} else {
		c.advanceTurn(rt, g)
	}

	if len(g.Bag) == 0 && g.EndCountdownAt.IsZero() {
		c.startEndCountdown(rt, g, now)
	}

	c.record(g, model.ReplayTurnAdvanced)

	if err := c.saveGame(ctx, g); err != nil {
		c.logger.Error("failed to save game after reveal",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
		return
	}

	if c.events != nil {
		c.events.TileRevealed(g, tile)
		if preStealFired && g.LastClaimEvent != nil {
			c.events.ClaimResolved(g, *g.LastClaimEvent)
		}
	}

	c.logger.Info("tile revealed",
		slog.String("game_id", string(gameID)),
		slog.String("letter", string(tile.Letter)),
		slog.Int("bag_remaining", len(g.Bag)),
	)
}

// advanceTurn moves the turn to the next connected player and re-arms
// the auto-flip timer when the room uses one
func (c *Controller) advanceTurn(rt *gameRuntime, g *model.Game) {
	g.TurnIndex = g.NextConnectedTurnIndex(g.TurnIndex)
	g.TurnAdvancePending = false
	c.scheduleAutoFlip(rt, g)
}

// scheduleAutoFlip arms the turn timer for the current turn player
func (c *Controller) scheduleAutoFlip(rt *gameRuntime, g *model.Game) {
	if !g.Config.FlipTimerEnabled || g.Status != model.GameStatusInGame || len(g.Bag) == 0 {
		return
	}
	playerID := g.TurnPlayerID()
	d := time.Duration(g.Config.FlipTimerSeconds) * time.Second
	rt.timers.setAutoFlip(c.clock.AfterFunc(d, func() {
		c.autoFlip(g.ID, playerID)
	}))
}

// autoFlip is the turn timer callback: it flips on the turn player's
// behalf if the turn hasn't moved on
func (c *Controller) autoFlip(gameID model.GameID, playerID model.PlayerID) {
	ctx := context.Background()
	rt := c.runtime(gameID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	g, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return
	}
	if g.Status != model.GameStatusInGame || g.TurnPlayerID() != playerID {
		return
	}
	if g.PendingFlip != nil || g.ClaimWindow != nil || len(g.Bag) == 0 {
		return
	}

	if err := c.flipLocked(rt, g, playerID); err != nil {
		return
	}
	if err := c.saveGame(ctx, g); err != nil {
		c.logger.Error("failed to save game after auto-flip",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
		return
	}

	if c.events != nil {
		c.events.FlipStarted(g)
	}
}

// RequestClaim opens the exclusive claim window for a player. Exactly
// one window may be open per game; this serializes manual claims.
func (c *Controller) RequestClaim(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.ClaimWindow, error) {
	rt := c.runtime(gameID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	g, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if g.Status != model.GameStatusInGame {
		return nil, model.ErrGameEnded
	}
	if g.PlayerByID(playerID) == nil {
		return nil, model.ErrPlayerNotFound
	}
	if g.ClaimWindow != nil {
		return nil, model.ErrAlreadyClaiming
	}
	now := c.clock.Now()
	if g.IsOnCooldown(playerID, now) {
		return nil, model.ErrOnCooldown
	}
	if g.PendingFlip != nil {
		return nil, model.ErrFlipInProgress
	}

	token := c.random.String(16, idAlphabet)
	d := time.Duration(g.Config.ClaimTimerSeconds) * time.Second
	g.ClaimWindow = &model.ClaimWindow{
		Token:    token,
		PlayerID: playerID,
		OpenedAt: now,
		EndsAt:   now.Add(d),
	}

	rt.timers.setClaimWindow(c.clock.AfterFunc(d, func() {
		c.expireClaimWindow(g.ID, token)
	}))

	c.record(g, model.ReplayClaimWindowOpened)
	if err := c.saveGame(ctx, g); err != nil {
		return nil, err
	}

	c.logger.Info("claim window opened",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
	)
	win := *g.ClaimWindow
	return &win, nil
}

// SubmitClaim resolves a claim from the window holder. Whatever the
// outcome, the window closes and the player enters cooldown; legality
// failures are returned but consume the attempt.
func (c *Controller) SubmitClaim(ctx context.Context, gameID model.GameID, playerID model.PlayerID, word string) (*model.ClaimEvent, error) {
	rt := c.runtime(gameID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	g, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if g.Status != model.GameStatusInGame {
		return nil, model.ErrGameEnded
	}
	if g.ClaimWindow == nil || g.ClaimWindow.PlayerID != playerID {
		return nil, model.ErrNotYourWindow
	}

	now := c.clock.Now()
	candidate, claimErr := c.resolver.ValidateCandidate(g, playerID, word)

	c.closeClaimWindow(rt, g, playerID, now)

	if claimErr != nil {
		c.record(g, model.ReplayClaimWindowClosed)
		if err := c.saveGame(ctx, g); err != nil {
			return nil, err
		}
		c.logger.Info("claim rejected",
			slog.String("game_id", string(gameID)),
			slog.String("player_id", string(playerID)),
			slog.String("reason", claimErr.Error()),
		)
		return nil, claimErr
	}

	event := c.executeClaim(g, playerID, candidate, model.ClaimOriginManual, now)

	if len(g.Bag) == 0 {
		// Claims during the endgame grace period restart the countdown
		c.startEndCountdown(rt, g, now)
	}

	c.record(g, model.ReplayClaim)
	if err := c.saveGame(ctx, g); err != nil {
		return nil, err
	}

	c.logger.Info("claim resolved",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
		slog.String("word", event.Word),
		slog.String("kind", string(event.Kind)),
	)
	return event, nil
}

// expireClaimWindow is the window timer callback. The token check makes
// sure it only closes the window instance it was armed for.
func (c *Controller) expireClaimWindow(gameID model.GameID, token string) {
	ctx := context.Background()
	rt := c.runtime(gameID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	g, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return
	}
	if g.Status != model.GameStatusInGame || g.ClaimWindow == nil || g.ClaimWindow.Token != token {
		return
	}

	playerID := g.ClaimWindow.PlayerID
	now := c.clock.Now()
	c.closeClaimWindow(rt, g, playerID, now)
	c.record(g, model.ReplayClaimWindowClosed)

	if err := c.saveGame(ctx, g); err != nil {
		c.logger.Error("failed to save game after window expiry",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
		return
	}

	if c.events != nil {
		c.events.ClaimWindowExpired(g, playerID)
	}

	c.logger.Info("claim window expired",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
	)
}

// closeClaimWindow shuts the window, starts the holder's cooldown, and
// performs any turn advancement deferred while the claim was in flight
func (c *Controller) closeClaimWindow(rt *gameRuntime, g *model.Game, playerID model.PlayerID, now time.Time) {
	rt.timers.setClaimWindow(nil)
	g.ClaimWindow = nil
	c.startCooldown(rt, g, playerID, now)
	if g.TurnAdvancePending {
		c.advanceTurn(rt, g)
	}
}

// startCooldown puts a player on claim cooldown and arms its cleanup timer
func (c *Controller) startCooldown(rt *gameRuntime, g *model.Game, playerID model.PlayerID, now time.Time) {
	if g.ClaimCooldowns == nil {
		g.ClaimCooldowns = make(map[model.PlayerID]time.Time)
	}
	expiry := now.Add(ClaimCooldown)
	g.ClaimCooldowns[playerID] = expiry
	rt.timers.setCooldown(playerID, c.clock.AfterFunc(ClaimCooldown, func() {
		c.expireCooldown(g.ID, playerID, expiry)
	}))
}

// expireCooldown removes a lapsed cooldown entry. The expiry value is
// the identity check: a newer cooldown for the same player wins.
func (c *Controller) expireCooldown(gameID model.GameID, playerID model.PlayerID, expiry time.Time) {
	ctx := context.Background()
	rt := c.runtime(gameID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	g, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return
	}
	current, ok := g.ClaimCooldowns[playerID]
	if !ok || !current.Equal(expiry) {
		return
	}
	delete(g.ClaimCooldowns, playerID)
	delete(rt.timers.cooldowns, playerID)
	if err := c.saveGame(ctx, g); err != nil {
		c.logger.Error("failed to save game after cooldown expiry",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
	}
}

// startEndCountdown (re)arms the end-of-game countdown
func (c *Controller) startEndCountdown(rt *gameRuntime, g *model.Game, now time.Time) {
	g.EndCountdownAt = now.Add(EndCountdown)
	deadline := g.EndCountdownAt
	rt.timers.setEndCountdown(c.clock.AfterFunc(EndCountdown, func() {
		c.fireEndCountdown(g.ID, deadline)
	}))
}

// fireEndCountdown ends the game when the countdown elapses unrestarted
func (c *Controller) fireEndCountdown(gameID model.GameID, deadline time.Time) {
	ctx := context.Background()
	rt := c.runtime(gameID)

	ended := false
	rt.mu.Lock()
	g, err := c.storage.GetGame(ctx, gameID)
	if err == nil &&
		g.Status == model.GameStatusInGame &&
		len(g.Bag) == 0 &&
		g.EndCountdownAt.Equal(deadline) {
		c.finalizeLocked(ctx, rt, g)
		if c.events != nil {
			c.events.GameEnded(g)
		}
		ended = true
	}
	rt.mu.Unlock()

	if ended {
		c.dropRuntime(gameID)
	}
}

// EndGame ends a game immediately (room teardown, host action)
func (c *Controller) EndGame(ctx context.Context, gameID model.GameID) error {
	rt := c.runtime(gameID)

	rt.mu.Lock()
	g, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		rt.mu.Unlock()
		return err
	}
	if g.Status == model.GameStatusEnded {
		rt.mu.Unlock()
		return nil
	}
	c.finalizeLocked(ctx, rt, g)
	rt.mu.Unlock()

	c.dropRuntime(gameID)
	return nil
}

// finalizeLocked transitions a game to ended: final replay step, all
// timers cancelled, aggregate becomes read-only history
func (c *Controller) finalizeLocked(ctx context.Context, rt *gameRuntime, g *model.Game) {
	rt.timers.cancelAll()
	g.Status = model.GameStatusEnded
	g.PendingFlip = nil
	g.ClaimWindow = nil
	g.TurnAdvancePending = false

	c.record(g, model.ReplayGameEnded)
	if err := c.saveGame(ctx, g); err != nil {
		c.logger.Error("failed to save ended game",
			slog.String("game_id", string(g.ID)),
			slog.String("error", err.Error()),
		)
	}

	c.logger.Info("game ended",
		slog.String("game_id", string(g.ID)),
		slog.String("room_code", string(g.RoomCode)),
		slog.Int("replay_steps", len(g.Replay)),
	)
}

// SetConnected updates a player's connection status. If the turn player
// drops with no reveal in flight, the turn moves on.
func (c *Controller) SetConnected(ctx context.Context, gameID model.GameID, playerID model.PlayerID, connected bool) error {
	rt := c.runtime(gameID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	g, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if g.Status != model.GameStatusInGame {
		return nil
	}

	p := g.PlayerByID(playerID)
	if p == nil {
		return model.ErrPlayerNotFound
	}
	if p.Connected == connected {
		return nil
	}
	p.Connected = connected

	if !connected && g.TurnPlayerID() == playerID && g.PendingFlip == nil && g.ClaimWindow == nil {
		c.advanceTurn(rt, g)
	}

	c.record(g, model.ReplayConnectionChanged)
	return c.saveGame(ctx, g)
}

// ResumeGame re-arms a hydrated game's timers from its stored absolute
// timestamps. Deadlines already in the past fire on the next tick.
func (c *Controller) ResumeGame(ctx context.Context, gameID model.GameID) error {
	rt := c.runtime(gameID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	g, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if g.Status != model.GameStatusInGame {
		return nil
	}

	now := c.clock.Now()

	if g.PendingFlip != nil {
		token := g.PendingFlip.Token
		rt.timers.setFlipReveal(c.clock.AfterFunc(remaining(g.PendingFlip.RevealsAt, now), func() {
			c.completeReveal(gameID, token)
		}))
	}
	if g.ClaimWindow != nil {
		token := g.ClaimWindow.Token
		rt.timers.setClaimWindow(c.clock.AfterFunc(remaining(g.ClaimWindow.EndsAt, now), func() {
			c.expireClaimWindow(gameID, token)
		}))
	}
	for playerID, expiry := range g.ClaimCooldowns {
		playerID, expiry := playerID, expiry
		rt.timers.setCooldown(playerID, c.clock.AfterFunc(remaining(expiry, now), func() {
			c.expireCooldown(gameID, playerID, expiry)
		}))
	}
	if !g.EndCountdownAt.IsZero() {
		deadline := g.EndCountdownAt
		rt.timers.setEndCountdown(c.clock.AfterFunc(remaining(deadline, now), func() {
			c.fireEndCountdown(gameID, deadline)
		}))
	}
	if g.PendingFlip == nil && g.ClaimWindow == nil {
		c.scheduleAutoFlip(rt, g)
	}

	c.logger.Info("game resumed",
		slog.String("game_id", string(gameID)),
		slog.Int("replay_steps", len(g.Replay)),
	)
	return nil
}

// ResumeAllGames resumes every in-flight game found in storage. Called
// once at startup so games persisted across a restart pick their timers
// back up instead of sitting frozen.
func (c *Controller) ResumeAllGames(ctx context.Context) error {
	games, err := c.storage.ListActiveGames(ctx)
	if err != nil {
		return err
	}

	resumed := 0
	for _, g := range games {
		if err := c.ResumeGame(ctx, g.ID); err != nil {
			c.logger.Error("failed to resume game",
				slog.String("game_id", string(g.ID)),
				slog.String("error", err.Error()),
			)
			continue
		}
		resumed++
	}

	if resumed > 0 {
		c.logger.Info("resumed in-flight games", slog.Int("count", resumed))
	}
	return nil
}

// TeardownGame cancels every outstanding timer for a game and drops its
// runtime entry. Safe to call for unknown games.
func (c *Controller) TeardownGame(gameID model.GameID) {
	c.dropRuntime(gameID)
}

// remaining clamps a deadline to a non-negative duration from now
func remaining(deadline, now time.Time) time.Duration {
	d := deadline.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// record appends a replay step unless the state is unchanged
func (c *Controller) record(g *model.Game, kind model.ReplayKind) {
	if _, err := c.recorder.AppendStepIfChanged(g, kind, c.clock.Now()); err != nil {
		c.logger.Error("failed to append replay step",
			slog.String("game_id", string(g.ID)),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
	}
}

// saveGame stamps and persists the game
func (c *Controller) saveGame(ctx context.Context, g *model.Game) error {
	g.UpdatedAt = c.clock.Now()
	return c.storage.SaveGame(ctx, g)
}
