package game

import (
	"github.com/mcoot/snatchgame-go/internal/model"
)

// Events receives notifications for engine-driven mutations: changes
// made by timer callbacks rather than in response to a player request.
// Request-driven mutations are announced by the API layer, which holds
// the response anyway; the hook covers everything the clock does on its
// own.
//
// Callbacks run on the timer goroutine with the game's runtime lock
// held; the game argument is the live instance and must only be read
// synchronously. Implementations must not call back into the game
// controller.
type Events interface {
	// FlipStarted fires when the turn timer flips on a player's behalf
	FlipStarted(g *model.Game)
	// TileRevealed fires when a pending flip's reveal delay elapses
	TileRevealed(g *model.Game, tile model.Tile)
	// ClaimResolved fires when the pre-steal auto-resolver executes a claim
	ClaimResolved(g *model.Game, event model.ClaimEvent)
	// ClaimWindowExpired fires when an open window lapses unsubmitted
	ClaimWindowExpired(g *model.Game, playerID model.PlayerID)
	// GameEnded fires when the end-of-game countdown elapses
	GameEnded(g *model.Game)
}

// SetEvents installs the engine event hook. Set once during wiring,
// before any game is created; not safe to swap while games are running.
func (c *Controller) SetEvents(events Events) {
	c.events = events
}
