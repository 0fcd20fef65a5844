package game

import (
	"sync"

	"github.com/mcoot/snatchgame-go/internal/dependencies/clock"
	"github.com/mcoot/snatchgame-go/internal/model"
)

// gameRuntime holds the live, non-persisted side of one game: the mutex
// that serializes all mutations (one logical writer per room) and the
// outstanding timer handles. Created lazily, removed on teardown.
type gameRuntime struct {
	mu     sync.Mutex
	timers gameTimers
}

// gameTimers tracks every scheduled callback tied to a game so teardown
// can cancel them all. Callbacks still re-validate state (by token or
// deadline) when they fire; cancellation is best-effort.
type gameTimers struct {
	flipReveal   clock.Timer
	autoFlip     clock.Timer
	claimWindow  clock.Timer
	endCountdown clock.Timer
	cooldowns    map[model.PlayerID]clock.Timer
}

func (t *gameTimers) setFlipReveal(timer clock.Timer) {
	if t.flipReveal != nil {
		t.flipReveal.Stop()
	}
	t.flipReveal = timer
}

func (t *gameTimers) setAutoFlip(timer clock.Timer) {
	if t.autoFlip != nil {
		t.autoFlip.Stop()
	}
	t.autoFlip = timer
}

func (t *gameTimers) setClaimWindow(timer clock.Timer) {
	if t.claimWindow != nil {
		t.claimWindow.Stop()
	}
	t.claimWindow = timer
}

func (t *gameTimers) setEndCountdown(timer clock.Timer) {
	if t.endCountdown != nil {
		t.endCountdown.Stop()
	}
	t.endCountdown = timer
}

func (t *gameTimers) setCooldown(playerID model.PlayerID, timer clock.Timer) {
	if t.cooldowns == nil {
		t.cooldowns = make(map[model.PlayerID]clock.Timer)
	}
	if existing, ok := t.cooldowns[playerID]; ok {
		existing.Stop()
	}
	t.cooldowns[playerID] = timer
}

func (t *gameTimers) clearCooldown(playerID model.PlayerID) {
	if timer, ok := t.cooldowns[playerID]; ok {
		timer.Stop()
		delete(t.cooldowns, playerID)
	}
}

func (t *gameTimers) clearAllCooldowns() {
	for playerID, timer := range t.cooldowns {
		timer.Stop()
		delete(t.cooldowns, playerID)
	}
}

// cancelAll stops every outstanding timer. Called when a game ends or is
// torn down.
func (t *gameTimers) cancelAll() {
	if t.flipReveal != nil {
		t.flipReveal.Stop()
		t.flipReveal = nil
	}
	if t.autoFlip != nil {
		t.autoFlip.Stop()
		t.autoFlip = nil
	}
	if t.claimWindow != nil {
		t.claimWindow.Stop()
		t.claimWindow = nil
	}
	if t.endCountdown != nil {
		t.endCountdown.Stop()
		t.endCountdown = nil
	}
	t.clearAllCooldowns()
}

// runtime returns the runtime entry for a game, creating it if needed
func (c *Controller) runtime(id model.GameID) *gameRuntime {
	c.mu.Lock()
	defer c.mu.Unlock()
	rt, ok := c.runtimes[id]
	if !ok {
		rt = &gameRuntime{}
		c.runtimes[id] = rt
	}
	return rt
}

// peekRuntime returns the runtime entry for a game without creating one.
// Read paths use this so that looking at a finished game does not leak a
// fresh runtime entry.
func (c *Controller) peekRuntime(id model.GameID) (*gameRuntime, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rt, ok := c.runtimes[id]
	return rt, ok
}

// dropRuntime cancels a game's timers and removes its runtime entry
func (c *Controller) dropRuntime(id model.GameID) {
	c.mu.Lock()
	rt, ok := c.runtimes[id]
	if ok {
		delete(c.runtimes, id)
	}
	c.mu.Unlock()

	if ok {
		rt.mu.Lock()
		rt.timers.cancelAll()
		rt.mu.Unlock()
	}
}
