package game

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcoot/snatchgame-go/internal/model"
	"github.com/mcoot/snatchgame-go/internal/services/resolver"
)

// AddPreStealEntry registers a standing order for a player: when the
// given trigger letters land in the center, claim the given word. The
// entry is validated against the current board before it is stored.
func (c *Controller) AddPreStealEntry(ctx context.Context, gameID model.GameID, playerID model.PlayerID, triggerLetters, claimWord string) (*model.PreStealEntry, error) {
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
	if !g.PreStealEnabled {
		return nil, model.ErrPreStealDisabled
	}
	p := g.PlayerByID(playerID)
	if p == nil {
		return nil, model.ErrPlayerNotFound
	}

	trigger, word, err := c.resolver.ValidateEntry(g, triggerLetters, claimWord)
	if err != nil {
		return nil, err
	}

	entry := model.PreStealEntry{
		ID:             model.PreStealEntryID(c.random.String(8, idAlphabet)),
		TriggerLetters: trigger,
		ClaimWord:      word,
		CreatedAt:      c.clock.Now(),
	}
	p.PreStealEntries = append(p.PreStealEntries, entry)

	c.record(g, model.ReplayPreStealEdited)
	if err := c.saveGame(ctx, g); err != nil {
		return nil, err
	}

	c.logger.Info("pre-steal entry added",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
		slog.String("trigger", trigger),
		slog.String("word", word),
	)
	return &entry, nil
}

// RemovePreStealEntry deletes one of the player's standing orders
func (c *Controller) RemovePreStealEntry(ctx context.Context, gameID model.GameID, playerID model.PlayerID, entryID model.PreStealEntryID) error {
	rt := c.runtime(gameID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	g, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if g.Status != model.GameStatusInGame {
		return model.ErrGameEnded
	}
	p := g.PlayerByID(playerID)
	if p == nil {
		return model.ErrPlayerNotFound
	}

	idx := -1
	for i, e := range p.PreStealEntries {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.ErrEntryNotFound
	}
	p.PreStealEntries = append(p.PreStealEntries[:idx], p.PreStealEntries[idx+1:]...)

	c.record(g, model.ReplayPreStealEdited)
	return c.saveGame(ctx, g)
}

// ReorderPreStealEntry moves one of the player's standing orders to a
// new position in their personal priority list
func (c *Controller) ReorderPreStealEntry(ctx context.Context, gameID model.GameID, playerID model.PlayerID, entryID model.PreStealEntryID, toIndex int) error {
	rt := c.runtime(gameID)
	rt.mu.Lock()
	defer rt.mu.Unlock()

	g, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if g.Status != model.GameStatusInGame {
		return model.ErrGameEnded
	}
	p := g.PlayerByID(playerID)
	if p == nil {
		return model.ErrPlayerNotFound
	}

	idx := -1
	for i, e := range p.PreStealEntries {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.ErrEntryNotFound
	}
	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex >= len(p.PreStealEntries) {
		toIndex = len(p.PreStealEntries) - 1
	}

	entry := p.PreStealEntries[idx]
	entries := append(p.PreStealEntries[:idx], p.PreStealEntries[idx+1:]...)
	entries = append(entries, model.PreStealEntry{})
	copy(entries[toIndex+1:], entries[toIndex:])
	entries[toIndex] = entry
	p.PreStealEntries = entries

	c.record(g, model.ReplayPreStealEdited)
	return c.saveGame(ctx, g)
}

// maybeRunAutoPreSteal runs the auto-resolver after a tile reveal. It
// walks the precedence queue front to back; the first player holding a
// firing entry claims it, and that player rotates to the back of the
// queue. At most one claim fires per reveal. Returns whether one did.
func (c *Controller) maybeRunAutoPreSteal(g *model.Game, now time.Time) bool {
	if !g.PreStealEnabled {
		return false
	}

	for pos, playerID := range g.PreStealPrecedence {
		p := g.PlayerByID(playerID)
		if p == nil || !p.Connected {
			continue
		}
		entry, cand, ok := c.firstFiringEntry(g, playerID, p.PreStealEntries)
		if !ok {
			continue
		}

		c.executeClaim(g, playerID, cand, model.ClaimOriginPreSteal, now)
		c.removeEntryByID(p, entry.ID)
		rotateToBack(g.PreStealPrecedence, pos)

		c.logger.Info("pre-steal claim fired",
			slog.String("game_id", string(g.ID)),
			slog.String("player_id", string(playerID)),
			slog.String("word", cand.Word),
		)
		return true
	}
	return false
}

// firstFiringEntry finds the highest-priority entry of one player that
// fires on the current board. An entry fires when its trigger letters
// are exactly coverable and its claim word resolves legally right now.
func (c *Controller) firstFiringEntry(g *model.Game, playerID model.PlayerID, entries []model.PreStealEntry) (model.PreStealEntry, *resolver.Candidate, bool) {
	for _, entry := range entries {
		cand, err := c.resolver.ValidateCandidate(g, playerID, entry.ClaimWord)
		if err != nil {
			continue
		}
		if cand.AddedLetters != entry.TriggerLetters {
			// The board can form the word, but not by consuming exactly
			// the letters this order was written for
			continue
		}
		return entry, cand, true
	}
	return model.PreStealEntry{}, nil, false
}

// revalidateAllPreStealEntries drops standing orders that can no longer
// ever fire after a claim changed the board
func (c *Controller) revalidateAllPreStealEntries(g *model.Game) {
	if !g.PreStealEnabled {
		return
	}
	for _, p := range g.Players {
		kept := p.PreStealEntries[:0]
		for _, entry := range p.PreStealEntries {
			if c.resolver.EntryStillViable(g, entry) {
				kept = append(kept, entry)
			}
		}
		p.PreStealEntries = kept
	}
}

func (c *Controller) removeEntryByID(p *model.GamePlayer, id model.PreStealEntryID) {
	for i, e := range p.PreStealEntries {
		if e.ID == id {
			p.PreStealEntries = append(p.PreStealEntries[:i], p.PreStealEntries[i+1:]...)
			return
		}
	}
}

// rotateToBack moves the element at pos to the end of the queue
func rotateToBack(queue []model.PlayerID, pos int) {
	id := queue[pos]
	copy(queue[pos:], queue[pos+1:])
	queue[len(queue)-1] = id
}
