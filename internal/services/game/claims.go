package game

import (
	"fmt"
	"time"

	"github.com/mcoot/snatchgame-go/internal/model"
	"github.com/mcoot/snatchgame-go/internal/services/resolver"
)

// executeClaim applies a validated claim to the game: center tiles move
// into the new word, a stolen source moves off its owner, and both
// scores are recomputed. The candidate must have come from the resolver
// against this exact game state.
func (c *Controller) executeClaim(g *model.Game, playerID model.PlayerID, cand *resolver.Candidate, origin model.ClaimOrigin, now time.Time) *model.ClaimEvent {
	// Pull the needed tiles out of the center, one per added letter
	drawn := make([]model.Tile, 0, len(cand.AddedLetters))
	need := []rune(cand.AddedLetters)
	remaining := g.CenterTiles[:0]
	for _, tile := range g.CenterTiles {
		taken := false
		for i, r := range need {
			if r == tile.Letter {
				drawn = append(drawn, tile)
				need = append(need[:i], need[i+1:]...)
				taken = true
				break
			}
		}
		if !taken {
			remaining = append(remaining, tile)
		}
	}
	if len(need) != 0 {
		panic(fmt.Sprintf("game %s: resolver accepted %q but center lacks %q", g.ID, cand.Word, string(need)))
	}
	g.CenterTiles = remaining

	// Letter-keyed queues of available tile IDs, so we can lay the new
	// word's tiles out in spelling order
	pool := make(map[rune][]model.TileID, len(drawn))
	for _, tile := range drawn {
		pool[tile.Letter] = append(pool[tile.Letter], tile.ID)
	}

	event := &model.ClaimEvent{
		Kind:         cand.Kind,
		Origin:       origin,
		PlayerID:     playerID,
		Word:         cand.Word,
		AddedLetters: cand.AddedLetters,
		At:           now,
	}

	if cand.Source != nil {
		source := cand.Source
		event.SourceWordID = source.ID
		event.SourceOwnerID = source.OwnerID

		for i, r := range source.Text {
			pool[r] = append(pool[r], source.TileIDs[i])
		}

		owner := g.PlayerByID(source.OwnerID)
		for i, w := range owner.Words {
			if w.ID == source.ID {
				owner.Words = append(owner.Words[:i], owner.Words[i+1:]...)
				break
			}
		}
		owner.RecomputeScore()
	}

	tileIDs := make([]model.TileID, len(cand.Word))
	for i, r := range cand.Word {
		ids := pool[r]
		if len(ids) == 0 {
			panic(fmt.Sprintf("game %s: tile accounting broke forming %q at letter %c", g.ID, cand.Word, r))
		}
		tileIDs[i] = ids[0]
		pool[r] = ids[1:]
	}

	word := &model.Word{
		ID:        model.WordID(c.random.String(8, idAlphabet)),
		Text:      cand.Word,
		OwnerID:   playerID,
		TileIDs:   tileIDs,
		CreatedAt: now,
	}
	event.WordID = word.ID

	claimant := g.PlayerByID(playerID)
	claimant.Words = append(claimant.Words, *word)
	claimant.RecomputeScore()

	g.LastClaimEvent = event
	c.revalidateAllPreStealEntries(g)

	if count := g.TileCount(); count != g.BagSize {
		panic(fmt.Sprintf("game %s: tile conservation violated after %q: %d of %d accounted for", g.ID, cand.Word, count, g.BagSize))
	}

	return event
}
