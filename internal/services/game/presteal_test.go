package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/snatchgame-go/internal/dependencies/mocks"
	"github.com/mcoot/snatchgame-go/internal/model"
	"github.com/mcoot/snatchgame-go/internal/services/replay"
	"github.com/mcoot/snatchgame-go/internal/services/resolver"
	"github.com/mcoot/snatchgame-go/internal/storage/memory"
	"github.com/mcoot/snatchgame-go/internal/testutil"
)

type PreStealSuite struct {
	suite.Suite
	controller *Controller
	storage    *memory.Storage
	clock      *mocks.MockClock
	ctx        context.Context
}

func TestPreStealSuite(t *testing.T) {
	suite.Run(t, new(PreStealSuite))
}

func (s *PreStealSuite) SetupTest() {
	s.ctx = context.Background()
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	oracle := &fakeOracle{words: map[string]bool{
		"MILE": true, "SMILE": true, "LIMES": true, "SMILED": true,
		"CARE": true, "SCARE": true, "TEAR": true, "STARE": true,
	}}
	s.controller = NewController(
		s.storage,
		resolver.New(oracle),
		replay.New(),
		s.clock,
		mocks.NewMockRandom(),
		testutil.NopLogger(),
	)
}

func (s *PreStealSuite) players(names ...string) []model.Player {
	players := make([]model.Player, len(names))
	for i, name := range names {
		players[i] = model.Player{ID: model.PlayerID(name), DisplayName: name}
	}
	return players
}

func (s *PreStealSuite) newGame(bag string, names ...string) *model.Game {
	g, err := s.controller.CreateGame(s.ctx, "ROOM", s.players(names...), model.DefaultRoomConfig())
	s.Require().NoError(err)

	tiles := make([]model.Tile, len(bag))
	for i, r := range bag {
		tiles[i] = model.Tile{ID: model.TileID(string(rune('a' + i))), Letter: r}
	}
	g.Bag = tiles
	g.BagSize = g.TileCount()
	s.Require().NoError(s.storage.SaveGame(s.ctx, g))
	return g
}

func (s *PreStealSuite) reload(g *model.Game) *model.Game {
	got, err := s.storage.GetGame(s.ctx, g.ID)
	s.Require().NoError(err)
	return got
}

func (s *PreStealSuite) flipAndReveal(g *model.Game) *model.Game {
	current := s.reload(g)
	s.Require().NoError(s.controller.Flip(s.ctx, g.ID, current.TurnPlayerID()))
	s.clock.Advance(RevealDelay)
	return s.reload(g)
}

// giveWord plants an existing claimed word directly into game state
func (s *PreStealSuite) giveWord(g *model.Game, playerID model.PlayerID, text string) {
	current := s.reload(g)
	p := current.PlayerByID(playerID)
	tileIDs := make([]model.TileID, len(text))
	for i := range text {
		tileIDs[i] = model.TileID("w-" + text + string(rune('0'+i)))
	}
	p.Words = append(p.Words, model.Word{
		ID:        model.WordID("word-" + text),
		Text:      text,
		OwnerID:   playerID,
		TileIDs:   tileIDs,
		CreatedAt: s.clock.Now(),
	})
	p.RecomputeScore()
	current.BagSize = current.TileCount()
	s.Require().NoError(s.storage.SaveGame(s.ctx, current))
}

func (s *PreStealSuite) TestAddEntryValidatesAndNormalizes() {
	g := s.newGame("SQ", "alice", "bob")
	s.giveWord(g, "bob", "MILE")

	entry, err := s.controller.AddPreStealEntry(s.ctx, g.ID, "alice", "s", "smile")
	s.Require().NoError(err)
	s.Equal("S", entry.TriggerLetters)
	s.Equal("SMILE", entry.ClaimWord)

	after := s.reload(g)
	s.Len(after.PlayerByID("alice").PreStealEntries, 1)
}

func (s *PreStealSuite) TestAddEntryRejectsNonViable() {
	g := s.newGame("SQ", "alice", "bob")

	// No MILE on the board, so SMILE minus S has no source
	_, err := s.controller.AddPreStealEntry(s.ctx, g.ID, "alice", "s", "smile")
	s.ErrorIs(err, model.ErrEntryNotViable)
}

func (s *PreStealSuite) TestAddEntryRejectedWhenDisabled() {
	cfg := model.DefaultRoomConfig()
	cfg.PreStealEnabled = false
	g, err := s.controller.CreateGame(s.ctx, "ROOM", s.players("alice", "bob"), cfg)
	s.Require().NoError(err)

	_, err = s.controller.AddPreStealEntry(s.ctx, g.ID, "alice", "s", "smile")
	s.ErrorIs(err, model.ErrPreStealDisabled)
}

func (s *PreStealSuite) TestEntryFiresOnMatchingReveal() {
	g := s.newGame("SQ", "alice", "bob")
	s.giveWord(g, "bob", "MILE")

	_, err := s.controller.AddPreStealEntry(s.ctx, g.ID, "alice", "s", "smile")
	s.Require().NoError(err)

	// Flip the S; alice's standing order fires automatically
	after := s.flipAndReveal(g)

	alice := after.PlayerByID("alice")
	s.Require().Len(alice.Words, 1)
	s.Equal("SMILE", alice.Words[0].Text)
	s.Empty(after.PlayerByID("bob").Words)
	s.Empty(alice.PreStealEntries)
	s.Equal(after.BagSize, after.TileCount())

	s.Require().NotNil(after.LastClaimEvent)
	s.Equal(model.ClaimOriginPreSteal, after.LastClaimEvent.Origin)
}

func (s *PreStealSuite) TestEntryIgnoresNonMatchingReveal() {
	g := s.newGame("QS", "alice", "bob")
	s.giveWord(g, "bob", "MILE")

	_, err := s.controller.AddPreStealEntry(s.ctx, g.ID, "alice", "s", "smile")
	s.Require().NoError(err)

	// Q lands in the center; the order waits for its S
	after := s.flipAndReveal(g)
	s.Empty(after.PlayerByID("alice").Words)
	s.Len(after.PlayerByID("alice").PreStealEntries, 1)

	// Now the S arrives and it fires
	after = s.flipAndReveal(g)
	s.Len(after.PlayerByID("alice").Words, 1)
}

func (s *PreStealSuite) TestPrecedenceRotatesAfterFiring() {
	g := s.newGame("SSQ", "alice", "bob")
	s.giveWord(g, "bob", "MILE")
	s.giveWord(g, "alice", "CARE")

	// Both players hold an order triggered by S
	_, err := s.controller.AddPreStealEntry(s.ctx, g.ID, "alice", "s", "smile")
	s.Require().NoError(err)
	_, err = s.controller.AddPreStealEntry(s.ctx, g.ID, "bob", "s", "scare")
	s.Require().NoError(err)

	// First S: alice has precedence and wins the race
	after := s.flipAndReveal(g)
	s.Len(after.PlayerByID("alice").Words, 2)
	s.Equal([]model.PlayerID{"bob", "alice"}, after.PreStealPrecedence)

	// Second S: bob is now at the head and fires
	after = s.flipAndReveal(g)
	s.Require().NotNil(after.LastClaimEvent)
	s.Equal(model.PlayerID("bob"), after.LastClaimEvent.PlayerID)
	s.Equal("SCARE", after.LastClaimEvent.Word)
	s.Equal([]model.PlayerID{"alice", "bob"}, after.PreStealPrecedence)
}

func (s *PreStealSuite) TestAtMostOneClaimPerReveal() {
	g := s.newGame("SQ", "alice", "bob")
	s.giveWord(g, "bob", "MILE")
	s.giveWord(g, "alice", "CARE")

	_, err := s.controller.AddPreStealEntry(s.ctx, g.ID, "alice", "s", "smile")
	s.Require().NoError(err)
	_, err = s.controller.AddPreStealEntry(s.ctx, g.ID, "bob", "s", "scare")
	s.Require().NoError(err)

	after := s.flipAndReveal(g)

	// Only alice's fired; the S is consumed, bob's order still stands
	s.Len(after.PlayerByID("alice").Words, 2)
	s.Len(after.PlayerByID("bob").Words, 0)
	s.Len(after.PlayerByID("bob").PreStealEntries, 1)
	s.Empty(after.CenterTiles)
}

func (s *PreStealSuite) TestPrecedenceSkipsPlayersWithoutFiringEntries() {
	g := s.newGame("SQ", "alice", "bob")
	s.giveWord(g, "alice", "CARE")

	// Alice holds no order; bob's fires even from second in precedence
	_, err := s.controller.AddPreStealEntry(s.ctx, g.ID, "bob", "s", "scare")
	s.Require().NoError(err)

	after := s.flipAndReveal(g)
	bob := after.PlayerByID("bob")
	s.Require().Len(bob.Words, 1)
	s.Equal("SCARE", bob.Words[0].Text)
	// The skipped player keeps their precedence position
	s.Equal([]model.PlayerID{"alice", "bob"}, after.PreStealPrecedence)
}

func (s *PreStealSuite) TestSelfStealAllowed() {
	g := s.newGame("SQ", "alice", "bob")
	s.giveWord(g, "alice", "MILE")

	_, err := s.controller.AddPreStealEntry(s.ctx, g.ID, "alice", "s", "smile")
	s.Require().NoError(err)

	after := s.flipAndReveal(g)
	alice := after.PlayerByID("alice")
	s.Require().Len(alice.Words, 1)
	s.Equal("SMILE", alice.Words[0].Text)
	s.Equal(model.ClaimKindExtension, after.LastClaimEvent.Kind)
}

func (s *PreStealSuite) TestEntriesInvalidatedWhenSourceStolen() {
	g := s.newGame("SSQ", "alice", "bob")
	s.giveWord(g, "bob", "MILE")

	// Both orders depend on MILE being on the board
	_, err := s.controller.AddPreStealEntry(s.ctx, g.ID, "alice", "s", "smile")
	s.Require().NoError(err)
	_, err = s.controller.AddPreStealEntry(s.ctx, g.ID, "bob", "s", "limes")
	s.Require().NoError(err)

	// Alice's fires first and consumes MILE; bob's order, now sourceless,
	// is dropped rather than left to misfire later
	after := s.flipAndReveal(g)
	s.Len(after.PlayerByID("alice").Words, 1)
	s.Empty(after.PlayerByID("bob").PreStealEntries)
}

func (s *PreStealSuite) TestRemoveEntry() {
	g := s.newGame("SQ", "alice", "bob")
	s.giveWord(g, "bob", "MILE")

	entry, err := s.controller.AddPreStealEntry(s.ctx, g.ID, "alice", "s", "smile")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.RemovePreStealEntry(s.ctx, g.ID, "alice", entry.ID))
	s.Empty(s.reload(g).PlayerByID("alice").PreStealEntries)

	err = s.controller.RemovePreStealEntry(s.ctx, g.ID, "alice", entry.ID)
	s.ErrorIs(err, model.ErrEntryNotFound)
}

func (s *PreStealSuite) TestReorderEntry() {
	g := s.newGame("SQ", "alice", "bob")
	s.giveWord(g, "bob", "MILE")
	s.giveWord(g, "alice", "CARE")

	first, err := s.controller.AddPreStealEntry(s.ctx, g.ID, "alice", "s", "smile")
	s.Require().NoError(err)
	second, err := s.controller.AddPreStealEntry(s.ctx, g.ID, "alice", "s", "scare")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.ReorderPreStealEntry(s.ctx, g.ID, "alice", second.ID, 0))

	entries := s.reload(g).PlayerByID("alice").PreStealEntries
	s.Require().Len(entries, 2)
	s.Equal(second.ID, entries[0].ID)
	s.Equal(first.ID, entries[1].ID)

	// The highest-priority order is the one that fires
	after := s.flipAndReveal(g)
	s.Equal("SCARE", after.LastClaimEvent.Word)
}

func (s *PreStealSuite) TestDisconnectedPlayersSkippedByAutoResolver() {
	g := s.newGame("SQX", "alice", "bob")
	s.giveWord(g, "bob", "MILE")
	s.giveWord(g, "alice", "CARE")

	_, err := s.controller.AddPreStealEntry(s.ctx, g.ID, "alice", "s", "smile")
	s.Require().NoError(err)
	_, err = s.controller.AddPreStealEntry(s.ctx, g.ID, "bob", "s", "scare")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.SetConnected(s.ctx, g.ID, "alice", false))

	after := s.flipAndReveal(g)
	s.Require().NotNil(after.LastClaimEvent)
	s.Equal(model.PlayerID("bob"), after.LastClaimEvent.PlayerID)
}
