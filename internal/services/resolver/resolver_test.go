package resolver

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/snatchgame-go/internal/model"
)

type fakeOracle struct {
	words map[string]bool
}

func (o *fakeOracle) IsValidWord(word string) bool {
	return o.words[word]
}

type ResolverSuite struct {
	suite.Suite
	resolver *Service
	game     *model.Game
	baseTime time.Time
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	oracle := &fakeOracle{words: map[string]bool{
		"MILE": true, "MILES": true, "SMILE": true, "LIMES": true,
		"CARE": true, "CARES": true, "SCARE": true, "RACES": true,
		"TEAR": true, "TEARS": true, "STARE": true, "RATES": true,
		"NODE": true, "NODES": true, "DRONES": true, "RATERS": true,
		"QUIZ": true, "WORD": true, "SWORD": true,
	}}
	s.resolver = New(oracle)
	s.baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.game = &model.Game{
		ID: "game-1",
		Players: []*model.GamePlayer{
			{ID: "alice", Name: "Alice", Connected: true},
			{ID: "bob", Name: "Bob", Connected: true},
		},
	}
}

// setCenter replaces the center tiles with one tile per given letter
func (s *ResolverSuite) setCenter(letters string) {
	tiles := make([]model.Tile, len(letters))
	for i, r := range letters {
		tiles[i] = model.Tile{
			ID:     model.TileID(fmt.Sprintf("c%03d", i)),
			Letter: r,
		}
	}
	s.game.CenterTiles = tiles
}

// giveWord hands a player an existing word with synthetic tile IDs
func (s *ResolverSuite) giveWord(playerID model.PlayerID, text string, createdAt time.Time) *model.Word {
	p := s.game.PlayerByID(playerID)
	tileIDs := make([]model.TileID, len(text))
	for i := range text {
		tileIDs[i] = model.TileID(fmt.Sprintf("w-%s-%d", text, i))
	}
	p.Words = append(p.Words, model.Word{
		ID:        model.WordID("word-" + text),
		Text:      text,
		OwnerID:   playerID,
		TileIDs:   tileIDs,
		CreatedAt: createdAt,
	})
	p.RecomputeScore()
	return &p.Words[len(p.Words)-1]
}

func (s *ResolverSuite) TestFreshClaimFromCenter() {
	s.setCenter("MELIQ")

	cand, err := s.resolver.ValidateCandidate(s.game, "alice", "mile")
	s.Require().NoError(err)
	s.Equal("MILE", cand.Word)
	s.Equal(model.ClaimKindFresh, cand.Kind)
	s.Nil(cand.Source)
	s.Equal("EILM", cand.AddedLetters)
}

func (s *ResolverSuite) TestRejectsEmptyAndShortWords() {
	s.setCenter("MELIQ")

	_, err := s.resolver.ValidateCandidate(s.game, "alice", "  !! ")
	s.ErrorIs(err, model.ErrEmptyInput)

	_, err = s.resolver.ValidateCandidate(s.game, "alice", "eli")
	s.ErrorIs(err, model.ErrWordTooShort)
}

func (s *ResolverSuite) TestRejectsUnknownWord() {
	s.setCenter("XYZQW")

	_, err := s.resolver.ValidateCandidate(s.game, "alice", "xyzq")
	s.ErrorIs(err, model.ErrNotInDictionary)
}

func (s *ResolverSuite) TestRejectsWhenCenterLacksLetters() {
	s.setCenter("MIL")

	_, err := s.resolver.ValidateCandidate(s.game, "alice", "mile")
	s.ErrorIs(err, model.ErrInsufficientTiles)
}

func (s *ResolverSuite) TestTrivialSuffixExtensionRejected() {
	s.giveWord("bob", "MILE", s.baseTime)
	s.setCenter("S")

	_, err := s.resolver.ValidateCandidate(s.game, "alice", "miles")
	s.ErrorIs(err, model.ErrTrivialExtension)
}

func (s *ResolverSuite) TestRearrangingStealAccepted() {
	s.giveWord("bob", "MILE", s.baseTime)
	s.setCenter("S")

	cand, err := s.resolver.ValidateCandidate(s.game, "alice", "smile")
	s.Require().NoError(err)
	s.Equal(model.ClaimKindSteal, cand.Kind)
	s.Require().NotNil(cand.Source)
	s.Equal("MILE", cand.Source.Text)
	s.Equal("S", cand.AddedLetters)
}

func (s *ResolverSuite) TestFrontAdditionIsNotTrivial() {
	s.giveWord("bob", "WORD", s.baseTime)
	s.setCenter("S")

	cand, err := s.resolver.ValidateCandidate(s.game, "alice", "sword")
	s.Require().NoError(err)
	s.Equal(model.ClaimKindSteal, cand.Kind)
	s.Equal("WORD", cand.Source.Text)
}

func (s *ResolverSuite) TestExtendingOwnWordIsExtension() {
	s.giveWord("alice", "CARE", s.baseTime)
	s.setCenter("S")

	cand, err := s.resolver.ValidateCandidate(s.game, "alice", "scare")
	s.Require().NoError(err)
	s.Equal(model.ClaimKindExtension, cand.Kind)
	s.Equal("CARE", cand.Source.Text)
}

func (s *ResolverSuite) TestExactAnagramOfExistingWordRejected() {
	// A claim must draw at least one tile from the center
	s.giveWord("bob", "CARES", s.baseTime)
	s.setCenter("XYZ")

	_, err := s.resolver.ValidateCandidate(s.game, "alice", "scare")
	s.ErrorIs(err, model.ErrInsufficientTiles)
}

func (s *ResolverSuite) TestFreshClaimPreferredOverSteal() {
	// The center alone covers the word, so no word is consumed even
	// though a steal would also be possible
	s.giveWord("bob", "CARE", s.baseTime)
	s.setCenter("SCARE")

	cand, err := s.resolver.ValidateCandidate(s.game, "alice", "scare")
	s.Require().NoError(err)
	s.Equal(model.ClaimKindFresh, cand.Kind)
	s.Nil(cand.Source)
}

func (s *ResolverSuite) TestLargerSourcePreferred() {
	s.giveWord("bob", "NODE", s.baseTime)
	s.giveWord("alice", "NODES", s.baseTime.Add(time.Minute))
	s.setCenter("RS")

	// DRONES = NODES + R (5-letter source) or NODE + R + S (4-letter);
	// the larger source wins even though it was created later
	cand, err := s.resolver.ValidateCandidate(s.game, "bob", "drones")
	s.Require().NoError(err)
	s.Equal("NODES", cand.Source.Text)
	s.Equal("R", cand.AddedLetters)
}

func (s *ResolverSuite) TestEqualSizeTieBrokenByCreationTime() {
	s.giveWord("bob", "TEARS", s.baseTime.Add(time.Minute))
	s.giveWord("alice", "RATES", s.baseTime)
	s.setCenter("R")

	// Both five-letter anagrams can source RATERS; the earlier word wins
	cand, err := s.resolver.ValidateCandidate(s.game, "bob", "raters")
	s.Require().NoError(err)
	s.Equal("RATES", cand.Source.Text)
	s.Equal("R", cand.AddedLetters)
}

func (s *ResolverSuite) TestNormalizeStripsNonLetters() {
	s.Equal("SMILE", Normalize(" sMi-lE! "))
	s.Equal("", Normalize("123 !?"))
}

func (s *ResolverSuite) TestSortLetters() {
	s.Equal("EILMS", SortLetters("SMILE"))
	s.Equal("", SortLetters(""))
}

func (s *ResolverSuite) TestValidateEntryNormalizesTrigger() {
	s.giveWord("bob", "MILE", s.baseTime)

	trigger, word, err := s.resolver.ValidateEntry(s.game, "s", "smile")
	s.Require().NoError(err)
	s.Equal("S", trigger)
	s.Equal("SMILE", word)
}

func (s *ResolverSuite) TestValidateEntryRejectsTriggerOutsideWord() {
	s.giveWord("bob", "MILE", s.baseTime)

	_, _, err := s.resolver.ValidateEntry(s.game, "z", "smile")
	s.ErrorIs(err, model.ErrEntryNotViable)
}

func (s *ResolverSuite) TestValidateEntryRejectsMissingSource() {
	// No word on the board supplies SMILE minus S
	_, _, err := s.resolver.ValidateEntry(s.game, "s", "smile")
	s.ErrorIs(err, model.ErrEntryNotViable)
}

func (s *ResolverSuite) TestValidateEntryAllowsFreshClaimOrders() {
	// Trigger covers the whole word: fires as a fresh claim, no source needed
	trigger, word, err := s.resolver.ValidateEntry(s.game, "elim", "mile")
	s.Require().NoError(err)
	s.Equal("EILM", trigger)
	s.Equal("MILE", word)
}

func (s *ResolverSuite) TestEntryStillViableTracksBoard() {
	s.giveWord("bob", "MILE", s.baseTime)
	entry := model.PreStealEntry{
		ID:             "e1",
		TriggerLetters: "S",
		ClaimWord:      "SMILE",
	}
	s.True(s.resolver.EntryStillViable(s.game, entry))

	// Remove the source word; the order can no longer ever fire
	s.game.PlayerByID("bob").Words = nil
	s.False(s.resolver.EntryStillViable(s.game, entry))
}
