package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/snatchgame-go/internal/model"
	"github.com/mcoot/snatchgame-go/internal/services/game"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
	s.Require().NoError(s.app.LoadTestDictionary())
}

func (s *IntegrationSuite) createPlayer(id, name string) model.Player {
	return model.Player{
		ID:          model.PlayerID(id),
		DisplayName: name,
		IsGuest:     true,
		CreatedAt:   s.app.MockClock.Now(),
	}
}

func (s *IntegrationSuite) testConfig() model.RoomConfig {
	cfg := model.DefaultRoomConfig()
	cfg.PreStealEnabled = true
	return cfg
}

// setBag replaces a game's bag with one tile per letter so flips are
// deterministic. Memory storage returns the live object, so the engine
// sees the change.
func (s *IntegrationSuite) setBag(gameID model.GameID, letters string) {
	g, err := s.app.Storage.GetGame(s.ctx, gameID)
	s.Require().NoError(err)

	tiles := make([]model.Tile, len(letters))
	for i, r := range letters {
		tiles[i] = model.Tile{
			ID:     model.TileID(string(rune('a' + i))),
			Letter: r,
		}
	}
	g.Bag = tiles
	g.BagSize = len(tiles) + len(g.CenterTiles)
}

// flipNext has whoever holds the turn flip, then advances past the
// reveal delay.
func (s *IntegrationSuite) flipNext(gameID model.GameID) {
	g, err := s.app.GameController.GetGame(s.ctx, gameID)
	s.Require().NoError(err)

	err = s.app.GameController.Flip(s.ctx, gameID, g.TurnPlayerID())
	s.Require().NoError(err)
	s.app.MockClock.Advance(game.RevealDelay)
}

// Test: full flow from room creation through claims, a pre-steal, and
// the end countdown.
func (s *IntegrationSuite) TestCompleteGameFlow() {
	s.app.MockRandom.QueueString("ABCD")

	host := s.createPlayer("p_host", "Host Player")
	rm, err := s.app.RoomController.CreateRoom(s.ctx, host, s.testConfig())
	s.Require().NoError(err)
	s.Equal(model.RoomCode("ABCD"), rm.Code)

	player2 := s.createPlayer("p_two", "Player Two")
	s.Require().NoError(s.app.RoomController.JoinRoom(s.ctx, rm.Code, player2))

	g, err := s.app.RoomController.StartGame(s.ctx, rm.Code, host.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusInGame, g.Status)
	s.Len(g.Players, 2)

	s.setBag(g.ID, "MILES")

	// Reveal M, I, L, E
	for i := 0; i < 4; i++ {
		s.flipNext(g.ID)
	}

	g, err = s.app.GameController.GetGame(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Len(g.CenterTiles, 4)

	// Player two claims MILE from the center
	_, err = s.app.GameController.RequestClaim(s.ctx, g.ID, player2.ID)
	s.Require().NoError(err)
	event, err := s.app.GameController.SubmitClaim(s.ctx, g.ID, player2.ID, "mile")
	s.Require().NoError(err)
	s.Equal(model.ClaimKindFresh, event.Kind)

	g, err = s.app.GameController.GetGame(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Equal(4, g.PlayerByID(player2.ID).Score)
	s.Empty(g.CenterTiles)

	// Host sets up a pre-steal: when an S appears, steal MILE into MILES
	_, err = s.app.GameController.AddPreStealEntry(s.ctx, g.ID, host.ID, "S", "miles")
	s.Require().NoError(err)

	// The final flip reveals S and the pre-steal fires automatically
	s.flipNext(g.ID)

	g, err = s.app.GameController.GetGame(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Require().NotNil(g.LastClaimEvent)
	s.Equal(model.ClaimOriginPreSteal, g.LastClaimEvent.Origin)
	s.Equal("MILES", g.LastClaimEvent.Word)
	s.Equal(5, g.PlayerByID(host.ID).Score)
	s.Equal(0, g.PlayerByID(player2.ID).Score)

	// Bag is empty; the end countdown runs out and the game ends
	s.Empty(g.Bag)
	s.False(g.EndCountdownAt.IsZero())
	s.app.MockClock.Advance(game.EndCountdown)

	g, err = s.app.GameController.GetGame(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusEnded, g.Status)
	s.NotEmpty(g.Replay)

	// The countdown firing also returned the room to its ended state,
	// with the finished game on record
	rm, err = s.app.RoomController.GetRoom(s.ctx, rm.Code)
	s.Require().NoError(err)
	s.Equal(model.RoomStateEnded, rm.State)
	s.Contains(rm.PastGames, g.ID)
	s.Nil(rm.CurrentGame)

	// A fresh game can start in the same room
	g2, err := s.app.RoomController.StartGame(s.ctx, rm.Code, host.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusInGame, g2.Status)
}

// Test: a failed claim consumes the window and starts a cooldown
func (s *IntegrationSuite) TestClaimCooldownFlow() {
	s.app.MockRandom.QueueString("ABCD")

	host := s.createPlayer("p_host", "Host")
	rm, err := s.app.RoomController.CreateRoom(s.ctx, host, s.testConfig())
	s.Require().NoError(err)

	player2 := s.createPlayer("p_two", "Two")
	s.Require().NoError(s.app.RoomController.JoinRoom(s.ctx, rm.Code, player2))

	g, err := s.app.RoomController.StartGame(s.ctx, rm.Code, host.ID)
	s.Require().NoError(err)
	s.setBag(g.ID, "MILESZQ")

	for i := 0; i < 3; i++ {
		s.flipNext(g.ID)
	}

	// A word the center cannot form fails but still consumes the window
	_, err = s.app.GameController.RequestClaim(s.ctx, g.ID, host.ID)
	s.Require().NoError(err)
	_, err = s.app.GameController.SubmitClaim(s.ctx, g.ID, host.ID, "smile")
	s.ErrorIs(err, model.ErrInsufficientTiles)

	// Host is on cooldown now
	_, err = s.app.GameController.RequestClaim(s.ctx, g.ID, host.ID)
	s.ErrorIs(err, model.ErrOnCooldown)

	// Another player is unaffected
	window, err := s.app.GameController.RequestClaim(s.ctx, g.ID, player2.ID)
	s.Require().NoError(err)
	s.Equal(player2.ID, window.PlayerID)

	// Let the window lapse, then wait out the cooldowns
	s.app.MockClock.Advance(time.Duration(g.Config.ClaimTimerSeconds) * time.Second)
	s.app.MockClock.Advance(game.ClaimCooldown)

	_, err = s.app.GameController.RequestClaim(s.ctx, g.ID, host.ID)
	s.Require().NoError(err)
}

// Test: guest auth through room membership
func (s *IntegrationSuite) TestGuestAuthRoomFlow() {
	hostSession, err := s.app.AuthService.CreateGuestPlayer(s.ctx, "Alice")
	s.Require().NoError(err)
	guestSession, err := s.app.AuthService.CreateGuestPlayer(s.ctx, "Bob")
	s.Require().NoError(err)

	s.app.MockRandom.QueueString("WXYZ")
	rm, err := s.app.RoomController.CreateRoom(s.ctx, hostSession.Player, s.testConfig())
	s.Require().NoError(err)

	s.Require().NoError(s.app.RoomController.JoinRoom(s.ctx, rm.Code, guestSession.Player))

	rm, err = s.app.RoomController.GetRoom(s.ctx, rm.Code)
	s.Require().NoError(err)
	s.Len(rm.Members, 2)

	// Host hands off and leaves; Bob inherits the room
	err = s.app.RoomController.TransferHost(s.ctx, rm.Code, hostSession.Player.ID, guestSession.Player.ID)
	s.Require().NoError(err)
	s.Require().NoError(s.app.RoomController.LeaveRoom(s.ctx, rm.Code, hostSession.Player.ID))

	rm, err = s.app.RoomController.GetRoom(s.ctx, rm.Code)
	s.Require().NoError(err)
	s.Len(rm.Members, 1)
	s.True(rm.Members[0].IsHost)
	s.Equal(guestSession.Player.ID, rm.Members[0].Player.ID)
}
