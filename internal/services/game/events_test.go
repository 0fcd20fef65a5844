package game

import (
	"time"

	"github.com/mcoot/snatchgame-go/internal/model"
)

// recordingEvents captures hook invocations in order
type recordingEvents struct {
	calls []string
}

func (r *recordingEvents) FlipStarted(g *model.Game) {
	r.calls = append(r.calls, "flip_started")
}

func (r *recordingEvents) TileRevealed(g *model.Game, tile model.Tile) {
	r.calls = append(r.calls, "tile_revealed:"+string(tile.Letter))
}

func (r *recordingEvents) ClaimResolved(g *model.Game, event model.ClaimEvent) {
	r.calls = append(r.calls, "claim_resolved:"+event.Word)
}

func (r *recordingEvents) ClaimWindowExpired(g *model.Game, playerID model.PlayerID) {
	r.calls = append(r.calls, "claim_window_expired:"+string(playerID))
}

func (r *recordingEvents) GameEnded(g *model.Game) {
	r.calls = append(r.calls, "game_ended")
}

func (s *ControllerSuite) TestRevealNotifiesEvents() {
	rec := &recordingEvents{}
	s.controller.SetEvents(rec)

	g := s.newGame("MILES", "alice", "bob")
	s.Require().NoError(s.controller.Flip(s.ctx, g.ID, "alice"))
	s.Empty(rec.calls)

	s.clock.Advance(RevealDelay)
	s.Equal([]string{"tile_revealed:M"}, rec.calls)
}

func (s *ControllerSuite) TestAutoFlipNotifiesEvents() {
	rec := &recordingEvents{}
	s.controller.SetEvents(rec)

	cfg := model.DefaultRoomConfig()
	cfg.FlipTimerEnabled = true
	g, err := s.controller.CreateGame(s.ctx, "ROOM", s.players("alice", "bob"), cfg)
	s.Require().NoError(err)
	s.setBag(g, "MILES")

	s.clock.Advance(time.Duration(cfg.FlipTimerSeconds) * time.Second)
	s.Require().NotEmpty(rec.calls)
	s.Equal("flip_started", rec.calls[0])
}

func (s *ControllerSuite) TestClaimWindowExpiryNotifiesEvents() {
	rec := &recordingEvents{}
	s.controller.SetEvents(rec)

	g := s.newGame("MILES", "alice", "bob")
	s.flipAndReveal(g)
	rec.calls = nil

	_, err := s.controller.RequestClaim(s.ctx, g.ID, "bob")
	s.Require().NoError(err)

	s.clock.Advance(time.Duration(g.Config.ClaimTimerSeconds) * time.Second)
	s.Equal([]string{"claim_window_expired:bob"}, rec.calls)
}

func (s *ControllerSuite) TestPreStealResolutionNotifiesEvents() {
	rec := &recordingEvents{}
	s.controller.SetEvents(rec)

	g := s.newGame("MILES", "alice", "bob")
	for i := 0; i < 4; i++ {
		s.flipAndReveal(g)
	}
	_, err := s.controller.RequestClaim(s.ctx, g.ID, "bob")
	s.Require().NoError(err)
	_, err = s.controller.SubmitClaim(s.ctx, g.ID, "bob", "mile")
	s.Require().NoError(err)
	_, err = s.controller.AddPreStealEntry(s.ctx, g.ID, "alice", "S", "miles")
	s.Require().NoError(err)
	rec.calls = nil

	// The final reveal triggers the pre-steal inside the same callback,
	// so both notifications arrive together
	s.flipAndReveal(g)
	s.Equal([]string{"tile_revealed:S", "claim_resolved:MILES"}, rec.calls)
}

func (s *ControllerSuite) TestEndCountdownNotifiesEvents() {
	rec := &recordingEvents{}
	s.controller.SetEvents(rec)

	g := s.newGame("MI", "alice", "bob")
	s.flipAndReveal(g)
	s.flipAndReveal(g)
	rec.calls = nil

	s.clock.Advance(EndCountdown)
	s.Equal([]string{"game_ended"}, rec.calls)
	s.Equal(model.GameStatusEnded, s.reload(g).Status)
}

func (s *ControllerSuite) TestHostEndDoesNotNotifyGameEnded() {
	rec := &recordingEvents{}
	s.controller.SetEvents(rec)

	g := s.newGame("MILES", "alice", "bob")
	s.Require().NoError(s.controller.EndGame(s.ctx, g.ID))
	s.NotContains(rec.calls, "game_ended")
}
