package replay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/snatchgame-go/internal/model"
)

type RecorderSuite struct {
	suite.Suite
	recorder *Recorder
	game     *model.Game
	baseTime time.Time
}

func TestRecorderSuite(t *testing.T) {
	suite.Run(t, new(RecorderSuite))
}

func (s *RecorderSuite) SetupTest() {
	s.recorder = New()
	s.baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.game = &model.Game{
		ID:       "game-1",
		RoomCode: "ROOM",
		Status:   model.GameStatusInGame,
		Bag: []model.Tile{
			{ID: "t000", Letter: 'M'},
			{ID: "t001", Letter: 'I'},
		},
		BagSize: 2,
		Players: []*model.GamePlayer{
			{ID: "alice", Name: "Alice", Connected: true},
			{ID: "bob", Name: "Bob", Connected: true},
		},
		TurnOrder:      []model.PlayerID{"alice", "bob"},
		ClaimCooldowns: map[model.PlayerID]time.Time{},
		CreatedAt:      s.baseTime,
		UpdatedAt:      s.baseTime,
	}
}

func (s *RecorderSuite) TestAppendsStepWithSequentialIndices() {
	appended, err := s.recorder.AppendStepIfChanged(s.game, model.ReplayGameStarted, s.baseTime)
	s.Require().NoError(err)
	s.True(appended)

	s.game.Bag = s.game.Bag[1:]
	s.game.CenterTiles = []model.Tile{{ID: "t000", Letter: 'M'}}
	appended, err = s.recorder.AppendStepIfChanged(s.game, model.ReplayTileRevealed, s.baseTime.Add(time.Second))
	s.Require().NoError(err)
	s.True(appended)

	s.Require().Len(s.game.Replay, 2)
	s.Equal(0, s.game.Replay[0].Index)
	s.Equal(1, s.game.Replay[1].Index)
	s.Equal(model.ReplayGameStarted, s.game.Replay[0].Kind)
	s.Equal(model.ReplayTileRevealed, s.game.Replay[1].Kind)
}

func (s *RecorderSuite) TestSkipsIdenticalConsecutiveStates() {
	appended, err := s.recorder.AppendStepIfChanged(s.game, model.ReplayGameStarted, s.baseTime)
	s.Require().NoError(err)
	s.True(appended)

	// Nothing changed; a second append of any kind is a no-op
	appended, err = s.recorder.AppendStepIfChanged(s.game, model.ReplayTurnAdvanced, s.baseTime.Add(time.Second))
	s.Require().NoError(err)
	s.False(appended)
	s.Len(s.game.Replay, 1)
}

func (s *RecorderSuite) TestRecordsAfterStateReverts() {
	_, err := s.recorder.AppendStepIfChanged(s.game, model.ReplayGameStarted, s.baseTime)
	s.Require().NoError(err)

	s.game.TurnIndex = 1
	appended, err := s.recorder.AppendStepIfChanged(s.game, model.ReplayTurnAdvanced, s.baseTime)
	s.Require().NoError(err)
	s.True(appended)

	// Reverting to a previously seen state still records: only the
	// immediately preceding step is compared
	s.game.TurnIndex = 0
	appended, err = s.recorder.AppendStepIfChanged(s.game, model.ReplayTurnAdvanced, s.baseTime)
	s.Require().NoError(err)
	s.True(appended)
	s.Len(s.game.Replay, 3)
}

func (s *RecorderSuite) TestPersistRoundTrip() {
	_, err := s.recorder.AppendStepIfChanged(s.game, model.ReplayGameStarted, s.baseTime)
	s.Require().NoError(err)
	s.game.TurnIndex = 1
	_, err = s.recorder.AppendStepIfChanged(s.game, model.ReplayTurnAdvanced, s.baseTime.Add(time.Second))
	s.Require().NoError(err)

	persisted, err := s.recorder.ToPersistedGameState(s.game)
	s.Require().NoError(err)
	s.Equal(model.PersistedStateVersion, persisted.Version)

	hydrated, err := s.recorder.HydrateGameState(persisted)
	s.Require().NoError(err)

	s.Equal(s.game.ID, hydrated.ID)
	s.Equal(s.game.TurnIndex, hydrated.TurnIndex)
	s.Require().Len(hydrated.Replay, 2)
	s.Equal(s.game.Replay[1].Kind, hydrated.Replay[1].Kind)

	// The dedup hash is rebuilt from the final step, so appending an
	// unchanged state to the hydrated game is still skipped
	appended, err := s.recorder.AppendStepIfChanged(hydrated, model.ReplayTurnAdvanced, s.baseTime.Add(2*time.Second))
	s.Require().NoError(err)
	s.False(appended)
}

func (s *RecorderSuite) TestPersistedCopyIsDetached() {
	_, err := s.recorder.AppendStepIfChanged(s.game, model.ReplayGameStarted, s.baseTime)
	s.Require().NoError(err)

	persisted, err := s.recorder.ToPersistedGameState(s.game)
	s.Require().NoError(err)

	s.game.Players[0].Score = 99
	s.Equal(0, persisted.Game.Players[0].Score)
}

func (s *RecorderSuite) TestHydrateRejectsWrongVersion() {
	persisted, err := s.recorder.ToPersistedGameState(s.game)
	s.Require().NoError(err)
	persisted.Version = 99

	_, err = s.recorder.HydrateGameState(persisted)
	s.Error(err)
}

func (s *RecorderSuite) TestHydrateRejectsGappyReplayLog() {
	_, err := s.recorder.AppendStepIfChanged(s.game, model.ReplayGameStarted, s.baseTime)
	s.Require().NoError(err)
	s.game.TurnIndex = 1
	_, err = s.recorder.AppendStepIfChanged(s.game, model.ReplayTurnAdvanced, s.baseTime)
	s.Require().NoError(err)

	persisted, err := s.recorder.ToPersistedGameState(s.game)
	s.Require().NoError(err)
	persisted.Game.Replay[1].Index = 5

	_, err = s.recorder.HydrateGameState(persisted)
	s.Error(err)
}

func (s *RecorderSuite) TestHydrateRejectsEmptyState() {
	_, err := s.recorder.HydrateGameState(nil)
	s.Error(err)
	_, err = s.recorder.HydrateGameState(&model.PersistedGameState{Version: model.PersistedStateVersion})
	s.Error(err)
}
