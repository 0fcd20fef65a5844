package replay

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcoot/snatchgame-go/internal/model"
)

// Recorder appends deduplicated state snapshots to a game's replay log
// and owns the persistence round trip for whole games.
type Recorder struct{}

// New creates a new replay recorder
func New() *Recorder {
	return &Recorder{}
}

// Snapshot serializes the game's current state in canonical form. The
// serialized bytes double as the dedup hash.
func (r *Recorder) Snapshot(g *model.Game) ([]byte, error) {
	return json.Marshal(model.SnapshotOf(g))
}

// AppendStepIfChanged snapshots the game and appends a replay step unless
// the state is identical to the previous step's. Returns whether a step
// was appended. Indices are strictly sequential from 0 with no gaps,
// regardless of which kinds were skipped.
func (r *Recorder) AppendStepIfChanged(g *model.Game, kind model.ReplayKind, timestamp time.Time) (bool, error) {
	state, err := r.Snapshot(g)
	if err != nil {
		return false, err
	}

	if string(state) == g.LastSnapshotHash {
		return false, nil
	}

	g.Replay = append(g.Replay, model.ReplayStep{
		Index:     len(g.Replay),
		Kind:      kind,
		Timestamp: timestamp,
		State:     json.RawMessage(state),
	})
	g.LastSnapshotHash = string(state)
	return true, nil
}

// ToPersistedGameState renders the game as plain structured data: every
// field including the full replay log, no live timers or handles. Timer
// deadlines survive as absolute timestamps.
func (r *Recorder) ToPersistedGameState(g *model.Game) (*model.PersistedGameState, error) {
	// Round-trip through JSON to detach the persisted copy from live state
	data, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	var detached model.Game
	if err := json.Unmarshal(data, &detached); err != nil {
		return nil, err
	}

	return &model.PersistedGameState{
		Version: model.PersistedStateVersion,
		SavedAt: g.UpdatedAt,
		Game:    &detached,
	}, nil
}

// HydrateGameState rebuilds an in-memory game from persisted state. The
// snapshot hash is recomputed from the final replay step, never read from
// the persisted form. Timers must be re-armed by the game controller.
func (r *Recorder) HydrateGameState(persisted *model.PersistedGameState) (*model.Game, error) {
	if persisted == nil || persisted.Game == nil {
		return nil, fmt.Errorf("persisted game state is empty")
	}
	if persisted.Version != model.PersistedStateVersion {
		return nil, fmt.Errorf("unsupported persisted state version %d", persisted.Version)
	}

	data, err := json.Marshal(persisted.Game)
	if err != nil {
		return nil, err
	}
	var g model.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}

	if err := validateReplayLog(g.Replay); err != nil {
		return nil, err
	}

	g.RecomputeSnapshotHash()
	return &g, nil
}

// validateReplayLog checks index sequencing before trusting a stored log
func validateReplayLog(steps []model.ReplayStep) error {
	for i, step := range steps {
		if step.Index != i {
			return fmt.Errorf("replay log corrupt: step %d carries index %d", i, step.Index)
		}
	}
	return nil
}
