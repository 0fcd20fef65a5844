package sse

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mcoot/snatchgame-go/internal/model"
)

// receiveEvent waits for one SSE message on the client and decodes its
// JSON data line into an Event envelope.
func receiveEvent(t *testing.T, client *Client) (string, model.Event) {
	t.Helper()
	select {
	case msg := <-client.send:
		msgStr := string(msg)
		lines := strings.Split(strings.TrimSpace(msgStr), "\n")
		if len(lines) < 2 {
			t.Fatalf("malformed SSE message: %q", msgStr)
		}
		eventName := strings.TrimPrefix(lines[0], "event: ")
		data := strings.TrimPrefix(lines[1], "data: ")
		var event model.Event
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			t.Fatalf("event data is not valid JSON: %v: %q", err, data)
		}
		return eventName, event
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client did not receive message")
		return "", model.Event{}
	}
}

func setupBroadcastClient(t *testing.T, manager *HubManager, code model.RoomCode) *Client {
	t.Helper()
	hub := manager.GetOrCreateHub(code)
	client := NewClient(hub, "player1")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)
	t.Cleanup(func() { manager.RemoveHub(code) })
	return client
}

func TestBroadcaster_BroadcastPlayerJoined(t *testing.T) {
	manager := NewHubManager(testLogger())
	broadcaster := NewBroadcaster(manager, testLogger())

	client := setupBroadcastClient(t, manager, "ABCD")

	broadcaster.BroadcastPlayerJoined("ABCD", model.Player{ID: "p_alice", DisplayName: "Alice"})

	name, event := receiveEvent(t, client)
	if name != string(model.EventPlayerJoined) {
		t.Errorf("event name = %q, want %q", name, model.EventPlayerJoined)
	}
	if event.RoomCode != "ABCD" {
		t.Errorf("room code = %q, want ABCD", event.RoomCode)
	}
	if event.PlayerID != "p_alice" {
		t.Errorf("player id = %q, want p_alice", event.PlayerID)
	}
}

func TestBroadcaster_BroadcastTileRevealed(t *testing.T) {
	manager := NewHubManager(testLogger())
	broadcaster := NewBroadcaster(manager, testLogger())

	client := setupBroadcastClient(t, manager, "ABCD")

	game := &model.Game{
		ID:        "g1",
		RoomCode:  "ABCD",
		Bag:       []model.Tile{{ID: "t2", Letter: 'B'}},
		TurnOrder: []model.PlayerID{"p_alice", "p_bob"},
		TurnIndex: 1,
	}
	broadcaster.BroadcastTileRevealed(game, model.Tile{ID: "t1", Letter: 'A'})

	name, event := receiveEvent(t, client)
	if name != string(model.EventTileRevealed) {
		t.Errorf("event name = %q, want %q", name, model.EventTileRevealed)
	}
	if event.GameID != "g1" {
		t.Errorf("game id = %q, want g1", event.GameID)
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		t.Fatalf("re-marshal payload: %v", err)
	}
	var revealed model.TileRevealedPayload
	if err := json.Unmarshal(payload, &revealed); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if revealed.NextPlayerID != "p_bob" {
		t.Errorf("next player = %q, want p_bob", revealed.NextPlayerID)
	}
	if revealed.BagRemaining != 1 {
		t.Errorf("bag remaining = %d, want 1", revealed.BagRemaining)
	}
}

func TestBroadcaster_BroadcastClaimResolved(t *testing.T) {
	manager := NewHubManager(testLogger())
	broadcaster := NewBroadcaster(manager, testLogger())

	client := setupBroadcastClient(t, manager, "ABCD")

	game := &model.Game{ID: "g1", RoomCode: "ABCD"}
	broadcaster.BroadcastClaimResolved(game, model.ClaimEvent{
		Kind:     model.ClaimKindSteal,
		Origin:   model.ClaimOriginManual,
		PlayerID: "p_bob",
		Word:     "SMILE",
	})

	name, event := receiveEvent(t, client)
	if name != string(model.EventClaimResolved) {
		t.Errorf("event name = %q, want %q", name, model.EventClaimResolved)
	}
	if event.PlayerID != "p_bob" {
		t.Errorf("player id = %q, want p_bob", event.PlayerID)
	}
}

func TestBroadcaster_BroadcastGameEnded_Winner(t *testing.T) {
	manager := NewHubManager(testLogger())
	broadcaster := NewBroadcaster(manager, testLogger())

	client := setupBroadcastClient(t, manager, "ABCD")

	game := &model.Game{
		ID:       "g1",
		RoomCode: "ABCD",
		Players: []*model.GamePlayer{
			{ID: "p_alice", Score: 9},
			{ID: "p_bob", Score: 4},
		},
	}
	broadcaster.BroadcastGameEnded(game)

	_, event := receiveEvent(t, client)
	payload, _ := json.Marshal(event.Payload)
	var ended model.GameEndedPayload
	if err := json.Unmarshal(payload, &ended); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if ended.Winner != "p_alice" {
		t.Errorf("winner = %q, want p_alice", ended.Winner)
	}
	if ended.Scores["p_bob"] != 4 {
		t.Errorf("bob score = %d, want 4", ended.Scores["p_bob"])
	}
}

func TestBroadcaster_BroadcastGameEnded_Tie(t *testing.T) {
	manager := NewHubManager(testLogger())
	broadcaster := NewBroadcaster(manager, testLogger())

	client := setupBroadcastClient(t, manager, "ABCD")

	game := &model.Game{
		ID:       "g1",
		RoomCode: "ABCD",
		Players: []*model.GamePlayer{
			{ID: "p_alice", Score: 7},
			{ID: "p_bob", Score: 7},
		},
	}
	broadcaster.BroadcastGameEnded(game)

	_, event := receiveEvent(t, client)
	payload, _ := json.Marshal(event.Payload)
	var ended model.GameEndedPayload
	if err := json.Unmarshal(payload, &ended); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if ended.Winner != "" {
		t.Errorf("winner = %q, want empty on tie", ended.Winner)
	}
}

func TestBroadcaster_NoHubDoesNotPanic(t *testing.T) {
	manager := NewHubManager(testLogger())
	broadcaster := NewBroadcaster(manager, testLogger())

	game := &model.Game{ID: "g1", RoomCode: "NOPE"}
	room := &model.Room{Code: "NOPE"}

	broadcaster.BroadcastPlayerJoined("NOPE", model.Player{ID: "p1"})
	broadcaster.BroadcastPlayerLeft("NOPE", "p1", "Alice")
	broadcaster.BroadcastHostChanged("NOPE", "p1", "p2")
	broadcaster.BroadcastGameStarted(room, game)
	broadcaster.BroadcastFlipStarted(game)
	broadcaster.BroadcastTileRevealed(game, model.Tile{ID: "t1", Letter: 'A'})
	broadcaster.BroadcastClaimOpened(game)
	broadcaster.BroadcastClaimClosed(game, "p1")
	broadcaster.BroadcastClaimResolved(game, model.ClaimEvent{PlayerID: "p1"})
	broadcaster.BroadcastGameEnded(game)
	broadcaster.BroadcastStateChanged("NOPE", "g1")
}
