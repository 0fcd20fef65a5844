package room

import (
	"context"
	"errors"

	"github.com/mcoot/snatchgame-go/internal/dependencies/clock"
	"github.com/mcoot/snatchgame-go/internal/dependencies/random"
	"github.com/mcoot/snatchgame-go/internal/model"
	"github.com/mcoot/snatchgame-go/internal/services/game"
	"github.com/mcoot/snatchgame-go/internal/storage"
)

const (
	// RoomCodeLength is the length of generated room codes
	RoomCodeLength = 4
	// RoomCodeAlphabet is the characters used in room codes (avoid confusing chars)
	RoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Controller manages the room state machine and member operations. Game
// state itself is owned by the game controller; this layer handles who
// is in the room and when games start and end.
type Controller struct {
	storage        storage.Storage
	gameController *game.Controller
	clock          clock.Clock
	random         random.Random
}

// NewController creates a new room controller
func NewController(
	storage storage.Storage,
	gameController *game.Controller,
	clock clock.Clock,
	random random.Random,
) *Controller {
	return &Controller{
		storage:        storage,
		gameController: gameController,
		clock:          clock,
		random:         random,
	}
}

// CreateRoom creates a new room with the given player as host
func (c *Controller) CreateRoom(ctx context.Context, host model.Player, config model.RoomConfig) (*model.Room, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	now := c.clock.Now()

	// Generate unique room code
	var code model.RoomCode
	for {
		code = model.RoomCode(c.random.String(RoomCodeLength, RoomCodeAlphabet))
		exists, err := c.storage.RoomExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	room := &model.Room{
		Code:   code,
		State:  model.RoomStateLobby,
		Config: config,
		Members: []model.RoomMember{
			{
				Player:    host,
				IsHost:    true,
				Connected: true,
				JoinedAt:  now,
			},
		},
		PastGames: []model.GameID{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	return room, nil
}

// GetRoom retrieves a room by code
func (c *Controller) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	return c.storage.GetRoom(ctx, code)
}

// ListPublicRooms returns all rooms open to unsolicited joins
func (c *Controller) ListPublicRooms(ctx context.Context) ([]*model.Room, error) {
	return c.storage.ListPublicRooms(ctx)
}

// JoinRoom adds a player to a room. Joining mid-game is allowed; the
// player participates from the next game.
func (c *Controller) JoinRoom(ctx context.Context, code model.RoomCode, player model.Player) error {
	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}

	if room.GetMember(player.ID) != nil {
		return model.ErrAlreadyInRoom
	}
	if len(room.Members) >= room.Config.MaxPlayers {
		return model.ErrRoomFull
	}

	room.Members = append(room.Members, model.RoomMember{
		Player:    player,
		Connected: true,
		JoinedAt:  c.clock.Now(),
	})
	room.UpdatedAt = c.clock.Now()

	return c.storage.SaveRoom(ctx, room)
}

// LeaveRoom removes a player from a room. The last member leaving
// deletes the room and tears down any running game.
func (c *Controller) LeaveRoom(ctx context.Context, code model.RoomCode, playerID model.PlayerID) error {
	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}

	member := room.GetMember(playerID)
	if member == nil {
		return model.ErrNotInRoom
	}
	wasHost := member.IsHost

	for i, m := range room.Members {
		if m.Player.ID == playerID {
			room.Members = append(room.Members[:i], room.Members[i+1:]...)
			break
		}
	}

	if len(room.Members) == 0 {
		if room.CurrentGame != nil {
			_ = c.gameController.EndGame(ctx, *room.CurrentGame)
			c.gameController.TeardownGame(*room.CurrentGame)
		}
		return c.storage.DeleteRoom(ctx, code)
	}

	// If host left, seniority decides the new host
	if wasHost {
		room.Members[0].IsHost = true
	}

	// A leaver in a running game becomes disconnected there; their words
	// stay on the board
	if room.CurrentGame != nil {
		_ = c.gameController.SetConnected(ctx, *room.CurrentGame, playerID, false)
	}

	room.UpdatedAt = c.clock.Now()
	return c.storage.SaveRoom(ctx, room)
}

// SetConnected updates a member's connection status, mirroring it into
// the current game if one is running
func (c *Controller) SetConnected(ctx context.Context, code model.RoomCode, playerID model.PlayerID, connected bool) error {
	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}

	member := room.GetMember(playerID)
	if member == nil {
		return model.ErrNotInRoom
	}
	member.Connected = connected
	room.UpdatedAt = c.clock.Now()

	if room.CurrentGame != nil {
		if err := c.gameController.SetConnected(ctx, *room.CurrentGame, playerID, connected); err != nil &&
			!errors.Is(err, model.ErrPlayerNotFound) {
			return err
		}
	}

	return c.storage.SaveRoom(ctx, room)
}

// TransferHost makes another member the host
func (c *Controller) TransferHost(ctx context.Context, code model.RoomCode, requestingPlayer model.PlayerID, newHostID model.PlayerID) error {
	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}

	currentHost := room.GetHost()
	if currentHost == nil || currentHost.Player.ID != requestingPlayer {
		return model.ErrNotHost
	}

	newHost := room.GetMember(newHostID)
	if newHost == nil {
		return model.ErrNotInRoom
	}

	currentHost.IsHost = false
	newHost.IsHost = true
	room.UpdatedAt = c.clock.Now()

	return c.storage.SaveRoom(ctx, room)
}

// StartGame begins a new game with the room's current members
func (c *Controller) StartGame(ctx context.Context, code model.RoomCode, requestingPlayer model.PlayerID) (*model.Game, error) {
	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	host := room.GetHost()
	if host == nil || host.Player.ID != requestingPlayer {
		return nil, model.ErrNotHost
	}
	if room.State == model.RoomStateInGame {
		return nil, model.ErrGameInProgress
	}
	if len(room.Members) < 2 {
		return nil, model.ErrInsufficientPlayers
	}

	players := make([]model.Player, len(room.Members))
	for i, m := range room.Members {
		players[i] = m.Player
	}

	g, err := c.gameController.CreateGame(ctx, code, players, room.Config)
	if err != nil {
		return nil, err
	}

	room.State = model.RoomStateInGame
	room.CurrentGame = &g.ID
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	return g, nil
}

// EndGame ends the current game early on the host's request
func (c *Controller) EndGame(ctx context.Context, code model.RoomCode, requestingPlayer model.PlayerID) error {
	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}

	host := room.GetHost()
	if host == nil || host.Player.ID != requestingPlayer {
		return model.ErrNotHost
	}
	if room.State != model.RoomStateInGame || room.CurrentGame == nil {
		return model.ErrNoGameInProgress
	}

	if err := c.gameController.EndGame(ctx, *room.CurrentGame); err != nil {
		return err
	}

	return c.completeGame(ctx, room)
}

// CompleteGame records a game that finished on its own (end-of-game
// countdown elapsed) and returns the room to its lobby state
func (c *Controller) CompleteGame(ctx context.Context, code model.RoomCode) error {
	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}
	if room.CurrentGame == nil {
		return model.ErrNoGameInProgress
	}
	return c.completeGame(ctx, room)
}

func (c *Controller) completeGame(ctx context.Context, room *model.Room) error {
	room.PastGames = append(room.PastGames, *room.CurrentGame)
	room.State = model.RoomStateEnded
	room.CurrentGame = nil
	room.UpdatedAt = c.clock.Now()
	return c.storage.SaveRoom(ctx, room)
}

// UpdateConfig updates the room configuration
func (c *Controller) UpdateConfig(ctx context.Context, code model.RoomCode, requestingPlayer model.PlayerID, config model.RoomConfig) error {
	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}

	host := room.GetHost()
	if host == nil || host.Player.ID != requestingPlayer {
		return model.ErrNotHost
	}
	if room.State == model.RoomStateInGame {
		return model.ErrGameInProgress
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if config.MaxPlayers < len(room.Members) {
		return model.ErrInvalidConfig
	}

	room.Config = config
	room.UpdatedAt = c.clock.Now()

	return c.storage.SaveRoom(ctx, room)
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateRoom(ctx context.Context, host model.Player, config model.RoomConfig) (*model.Room, error)
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	ListPublicRooms(ctx context.Context) ([]*model.Room, error)
	JoinRoom(ctx context.Context, code model.RoomCode, player model.Player) error
	LeaveRoom(ctx context.Context, code model.RoomCode, playerID model.PlayerID) error
	SetConnected(ctx context.Context, code model.RoomCode, playerID model.PlayerID, connected bool) error
	TransferHost(ctx context.Context, code model.RoomCode, requestingPlayer model.PlayerID, newHostID model.PlayerID) error
	StartGame(ctx context.Context, code model.RoomCode, requestingPlayer model.PlayerID) (*model.Game, error)
	EndGame(ctx context.Context, code model.RoomCode, requestingPlayer model.PlayerID) error
	CompleteGame(ctx context.Context, code model.RoomCode) error
	UpdateConfig(ctx context.Context, code model.RoomCode, requestingPlayer model.PlayerID, config model.RoomConfig) error
}

var _ ControllerInterface = (*Controller)(nil)
