package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Room errors
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrAlreadyInRoom       = errors.New("player is already in room")
	ErrNotInRoom           = errors.New("player is not in room")
	ErrNotHost             = errors.New("player is not the host")
	ErrGameInProgress      = errors.New("game is in progress")
	ErrNoGameInProgress    = errors.New("no game in progress")
	ErrInsufficientPlayers = errors.New("insufficient players to start game")
	ErrInvalidConfig       = errors.New("invalid room configuration")

	// Game / turn errors (protocol violations: rejected, no mutation)
	ErrGameNotFound    = errors.New("game not found")
	ErrGameEnded       = errors.New("game has ended")
	ErrNotYourTurn     = errors.New("not this player's turn to flip")
	ErrFlipInProgress  = errors.New("a tile reveal is already in progress")
	ErrClaimInProgress = errors.New("a claim is being processed")
	ErrBagEmpty        = errors.New("the bag is empty")

	// Claim window errors
	ErrAlreadyClaiming = errors.New("a claim window is already open")
	ErrOnCooldown      = errors.New("player is on claim cooldown")
	ErrNotYourWindow   = errors.New("player does not hold the open claim window")

	// Legality failures (expected, frequent, never fatal)
	ErrEmptyInput        = errors.New("empty claim word")
	ErrWordTooShort      = errors.New("claim word is below the minimum length")
	ErrNotInDictionary   = errors.New("word is not in the dictionary")
	ErrInsufficientTiles = errors.New("insufficient tiles to form word")
	ErrTrivialExtension  = errors.New("word is a trivial extension of an existing word")

	// Pre-steal errors
	ErrEntryNotFound    = errors.New("pre-steal entry not found")
	ErrEntryNotViable   = errors.New("pre-steal entry can never fire on this board")
	ErrPreStealDisabled = errors.New("pre-steal is disabled for this game")

	// Dictionary errors
	ErrDictionaryNotLoaded = errors.New("dictionary not loaded")
)
