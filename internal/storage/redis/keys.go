package redis

import (
	"fmt"

	"github.com/mcoot/snatchgame-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "snatch"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// roomKey returns the Redis key for a Room
func roomKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, code)
}

// publicRoomsIndexKey returns the Redis key for the SET of public room codes
func publicRoomsIndexKey() string {
	return fmt.Sprintf("%s:idx:public_rooms", keyPrefix)
}

// gameKey returns the Redis key for a persisted Game (replay log included)
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// activeGamesIndexKey returns the Redis key for the SET of in-flight game IDs
func activeGamesIndexKey() string {
	return fmt.Sprintf("%s:idx:active_games", keyPrefix)
}

// dictionaryKey returns the Redis key for the dictionary word list
func dictionaryKey() string {
	return fmt.Sprintf("%s:dictionary", keyPrefix)
}
