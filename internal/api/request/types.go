package request

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpgradeRequest is the request body for upgrading a guest to a
// registered account
type UpgradeRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RoomConfigRequest carries room settings for create and update calls.
// Pointer fields distinguish "not provided" from zero values.
type RoomConfigRequest struct {
	MaxPlayers        *int  `json:"max_players,omitempty"`
	IsPublic          *bool `json:"is_public,omitempty"`
	FlipTimerEnabled  *bool `json:"flip_timer_enabled,omitempty"`
	FlipTimerSeconds  *int  `json:"flip_timer_seconds,omitempty"`
	ClaimTimerSeconds *int  `json:"claim_timer_seconds,omitempty"`
	PreStealEnabled   *bool `json:"pre_steal_enabled,omitempty"`
}

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	Config RoomConfigRequest `json:"config"`
}

// UpdateConfigRequest is the request body for updating room config
type UpdateConfigRequest struct {
	Config RoomConfigRequest `json:"config"`
}

// TransferHostRequest is the request body for transferring host
type TransferHostRequest struct {
	NewHostID string `json:"new_host_id"`
}

// SubmitClaimRequest is the request body for submitting a claim word
type SubmitClaimRequest struct {
	Word string `json:"word"`
}

// AddPreStealRequest is the request body for adding a pre-steal entry
type AddPreStealRequest struct {
	TriggerLetters string `json:"trigger_letters"`
	ClaimWord      string `json:"claim_word"`
}

// ReorderPreStealRequest is the request body for reordering a pre-steal
// entry within the player's own list
type ReorderPreStealRequest struct {
	ToIndex int `json:"to_index"`
}
