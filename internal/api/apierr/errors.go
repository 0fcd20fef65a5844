package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/snatchgame-go/internal/model"
	"github.com/mcoot/snatchgame-go/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeNotHost             = "NOT_HOST"
	CodeNotYourTurn         = "NOT_YOUR_TURN"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeRoomNotFound        = "ROOM_NOT_FOUND"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodeRoomFull            = "ROOM_FULL"
	CodeAlreadyInRoom       = "ALREADY_IN_ROOM"
	CodeNotInRoom           = "NOT_IN_ROOM"
	CodeGameInProgress      = "GAME_IN_PROGRESS"
	CodeNoGameInProgress    = "NO_GAME_IN_PROGRESS"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeInvalidConfig       = "INVALID_CONFIG"
	CodeGameEnded           = "GAME_ENDED"
	CodeFlipInProgress      = "FLIP_IN_PROGRESS"
	CodeClaimInProgress     = "CLAIM_IN_PROGRESS"
	CodeBagEmpty            = "BAG_EMPTY"
	CodeAlreadyClaiming     = "ALREADY_CLAIMING"
	CodeOnCooldown          = "ON_COOLDOWN"
	CodeNotYourWindow       = "NOT_YOUR_WINDOW"
	CodeIllegalWord         = "ILLEGAL_WORD"
	CodeEntryNotFound       = "ENTRY_NOT_FOUND"
	CodeEntryNotViable      = "ENTRY_NOT_VIABLE"
	CodePreStealDisabled    = "PRE_STEAL_DISABLED"
	CodeUsernameExists      = "USERNAME_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room is full"}}
	case errors.Is(err, model.ErrAlreadyInRoom):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInRoom, "Already in this room"}}
	case errors.Is(err, model.ErrNotInRoom):
		return &httpError{http.StatusNotFound, APIError{CodeNotInRoom, "Not in this room"}}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotHost, "Only the host can perform this action"}}
	case errors.Is(err, model.ErrGameInProgress):
		return &httpError{http.StatusConflict, APIError{CodeGameInProgress, "Game is in progress"}}
	case errors.Is(err, model.ErrNoGameInProgress):
		return &httpError{http.StatusNotFound, APIError{CodeNoGameInProgress, "No game in progress"}}
	case errors.Is(err, model.ErrInsufficientPlayers):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientPlayers, "Not enough players to start"}}
	case errors.Is(err, model.ErrInvalidConfig):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidConfig, "Invalid room configuration"}}

	// Turn and flip errors
	case errors.Is(err, model.ErrGameEnded):
		return &httpError{http.StatusConflict, APIError{CodeGameEnded, "Game has ended"}}
	case errors.Is(err, model.ErrNotYourTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn to flip"}}
	case errors.Is(err, model.ErrFlipInProgress):
		return &httpError{http.StatusConflict, APIError{CodeFlipInProgress, "A tile reveal is already in progress"}}
	case errors.Is(err, model.ErrClaimInProgress):
		return &httpError{http.StatusConflict, APIError{CodeClaimInProgress, "A claim is being processed"}}
	case errors.Is(err, model.ErrBagEmpty):
		return &httpError{http.StatusConflict, APIError{CodeBagEmpty, "The bag is empty"}}

	// Claim window errors
	case errors.Is(err, model.ErrAlreadyClaiming):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyClaiming, "A claim window is already open"}}
	case errors.Is(err, model.ErrOnCooldown):
		return &httpError{http.StatusConflict, APIError{CodeOnCooldown, "You are on claim cooldown"}}
	case errors.Is(err, model.ErrNotYourWindow):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourWindow, "You do not hold the open claim window"}}

	// Word legality errors share one code; the message carries the reason
	case errors.Is(err, model.ErrEmptyInput),
		errors.Is(err, model.ErrWordTooShort),
		errors.Is(err, model.ErrNotInDictionary),
		errors.Is(err, model.ErrInsufficientTiles),
		errors.Is(err, model.ErrTrivialExtension):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeIllegalWord, err.Error()}}

	// Pre-steal errors
	case errors.Is(err, model.ErrEntryNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeEntryNotFound, "Pre-steal entry not found"}}
	case errors.Is(err, model.ErrEntryNotViable):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeEntryNotViable, err.Error()}}
	case errors.Is(err, model.ErrPreStealDisabled):
		return &httpError{http.StatusConflict, APIError{CodePreStealDisabled, "Pre-steal is disabled for this game"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}
	case errors.Is(err, auth.ErrInvalidUsername),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidDisplayName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
