package domain

import "errors"

// Validation errors. These are surfaced to the initiating connection only;
// room state is never changed by a rejected action.
var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomFull          = errors.New("room is full")
	ErrUsernameTaken     = errors.New("username already taken in this room")
	ErrInvalidPhase      = errors.New("invalid action for current phase")
	ErrNotOwner          = errors.New("only the room owner can perform this action")
	ErrCannotKickSelf    = errors.New("cannot kick yourself")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrNotEnoughPlayers  = errors.New("not enough players")
	ErrInvalidTargetID   = errors.New("invalid vote target")
	ErrAlreadyVoted      = errors.New("already voted this round")
	ErrInvalidRoundCount = errors.New("round count must be between 1 and 10")
	ErrBadAdminSecret    = errors.New("admin secret mismatch")
)
