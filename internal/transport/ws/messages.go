package ws

import "encoding/json"

// MessageType represents the type of an inbound WebSocket message.
type MessageType string

// Client → Server message types.
const (
	MsgCreateRoom      MessageType = "create_room"
	MsgJoinRoom        MessageType = "join_room"
	MsgListPublicRooms MessageType = "list_public_rooms"
	MsgToggleReady     MessageType = "toggle_ready"
	MsgStartGame       MessageType = "start_game"
	MsgKickPlayer      MessageType = "kick_player"
	MsgSubmitWord      MessageType = "submit_word"
	MsgSubmitVote      MessageType = "submit_vote"
	MsgSkipDiscussion  MessageType = "skip_discussion"
	MsgSkipMatchEnd    MessageType = "skip_match_end"
	MsgChatMessage     MessageType = "chat_message"
	MsgAdminSkipPhase  MessageType = "admin_skip_phase"
	MsgPing            MessageType = "ping"
)

// ClientMessage is the tagged inbound envelope. The payload schema is
// fixed per tag and validated here before anything reaches the room.
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound payloads, one fixed schema per message tag.

type CreateRoomPayload struct {
	Username string `json:"username"`
	IsPublic bool   `json:"isPublic"`
	Rounds   int    `json:"rounds"`
}

type JoinRoomPayload struct {
	Username string `json:"username"`
	Code     string `json:"code"`
}

type KickPlayerPayload struct {
	TargetID string `json:"targetId"`
}

type SubmitWordPayload struct {
	Word string `json:"word"`
}

type SubmitVotePayload struct {
	TargetID string `json:"targetId"`
}

type ChatMessagePayload struct {
	Message string `json:"message"`
}

type AdminSkipPhasePayload struct {
	Secret string `json:"secret"`
}

// Error codes surfaced to the initiating connection.
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeRoomNotFound   = "ROOM_NOT_FOUND"
	ErrCodeRoomFull       = "ROOM_FULL"
	ErrCodeUsernameTaken  = "USERNAME_TAKEN"
	ErrCodeInvalidPhase   = "INVALID_PHASE"
	ErrCodeNotOwner       = "NOT_OWNER"
	ErrCodeCannotKickSelf = "CANNOT_KICK_SELF"
	ErrCodePlayerNotFound = "PLAYER_NOT_FOUND"
	ErrCodeNotEnough      = "NOT_ENOUGH_PLAYERS"
	ErrCodeInvalidTarget  = "INVALID_TARGET"
	ErrCodeAlreadyVoted   = "ALREADY_VOTED"
	ErrCodeNotInRoom      = "NOT_IN_ROOM"
	ErrCodeForbidden      = "FORBIDDEN"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)
