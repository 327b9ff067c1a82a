package domain

import "time"

// EventType names an outbound broadcast.
type EventType string

const (
	EventRoomJoined        EventType = "room_joined"
	EventPlayerListUpdate  EventType = "player_list_update"
	EventPublicRoomsUpdate EventType = "public_rooms_update"
	EventGameStateUpdate   EventType = "game_state_update"
	EventTimerUpdate       EventType = "timer_update"
	EventRoundInit         EventType = "round_init"
	EventGameOver          EventType = "game_over"
	EventMatchEnd          EventType = "match_end"
	EventKicked            EventType = "kicked"
	EventChatMessage       EventType = "chat_message"
	EventError             EventType = "error"
)

// RoomEvent is a broadcast destined for one player (PlayerID set) or the
// whole room (PlayerID empty).
type RoomEvent struct {
	Type      EventType   `json:"type"`
	RoomCode  string      `json:"roomCode"`
	PlayerID  string      `json:"playerId,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a room-wide broadcast event.
func NewEvent(eventType EventType, roomCode string, payload interface{}) *RoomEvent {
	return &RoomEvent{
		Type:      eventType,
		RoomCode:  roomCode,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewPlayerEvent creates an event delivered to a single player.
func NewPlayerEvent(eventType EventType, roomCode, playerID string, payload interface{}) *RoomEvent {
	return &RoomEvent{
		Type:      eventType,
		RoomCode:  roomCode,
		PlayerID:  playerID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for the outbound events.

// RoomJoinedPayload is sent to a player on entering a room.
type RoomJoinedPayload struct {
	RoomCode string       `json:"roomCode"`
	PlayerID string       `json:"playerId"`
	IsOwner  bool         `json:"isOwner"`
	Players  []PlayerInfo `json:"players"`
	State    StatePayload `json:"state"`
}

// PlayerListPayload carries the role-masked roster.
type PlayerListPayload struct {
	Players []PlayerInfo `json:"players"`
	OwnerID string       `json:"ownerId"`
}

// PublicRoomInfo is one row of the public lobby listing, recomputed from
// live room state on demand.
type PublicRoomInfo struct {
	Code        string `json:"code"`
	PlayerCount int    `json:"playerCount"`
	IsPublic    bool   `json:"isPublic"`
	OwnerName   string `json:"ownerName"`
	Phase       Phase  `json:"phase"`
}

// WordEntry is one submitted clue in the writing order.
type WordEntry struct {
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
	Word     string `json:"word"`
}

// StatePayload is the full resync snapshot broadcast on every transition.
type StatePayload struct {
	Phase           Phase       `json:"phase"`
	Timer           int         `json:"timer"`
	CurrentRound    int         `json:"currentRound"`
	TotalRounds     int         `json:"totalRounds"`
	CountdownActive bool        `json:"countdownActive"`
	Starting        bool        `json:"starting,omitempty"`
	WriterID        string      `json:"writerId,omitempty"`
	WriterName      string      `json:"writerName,omitempty"`
	Words           []WordEntry `json:"words"`
}

// TimerPayload is broadcast once per second while a countdown runs.
type TimerPayload struct {
	Seconds int `json:"seconds"`
}

// RoundInitPayload is private per player: their role and the one image
// they are allowed to see. The role→image mapping is never broadcast.
type RoundInitPayload struct {
	Round    int    `json:"round"`
	Role     Role   `json:"role"`
	ImageURL string `json:"imageUrl"`
}

// GameOverPayload is the round-scoped reveal sent when a round resolves.
type GameOverPayload struct {
	Winner        Role         `json:"winner"`
	Message       string       `json:"message"`
	ImpostorNames []string     `json:"impostorNames"`
	Pair          ImagePair    `json:"pair"`
	Players       []PlayerInfo `json:"players"`
}

// MatchEndPayload announces the match winners.
type MatchEndPayload struct {
	Winners []string     `json:"winners"`
	Players []PlayerInfo `json:"players"`
}

// ChatPayload relays a chat message unchanged.
type ChatPayload struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// ErrorPayload reports a validation failure to the initiating connection.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
