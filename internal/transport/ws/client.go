package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"fakeout/internal/app"
	"fakeout/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client is one WebSocket connection. It starts unattached and binds to a
// room session on create_room or join_room.
type Client struct {
	conn     *websocket.Conn
	hub      *app.Hub
	playerID string

	session   *app.Session
	sessionMu sync.RWMutex

	send   chan []byte
	done   chan struct{}
	logger *slog.Logger
	mu     sync.Mutex
	closed bool
}

// NewClient creates a client for an upgraded connection.
func NewClient(conn *websocket.Conn, hub *app.Hub, playerID string, logger *slog.Logger) *Client {
	return &Client{
		conn:     conn,
		hub:      hub,
		playerID: playerID,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

func (c *Client) currentSession() *app.Session {
	c.sessionMu.RLock()
	defer c.sessionMu.RUnlock()
	return c.session
}

func (c *Client) attach(session *app.Session) {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	c.session = session
}

// Send implements app.ClientConnection.
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("send buffer full, message dropped", "playerID", c.playerID)
		return nil
	}
}

// Close implements app.ClientConnection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		if session := c.currentSession(); session != nil {
			session.UnregisterClient(c.playerID)
			session.Disconnect(c.playerID)
		}
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgCreateRoom:
		c.handleCreateRoom(msg.Payload)
	case MsgJoinRoom:
		c.handleJoinRoom(msg.Payload)
	case MsgListPublicRooms:
		c.handleListPublicRooms()
	case MsgToggleReady:
		c.withSession(func(s *app.Session) error { return s.ToggleReady(c.playerID) })
	case MsgStartGame:
		c.withSession(func(s *app.Session) error { return s.StartGame(c.playerID) })
	case MsgKickPlayer:
		c.handleKickPlayer(msg.Payload)
	case MsgSubmitWord:
		c.handleSubmitWord(msg.Payload)
	case MsgSubmitVote:
		c.handleSubmitVote(msg.Payload)
	case MsgSkipDiscussion:
		c.withSession(func(s *app.Session) error { return s.SkipDiscussion(c.playerID) })
	case MsgSkipMatchEnd:
		c.withSession(func(s *app.Session) error { return s.SkipMatchEnd(c.playerID) })
	case MsgChatMessage:
		c.handleChatMessage(msg.Payload)
	case MsgAdminSkipPhase:
		c.handleAdminSkipPhase(msg.Payload)
	case MsgPing:
		c.Send(map[string]string{"type": "pong"})
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

func (c *Client) handleCreateRoom(payload json.RawMessage) {
	var p CreateRoomPayload
	if err := json.Unmarshal(payload, &p); err != nil || strings.TrimSpace(p.Username) == "" {
		c.sendError(ErrCodeInvalidMessage, "Username is required")
		return
	}
	if c.currentSession() != nil {
		c.sendError(ErrCodeInvalidMessage, "Already in a room")
		return
	}

	session, err := c.hub.CreateRoom(c.playerID, p.Username, p.IsPublic, p.Rounds)
	if err != nil {
		c.sendDomainError(err)
		return
	}

	session.RegisterClient(c.playerID, c)
	c.attach(session)
	c.sendSnapshot(session)
}

func (c *Client) handleJoinRoom(payload json.RawMessage) {
	var p JoinRoomPayload
	if err := json.Unmarshal(payload, &p); err != nil || strings.TrimSpace(p.Username) == "" || p.Code == "" {
		c.sendError(ErrCodeInvalidMessage, "Username and room code are required")
		return
	}
	if c.currentSession() != nil {
		c.sendError(ErrCodeInvalidMessage, "Already in a room")
		return
	}

	session, err := c.hub.Get(strings.ToUpper(p.Code))
	if err != nil {
		c.sendDomainError(err)
		return
	}
	if _, err := session.Join(c.playerID, p.Username); err != nil {
		c.sendDomainError(err)
		return
	}

	session.RegisterClient(c.playerID, c)
	c.attach(session)
	c.sendSnapshot(session)
}

func (c *Client) handleListPublicRooms() {
	rooms := c.hub.ListPublic()
	c.Send(domain.NewEvent(domain.EventPublicRoomsUpdate, "", rooms))
}

func (c *Client) handleKickPlayer(payload json.RawMessage) {
	var p KickPlayerPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.TargetID == "" {
		c.sendError(ErrCodeInvalidMessage, "Target player ID is required")
		return
	}
	c.withSession(func(s *app.Session) error { return s.Kick(c.playerID, p.TargetID) })
}

func (c *Client) handleSubmitWord(payload json.RawMessage) {
	var p SubmitWordPayload
	if err := json.Unmarshal(payload, &p); err != nil || strings.TrimSpace(p.Word) == "" {
		c.sendError(ErrCodeInvalidMessage, "Word is required")
		return
	}
	// Out-of-turn submissions are dropped by the room, not errored.
	c.withSession(func(s *app.Session) error {
		s.SubmitWord(c.playerID, p.Word)
		return nil
	})
}

func (c *Client) handleSubmitVote(payload json.RawMessage) {
	var p SubmitVotePayload
	if err := json.Unmarshal(payload, &p); err != nil || p.TargetID == "" {
		c.sendError(ErrCodeInvalidMessage, "Target player ID is required")
		return
	}
	c.withSession(func(s *app.Session) error { return s.SubmitVote(c.playerID, p.TargetID) })
}

func (c *Client) handleChatMessage(payload json.RawMessage) {
	var p ChatMessagePayload
	if err := json.Unmarshal(payload, &p); err != nil || strings.TrimSpace(p.Message) == "" {
		return
	}
	c.withSession(func(s *app.Session) error {
		s.Chat(c.playerID, p.Message)
		return nil
	})
}

func (c *Client) handleAdminSkipPhase(payload json.RawMessage) {
	var p AdminSkipPhasePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}
	c.withSession(func(s *app.Session) error { return s.AdminSkipPhase(p.Secret) })
}

// withSession runs an action against the bound room, surfacing validation
// failures to this connection only.
func (c *Client) withSession(fn func(*app.Session) error) {
	session := c.currentSession()
	if session == nil {
		c.sendError(ErrCodeNotInRoom, "Join a room first")
		return
	}
	if err := fn(session); err != nil {
		c.sendDomainError(err)
	}
}

func (c *Client) sendSnapshot(session *app.Session) {
	snapshot := session.Snapshot(c.playerID)
	c.Send(domain.NewPlayerEvent(domain.EventRoomJoined, session.Code(), c.playerID, snapshot))
}

func (c *Client) sendDomainError(err error) {
	code := ErrCodeInternalError
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		code = ErrCodeRoomNotFound
	case errors.Is(err, domain.ErrRoomFull):
		code = ErrCodeRoomFull
	case errors.Is(err, domain.ErrUsernameTaken):
		code = ErrCodeUsernameTaken
	case errors.Is(err, domain.ErrInvalidPhase):
		code = ErrCodeInvalidPhase
	case errors.Is(err, domain.ErrNotOwner):
		code = ErrCodeNotOwner
	case errors.Is(err, domain.ErrCannotKickSelf):
		code = ErrCodeCannotKickSelf
	case errors.Is(err, domain.ErrPlayerNotFound):
		code = ErrCodePlayerNotFound
	case errors.Is(err, domain.ErrNotEnoughPlayers):
		code = ErrCodeNotEnough
	case errors.Is(err, domain.ErrInvalidTargetID):
		code = ErrCodeInvalidTarget
	case errors.Is(err, domain.ErrAlreadyVoted):
		code = ErrCodeAlreadyVoted
	case errors.Is(err, domain.ErrInvalidRoundCount):
		code = ErrCodeInvalidMessage
	case errors.Is(err, domain.ErrBadAdminSecret):
		code = ErrCodeForbidden
	}
	c.sendError(code, err.Error())
}

func (c *Client) sendError(code, message string) {
	c.Send(domain.NewEvent(domain.EventError, "", &domain.ErrorPayload{
		Code:    code,
		Message: message,
	}))
}
