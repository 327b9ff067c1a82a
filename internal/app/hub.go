package app

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	mrand "math/rand"
	"sync"
	"time"

	"fakeout/internal/domain"
)

// DefaultRoomCodeLength is the default length for room codes.
const DefaultRoomCodeLength = 6

// RoomCodeChars are characters used for room codes (no ambiguous chars).
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Hub owns the mapping from room code to live session. It is the only
// holder of cross-room state; rooms themselves are logically independent.
type Hub struct {
	sessions map[string]*Session
	mu       sync.RWMutex

	sched       Scheduler
	art         ArtSource
	notifier    WinnerNotifier
	adminSecret string
	codeLength  int
	maxPlayers  int
	logger      *slog.Logger
}

// NewHub creates a hub with the given collaborators. Non-positive
// codeLength or maxPlayers select the defaults.
func NewHub(sched Scheduler, art ArtSource, notifier WinnerNotifier, adminSecret string, codeLength, maxPlayers int, logger *slog.Logger) *Hub {
	if codeLength <= 0 {
		codeLength = DefaultRoomCodeLength
	}
	return &Hub{
		sessions:    make(map[string]*Session),
		sched:       sched,
		art:         art,
		notifier:    notifier,
		adminSecret: adminSecret,
		codeLength:  codeLength,
		maxPlayers:  maxPlayers,
		logger:      logger,
	}
}

// CreateRoom creates a room, joins the creator as its owner and returns
// the live session. The code generator is re-invoked on collision rather
// than overwriting.
func (h *Hub) CreateRoom(creatorID, username string, isPublic bool, rounds int) (*Session, error) {
	if rounds < 1 || rounds > 10 {
		return nil, domain.ErrInvalidRoundCount
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var code string
	for attempts := 0; attempts < 10; attempts++ {
		code = h.generateRoomCode()
		if _, exists := h.sessions[code]; !exists {
			break
		}
	}
	if _, exists := h.sessions[code]; exists {
		return nil, fmt.Errorf("failed to generate unique room code")
	}

	room := domain.NewRoom(code, isPublic, rounds, h.maxPlayers)
	rng := mrand.New(mrand.NewSource(time.Now().UnixNano()))
	session := NewSession(room, h.sched, h.art, h.notifier, rng, h.adminSecret, h.Remove, h.logger)

	if _, err := session.Join(creatorID, username); err != nil {
		session.Close()
		return nil, err
	}

	h.sessions[code] = session
	h.logger.Info("room created", "roomCode", code, "isPublic", isPublic, "rounds", rounds)

	return session, nil
}

// Get returns the session for a room code.
func (h *Hub) Get(code string) (*Session, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[code]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return session, nil
}

// Remove deletes and closes a room.
func (h *Hub) Remove(code string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if session, ok := h.sessions[code]; ok {
		session.Close()
		delete(h.sessions, code)
		h.logger.Info("room removed", "roomCode", code)
	}
}

// ListPublic returns the public-lobby listing, recomputed from live room
// state on every call, never cached.
func (h *Hub) ListPublic() []domain.PublicRoomInfo {
	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		if s.IsPublic() {
			sessions = append(sessions, s)
		}
	}
	h.mu.RUnlock()

	infos := make([]domain.PublicRoomInfo, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, s.PublicInfo())
	}
	return infos
}

// RoomCount returns the number of active rooms.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// TotalPlayerCount returns the number of players across all rooms.
func (h *Hub) TotalPlayerCount() int {
	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	total := 0
	for _, s := range sessions {
		total += s.PlayerCount()
	}
	return total
}

// Close shuts down every session.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, session := range h.sessions {
		session.Close()
	}
	h.sessions = make(map[string]*Session)
}

func (h *Hub) generateRoomCode() string {
	b := make([]byte, h.codeLength)
	rand.Read(b)

	code := make([]byte, h.codeLength)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}
	return string(code)
}
