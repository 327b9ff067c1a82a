package domain

import "time"

// Player represents one roster entry in a room. Identity and score persist
// across rounds within a match; the per-round fields are cleared on every
// round rollover and the one-shot flags at their phase boundary.
type Player struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Score    int    `json:"score"`

	// Per-round fields, cleared at round start.
	Role Role    `json:"-"`
	Word *string `json:"word,omitempty"`
	Vote *string `json:"-"`

	// One-shot flags.
	IsReady              bool `json:"isReady"`
	HasSkippedDiscussion bool `json:"-"`
	HasSkippedMatchEnd   bool `json:"-"`

	// IsOffline marks a mid-match disconnect. Offline players keep their
	// score and role until the next round rollover removes them, but are
	// excluded from every quorum check.
	IsOffline bool `json:"isOffline"`

	JoinedAt time.Time `json:"-"`
}

// NewPlayer creates a new player with default fields.
func NewPlayer(id, username string) *Player {
	return &Player{
		ID:       id,
		Username: username,
		JoinedAt: time.Now(),
	}
}

// ResetRound clears all per-round fields.
func (p *Player) ResetRound() {
	p.Role = RoleNone
	p.Word = nil
	p.Vote = nil
	p.HasSkippedDiscussion = false
}

// ResetMatch clears everything the match accumulated, score included.
func (p *Player) ResetMatch() {
	p.ResetRound()
	p.Score = 0
	p.IsReady = false
	p.HasSkippedMatchEnd = false
}

// IsActive reports whether the player counts toward "everyone has
// responded" quorums: a role for this round and still online.
func (p *Player) IsActive() bool {
	return p.Role != RoleNone && !p.IsOffline
}

// PlayerInfo is the role-masked view of a player broadcast to the room.
// It reveals only whether a role has been assigned, never which one.
type PlayerInfo struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Score     int    `json:"score"`
	IsReady   bool   `json:"isReady"`
	IsOffline bool   `json:"isOffline"`
	HasRole   bool   `json:"hasRole"`
	HasWord   bool   `json:"hasWord"`
	HasVoted  bool   `json:"hasVoted"`
}

// ToInfo converts a Player to its role-masked broadcast view.
func (p *Player) ToInfo() PlayerInfo {
	return PlayerInfo{
		ID:        p.ID,
		Username:  p.Username,
		Score:     p.Score,
		IsReady:   p.IsReady,
		IsOffline: p.IsOffline,
		HasRole:   p.Role != RoleNone,
		HasWord:   p.Word != nil,
		HasVoted:  p.Vote != nil,
	}
}
