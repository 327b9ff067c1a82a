package domain

import (
	"math/rand"
	"strings"
	"time"
)

// DefaultMaxPlayers is the default cap on a room's roster.
const DefaultMaxPlayers = 12

// MinPlayers is the minimum roster needed to start or continue a round.
const MinPlayers = 2

// ImagePair holds the two near-identical image URLs for one round.
// Innocents are shown Innocent, impostors Impostor; the mapping is only
// revealed to the whole room once the round is over.
type ImagePair struct {
	Theme    string `json:"theme"`
	Innocent string `json:"innocent"`
	Impostor string `json:"impostor"`
}

// RoomState is the phase-machine portion of a room.
type RoomState struct {
	Phase           Phase
	Timer           int
	CurrentRound    int
	TurnOrder       []string
	TurnIndex       int
	ArtPairs        []ImagePair
	CountdownActive bool
	WinnerAwardSent bool
}

// Room is one isolated game session: an ordered roster, a phase state and
// the per-match configuration fixed at creation.
type Room struct {
	Code       string
	Players    []*Player // join order; stable iteration order for tallies
	OwnerID    string
	IsPublic   bool
	Rounds     int
	MaxPlayers int
	State      RoomState
	CreatedAt  time.Time
}

// NewRoom creates a room in LOBBY with the given immutable configuration.
// A non-positive maxPlayers selects the default cap.
func NewRoom(code string, isPublic bool, rounds, maxPlayers int) *Room {
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}
	return &Room{
		Code:       code,
		IsPublic:   isPublic,
		Rounds:     rounds,
		MaxPlayers: maxPlayers,
		State:      RoomState{Phase: PhaseLobby},
		CreatedAt:  time.Now(),
	}
}

// AddPlayer appends a new player to the roster. Usernames are unique
// case-insensitively within the room.
func (r *Room) AddPlayer(id, username string) (*Player, error) {
	if len(r.Players) >= r.MaxPlayers {
		return nil, ErrRoomFull
	}
	for _, p := range r.Players {
		if strings.EqualFold(p.Username, username) {
			return nil, ErrUsernameTaken
		}
	}

	player := NewPlayer(id, username)
	r.Players = append(r.Players, player)
	return player, nil
}

// FindPlayer returns the roster entry for the given id, or nil.
func (r *Room) FindPlayer(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// RemovePlayer removes a player from the roster entirely. If the owner is
// removed, ownership moves to the next still-connected player.
func (r *Room) RemovePlayer(id string) *Player {
	for i, p := range r.Players {
		if p.ID == id {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			if r.OwnerID == id {
				r.reassignOwner()
			}
			return p
		}
	}
	return nil
}

func (r *Room) reassignOwner() {
	r.OwnerID = ""
	for _, p := range r.Players {
		if !p.IsOffline {
			r.OwnerID = p.ID
			return
		}
	}
}

// MarkOffline flags a mid-match disconnect, reassigning ownership if the
// owner dropped.
func (r *Room) MarkOffline(id string) *Player {
	p := r.FindPlayer(id)
	if p == nil {
		return nil
	}
	p.IsOffline = true
	if r.OwnerID == id {
		r.reassignOwner()
	}
	return p
}

// ConnectedCount returns how many players are still online.
func (r *Room) ConnectedCount() int {
	n := 0
	for _, p := range r.Players {
		if !p.IsOffline {
			n++
		}
	}
	return n
}

// ActivePlayers returns the quorum population: players with a role for
// this round that are still online.
func (r *Room) ActivePlayers() []*Player {
	active := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return active
}

// AllActiveDid reports whether every active player satisfies pred. An
// empty quorum never satisfies anything; the zero-players case is handled
// by its own transition.
func (r *Room) AllActiveDid(pred func(*Player) bool) bool {
	active := r.ActivePlayers()
	if len(active) == 0 {
		return false
	}
	for _, p := range active {
		if !pred(p) {
			return false
		}
	}
	return true
}

// AllConnectedReady reports whether every online player has readied up.
func (r *Room) AllConnectedReady() bool {
	if r.ConnectedCount() < MinPlayers {
		return false
	}
	for _, p := range r.Players {
		if !p.IsOffline && !p.IsReady {
			return false
		}
	}
	return true
}

// PurgeOffline drops every offline player from the roster.
func (r *Room) PurgeOffline() {
	kept := r.Players[:0]
	for _, p := range r.Players {
		if !p.IsOffline {
			kept = append(kept, p)
		}
	}
	r.Players = kept
	if r.FindPlayer(r.OwnerID) == nil {
		r.reassignOwner()
	}
}

// AssignRoles deals this round's roles over an unbiased permutation of the
// roster: the first ImpostorSlots players become impostors, everyone else
// innocent.
func (r *Room) AssignRoles(rng *rand.Rand) {
	order := make([]*Player, len(r.Players))
	copy(order, r.Players)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	slots := ImpostorSlots(len(order))
	for i, p := range order {
		if i < slots {
			p.Role = RoleImpostor
		} else {
			p.Role = RoleInnocent
		}
	}
}

// ShuffledTurnOrder returns a random permutation of all current player
// ids. Everyone present participates in writing, not just role holders.
func (r *Room) ShuffledTurnOrder(rng *rand.Rand) []string {
	order := make([]string, len(r.Players))
	for i, p := range r.Players {
		order[i] = p.ID
	}
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

// CurrentWriterID returns the id of the seated writer, or "" if the turn
// order is exhausted.
func (r *Room) CurrentWriterID() string {
	if r.State.TurnIndex >= len(r.State.TurnOrder) {
		return ""
	}
	return r.State.TurnOrder[r.State.TurnIndex]
}

// CurrentPair returns the cached art pair for the current round.
func (r *Room) CurrentPair() (ImagePair, bool) {
	idx := r.State.CurrentRound - 1
	if idx < 0 || idx >= len(r.State.ArtPairs) {
		return ImagePair{}, false
	}
	return r.State.ArtPairs[idx], true
}

// ResetMatch restores the room to an idle lobby: offline players purged,
// scores zeroed, per-round fields, turn order, round counter and the
// one-shot winner-award flag cleared.
func (r *Room) ResetMatch() {
	r.PurgeOffline()
	for _, p := range r.Players {
		p.ResetMatch()
	}
	r.State = RoomState{Phase: PhaseLobby}
}

// Impostors returns every player currently holding the impostor role.
func (r *Room) Impostors() []*Player {
	out := make([]*Player, 0, 2)
	for _, p := range r.Players {
		if p.Role.IsImpostor() {
			out = append(out, p)
		}
	}
	return out
}

// PlayerInfoList returns the role-masked roster for broadcasting.
func (r *Room) PlayerInfoList() []PlayerInfo {
	infos := make([]PlayerInfo, 0, len(r.Players))
	for _, p := range r.Players {
		infos = append(infos, p.ToInfo())
	}
	return infos
}

// OwnerName returns the display name of the current owner, or "".
func (r *Room) OwnerName() string {
	if owner := r.FindPlayer(r.OwnerID); owner != nil {
		return owner.Username
	}
	return ""
}
