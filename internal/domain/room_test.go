package domain

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPlayerRejectsDuplicateUsernameCaseInsensitive(t *testing.T) {
	room := NewRoom("TEST42", true, 3, 0)
	_, err := room.AddPlayer("a", "Alice")
	require.NoError(t, err)

	_, err = room.AddPlayer("b", "alice")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAddPlayerRejectsWhenFull(t *testing.T) {
	room := NewRoom("TEST42", true, 3, 0)
	assert.Equal(t, DefaultMaxPlayers, room.MaxPlayers)
	for i := 0; i < room.MaxPlayers; i++ {
		_, err := room.AddPlayer(fmt.Sprintf("id%d", i), fmt.Sprintf("user%d", i))
		require.NoError(t, err)
	}

	_, err := room.AddPlayer("extra", "extra")
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestAddPlayerHonorsConfiguredCap(t *testing.T) {
	room := NewRoom("TEST42", true, 3, 3)
	for i := 0; i < 3; i++ {
		_, err := room.AddPlayer(fmt.Sprintf("id%d", i), fmt.Sprintf("user%d", i))
		require.NoError(t, err)
	}

	_, err := room.AddPlayer("extra", "extra")
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestRemovePlayerReassignsOwner(t *testing.T) {
	room := NewRoom("TEST42", true, 3, 0)
	room.AddPlayer("a", "alice")
	room.AddPlayer("b", "bob")
	room.AddPlayer("c", "carol")
	room.OwnerID = "a"
	room.Players[1].IsOffline = true

	room.RemovePlayer("a")

	// Ownership skips the offline player.
	assert.Equal(t, "c", room.OwnerID)
	assert.Len(t, room.Players, 2)
}

func TestAssignRolesCounts(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, tc := range []struct {
		players int
		want    int
	}{
		{players: 5, want: 1},
		{players: 7, want: 1},
		{players: 8, want: 2},
		{players: 12, want: 2},
	} {
		room := NewRoom("TEST42", true, 3, 0)
		for i := 0; i < tc.players; i++ {
			room.AddPlayer(fmt.Sprintf("id%d", i), fmt.Sprintf("user%d", i))
		}

		room.AssignRoles(rng)

		impostors := 0
		for _, p := range room.Players {
			require.NotEqual(t, RoleNone, p.Role)
			if p.Role.IsImpostor() {
				impostors++
			}
		}
		assert.Equal(t, tc.want, impostors, "players=%d", tc.players)
	}
}

func TestAllConnectedReadyNeedsMinimum(t *testing.T) {
	room := NewRoom("TEST42", true, 3, 0)
	room.AddPlayer("a", "alice")
	room.Players[0].IsReady = true

	assert.False(t, room.AllConnectedReady())

	room.AddPlayer("b", "bob")
	assert.False(t, room.AllConnectedReady())

	room.Players[1].IsReady = true
	assert.True(t, room.AllConnectedReady())
}

func TestAllActiveDidEmptyQuorumIsFalse(t *testing.T) {
	room := NewRoom("TEST42", true, 3, 0)
	room.AddPlayer("a", "alice")

	assert.False(t, room.AllActiveDid(func(p *Player) bool { return true }))
}

func TestResetMatchClearsEverything(t *testing.T) {
	room := NewRoom("TEST42", true, 3, 0)
	room.AddPlayer("a", "alice")
	room.AddPlayer("b", "bob")
	room.OwnerID = "a"

	room.Players[0].Score = 80
	room.Players[0].Role = RoleImpostor
	word := "fluffy"
	room.Players[0].Word = &word
	room.Players[1].IsOffline = true
	room.State = RoomState{
		Phase:           PhaseMatchEnd,
		CurrentRound:    3,
		TurnOrder:       []string{"a", "b"},
		WinnerAwardSent: true,
	}

	room.ResetMatch()

	assert.Equal(t, PhaseLobby, room.State.Phase)
	assert.Zero(t, room.State.CurrentRound)
	assert.Empty(t, room.State.TurnOrder)
	assert.False(t, room.State.WinnerAwardSent)
	require.Len(t, room.Players, 1) // offline player purged
	assert.Zero(t, room.Players[0].Score)
	assert.Equal(t, RoleNone, room.Players[0].Role)
	assert.Nil(t, room.Players[0].Word)
	assert.False(t, room.Players[0].IsReady)
}

func TestCurrentPair(t *testing.T) {
	room := NewRoom("TEST42", true, 2, 0)
	room.State.ArtPairs = []ImagePair{{Theme: "cat"}, {Theme: "owl"}}

	_, ok := room.CurrentPair()
	assert.False(t, ok, "round zero has no pair")

	room.State.CurrentRound = 2
	pair, ok := room.CurrentPair()
	require.True(t, ok)
	assert.Equal(t, "owl", pair.Theme)
}
