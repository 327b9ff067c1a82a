package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRoom(t *testing.T, n int) *Room {
	t.Helper()
	room := NewRoom("TEST42", true, 3, 0)
	for i := 0; i < n; i++ {
		_, err := room.AddPlayer(playerID(i), playerName(i))
		require.NoError(t, err)
	}
	room.OwnerID = playerID(0)
	room.State.CurrentRound = 1
	room.State.ArtPairs = []ImagePair{{Theme: "cat", Innocent: "inno.png", Impostor: "impo.png"}}
	return room
}

func playerID(i int) string   { return string(rune('a'+i)) + "-id" }
func playerName(i int) string { return "player" + string(rune('0'+i)) }

func vote(room *Room, voter, target int) {
	id := playerID(target)
	room.Players[voter].Vote = &id
}

func TestTallyVotesFirstReachedMaxWins(t *testing.T) {
	room := buildRoom(t, 4)
	// 2-2 tie between players 1 and 3; player 1 sits earlier in the roster.
	vote(room, 0, 1)
	vote(room, 2, 1)
	vote(room, 1, 3)
	vote(room, 3, 3)

	accused, counts := TallyVotes(room)

	assert.Equal(t, playerID(1), accused)
	assert.Equal(t, 2, counts[playerID(1)])
	assert.Equal(t, 2, counts[playerID(3)])
}

func TestResolveRoundImpostorCaught(t *testing.T) {
	room := buildRoom(t, 5)
	for i, p := range room.Players {
		if i == 1 {
			p.Role = RoleImpostor
		} else {
			p.Role = RoleInnocent
		}
	}
	// Four vote for the impostor, one abstains.
	vote(room, 0, 1)
	vote(room, 2, 1)
	vote(room, 3, 1)
	vote(room, 4, 1)

	outcome := ResolveRound(room)

	assert.Equal(t, RoleInnocent, outcome.Winner)
	assert.Equal(t, []string{playerName(1)}, outcome.ImpostorNames)
	assert.Equal(t, "inno.png", outcome.Pair.Innocent)
	assert.Equal(t, CatchVoterBonus, room.Players[0].Score)
	assert.Equal(t, CatchVoterBonus, room.Players[2].Score)
	assert.Equal(t, CatchVoterBonus, room.Players[3].Score)
	assert.Equal(t, CatchVoterBonus, room.Players[4].Score)
	assert.Zero(t, room.Players[1].Score)
}

func TestResolveRoundImpostorEscapesNinePlayers(t *testing.T) {
	room := buildRoom(t, 9)
	for i, p := range room.Players {
		if i == 1 || i == 5 {
			p.Role = RoleImpostor
		} else {
			p.Role = RoleInnocent
		}
	}
	// The accused (max-vote target) is an innocent.
	for _, voter := range []int{0, 1, 2, 3, 4} {
		vote(room, voter, 6)
	}

	outcome := ResolveRound(room)

	assert.Equal(t, RoleImpostor, outcome.Winner)
	wantBonus := EscapeBase + EscapePerPlayer*9
	assert.Equal(t, 120, wantBonus)
	assert.Equal(t, wantBonus, room.Players[1].Score)
	assert.Equal(t, wantBonus, room.Players[5].Score)
	assert.Zero(t, room.Players[6].Score)
}

func TestResolveRoundNoVotes(t *testing.T) {
	room := buildRoom(t, 3)
	room.Players[0].Role = RoleImpostor
	room.Players[1].Role = RoleInnocent
	room.Players[2].Role = RoleInnocent

	outcome := ResolveRound(room)

	assert.Equal(t, RoleImpostor, outcome.Winner)
	assert.Empty(t, outcome.AccusedID)
}

func TestMatchWinnersTiesAllAwarded(t *testing.T) {
	room := buildRoom(t, 4)
	room.Players[0].Score = 60
	room.Players[1].Score = 20
	room.Players[2].Score = 60
	room.Players[3].Score = 0

	winners := MatchWinners(room)

	assert.ElementsMatch(t, []string{playerName(0), playerName(2)}, winners)
}

func TestImpostorSlots(t *testing.T) {
	assert.Equal(t, 1, ImpostorSlots(2))
	assert.Equal(t, 1, ImpostorSlots(7))
	assert.Equal(t, 2, ImpostorSlots(8))
	assert.Equal(t, 2, ImpostorSlots(12))
}
