package app

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakeout/internal/domain"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(&fakeScheduler{}, &stubArtSource{}, &countingNotifier{}, "hunter2", 0, 0, logger)
	t.Cleanup(hub.Close)
	return hub
}

func TestCreateRoomGeneratesTypeableCode(t *testing.T) {
	hub := newTestHub(t)

	session, err := hub.CreateRoom("creator", "alice", true, 3)
	require.NoError(t, err)

	code := session.Code()
	assert.Len(t, code, DefaultRoomCodeLength)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(RoomCodeChars, r), "unexpected char %q", r)
	}

	found, err := hub.Get(code)
	require.NoError(t, err)
	assert.Same(t, session, found)
}

func TestCreateRoomHonorsConfiguredCodeLength(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(&fakeScheduler{}, &stubArtSource{}, &countingNotifier{}, "", 8, 0, logger)
	t.Cleanup(hub.Close)

	session, err := hub.CreateRoom("creator", "alice", true, 2)
	require.NoError(t, err)
	assert.Len(t, session.Code(), 8)
}

func TestCreateRoomJoinsCreatorAsOwner(t *testing.T) {
	hub := newTestHub(t)

	session, err := hub.CreateRoom("creator", "alice", false, 2)
	require.NoError(t, err)

	snapshot := session.Snapshot("creator")
	assert.True(t, snapshot.IsOwner)
	require.Len(t, snapshot.Players, 1)
	assert.Equal(t, "alice", snapshot.Players[0].Username)
}

func TestCreateRoomRejectsBadRoundCount(t *testing.T) {
	hub := newTestHub(t)

	_, err := hub.CreateRoom("creator", "alice", true, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidRoundCount)

	_, err = hub.CreateRoom("creator", "alice", true, 11)
	assert.ErrorIs(t, err, domain.ErrInvalidRoundCount)
}

func TestGetUnknownRoom(t *testing.T) {
	hub := newTestHub(t)

	_, err := hub.Get("NOPE42")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestListPublicExcludesPrivateRooms(t *testing.T) {
	hub := newTestHub(t)

	pub, err := hub.CreateRoom("a", "alice", true, 2)
	require.NoError(t, err)
	_, err = hub.CreateRoom("b", "bob", false, 2)
	require.NoError(t, err)

	listing := hub.ListPublic()

	require.Len(t, listing, 1)
	assert.Equal(t, pub.Code(), listing[0].Code)
	assert.Equal(t, "alice", listing[0].OwnerName)
	assert.Equal(t, 1, listing[0].PlayerCount)
	assert.Equal(t, domain.PhaseLobby, listing[0].Phase)
}

func TestRemoveRoom(t *testing.T) {
	hub := newTestHub(t)

	session, err := hub.CreateRoom("a", "alice", true, 2)
	require.NoError(t, err)

	hub.Remove(session.Code())

	_, err = hub.Get(session.Code())
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	assert.Zero(t, hub.RoomCount())
}

func TestHubCounts(t *testing.T) {
	hub := newTestHub(t)

	s1, err := hub.CreateRoom("a", "alice", true, 2)
	require.NoError(t, err)
	_, err = hub.CreateRoom("b", "bob", false, 2)
	require.NoError(t, err)
	_, err = s1.Join("c", "carol")
	require.NoError(t, err)

	assert.Equal(t, 2, hub.RoomCount())
	assert.Equal(t, 3, hub.TotalPlayerCount())
}
