package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 12, cfg.Game.MaxPlayers)
	assert.Equal(t, 6, cfg.Game.RoomCodeLength)
}

func TestGetAddr(t *testing.T) {
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9090")

	cfg := Load()

	assert.Equal(t, "127.0.0.1:9090", cfg.GetAddr())
}

func TestLoadReadsGameTuning(t *testing.T) {
	t.Setenv("MAX_PLAYERS", "8")
	t.Setenv("ROOM_CODE_LENGTH", "4")

	cfg := Load()

	assert.Equal(t, 8, cfg.Game.MaxPlayers)
	assert.Equal(t, 4, cfg.Game.RoomCodeLength)
}

func TestLoadIgnoresUnparsableInt(t *testing.T) {
	t.Setenv("MAX_PLAYERS", "many")

	cfg := Load()

	assert.Equal(t, 12, cfg.Game.MaxPlayers)
}
