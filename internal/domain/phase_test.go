package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhaseTransitions(t *testing.T) {
	assert.True(t, PhaseLobby.CanTransitionTo(PhaseWriting))
	assert.True(t, PhaseWriting.CanTransitionTo(PhaseDiscussing))
	assert.True(t, PhaseDiscussing.CanTransitionTo(PhaseVoting))
	assert.True(t, PhaseVoting.CanTransitionTo(PhaseResults))
	assert.True(t, PhaseResults.CanTransitionTo(PhaseWriting))
	assert.True(t, PhaseResults.CanTransitionTo(PhaseMatchEnd))
	assert.True(t, PhaseMatchEnd.CanTransitionTo(PhaseLobby))

	// Insufficient-player repair may land in LOBBY from anywhere.
	assert.True(t, PhaseVoting.CanTransitionTo(PhaseLobby))
	assert.True(t, PhaseWriting.CanTransitionTo(PhaseLobby))

	assert.False(t, PhaseLobby.CanTransitionTo(PhaseVoting))
	assert.False(t, PhaseVoting.CanTransitionTo(PhaseWriting))
	assert.False(t, PhaseMatchEnd.CanTransitionTo(PhaseWriting))
}
