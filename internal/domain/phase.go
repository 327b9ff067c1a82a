package domain

// Phase represents the current phase of a room's match lifecycle.
type Phase string

const (
	PhaseLobby      Phase = "LOBBY"      // Waiting for players to ready up
	PhaseWriting    Phase = "WRITING"    // Players submitting clue words one by one
	PhaseDiscussing Phase = "DISCUSSING" // Open discussion before the vote
	PhaseVoting     Phase = "VOTING"     // Everyone votes for the suspected impostor
	PhaseResults    Phase = "RESULTS"    // Round outcome shown
	PhaseMatchEnd   Phase = "MATCH_END"  // Match winners shown before reset
)

// Fixed phase durations in seconds. Only the round count is configurable
// per room; durations are part of the game design.
const (
	LobbyCountdownSeconds = 4
	TurnSeconds           = 30
	DiscussSeconds        = 120
	VoteSeconds           = 30
	ResultsSeconds        = 5
	MatchEndSeconds       = 30
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo checks if a transition from the current phase to the
// target phase is legal. Any phase may fall back to LOBBY: insufficient
// players always repair to a full reset rather than wedging the room.
func (p Phase) CanTransitionTo(target Phase) bool {
	if target == PhaseLobby {
		return true
	}

	validTransitions := map[Phase][]Phase{
		PhaseLobby:      {PhaseWriting},
		PhaseWriting:    {PhaseDiscussing},
		PhaseDiscussing: {PhaseVoting},
		PhaseVoting:     {PhaseResults},
		PhaseResults:    {PhaseWriting, PhaseMatchEnd},
	}

	for _, phase := range validTransitions[p] {
		if phase == target {
			return true
		}
	}
	return false
}
