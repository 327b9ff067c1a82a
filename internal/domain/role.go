package domain

// Role represents a player's role in a round. The zero value means no role
// has been assigned for the current round.
type Role string

const (
	RoleNone     Role = ""
	RoleInnocent Role = "INNOCENT"
	RoleImpostor Role = "IMPOSTOR"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsImpostor returns true if this role is the impostor.
func (r Role) IsImpostor() bool {
	return r == RoleImpostor
}

// ImpostorSlots returns how many impostor roles a round gets for the given
// number of participating players: one below eight, two at eight or more.
func ImpostorSlots(playerCount int) int {
	if playerCount >= 8 {
		return 2
	}
	return 1
}
