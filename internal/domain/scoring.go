package domain

import "fmt"

// Score deltas: catching the impostor pays every correct voter a flat
// bonus; escaping pays the impostor a base plus a per-player premium.
const (
	CatchVoterBonus = 20
	EscapeBase      = 30
	EscapePerPlayer = 10
)

// RoundOutcome is the result of resolving one round's votes.
type RoundOutcome struct {
	Winner        Role
	Message       string
	AccusedID     string
	ImpostorNames []string
	Pair          ImagePair
}

// TallyVotes counts votes per target and picks the accused in a single
// pass over the roster in join order. A strictly greater count replaces
// the running maximum, so ties resolve to the first player (in roster
// order) to reach the final maximum. This is order-dependent on the
// roster, not on vote arrival, and is preserved deliberately.
func TallyVotes(r *Room) (accusedID string, counts map[string]int) {
	counts = make(map[string]int)
	for _, p := range r.Players {
		if p.Vote != nil {
			counts[*p.Vote]++
		}
	}

	maxVotes := 0
	for _, p := range r.Players {
		if c := counts[p.ID]; c > maxVotes {
			maxVotes = c
			accusedID = p.ID
		}
	}
	return accusedID, counts
}

// ResolveRound tallies the votes, applies score deltas and returns the
// round outcome. The image pair is included since the round is over and
// the mapping is safe to reveal to everyone.
func ResolveRound(r *Room) RoundOutcome {
	accusedID, _ := TallyVotes(r)
	accused := r.FindPlayer(accusedID)

	impostors := r.Impostors()
	names := make([]string, len(impostors))
	for i, imp := range impostors {
		names[i] = imp.Username
	}

	pair, _ := r.CurrentPair()
	outcome := RoundOutcome{
		AccusedID:     accusedID,
		ImpostorNames: names,
		Pair:          pair,
	}

	if accused != nil && accused.Role.IsImpostor() {
		// Caught: every vote that landed on an impostor pays out.
		for _, p := range r.Players {
			if p.Vote == nil {
				continue
			}
			if target := r.FindPlayer(*p.Vote); target != nil && target.Role.IsImpostor() {
				p.Score += CatchVoterBonus
			}
		}
		outcome.Winner = RoleInnocent
		outcome.Message = fmt.Sprintf("%s was the impostor and got caught!", accused.Username)
		return outcome
	}

	// Escaped: each impostor collects the escape premium.
	bonus := EscapeBase + EscapePerPlayer*len(r.Players)
	for _, imp := range impostors {
		imp.Score += bonus
	}
	outcome.Winner = RoleImpostor
	if accused != nil {
		outcome.Message = fmt.Sprintf("%s was innocent: the impostor escaped!", accused.Username)
	} else {
		outcome.Message = "Nobody was accused: the impostor escaped!"
	}
	return outcome
}

// MatchWinners returns the usernames of every player tied at the maximum
// score. All tied players are awarded.
func MatchWinners(r *Room) []string {
	maxScore := 0
	for _, p := range r.Players {
		if p.Score > maxScore {
			maxScore = p.Score
		}
	}

	winners := make([]string, 0, 1)
	for _, p := range r.Players {
		if p.Score == maxScore {
			winners = append(winners, p.Username)
		}
	}
	return winners
}
