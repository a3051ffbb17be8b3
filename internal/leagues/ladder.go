package leagues

const DefaultLadderRange = 3

// ValidateChallenge checks that challenger may challenge defender: both
// active, challenger ranked below, within rangeLimit rungs.
func ValidateChallenge(challenger, defender Member, rangeLimit int) error {
	if rangeLimit <= 0 {
		rangeLimit = DefaultLadderRange
	}
	if challenger.ID == defender.ID {
		return Invalid("defender", "a member cannot challenge themselves")
	}
	if !challenger.Active() || !defender.Active() {
		return Invalid("challenge", "both members must be active")
	}
	if challenger.Rank <= 0 || defender.Rank <= 0 {
		return Invalid("challenge", "both members must hold a ladder rung")
	}
	if defender.Rank >= challenger.Rank {
		return Invalid("defender", "defender must be ranked above the challenger")
	}
	if challenger.Rank-defender.Rank > rangeLimit {
		return Invalid("defender", "defender is more than %d rungs above", rangeLimit)
	}
	return nil
}

// NewChallenge builds the match for an accepted challenge.
func NewChallenge(leagueID int64, challenger, defender Member) ScheduledMatch {
	return ScheduledMatch{
		LeagueID: leagueID,
		Division: challenger.Division,
		SideA:    challenger.side(),
		SideB:    defender.side(),
	}
}

// RankChange is a single member's new ladder rung.
type RankChange struct {
	MemberID int64
	Rank     int
}

// Leapfrog returns the rung changes after a ladder result. When the lower
// ranked challenger wins they take the defender's rung and everyone from the
// defender down to the challenger's old rung drops by one. Otherwise nothing
// moves.
func Leapfrog(ladder []Member, winnerID, loserID int64) []RankChange {
	var winner, loser *Member
	for i := range ladder {
		switch ladder[i].ID {
		case winnerID:
			winner = &ladder[i]
		case loserID:
			loser = &ladder[i]
		}
	}
	if winner == nil || loser == nil || winner.Rank <= 0 || loser.Rank <= 0 {
		return nil
	}
	if winner.Rank < loser.Rank {
		return nil
	}

	top, bottom := loser.Rank, winner.Rank
	changes := []RankChange{{MemberID: winner.ID, Rank: top}}
	for _, member := range ladder {
		if member.ID == winner.ID {
			continue
		}
		if member.Rank >= top && member.Rank < bottom {
			changes = append(changes, RankChange{MemberID: member.ID, Rank: member.Rank + 1})
		}
	}
	return changes
}
