package leagues

import (
	"slices"
)

// swissSearchBudget bounds the rematch-avoiding backtracking search.
const swissSearchBudget = 20000

// GenerateSwissRound pairs members adjacently by current rank for the given
// round, avoiding rematches where a rematch-free pairing exists. A round of 0
// means the next round. Rounds that already exist are refused.
func GenerateSwissRound(members []Member, history []Match, round int) ([]ScheduledMatch, error) {
	past := scanSwissHistory(history)
	if round <= 0 {
		round = past.lastRound + 1
	}
	if round <= past.lastRound {
		return nil, Conflict("swiss round", int64(round), "generated", "generate", "round already generated")
	}
	if round > past.lastRound+1 {
		return nil, Invalid("round", "round %d cannot be generated before round %d", round, past.lastRound+1)
	}

	ordered := slices.Clone(members)
	slices.SortFunc(ordered, byRank)
	if len(ordered)%2 == 1 {
		idx := pickBye(ordered, past.appearances, past.lastRound)
		ordered = slices.Delete(ordered, idx, idx+1)
	}

	search := swissSearch{played: past.played, budget: swissSearchBudget}
	pairs, ok := search.pair(ordered)
	if !ok {
		pairs = greedyPairs(ordered, past.played)
	}

	schedule := make([]ScheduledMatch, 0, len(pairs))
	for _, pair := range pairs {
		schedule = append(schedule, ScheduledMatch{
			Round: round,
			SideA: pair[0].side(),
			SideB: pair[1].side(),
		})
	}
	return schedule, nil
}

// SwissBye reports which member sits out the next round, if any.
func SwissBye(members []Member, history []Match) (Member, bool) {
	if len(members)%2 == 0 {
		return Member{}, false
	}
	ordered := slices.Clone(members)
	slices.SortFunc(ordered, byRank)
	past := scanSwissHistory(history)
	return ordered[pickBye(ordered, past.appearances, past.lastRound)], true
}

type swissHistory struct {
	lastRound   int
	played      map[[2]int64]int
	appearances map[int64]int
}

func scanSwissHistory(history []Match) swissHistory {
	past := swissHistory{
		played:      make(map[[2]int64]int),
		appearances: make(map[int64]int),
	}
	for _, match := range history {
		if match.Status == StatusCancelled {
			continue
		}
		past.lastRound = max(past.lastRound, match.Round)
		for _, a := range match.SideA.MemberIDs {
			past.appearances[a]++
			for _, b := range match.SideB.MemberIDs {
				past.played[pairKey(a, b)]++
			}
		}
		for _, b := range match.SideB.MemberIDs {
			past.appearances[b]++
		}
	}
	return past
}

// pickBye returns the lowest ranked member with the fewest previous byes.
func pickBye(ordered []Member, appearances map[int64]int, lastRound int) int {
	best := len(ordered) - 1
	bestByes := lastRound - appearances[ordered[best].ID]
	for idx := len(ordered) - 2; idx >= 0; idx-- {
		byes := lastRound - appearances[ordered[idx].ID]
		if byes < bestByes {
			best, bestByes = idx, byes
		}
	}
	return best
}

type swissSearch struct {
	played map[[2]int64]int
	budget int
}

func (s *swissSearch) pair(remaining []Member) ([][2]Member, bool) {
	if len(remaining) == 0 {
		return nil, true
	}
	s.budget--
	if s.budget < 0 {
		return nil, false
	}
	first := remaining[0]
	for idx := 1; idx < len(remaining); idx++ {
		candidate := remaining[idx]
		if s.played[pairKey(first.ID, candidate.ID)] > 0 {
			continue
		}
		rest := make([]Member, 0, len(remaining)-2)
		rest = append(rest, remaining[1:idx]...)
		rest = append(rest, remaining[idx+1:]...)
		tail, ok := s.pair(rest)
		if ok {
			return append([][2]Member{{first, candidate}}, tail...), true
		}
		if s.budget < 0 {
			return nil, false
		}
	}
	return nil, false
}

// greedyPairs pairs top-down taking the nearest opponent with the fewest
// previous meetings. Used when no rematch-free round exists.
func greedyPairs(ordered []Member, played map[[2]int64]int) [][2]Member {
	remaining := slices.Clone(ordered)
	pairs := make([][2]Member, 0, len(remaining)/2)
	for len(remaining) >= 2 {
		first := remaining[0]
		bestIdx := 1
		bestCount := played[pairKey(first.ID, remaining[1].ID)]
		for idx := 2; idx < len(remaining) && bestCount > 0; idx++ {
			count := played[pairKey(first.ID, remaining[idx].ID)]
			if count < bestCount {
				bestIdx, bestCount = idx, count
			}
		}
		pairs = append(pairs, [2]Member{first, remaining[bestIdx]})
		remaining = slices.Delete(remaining, bestIdx, bestIdx+1)
		remaining = remaining[1:]
	}
	return pairs
}

func pairKey(a, b int64) [2]int64 {
	if a > b {
		a, b = b, a
	}
	return [2]int64{a, b}
}
