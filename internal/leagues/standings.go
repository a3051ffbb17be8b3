package leagues

import (
	"slices"
	"sort"
	"strings"
)

type Tiebreaker string

const (
	TiebreakLeaguePoints      Tiebreaker = "league_points"
	TiebreakWins              Tiebreaker = "wins"
	TiebreakPointDifferential Tiebreaker = "point_differential"
	TiebreakPointsFor         Tiebreaker = "points_for"
	TiebreakPointsAgainst     Tiebreaker = "points_against"
	TiebreakGameDifferential  Tiebreaker = "game_differential"
	TiebreakGamesWon          Tiebreaker = "games_won"
	TiebreakGamesLost         Tiebreaker = "games_lost"
	TiebreakHeadToHead        Tiebreaker = "head_to_head"
	TiebreakRecentForm        Tiebreaker = "recent_form"
)

var DefaultTiebreakers = []Tiebreaker{
	TiebreakLeaguePoints,
	TiebreakWins,
	TiebreakPointDifferential,
	TiebreakPointsFor,
}

var knownTiebreakers = []Tiebreaker{
	TiebreakLeaguePoints,
	TiebreakWins,
	TiebreakPointDifferential,
	TiebreakPointsFor,
	TiebreakPointsAgainst,
	TiebreakGameDifferential,
	TiebreakGamesWon,
	TiebreakGamesLost,
	TiebreakHeadToHead,
	TiebreakRecentForm,
}

// ParseTiebreakers validates an ordered tiebreaker list. Duplicates are
// rejected since a repeated criterion can never decide anything.
func ParseTiebreakers(raw []string) ([]Tiebreaker, error) {
	if len(raw) == 0 {
		return slices.Clone(DefaultTiebreakers), nil
	}
	seen := make(map[Tiebreaker]struct{}, len(raw))
	result := make([]Tiebreaker, 0, len(raw))
	for _, value := range raw {
		tb := Tiebreaker(strings.ToLower(strings.TrimSpace(value)))
		if !slices.Contains(knownTiebreakers, tb) {
			return nil, Invalid("tiebreakers", "unknown tiebreaker %q", value)
		}
		if _, dup := seen[tb]; dup {
			return nil, Invalid("tiebreakers", "tiebreaker %q listed twice", value)
		}
		seen[tb] = struct{}{}
		result = append(result, tb)
	}
	return result, nil
}

type StandingEntry struct {
	MemberID int64  `json:"memberId"`
	Name     string `json:"name"`
	Rank     int    `json:"rank"`
	Stats    Stats  `json:"stats"`
}

// HeadToHeadFunc reports a's net result against b: positive when a has the
// better of their direct meetings. Within a tied group each member scores the
// sum against every other member of the group, so the order stays transitive
// when results are cyclic. A nil func resolves to no preference.
type HeadToHeadFunc func(a, b int64) int

// Rank orders entries by the tiebreakers in sequence. The first criterion
// that differs decides; entries tied on every criterion keep their input
// order and share a rank.
func Rank(entries []StandingEntry, tiebreakers []Tiebreaker, headToHead HeadToHeadFunc) []StandingEntry {
	ordered := slices.Clone(entries)
	if len(tiebreakers) == 0 {
		tiebreakers = DefaultTiebreakers
	}
	rankGroup(ordered, 0, tiebreakers, headToHead)
	return ordered
}

type keyedEntry struct {
	entry StandingEntry
	key   int
}

// rankGroup orders a run of entries that are tied on every earlier
// criterion, then recurses into the runs still tied on the current one.
// offset is the position of the run in the full table.
func rankGroup(group []StandingEntry, offset int, tiebreakers []Tiebreaker, headToHead HeadToHeadFunc) {
	if len(group) == 1 || len(tiebreakers) == 0 {
		for idx := range group {
			group[idx].Rank = offset + 1
		}
		return
	}

	keyed := make([]keyedEntry, len(group))
	for idx, entry := range group {
		keyed[idx] = keyedEntry{entry: entry, key: criterionKey(tiebreakers[0], entry, group, headToHead)}
	}
	sort.SliceStable(keyed, func(i, j int) bool {
		return keyed[i].key > keyed[j].key
	})
	for idx := range keyed {
		group[idx] = keyed[idx].entry
	}

	for start := 0; start < len(group); {
		end := start + 1
		for end < len(group) && keyed[end].key == keyed[start].key {
			end++
		}
		rankGroup(group[start:end], offset+start, tiebreakers[1:], headToHead)
		start = end
	}
}

// criterionKey scores an entry on one tiebreaker; higher ranks first.
func criterionKey(tb Tiebreaker, entry StandingEntry, group []StandingEntry, headToHead HeadToHeadFunc) int {
	stats := entry.Stats
	switch tb {
	case TiebreakLeaguePoints:
		return stats.Points
	case TiebreakWins:
		return stats.Wins
	case TiebreakPointDifferential:
		return stats.PointDifferential()
	case TiebreakPointsFor:
		return stats.PointsFor
	case TiebreakPointsAgainst:
		return -stats.PointsAgainst
	case TiebreakGameDifferential:
		return stats.GameDifferential()
	case TiebreakGamesWon:
		return stats.GamesWon
	case TiebreakGamesLost:
		return -stats.GamesLost
	case TiebreakHeadToHead:
		if headToHead == nil {
			return 0
		}
		total := 0
		for _, other := range group {
			if other.MemberID != entry.MemberID {
				total += headToHead(entry.MemberID, other.MemberID)
			}
		}
		return total
	case TiebreakRecentForm:
		return stats.RecentWins()
	default:
		return 0
	}
}

// AccumulateStats rebuilds stats from scratch for the given members. Only
// counted matches contribute; they are applied in round order so recent form
// reflects play order.
func AccumulateStats(members []Member, matches []Match, points PointsRule) map[int64]Stats {
	stats := make(map[int64]*Stats, len(members))
	for _, member := range members {
		stats[member.ID] = &Stats{}
	}

	ordered := slices.Clone(matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		if a.Round != b.Round {
			return a.Round < b.Round
		}
		return a.ID < b.ID
	})

	for _, match := range ordered {
		if !match.Counted() {
			continue
		}
		pointsA, pointsB, gamesA, gamesB := GameTotals(match.Scores)
		applySide(stats, match.SideA, match.Winner == SideA, pointsA, pointsB, gamesA, gamesB, points)
		applySide(stats, match.SideB, match.Winner == SideB, pointsB, pointsA, gamesB, gamesA, points)
	}

	result := make(map[int64]Stats, len(stats))
	for id, entry := range stats {
		result[id] = *entry
	}
	return result
}

func applySide(stats map[int64]*Stats, side MatchSide, won bool, pointsFor, pointsAgainst, gamesWon, gamesLost int, rule PointsRule) {
	for _, memberID := range side.MemberIDs {
		entry, ok := stats[memberID]
		if !ok {
			continue
		}
		entry.Played++
		if won {
			entry.Wins++
			entry.Points += rule.Win
		} else {
			entry.Losses++
			entry.Points += rule.Loss
		}
		entry.PointsFor += pointsFor
		entry.PointsAgainst += pointsAgainst
		entry.GamesWon += gamesWon
		entry.GamesLost += gamesLost
		entry.pushResult(won)
	}
}

// StandingsFor accumulates and ranks members in one pass.
func StandingsFor(members []Member, matches []Match, league League) []StandingEntry {
	stats := AccumulateStats(members, matches, league.Points)
	entries := make([]StandingEntry, 0, len(members))
	for _, member := range members {
		entries = append(entries, StandingEntry{
			MemberID: member.ID,
			Name:     member.DisplayName,
			Stats:    stats[member.ID],
		})
	}
	return Rank(entries, league.Tiebreakers, HeadToHeadFromMatches(matches))
}

// HeadToHeadFromMatches compares two members by their results against each
// other in counted matches.
func HeadToHeadFromMatches(matches []Match) HeadToHeadFunc {
	wins := make(map[[2]int64]int)
	for _, match := range matches {
		if !match.Counted() {
			continue
		}
		winner, loser := match.SideA, match.SideB
		if match.Winner == SideB {
			winner, loser = loser, winner
		}
		for _, w := range winner.MemberIDs {
			for _, l := range loser.MemberIDs {
				wins[[2]int64{w, l}]++
			}
		}
	}
	if len(wins) == 0 {
		return nil
	}
	return func(a, b int64) int {
		return wins[[2]int64{a, b}] - wins[[2]int64{b, a}]
	}
}
