package leagues

import (
	"cmp"
	"math"
	"slices"
	"time"
)

type ScheduledMatch struct {
	LeagueID    int64
	Division    string
	Round       int
	Week        int
	Box         int
	SideA       MatchSide
	SideB       MatchSide
	ScheduledAt *time.Time
}

type ScheduleOptions struct {
	Division string
	// Rounds is the number of full round robin cycles. Defaults to 1.
	Rounds int
	// Round is the Swiss round to generate.
	Round int
	// History is every existing match for the league/division; Swiss uses it
	// to avoid rematches and byes.
	History []Match
	// StartDate and RoundInterval optionally stamp a time on each round.
	StartDate     time.Time
	RoundInterval time.Duration
}

// GenerateSchedule produces the matches for a league given its format and
// roster. Box leagues are generated one week at a time by GenerateBoxWeek and
// ladders are challenge driven, so both are rejected here.
func GenerateSchedule(league League, roster []Member, opts ScheduleOptions) ([]ScheduledMatch, error) {
	if league.ID <= 0 {
		return nil, Invalid("league", "league ID is required")
	}

	active := activeMembers(roster, opts.Division)
	if len(active) < 2 {
		return nil, Invalid("roster", "at least two active members are required")
	}

	var (
		schedule []ScheduledMatch
		err      error
	)
	switch league.Format {
	case FormatRoundRobin:
		rounds := opts.Rounds
		if rounds <= 0 {
			rounds = 1
		}
		schedule = GenerateRoundRobin(active, rounds)
	case FormatSwiss:
		schedule, err = GenerateSwissRound(active, opts.History, opts.Round)
	case FormatRotatingBox, FormatFixedBox:
		return nil, Invalid("format", "box leagues are scheduled week by week through box week activation")
	case FormatLadder:
		return nil, Invalid("format", "ladder leagues are scheduled through challenges")
	default:
		return nil, Invalid("format", "unsupported league format %q", league.Format)
	}
	if err != nil {
		return nil, err
	}

	for idx := range schedule {
		schedule[idx].LeagueID = league.ID
		schedule[idx].Division = opts.Division
	}
	stampRoundTimes(schedule, opts.StartDate, opts.RoundInterval)
	return schedule, nil
}

// GenerateRoundRobin pairs every member with every other member exactly
// rounds times. Members are ordered by ID first so the same roster always
// yields the same fixture list.
func GenerateRoundRobin(members []Member, rounds int) []ScheduledMatch {
	ordered := slices.Clone(members)
	slices.SortFunc(ordered, func(a, b Member) int { return cmp.Compare(a.ID, b.ID) })

	pairs := buildRoundRobinPairs(ordered)
	perCycle := 0
	for _, pair := range pairs {
		perCycle = max(perCycle, pair.Round)
	}

	schedule := make([]ScheduledMatch, 0, len(pairs)*rounds)
	for cycle := 0; cycle < rounds; cycle++ {
		for _, pair := range pairs {
			home, away := pair.Home, pair.Away
			if cycle%2 == 1 {
				home, away = away, home
			}
			schedule = append(schedule, ScheduledMatch{
				Round: cycle*perCycle + pair.Round,
				SideA: home.side(),
				SideB: away.side(),
			})
		}
	}
	return schedule
}

type roundPair struct {
	Round int
	Home  Member
	Away  Member
}

func buildRoundRobinPairs(members []Member) []roundPair {
	working := make([]*Member, 0, len(members)+1)
	for i := range members {
		working = append(working, &members[i])
	}
	if len(working)%2 == 1 {
		working = append(working, nil)
	}

	rounds := len(working) - 1
	pairs := make([]roundPair, 0, rounds*len(working)/2)

	for round := 0; round < rounds; round++ {
		for i := 0; i < len(working)/2; i++ {
			left := working[i]
			right := working[len(working)-1-i]
			if left == nil || right == nil {
				continue
			}
			home := *left
			away := *right
			if i == 0 && round%2 == 1 {
				home, away = away, home
			}
			pairs = append(pairs, roundPair{
				Round: round + 1,
				Home:  home,
				Away:  away,
			})
		}
		rotateMembers(working)
	}

	return pairs
}

func rotateMembers(members []*Member) {
	if len(members) <= 2 {
		return
	}
	last := members[len(members)-1]
	copy(members[2:], members[1:len(members)-1])
	members[1] = last
}

func stampRoundTimes(schedule []ScheduledMatch, start time.Time, interval time.Duration) {
	if start.IsZero() {
		return
	}
	for idx := range schedule {
		round := schedule[idx].Round
		if round < 1 {
			round = 1
		}
		at := start.Add(time.Duration(round-1) * interval)
		schedule[idx].ScheduledAt = &at
	}
}

func activeMembers(roster []Member, division string) []Member {
	active := make([]Member, 0, len(roster))
	for _, member := range roster {
		if !member.Active() {
			continue
		}
		if division != "" && member.Division != division {
			continue
		}
		active = append(active, member)
	}
	return active
}

// byRank orders members by rank (unranked last), then rating, then ID.
func byRank(a, b Member) int {
	ar, br := a.Rank, b.Rank
	if ar <= 0 {
		ar = math.MaxInt
	}
	if br <= 0 {
		br = math.MaxInt
	}
	if ar != br {
		return cmp.Compare(ar, br)
	}
	switch {
	case a.Rating != nil && b.Rating != nil && *a.Rating != *b.Rating:
		if *a.Rating > *b.Rating {
			return -1
		}
		return 1
	case a.Rating != nil && b.Rating == nil:
		return -1
	case a.Rating == nil && b.Rating != nil:
		return 1
	}
	return cmp.Compare(a.ID, b.ID)
}
