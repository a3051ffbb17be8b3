package leagues

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Box is one pool of a box league week. Box 1 is the top box.
type Box struct {
	Number    int     `json:"box"`
	MemberIDs []int64 `json:"memberIds"`
}

type MovementReason string

const (
	MovementPromoted  MovementReason = "promoted"
	MovementRelegated MovementReason = "relegated"
	MovementStayed    MovementReason = "stayed"
)

type Movement struct {
	MemberID int64          `json:"memberId"`
	FromBox  int            `json:"fromBox"`
	ToBox    int            `json:"toBox"`
	Position int            `json:"position"`
	Reason   MovementReason `json:"reason"`
}

type BoxStanding struct {
	Box  int             `json:"box"`
	Rows []StandingEntry `json:"rows"`
}

func (r BoxRules) Validate() error {
	if r.BoxSize < MinBoxSize || r.BoxSize > MaxBoxSize {
		return Invalid("boxSize", "must be between %d and %d", MinBoxSize, MaxBoxSize)
	}
	if r.PromoteCount < 0 || r.RelegateCount < 0 {
		return Invalid("movement", "promotion and relegation counts cannot be negative")
	}
	if r.PromoteCount+r.RelegateCount > r.BoxSize {
		return Invalid("movement", "promotion and relegation exceed the box size")
	}
	if r.SeasonWeeks < 0 {
		return Invalid("seasonWeeks", "cannot be negative")
	}
	return nil
}

// BoxSizes splits total members into box sizes of roughly size. A single
// leftover box is preferred over spreading the remainder: the remainder joins
// the last box when that stays within MaxBoxSize, otherwise it forms its own
// box when it is at least MinBoxSize. Failing both, boxes are balanced to
// differ by at most one member.
func BoxSizes(total, size int) ([]int, error) {
	if size < MinBoxSize || size > MaxBoxSize {
		return nil, Invalid("boxSize", "must be between %d and %d", MinBoxSize, MaxBoxSize)
	}
	if total < MinBoxSize {
		return nil, Invalid("roster", "at least %d active members are required", MinBoxSize)
	}
	if total <= MaxBoxSize && total < size*2 {
		return []int{total}, nil
	}

	full := total / size
	remainder := total % size
	sizes := make([]int, full)
	for i := range sizes {
		sizes[i] = size
	}
	switch {
	case remainder == 0:
		return sizes, nil
	case size+remainder <= MaxBoxSize:
		sizes[len(sizes)-1] += remainder
		return sizes, nil
	case remainder >= MinBoxSize:
		return append(sizes, remainder), nil
	}

	count := (total + size - 1) / size
	for count > 1 && total/count < MinBoxSize {
		count--
	}
	balanced := make([]int, count)
	for i := range balanced {
		balanced[i] = total / count
		if i < total%count {
			balanced[i]++
		}
	}
	if balanced[0] > MaxBoxSize {
		return nil, Invalid("boxSize", "cannot split %d members into boxes of %d", total, size)
	}
	return balanced, nil
}

// PartitionBoxes fills boxes top-down with active members in rank order.
func PartitionBoxes(members []Member, size int) ([]Box, error) {
	active := activeMembers(members, "")
	slices.SortFunc(active, byRank)

	sizes, err := BoxSizes(len(active), size)
	if err != nil {
		return nil, err
	}

	boxes := make([]Box, 0, len(sizes))
	offset := 0
	for idx, n := range sizes {
		ids := make([]int64, 0, n)
		for _, member := range active[offset : offset+n] {
			ids = append(ids, member.ID)
		}
		boxes = append(boxes, Box{Number: idx + 1, MemberIDs: ids})
		offset += n
	}
	return boxes, nil
}

// RebalanceBoxes returns boxes unchanged while every box holds at least
// MinBoxSize members. Otherwise the members are poured back top box first,
// keeping their order, into the sizes BoxSizes picks for the new total.
func RebalanceBoxes(boxes []Box, size int) ([]Box, error) {
	var ordered []int64
	undersized := false
	for _, box := range boxes {
		ordered = append(ordered, box.MemberIDs...)
		if len(box.MemberIDs) < MinBoxSize {
			undersized = true
		}
	}
	if !undersized && len(boxes) > 0 {
		return boxes, nil
	}

	sizes, err := BoxSizes(len(ordered), size)
	if err != nil {
		return nil, err
	}
	result := make([]Box, 0, len(sizes))
	offset := 0
	for idx, n := range sizes {
		result = append(result, Box{Number: idx + 1, MemberIDs: slices.Clone(ordered[offset : offset+n])})
		offset += n
	}
	return result, nil
}

// ValidateAssignments checks box numbering and that nobody is in two boxes.
func ValidateAssignments(boxes []Box) error {
	if len(boxes) == 0 {
		return Invalid("assignments", "at least one box is required")
	}
	seen := make(map[int64]int)
	for idx, box := range boxes {
		if box.Number != idx+1 {
			return Invalid("assignments", "boxes must be numbered 1 to %d in order", len(boxes))
		}
		if len(box.MemberIDs) < MinBoxSize-1 || len(box.MemberIDs) > MaxBoxSize {
			return Invalid("assignments", "box %d has %d members", box.Number, len(box.MemberIDs))
		}
		for _, id := range box.MemberIDs {
			if other, dup := seen[id]; dup {
				return Invalid("assignments", "member %d is assigned to boxes %d and %d", id, other, box.Number)
			}
			seen[id] = box.Number
		}
	}
	return nil
}

// rotatingTemplates list partner rotations by position within the box:
// each entry is {a1, a2, b1, b2}. Every player partners every other player
// at most once.
var rotatingTemplates = map[int][][4]int{
	4: {
		{0, 1, 2, 3},
		{0, 2, 1, 3},
		{0, 3, 1, 2},
	},
	5: {
		{1, 4, 2, 3},
		{2, 0, 3, 4},
		{3, 1, 4, 0},
		{4, 2, 0, 1},
		{0, 3, 1, 2},
	},
	6: {
		{0, 2, 1, 4},
		{0, 3, 1, 5},
		{0, 4, 2, 5},
		{0, 5, 3, 4},
		{1, 2, 3, 5},
		{1, 3, 2, 4},
	},
}

// GenerateBoxWeek materializes one week of box play. Rotating boxes of four
// to six play doubles with rotating partners; every other box plays a single
// round robin between its entries.
func GenerateBoxWeek(league League, week int, boxes []Box, members []Member) ([]ScheduledMatch, error) {
	if !league.Format.IsBox() {
		return nil, Invalid("format", "league %d is not a box league", league.ID)
	}
	if err := ValidateAssignments(boxes); err != nil {
		return nil, err
	}
	byID := make(map[int64]Member, len(members))
	for _, member := range members {
		byID[member.ID] = member
	}

	var schedule []ScheduledMatch
	for _, box := range boxes {
		entries := make([]Member, 0, len(box.MemberIDs))
		for _, id := range box.MemberIDs {
			member, ok := byID[id]
			if !ok {
				return nil, Invalid("assignments", "member %d in box %d is not on the roster", id, box.Number)
			}
			entries = append(entries, member)
		}

		var matches []ScheduledMatch
		template, rotating := rotatingTemplates[len(entries)]
		if league.Format == FormatRotatingBox && rotating {
			matches = rotateDoubles(entries, template)
		} else {
			matches = boxRoundRobin(entries)
		}
		for idx := range matches {
			matches[idx].LeagueID = league.ID
			matches[idx].Week = week
			matches[idx].Box = box.Number
		}
		schedule = append(schedule, matches...)
	}
	return schedule, nil
}

func rotateDoubles(entries []Member, template [][4]int) []ScheduledMatch {
	matches := make([]ScheduledMatch, 0, len(template))
	for idx, slot := range template {
		matches = append(matches, ScheduledMatch{
			Round: idx + 1,
			SideA: doublesSide(entries[slot[0]], entries[slot[1]]),
			SideB: doublesSide(entries[slot[2]], entries[slot[3]]),
		})
	}
	return matches
}

func doublesSide(a, b Member) MatchSide {
	players := make([]int64, 0, len(a.PlayerIDs)+len(b.PlayerIDs))
	players = append(players, a.PlayerIDs...)
	players = append(players, b.PlayerIDs...)
	return MatchSide{
		MemberIDs: []int64{a.ID, b.ID},
		PlayerIDs: players,
		Name:      strings.Join([]string{a.DisplayName, b.DisplayName}, " / "),
	}
}

// boxRoundRobin keeps the box's seeded order rather than sorting by ID so
// the top seed plays from side A.
func boxRoundRobin(entries []Member) []ScheduledMatch {
	pairs := buildRoundRobinPairs(entries)
	matches := make([]ScheduledMatch, 0, len(pairs))
	for _, pair := range pairs {
		matches = append(matches, ScheduledMatch{
			Round: pair.Round,
			SideA: pair.Home.side(),
			SideB: pair.Away.side(),
		})
	}
	return matches
}

// BoxMatchCount is the number of matches a box of n entries plays.
func BoxMatchCount(format Format, n int) int {
	if template, ok := rotatingTemplates[n]; ok && format == FormatRotatingBox {
		return len(template)
	}
	return n * (n - 1) / 2
}

// BoxWeekStandings ranks each box over that week's matches only.
func BoxWeekStandings(league League, boxes []Box, members []Member, matches []Match) []BoxStanding {
	byID := make(map[int64]Member, len(members))
	for _, member := range members {
		byID[member.ID] = member
	}

	result := make([]BoxStanding, 0, len(boxes))
	for _, box := range boxes {
		entries := make([]Member, 0, len(box.MemberIDs))
		for _, id := range box.MemberIDs {
			member, ok := byID[id]
			if !ok {
				member = Member{ID: id, DisplayName: fmt.Sprintf("Member %d", id)}
			}
			entries = append(entries, member)
		}
		boxMatches := make([]Match, 0)
		for _, match := range matches {
			if match.Box == box.Number {
				boxMatches = append(boxMatches, match)
			}
		}
		result = append(result, BoxStanding{
			Box:  box.Number,
			Rows: StandingsFor(entries, boxMatches, league),
		})
	}
	return result
}

// ComputeMovements applies promotion and relegation to a finished week and
// returns the movements and the next week's boxes. The top box never
// promotes and the bottom box never relegates.
func ComputeMovements(standings []BoxStanding, rules BoxRules) ([]Movement, []Box) {
	type placement struct {
		memberID  int64
		targetBox int
		sourceBox int
		position  int
	}

	last := len(standings)
	placements := make([]placement, 0)
	movements := make([]Movement, 0)
	for _, box := range standings {
		size := len(box.Rows)
		promote := min(rules.PromoteCount, size)
		relegate := min(rules.RelegateCount, size-promote)
		for idx, row := range box.Rows {
			position := idx + 1
			target := box.Box
			reason := MovementStayed
			switch {
			case box.Box > 1 && position <= promote:
				target = box.Box - 1
				reason = MovementPromoted
			case box.Box < last && position > size-relegate:
				target = box.Box + 1
				reason = MovementRelegated
			}
			placements = append(placements, placement{
				memberID:  row.MemberID,
				targetBox: target,
				sourceBox: box.Box,
				position:  position,
			})
			movements = append(movements, Movement{
				MemberID: row.MemberID,
				FromBox:  box.Box,
				ToBox:    target,
				Position: position,
				Reason:   reason,
			})
		}
	}

	slices.SortStableFunc(placements, func(a, b placement) int {
		if c := cmp.Compare(a.targetBox, b.targetBox); c != 0 {
			return c
		}
		if c := cmp.Compare(a.sourceBox, b.sourceBox); c != 0 {
			return c
		}
		return cmp.Compare(a.position, b.position)
	})

	next := make([]Box, 0, last)
	for _, p := range placements {
		if len(next) == 0 || next[len(next)-1].Number != p.targetBox {
			next = append(next, Box{Number: p.targetBox})
		}
		next[len(next)-1].MemberIDs = append(next[len(next)-1].MemberIDs, p.memberID)
	}
	for idx := range next {
		next[idx].Number = idx + 1
	}
	return movements, next
}
