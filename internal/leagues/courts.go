package leagues

import (
	"cmp"
	"slices"
)

type CourtMode string

const (
	CourtModeBalanced CourtMode = "balanced"
	CourtModeRotate   CourtMode = "rotate"
)

func ParseCourtMode(raw string) (CourtMode, error) {
	switch CourtMode(raw) {
	case "", CourtModeBalanced:
		return CourtModeBalanced, nil
	case CourtModeRotate:
		return CourtModeRotate, nil
	default:
		return "", Invalid("mode", "unknown court assignment mode %q", raw)
	}
}

type Court struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// CourtRequest is a match waiting for a court. Matches sharing a week and
// round are played at the same time and cannot share a court.
type CourtRequest struct {
	MatchID int64
	Week    int
	Round   int
}

type CourtAssignment struct {
	MatchID int64 `json:"matchId"`
	CourtID int64 `json:"courtId"`
}

type CourtFailure struct {
	MatchID int64  `json:"matchId"`
	Reason  string `json:"reason"`
}

// AssignCourts greedily packs matches onto active courts in ascending round
// order. A match that finds no free court fails on its own; the rest of the
// batch is still assigned.
func AssignCourts(requests []CourtRequest, courts []Court, mode CourtMode) ([]CourtAssignment, []CourtFailure) {
	active := make([]Court, 0, len(courts))
	for _, court := range courts {
		if court.Active {
			active = append(active, court)
		}
	}

	ordered := slices.Clone(requests)
	slices.SortFunc(ordered, func(a, b CourtRequest) int {
		if c := cmp.Compare(a.Week, b.Week); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Round, b.Round); c != 0 {
			return c
		}
		return cmp.Compare(a.MatchID, b.MatchID)
	})

	assignments := make([]CourtAssignment, 0, len(ordered))
	failures := make([]CourtFailure, 0)
	usage := make(map[int64]int, len(active))
	taken := make(map[[2]int]map[int64]struct{})
	cursor := 0

	for _, req := range ordered {
		if len(active) == 0 {
			failures = append(failures, CourtFailure{MatchID: req.MatchID, Reason: "no active courts"})
			continue
		}
		slot := [2]int{req.Week, req.Round}
		used := taken[slot]
		if used == nil {
			used = make(map[int64]struct{})
			taken[slot] = used
		}

		chosen := -1
		switch mode {
		case CourtModeRotate:
			for step := 0; step < len(active); step++ {
				idx := (cursor + step) % len(active)
				if _, busy := used[active[idx].ID]; !busy {
					chosen = idx
					cursor = idx + 1
					break
				}
			}
		default:
			for idx, court := range active {
				if _, busy := used[court.ID]; busy {
					continue
				}
				if chosen == -1 || usage[court.ID] < usage[active[chosen].ID] {
					chosen = idx
				}
			}
		}

		if chosen == -1 {
			failures = append(failures, CourtFailure{MatchID: req.MatchID, Reason: "all active courts are in use for this round"})
			continue
		}
		court := active[chosen]
		used[court.ID] = struct{}{}
		usage[court.ID]++
		assignments = append(assignments, CourtAssignment{MatchID: req.MatchID, CourtID: court.ID})
	}
	return assignments, failures
}
