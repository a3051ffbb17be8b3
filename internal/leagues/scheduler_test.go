package leagues

import (
	"fmt"
	"testing"
	"time"
)

func testRoster(n int) []Member {
	members := make([]Member, 0, n)
	for i := 1; i <= n; i++ {
		members = append(members, Member{
			ID:          int64(i),
			LeagueID:    1,
			DisplayName: fmt.Sprintf("Player %d", i),
			PlayerIDs:   []int64{int64(100 + i)},
			Rank:        i,
			Status:      MemberActive,
		})
	}
	return members
}

func TestGenerateRoundRobinCoversEveryPair(t *testing.T) {
	for _, tc := range []struct {
		members int
		rounds  int
	}{
		{members: 4, rounds: 1},
		{members: 4, rounds: 2},
		{members: 5, rounds: 1},
		{members: 7, rounds: 3},
	} {
		t.Run(fmt.Sprintf("%d members x%d", tc.members, tc.rounds), func(t *testing.T) {
			schedule := GenerateRoundRobin(testRoster(tc.members), tc.rounds)
			want := tc.rounds * tc.members * (tc.members - 1) / 2
			if len(schedule) != want {
				t.Fatalf("expected %d matches, got %d", want, len(schedule))
			}

			pairCounts := make(map[[2]int64]int)
			busy := make(map[int]map[int64]bool)
			for _, match := range schedule {
				a, b := match.SideA.MemberIDs[0], match.SideB.MemberIDs[0]
				if a == b {
					t.Fatalf("member %d scheduled against themselves", a)
				}
				pairCounts[pairKey(a, b)]++
				if busy[match.Round] == nil {
					busy[match.Round] = make(map[int64]bool)
				}
				for _, id := range []int64{a, b} {
					if busy[match.Round][id] {
						t.Fatalf("member %d plays twice in round %d", id, match.Round)
					}
					busy[match.Round][id] = true
				}
			}
			if len(pairCounts) != tc.members*(tc.members-1)/2 {
				t.Fatalf("expected every pair to appear, got %d pairs", len(pairCounts))
			}
			for pair, count := range pairCounts {
				if count != tc.rounds {
					t.Fatalf("pair %v played %d times, expected %d", pair, count, tc.rounds)
				}
			}
		})
	}
}

func TestGenerateRoundRobinAlternatesSidesPerCycle(t *testing.T) {
	schedule := GenerateRoundRobin(testRoster(4), 2)
	first := make(map[[2]int64]int64)
	for _, match := range schedule {
		a, b := match.SideA.MemberIDs[0], match.SideB.MemberIDs[0]
		key := pairKey(a, b)
		if home, ok := first[key]; ok {
			if home == a {
				t.Fatalf("pair %v kept the same side A in both cycles", key)
			}
			continue
		}
		first[key] = a
	}
}

func TestGenerateScheduleRejectsBoxAndLadder(t *testing.T) {
	roster := testRoster(6)
	for _, format := range []Format{FormatRotatingBox, FormatFixedBox, FormatLadder} {
		_, err := GenerateSchedule(League{ID: 1, Format: format}, roster, ScheduleOptions{})
		if !IsValidation(err) {
			t.Fatalf("expected validation error for %s, got %v", format, err)
		}
	}
}

func TestGenerateScheduleFiltersInactiveAndDivision(t *testing.T) {
	roster := testRoster(5)
	roster[4].Status = MemberWithdrawn
	roster[0].Division = "open"
	roster[1].Division = "open"
	roster[2].Division = "open"

	start := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	schedule, err := GenerateSchedule(
		League{ID: 9, Format: FormatRoundRobin},
		roster,
		ScheduleOptions{Division: "open", StartDate: start, RoundInterval: 7 * 24 * time.Hour},
	)
	if err != nil {
		t.Fatalf("generate schedule: %v", err)
	}
	if len(schedule) != 3 {
		t.Fatalf("expected 3 matches for a 3 member division, got %d", len(schedule))
	}
	for _, match := range schedule {
		if match.LeagueID != 9 || match.Division != "open" {
			t.Fatalf("unexpected league/division on %+v", match)
		}
		if match.ScheduledAt == nil {
			t.Fatalf("expected a scheduled time")
		}
		want := start.Add(time.Duration(match.Round-1) * 7 * 24 * time.Hour)
		if !match.ScheduledAt.Equal(want) {
			t.Fatalf("round %d scheduled at %v, expected %v", match.Round, match.ScheduledAt, want)
		}
	}
}

func TestGenerateScheduleNeedsTwoMembers(t *testing.T) {
	_, err := GenerateSchedule(League{ID: 1, Format: FormatRoundRobin}, testRoster(1), ScheduleOptions{})
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
