package boxleague

import (
	"context"
	"slices"
	"testing"

	"github.com/codr1/courtleague/internal/db"
	dbgen "github.com/codr1/courtleague/internal/db/generated"
	"github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/models"
	"github.com/codr1/courtleague/internal/testutil"
)

type fixture struct {
	db        *db.DB
	manager   *Manager
	league    leagues.League
	members   []leagues.Member
	organizer leagues.Actor
}

func newFixture(t *testing.T, members int, rules leagues.BoxRules) *fixture {
	t.Helper()

	database := testutil.NewTestDB(t)
	league := testutil.CreateLeague(t, database, leagues.League{
		Format: leagues.FormatFixedBox,
		Box:    rules,
	})
	organizerID := testutil.AddOrganizer(t, database, league.ID, "organizer")
	manager, err := NewManager(database)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return &fixture{
		db:        database,
		manager:   manager,
		league:    league,
		members:   testutil.CreateMembers(t, database, league.ID, members),
		organizer: leagues.Actor{PlayerID: organizerID, DisplayName: "organizer", Role: leagues.RoleOrganizer},
	}
}

func (f *fixture) weekMatches(t *testing.T, number int) []leagues.Match {
	t.Helper()
	matches, err := models.ListWeekMatches(context.Background(), f.db.Queries, f.league.ID, number)
	if err != nil {
		t.Fatalf("list week matches: %v", err)
	}
	return matches
}

// play records an official result for each given match; the member with the
// higher strength wins 11-5.
func (f *fixture) play(t *testing.T, matches []leagues.Match, strength map[int64]int) {
	t.Helper()
	for _, match := range matches {
		game := leagues.Game{A: 11, B: 5}
		if strength[match.SideB.MemberIDs[0]] > strength[match.SideA.MemberIDs[0]] {
			game = leagues.Game{A: 5, B: 11}
		}
		testutil.MakeOfficial(t, f.db, match, game)
	}
}

func boxMembers(week leagues.BoxWeek) [][]int64 {
	result := make([][]int64, 0, len(week.Boxes))
	for _, box := range week.Boxes {
		result = append(result, box.MemberIDs)
	}
	return result
}

func TestSeedFirstWeek(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 13, leagues.BoxRules{BoxSize: 4, PromoteCount: 1, RelegateCount: 1})

	week, err := f.manager.SeedFirstWeek(ctx, f.league.ID, f.organizer)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if week.Number != 1 || week.State != leagues.WeekDraft {
		t.Fatalf("unexpected week %d in state %s", week.Number, week.State)
	}
	var sizes []int
	for _, box := range week.Boxes {
		sizes = append(sizes, len(box.MemberIDs))
	}
	if !slices.Equal(sizes, []int{4, 4, 5}) {
		t.Fatalf("expected box sizes [4 4 5], got %v", sizes)
	}
	if week.Boxes[0].MemberIDs[0] != f.members[0].ID {
		t.Fatalf("expected the top ranked member to lead box 1")
	}

	if _, err := f.manager.SeedFirstWeek(ctx, f.league.ID, f.organizer); !leagues.IsConflict(err) {
		t.Fatalf("expected conflict when seeding twice, got %v", err)
	}
}

func TestOperationsRequireOrganizer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 6, leagues.BoxRules{BoxSize: 3})
	player := leagues.Actor{PlayerID: f.members[0].PlayerIDs[0], DisplayName: "player1", Role: leagues.RoleParticipant}

	if _, err := f.manager.SeedFirstWeek(ctx, f.league.ID, player); !leagues.IsValidation(err) {
		t.Fatalf("expected validation error for a participant, got %v", err)
	}
	pretender := player
	pretender.Role = leagues.RoleOrganizer
	if _, err := f.manager.SeedFirstWeek(ctx, f.league.ID, pretender); !leagues.IsValidation(err) {
		t.Fatalf("expected validation error for an unregistered organizer, got %v", err)
	}
}

func TestActivateMaterializesMatches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 8, leagues.BoxRules{BoxSize: 4})

	if _, err := f.manager.SeedFirstWeek(ctx, f.league.ID, f.organizer); err != nil {
		t.Fatalf("seed: %v", err)
	}
	week, err := f.manager.Activate(ctx, f.league.ID, 1, f.organizer)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if week.State != leagues.WeekActive || week.TotalMatches != 12 || len(week.MatchIDs) != 12 {
		t.Fatalf("unexpected active week: state %s, total %d, ids %d", week.State, week.TotalMatches, len(week.MatchIDs))
	}
	if week.ActivatedBy != f.organizer.PlayerID || week.ActivatedAt == nil {
		t.Fatalf("expected activation to be attributed")
	}
	for _, match := range f.weekMatches(t, 1) {
		if match.Week != 1 || match.Box < 1 || match.Box > 2 {
			t.Fatalf("match %d has week %d box %d", match.ID, match.Week, match.Box)
		}
	}

	if _, err := f.manager.Activate(ctx, f.league.ID, 1, f.organizer); !leagues.IsConflict(err) {
		t.Fatalf("expected conflict on second activation, got %v", err)
	}
}

func TestActivateRecoversInterruptedActivation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 8, leagues.BoxRules{BoxSize: 4})

	draft, err := f.manager.SeedFirstWeek(ctx, f.league.ID, f.organizer)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	// Matches written but the week never flipped to active.
	schedule, err := leagues.GenerateBoxWeek(f.league, 1, draft.Boxes, f.members)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, scheduled := range schedule {
		params, err := models.NewMatchParams(scheduled, 1, false)
		if err != nil {
			t.Fatalf("encode match: %v", err)
		}
		if _, err := f.db.Queries.CreateLeagueMatch(ctx, params); err != nil {
			t.Fatalf("create match: %v", err)
		}
	}

	week, err := f.manager.Activate(ctx, f.league.ID, 1, f.organizer)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if got := len(f.weekMatches(t, 1)); got != len(schedule) {
		t.Fatalf("expected %d matches after recovery, got %d", len(schedule), got)
	}
	if week.TotalMatches != len(schedule) {
		t.Fatalf("expected total %d, got %d", len(schedule), week.TotalMatches)
	}
}

func TestWeekLifecycleMovesMembers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 6, leagues.BoxRules{BoxSize: 3, PromoteCount: 1, RelegateCount: 1, SeasonWeeks: 2})
	m := f.members
	strength := map[int64]int{
		m[0].ID: 1, m[1].ID: 2, m[2].ID: 3,
		m[3].ID: 1, m[4].ID: 2, m[5].ID: 3,
	}

	if _, err := f.manager.SeedFirstWeek(ctx, f.league.ID, f.organizer); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := f.manager.Activate(ctx, f.league.ID, 1, f.organizer); err != nil {
		t.Fatalf("activate: %v", err)
	}
	matches := f.weekMatches(t, 1)
	f.play(t, matches[:len(matches)-1], strength)

	closing, err := f.manager.StartClosing(ctx, f.league.ID, 1, f.organizer)
	if err != nil {
		t.Fatalf("start closing: %v", err)
	}
	if closing.Unplayed != 1 || closing.Week.State != leagues.WeekClosing {
		t.Fatalf("unexpected closing report %+v", closing)
	}
	f.play(t, matches[len(matches)-1:], strength)

	report, err := f.manager.Finalize(ctx, f.league.ID, 1, f.organizer)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if report.Week.State != leagues.WeekFinalized || len(report.Week.Standings) != 2 {
		t.Fatalf("expected frozen standings for two boxes, got %+v", report.Week)
	}
	reasons := make(map[int64]leagues.MovementReason)
	for _, movement := range report.Movements {
		reasons[movement.MemberID] = movement.Reason
	}
	if reasons[m[0].ID] != leagues.MovementRelegated || reasons[m[5].ID] != leagues.MovementPromoted {
		t.Fatalf("unexpected movements %+v", report.Movements)
	}
	if report.NextDraft == nil || report.NextDraft.Number != 2 {
		t.Fatalf("expected week 2 draft, got %+v", report.NextDraft)
	}
	want := [][]int64{{m[2].ID, m[1].ID, m[5].ID}, {m[0].ID, m[4].ID, m[3].ID}}
	got := boxMembers(*report.NextDraft)
	if len(got) != 2 || !slices.Equal(got[0], want[0]) || !slices.Equal(got[1], want[1]) {
		t.Fatalf("expected next boxes %v, got %v", want, got)
	}

	if _, err := f.manager.Finalize(ctx, f.league.ID, 1, f.organizer); !leagues.IsConflict(err) {
		t.Fatalf("expected conflict on second finalize, got %v", err)
	}

	// Final week of the season drafts nothing further.
	if _, err := f.manager.Activate(ctx, f.league.ID, 2, f.organizer); err != nil {
		t.Fatalf("activate week 2: %v", err)
	}
	f.play(t, f.weekMatches(t, 2), strength)
	if _, err := f.manager.StartClosing(ctx, f.league.ID, 2, f.organizer); err != nil {
		t.Fatalf("start closing week 2: %v", err)
	}
	last, err := f.manager.Finalize(ctx, f.league.ID, 2, f.organizer)
	if err != nil {
		t.Fatalf("finalize week 2: %v", err)
	}
	if last.NextDraft != nil {
		t.Fatalf("expected no draft after the last season week")
	}

	weeks, err := f.manager.ListWeeks(ctx, f.league.ID)
	if err != nil {
		t.Fatalf("list weeks: %v", err)
	}
	if len(weeks) != 2 || weeks[0].Number != 1 || weeks[1].Number != 2 {
		t.Fatalf("unexpected weeks %+v", weeks)
	}
}

func TestCreateAndRecalculateDraft(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 6, leagues.BoxRules{BoxSize: 3, PromoteCount: 1, RelegateCount: 1, SeasonWeeks: 1})
	m := f.members

	if _, err := f.manager.SeedFirstWeek(ctx, f.league.ID, f.organizer); err != nil {
		t.Fatalf("seed: %v", err)
	}
	boxes := []leagues.Box{{Number: 1, MemberIDs: []int64{m[0].ID, m[1].ID, m[2].ID}}, {Number: 2, MemberIDs: []int64{m[3].ID, m[4].ID, m[5].ID}}}
	replaced, err := f.manager.CreateDraft(ctx, f.league.ID, f.organizer, boxes)
	if err != nil {
		t.Fatalf("replace week 1 draft: %v", err)
	}
	if replaced.Number != 1 || replaced.State != leagues.WeekDraft || !slices.Equal(boxMembers(replaced)[1], boxes[1].MemberIDs) {
		t.Fatalf("expected week 1 draft to take the new boxes, got %+v", replaced)
	}

	if _, err := f.manager.Activate(ctx, f.league.ID, 1, f.organizer); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if _, err := f.manager.CreateDraft(ctx, f.league.ID, f.organizer, boxes); !leagues.IsConflict(err) {
		t.Fatalf("expected conflict while week 1 is active, got %v", err)
	}
	f.play(t, f.weekMatches(t, 1), map[int64]int{m[0].ID: 1, m[1].ID: 2, m[2].ID: 3, m[3].ID: 1, m[4].ID: 2, m[5].ID: 3})
	if _, err := f.manager.StartClosing(ctx, f.league.ID, 1, f.organizer); err != nil {
		t.Fatalf("start closing: %v", err)
	}
	report, err := f.manager.Finalize(ctx, f.league.ID, 1, f.organizer)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if report.NextDraft != nil {
		t.Fatalf("single week season should not draft week 2")
	}

	invalid := []leagues.Box{{Number: 1, MemberIDs: []int64{m[0].ID, 9999}}}
	if _, err := f.manager.CreateDraft(ctx, f.league.ID, f.organizer, invalid); !leagues.IsValidation(err) {
		t.Fatalf("expected validation error for unknown member, got %v", err)
	}

	draft, err := f.manager.CreateDraft(ctx, f.league.ID, f.organizer, boxes)
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if draft.Number != 2 || draft.State != leagues.WeekDraft {
		t.Fatalf("unexpected draft %+v", draft)
	}

	recalculated, err := f.manager.RecalculateDraft(ctx, f.league.ID, 2, f.organizer)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	want := [][]int64{{m[2].ID, m[1].ID, m[5].ID}, {m[0].ID, m[4].ID, m[3].ID}}
	got := boxMembers(recalculated.Week)
	if len(got) != 2 || !slices.Equal(got[0], want[0]) || !slices.Equal(got[1], want[1]) {
		t.Fatalf("expected recalculated boxes %v, got %v", want, got)
	}
	if len(recalculated.Movements) != 6 {
		t.Fatalf("expected a movement per member, got %d", len(recalculated.Movements))
	}

	if _, err := f.manager.RecalculateDraft(ctx, f.league.ID, 1, f.organizer); !leagues.IsConflict(err) {
		t.Fatalf("expected conflict recalculating a finalized week, got %v", err)
	}
}

func TestDeactivate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 6, leagues.BoxRules{BoxSize: 3})

	if _, err := f.manager.SeedFirstWeek(ctx, f.league.ID, f.organizer); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := f.manager.Activate(ctx, f.league.ID, 1, f.organizer); err != nil {
		t.Fatalf("activate: %v", err)
	}
	week, err := f.manager.Deactivate(ctx, f.league.ID, 1, f.organizer)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if week.State != leagues.WeekDraft || week.TotalMatches != 0 || len(week.MatchIDs) != 0 {
		t.Fatalf("expected a clean draft, got %+v", week)
	}
	if got := len(f.weekMatches(t, 1)); got != 0 {
		t.Fatalf("expected matches to be deleted, %d remain", got)
	}

	if _, err := f.manager.Activate(ctx, f.league.ID, 1, f.organizer); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	matches := f.weekMatches(t, 1)
	testutil.MakeOfficial(t, f.db, matches[0], leagues.Game{A: 11, B: 4})
	if _, err := f.manager.Deactivate(ctx, f.league.ID, 1, f.organizer); !leagues.IsConflict(err) {
		t.Fatalf("expected conflict once a result is official, got %v", err)
	}
	if got := len(f.weekMatches(t, 1)); got != len(matches) {
		t.Fatalf("expected matches to survive a refused rollback, got %d", got)
	}
}

func TestGetWeekRepairsLinkage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 6, leagues.BoxRules{BoxSize: 3})

	if _, err := f.manager.SeedFirstWeek(ctx, f.league.ID, f.organizer); err != nil {
		t.Fatalf("seed: %v", err)
	}
	active, err := f.manager.Activate(ctx, f.league.ID, 1, f.organizer)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	active.MatchIDs = nil
	if _, err := writeWeek(ctx, f.db.Queries, active); err != nil {
		t.Fatalf("clear linkage: %v", err)
	}

	view, err := f.manager.GetWeek(ctx, f.league.ID, 1)
	if err != nil {
		t.Fatalf("get week: %v", err)
	}
	if view.Warning != nil {
		t.Fatalf("unexpected warning %v", view.Warning)
	}
	if len(view.Week.MatchIDs) != 6 || len(view.Matches) != 6 {
		t.Fatalf("expected 6 relinked matches, got %d ids and %d matches", len(view.Week.MatchIDs), len(view.Matches))
	}

	stored, err := models.GetBoxWeek(ctx, f.db.Queries, f.league.ID, 1)
	if err != nil {
		t.Fatalf("reload week: %v", err)
	}
	if len(stored.MatchIDs) != 6 {
		t.Fatalf("expected repair to be persisted, got %d ids", len(stored.MatchIDs))
	}
}

func TestGetWeekWarnsWhenNothingToRecover(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 6, leagues.BoxRules{BoxSize: 3})

	draft, err := f.manager.SeedFirstWeek(ctx, f.league.ID, f.organizer)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	draft.State = leagues.WeekActive
	if _, err := writeWeek(ctx, f.db.Queries, draft); err != nil {
		t.Fatalf("force active: %v", err)
	}

	view, err := f.manager.GetWeek(ctx, f.league.ID, 1)
	if err != nil {
		t.Fatalf("get week: %v", err)
	}
	if view.Warning == nil || view.Warning.WeekNumber != 1 {
		t.Fatalf("expected a recovery warning, got %+v", view.Warning)
	}
}

func TestFinalizeRebalancesAfterWithdrawals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 6, leagues.BoxRules{BoxSize: 3, PromoteCount: 1, RelegateCount: 1})
	m := f.members
	strength := map[int64]int{
		m[0].ID: 1, m[1].ID: 2, m[2].ID: 3,
		m[3].ID: 1, m[4].ID: 2, m[5].ID: 3,
	}

	if _, err := f.manager.SeedFirstWeek(ctx, f.league.ID, f.organizer); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := f.manager.Activate(ctx, f.league.ID, 1, f.organizer); err != nil {
		t.Fatalf("activate: %v", err)
	}
	f.play(t, f.weekMatches(t, 1), strength)
	if _, err := f.manager.StartClosing(ctx, f.league.ID, 1, f.organizer); err != nil {
		t.Fatalf("start closing: %v", err)
	}
	for _, member := range []leagues.Member{m[3], m[4]} {
		if _, err := f.db.Queries.UpdateLeagueMemberStatus(ctx, dbgen.UpdateLeagueMemberStatusParams{
			Status: string(leagues.MemberWithdrawn),
			ID:     member.ID,
		}); err != nil {
			t.Fatalf("withdraw member %d: %v", member.ID, err)
		}
	}

	report, err := f.manager.Finalize(ctx, f.league.ID, 1, f.organizer)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if report.NextDraft == nil {
		t.Fatalf("expected a week 2 draft")
	}
	want := [][]int64{{m[2].ID, m[1].ID, m[5].ID, m[0].ID}}
	got := boxMembers(*report.NextDraft)
	if len(got) != 1 || !slices.Equal(got[0], want[0]) {
		t.Fatalf("expected rebalanced boxes %v, got %v", want, got)
	}

	recalculated, err := f.manager.RecalculateDraft(ctx, f.league.ID, 2, f.organizer)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if got := boxMembers(recalculated.Week); len(got) != 1 || !slices.Equal(got[0], want[0]) {
		t.Fatalf("expected recalculation to keep rebalanced boxes, got %v", got)
	}

	week, err := f.manager.Activate(ctx, f.league.ID, 2, f.organizer)
	if err != nil {
		t.Fatalf("activate rebalanced week: %v", err)
	}
	if week.TotalMatches != 6 {
		t.Fatalf("expected a round robin of 6 matches, got %d", week.TotalMatches)
	}
}

func TestActiveBoxes(t *testing.T) {
	members := []leagues.Member{
		{ID: 1, Status: leagues.MemberActive},
		{ID: 2, Status: leagues.MemberWithdrawn},
		{ID: 3, Status: leagues.MemberActive},
		{ID: 4, Status: leagues.MemberActive},
		{ID: 5, Status: leagues.MemberActive},
		{ID: 6, Status: leagues.MemberWithdrawn},
		{ID: 7, Status: leagues.MemberActive},
		{ID: 8, Status: leagues.MemberActive},
		{ID: 9, Status: leagues.MemberActive},
		{ID: 10, Status: leagues.MemberWithdrawn},
	}

	tests := []struct {
		name  string
		boxes []leagues.Box
		want  [][]int64
	}{
		{
			name: "empty box dropped and renumbered",
			boxes: []leagues.Box{
				{Number: 1, MemberIDs: []int64{1, 2, 3, 4}},
				{Number: 2, MemberIDs: []int64{10}},
				{Number: 3, MemberIDs: []int64{5, 7, 8, 9}},
			},
			want: [][]int64{{1, 3, 4}, {5, 7, 8, 9}},
		},
		{
			name: "undersized box rebalanced",
			boxes: []leagues.Box{
				{Number: 1, MemberIDs: []int64{1, 2, 3, 4}},
				{Number: 2, MemberIDs: []int64{5, 6}},
				{Number: 3, MemberIDs: []int64{7, 8, 9}},
			},
			want: [][]int64{{1, 3, 4}, {5, 7, 8, 9}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := activeBoxes(tc.boxes, members, 3)
			if err != nil {
				t.Fatalf("active boxes: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d boxes, got %+v", len(tc.want), got)
			}
			for idx, box := range got {
				if box.Number != idx+1 || !slices.Equal(box.MemberIDs, tc.want[idx]) {
					t.Fatalf("box %d: expected %v, got %+v", idx+1, tc.want[idx], box)
				}
			}
		})
	}

	lonely := []leagues.Box{{Number: 1, MemberIDs: []int64{1, 2, 6}}}
	if _, err := activeBoxes(lonely, members, 3); !leagues.IsValidation(err) {
		t.Fatalf("expected too few active members to be rejected, got %v", err)
	}
}

func TestNewManagerRequiresDatabase(t *testing.T) {
	if _, err := NewManager(nil); err == nil {
		t.Fatalf("expected error for nil database")
	}
}
