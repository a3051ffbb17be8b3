package roster

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/codr1/courtleague/internal/db"
	"github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/models"
	"github.com/codr1/courtleague/internal/testutil"
)

type recordingStandings struct {
	mu      sync.Mutex
	leagues []int64
}

func (r *recordingStandings) Trigger(_ context.Context, leagueID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leagues = append(r.leagues, leagueID)
}

func (r *recordingStandings) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.leagues)
}

type fixture struct {
	db        *db.DB
	service   *Service
	standings *recordingStandings
	organizer leagues.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database := testutil.NewTestDB(t)
	standings := &recordingStandings{}
	service, err := NewService(database, standings)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	organizerID := testutil.CreatePlayer(t, database, "organizer", "")
	return &fixture{
		db:        database,
		service:   service,
		standings: standings,
		organizer: leagues.Actor{PlayerID: organizerID, DisplayName: "organizer", Role: leagues.RoleOrganizer},
	}
}

func (f *fixture) createLeague(t *testing.T, league leagues.League) leagues.League {
	t.Helper()
	created, err := f.service.CreateLeague(context.Background(), f.organizer, league)
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	return created
}

func (f *fixture) player(t *testing.T, name string) leagues.Actor {
	t.Helper()
	id := testutil.CreatePlayer(t, f.db, name, "")
	return leagues.Actor{PlayerID: id, DisplayName: name, Role: leagues.RoleParticipant}
}

func TestCreateLeagueMakesCreatorOrganizer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	league := f.createLeague(t, leagues.League{Name: "Spring Boxes", Format: leagues.FormatRotatingBox})
	if league.Box.BoxSize != 4 || league.Scoring != leagues.DefaultScoringRules {
		t.Fatalf("expected defaults applied, got %+v", league)
	}
	organizers, err := f.service.ListOrganizers(ctx, league.ID)
	if err != nil {
		t.Fatalf("list organizers: %v", err)
	}
	if len(organizers) != 1 || organizers[0].ID != f.organizer.PlayerID {
		t.Fatalf("expected creator as organizer, got %+v", organizers)
	}

	if _, err := f.service.CreateLeague(ctx, f.organizer, leagues.League{Name: "Bad", Format: "knockout"}); !leagues.IsValidation(err) {
		t.Fatalf("expected validation error for unknown format, got %v", err)
	}
}

func TestUpdateSettingsAndRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	league := f.createLeague(t, leagues.League{Name: "Tuesday", Format: leagues.FormatRoundRobin})

	updated, err := f.service.UpdateSettings(ctx, league.ID, f.organizer, SettingsUpdate{
		Tiebreakers: []string{"wins", "head_to_head"},
		Verification: &leagues.VerificationPolicy{
			RequiredConfirmations: 2,
			AllowDisputes:         true,
			AutoConfirm:           true,
			AutoConfirmAfter:      48 * time.Hour,
		},
	})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if len(updated.Tiebreakers) != 2 || updated.Tiebreakers[1] != leagues.TiebreakHeadToHead {
		t.Fatalf("unexpected tiebreakers %v", updated.Tiebreakers)
	}
	if updated.Verification.AutoConfirmAfter != 48*time.Hour || updated.Verification.RequiredConfirmations != 2 {
		t.Fatalf("unexpected verification %+v", updated.Verification)
	}
	if f.standings.count() != 1 {
		t.Fatalf("expected a tiebreaker change to trigger standings")
	}

	if _, err := f.service.UpdateSettings(ctx, league.ID, f.organizer, SettingsUpdate{Tiebreakers: []string{"coin_flip"}}); !leagues.IsValidation(err) {
		t.Fatalf("expected validation error for unknown tiebreaker, got %v", err)
	}

	rules := league
	rules.Scoring = leagues.ScoringRules{TargetPoints: 15, WinBy: 2, BestOf: 3}
	changed, err := f.service.UpdateRules(ctx, league.ID, f.organizer, rules)
	if err != nil {
		t.Fatalf("update rules: %v", err)
	}
	if changed.Scoring.TargetPoints != 15 || changed.Verification.RequiredConfirmations != 2 {
		t.Fatalf("expected new scoring with settings kept, got %+v", changed)
	}

	members := testutil.CreateMembers(t, f.db, league.ID, 2)
	testutil.CreateMatch(t, f.db, league.ID, members[0], members[1])
	if _, err := f.service.UpdateRules(ctx, league.ID, f.organizer, rules); !leagues.IsConflict(err) {
		t.Fatalf("expected rules locked once matches exist, got %v", err)
	}
	if _, err := f.service.UpdateSettings(ctx, league.ID, f.organizer, SettingsUpdate{Tiebreakers: []string{"points_for"}}); err != nil {
		t.Fatalf("settings should stay editable: %v", err)
	}
}

func TestRegisterMember(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	league := f.createLeague(t, leagues.League{Name: "Ladder", Format: leagues.FormatLadder})
	alice := f.player(t, "alice")
	bob := f.player(t, "bob")
	carol := f.player(t, "carol")

	first, err := f.service.RegisterMember(ctx, league.ID, alice, MemberRequest{PlayerIDs: []int64{alice.PlayerID}})
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if first.Rank != 1 || first.DisplayName != "alice" {
		t.Fatalf("unexpected member %+v", first)
	}
	team, err := f.service.RegisterMember(ctx, league.ID, f.organizer, MemberRequest{PlayerIDs: []int64{bob.PlayerID, carol.PlayerID}})
	if err != nil {
		t.Fatalf("register team: %v", err)
	}
	if team.Rank != 2 || team.DisplayName != "bob / carol" {
		t.Fatalf("unexpected team %+v", team)
	}

	tests := []struct {
		name  string
		actor leagues.Actor
		req   MemberRequest
		check func(error) bool
	}{
		{name: "already entered", actor: alice, req: MemberRequest{PlayerIDs: []int64{alice.PlayerID}}, check: leagues.IsValidation},
		{name: "someone else", actor: alice, req: MemberRequest{PlayerIDs: []int64{bob.PlayerID}}, check: leagues.IsValidation},
		{name: "no players", actor: f.organizer, req: MemberRequest{}, check: leagues.IsValidation},
		{name: "unknown player", actor: f.organizer, req: MemberRequest{PlayerIDs: []int64{9999}}, check: leagues.IsNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.service.RegisterMember(ctx, league.ID, tt.actor, tt.req); !tt.check(err) {
				t.Fatalf("unexpected error %v", err)
			}
		})
	}
}

func TestWithdrawMemberClosesLadderGap(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	league := f.createLeague(t, leagues.League{Name: "Ladder", Format: leagues.FormatLadder})

	var actors []leagues.Actor
	var members []leagues.Member
	for _, name := range []string{"one", "two", "three"} {
		actor := f.player(t, name)
		member, err := f.service.RegisterMember(ctx, league.ID, actor, MemberRequest{PlayerIDs: []int64{actor.PlayerID}})
		if err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
		actors = append(actors, actor)
		members = append(members, member)
	}

	if _, err := f.service.WithdrawMember(ctx, league.ID, members[1].ID, actors[0]); !leagues.IsValidation(err) {
		t.Fatalf("expected validation error withdrawing someone else, got %v", err)
	}
	withdrawn, err := f.service.WithdrawMember(ctx, league.ID, members[1].ID, actors[1])
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if withdrawn.Status != leagues.MemberWithdrawn || withdrawn.Rank != 0 {
		t.Fatalf("unexpected withdrawn member %+v", withdrawn)
	}
	if _, err := f.service.WithdrawMember(ctx, league.ID, members[1].ID, f.organizer); !leagues.IsConflict(err) {
		t.Fatalf("expected conflict on second withdrawal, got %v", err)
	}

	stored, err := models.ListMembers(ctx, f.db.Queries, league.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	ranks := map[int64]int{}
	for _, member := range stored {
		ranks[member.ID] = member.Rank
	}
	if ranks[members[0].ID] != 1 || ranks[members[2].ID] != 2 {
		t.Fatalf("expected ladder to close the gap, got %v", ranks)
	}
	if f.standings.count() != 1 {
		t.Fatalf("expected withdrawal to trigger standings")
	}
}

func TestOrganizersAndCourts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	league := f.createLeague(t, leagues.League{Name: "Courts"})
	helper := f.player(t, "helper")

	if err := f.service.RemoveOrganizer(ctx, league.ID, f.organizer, f.organizer.PlayerID); !leagues.IsConflict(err) {
		t.Fatalf("expected conflict removing the last organizer, got %v", err)
	}
	if err := f.service.AddOrganizer(ctx, league.ID, helper, helper.PlayerID); !leagues.IsValidation(err) {
		t.Fatalf("expected participants to be refused, got %v", err)
	}
	if err := f.service.AddOrganizer(ctx, league.ID, f.organizer, helper.PlayerID); err != nil {
		t.Fatalf("add organizer: %v", err)
	}
	if err := f.service.RemoveOrganizer(ctx, league.ID, f.organizer, f.organizer.PlayerID); err != nil {
		t.Fatalf("remove organizer: %v", err)
	}

	helperOrganizer := helper
	helperOrganizer.Role = leagues.RoleOrganizer
	court, err := f.service.AddCourt(ctx, league.ID, helperOrganizer, "Court 1")
	if err != nil {
		t.Fatalf("add court: %v", err)
	}
	if _, err := f.service.AddCourt(ctx, league.ID, helperOrganizer, "court 1"); !leagues.IsValidation(err) {
		t.Fatalf("expected duplicate court name refused, got %v", err)
	}
	off, err := f.service.SetCourtActive(ctx, league.ID, court.ID, helperOrganizer, false)
	if err != nil {
		t.Fatalf("deactivate court: %v", err)
	}
	if off.Active {
		t.Fatalf("expected court to be inactive")
	}
	if _, err := f.service.SetCourtActive(ctx, league.ID, 9999, helperOrganizer, true); !leagues.IsNotFound(err) {
		t.Fatalf("expected not found for unknown court, got %v", err)
	}
}

func TestPlayerForSubject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.service.PlayerForSubject(ctx, "user_123", PlayerRequest{DisplayName: "Dana", Email: "dana@example.com"})
	if err != nil {
		t.Fatalf("first sign-in: %v", err)
	}
	again, err := f.service.PlayerForSubject(ctx, "user_123", PlayerRequest{DisplayName: "Someone Else"})
	if err != nil {
		t.Fatalf("second sign-in: %v", err)
	}
	if again.ID != first.ID || again.DisplayName != "Dana" {
		t.Fatalf("expected the same player, got %+v and %+v", first, again)
	}

	actor := leagues.Actor{PlayerID: first.ID, DisplayName: "Dana", Role: leagues.RoleParticipant}
	linked, err := f.service.SetRatingID(ctx, first.ID, actor, "DUPR-42")
	if err != nil {
		t.Fatalf("set rating id: %v", err)
	}
	if linked.RatingID != "DUPR-42" {
		t.Fatalf("expected rating id stored, got %q", linked.RatingID)
	}
	if _, err := f.service.SetRatingID(ctx, f.organizer.PlayerID, actor, "DUPR-1"); !leagues.IsValidation(err) {
		t.Fatalf("expected validation error editing another player, got %v", err)
	}
	if _, err := f.service.CreatePlayer(ctx, PlayerRequest{DisplayName: "Eve", Email: "not-an-email"}); !leagues.IsValidation(err) {
		t.Fatalf("expected validation error for bad email, got %v", err)
	}
}
