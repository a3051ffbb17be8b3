package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/codr1/courtleague/internal/db"
	dbgen "github.com/codr1/courtleague/internal/db/generated"
	"github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/models"
)

// CreatePlayer inserts a player with an optional external rating id.
func CreatePlayer(t *testing.T, database *db.DB, name, ratingID string) int64 {
	t.Helper()

	player, err := database.Queries.CreatePlayer(context.Background(), dbgen.CreatePlayerParams{
		DisplayName: name,
		Email:       models.NullString(fmt.Sprintf("%s@example.com", name)),
		RatingID:    models.NullString(ratingID),
	})
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	return player.ID
}

// CreateLeague inserts league, filling unset rules with the defaults.
func CreateLeague(t *testing.T, database *db.DB, league leagues.League) leagues.League {
	t.Helper()

	if league.Name == "" {
		league.Name = "Test League"
	}
	if league.Format == "" {
		league.Format = leagues.FormatRoundRobin
	}
	if league.Scoring.TargetPoints == 0 {
		league.Scoring = leagues.DefaultScoringRules
	}
	if league.Points == (leagues.PointsRule{}) {
		league.Points = leagues.DefaultPointsRule
	}
	if league.Verification.RequiredConfirmations == 0 {
		league.Verification.RequiredConfirmations = 1
	}

	params, err := models.CreateLeagueParams(league)
	if err != nil {
		t.Fatalf("encode league: %v", err)
	}
	row, err := database.Queries.CreateLeague(context.Background(), params)
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	created, err := models.LeagueFromDB(row)
	if err != nil {
		t.Fatalf("map league: %v", err)
	}
	return created
}

// AddOrganizer creates a player and makes them an organizer of the league.
func AddOrganizer(t *testing.T, database *db.DB, leagueID int64, name string) int64 {
	t.Helper()

	playerID := CreatePlayer(t, database, name, "")
	if err := database.Queries.AddLeagueOrganizer(context.Background(), dbgen.AddLeagueOrganizerParams{
		LeagueID: leagueID,
		PlayerID: playerID,
	}); err != nil {
		t.Fatalf("add organizer: %v", err)
	}
	return playerID
}

// CreateMembers registers n singles members ranked 1..n, each backed by a
// new player with a rating id.
func CreateMembers(t *testing.T, database *db.DB, leagueID int64, n int) []leagues.Member {
	t.Helper()

	members := make([]leagues.Member, 0, n)
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("player%d", i)
		playerID := CreatePlayer(t, database, name, fmt.Sprintf("DUPR%d", i))
		playerIDs, err := models.EncodePlayerIDs([]int64{playerID})
		if err != nil {
			t.Fatalf("encode player ids: %v", err)
		}
		row, err := database.Queries.CreateLeagueMember(context.Background(), dbgen.CreateLeagueMemberParams{
			LeagueID:    leagueID,
			DisplayName: name,
			PlayerIds:   playerIDs,
			Rank:        int64(i),
			Status:      string(leagues.MemberActive),
		})
		if err != nil {
			t.Fatalf("create member: %v", err)
		}
		member, err := models.MemberFromDB(row)
		if err != nil {
			t.Fatalf("map member: %v", err)
		}
		members = append(members, member)
	}
	return members
}

// CreateMatch inserts an unscored match between two members.
func CreateMatch(t *testing.T, database *db.DB, leagueID int64, a, b leagues.Member) leagues.Match {
	t.Helper()

	params, err := models.NewMatchParams(leagues.ScheduledMatch{
		LeagueID: leagueID,
		Division: a.Division,
		Round:    1,
		SideA:    leagues.MatchSide{MemberIDs: []int64{a.ID}, PlayerIDs: a.PlayerIDs, Name: a.DisplayName},
		SideB:    leagues.MatchSide{MemberIDs: []int64{b.ID}, PlayerIDs: b.PlayerIDs, Name: b.DisplayName},
	}, 1, false)
	if err != nil {
		t.Fatalf("encode match: %v", err)
	}
	row, err := database.Queries.CreateLeagueMatch(context.Background(), params)
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	match, err := models.MatchFromDB(row)
	if err != nil {
		t.Fatalf("map match: %v", err)
	}
	return match
}

// MakeOfficial writes a completed, official result for match directly.
func MakeOfficial(t *testing.T, database *db.DB, match leagues.Match, games ...leagues.Game) leagues.Match {
	t.Helper()

	_, _, gamesA, gamesB := leagues.GameTotals(games)
	winner := leagues.SideA
	if gamesB > gamesA {
		winner = leagues.SideB
	}
	match.ScoreState = leagues.ScoreOfficial
	match.Status = leagues.StatusCompleted
	match.Scores = games
	match.Winner = winner

	params, err := models.ScoringParams(match)
	if err != nil {
		t.Fatalf("encode scoring: %v", err)
	}
	if err := db.CheckVersioned(database.Queries.UpdateLeagueMatchScoring(context.Background(), params)); err != nil {
		t.Fatalf("update scoring: %v", err)
	}
	match.Version++
	return match
}
