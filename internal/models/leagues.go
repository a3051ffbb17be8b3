// internal/models/leagues.go
package models

import (
	"context"
	"database/sql"
	"errors"
	"time"

	dbgen "github.com/codr1/courtleague/internal/db/generated"
	"github.com/codr1/courtleague/internal/leagues"
)

// LeagueFromDB maps a league row to the engine's configuration type.
func LeagueFromDB(row dbgen.League) (leagues.League, error) {
	format, err := leagues.ParseFormat(row.Format)
	if err != nil {
		return leagues.League{}, err
	}
	var names []string
	if err := decodeJSON("tiebreakers", row.Tiebreakers, &names); err != nil {
		return leagues.League{}, err
	}
	tiebreakers, err := leagues.ParseTiebreakers(names)
	if err != nil {
		return leagues.League{}, err
	}

	return leagues.League{
		ID:          row.ID,
		Name:        row.Name,
		Format:      format,
		Tiebreakers: tiebreakers,
		Verification: leagues.VerificationPolicy{
			RequiredConfirmations: int(row.RequiredConfirmations),
			AllowDisputes:         row.AllowDisputes,
			AutoConfirm:           row.AutoConfirm,
			AutoConfirmAfter:      time.Duration(row.AutoConfirmAfterHours) * time.Hour,
		},
		RatingGoverned: row.RatingGoverned,
		Scoring: leagues.ScoringRules{
			TargetPoints: int(row.TargetPoints),
			WinBy:        int(row.WinBy),
			BestOf:       int(row.BestOf),
			MaxPoints:    int(row.MaxPoints),
		},
		Points: leagues.PointsRule{
			Win:  int(row.PointsPerWin),
			Loss: int(row.PointsPerLoss),
		},
		Box: leagues.BoxRules{
			BoxSize:       int(row.BoxSize),
			PromoteCount:  int(row.PromoteCount),
			RelegateCount: int(row.RelegateCount),
			SeasonWeeks:   int(row.SeasonWeeks),
		},
		LadderRange: int(row.LadderChallengeRange),
	}, nil
}

func EncodeTiebreakers(tiebreakers []leagues.Tiebreaker) (string, error) {
	if tiebreakers == nil {
		tiebreakers = []leagues.Tiebreaker{}
	}
	return encodeJSON(tiebreakers)
}

// CreateLeagueParams builds the insert for a validated league.
func CreateLeagueParams(league leagues.League) (dbgen.CreateLeagueParams, error) {
	tiebreakers, err := EncodeTiebreakers(league.Tiebreakers)
	if err != nil {
		return dbgen.CreateLeagueParams{}, err
	}
	return dbgen.CreateLeagueParams{
		Name:                  league.Name,
		Format:                string(league.Format),
		Tiebreakers:           tiebreakers,
		RequiredConfirmations: int64(league.Verification.RequiredConfirmations),
		AllowDisputes:         league.Verification.AllowDisputes,
		AutoConfirm:           league.Verification.AutoConfirm,
		AutoConfirmAfterHours: int64(league.Verification.AutoConfirmAfter / time.Hour),
		RatingGoverned:        league.RatingGoverned,
		TargetPoints:          int64(league.Scoring.TargetPoints),
		WinBy:                 int64(league.Scoring.WinBy),
		BestOf:                int64(league.Scoring.BestOf),
		MaxPoints:             int64(league.Scoring.MaxPoints),
		PointsPerWin:          int64(league.Points.Win),
		PointsPerLoss:         int64(league.Points.Loss),
		BoxSize:               int64(league.Box.BoxSize),
		PromoteCount:          int64(league.Box.PromoteCount),
		RelegateCount:         int64(league.Box.RelegateCount),
		SeasonWeeks:           int64(league.Box.SeasonWeeks),
		LadderChallengeRange:  int64(league.LadderRange),
	}, nil
}

// GetLeague loads a league, mapping a missing row to a NotFoundError.
func GetLeague(ctx context.Context, q dbgen.Querier, leagueID int64) (leagues.League, error) {
	row, err := q.GetLeague(ctx, leagueID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leagues.League{}, leagues.NotFound("league", leagueID)
		}
		return leagues.League{}, err
	}
	return LeagueFromDB(row)
}

func IsOrganizer(ctx context.Context, q dbgen.Querier, leagueID, playerID int64) (bool, error) {
	count, err := q.CountLeagueOrganizer(ctx, dbgen.CountLeagueOrganizerParams{
		LeagueID: leagueID,
		PlayerID: playerID,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RequireOrganizer checks that actor claims the organizer role and holds it
// for the league.
func RequireOrganizer(ctx context.Context, q dbgen.Querier, leagueID int64, actor leagues.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !actor.IsOrganizer() {
		return leagues.Invalid("actor", "only an organizer may do this")
	}
	ok, err := IsOrganizer(ctx, q, leagueID, actor.PlayerID)
	if err != nil {
		return err
	}
	if !ok {
		return leagues.Invalid("actor", "player %d is not an organizer of league %d", actor.PlayerID, leagueID)
	}
	return nil
}

func MemberFromDB(row dbgen.LeagueMember) (leagues.Member, error) {
	var playerIDs []int64
	if err := decodeJSON("player_ids", row.PlayerIds, &playerIDs); err != nil {
		return leagues.Member{}, err
	}
	var rating *float64
	if row.Rating.Valid {
		value := row.Rating.Float64
		rating = &value
	}
	return leagues.Member{
		ID:          row.ID,
		LeagueID:    row.LeagueID,
		Division:    row.Division,
		DisplayName: row.DisplayName,
		PlayerIDs:   playerIDs,
		Rating:      rating,
		Rank:        int(row.Rank),
		Status:      leagues.MemberStatus(row.Status),
		Stats: leagues.Stats{
			Played:        int(row.Played),
			Wins:          int(row.Wins),
			Losses:        int(row.Losses),
			Points:        int(row.Points),
			PointsFor:     int(row.PointsFor),
			PointsAgainst: int(row.PointsAgainst),
			GamesWon:      int(row.GamesWon),
			GamesLost:     int(row.GamesLost),
			Recent:        row.Recent,
		},
	}, nil
}

func MembersFromDB(rows []dbgen.LeagueMember) ([]leagues.Member, error) {
	members := make([]leagues.Member, 0, len(rows))
	for _, row := range rows {
		member, err := MemberFromDB(row)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

func ListMembers(ctx context.Context, q dbgen.Querier, leagueID int64) ([]leagues.Member, error) {
	rows, err := q.ListLeagueMembers(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return MembersFromDB(rows)
}

func NullRating(rating *float64) sql.NullFloat64 {
	if rating == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *rating, Valid: true}
}

func EncodePlayerIDs(ids []int64) (string, error) {
	if ids == nil {
		ids = []int64{}
	}
	return encodeJSON(ids)
}

// StatsParams writes recomputed stats back to a member row.
func StatsParams(memberID int64, stats leagues.Stats) dbgen.UpdateLeagueMemberStatsParams {
	return dbgen.UpdateLeagueMemberStatsParams{
		Played:        int64(stats.Played),
		Wins:          int64(stats.Wins),
		Losses:        int64(stats.Losses),
		Points:        int64(stats.Points),
		PointsFor:     int64(stats.PointsFor),
		PointsAgainst: int64(stats.PointsAgainst),
		GamesWon:      int64(stats.GamesWon),
		GamesLost:     int64(stats.GamesLost),
		Recent:        stats.Recent,
		ID:            memberID,
	}
}

func CourtFromDB(row dbgen.LeagueCourt) leagues.Court {
	return leagues.Court{
		ID:     row.ID,
		Name:   row.Name,
		Active: row.Status == "active",
	}
}

func CourtsFromDB(rows []dbgen.LeagueCourt) []leagues.Court {
	courts := make([]leagues.Court, 0, len(rows))
	for _, row := range rows {
		courts = append(courts, CourtFromDB(row))
	}
	return courts
}
