// internal/models/box_weeks.go
package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dbgen "github.com/codr1/courtleague/internal/db/generated"
	"github.com/codr1/courtleague/internal/leagues"
)

func BoxWeekFromDB(row dbgen.BoxWeek) (leagues.BoxWeek, error) {
	week := leagues.BoxWeek{
		ID:           row.ID,
		LeagueID:     row.LeagueID,
		Number:       int(row.WeekNumber),
		State:        leagues.WeekState(row.State),
		TotalMatches: int(row.TotalMatches),
		ActivatedBy:  row.ActivatedBy.Int64,
		ActivatedAt:  timePtr(row.ActivatedAt),
		FinalizedBy:  row.FinalizedBy.Int64,
		FinalizedAt:  timePtr(row.FinalizedAt),
		Version:      row.Version,
	}
	if err := decodeJSON("assignments", row.Assignments, &week.Boxes); err != nil {
		return leagues.BoxWeek{}, err
	}
	if err := decodeJSON("match_ids", row.MatchIds, &week.MatchIDs); err != nil {
		return leagues.BoxWeek{}, err
	}
	if err := decodeJSON("standings", row.Standings, &week.Standings); err != nil {
		return leagues.BoxWeek{}, err
	}
	if err := decodeJSON("movements", row.Movements, &week.Movements); err != nil {
		return leagues.BoxWeek{}, err
	}
	return week, nil
}

func BoxWeeksFromDB(rows []dbgen.BoxWeek) ([]leagues.BoxWeek, error) {
	weeks := make([]leagues.BoxWeek, 0, len(rows))
	for _, row := range rows {
		week, err := BoxWeekFromDB(row)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, week)
	}
	return weeks, nil
}

// GetBoxWeek loads one week; a missing row is a NotFoundError keyed by the
// week number.
func GetBoxWeek(ctx context.Context, q dbgen.Querier, leagueID int64, number int) (leagues.BoxWeek, error) {
	row, err := q.GetBoxWeek(ctx, dbgen.GetBoxWeekParams{
		LeagueID:   leagueID,
		WeekNumber: int64(number),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leagues.BoxWeek{}, leagues.NotFound("box week", int64(number))
		}
		return leagues.BoxWeek{}, err
	}
	return BoxWeekFromDB(row)
}

func EncodeBoxes(boxes []leagues.Box) (string, error) {
	if boxes == nil {
		boxes = []leagues.Box{}
	}
	return encodeJSON(boxes)
}

// UpdateBoxWeekParams writes every mutable column of week, guarded by the
// version it was loaded at.
func UpdateBoxWeekParams(week leagues.BoxWeek) (dbgen.UpdateBoxWeekParams, error) {
	assignments, err := EncodeBoxes(week.Boxes)
	if err != nil {
		return dbgen.UpdateBoxWeekParams{}, fmt.Errorf("encode assignments: %w", err)
	}
	matchIDs := week.MatchIDs
	if matchIDs == nil {
		matchIDs = []int64{}
	}
	encodedMatchIDs, err := encodeJSON(matchIDs)
	if err != nil {
		return dbgen.UpdateBoxWeekParams{}, fmt.Errorf("encode match ids: %w", err)
	}
	standings := ""
	if week.Standings != nil {
		if standings, err = encodeJSON(week.Standings); err != nil {
			return dbgen.UpdateBoxWeekParams{}, fmt.Errorf("encode standings: %w", err)
		}
	}
	movements := ""
	if week.Movements != nil {
		if movements, err = encodeJSON(week.Movements); err != nil {
			return dbgen.UpdateBoxWeekParams{}, fmt.Errorf("encode movements: %w", err)
		}
	}
	return dbgen.UpdateBoxWeekParams{
		State:        string(week.State),
		Assignments:  assignments,
		MatchIds:     encodedMatchIDs,
		TotalMatches: int64(week.TotalMatches),
		Standings:    standings,
		Movements:    movements,
		ActivatedBy:  nullInt64(week.ActivatedBy),
		ActivatedAt:  nullTime(week.ActivatedAt),
		FinalizedBy:  nullInt64(week.FinalizedBy),
		FinalizedAt:  nullTime(week.FinalizedAt),
		ID:           week.ID,
		Version:      week.Version,
	}, nil
}
