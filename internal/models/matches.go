// internal/models/matches.go
package models

import (
	"context"
	"database/sql"
	"errors"

	dbgen "github.com/codr1/courtleague/internal/db/generated"
	"github.com/codr1/courtleague/internal/leagues"
)

func MatchFromDB(row dbgen.LeagueMatch) (leagues.Match, error) {
	match := leagues.Match{
		ID:          row.ID,
		LeagueID:    row.LeagueID,
		Division:    row.Division,
		Round:       int(row.Round),
		Week:        int(row.WeekNumber),
		Box:         int(row.BoxNumber),
		CourtID:     row.CourtID.Int64,
		ScheduledAt: timePtr(row.ScheduledAt),
		ScoreState:  leagues.ScoreState(row.ScoreState),
		Status:      leagues.MatchStatus(row.Status),
		Version:     row.Version,
	}
	if err := decodeJSON("side_a", row.SideA, &match.SideA); err != nil {
		return leagues.Match{}, err
	}
	if err := decodeJSON("side_b", row.SideB, &match.SideB); err != nil {
		return leagues.Match{}, err
	}
	if row.Proposal != "" {
		match.Proposal = &leagues.Proposal{}
		if err := decodeJSON("proposal", row.Proposal, match.Proposal); err != nil {
			return leagues.Match{}, err
		}
	}
	if err := decodeJSON("scores", row.Scores, &match.Scores); err != nil {
		return leagues.Match{}, err
	}
	winner, err := leagues.ParseSide(row.Winner)
	if err != nil {
		return leagues.Match{}, err
	}
	match.Winner = winner
	if err := decodeJSON("verification", row.Verification, &match.Verification); err != nil {
		return leagues.Match{}, err
	}
	if row.Postpone != "" {
		match.Postpone = &leagues.PostponeRecord{}
		if err := decodeJSON("postpone", row.Postpone, match.Postpone); err != nil {
			return leagues.Match{}, err
		}
	}
	return match, nil
}

func MatchesFromDB(rows []dbgen.LeagueMatch) ([]leagues.Match, error) {
	matches := make([]leagues.Match, 0, len(rows))
	for _, row := range rows {
		match, err := MatchFromDB(row)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// GetMatch loads a match together with its raw row, which carries the
// ladder and notice flags that are not part of the domain type.
func GetMatch(ctx context.Context, q dbgen.Querier, matchID int64) (leagues.Match, dbgen.LeagueMatch, error) {
	row, err := q.GetLeagueMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leagues.Match{}, dbgen.LeagueMatch{}, leagues.NotFound("match", matchID)
		}
		return leagues.Match{}, dbgen.LeagueMatch{}, err
	}
	match, err := MatchFromDB(row)
	if err != nil {
		return leagues.Match{}, dbgen.LeagueMatch{}, err
	}
	return match, row, nil
}

func ListMatches(ctx context.Context, q dbgen.Querier, leagueID int64) ([]leagues.Match, error) {
	rows, err := q.ListLeagueMatches(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return MatchesFromDB(rows)
}

func ListWeekMatches(ctx context.Context, q dbgen.Querier, leagueID int64, week int) ([]leagues.Match, error) {
	rows, err := q.ListLeagueMatchesByWeek(ctx, dbgen.ListLeagueMatchesByWeekParams{
		LeagueID:   leagueID,
		WeekNumber: int64(week),
	})
	if err != nil {
		return nil, err
	}
	return MatchesFromDB(rows)
}

// NewMatchParams builds the insert for a freshly generated match.
func NewMatchParams(scheduled leagues.ScheduledMatch, required int, challenge bool) (dbgen.CreateLeagueMatchParams, error) {
	sideA, err := encodeJSON(scheduled.SideA)
	if err != nil {
		return dbgen.CreateLeagueMatchParams{}, err
	}
	sideB, err := encodeJSON(scheduled.SideB)
	if err != nil {
		return dbgen.CreateLeagueMatchParams{}, err
	}
	verification, err := encodeJSON(leagues.Verification{Confirmations: []int64{}, Required: required})
	if err != nil {
		return dbgen.CreateLeagueMatchParams{}, err
	}
	return dbgen.CreateLeagueMatchParams{
		LeagueID:     scheduled.LeagueID,
		Division:     scheduled.Division,
		Round:        int64(scheduled.Round),
		WeekNumber:   int64(scheduled.Week),
		BoxNumber:    int64(scheduled.Box),
		ScheduledAt:  nullTime(scheduled.ScheduledAt),
		SideA:        sideA,
		SideB:        sideB,
		ScoreState:   string(leagues.ScoreUnscored),
		Status:       string(leagues.StatusScheduled),
		Verification: verification,
		IsChallenge:  challenge,
	}, nil
}

// ScoringParams writes the scoring columns of match, guarded by the version
// it was loaded at.
func ScoringParams(match leagues.Match) (dbgen.UpdateLeagueMatchScoringParams, error) {
	proposal := ""
	if match.Proposal != nil {
		encoded, err := encodeJSON(match.Proposal)
		if err != nil {
			return dbgen.UpdateLeagueMatchScoringParams{}, err
		}
		proposal = encoded
	}
	scores := match.Scores
	if scores == nil {
		scores = []leagues.Game{}
	}
	encodedScores, err := encodeJSON(scores)
	if err != nil {
		return dbgen.UpdateLeagueMatchScoringParams{}, err
	}
	verification, err := encodeJSON(match.Verification)
	if err != nil {
		return dbgen.UpdateLeagueMatchScoringParams{}, err
	}
	return dbgen.UpdateLeagueMatchScoringParams{
		ScoreState:   string(match.ScoreState),
		Status:       string(match.Status),
		Proposal:     proposal,
		Scores:       encodedScores,
		Winner:       match.Winner.String(),
		Verification: verification,
		ID:           match.ID,
		Version:      match.Version,
	}, nil
}

// ScheduleParams writes the status, time and postponement of match.
func ScheduleParams(match leagues.Match) (dbgen.UpdateLeagueMatchScheduleParams, error) {
	postpone := ""
	if match.Postpone != nil {
		encoded, err := encodeJSON(match.Postpone)
		if err != nil {
			return dbgen.UpdateLeagueMatchScheduleParams{}, err
		}
		postpone = encoded
	}
	return dbgen.UpdateLeagueMatchScheduleParams{
		Status:      string(match.Status),
		ScheduledAt: nullTime(match.ScheduledAt),
		Postpone:    postpone,
		ID:          match.ID,
		Version:     match.Version,
	}, nil
}

// MatchSnapshot is the audit representation of a match.
func MatchSnapshot(match leagues.Match) string {
	snapshot := struct {
		ScoreState   leagues.ScoreState      `json:"scoreState"`
		Status       leagues.MatchStatus     `json:"status"`
		Proposal     *leagues.Proposal       `json:"proposal,omitempty"`
		Scores       []leagues.Game          `json:"scores,omitempty"`
		Winner       leagues.Side            `json:"winner"`
		Verification leagues.Verification    `json:"verification"`
		Postpone     *leagues.PostponeRecord `json:"postpone,omitempty"`
		Version      int64                   `json:"version"`
	}{
		ScoreState:   match.ScoreState,
		Status:       match.Status,
		Proposal:     match.Proposal,
		Scores:       match.Scores,
		Winner:       match.Winner,
		Verification: match.Verification,
		Postpone:     match.Postpone,
		Version:      match.Version,
	}
	encoded, err := encodeJSON(snapshot)
	if err != nil {
		return ""
	}
	return encoded
}

type MatchEvent struct {
	ID        int64  `json:"id"`
	MatchID   int64  `json:"matchId"`
	Action    string `json:"action"`
	ActorID   int64  `json:"actorId,omitempty"`
	Before    string `json:"before"`
	After     string `json:"after"`
	Reason    string `json:"reason,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func MatchEventFromDB(row dbgen.MatchEvent) MatchEvent {
	return MatchEvent{
		ID:        row.ID,
		MatchID:   row.MatchID,
		Action:    row.Action,
		ActorID:   row.ActorID.Int64,
		Before:    row.BeforeState,
		After:     row.AfterState,
		Reason:    row.Reason,
		CreatedAt: row.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// RecordMatchEvent appends to the match audit trail.
func RecordMatchEvent(ctx context.Context, q dbgen.Querier, before, after leagues.Match, action string, actorID int64, reason string) error {
	_, err := q.CreateMatchEvent(ctx, dbgen.CreateMatchEventParams{
		MatchID:     after.ID,
		LeagueID:    after.LeagueID,
		Action:      action,
		ActorID:     nullInt64(actorID),
		BeforeState: MatchSnapshot(before),
		AfterState:  MatchSnapshot(after),
		Reason:      reason,
	})
	return err
}
