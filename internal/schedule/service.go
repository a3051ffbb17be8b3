// internal/schedule/service.go
package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/courtleague/internal/db"
	dbgen "github.com/codr1/courtleague/internal/db/generated"
	"github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/models"
)

// Service persists generated fixtures, court assignments and ladder
// challenges. Pairing itself lives in the leagues package.
type Service struct {
	db *db.DB
}

func NewService(database *db.DB) (*Service, error) {
	if database == nil {
		return nil, errors.New("schedule service requires a database")
	}
	return &Service{db: database}, nil
}

type GenerateRequest struct {
	Division string `json:"division"`
	// Rounds is the number of round robin cycles.
	Rounds int `json:"rounds"`
	// Round is the Swiss round to generate; 0 means the next one.
	Round         int           `json:"round"`
	StartDate     time.Time     `json:"startDate"`
	RoundInterval time.Duration `json:"roundInterval"`
	// CourtMode, when set, runs a court assignment pass after generation.
	CourtMode leagues.CourtMode `json:"courtMode"`
}

type GenerateReport struct {
	Matches []leagues.Match `json:"matches"`
	Courts  *CourtReport    `json:"courts,omitempty"`
}

type CourtReport struct {
	Assigned []leagues.CourtAssignment `json:"assigned"`
	Failed   []leagues.CourtFailure    `json:"failed"`
}

func logger(ctx context.Context, leagueID int64, division string) zerolog.Logger {
	return log.Ctx(ctx).With().
		Str("component", "schedule_service").
		Int64("league_id", leagueID).
		Str("division", division).
		Logger()
}

// Generate creates the fixtures for a league division. A round robin is
// generated once; regenerating requires Clear first. Swiss leagues generate
// one round per call.
func (s *Service) Generate(ctx context.Context, leagueID int64, actor leagues.Actor, req GenerateRequest) (GenerateReport, error) {
	logger := logger(ctx, leagueID, req.Division)

	var report GenerateReport
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries
		league, err := models.GetLeague(ctx, q, leagueID)
		if err != nil {
			return err
		}
		if err := models.RequireOrganizer(ctx, q, leagueID, actor); err != nil {
			return err
		}
		members, err := models.ListMembers(ctx, q, leagueID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}

		opts := leagues.ScheduleOptions{
			Division:      req.Division,
			Rounds:        req.Rounds,
			Round:         req.Round,
			StartDate:     req.StartDate,
			RoundInterval: req.RoundInterval,
		}
		if league.Format == leagues.FormatSwiss {
			history, err := fixtureHistory(ctx, q, leagueID, req.Division)
			if err != nil {
				return err
			}
			opts.History = history
		} else {
			existing, err := q.CountScheduledLeagueMatches(ctx, dbgen.CountScheduledLeagueMatchesParams{
				LeagueID: leagueID,
				Division: req.Division,
			})
			if err != nil {
				return fmt.Errorf("count scheduled matches: %w", err)
			}
			if existing > 0 {
				return leagues.Conflict("league", leagueID, "scheduled", "generate", fmt.Sprintf("%d matches already exist; clear the schedule first", existing))
			}
		}

		fixtures, err := leagues.GenerateSchedule(league, members, opts)
		if err != nil {
			return err
		}
		report.Matches = make([]leagues.Match, 0, len(fixtures))
		for _, fixture := range fixtures {
			match, err := insertMatch(ctx, q, fixture, league.Verification.RequiredConfirmations, false)
			if err != nil {
				return err
			}
			report.Matches = append(report.Matches, match)
		}
		return nil
	})
	if err != nil {
		if leagues.IsValidation(err) || leagues.IsConflict(err) || leagues.IsNotFound(err) {
			logger.Info().Err(err).Msg("Schedule generation rejected")
		} else {
			logger.Error().Err(err).Msg("Schedule generation failed")
		}
		return GenerateReport{}, err
	}
	logger.Info().Int("match_count", len(report.Matches)).Msg("Generated schedule")

	if req.CourtMode != "" {
		courts, err := s.assign(ctx, logger, leagueID, req.CourtMode, report.Matches)
		if err != nil {
			// Fixtures stay; courts can be assigned again later.
			logger.Warn().Err(err).Msg("Court assignment after generation failed")
			return report, nil
		}
		report.Courts = &courts
		for idx := range report.Matches {
			for _, assignment := range courts.Assigned {
				if assignment.MatchID == report.Matches[idx].ID {
					report.Matches[idx].CourtID = assignment.CourtID
				}
			}
		}
	}
	return report, nil
}

// Clear deletes unplayed fixtures of a division. Results, postponements and
// box week matches are kept.
func (s *Service) Clear(ctx context.Context, leagueID int64, actor leagues.Actor, division string) (int64, error) {
	logger := logger(ctx, leagueID, division)
	var deleted int64
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries
		if _, err := models.GetLeague(ctx, q, leagueID); err != nil {
			return err
		}
		if err := models.RequireOrganizer(ctx, q, leagueID, actor); err != nil {
			return err
		}
		var err error
		deleted, err = q.DeleteScheduledLeagueMatches(ctx, dbgen.DeleteScheduledLeagueMatchesParams{
			LeagueID: leagueID,
			Division: division,
		})
		if err != nil {
			return fmt.Errorf("delete scheduled matches: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	logger.Info().Int64("deleted", deleted).Msg("Cleared schedule")
	return deleted, nil
}

// AssignCourts places every unplayed match of the division that has no
// court yet. Each match is written on its own; one failure does not undo
// the others.
func (s *Service) AssignCourts(ctx context.Context, leagueID int64, actor leagues.Actor, division string, mode leagues.CourtMode) (CourtReport, error) {
	logger := logger(ctx, leagueID, division)
	if _, err := models.GetLeague(ctx, s.db.Queries, leagueID); err != nil {
		return CourtReport{}, err
	}
	if err := models.RequireOrganizer(ctx, s.db.Queries, leagueID, actor); err != nil {
		return CourtReport{}, err
	}

	matches, err := models.ListMatches(ctx, s.db.Queries, leagueID)
	if err != nil {
		return CourtReport{}, fmt.Errorf("list matches: %w", err)
	}
	pending := make([]leagues.Match, 0, len(matches))
	for _, match := range matches {
		if match.Division == division && match.CourtID == 0 && match.Status == leagues.StatusScheduled && match.ScoreState == leagues.ScoreUnscored {
			pending = append(pending, match)
		}
	}
	return s.assign(ctx, logger, leagueID, mode, pending)
}

func (s *Service) assign(ctx context.Context, logger zerolog.Logger, leagueID int64, mode leagues.CourtMode, matches []leagues.Match) (CourtReport, error) {
	rows, err := s.db.Queries.ListLeagueCourts(ctx, leagueID)
	if err != nil {
		return CourtReport{}, fmt.Errorf("list courts: %w", err)
	}
	requests := make([]leagues.CourtRequest, 0, len(matches))
	for _, match := range matches {
		requests = append(requests, leagues.CourtRequest{MatchID: match.ID, Week: match.Week, Round: match.Round})
	}

	assigned, failed := leagues.AssignCourts(requests, models.CourtsFromDB(rows), mode)
	report := CourtReport{Assigned: make([]leagues.CourtAssignment, 0, len(assigned)), Failed: failed}
	for _, assignment := range assigned {
		err := s.db.Queries.UpdateLeagueMatchCourt(ctx, dbgen.UpdateLeagueMatchCourtParams{
			CourtID: sql.NullInt64{Int64: assignment.CourtID, Valid: true},
			ID:      assignment.MatchID,
		})
		if err != nil {
			logger.Warn().Err(err).Int64("match_id", assignment.MatchID).Msg("Failed to store court assignment")
			report.Failed = append(report.Failed, leagues.CourtFailure{MatchID: assignment.MatchID, Reason: "court could not be saved"})
			continue
		}
		report.Assigned = append(report.Assigned, assignment)
	}
	if report.Failed == nil {
		report.Failed = []leagues.CourtFailure{}
	}

	logger.Info().
		Str("mode", string(mode)).
		Int("assigned", len(report.Assigned)).
		Int("failed", len(report.Failed)).
		Msg("Assigned courts")
	return report, nil
}

// CreateChallenge schedules a ladder match between a challenger and a
// higher ranked defender. Players may only challenge on their own behalf.
func (s *Service) CreateChallenge(ctx context.Context, leagueID int64, actor leagues.Actor, challengerID, defenderID int64) (leagues.Match, error) {
	logger := logger(ctx, leagueID, "")
	if err := actor.Validate(); err != nil {
		return leagues.Match{}, err
	}

	var match leagues.Match
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries
		league, err := models.GetLeague(ctx, q, leagueID)
		if err != nil {
			return err
		}
		if league.Format != leagues.FormatLadder {
			return leagues.Invalid("format", "challenges are only used in ladder leagues")
		}
		if actor.IsOrganizer() {
			if err := models.RequireOrganizer(ctx, q, leagueID, actor); err != nil {
				return err
			}
		}

		members, err := models.ListMembers(ctx, q, leagueID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		challenger, ok := findMember(members, challengerID)
		if !ok {
			return leagues.NotFound("member", challengerID)
		}
		defender, ok := findMember(members, defenderID)
		if !ok {
			return leagues.NotFound("member", defenderID)
		}
		if !actor.IsOrganizer() && !slices.Contains(challenger.PlayerIDs, actor.PlayerID) {
			return leagues.Invalid("actor", "only the challenger or an organizer may issue a challenge")
		}
		if challenger.Division != defender.Division {
			return leagues.Invalid("defender", "members are in different divisions")
		}
		if err := leagues.ValidateChallenge(challenger, defender, league.LadderRange); err != nil {
			return err
		}

		match, err = insertMatch(ctx, q, leagues.NewChallenge(leagueID, challenger, defender), league.Verification.RequiredConfirmations, true)
		return err
	})
	if err != nil {
		logger.Info().Err(err).Int64("challenger_id", challengerID).Int64("defender_id", defenderID).Msg("Challenge rejected")
		return leagues.Match{}, err
	}
	logger.Info().
		Int64("match_id", match.ID).
		Int64("challenger_id", challengerID).
		Int64("defender_id", defenderID).
		Msg("Challenge created")
	return match, nil
}

// fixtureHistory is every regular-season match of the division.
func fixtureHistory(ctx context.Context, q dbgen.Querier, leagueID int64, division string) ([]leagues.Match, error) {
	all, err := models.ListMatches(ctx, q, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	history := make([]leagues.Match, 0, len(all))
	for _, match := range all {
		if match.Division == division && match.Week == 0 {
			history = append(history, match)
		}
	}
	return history, nil
}

func insertMatch(ctx context.Context, q dbgen.Querier, fixture leagues.ScheduledMatch, required int, challenge bool) (leagues.Match, error) {
	params, err := models.NewMatchParams(fixture, required, challenge)
	if err != nil {
		return leagues.Match{}, fmt.Errorf("encode match: %w", err)
	}
	row, err := q.CreateLeagueMatch(ctx, params)
	if err != nil {
		return leagues.Match{}, fmt.Errorf("create match: %w", err)
	}
	return models.MatchFromDB(row)
}

func findMember(members []leagues.Member, id int64) (leagues.Member, bool) {
	for _, member := range members {
		if member.ID == id {
			return member, true
		}
	}
	return leagues.Member{}, false
}
