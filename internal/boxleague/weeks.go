// internal/boxleague/weeks.go
package boxleague

import (
	"context"
	"fmt"

	dbgen "github.com/codr1/courtleague/internal/db/generated"
	"github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/models"
)

// SeedFirstWeek creates week 1 as a draft, splitting active members into
// boxes by rank.
func (m *Manager) SeedFirstWeek(ctx context.Context, leagueID int64, actor leagues.Actor) (leagues.BoxWeek, error) {
	logger := m.logger(ctx, leagueID, 1)
	var week leagues.BoxWeek
	err := m.inTx(ctx, logger, func(q *dbgen.Queries) error {
		league, err := loadBoxLeague(ctx, q, leagueID, actor)
		if err != nil {
			return err
		}
		if _, exists, err := latestWeek(ctx, q, leagueID); err != nil {
			return err
		} else if exists {
			return leagues.Conflict("league", leagueID, string(league.Format), "seed first week", "weeks already exist")
		}

		members, err := models.ListMembers(ctx, q, leagueID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		boxes, err := leagues.PartitionBoxes(members, league.Box.BoxSize)
		if err != nil {
			return err
		}
		week, err = createWeek(ctx, q, leagueID, 1, boxes)
		return err
	})
	if err != nil {
		return leagues.BoxWeek{}, err
	}
	logger.Info().Int("box_count", len(week.Boxes)).Msg("Seeded first box week")
	return week, nil
}

// CreateDraft stores explicit assignments as the next week's draft. When the
// latest week is still a draft its assignments are replaced; otherwise the
// latest week must be finalized so numbering has no gaps.
func (m *Manager) CreateDraft(ctx context.Context, leagueID int64, actor leagues.Actor, boxes []leagues.Box) (leagues.BoxWeek, error) {
	logger := m.logger(ctx, leagueID, 0)
	var week leagues.BoxWeek
	err := m.inTx(ctx, logger, func(q *dbgen.Queries) error {
		if _, err := loadBoxLeague(ctx, q, leagueID, actor); err != nil {
			return err
		}
		members, err := models.ListMembers(ctx, q, leagueID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		if err := checkRoster(boxes, members); err != nil {
			return err
		}

		number := 1
		latest, exists, err := latestWeek(ctx, q, leagueID)
		if err != nil {
			return err
		}
		if exists {
			switch latest.State {
			case leagues.WeekDraft:
				latest.Boxes = boxes
				week, err = writeWeek(ctx, q, latest)
				return err
			case leagues.WeekFinalized:
				number = latest.Number + 1
			default:
				return leagues.Conflict("box week", int64(latest.Number), string(latest.State), "create draft", "the latest week is neither a draft nor finalized")
			}
		}
		week, err = createWeek(ctx, q, leagueID, number, boxes)
		return err
	})
	if err != nil {
		return leagues.BoxWeek{}, err
	}
	logger = m.logger(ctx, leagueID, week.Number)
	logger.Info().Msg("Created box week draft")
	return week, nil
}

// RecalculateDraft rebuilds a draft's boxes from the previous week's frozen
// standings and the league's movement rules.
func (m *Manager) RecalculateDraft(ctx context.Context, leagueID int64, number int, actor leagues.Actor) (DraftReport, error) {
	logger := m.logger(ctx, leagueID, number)
	var report DraftReport
	err := m.inTx(ctx, logger, func(q *dbgen.Queries) error {
		league, err := loadBoxLeague(ctx, q, leagueID, actor)
		if err != nil {
			return err
		}
		week, err := models.GetBoxWeek(ctx, q, leagueID, number)
		if err != nil {
			return err
		}
		if week.State != leagues.WeekDraft {
			return leagues.Conflict("box week", int64(number), string(week.State), "recalculate", "only a draft can be recalculated")
		}
		if number <= 1 {
			return leagues.Conflict("box week", int64(number), string(week.State), "recalculate", "the first week has no previous standings")
		}
		previous, err := models.GetBoxWeek(ctx, q, leagueID, number-1)
		if err != nil {
			return err
		}
		if previous.State != leagues.WeekFinalized {
			return leagues.Conflict("box week", int64(previous.Number), string(previous.State), "recalculate", "the previous week is not finalized")
		}

		members, err := models.ListMembers(ctx, q, leagueID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		movements, next := leagues.ComputeMovements(previous.Standings, league.Box)
		if week.Boxes, err = activeBoxes(next, members, league.Box.BoxSize); err != nil {
			return err
		}
		if week, err = writeWeek(ctx, q, week); err != nil {
			return err
		}
		report = DraftReport{Week: week, Movements: movements}
		return nil
	})
	if err != nil {
		return DraftReport{}, err
	}
	logger.Info().Int("movement_count", len(report.Movements)).Msg("Recalculated box week draft")
	return report, nil
}

// Activate materializes the week's matches and opens the week. Matches are
// written in their own transaction first; when a previous attempt already
// wrote them they are reused, so retrying after an interruption is safe.
func (m *Manager) Activate(ctx context.Context, leagueID int64, number int, actor leagues.Actor) (leagues.BoxWeek, error) {
	logger := m.logger(ctx, leagueID, number)

	created := 0
	err := m.inTx(ctx, logger, func(q *dbgen.Queries) error {
		created = 0
		league, week, err := m.loadDraftForActivation(ctx, q, leagueID, number, actor)
		if err != nil {
			return err
		}
		existing, err := models.ListWeekMatches(ctx, q, leagueID, number)
		if err != nil {
			return fmt.Errorf("list week matches: %w", err)
		}
		if len(existing) > 0 {
			logger.Info().Int("match_count", len(existing)).Msg("Recovered matches from an interrupted activation")
			return nil
		}

		members, err := models.ListMembers(ctx, q, leagueID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		schedule, err := leagues.GenerateBoxWeek(league, number, week.Boxes, members)
		if err != nil {
			return err
		}
		for _, scheduled := range schedule {
			params, err := models.NewMatchParams(scheduled, league.Verification.RequiredConfirmations, false)
			if err != nil {
				return fmt.Errorf("encode match: %w", err)
			}
			if _, err := q.CreateLeagueMatch(ctx, params); err != nil {
				return fmt.Errorf("create week match: %w", err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to materialize box week matches")
		return leagues.BoxWeek{}, err
	}

	var activated leagues.BoxWeek
	err = m.inTx(ctx, logger, func(q *dbgen.Queries) error {
		_, week, err := m.loadDraftForActivation(ctx, q, leagueID, number, actor)
		if err != nil {
			return err
		}
		matches, err := models.ListWeekMatches(ctx, q, leagueID, number)
		if err != nil {
			return fmt.Errorf("list week matches: %w", err)
		}

		at := m.now().UTC()
		week.State = leagues.WeekActive
		week.MatchIDs = matchIDs(matches)
		week.TotalMatches = len(matches)
		week.ActivatedBy = actor.PlayerID
		week.ActivatedAt = &at
		activated, err = writeWeek(ctx, q, week)
		return err
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to activate box week")
		return leagues.BoxWeek{}, err
	}

	logger.Info().
		Int("created_matches", created).
		Int("total_matches", activated.TotalMatches).
		Msg("Activated box week")
	return activated, nil
}

func (m *Manager) loadDraftForActivation(ctx context.Context, q dbgen.Querier, leagueID int64, number int, actor leagues.Actor) (leagues.League, leagues.BoxWeek, error) {
	league, err := loadBoxLeague(ctx, q, leagueID, actor)
	if err != nil {
		return leagues.League{}, leagues.BoxWeek{}, err
	}
	week, err := models.GetBoxWeek(ctx, q, leagueID, number)
	if err != nil {
		return leagues.League{}, leagues.BoxWeek{}, err
	}
	if week.State != leagues.WeekDraft {
		return leagues.League{}, leagues.BoxWeek{}, leagues.Conflict("box week", int64(number), string(week.State), "activate", "only a draft can be activated")
	}
	open, err := q.GetOpenBoxWeek(ctx, leagueID)
	if err == nil {
		return leagues.League{}, leagues.BoxWeek{}, leagues.Conflict("box week", open.WeekNumber, open.State, "activate", fmt.Sprintf("week %d is still open", open.WeekNumber))
	}
	if !isNoRows(err) {
		return leagues.League{}, leagues.BoxWeek{}, fmt.Errorf("load open box week: %w", err)
	}
	if err := leagues.ValidateAssignments(week.Boxes); err != nil {
		return leagues.League{}, leagues.BoxWeek{}, err
	}
	return league, week, nil
}

// StartClosing moves an active week to closing. Unresolved matches are
// reported but do not block.
func (m *Manager) StartClosing(ctx context.Context, leagueID int64, number int, actor leagues.Actor) (ClosingReport, error) {
	logger := m.logger(ctx, leagueID, number)
	var report ClosingReport
	err := m.inTx(ctx, logger, func(q *dbgen.Queries) error {
		if _, err := loadBoxLeague(ctx, q, leagueID, actor); err != nil {
			return err
		}
		week, err := models.GetBoxWeek(ctx, q, leagueID, number)
		if err != nil {
			return err
		}
		if week.State != leagues.WeekActive {
			return leagues.Conflict("box week", int64(number), string(week.State), "start closing", "only an active week can start closing")
		}
		matches, err := models.ListWeekMatches(ctx, q, leagueID, number)
		if err != nil {
			return fmt.Errorf("list week matches: %w", err)
		}

		report = ClosingReport{}
		for _, match := range matches {
			switch match.Status {
			case leagues.StatusPendingConfirmation:
				report.Pending++
			case leagues.StatusDisputed:
				report.Disputed++
			case leagues.StatusScheduled, leagues.StatusPostponed:
				report.Unplayed++
			}
		}

		week.State = leagues.WeekClosing
		report.Week, err = writeWeek(ctx, q, week)
		return err
	})
	if err != nil {
		return ClosingReport{}, err
	}
	logger.Info().
		Int("pending", report.Pending).
		Int("disputed", report.Disputed).
		Int("unplayed", report.Unplayed).
		Msg("Box week closing")
	return report, nil
}

// Finalize freezes per-box standings over the week's official results,
// records movements and, while the season has weeks left, drafts the next
// week from them. A finalized week is never recomputed.
func (m *Manager) Finalize(ctx context.Context, leagueID int64, number int, actor leagues.Actor) (FinalizeReport, error) {
	logger := m.logger(ctx, leagueID, number)
	var report FinalizeReport
	err := m.inTx(ctx, logger, func(q *dbgen.Queries) error {
		league, err := loadBoxLeague(ctx, q, leagueID, actor)
		if err != nil {
			return err
		}
		week, err := models.GetBoxWeek(ctx, q, leagueID, number)
		if err != nil {
			return err
		}
		if week.State != leagues.WeekClosing {
			return leagues.Conflict("box week", int64(number), string(week.State), "finalize", "only a closing week can be finalized")
		}

		members, err := models.ListMembers(ctx, q, leagueID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		matches, err := models.ListWeekMatches(ctx, q, leagueID, number)
		if err != nil {
			return fmt.Errorf("list week matches: %w", err)
		}

		standings := leagues.BoxWeekStandings(league, week.Boxes, members, matches)
		movements, next := leagues.ComputeMovements(standings, league.Box)

		at := m.now().UTC()
		week.State = leagues.WeekFinalized
		week.Standings = standings
		week.Movements = movements
		week.FinalizedBy = actor.PlayerID
		week.FinalizedAt = &at
		if week, err = writeWeek(ctx, q, week); err != nil {
			return err
		}
		report = FinalizeReport{Week: week, Movements: movements}

		if league.Box.SeasonWeeks > 0 && number >= league.Box.SeasonWeeks {
			return nil
		}
		nextBoxes, err := activeBoxes(next, members, league.Box.BoxSize)
		if err != nil {
			if leagues.IsValidation(err) {
				logger.Warn().Err(err).Msg("Not enough active members to draft the next week")
				return nil
			}
			return err
		}
		draft, err := createWeek(ctx, q, leagueID, number+1, nextBoxes)
		if err != nil {
			return err
		}
		report.NextDraft = &draft
		return nil
	})
	if err != nil {
		return FinalizeReport{}, err
	}

	event := logger.Info().Int("movement_count", len(report.Movements))
	if report.NextDraft != nil {
		event = event.Int("next_week", report.NextDraft.Number)
	}
	event.Msg("Finalized box week")
	return report, nil
}

// Deactivate rolls an active week back to draft and deletes its matches.
// A week with official results cannot be rolled back.
func (m *Manager) Deactivate(ctx context.Context, leagueID int64, number int, actor leagues.Actor) (leagues.BoxWeek, error) {
	logger := m.logger(ctx, leagueID, number)
	var week leagues.BoxWeek
	deleted := int64(0)
	err := m.inTx(ctx, logger, func(q *dbgen.Queries) error {
		if _, err := loadBoxLeague(ctx, q, leagueID, actor); err != nil {
			return err
		}
		var err error
		week, err = models.GetBoxWeek(ctx, q, leagueID, number)
		if err != nil {
			return err
		}
		if week.State != leagues.WeekActive {
			return leagues.Conflict("box week", int64(number), string(week.State), "deactivate", "only an active week can be deactivated")
		}
		matches, err := models.ListWeekMatches(ctx, q, leagueID, number)
		if err != nil {
			return fmt.Errorf("list week matches: %w", err)
		}
		for _, match := range matches {
			if match.ScoreState == leagues.ScoreOfficial {
				return leagues.Conflict("box week", int64(number), string(week.State), "deactivate", fmt.Sprintf("match %d already has an official result", match.ID))
			}
		}

		deleted, err = q.DeleteOpenWeekMatches(ctx, dbgen.DeleteOpenWeekMatchesParams{
			LeagueID:   leagueID,
			WeekNumber: int64(number),
		})
		if err != nil {
			return fmt.Errorf("delete week matches: %w", err)
		}

		week.State = leagues.WeekDraft
		week.MatchIDs = nil
		week.TotalMatches = 0
		week.ActivatedBy = 0
		week.ActivatedAt = nil
		week, err = writeWeek(ctx, q, week)
		return err
	})
	if err != nil {
		return leagues.BoxWeek{}, err
	}
	logger.Warn().Int64("deleted_matches", deleted).Int64("actor_id", actor.PlayerID).Msg("Deactivated box week")
	return week, nil
}

// GetWeek reads a week with its matches. An open week whose match linkage is
// missing is repaired from the week's matches; when that fails the view
// carries a RecoveryWarning instead of an error.
func (m *Manager) GetWeek(ctx context.Context, leagueID int64, number int) (WeekView, error) {
	logger := m.logger(ctx, leagueID, number)

	week, err := models.GetBoxWeek(ctx, m.db.Queries, leagueID, number)
	if err != nil {
		return WeekView{}, err
	}
	matches, err := models.ListWeekMatches(ctx, m.db.Queries, leagueID, number)
	if err != nil {
		return WeekView{}, fmt.Errorf("list week matches: %w", err)
	}
	view := WeekView{Week: week, Matches: matches}

	if !week.Open() || (len(week.MatchIDs) > 0 && len(week.MatchIDs) == week.TotalMatches) {
		return view, nil
	}

	if len(matches) == 0 {
		view.Warning = &leagues.RecoveryWarning{
			LeagueID:   leagueID,
			WeekNumber: number,
			Reason:     "week is open but has no materialized matches",
		}
		logger.Warn().Msg("Box week has no matches to recover")
		return view, nil
	}

	week.MatchIDs = matchIDs(matches)
	week.TotalMatches = len(matches)
	repaired, err := writeWeek(ctx, m.db.Queries, week)
	if err != nil {
		view.Warning = &leagues.RecoveryWarning{
			LeagueID:   leagueID,
			WeekNumber: number,
			Reason:     "could not relink week matches",
			Err:        err,
		}
		logger.Warn().Err(err).Msg("Box week repair failed")
		return view, nil
	}
	logger.Info().Int("match_count", len(matches)).Msg("Repaired box week match linkage")
	view.Week = repaired
	return view, nil
}

func (m *Manager) ListWeeks(ctx context.Context, leagueID int64) ([]leagues.BoxWeek, error) {
	if _, err := models.GetLeague(ctx, m.db.Queries, leagueID); err != nil {
		return nil, err
	}
	rows, err := m.db.Queries.ListBoxWeeks(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list box weeks: %w", err)
	}
	return models.BoxWeeksFromDB(rows)
}

func matchIDs(matches []leagues.Match) []int64 {
	ids := make([]int64, 0, len(matches))
	for _, match := range matches {
		ids = append(ids, match.ID)
	}
	return ids
}
