// internal/verification/jobs.go
package verification

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	dbgen "github.com/codr1/courtleague/internal/db/generated"
	"github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/models"
)

// AutoConfirmStale finalizes proposals that have waited longer than their
// league's auto-confirm window. It returns how many matches became official.
func (e *Engine) AutoConfirmStale(ctx context.Context) (int, error) {
	logger := log.Ctx(ctx).With().Str("component", "verification_engine").Str("job", "auto_confirm").Logger()

	leagueIDs, err := e.db.Queries.ListAutoConfirmLeagueIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list auto-confirm leagues: %w", err)
	}

	now := e.now().UTC()
	confirmed := 0
	var failed []error
	for _, leagueID := range leagueIDs {
		league, err := models.GetLeague(ctx, e.db.Queries, leagueID)
		if err != nil {
			failed = append(failed, fmt.Errorf("league %d: %w", leagueID, err))
			continue
		}

		for _, state := range []leagues.ScoreState{leagues.ScoreProposed, leagues.ScoreSigned} {
			rows, err := e.db.Queries.ListLeagueMatchesByScoreState(ctx, dbgen.ListLeagueMatchesByScoreStateParams{
				LeagueID:   leagueID,
				ScoreState: string(state),
			})
			if err != nil {
				failed = append(failed, fmt.Errorf("league %d: list %s matches: %w", leagueID, state, err))
				continue
			}
			matches, err := models.MatchesFromDB(rows)
			if err != nil {
				failed = append(failed, fmt.Errorf("league %d: %w", leagueID, err))
				continue
			}

			for _, match := range matches {
				if match.Status != leagues.StatusPendingConfirmation || !stale(match.Proposal, league.Verification.AutoConfirmAfter, now) {
					continue
				}
				if _, err := e.autoConfirm(ctx, match.ID, match.Proposal.ID); err != nil {
					if leagues.IsConflict(err) {
						continue
					}
					failed = append(failed, fmt.Errorf("match %d: %w", match.ID, err))
					continue
				}
				confirmed++
			}
		}
	}

	if confirmed > 0 {
		logger.Info().Int("confirmed", confirmed).Msg("Auto-confirmed stale proposals")
	}
	return confirmed, errors.Join(failed...)
}

// NotifyOverdueMakeups tells participants and organizers about postponed
// matches whose makeup deadline has passed. Each match is reported once per
// postponement.
func (e *Engine) NotifyOverdueMakeups(ctx context.Context) (int, error) {
	logger := log.Ctx(ctx).With().Str("component", "verification_engine").Str("job", "makeup_notices").Logger()

	rows, err := e.db.Queries.ListPostponedMatchesAwaitingNotice(ctx)
	if err != nil {
		return 0, fmt.Errorf("list postponed matches: %w", err)
	}

	now := e.now().UTC()
	sent := 0
	var failed []error
	for _, row := range rows {
		match, err := models.MatchFromDB(row)
		if err != nil {
			failed = append(failed, fmt.Errorf("match %d: %w", row.ID, err))
			continue
		}
		if match.Postpone == nil || match.Postpone.MakeupDeadline == nil || match.Postpone.MakeupDeadline.After(now) {
			continue
		}

		league, err := models.GetLeague(ctx, e.db.Queries, match.LeagueID)
		if err != nil {
			failed = append(failed, fmt.Errorf("match %d: %w", match.ID, err))
			continue
		}
		organizers, err := organizerIDs(ctx, e.db.Queries, league.ID)
		if err != nil {
			failed = append(failed, fmt.Errorf("match %d: %w", match.ID, err))
			continue
		}
		if err := e.db.Queries.MarkMakeupNoticeSent(ctx, match.ID); err != nil {
			failed = append(failed, fmt.Errorf("match %d: mark notice sent: %w", match.ID, err))
			continue
		}

		recipients := match.PlayerIDs()
		for _, id := range organizers {
			if !slices.Contains(recipients, id) {
				recipients = append(recipients, id)
			}
		}
		e.dispatch(ctx, league.ID, effects{notices: []Notice{{
			Kind:       NoticeMakeupOverdue,
			LeagueID:   league.ID,
			LeagueName: league.Name,
			MatchID:    match.ID,
			Recipients: recipients,
			Reason:     match.Postpone.Reason,
			Match:      match,
		}}})
		sent++
	}

	if sent > 0 {
		logger.Info().Int("notices", sent).Msg("Sent overdue makeup notices")
	}
	return sent, errors.Join(failed...)
}
