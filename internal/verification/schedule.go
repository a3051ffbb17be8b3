// internal/verification/schedule.go
package verification

import (
	"context"
	"strings"
	"time"

	"github.com/codr1/courtleague/internal/leagues"
)

// PostponeRequest moves a match off its slot until it is rescheduled.
type PostponeRequest struct {
	Reason         string     `json:"reason"`
	MakeupDeadline *time.Time `json:"makeupDeadline,omitempty"`
}

// Postpone is open to participants and organizers on an unscored match.
func (e *Engine) Postpone(ctx context.Context, matchID int64, actor leagues.Actor, req PostponeRequest) (leagues.Match, error) {
	reason := strings.TrimSpace(req.Reason)
	return e.run(ctx, matchID, actor, transition{
		action: actionPostpone,
		reason: reason,
		write:  writeSchedule,
		apply: func(s *step, match *leagues.Match) error {
			if !s.organizer && !match.IsParticipant(s.actor.PlayerID) {
				return leagues.Invalid("actor", "player %d is not a participant", s.actor.PlayerID)
			}
			if match.Status != leagues.StatusScheduled || match.ScoreState != leagues.ScoreUnscored {
				return leagues.Conflict("match", match.ID, string(match.Status), actionPostpone, "only an unscored scheduled match can be postponed")
			}
			if reason == "" {
				return leagues.Invalid("reason", "a postponement reason is required")
			}
			if req.MakeupDeadline != nil && !req.MakeupDeadline.After(s.now) {
				return leagues.Invalid("makeupDeadline", "must be in the future")
			}

			match.Postpone = &leagues.PostponeRecord{
				Reason:         reason,
				OriginalDate:   match.ScheduledAt,
				MakeupDeadline: req.MakeupDeadline,
				PostponedBy:    s.actor.PlayerID,
				PostponedAt:    s.now,
			}
			match.Status = leagues.StatusPostponed
			match.ScheduledAt = nil

			var recipients []int64
			for _, playerID := range match.PlayerIDs() {
				if playerID != s.actor.PlayerID {
					recipients = append(recipients, playerID)
				}
			}
			s.notify(NoticePostponed, *match, recipients, reason)
			return nil
		},
	})
}

// Reschedule gives a scheduled or postponed match a new time and clears any
// postponement.
func (e *Engine) Reschedule(ctx context.Context, matchID int64, actor leagues.Actor, at time.Time) (leagues.Match, error) {
	return e.run(ctx, matchID, actor, transition{
		action: actionReschedule,
		write:  writeSchedule,
		apply: func(s *step, match *leagues.Match) error {
			if !s.organizer && !match.IsParticipant(s.actor.PlayerID) {
				return leagues.Invalid("actor", "player %d is not a participant", s.actor.PlayerID)
			}
			if match.Status != leagues.StatusScheduled && match.Status != leagues.StatusPostponed {
				return leagues.Conflict("match", match.ID, string(match.Status), actionReschedule, "only a scheduled or postponed match can be rescheduled")
			}
			if at.IsZero() {
				return leagues.Invalid("scheduledAt", "a new time is required")
			}

			when := at.UTC()
			match.ScheduledAt = &when
			match.Status = leagues.StatusScheduled
			match.Postpone = nil
			return nil
		},
	})
}

// Cancel withdraws a match that has no official result.
func (e *Engine) Cancel(ctx context.Context, matchID int64, actor leagues.Actor, reason string) (leagues.Match, error) {
	return e.run(ctx, matchID, actor, transition{
		action: actionCancel,
		reason: strings.TrimSpace(reason),
		write:  writeSchedule,
		apply: func(s *step, match *leagues.Match) error {
			if !s.organizer {
				return leagues.Invalid("actor", "only an organizer may cancel a match")
			}
			if match.Status == leagues.StatusCancelled {
				return leagues.Conflict("match", match.ID, string(match.Status), actionCancel, "match is already cancelled")
			}
			if match.ScoreState == leagues.ScoreOfficial {
				return leagues.Conflict("match", match.ID, string(match.ScoreState), actionCancel, "match already has an official result")
			}
			match.Status = leagues.StatusCancelled
			match.Postpone = nil
			return nil
		},
	})
}
