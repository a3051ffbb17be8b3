// internal/verification/scoring.go
package verification

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	dbgen "github.com/codr1/courtleague/internal/db/generated"
	"github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/models"
)

// FinalizeRequest carries optional organizer overrides. With no games the
// proposal's games are used; an organizer may record a winner without game
// scores.
type FinalizeRequest struct {
	Games  []leagues.Game `json:"games"`
	Winner leagues.Side   `json:"winner"`
}

// Propose records a score proposal for the match. With auto-confirm and no
// waiting window the proposal is finalized right away.
func (e *Engine) Propose(ctx context.Context, matchID int64, actor leagues.Actor, games []leagues.Game) (leagues.Match, error) {
	var immediate bool
	match, err := e.run(ctx, matchID, actor, transition{
		action: actionPropose,
		write:  writeScoring,
		apply: func(s *step, match *leagues.Match) error {
			if err := requirePlayable(match, actionPropose); err != nil {
				return err
			}
			switch match.ScoreState {
			case leagues.ScoreUnscored:
			case leagues.ScoreDisputed:
				if !s.organizer {
					return leagues.Conflict("match", match.ID, string(match.ScoreState), actionPropose, "only an organizer may re-propose a disputed score")
				}
			default:
				return leagues.Conflict("match", match.ID, string(match.ScoreState), actionPropose, "a score is already in progress")
			}

			side := match.SideOf(s.actor.PlayerID)
			resolving := match.ScoreState == leagues.ScoreDisputed
			switch {
			case side == leagues.SideNone && !s.organizer:
				return leagues.Invalid("actor", "player %d is not a participant", s.actor.PlayerID)
			case side == leagues.SideNone && s.league.RatingGoverned && !resolving:
				return leagues.Invalid("actor", "only participants may propose scores in a rating governed league")
			case side != leagues.SideNone && s.organizer && s.league.RatingGoverned:
				return leagues.Invalid("actor", "an organizer may not propose the score of their own match in a rating governed league")
			}

			if _, err := leagues.ValidateMatchGames(games, s.league.Scoring); err != nil {
				return err
			}

			match.Proposal = &leagues.Proposal{
				ID:         uuid.NewString(),
				ProposerID: s.actor.PlayerID,
				Side:       side,
				Games:      slices.Clone(games),
				ProposedAt: s.now,
			}
			match.ScoreState = leagues.ScoreProposed
			match.Status = leagues.StatusPendingConfirmation
			match.Verification = leagues.Verification{
				Confirmations: []int64{},
				Required:      requiredConfirmations(s.league.Verification.RequiredConfirmations, *match, side, s.actor.PlayerID),
			}

			proposed := *match
			proposed.Scores = games
			s.notify(NoticeScoreProposed, proposed, confirmers(*match, side, s.actor.PlayerID), "")

			policy := s.league.Verification
			immediate = policy.AutoConfirm && policy.AutoConfirmAfter <= 0
			return nil
		},
	})
	if err != nil || !immediate {
		return match, err
	}
	return e.autoConfirm(ctx, matchID, match.Proposal.ID)
}

// Sign records a confirmation from the side that did not propose.
func (e *Engine) Sign(ctx context.Context, matchID int64, actor leagues.Actor) (leagues.Match, error) {
	return e.run(ctx, matchID, actor, transition{
		action: actionSign,
		write:  writeScoring,
		apply: func(s *step, match *leagues.Match) error {
			if err := requirePlayable(match, actionSign); err != nil {
				return err
			}
			if match.ScoreState != leagues.ScoreProposed || match.Proposal == nil {
				return leagues.Conflict("match", match.ID, string(match.ScoreState), actionSign, "no pending proposal to confirm")
			}

			side := match.SideOf(s.actor.PlayerID)
			if side == leagues.SideNone {
				return leagues.Invalid("actor", "player %d is not a participant", s.actor.PlayerID)
			}
			if s.actor.PlayerID == match.Proposal.ProposerID {
				return leagues.Invalid("actor", "the proposer cannot confirm their own score")
			}
			if match.Proposal.Side != leagues.SideNone && side == match.Proposal.Side {
				return leagues.Invalid("actor", "only the opposing side may confirm the score")
			}
			if slices.Contains(match.Verification.Confirmations, s.actor.PlayerID) {
				return leagues.Conflict("match", match.ID, string(match.ScoreState), actionSign, "player has already confirmed")
			}

			match.Verification.Confirmations = append(match.Verification.Confirmations, s.actor.PlayerID)
			if len(match.Verification.Confirmations) >= match.Verification.Required {
				match.ScoreState = leagues.ScoreSigned
			}
			return nil
		},
	})
}

// Dispute contests a proposed or signed score and hands the match to the
// organizers.
func (e *Engine) Dispute(ctx context.Context, matchID int64, actor leagues.Actor, reason, notes string) (leagues.Match, error) {
	reason = strings.TrimSpace(reason)
	return e.run(ctx, matchID, actor, transition{
		action: actionDispute,
		reason: reason,
		write:  writeScoring,
		apply: func(s *step, match *leagues.Match) error {
			if err := requirePlayable(match, actionDispute); err != nil {
				return err
			}
			if match.ScoreState != leagues.ScoreProposed && match.ScoreState != leagues.ScoreSigned {
				return leagues.Conflict("match", match.ID, string(match.ScoreState), actionDispute, "only a proposed or signed score can be disputed")
			}
			if !s.league.Verification.AllowDisputes {
				return leagues.Invalid("dispute", "league %d does not allow disputes", s.league.ID)
			}
			if !match.IsParticipant(s.actor.PlayerID) {
				return leagues.Invalid("actor", "player %d is not a participant", s.actor.PlayerID)
			}
			if reason == "" {
				return leagues.Invalid("reason", "a dispute reason is required")
			}

			at := s.now
			match.ScoreState = leagues.ScoreDisputed
			match.Status = leagues.StatusDisputed
			match.Verification.DisputeReason = reason
			match.Verification.DisputeNotes = strings.TrimSpace(notes)
			match.Verification.DisputedBy = s.actor.PlayerID
			match.Verification.DisputedAt = &at

			organizers, err := organizerIDs(s.ctx, s.q, s.league.ID)
			if err != nil {
				return err
			}
			s.notify(NoticeScoreDisputed, *match, organizers, reason)
			return nil
		},
	})
}

// Finalize makes a score official. From signed it takes the proposal; a
// non-participating organizer may finalize from any earlier state; an
// organizer may correct an official result.
func (e *Engine) Finalize(ctx context.Context, matchID int64, actor leagues.Actor, req FinalizeRequest) (leagues.Match, error) {
	return e.run(ctx, matchID, actor, transition{
		action: actionFinalize,
		write:  writeScoring,
		apply: func(s *step, match *leagues.Match) error {
			if match.ScoreState != leagues.ScoreOfficial {
				if err := requirePlayable(match, actionFinalize); err != nil {
					return err
				}
			}
			participant := match.IsParticipant(s.actor.PlayerID)

			switch match.ScoreState {
			case leagues.ScoreOfficial:
				if !s.organizer {
					return leagues.Conflict("match", match.ID, string(match.ScoreState), actionFinalize, "only an organizer may correct an official result")
				}
				if len(req.Games) == 0 && req.Winner == leagues.SideNone {
					return leagues.Invalid("games", "a correction needs games or a winner")
				}
				s.action = actionCorrect
			case leagues.ScoreSigned:
				if !participant && !s.organizer {
					return leagues.Invalid("actor", "player %d is not a participant", s.actor.PlayerID)
				}
				if (len(req.Games) > 0 || req.Winner != leagues.SideNone) && !s.organizer {
					return leagues.Invalid("games", "only an organizer may override the signed score")
				}
			default:
				if !s.organizer || participant {
					return leagues.Conflict("match", match.ID, string(match.ScoreState), actionFinalize, "the score must be signed before it can be finalized")
				}
			}

			games := req.Games
			if len(games) == 0 && match.ScoreState != leagues.ScoreOfficial && match.Proposal != nil {
				games = match.Proposal.Games
			}
			winner, err := resolveWinner(games, req.Winner, s.league.Scoring)
			if err != nil {
				return err
			}
			return s.finalize(match, games, winner, leagues.StatusCompleted)
		},
	})
}

// Reset discards the current proposal and returns the match to unscored.
func (e *Engine) Reset(ctx context.Context, matchID int64, actor leagues.Actor, reason string) (leagues.Match, error) {
	return e.run(ctx, matchID, actor, transition{
		action: actionReset,
		reason: reason,
		write:  writeScoring,
		apply: func(s *step, match *leagues.Match) error {
			if !s.organizer {
				return leagues.Invalid("actor", "only an organizer may reset a score")
			}
			if err := requirePlayable(match, actionReset); err != nil {
				return err
			}
			switch match.ScoreState {
			case leagues.ScoreProposed, leagues.ScoreSigned, leagues.ScoreDisputed:
			default:
				return leagues.Conflict("match", match.ID, string(match.ScoreState), actionReset, "there is no score in progress")
			}

			match.Proposal = nil
			match.ScoreState = leagues.ScoreUnscored
			match.Status = leagues.StatusScheduled
			match.Verification = leagues.Verification{
				Confirmations: []int64{},
				Required:      s.league.Verification.RequiredConfirmations,
			}
			return nil
		},
	})
}

// RecordForfeit makes the match official with no game scores. noShow
// distinguishes an absent side from one that conceded.
func (e *Engine) RecordForfeit(ctx context.Context, matchID int64, actor leagues.Actor, winner leagues.Side, noShow bool, reason string) (leagues.Match, error) {
	status := leagues.StatusForfeit
	if noShow {
		status = leagues.StatusNoShow
	}
	return e.run(ctx, matchID, actor, transition{
		action: actionForfeit,
		reason: reason,
		write:  writeScoring,
		apply: func(s *step, match *leagues.Match) error {
			if !s.organizer {
				return leagues.Invalid("actor", "only an organizer may record a forfeit")
			}
			if match.Status == leagues.StatusCancelled {
				return leagues.Conflict("match", match.ID, string(match.Status), actionForfeit, "match is cancelled")
			}
			if match.ScoreState == leagues.ScoreOfficial {
				return leagues.Conflict("match", match.ID, string(match.ScoreState), actionForfeit, "match already has an official result")
			}
			if winner == leagues.SideNone {
				return leagues.Invalid("winner", "a forfeit needs a winning side")
			}
			match.Proposal = nil
			match.Postpone = nil
			return s.finalize(match, []leagues.Game{}, winner, status)
		},
	})
}

// autoConfirm finalizes a pending proposal on behalf of the league policy.
// proposalID pins the proposal that was judged stale.
func (e *Engine) autoConfirm(ctx context.Context, matchID int64, proposalID string) (leagues.Match, error) {
	return e.run(ctx, matchID, leagues.Actor{DisplayName: "auto-confirm"}, transition{
		action: actionAutoConfirm,
		write:  writeScoring,
		system: true,
		apply: func(s *step, match *leagues.Match) error {
			if match.ScoreState != leagues.ScoreProposed && match.ScoreState != leagues.ScoreSigned {
				return leagues.Conflict("match", match.ID, string(match.ScoreState), actionAutoConfirm, "no pending proposal")
			}
			if match.Proposal == nil || match.Proposal.ID != proposalID {
				return leagues.Conflict("match", match.ID, string(match.ScoreState), actionAutoConfirm, "proposal was superseded")
			}
			winner, err := leagues.ValidateMatchGames(match.Proposal.Games, s.league.Scoring)
			if err != nil {
				return err
			}
			return s.finalize(match, match.Proposal.Games, winner, leagues.StatusCompleted)
		},
	})
}

// finalize writes the authoritative result and queues its effects.
func (s *step) finalize(match *leagues.Match, games []leagues.Game, winner leagues.Side, status leagues.MatchStatus) error {
	correction := match.ScoreState == leagues.ScoreOfficial
	at := s.now

	match.Scores = slices.Clone(games)
	match.Winner = winner
	match.ScoreState = leagues.ScoreOfficial
	match.Status = status
	match.Verification.FinalizedBy = s.actor.PlayerID
	match.Verification.FinalizedAt = &at

	eligible, err := s.engine.ratings.Eligible(s.ctx, s.q, s.league, *match)
	if err != nil {
		return fmt.Errorf("check rating eligibility: %w", err)
	}
	match.Verification.RatingEligible = eligible

	if s.league.Format == leagues.FormatLadder && !s.row.LadderApplied {
		if err := s.applyLadder(*match); err != nil {
			return err
		}
	}

	s.effects.recompute = true
	reason := ""
	if correction {
		reason = "corrected"
	}
	s.notify(NoticeScoreFinalized, *match, match.PlayerIDs(), reason)
	return nil
}

// applyLadder moves rungs for the first official result of a challenge.
func (s *step) applyLadder(match leagues.Match) error {
	winnerSide := match.Side(match.Winner)
	loserSide := match.Side(match.Winner.Opposite())
	if len(winnerSide.MemberIDs) == 0 || len(loserSide.MemberIDs) == 0 {
		return nil
	}

	members, err := models.ListMembers(s.ctx, s.q, s.league.ID)
	if err != nil {
		return fmt.Errorf("list ladder members: %w", err)
	}
	var ladder []leagues.Member
	for _, member := range members {
		if member.Division == match.Division {
			ladder = append(ladder, member)
		}
	}

	for _, change := range leagues.Leapfrog(ladder, winnerSide.MemberIDs[0], loserSide.MemberIDs[0]) {
		if err := s.q.UpdateLeagueMemberRank(s.ctx, dbgen.UpdateLeagueMemberRankParams{
			Rank: int64(change.Rank),
			ID:   change.MemberID,
		}); err != nil {
			return fmt.Errorf("update ladder rung for member %d: %w", change.MemberID, err)
		}
	}
	if _, err := s.q.MarkLeagueMatchLadderApplied(s.ctx, match.ID); err != nil {
		return fmt.Errorf("mark ladder applied: %w", err)
	}
	return nil
}

// requirePlayable rejects scoring on matches that are not being played.
func requirePlayable(match *leagues.Match, operation string) error {
	switch match.Status {
	case leagues.StatusCancelled, leagues.StatusPostponed, leagues.StatusForfeit, leagues.StatusNoShow:
		return leagues.Conflict("match", match.ID, string(match.Status), operation, "match is not being played")
	}
	return nil
}

func resolveWinner(games []leagues.Game, requested leagues.Side, rules leagues.ScoringRules) (leagues.Side, error) {
	if len(games) == 0 {
		if requested == leagues.SideNone {
			return leagues.SideNone, leagues.Invalid("winner", "a result without games needs a winner")
		}
		return requested, nil
	}
	winner, err := leagues.ValidateMatchGames(games, rules)
	if err != nil {
		return leagues.SideNone, err
	}
	if requested != leagues.SideNone && requested != winner {
		return leagues.SideNone, leagues.Invalid("winner", "side %s does not win these games", requested)
	}
	return winner, nil
}

// requiredConfirmations caps the league requirement at the number of
// players able to confirm.
func requiredConfirmations(policy int, match leagues.Match, side leagues.Side, proposerID int64) int {
	available := len(confirmers(match, side, proposerID))
	required := max(policy, 1)
	return min(required, available)
}

// confirmers are the players allowed to sign a proposal made from side.
func confirmers(match leagues.Match, side leagues.Side, proposerID int64) []int64 {
	if side != leagues.SideNone {
		return slices.Clone(match.Side(side.Opposite()).PlayerIDs)
	}
	var ids []int64
	for _, id := range match.PlayerIDs() {
		if id != proposerID {
			ids = append(ids, id)
		}
	}
	return ids
}

func organizerIDs(ctx context.Context, q dbgen.Querier, leagueID int64) ([]int64, error) {
	organizers, err := q.ListLeagueOrganizers(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list organizers: %w", err)
	}
	ids := make([]int64, 0, len(organizers))
	for _, organizer := range organizers {
		ids = append(ids, organizer.ID)
	}
	return ids, nil
}

func stale(proposal *leagues.Proposal, window time.Duration, now time.Time) bool {
	return proposal != nil && !proposal.ProposedAt.Add(window).After(now)
}
