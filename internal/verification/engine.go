// internal/verification/engine.go
package verification

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtleague/internal/db"
	dbgen "github.com/codr1/courtleague/internal/db/generated"
	"github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/models"
	"github.com/codr1/courtleague/internal/rating"
)

const (
	actionPropose     = "propose"
	actionSign        = "sign"
	actionDispute     = "dispute"
	actionFinalize    = "finalize"
	actionCorrect     = "correct"
	actionAutoConfirm = "auto_confirm"
	actionReset       = "reset"
	actionPostpone    = "postpone"
	actionReschedule  = "reschedule"
	actionCancel      = "cancel"
	actionForfeit     = "forfeit"
)

const defaultConflictRetries = 3

// Engine is the only mutation surface for match scores and match status.
// Every transition reads, checks and writes the match inside one
// transaction; the row version guards against a concurrent writer and a
// lost race is re-evaluated against the fresh row.
type Engine struct {
	db        *db.DB
	notifier  Notifier
	ratings   rating.Checker
	standings StandingsTrigger
	retries   int
	now       func() time.Time

	pending sync.WaitGroup
}

type Option func(*Engine)

func WithNotifier(notifier Notifier) Option {
	return func(e *Engine) {
		if notifier != nil {
			e.notifier = notifier
		}
	}
}

func WithRatingChecker(checker rating.Checker) Option {
	return func(e *Engine) {
		if checker != nil {
			e.ratings = checker
		}
	}
}

func WithStandings(trigger StandingsTrigger) Option {
	return func(e *Engine) {
		if trigger != nil {
			e.standings = trigger
		}
	}
}

func WithConflictRetries(retries int) Option {
	return func(e *Engine) {
		if retries >= 0 {
			e.retries = retries
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEngine(database *db.DB, opts ...Option) (*Engine, error) {
	if database == nil {
		return nil, errors.New("verification engine requires a database")
	}
	e := &Engine{
		db:        database,
		notifier:  noopNotifier{},
		ratings:   rating.PolicyChecker{},
		standings: noopStandings{},
		retries:   defaultConflictRetries,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

type writeKind int

const (
	writeScoring writeKind = iota
	writeSchedule
)

// transition describes one state change. apply mutates the in-memory copy
// of the match; run persists it.
type transition struct {
	action string
	reason string
	write  writeKind
	system bool
	apply  func(s *step, match *leagues.Match) error
}

// step carries what a transition may consult while it runs.
type step struct {
	action    string
	ctx       context.Context
	q         *dbgen.Queries
	league    leagues.League
	row       dbgen.LeagueMatch
	actor     leagues.Actor
	organizer bool
	now       time.Time
	effects   *effects
	engine    *Engine
}

type effects struct {
	notices   []Notice
	recompute bool
}

func (s *step) notify(kind NoticeKind, match leagues.Match, recipients []int64, reason string) {
	if len(recipients) == 0 {
		return
	}
	s.effects.notices = append(s.effects.notices, Notice{
		Kind:       kind,
		LeagueID:   s.league.ID,
		LeagueName: s.league.Name,
		MatchID:    match.ID,
		Recipients: recipients,
		ActorName:  s.actor.DisplayName,
		Games:      slices.Clone(match.Scores),
		Reason:     reason,
		Match:      match,
	})
}

func (e *Engine) run(ctx context.Context, matchID int64, actor leagues.Actor, tr transition) (leagues.Match, error) {
	if e == nil || e.db == nil || e.db.Queries == nil {
		return leagues.Match{}, errors.New("verification engine not initialized")
	}
	if !tr.system {
		if err := actor.Validate(); err != nil {
			return leagues.Match{}, err
		}
	}

	logger := log.Ctx(ctx).With().
		Str("component", "verification_engine").
		Int64("match_id", matchID).
		Int64("actor_id", actor.PlayerID).
		Str("action", tr.action).
		Logger()

	var (
		result leagues.Match
		fx     effects
	)
	for attempt := 0; ; attempt++ {
		fx = effects{}
		err := e.db.RunInTx(ctx, func(txdb *db.DB) error {
			var err error
			result, err = e.apply(ctx, txdb.Queries, matchID, actor, tr, &fx)
			return err
		})
		if err == nil {
			break
		}
		if errors.Is(err, db.ErrVersionConflict) {
			if attempt < e.retries {
				logger.Warn().Int("attempt", attempt+1).Msg("Match changed concurrently; re-evaluating transition")
				continue
			}
			return leagues.Match{}, leagues.Conflict("match", matchID, "", tr.action, "match kept changing concurrently")
		}
		if leagues.IsValidation(err) || leagues.IsConflict(err) || leagues.IsNotFound(err) {
			logger.Info().Err(err).Msg("Match transition rejected")
		} else {
			logger.Error().Err(err).Msg("Match transition failed")
		}
		return leagues.Match{}, err
	}

	logger.Info().
		Str("decision", string(result.ScoreState)).
		Str("status", string(result.Status)).
		Int64("version", result.Version).
		Msg("Match transition applied")
	e.dispatch(ctx, result.LeagueID, fx)
	return result, nil
}

func (e *Engine) apply(ctx context.Context, q *dbgen.Queries, matchID int64, actor leagues.Actor, tr transition, fx *effects) (leagues.Match, error) {
	before, row, err := models.GetMatch(ctx, q, matchID)
	if err != nil {
		return leagues.Match{}, err
	}
	league, err := models.GetLeague(ctx, q, before.LeagueID)
	if err != nil {
		return leagues.Match{}, err
	}

	organizer := false
	if actor.IsOrganizer() {
		organizer, err = models.IsOrganizer(ctx, q, league.ID, actor.PlayerID)
		if err != nil {
			return leagues.Match{}, fmt.Errorf("resolve organizer: %w", err)
		}
		if !organizer {
			return leagues.Match{}, leagues.Invalid("actor", "player %d is not an organizer of league %d", actor.PlayerID, league.ID)
		}
	}

	s := &step{
		action:    tr.action,
		ctx:       ctx,
		q:         q,
		league:    league,
		row:       row,
		actor:     actor,
		organizer: organizer,
		now:       e.now().UTC(),
		effects:   fx,
		engine:    e,
	}
	after := cloneMatch(before)
	if err := tr.apply(s, &after); err != nil {
		return leagues.Match{}, err
	}

	if err := e.write(ctx, q, tr.write, after); err != nil {
		return leagues.Match{}, err
	}
	after.Version = before.Version + 1

	if err := models.RecordMatchEvent(ctx, q, before, after, s.action, actor.PlayerID, tr.reason); err != nil {
		return leagues.Match{}, fmt.Errorf("record match event: %w", err)
	}
	return after, nil
}

func (e *Engine) write(ctx context.Context, q *dbgen.Queries, kind writeKind, match leagues.Match) error {
	switch kind {
	case writeSchedule:
		params, err := models.ScheduleParams(match)
		if err != nil {
			return fmt.Errorf("encode match schedule: %w", err)
		}
		return db.CheckVersioned(q.UpdateLeagueMatchSchedule(ctx, params))
	default:
		params, err := models.ScoringParams(match)
		if err != nil {
			return fmt.Errorf("encode match scoring: %w", err)
		}
		return db.CheckVersioned(q.UpdateLeagueMatchScoring(ctx, params))
	}
}

// dispatch hands off the side effects of a committed transition.
func (e *Engine) dispatch(ctx context.Context, leagueID int64, fx effects) {
	if fx.recompute {
		e.standings.Trigger(ctx, leagueID)
	}
	if len(fx.notices) == 0 {
		return
	}

	detached := context.WithoutCancel(ctx)
	e.pending.Add(1)
	go func() {
		defer e.pending.Done()
		for _, notice := range fx.notices {
			if err := e.notifier.Notify(detached, notice); err != nil {
				log.Ctx(detached).Warn().
					Err(err).
					Str("component", "verification_engine").
					Int64("match_id", notice.MatchID).
					Str("notice", string(notice.Kind)).
					Msg("Failed to deliver match notice")
			}
		}
	}()
}

// Wait blocks until queued notices have been handed to the notifier.
func (e *Engine) Wait() {
	e.pending.Wait()
}

// Get returns the current state of a match.
func (e *Engine) Get(ctx context.Context, matchID int64) (leagues.Match, error) {
	match, _, err := models.GetMatch(ctx, e.db.Queries, matchID)
	return match, err
}

// History returns the audit trail of a match, oldest first.
func (e *Engine) History(ctx context.Context, matchID int64) ([]models.MatchEvent, error) {
	if _, _, err := models.GetMatch(ctx, e.db.Queries, matchID); err != nil {
		return nil, err
	}
	rows, err := e.db.Queries.ListMatchEvents(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match events: %w", err)
	}
	events := make([]models.MatchEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, models.MatchEventFromDB(row))
	}
	return events, nil
}

func cloneMatch(match leagues.Match) leagues.Match {
	clone := match
	clone.SideA.MemberIDs = slices.Clone(match.SideA.MemberIDs)
	clone.SideA.PlayerIDs = slices.Clone(match.SideA.PlayerIDs)
	clone.SideB.MemberIDs = slices.Clone(match.SideB.MemberIDs)
	clone.SideB.PlayerIDs = slices.Clone(match.SideB.PlayerIDs)
	clone.Scores = slices.Clone(match.Scores)
	clone.Verification.Confirmations = slices.Clone(match.Verification.Confirmations)
	if match.Proposal != nil {
		proposal := *match.Proposal
		proposal.Games = slices.Clone(match.Proposal.Games)
		clone.Proposal = &proposal
	}
	if match.Postpone != nil {
		postpone := *match.Postpone
		clone.Postpone = &postpone
	}
	return clone
}
