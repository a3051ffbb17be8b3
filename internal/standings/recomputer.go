// internal/standings/recomputer.go
package standings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtleague/internal/db"
	dbgen "github.com/codr1/courtleague/internal/db/generated"
	"github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/models"
)

const defaultTimeout = 30 * time.Second

// Recomputer rebuilds member stats and ranks from scratch. Work for a league
// is serialized; triggers that arrive while a league is being recomputed
// collapse into a single follow-up run.
type Recomputer struct {
	db      *db.DB
	timeout time.Duration

	mu      sync.Mutex
	locks   map[int64]*sync.Mutex
	pending map[int64]*pendingRun
	wg      sync.WaitGroup
}

type pendingRun struct {
	again bool
}

func NewRecomputer(database *db.DB, timeout time.Duration) (*Recomputer, error) {
	if database == nil {
		return nil, errors.New("standings recomputer requires a database")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Recomputer{
		db:      database,
		timeout: timeout,
		locks:   make(map[int64]*sync.Mutex),
		pending: make(map[int64]*pendingRun),
	}, nil
}

// Trigger schedules a recomputation and returns immediately. The run is
// detached from ctx's cancellation so a finished request does not abort it.
func (r *Recomputer) Trigger(ctx context.Context, leagueID int64) {
	r.mu.Lock()
	if run, ok := r.pending[leagueID]; ok {
		run.again = true
		r.mu.Unlock()
		return
	}
	r.pending[leagueID] = &pendingRun{}
	r.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	r.wg.Add(1)
	go r.drain(detached, leagueID)
}

func (r *Recomputer) drain(ctx context.Context, leagueID int64) {
	defer r.wg.Done()
	logger := log.Ctx(ctx).With().
		Str("component", "standings_recomputer").
		Int64("league_id", leagueID).
		Logger()

	for {
		runCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.Recompute(runCtx, leagueID)
		cancel()
		if err != nil {
			logger.Error().Err(err).Msg("Standings recomputation failed; league marked dirty")
			if markErr := r.markDirty(ctx, leagueID); markErr != nil {
				logger.Error().Err(markErr).Msg("Failed to mark standings dirty")
			}
		}

		r.mu.Lock()
		run := r.pending[leagueID]
		if !run.again {
			delete(r.pending, leagueID)
			r.mu.Unlock()
			return
		}
		run.again = false
		r.mu.Unlock()
		logger.Debug().Msg("Coalesced standings trigger; recomputing again")
	}
}

// Wait blocks until every triggered recomputation has finished.
func (r *Recomputer) Wait() {
	r.wg.Wait()
}

func (r *Recomputer) leagueLock(leagueID int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[leagueID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[leagueID] = lock
	}
	return lock
}

// Recompute rebuilds the league's standings synchronously. Running it twice
// over the same matches yields the same rows.
func (r *Recomputer) Recompute(ctx context.Context, leagueID int64) error {
	lock := r.leagueLock(leagueID)
	lock.Lock()
	defer lock.Unlock()

	return r.db.RunInTx(ctx, func(txdb *db.DB) error {
		league, err := models.GetLeague(ctx, txdb.Queries, leagueID)
		if err != nil {
			return err
		}
		members, err := models.ListMembers(ctx, txdb.Queries, leagueID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		matches, err := models.ListMatches(ctx, txdb.Queries, leagueID)
		if err != nil {
			return fmt.Errorf("list matches: %w", err)
		}

		stats := leagues.AccumulateStats(members, matches, league.Points)
		for _, member := range members {
			if err := txdb.Queries.UpdateLeagueMemberStats(ctx, models.StatsParams(member.ID, stats[member.ID])); err != nil {
				return fmt.Errorf("update stats for member %d: %w", member.ID, err)
			}
		}

		if league.Format != leagues.FormatLadder {
			for memberID, rank := range rankMembers(league, members, stats, matches) {
				if err := txdb.Queries.UpdateLeagueMemberRank(ctx, dbgen.UpdateLeagueMemberRankParams{
					Rank: int64(rank),
					ID:   memberID,
				}); err != nil {
					return fmt.Errorf("update rank for member %d: %w", memberID, err)
				}
			}
		}

		return txdb.Queries.SetLeagueStandingsDirty(ctx, dbgen.SetLeagueStandingsDirtyParams{
			StandingsDirty: false,
			ID:             leagueID,
		})
	})
}

// rankMembers ranks active members within their division. Withdrawn members
// lose their rank.
func rankMembers(league leagues.League, members []leagues.Member, stats map[int64]leagues.Stats, matches []leagues.Match) map[int64]int {
	h2h := leagues.HeadToHeadFromMatches(matches)
	divisions := make(map[string][]leagues.StandingEntry)
	ranks := make(map[int64]int, len(members))
	for _, member := range members {
		if !member.Active() {
			ranks[member.ID] = 0
			continue
		}
		divisions[member.Division] = append(divisions[member.Division], leagues.StandingEntry{
			MemberID: member.ID,
			Name:     member.DisplayName,
			Stats:    stats[member.ID],
		})
	}
	for _, entries := range divisions {
		for _, entry := range leagues.Rank(entries, league.Tiebreakers, h2h) {
			ranks[entry.MemberID] = entry.Rank
		}
	}
	return ranks
}

func (r *Recomputer) markDirty(ctx context.Context, leagueID int64) error {
	return r.db.Queries.SetLeagueStandingsDirty(ctx, dbgen.SetLeagueStandingsDirtyParams{
		StandingsDirty: true,
		ID:             leagueID,
	})
}

// SweepDirty retries every league whose last recomputation failed.
func (r *Recomputer) SweepDirty(ctx context.Context) error {
	logger := log.Ctx(ctx).With().Str("component", "standings_recomputer").Logger()

	leagueIDs, err := r.db.Queries.ListDirtyLeagueIDs(ctx)
	if err != nil {
		return fmt.Errorf("list dirty leagues: %w", err)
	}
	if len(leagueIDs) == 0 {
		return nil
	}

	logger.Info().Int("league_count", len(leagueIDs)).Msg("Retrying dirty standings")
	var failed []error
	for _, leagueID := range leagueIDs {
		if err := r.Recompute(ctx, leagueID); err != nil {
			logger.Error().Err(err).Int64("league_id", leagueID).Msg("Dirty standings retry failed")
			failed = append(failed, fmt.Errorf("league %d: %w", leagueID, err))
		}
	}
	return errors.Join(failed...)
}

// Table returns the ranked standings of a division from the stored stats.
func Table(ctx context.Context, q dbgen.Querier, leagueID int64, division string) ([]leagues.StandingEntry, error) {
	league, err := models.GetLeague(ctx, q, leagueID)
	if err != nil {
		return nil, err
	}
	members, err := models.ListMembers(ctx, q, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	entries := make([]leagues.StandingEntry, 0, len(members))
	for _, member := range members {
		if !member.Active() || (division != "" && member.Division != division) {
			continue
		}
		entries = append(entries, leagues.StandingEntry{
			MemberID: member.ID,
			Name:     member.DisplayName,
			Rank:     member.Rank,
			Stats:    member.Stats,
		})
	}

	if league.Format == leagues.FormatLadder {
		sort.SliceStable(entries, func(i, j int) bool {
			return ladderOrder(entries[i].Rank) < ladderOrder(entries[j].Rank)
		})
		return entries, nil
	}

	matches, err := models.ListMatches(ctx, q, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return leagues.Rank(entries, league.Tiebreakers, leagues.HeadToHeadFromMatches(matches)), nil
}

func ladderOrder(rank int) int {
	if rank <= 0 {
		return int(^uint(0) >> 1)
	}
	return rank
}
