// internal/boxleague/manager.go
package boxleague

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/courtleague/internal/db"
	dbgen "github.com/codr1/courtleague/internal/db/generated"
	"github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/models"
)

const defaultConflictRetries = 3

// Manager runs the weekly lifecycle of box leagues:
// draft -> active -> closing -> finalized, with active -> draft as an
// administrative rollback.
type Manager struct {
	db      *db.DB
	retries int
	now     func() time.Time
}

type Option func(*Manager)

func WithConflictRetries(retries int) Option {
	return func(m *Manager) {
		if retries >= 0 {
			m.retries = retries
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func NewManager(database *db.DB, opts ...Option) (*Manager, error) {
	if database == nil {
		return nil, errors.New("box league manager requires a database")
	}
	m := &Manager{db: database, retries: defaultConflictRetries, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// WeekView is a week as read by callers. Warning is set when the week is
// open but its match linkage could not be rebuilt.
type WeekView struct {
	Week    leagues.BoxWeek          `json:"week"`
	Matches []leagues.Match          `json:"matches"`
	Warning *leagues.RecoveryWarning `json:"-"`
}

// DraftReport explains how a recalculated draft was derived.
type DraftReport struct {
	Week      leagues.BoxWeek    `json:"week"`
	Movements []leagues.Movement `json:"movements"`
}

// ClosingReport lists what is still unresolved when a week starts closing.
// It is advisory only.
type ClosingReport struct {
	Week     leagues.BoxWeek `json:"week"`
	Pending  int             `json:"pendingConfirmation"`
	Disputed int             `json:"disputed"`
	Unplayed int             `json:"unplayed"`
}

type FinalizeReport struct {
	Week      leagues.BoxWeek    `json:"week"`
	Movements []leagues.Movement `json:"movements"`
	NextDraft *leagues.BoxWeek   `json:"nextDraft,omitempty"`
}

func (m *Manager) logger(ctx context.Context, leagueID int64, week int) zerolog.Logger {
	return log.Ctx(ctx).With().
		Str("component", "box_week_manager").
		Int64("league_id", leagueID).
		Int("week_number", week).
		Logger()
}

// inTx runs fn in a transaction and re-runs it when a versioned write lost a
// race, so the retry observes the winner's state.
func (m *Manager) inTx(ctx context.Context, logger zerolog.Logger, fn func(q *dbgen.Queries) error) error {
	for attempt := 0; ; attempt++ {
		err := m.db.RunInTx(ctx, func(txdb *db.DB) error {
			return fn(txdb.Queries)
		})
		if !errors.Is(err, db.ErrVersionConflict) {
			return err
		}
		if attempt >= m.retries {
			return leagues.Conflict("box week", 0, "", "update", "week kept changing concurrently")
		}
		logger.Warn().Int("attempt", attempt+1).Msg("Box week changed concurrently; retrying")
	}
}

// loadBoxLeague loads the league and checks it plays boxes and that actor
// organizes it.
func loadBoxLeague(ctx context.Context, q dbgen.Querier, leagueID int64, actor leagues.Actor) (leagues.League, error) {
	league, err := models.GetLeague(ctx, q, leagueID)
	if err != nil {
		return leagues.League{}, err
	}
	if !league.Format.IsBox() {
		return leagues.League{}, leagues.Invalid("format", "league %d is not a box league", leagueID)
	}
	if err := models.RequireOrganizer(ctx, q, leagueID, actor); err != nil {
		return leagues.League{}, err
	}
	return league, nil
}

func writeWeek(ctx context.Context, q dbgen.Querier, week leagues.BoxWeek) (leagues.BoxWeek, error) {
	params, err := models.UpdateBoxWeekParams(week)
	if err != nil {
		return leagues.BoxWeek{}, err
	}
	if err := db.CheckVersioned(q.UpdateBoxWeek(ctx, params)); err != nil {
		return leagues.BoxWeek{}, err
	}
	week.Version++
	return week, nil
}

func createWeek(ctx context.Context, q dbgen.Querier, leagueID int64, number int, boxes []leagues.Box) (leagues.BoxWeek, error) {
	assignments, err := models.EncodeBoxes(boxes)
	if err != nil {
		return leagues.BoxWeek{}, fmt.Errorf("encode assignments: %w", err)
	}
	row, err := q.CreateBoxWeek(ctx, dbgen.CreateBoxWeekParams{
		LeagueID:    leagueID,
		WeekNumber:  int64(number),
		Assignments: assignments,
	})
	if err != nil {
		return leagues.BoxWeek{}, fmt.Errorf("create box week %d: %w", number, err)
	}
	return models.BoxWeekFromDB(row)
}

// latestWeek returns the highest numbered week, or false when the league has
// none yet.
func latestWeek(ctx context.Context, q dbgen.Querier, leagueID int64) (leagues.BoxWeek, bool, error) {
	row, err := q.GetLatestBoxWeek(ctx, leagueID)
	if err != nil {
		if isNoRows(err) {
			return leagues.BoxWeek{}, false, nil
		}
		return leagues.BoxWeek{}, false, fmt.Errorf("load latest box week: %w", err)
	}
	week, err := models.BoxWeekFromDB(row)
	if err != nil {
		return leagues.BoxWeek{}, false, err
	}
	return week, true, nil
}

// activeBoxes drops members who are no longer active and boxes left empty,
// renumbers what remains, then rebalances when a box fell below the minimum.
func activeBoxes(boxes []leagues.Box, members []leagues.Member, size int) ([]leagues.Box, error) {
	active := make(map[int64]bool, len(members))
	for _, member := range members {
		active[member.ID] = member.Active()
	}
	result := make([]leagues.Box, 0, len(boxes))
	for _, box := range boxes {
		var ids []int64
		for _, id := range box.MemberIDs {
			if active[id] {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			continue
		}
		result = append(result, leagues.Box{Number: len(result) + 1, MemberIDs: ids})
	}
	return leagues.RebalanceBoxes(result, size)
}

// checkRoster rejects assignments naming members who are not active in the
// league.
func checkRoster(boxes []leagues.Box, members []leagues.Member) error {
	if err := leagues.ValidateAssignments(boxes); err != nil {
		return err
	}
	active := make(map[int64]bool, len(members))
	for _, member := range members {
		active[member.ID] = member.Active()
	}
	for _, box := range boxes {
		for _, id := range box.MemberIDs {
			if !active[id] {
				return leagues.Invalid("assignments", "member %d is not an active member of the league", id)
			}
		}
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
