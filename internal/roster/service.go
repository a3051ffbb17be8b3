// internal/roster/service.go
package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/courtleague/internal/db"
	dbgen "github.com/codr1/courtleague/internal/db/generated"
	"github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/models"
)

// StandingsTrigger is told when a roster change alters the table.
type StandingsTrigger interface {
	Trigger(ctx context.Context, leagueID int64)
}

type noopStandings struct{}

func (noopStandings) Trigger(context.Context, int64) {}

// Service owns league configuration, rosters, organizers, courts and
// players.
type Service struct {
	db        *db.DB
	standings StandingsTrigger
}

func NewService(database *db.DB, standings StandingsTrigger) (*Service, error) {
	if database == nil {
		return nil, errors.New("roster service requires a database")
	}
	if standings == nil {
		standings = noopStandings{}
	}
	return &Service{db: database, standings: standings}, nil
}

func logger(ctx context.Context, leagueID int64) zerolog.Logger {
	return log.Ctx(ctx).With().
		Str("component", "roster_service").
		Int64("league_id", leagueID).
		Logger()
}

// CreateLeague stores a new league and makes the creator its first
// organizer.
func (s *Service) CreateLeague(ctx context.Context, creator leagues.Actor, league leagues.League) (leagues.League, error) {
	if err := creator.Validate(); err != nil {
		return leagues.League{}, err
	}
	league = league.WithDefaults()
	if err := league.Validate(); err != nil {
		return leagues.League{}, err
	}

	var created leagues.League
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries
		if _, err := models.GetPlayer(ctx, q, creator.PlayerID); err != nil {
			return err
		}
		params, err := models.CreateLeagueParams(league)
		if err != nil {
			return fmt.Errorf("encode league: %w", err)
		}
		row, err := q.CreateLeague(ctx, params)
		if err != nil {
			return fmt.Errorf("create league: %w", err)
		}
		if err := q.AddLeagueOrganizer(ctx, dbgen.AddLeagueOrganizerParams{LeagueID: row.ID, PlayerID: creator.PlayerID}); err != nil {
			return fmt.Errorf("add organizer: %w", err)
		}
		created, err = models.LeagueFromDB(row)
		return err
	})
	if err != nil {
		return leagues.League{}, err
	}
	logger := logger(ctx, created.ID)
	logger.Info().
		Str("format", string(created.Format)).
		Int64("organizer_id", creator.PlayerID).
		Msg("League created")
	return created, nil
}

func (s *Service) GetLeague(ctx context.Context, leagueID int64) (leagues.League, error) {
	return models.GetLeague(ctx, s.db.Queries, leagueID)
}

func (s *Service) ListLeagues(ctx context.Context) ([]leagues.League, error) {
	rows, err := s.db.Queries.ListLeagues(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	result := make([]leagues.League, 0, len(rows))
	for _, row := range rows {
		league, err := models.LeagueFromDB(row)
		if err != nil {
			return nil, err
		}
		result = append(result, league)
	}
	return result, nil
}

// SettingsUpdate changes how results are verified and ranked. Nil fields
// are left alone.
type SettingsUpdate struct {
	Tiebreakers  []string                    `json:"tiebreakers"`
	Verification *leagues.VerificationPolicy `json:"verification"`
}

// UpdateSettings may run at any point in a season. A tiebreaker change
// re-ranks the table.
func (s *Service) UpdateSettings(ctx context.Context, leagueID int64, actor leagues.Actor, update SettingsUpdate) (leagues.League, error) {
	var updated leagues.League
	rerank := false
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries
		league, err := models.GetLeague(ctx, q, leagueID)
		if err != nil {
			return err
		}
		if err := models.RequireOrganizer(ctx, q, leagueID, actor); err != nil {
			return err
		}

		if update.Tiebreakers != nil {
			tiebreakers, err := leagues.ParseTiebreakers(update.Tiebreakers)
			if err != nil {
				return err
			}
			rerank = !slices.Equal(tiebreakers, league.Tiebreakers)
			league.Tiebreakers = tiebreakers
		}
		if update.Verification != nil {
			if err := update.Verification.Validate(); err != nil {
				return err
			}
			league.Verification = *update.Verification
		}

		tiebreakers, err := models.EncodeTiebreakers(league.Tiebreakers)
		if err != nil {
			return fmt.Errorf("encode tiebreakers: %w", err)
		}
		row, err := q.UpdateLeagueSettings(ctx, dbgen.UpdateLeagueSettingsParams{
			Tiebreakers:           tiebreakers,
			RequiredConfirmations: int64(league.Verification.RequiredConfirmations),
			AllowDisputes:         league.Verification.AllowDisputes,
			AutoConfirm:           league.Verification.AutoConfirm,
			AutoConfirmAfterHours: int64(league.Verification.AutoConfirmAfter / time.Hour),
			ID:                    leagueID,
		})
		if err != nil {
			return fmt.Errorf("update league settings: %w", err)
		}
		updated, err = models.LeagueFromDB(row)
		return err
	})
	if err != nil {
		return leagues.League{}, err
	}
	if rerank {
		s.standings.Trigger(ctx, leagueID)
	}
	logger := logger(ctx, leagueID)
	logger.Info().Bool("rerank", rerank).Msg("League settings updated")
	return updated, nil
}

// UpdateRules replaces the format, scoring and movement rules. Once any
// match exists these are locked for the season.
func (s *Service) UpdateRules(ctx context.Context, leagueID int64, actor leagues.Actor, rules leagues.League) (leagues.League, error) {
	var updated leagues.League
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries
		current, err := models.GetLeague(ctx, q, leagueID)
		if err != nil {
			return err
		}
		if err := models.RequireOrganizer(ctx, q, leagueID, actor); err != nil {
			return err
		}
		count, err := q.CountLeagueMatches(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("count league matches: %w", err)
		}
		if count > 0 {
			return leagues.Conflict("league", leagueID, "in play", "update rules", "rules are locked once matches exist")
		}

		rules.ID = leagueID
		if strings.TrimSpace(rules.Name) == "" {
			rules.Name = current.Name
		}
		rules.Tiebreakers = current.Tiebreakers
		rules.Verification = current.Verification
		rules = rules.WithDefaults()
		if err := rules.Validate(); err != nil {
			return err
		}
		row, err := q.UpdateLeagueRules(ctx, dbgen.UpdateLeagueRulesParams{
			Name:                 rules.Name,
			Format:               string(rules.Format),
			RatingGoverned:       rules.RatingGoverned,
			TargetPoints:         int64(rules.Scoring.TargetPoints),
			WinBy:                int64(rules.Scoring.WinBy),
			BestOf:               int64(rules.Scoring.BestOf),
			MaxPoints:            int64(rules.Scoring.MaxPoints),
			PointsPerWin:         int64(rules.Points.Win),
			PointsPerLoss:        int64(rules.Points.Loss),
			BoxSize:              int64(rules.Box.BoxSize),
			PromoteCount:         int64(rules.Box.PromoteCount),
			RelegateCount:        int64(rules.Box.RelegateCount),
			SeasonWeeks:          int64(rules.Box.SeasonWeeks),
			LadderChallengeRange: int64(rules.LadderRange),
			ID:                   leagueID,
		})
		if err != nil {
			return fmt.Errorf("update league rules: %w", err)
		}
		updated, err = models.LeagueFromDB(row)
		return err
	})
	if err != nil {
		return leagues.League{}, err
	}
	logger := logger(ctx, leagueID)
	logger.Info().Str("format", string(updated.Format)).Msg("League rules updated")
	return updated, nil
}

func (s *Service) AddOrganizer(ctx context.Context, leagueID int64, actor leagues.Actor, playerID int64) error {
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries
		if _, err := models.GetLeague(ctx, q, leagueID); err != nil {
			return err
		}
		if err := models.RequireOrganizer(ctx, q, leagueID, actor); err != nil {
			return err
		}
		if _, err := models.GetPlayer(ctx, q, playerID); err != nil {
			return err
		}
		already, err := models.IsOrganizer(ctx, q, leagueID, playerID)
		if err != nil {
			return fmt.Errorf("resolve organizer: %w", err)
		}
		if already {
			return nil
		}
		if err := q.AddLeagueOrganizer(ctx, dbgen.AddLeagueOrganizerParams{LeagueID: leagueID, PlayerID: playerID}); err != nil {
			return fmt.Errorf("add organizer: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger := logger(ctx, leagueID)
	logger.Info().Int64("player_id", playerID).Msg("Organizer added")
	return nil
}

// RemoveOrganizer refuses to leave a league without organizers.
func (s *Service) RemoveOrganizer(ctx context.Context, leagueID int64, actor leagues.Actor, playerID int64) error {
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries
		if _, err := models.GetLeague(ctx, q, leagueID); err != nil {
			return err
		}
		if err := models.RequireOrganizer(ctx, q, leagueID, actor); err != nil {
			return err
		}
		organizers, err := q.ListLeagueOrganizers(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("list organizers: %w", err)
		}
		if len(organizers) == 1 && organizers[0].ID == playerID {
			return leagues.Conflict("league", leagueID, "organized", "remove organizer", "a league needs at least one organizer")
		}
		removed, err := q.RemoveLeagueOrganizer(ctx, dbgen.RemoveLeagueOrganizerParams{LeagueID: leagueID, PlayerID: playerID})
		if err != nil {
			return fmt.Errorf("remove organizer: %w", err)
		}
		if removed == 0 {
			return leagues.NotFound("organizer", playerID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger := logger(ctx, leagueID)
	logger.Info().Int64("player_id", playerID).Msg("Organizer removed")
	return nil
}

func (s *Service) ListOrganizers(ctx context.Context, leagueID int64) ([]models.Player, error) {
	if _, err := models.GetLeague(ctx, s.db.Queries, leagueID); err != nil {
		return nil, err
	}
	rows, err := s.db.Queries.ListLeagueOrganizers(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list organizers: %w", err)
	}
	players := make([]models.Player, 0, len(rows))
	for _, row := range rows {
		players = append(players, models.PlayerFromDB(row))
	}
	return players, nil
}

func (s *Service) AddCourt(ctx context.Context, leagueID int64, actor leagues.Actor, name string) (leagues.Court, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return leagues.Court{}, leagues.Invalid("name", "is required")
	}
	var court leagues.Court
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries
		if _, err := models.GetLeague(ctx, q, leagueID); err != nil {
			return err
		}
		if err := models.RequireOrganizer(ctx, q, leagueID, actor); err != nil {
			return err
		}
		existing, err := q.ListLeagueCourts(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("list courts: %w", err)
		}
		for _, row := range existing {
			if strings.EqualFold(row.Name, name) {
				return leagues.Invalid("name", "court %q already exists", name)
			}
		}
		row, err := q.CreateLeagueCourt(ctx, dbgen.CreateLeagueCourtParams{LeagueID: leagueID, Name: name})
		if err != nil {
			return fmt.Errorf("create court: %w", err)
		}
		court = models.CourtFromDB(row)
		return nil
	})
	if err != nil {
		return leagues.Court{}, err
	}
	logger := logger(ctx, leagueID)
	logger.Info().Int64("court_id", court.ID).Msg("Court added")
	return court, nil
}

// SetCourtActive takes a court in or out of assignment. Matches already on
// the court keep it.
func (s *Service) SetCourtActive(ctx context.Context, leagueID, courtID int64, actor leagues.Actor, active bool) (leagues.Court, error) {
	status := "inactive"
	if active {
		status = "active"
	}
	var court leagues.Court
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries
		if err := models.RequireOrganizer(ctx, q, leagueID, actor); err != nil {
			return err
		}
		row, err := q.UpdateLeagueCourtStatus(ctx, dbgen.UpdateLeagueCourtStatusParams{Status: status, ID: courtID, LeagueID: leagueID})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return leagues.NotFound("court", courtID)
			}
			return fmt.Errorf("update court: %w", err)
		}
		court = models.CourtFromDB(row)
		return nil
	})
	if err != nil {
		return leagues.Court{}, err
	}
	logger := logger(ctx, leagueID)
	logger.Info().Int64("court_id", courtID).Str("status", status).Msg("Court status changed")
	return court, nil
}

func (s *Service) ListCourts(ctx context.Context, leagueID int64) ([]leagues.Court, error) {
	rows, err := s.db.Queries.ListLeagueCourts(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list courts: %w", err)
	}
	return models.CourtsFromDB(rows), nil
}
