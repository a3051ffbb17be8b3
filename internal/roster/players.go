package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/rs/zerolog/log"

	dbgen "github.com/codr1/courtleague/internal/db/generated"
	"github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/models"
)

type PlayerRequest struct {
	DisplayName     string `json:"displayName"`
	Email           string `json:"email"`
	ExternalSubject string `json:"-"`
	RatingID        string `json:"ratingId"`
}

func (s *Service) CreatePlayer(ctx context.Context, req PlayerRequest) (models.Player, error) {
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.Email = strings.TrimSpace(req.Email)
	if req.DisplayName == "" {
		return models.Player{}, leagues.Invalid("displayName", "is required")
	}
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return models.Player{}, leagues.Invalid("email", "is not a valid address")
		}
	}

	row, err := s.db.Queries.CreatePlayer(ctx, dbgen.CreatePlayerParams{
		DisplayName:     req.DisplayName,
		Email:           models.NullString(req.Email),
		ExternalSubject: models.NullString(req.ExternalSubject),
		RatingID:        models.NullString(strings.TrimSpace(req.RatingID)),
	})
	if err != nil {
		return models.Player{}, fmt.Errorf("create player: %w", err)
	}
	player := models.PlayerFromDB(row)
	log.Ctx(ctx).Info().
		Str("component", "roster_service").
		Int64("player_id", player.ID).
		Msg("Player created")
	return player, nil
}

func (s *Service) GetPlayer(ctx context.Context, playerID int64) (models.Player, error) {
	return models.GetPlayer(ctx, s.db.Queries, playerID)
}

// PlayerForSubject maps an identity provider subject to a player, creating
// the player on first sign-in.
func (s *Service) PlayerForSubject(ctx context.Context, subject string, profile PlayerRequest) (models.Player, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return models.Player{}, leagues.Invalid("subject", "is required")
	}
	row, err := s.db.Queries.GetPlayerByExternalSubject(ctx, models.NullString(subject))
	if err == nil {
		return models.PlayerFromDB(row), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Player{}, fmt.Errorf("load player by subject: %w", err)
	}

	profile.ExternalSubject = subject
	if strings.TrimSpace(profile.DisplayName) == "" {
		profile.DisplayName = "Player"
	}
	return s.CreatePlayer(ctx, profile)
}

// SetRatingID links a player to the external rating service. Players edit
// only their own link.
func (s *Service) SetRatingID(ctx context.Context, playerID int64, actor leagues.Actor, ratingID string) (models.Player, error) {
	if err := actor.Validate(); err != nil {
		return models.Player{}, err
	}
	if actor.PlayerID != playerID {
		return models.Player{}, leagues.Invalid("actor", "players may only change their own rating id")
	}
	row, err := s.db.Queries.UpdatePlayerRatingID(ctx, dbgen.UpdatePlayerRatingIDParams{
		RatingID: models.NullString(strings.TrimSpace(ratingID)),
		ID:       playerID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Player{}, leagues.NotFound("player", playerID)
		}
		return models.Player{}, fmt.Errorf("update rating id: %w", err)
	}
	return models.PlayerFromDB(row), nil
}
