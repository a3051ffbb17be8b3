// internal/models/players.go
package models

import (
	"context"
	"database/sql"
	"errors"

	dbgen "github.com/codr1/courtleague/internal/db/generated"
	"github.com/codr1/courtleague/internal/leagues"
)

type Player struct {
	ID              int64  `json:"id"`
	DisplayName     string `json:"displayName"`
	Email           string `json:"email,omitempty"`
	ExternalSubject string `json:"-"`
	RatingID        string `json:"ratingId,omitempty"`
}

func PlayerFromDB(row dbgen.Player) Player {
	return Player{
		ID:              row.ID,
		DisplayName:     row.DisplayName,
		Email:           row.Email.String,
		ExternalSubject: row.ExternalSubject.String,
		RatingID:        row.RatingID.String,
	}
}

func GetPlayer(ctx context.Context, q dbgen.Querier, playerID int64) (Player, error) {
	row, err := q.GetPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Player{}, leagues.NotFound("player", playerID)
		}
		return Player{}, err
	}
	return PlayerFromDB(row), nil
}

// GetPlayers loads each player once, skipping ids that no longer exist.
func GetPlayers(ctx context.Context, q dbgen.Querier, playerIDs []int64) ([]Player, error) {
	seen := make(map[int64]struct{}, len(playerIDs))
	players := make([]Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		player, err := GetPlayer(ctx, q, id)
		if err != nil {
			if leagues.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		players = append(players, player)
	}
	return players, nil
}
