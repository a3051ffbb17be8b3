// internal/rating/checker.go
package rating

import (
	"context"
	"fmt"

	dbgen "github.com/codr1/courtleague/internal/db/generated"
	"github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/models"
)

// Checker decides whether a finalized match may be submitted to the external
// rating service.
type Checker interface {
	Eligible(ctx context.Context, q dbgen.Querier, league leagues.League, match leagues.Match) (bool, error)
}

// PolicyChecker flags a match eligible when its league is rating governed,
// the result carries game scores, and every participant has a rating id.
type PolicyChecker struct{}

func (PolicyChecker) Eligible(ctx context.Context, q dbgen.Querier, league leagues.League, match leagues.Match) (bool, error) {
	if !league.RatingGoverned || len(match.Scores) == 0 {
		return false, nil
	}

	participants := match.PlayerIDs()
	if len(participants) == 0 {
		return false, nil
	}
	players, err := models.GetPlayers(ctx, q, participants)
	if err != nil {
		return false, fmt.Errorf("load participants: %w", err)
	}

	rated := make(map[int64]bool, len(players))
	for _, player := range players {
		rated[player.ID] = player.RatingID != ""
	}
	for _, playerID := range participants {
		if !rated[playerID] {
			return false, nil
		}
	}
	return true, nil
}
