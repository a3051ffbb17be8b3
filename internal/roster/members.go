package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/codr1/courtleague/internal/db"
	dbgen "github.com/codr1/courtleague/internal/db/generated"
	"github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/models"
)

// MemberRequest registers a single player or a fixed team.
type MemberRequest struct {
	DisplayName string   `json:"displayName"`
	Division    string   `json:"division"`
	PlayerIDs   []int64  `json:"playerIds"`
	Rating      *float64 `json:"rating"`
}

// RegisterMember adds an entry at the bottom of its division. Players may
// register themselves; organizers may register anyone.
func (s *Service) RegisterMember(ctx context.Context, leagueID int64, actor leagues.Actor, req MemberRequest) (leagues.Member, error) {
	if err := actor.Validate(); err != nil {
		return leagues.Member{}, err
	}
	if len(req.PlayerIDs) == 0 {
		return leagues.Member{}, leagues.Invalid("playerIds", "at least one player is required")
	}
	if len(req.PlayerIDs) > 2 {
		return leagues.Member{}, leagues.Invalid("playerIds", "an entry has at most two players")
	}
	if req.Rating != nil && *req.Rating < 0 {
		return leagues.Member{}, leagues.Invalid("rating", "cannot be negative")
	}

	var member leagues.Member
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries
		if _, err := models.GetLeague(ctx, q, leagueID); err != nil {
			return err
		}
		if actor.IsOrganizer() {
			if err := models.RequireOrganizer(ctx, q, leagueID, actor); err != nil {
				return err
			}
		} else if !slices.Contains(req.PlayerIDs, actor.PlayerID) {
			return leagues.Invalid("actor", "players may only register themselves")
		}

		players := make([]models.Player, 0, len(req.PlayerIDs))
		for _, id := range req.PlayerIDs {
			player, err := models.GetPlayer(ctx, q, id)
			if err != nil {
				return err
			}
			players = append(players, player)
		}
		if len(players) == 2 && players[0].ID == players[1].ID {
			return leagues.Invalid("playerIds", "a team needs two different players")
		}

		existing, err := models.ListMembers(ctx, q, leagueID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		for _, other := range existing {
			if !other.Active() {
				continue
			}
			for _, id := range req.PlayerIDs {
				if slices.Contains(other.PlayerIDs, id) {
					return leagues.Invalid("playerIds", "player %d is already entered as %s", id, other.DisplayName)
				}
			}
		}

		name := strings.TrimSpace(req.DisplayName)
		if name == "" {
			names := make([]string, 0, len(players))
			for _, player := range players {
				names = append(names, player.DisplayName)
			}
			name = strings.Join(names, " / ")
		}

		bottom, err := q.MaxLeagueMemberRank(ctx, dbgen.MaxLeagueMemberRankParams{LeagueID: leagueID, Division: req.Division})
		if err != nil {
			return fmt.Errorf("load bottom rank: %w", err)
		}
		playerIDs, err := models.EncodePlayerIDs(req.PlayerIDs)
		if err != nil {
			return fmt.Errorf("encode player ids: %w", err)
		}
		row, err := q.CreateLeagueMember(ctx, dbgen.CreateLeagueMemberParams{
			LeagueID:    leagueID,
			Division:    req.Division,
			DisplayName: name,
			PlayerIds:   playerIDs,
			Rating:      models.NullRating(req.Rating),
			Rank:        bottom + 1,
			Status:      string(leagues.MemberActive),
		})
		if err != nil {
			return fmt.Errorf("create member: %w", err)
		}
		member, err = models.MemberFromDB(row)
		return err
	})
	if err != nil {
		return leagues.Member{}, err
	}
	logger := logger(ctx, leagueID)
	logger.Info().
		Int64("member_id", member.ID).
		Int("rank", member.Rank).
		Msg("Member registered")
	return member, nil
}

// WithdrawMember retires an entry. Past results keep counting; on a ladder
// everyone below moves up a rung.
func (s *Service) WithdrawMember(ctx context.Context, leagueID, memberID int64, actor leagues.Actor) (leagues.Member, error) {
	if err := actor.Validate(); err != nil {
		return leagues.Member{}, err
	}
	var withdrawn leagues.Member
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries
		league, err := models.GetLeague(ctx, q, leagueID)
		if err != nil {
			return err
		}
		member, err := loadMember(ctx, q, leagueID, memberID)
		if err != nil {
			return err
		}
		if actor.IsOrganizer() {
			if err := models.RequireOrganizer(ctx, q, leagueID, actor); err != nil {
				return err
			}
		} else if !slices.Contains(member.PlayerIDs, actor.PlayerID) {
			return leagues.Invalid("actor", "players may only withdraw their own entry")
		}
		if !member.Active() {
			return leagues.Conflict("member", memberID, string(member.Status), "withdraw", "member already withdrawn")
		}

		row, err := q.UpdateLeagueMemberStatus(ctx, dbgen.UpdateLeagueMemberStatusParams{
			Status: string(leagues.MemberWithdrawn),
			ID:     memberID,
		})
		if err != nil {
			return fmt.Errorf("withdraw member: %w", err)
		}

		if league.Format == leagues.FormatLadder && member.Rank > 0 {
			members, err := models.ListMembers(ctx, q, leagueID)
			if err != nil {
				return fmt.Errorf("list members: %w", err)
			}
			for _, other := range members {
				if other.Active() && other.Division == member.Division && other.Rank > member.Rank {
					if err := q.UpdateLeagueMemberRank(ctx, dbgen.UpdateLeagueMemberRankParams{Rank: int64(other.Rank - 1), ID: other.ID}); err != nil {
						return fmt.Errorf("close ladder gap: %w", err)
					}
				}
			}
			if err := q.UpdateLeagueMemberRank(ctx, dbgen.UpdateLeagueMemberRankParams{Rank: 0, ID: memberID}); err != nil {
				return fmt.Errorf("clear ladder rung: %w", err)
			}
			row.Rank = 0
		}

		withdrawn, err = models.MemberFromDB(row)
		return err
	})
	if err != nil {
		return leagues.Member{}, err
	}
	s.standings.Trigger(ctx, leagueID)
	logger := logger(ctx, leagueID)
	logger.Info().Int64("member_id", memberID).Msg("Member withdrawn")
	return withdrawn, nil
}

// SetMemberRating records the entry's seeding rating.
func (s *Service) SetMemberRating(ctx context.Context, leagueID, memberID int64, actor leagues.Actor, rating *float64) (leagues.Member, error) {
	if rating != nil && *rating < 0 {
		return leagues.Member{}, leagues.Invalid("rating", "cannot be negative")
	}
	var member leagues.Member
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries
		if err := models.RequireOrganizer(ctx, q, leagueID, actor); err != nil {
			return err
		}
		var err error
		member, err = loadMember(ctx, q, leagueID, memberID)
		if err != nil {
			return err
		}
		if err := q.UpdateLeagueMemberRating(ctx, dbgen.UpdateLeagueMemberRatingParams{Rating: models.NullRating(rating), ID: memberID}); err != nil {
			return fmt.Errorf("update member rating: %w", err)
		}
		member.Rating = rating
		return nil
	})
	if err != nil {
		return leagues.Member{}, err
	}
	return member, nil
}

func (s *Service) ListMembers(ctx context.Context, leagueID int64) ([]leagues.Member, error) {
	if _, err := models.GetLeague(ctx, s.db.Queries, leagueID); err != nil {
		return nil, err
	}
	return models.ListMembers(ctx, s.db.Queries, leagueID)
}

func loadMember(ctx context.Context, q dbgen.Querier, leagueID, memberID int64) (leagues.Member, error) {
	row, err := q.GetLeagueMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leagues.Member{}, leagues.NotFound("member", memberID)
		}
		return leagues.Member{}, fmt.Errorf("load member: %w", err)
	}
	if row.LeagueID != leagueID {
		return leagues.Member{}, leagues.NotFound("member", memberID)
	}
	return models.MemberFromDB(row)
}
