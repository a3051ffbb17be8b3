package authz

import (
	"context"
	"errors"
	"fmt"

	dbgen "github.com/codr1/courtleague/internal/db/generated"
	"github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/models"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// AuthUser is the player behind a verified session.
type AuthUser struct {
	PlayerID    int64
	DisplayName string
	Subject     string
}

type userContextKey struct{}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the AuthUser stored in ctx.
// It returns nil if ctx is nil, if no user is stored, or if the stored value has a different type.
func UserFromContext(ctx context.Context) *AuthUser {
	if ctx == nil {
		return nil
	}

	user, ok := ctx.Value(userContextKey{}).(*AuthUser)
	if !ok {
		return nil
	}

	return user
}

func RequireUser(ctx context.Context) (*AuthUser, error) {
	user := UserFromContext(ctx)
	if user == nil || user.PlayerID <= 0 {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// ActorFor resolves the caller's role in a league. Organizers of the league
// act as organizers everywhere in it; everyone else is a participant and the
// engine decides what a participant may touch.
func ActorFor(ctx context.Context, q dbgen.Querier, leagueID int64) (leagues.Actor, error) {
	user, err := RequireUser(ctx)
	if err != nil {
		return leagues.Actor{}, err
	}
	organizer, err := models.IsOrganizer(ctx, q, leagueID, user.PlayerID)
	if err != nil {
		return leagues.Actor{}, fmt.Errorf("resolve league role: %w", err)
	}
	actor := leagues.Actor{
		PlayerID:    user.PlayerID,
		DisplayName: user.DisplayName,
		Role:        leagues.RoleParticipant,
	}
	if organizer {
		actor.Role = leagues.RoleOrganizer
	}
	return actor, nil
}

// PlayerActor is the caller acting outside any league.
func PlayerActor(ctx context.Context) (leagues.Actor, error) {
	user, err := RequireUser(ctx)
	if err != nil {
		return leagues.Actor{}, err
	}
	return leagues.Actor{
		PlayerID:    user.PlayerID,
		DisplayName: user.DisplayName,
		Role:        leagues.RoleParticipant,
	}, nil
}
