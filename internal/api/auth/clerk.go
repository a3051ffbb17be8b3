package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/rs/zerolog/log"

	"github.com/codr1/courtleague/internal/api/authz"
	"github.com/codr1/courtleague/internal/models"
	"github.com/codr1/courtleague/internal/roster"
)

const (
	sessionCookieName = "__session"
	devPlayerHeader   = "X-Player-ID"
)

var ErrInvalidSession = errors.New("invalid session")

// Authenticator resolves the caller of a request. A request without
// credentials yields a nil user and no error.
type Authenticator interface {
	Authenticate(r *http.Request) (*authz.AuthUser, error)
}

// Players is the part of the roster the authenticators need.
type Players interface {
	PlayerForSubject(ctx context.Context, subject string, profile roster.PlayerRequest) (models.Player, error)
	GetPlayer(ctx context.Context, playerID int64) (models.Player, error)
}

// ClerkAuthenticator verifies Clerk session tokens and maps the Clerk user
// to a player, creating the player on first sign-in.
type ClerkAuthenticator struct {
	players Players

	verify  func(ctx context.Context, token string) (string, error)
	profile func(ctx context.Context, subject string) (roster.PlayerRequest, error)

	mu    sync.RWMutex
	known map[string]*authz.AuthUser
}

// NewClerkAuthenticator initializes the Clerk SDK with the secret key.
func NewClerkAuthenticator(secretKey string, players Players) (*ClerkAuthenticator, error) {
	if secretKey == "" {
		return nil, errors.New("clerk secret key is required")
	}
	if players == nil {
		return nil, errors.New("clerk authenticator requires players")
	}
	clerk.SetKey(secretKey)
	log.Info().Msg("Clerk SDK initialized")

	return &ClerkAuthenticator{
		players: players,
		verify:  verifyClerkToken,
		profile: clerkProfile,
		known:   make(map[string]*authz.AuthUser),
	}, nil
}

func (a *ClerkAuthenticator) Authenticate(r *http.Request) (*authz.AuthUser, error) {
	token := sessionToken(r)
	if token == "" {
		return nil, nil
	}
	ctx := r.Context()

	subject, err := a.verify(ctx, token)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Msg("Invalid Clerk session token")
		return nil, ErrInvalidSession
	}

	a.mu.RLock()
	cached := a.known[subject]
	a.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	profile, err := a.profile(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("load clerk user: %w", err)
	}
	player, err := a.players.PlayerForSubject(ctx, subject, profile)
	if err != nil {
		return nil, fmt.Errorf("resolve player: %w", err)
	}

	authUser := &authz.AuthUser{
		PlayerID:    player.ID,
		DisplayName: player.DisplayName,
		Subject:     subject,
	}
	a.mu.Lock()
	a.known[subject] = authUser
	a.mu.Unlock()

	log.Ctx(ctx).Debug().
		Str("clerk_user_id", subject).
		Int64("player_id", player.ID).
		Msg("Clerk session mapped to player")
	return authUser, nil
}

// sessionToken reads a bearer token, falling back to the Clerk session
// cookie set by browser clients.
func sessionToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

func verifyClerkToken(ctx context.Context, token string) (string, error) {
	claims, err := jwt.Verify(ctx, &jwt.VerifyParams{Token: token})
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("session has no subject")
	}
	return claims.Subject, nil
}

func clerkProfile(ctx context.Context, subject string) (roster.PlayerRequest, error) {
	clerkUser, err := user.Get(ctx, subject)
	if err != nil {
		return roster.PlayerRequest{}, err
	}
	return profileFromClerk(clerkUser), nil
}

// profileFromClerk prefers the primary email and the full name, falling
// back to the username.
func profileFromClerk(clerkUser *clerk.User) roster.PlayerRequest {
	var profile roster.PlayerRequest

	var names []string
	for _, part := range []*string{clerkUser.FirstName, clerkUser.LastName} {
		if part != nil && strings.TrimSpace(*part) != "" {
			names = append(names, strings.TrimSpace(*part))
		}
	}
	profile.DisplayName = strings.Join(names, " ")
	if profile.DisplayName == "" && clerkUser.Username != nil {
		profile.DisplayName = *clerkUser.Username
	}

	for _, email := range clerkUser.EmailAddresses {
		if email == nil {
			continue
		}
		if profile.Email == "" {
			profile.Email = email.EmailAddress
		}
		if clerkUser.PrimaryEmailAddressID != nil && email.ID == *clerkUser.PrimaryEmailAddressID {
			profile.Email = email.EmailAddress
			break
		}
	}
	return profile
}

// DevAuthenticator trusts an X-Player-ID header. Only for local development
// without Clerk.
type DevAuthenticator struct {
	players Players
}

func NewDevAuthenticator(players Players) *DevAuthenticator {
	log.Warn().Msg("Development authentication enabled; requests pick their player with " + devPlayerHeader)
	return &DevAuthenticator{players: players}
}

func (a *DevAuthenticator) Authenticate(r *http.Request) (*authz.AuthUser, error) {
	raw := strings.TrimSpace(r.Header.Get(devPlayerHeader))
	if raw == "" {
		return nil, nil
	}
	playerID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || playerID <= 0 {
		return nil, ErrInvalidSession
	}
	player, err := a.players.GetPlayer(r.Context(), playerID)
	if err != nil {
		return nil, fmt.Errorf("resolve player: %w", err)
	}
	return &authz.AuthUser{PlayerID: player.ID, DisplayName: player.DisplayName}, nil
}
