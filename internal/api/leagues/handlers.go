// internal/api/leagues/handlers.go
package leagues

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtleague/internal/api/apiutil"
	"github.com/codr1/courtleague/internal/api/authz"
	"github.com/codr1/courtleague/internal/boxleague"
	appdb "github.com/codr1/courtleague/internal/db"
	lg "github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/request"
	"github.com/codr1/courtleague/internal/roster"
	"github.com/codr1/courtleague/internal/schedule"
	"github.com/codr1/courtleague/internal/verification"
)

const (
	leagueRequestTimeout = 10 * time.Second
	leagueIDPathKey      = "leagueID"
	memberIDPathKey      = "memberID"
	playerIDPathKey      = "playerID"
	courtIDPathKey       = "courtID"
	matchIDPathKey       = "matchID"
	weekPathKey          = "week"
)

// Services are the engine surfaces the handlers call into.
type Services struct {
	DB           *appdb.DB
	Roster       *roster.Service
	Schedule     *schedule.Service
	Verification *verification.Engine
	Boxes        *boxleague.Manager
}

var deps *Services

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(services Services) error {
	if services.DB == nil || services.Roster == nil || services.Schedule == nil ||
		services.Verification == nil || services.Boxes == nil {
		return errors.New("league handlers require every service")
	}
	deps = &services
	return nil
}

// RegisterRoutes mounts the league API on mux.
func RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/me", HandleMe)
	mux.HandleFunc("PUT /api/v1/me/rating-id", HandleSetRatingID)

	mux.HandleFunc("GET /api/v1/leagues", HandleLeaguesList)
	mux.HandleFunc("POST /api/v1/leagues", HandleLeagueCreate)
	mux.HandleFunc("GET /api/v1/leagues/{leagueID}", HandleLeagueGet)
	mux.HandleFunc("PATCH /api/v1/leagues/{leagueID}/settings", HandleSettingsUpdate)
	mux.HandleFunc("PUT /api/v1/leagues/{leagueID}/rules", HandleRulesUpdate)

	mux.HandleFunc("GET /api/v1/leagues/{leagueID}/organizers", HandleOrganizersList)
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/organizers", HandleOrganizerAdd)
	mux.HandleFunc("DELETE /api/v1/leagues/{leagueID}/organizers/{playerID}", HandleOrganizerRemove)

	mux.HandleFunc("GET /api/v1/leagues/{leagueID}/members", HandleMembersList)
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/members", HandleMemberRegister)
	mux.HandleFunc("DELETE /api/v1/leagues/{leagueID}/members/{memberID}", HandleMemberWithdraw)
	mux.HandleFunc("PUT /api/v1/leagues/{leagueID}/members/{memberID}/rating", HandleMemberRating)

	mux.HandleFunc("GET /api/v1/leagues/{leagueID}/courts", HandleCourtsList)
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/courts", HandleCourtAdd)
	mux.HandleFunc("PUT /api/v1/leagues/{leagueID}/courts/{courtID}", HandleCourtUpdate)

	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/schedule", HandleScheduleGenerate)
	mux.HandleFunc("DELETE /api/v1/leagues/{leagueID}/schedule", HandleScheduleClear)
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/schedule/courts", HandleScheduleCourts)
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/challenges", HandleChallengeCreate)
	mux.HandleFunc("GET /api/v1/leagues/{leagueID}/standings", HandleStandings)

	mux.HandleFunc("GET /api/v1/leagues/{leagueID}/matches", HandleMatchesList)
	mux.HandleFunc("GET /api/v1/leagues/{leagueID}/matches/{matchID}", HandleMatchGet)
	mux.HandleFunc("GET /api/v1/leagues/{leagueID}/matches/{matchID}/history", HandleMatchHistory)
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/matches/{matchID}/propose", handleMatchAction(proposeScore))
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/matches/{matchID}/sign", handleMatchAction(signScore))
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/matches/{matchID}/dispute", handleMatchAction(disputeScore))
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/matches/{matchID}/finalize", handleMatchAction(finalizeScore))
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/matches/{matchID}/reset", handleMatchAction(resetScore))
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/matches/{matchID}/postpone", handleMatchAction(postponeMatch))
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/matches/{matchID}/reschedule", handleMatchAction(rescheduleMatch))
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/matches/{matchID}/cancel", handleMatchAction(cancelMatch))
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/matches/{matchID}/forfeit", handleMatchAction(forfeitMatch))

	mux.HandleFunc("GET /api/v1/leagues/{leagueID}/weeks", HandleWeeksList)
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/weeks", HandleWeekCreate)
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/weeks/seed", HandleWeekSeed)
	mux.HandleFunc("GET /api/v1/leagues/{leagueID}/weeks/{week}", HandleWeekGet)
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/weeks/{week}/recalculate", handleWeekAction(recalculateWeek))
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/weeks/{week}/activate", handleWeekAction(activateWeek))
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/weeks/{week}/close", handleWeekAction(closeWeek))
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/weeks/{week}/finalize", handleWeekAction(finalizeWeek))
	mux.HandleFunc("POST /api/v1/leagues/{leagueID}/weeks/{week}/deactivate", handleWeekAction(deactivateWeek))
}

func loadServices() *Services {
	return deps
}

// begin checks the handlers are wired and bounds the request.
func begin(w http.ResponseWriter, r *http.Request) (*Services, context.Context, context.CancelFunc, bool) {
	svc := loadServices()
	if svc == nil {
		log.Ctx(r.Context()).Error().Msg("League handlers not initialized")
		apiutil.Respond(w, r, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return nil, nil, nil, false
	}
	ctx, cancel := context.WithTimeout(r.Context(), leagueRequestTimeout)
	return svc, ctx, cancel, true
}

// leagueActor reads the league from the path and resolves the caller's role
// in it.
func leagueActor(ctx context.Context, svc *Services, r *http.Request) (int64, lg.Actor, error) {
	leagueID, err := request.PathID(r, leagueIDPathKey)
	if err != nil {
		return 0, lg.Actor{}, apiutil.BadRequest(err)
	}
	actor, err := authz.ActorFor(ctx, svc.DB.Queries, leagueID)
	if err != nil {
		return 0, lg.Actor{}, err
	}
	return leagueID, actor, nil
}

func pathLeagueID(r *http.Request) (int64, error) {
	leagueID, err := request.PathID(r, leagueIDPathKey)
	if err != nil {
		return 0, apiutil.BadRequest(err)
	}
	return leagueID, nil
}

func pathID(r *http.Request, key string) (int64, error) {
	id, err := request.PathID(r, key)
	if err != nil {
		return 0, apiutil.BadRequest(err)
	}
	return id, nil
}

func decode(r *http.Request, dst any) error {
	if err := apiutil.DecodeJSON(r, dst); err != nil {
		return apiutil.BadRequest(err)
	}
	return nil
}

// GET /api/v1/me
func HandleMe(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	user, err := authz.RequireUser(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	player, err := svc.Roster.GetPlayer(ctx, user.PlayerID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, player)
}

// PUT /api/v1/me/rating-id
func HandleSetRatingID(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	var req struct {
		RatingID string `json:"ratingId"`
	}
	actor, err := authz.PlayerActor(ctx)
	if err == nil {
		err = decode(r, &req)
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	player, err := svc.Roster.SetRatingID(ctx, actor.PlayerID, actor, req.RatingID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, player)
}

// GET /api/v1/leagues
func HandleLeaguesList(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	list, err := svc.Roster.ListLeagues(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, map[string]any{"leagues": list})
}

// POST /api/v1/leagues
func HandleLeagueCreate(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	var league lg.League
	actor, err := authz.PlayerActor(ctx)
	if err == nil {
		err = decode(r, &league)
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	created, err := svc.Roster.CreateLeague(ctx, actor, league)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusCreated, created)
}

// GET /api/v1/leagues/{leagueID}
func HandleLeagueGet(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	leagueID, err := pathLeagueID(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	league, err := svc.Roster.GetLeague(ctx, leagueID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, league)
}

// PATCH /api/v1/leagues/{leagueID}/settings
func HandleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	var update roster.SettingsUpdate
	leagueID, actor, err := leagueActor(ctx, svc, r)
	if err == nil {
		err = decode(r, &update)
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	league, err := svc.Roster.UpdateSettings(ctx, leagueID, actor, update)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, league)
}

// PUT /api/v1/leagues/{leagueID}/rules
func HandleRulesUpdate(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	var rules lg.League
	leagueID, actor, err := leagueActor(ctx, svc, r)
	if err == nil {
		err = decode(r, &rules)
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	league, err := svc.Roster.UpdateRules(ctx, leagueID, actor, rules)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, league)
}

// GET /api/v1/leagues/{leagueID}/organizers
func HandleOrganizersList(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	leagueID, err := pathLeagueID(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	organizers, err := svc.Roster.ListOrganizers(ctx, leagueID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, map[string]any{"organizers": organizers})
}

// POST /api/v1/leagues/{leagueID}/organizers
func HandleOrganizerAdd(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	var req struct {
		PlayerID int64 `json:"playerId"`
	}
	leagueID, actor, err := leagueActor(ctx, svc, r)
	if err == nil {
		err = decode(r, &req)
	}
	if err == nil {
		err = svc.Roster.AddOrganizer(ctx, leagueID, actor, req.PlayerID)
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/v1/leagues/{leagueID}/organizers/{playerID}
func HandleOrganizerRemove(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	leagueID, actor, err := leagueActor(ctx, svc, r)
	var playerID int64
	if err == nil {
		playerID, err = pathID(r, playerIDPathKey)
	}
	if err == nil {
		err = svc.Roster.RemoveOrganizer(ctx, leagueID, actor, playerID)
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/leagues/{leagueID}/members
func HandleMembersList(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	leagueID, err := pathLeagueID(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	members, err := svc.Roster.ListMembers(ctx, leagueID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	division := request.QueryString(r, "division")
	filtered := make([]lg.Member, 0, len(members))
	for _, member := range members {
		if division == "" || member.Division == division {
			filtered = append(filtered, member)
		}
	}
	apiutil.Respond(w, r, http.StatusOK, map[string]any{"members": filtered})
}

// POST /api/v1/leagues/{leagueID}/members
func HandleMemberRegister(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	var req roster.MemberRequest
	leagueID, actor, err := leagueActor(ctx, svc, r)
	if err == nil {
		err = decode(r, &req)
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	member, err := svc.Roster.RegisterMember(ctx, leagueID, actor, req)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusCreated, member)
}

// DELETE /api/v1/leagues/{leagueID}/members/{memberID}
func HandleMemberWithdraw(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	leagueID, actor, err := leagueActor(ctx, svc, r)
	var memberID int64
	if err == nil {
		memberID, err = pathID(r, memberIDPathKey)
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	member, err := svc.Roster.WithdrawMember(ctx, leagueID, memberID, actor)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, member)
}

// PUT /api/v1/leagues/{leagueID}/members/{memberID}/rating
func HandleMemberRating(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	var req struct {
		Rating *float64 `json:"rating"`
	}
	leagueID, actor, err := leagueActor(ctx, svc, r)
	var memberID int64
	if err == nil {
		memberID, err = pathID(r, memberIDPathKey)
	}
	if err == nil {
		err = decode(r, &req)
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	member, err := svc.Roster.SetMemberRating(ctx, leagueID, memberID, actor, req.Rating)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, member)
}

// GET /api/v1/leagues/{leagueID}/courts
func HandleCourtsList(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	leagueID, err := pathLeagueID(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	courts, err := svc.Roster.ListCourts(ctx, leagueID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, map[string]any{"courts": courts})
}

// POST /api/v1/leagues/{leagueID}/courts
func HandleCourtAdd(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	var req struct {
		Name string `json:"name"`
	}
	leagueID, actor, err := leagueActor(ctx, svc, r)
	if err == nil {
		err = decode(r, &req)
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	court, err := svc.Roster.AddCourt(ctx, leagueID, actor, req.Name)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusCreated, court)
}

// PUT /api/v1/leagues/{leagueID}/courts/{courtID}
func HandleCourtUpdate(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	var req struct {
		Active bool `json:"active"`
	}
	leagueID, actor, err := leagueActor(ctx, svc, r)
	var courtID int64
	if err == nil {
		courtID, err = pathID(r, courtIDPathKey)
	}
	if err == nil {
		err = decode(r, &req)
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	court, err := svc.Roster.SetCourtActive(ctx, leagueID, courtID, actor, req.Active)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, court)
}
