package leagues

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtleague/internal/api/apiutil"
	lg "github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/models"
	"github.com/codr1/courtleague/internal/request"
	"github.com/codr1/courtleague/internal/verification"
)

// matchFilter narrows a match listing. Zero fields match everything.
type matchFilter struct {
	division string
	week     int
	status   lg.MatchStatus
	from     *time.Time
	to       *time.Time
}

func parseMatchFilter(r *http.Request) (matchFilter, error) {
	filter := matchFilter{
		division: request.QueryString(r, "division"),
		status:   lg.MatchStatus(request.QueryString(r, "status")),
	}
	if raw := request.QueryString(r, "week"); raw != "" {
		week, err := strconv.Atoi(raw)
		if err != nil || week < 0 {
			return matchFilter{}, lg.Invalid("week", "must be a week number")
		}
		filter.week = week
	}
	var err error
	if filter.from, err = request.QueryTime(r, "from"); err != nil {
		return matchFilter{}, lg.Invalid("from", "%v", err)
	}
	if filter.to, err = request.QueryTime(r, "to"); err != nil {
		return matchFilter{}, lg.Invalid("to", "%v", err)
	}
	return filter, nil
}

func (f matchFilter) keep(match lg.Match) bool {
	switch {
	case f.division != "" && match.Division != f.division:
		return false
	case f.week > 0 && match.Week != f.week:
		return false
	case f.status != "" && match.Status != f.status:
		return false
	}
	if f.from != nil || f.to != nil {
		if match.ScheduledAt == nil {
			return false
		}
		if f.from != nil && match.ScheduledAt.Before(*f.from) {
			return false
		}
		if f.to != nil && !match.ScheduledAt.Before(*f.to) {
			return false
		}
	}
	return true
}

// GET /api/v1/leagues/{leagueID}/matches
func HandleMatchesList(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	leagueID, err := pathLeagueID(r)
	var filter matchFilter
	if err == nil {
		filter, err = parseMatchFilter(r)
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if _, err := models.GetLeague(ctx, svc.DB.Queries, leagueID); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	matches, err := models.ListMatches(ctx, svc.DB.Queries, leagueID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	result := make([]lg.Match, 0, len(matches))
	for _, match := range matches {
		if filter.keep(match) {
			result = append(result, match)
		}
	}
	apiutil.Respond(w, r, http.StatusOK, map[string]any{"matches": result})
}

// leagueMatch loads a match and checks it belongs to the league in the path.
func leagueMatch(ctx context.Context, svc *Services, r *http.Request, leagueID int64) (lg.Match, error) {
	matchID, err := pathID(r, matchIDPathKey)
	if err != nil {
		return lg.Match{}, err
	}
	match, err := svc.Verification.Get(ctx, matchID)
	if err != nil {
		return lg.Match{}, err
	}
	if match.LeagueID != leagueID {
		return lg.Match{}, lg.NotFound("match", matchID)
	}
	return match, nil
}

// GET /api/v1/leagues/{leagueID}/matches/{matchID}
func HandleMatchGet(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	leagueID, err := pathLeagueID(r)
	var match lg.Match
	if err == nil {
		match, err = leagueMatch(ctx, svc, r, leagueID)
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, match)
}

// GET /api/v1/leagues/{leagueID}/matches/{matchID}/history
func HandleMatchHistory(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	leagueID, err := pathLeagueID(r)
	var match lg.Match
	if err == nil {
		match, err = leagueMatch(ctx, svc, r, leagueID)
	}
	var events []models.MatchEvent
	if err == nil {
		events, err = svc.Verification.History(ctx, match.ID)
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, map[string]any{"matchId": match.ID, "events": events})
}

// matchAction performs one transition. It decodes its own body.
type matchAction func(ctx context.Context, engine *verification.Engine, r *http.Request, matchID int64, actor lg.Actor) (lg.Match, error)

// handleMatchAction resolves the league, the actor and the match, then
// runs action.
func handleMatchAction(action matchAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc, ctx, cancel, ok := begin(w, r)
		if !ok {
			return
		}
		defer cancel()

		leagueID, actor, err := leagueActor(ctx, svc, r)
		var match lg.Match
		if err == nil {
			match, err = leagueMatch(ctx, svc, r, leagueID)
		}
		if err == nil {
			match, err = action(ctx, svc.Verification, r, match.ID, actor)
		}
		if err != nil {
			apiutil.WriteError(w, r, err)
			return
		}
		log.Ctx(ctx).Debug().
			Int64("league_id", leagueID).
			Int64("match_id", match.ID).
			Str("status", string(match.Status)).
			Str("score_state", string(match.ScoreState)).
			Msg("Match transition applied")
		apiutil.Respond(w, r, http.StatusOK, match)
	}
}

func proposeScore(ctx context.Context, engine *verification.Engine, r *http.Request, matchID int64, actor lg.Actor) (lg.Match, error) {
	var req struct {
		Games []lg.Game `json:"games"`
	}
	if err := decode(r, &req); err != nil {
		return lg.Match{}, err
	}
	return engine.Propose(ctx, matchID, actor, req.Games)
}

func signScore(ctx context.Context, engine *verification.Engine, r *http.Request, matchID int64, actor lg.Actor) (lg.Match, error) {
	return engine.Sign(ctx, matchID, actor)
}

func disputeScore(ctx context.Context, engine *verification.Engine, r *http.Request, matchID int64, actor lg.Actor) (lg.Match, error) {
	var req struct {
		Reason string `json:"reason"`
		Notes  string `json:"notes"`
	}
	if err := decode(r, &req); err != nil {
		return lg.Match{}, err
	}
	return engine.Dispute(ctx, matchID, actor, req.Reason, req.Notes)
}

func finalizeScore(ctx context.Context, engine *verification.Engine, r *http.Request, matchID int64, actor lg.Actor) (lg.Match, error) {
	var req verification.FinalizeRequest
	if r.ContentLength != 0 {
		if err := decode(r, &req); err != nil {
			return lg.Match{}, err
		}
	}
	return engine.Finalize(ctx, matchID, actor, req)
}

func resetScore(ctx context.Context, engine *verification.Engine, r *http.Request, matchID int64, actor lg.Actor) (lg.Match, error) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := decode(r, &req); err != nil {
		return lg.Match{}, err
	}
	return engine.Reset(ctx, matchID, actor, req.Reason)
}

func postponeMatch(ctx context.Context, engine *verification.Engine, r *http.Request, matchID int64, actor lg.Actor) (lg.Match, error) {
	var req verification.PostponeRequest
	if err := decode(r, &req); err != nil {
		return lg.Match{}, err
	}
	return engine.Postpone(ctx, matchID, actor, req)
}

func rescheduleMatch(ctx context.Context, engine *verification.Engine, r *http.Request, matchID int64, actor lg.Actor) (lg.Match, error) {
	var req struct {
		ScheduledAt time.Time `json:"scheduledAt"`
	}
	if err := decode(r, &req); err != nil {
		return lg.Match{}, err
	}
	return engine.Reschedule(ctx, matchID, actor, req.ScheduledAt)
}

func cancelMatch(ctx context.Context, engine *verification.Engine, r *http.Request, matchID int64, actor lg.Actor) (lg.Match, error) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := decode(r, &req); err != nil {
		return lg.Match{}, err
	}
	return engine.Cancel(ctx, matchID, actor, req.Reason)
}

func forfeitMatch(ctx context.Context, engine *verification.Engine, r *http.Request, matchID int64, actor lg.Actor) (lg.Match, error) {
	var req struct {
		Winner lg.Side `json:"winner"`
		NoShow bool    `json:"noShow"`
		Reason string  `json:"reason"`
	}
	if err := decode(r, &req); err != nil {
		return lg.Match{}, err
	}
	return engine.RecordForfeit(ctx, matchID, actor, req.Winner, req.NoShow, req.Reason)
}
