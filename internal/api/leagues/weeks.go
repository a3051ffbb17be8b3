package leagues

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtleague/internal/api/apiutil"
	"github.com/codr1/courtleague/internal/boxleague"
	lg "github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/request"
)

type weekResponse struct {
	boxleague.WeekView
	Warning string `json:"warning,omitempty"`
}

// GET /api/v1/leagues/{leagueID}/weeks
func HandleWeeksList(w http.ResponseWriter, r *http.Request) {
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
	weeks, err := svc.Boxes.ListWeeks(ctx, leagueID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, map[string]any{"weeks": weeks})
}

// POST /api/v1/leagues/{leagueID}/weeks/seed
func HandleWeekSeed(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	leagueID, actor, err := leagueActor(ctx, svc, r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	week, err := svc.Boxes.SeedFirstWeek(ctx, leagueID, actor)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusCreated, week)
}

// POST /api/v1/leagues/{leagueID}/weeks
func HandleWeekCreate(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	var req struct {
		Boxes []lg.Box `json:"boxes"`
	}
	leagueID, actor, err := leagueActor(ctx, svc, r)
	if err == nil {
		err = decode(r, &req)
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	week, err := svc.Boxes.CreateDraft(ctx, leagueID, actor, req.Boxes)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusCreated, week)
}

// GET /api/v1/leagues/{leagueID}/weeks/{week}
//
// A week whose match links could not be repaired is still returned, with
// the warning in the body.
func HandleWeekGet(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	leagueID, err := pathLeagueID(r)
	var number int
	if err == nil {
		number, err = request.PathInt(r, weekPathKey)
		if err != nil {
			err = apiutil.BadRequest(err)
		}
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	view, err := svc.Boxes.GetWeek(ctx, leagueID, number)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	resp := weekResponse{WeekView: view}
	if view.Warning != nil {
		log.Ctx(ctx).Warn().Err(view.Warning).Msg("Box week returned with recovery warning")
		resp.Warning = view.Warning.Error()
	}
	apiutil.Respond(w, r, http.StatusOK, resp)
}

type weekAction func(ctx context.Context, boxes *boxleague.Manager, leagueID int64, number int, actor lg.Actor) (any, error)

func handleWeekAction(action weekAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc, ctx, cancel, ok := begin(w, r)
		if !ok {
			return
		}
		defer cancel()

		leagueID, actor, err := leagueActor(ctx, svc, r)
		var number int
		if err == nil {
			number, err = request.PathInt(r, weekPathKey)
			if err != nil {
				err = apiutil.BadRequest(err)
			}
		}
		var result any
		if err == nil {
			result, err = action(ctx, svc.Boxes, leagueID, number, actor)
		}
		if err != nil {
			var warning *lg.RecoveryWarning
			if errors.As(err, &warning) {
				log.Ctx(ctx).Warn().Err(err).Msg("Box week action left a recovery warning")
			}
			apiutil.WriteError(w, r, err)
			return
		}
		apiutil.Respond(w, r, http.StatusOK, result)
	}
}

func recalculateWeek(ctx context.Context, boxes *boxleague.Manager, leagueID int64, number int, actor lg.Actor) (any, error) {
	return boxes.RecalculateDraft(ctx, leagueID, number, actor)
}

func activateWeek(ctx context.Context, boxes *boxleague.Manager, leagueID int64, number int, actor lg.Actor) (any, error) {
	return boxes.Activate(ctx, leagueID, number, actor)
}

func closeWeek(ctx context.Context, boxes *boxleague.Manager, leagueID int64, number int, actor lg.Actor) (any, error) {
	return boxes.StartClosing(ctx, leagueID, number, actor)
}

func finalizeWeek(ctx context.Context, boxes *boxleague.Manager, leagueID int64, number int, actor lg.Actor) (any, error) {
	return boxes.Finalize(ctx, leagueID, number, actor)
}

func deactivateWeek(ctx context.Context, boxes *boxleague.Manager, leagueID int64, number int, actor lg.Actor) (any, error) {
	return boxes.Deactivate(ctx, leagueID, number, actor)
}
