package leagues

import (
	"net/http"
	"time"

	"github.com/codr1/courtleague/internal/api/apiutil"
	lg "github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/request"
	"github.com/codr1/courtleague/internal/schedule"
	"github.com/codr1/courtleague/internal/standings"
)

type generateRequest struct {
	Division          string     `json:"division"`
	Rounds            int        `json:"rounds"`
	Round             int        `json:"round"`
	StartDate         *time.Time `json:"startDate"`
	RoundIntervalDays int        `json:"roundIntervalDays"`
	CourtMode         string     `json:"courtMode"`
}

func (req generateRequest) toService() (schedule.GenerateRequest, error) {
	if req.RoundIntervalDays < 0 {
		return schedule.GenerateRequest{}, lg.Invalid("roundIntervalDays", "cannot be negative")
	}
	out := schedule.GenerateRequest{
		Division:      req.Division,
		Rounds:        req.Rounds,
		Round:         req.Round,
		RoundInterval: time.Duration(req.RoundIntervalDays) * 24 * time.Hour,
	}
	if req.StartDate != nil {
		out.StartDate = req.StartDate.UTC()
	}
	if req.CourtMode != "" {
		mode, err := lg.ParseCourtMode(req.CourtMode)
		if err != nil {
			return schedule.GenerateRequest{}, err
		}
		out.CourtMode = mode
	}
	return out, nil
}

// POST /api/v1/leagues/{leagueID}/schedule
func HandleScheduleGenerate(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	var req generateRequest
	leagueID, actor, err := leagueActor(ctx, svc, r)
	if err == nil {
		err = decode(r, &req)
	}
	var generate schedule.GenerateRequest
	if err == nil {
		generate, err = req.toService()
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	report, err := svc.Schedule.Generate(ctx, leagueID, actor, generate)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusCreated, report)
}

// DELETE /api/v1/leagues/{leagueID}/schedule?division=
func HandleScheduleClear(w http.ResponseWriter, r *http.Request) {
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
	deleted, err := svc.Schedule.Clear(ctx, leagueID, actor, request.QueryString(r, "division"))
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, map[string]int64{"deleted": deleted})
}

// POST /api/v1/leagues/{leagueID}/schedule/courts
func HandleScheduleCourts(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	var req struct {
		Division string `json:"division"`
		Mode     string `json:"mode"`
	}
	leagueID, actor, err := leagueActor(ctx, svc, r)
	if err == nil {
		err = decode(r, &req)
	}
	var mode lg.CourtMode
	if err == nil {
		mode, err = lg.ParseCourtMode(req.Mode)
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	report, err := svc.Schedule.AssignCourts(ctx, leagueID, actor, req.Division, mode)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, report)
}

// POST /api/v1/leagues/{leagueID}/challenges
func HandleChallengeCreate(w http.ResponseWriter, r *http.Request) {
	svc, ctx, cancel, ok := begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	var req struct {
		ChallengerID int64 `json:"challengerId"`
		DefenderID   int64 `json:"defenderId"`
	}
	leagueID, actor, err := leagueActor(ctx, svc, r)
	if err == nil {
		err = decode(r, &req)
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	match, err := svc.Schedule.CreateChallenge(ctx, leagueID, actor, req.ChallengerID, req.DefenderID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusCreated, match)
}

// GET /api/v1/leagues/{leagueID}/standings?division=
func HandleStandings(w http.ResponseWriter, r *http.Request) {
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
	division := request.QueryString(r, "division")
	table, err := standings.Table(ctx, svc.DB.Queries, leagueID, division)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, map[string]any{
		"leagueId":  leagueID,
		"division":  division,
		"standings": table,
	})
}
