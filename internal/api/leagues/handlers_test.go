package leagues

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/codr1/courtleague/internal/api/authz"
	"github.com/codr1/courtleague/internal/boxleague"
	"github.com/codr1/courtleague/internal/db"
	lg "github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/roster"
	"github.com/codr1/courtleague/internal/schedule"
	"github.com/codr1/courtleague/internal/standings"
	"github.com/codr1/courtleague/internal/testutil"
	"github.com/codr1/courtleague/internal/verification"
)

type testServer struct {
	db        *db.DB
	handler   http.Handler
	standings *standings.Recomputer
}

// withTestUser stands in for the session middleware: X-Player-ID picks the
// caller.
func withTestUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := r.Header.Get("X-Player-ID"); raw != "" {
			playerID, _ := strconv.ParseInt(raw, 10, 64)
			r = r.WithContext(authz.ContextWithUser(r.Context(), &authz.AuthUser{PlayerID: playerID, DisplayName: "player " + raw}))
		}
		next.ServeHTTP(w, r)
	})
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	database := testutil.NewTestDB(t)
	recomputer, err := standings.NewRecomputer(database, 0)
	if err != nil {
		t.Fatalf("new recomputer: %v", err)
	}
	rosterSvc, err := roster.NewService(database, recomputer)
	if err != nil {
		t.Fatalf("new roster: %v", err)
	}
	scheduleSvc, err := schedule.NewService(database)
	if err != nil {
		t.Fatalf("new schedule: %v", err)
	}
	engine, err := verification.NewEngine(database, verification.WithStandings(recomputer))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	boxes, err := boxleague.NewManager(database)
	if err != nil {
		t.Fatalf("new box manager: %v", err)
	}

	prev := deps
	t.Cleanup(func() {
		recomputer.Wait()
		engine.Wait()
		deps = prev
	})
	if err := InitHandlers(Services{
		DB:           database,
		Roster:       rosterSvc,
		Schedule:     scheduleSvc,
		Verification: engine,
		Boxes:        boxes,
	}); err != nil {
		t.Fatalf("init handlers: %v", err)
	}

	mux := http.NewServeMux()
	RegisterRoutes(mux)
	return &testServer{db: database, handler: withTestUser(mux), standings: recomputer}
}

func (s *testServer) do(t *testing.T, method, path string, playerID int64, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &payload)
	if playerID > 0 {
		req.Header.Set("X-Player-ID", strconv.FormatInt(playerID, 10))
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func TestInitHandlersRequiresServices(t *testing.T) {
	if err := InitHandlers(Services{}); err == nil {
		t.Fatalf("expected error for missing services")
	}
}

func TestLeagueCreateAndRoster(t *testing.T) {
	srv := newTestServer(t)
	creator := testutil.CreatePlayer(t, srv.db, "casey", "")
	outsider := testutil.CreatePlayer(t, srv.db, "morgan", "")

	expectStatus(t, srv.do(t, http.MethodPost, "/api/v1/leagues", 0, lg.League{Name: "Spring"}), http.StatusUnauthorized)

	rec := srv.do(t, http.MethodPost, "/api/v1/leagues", creator, lg.League{Name: "Spring Singles"})
	expectStatus(t, rec, http.StatusCreated)
	league := decodeBody[lg.League](t, rec)
	if league.ID == 0 || league.Format != lg.FormatRoundRobin {
		t.Fatalf("unexpected league %+v", league)
	}
	base := fmt.Sprintf("/api/v1/leagues/%d", league.ID)

	rec = srv.do(t, http.MethodGet, base, 0, nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[lg.League](t, rec); got.Name != "Spring Singles" {
		t.Fatalf("unexpected league %+v", got)
	}

	tests := []struct {
		name     string
		method   string
		path     string
		playerID int64
		body     any
		want     int
	}{
		{name: "bad league id", method: http.MethodGet, path: "/api/v1/leagues/abc", want: http.StatusBadRequest},
		{name: "missing league", method: http.MethodGet, path: "/api/v1/leagues/999", want: http.StatusNotFound},
		{name: "outsider adds court", method: http.MethodPost, path: base + "/courts", playerID: outsider, body: map[string]string{"name": "Court 1"}, want: http.StatusForbidden},
		{name: "organizer adds court", method: http.MethodPost, path: base + "/courts", playerID: creator, body: map[string]string{"name": "Court 1"}, want: http.StatusCreated},
		{name: "duplicate court", method: http.MethodPost, path: base + "/courts", playerID: creator, body: map[string]string{"name": "court 1"}, want: http.StatusUnprocessableEntity},
		{name: "unknown field", method: http.MethodPost, path: base + "/courts", playerID: creator, body: map[string]string{"title": "Court 2"}, want: http.StatusBadRequest},
		{name: "self registration", method: http.MethodPost, path: base + "/members", playerID: outsider, body: roster.MemberRequest{PlayerIDs: []int64{outsider}}, want: http.StatusCreated},
		{name: "duplicate registration", method: http.MethodPost, path: base + "/members", playerID: outsider, body: roster.MemberRequest{PlayerIDs: []int64{outsider}}, want: http.StatusUnprocessableEntity},
		{name: "remove last organizer", method: http.MethodDelete, path: fmt.Sprintf("%s/organizers/%d", base, creator), playerID: creator, want: http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, srv.do(t, tt.method, tt.path, tt.playerID, tt.body), tt.want)
		})
	}

	rec = srv.do(t, http.MethodGet, base+"/members", 0, nil)
	expectStatus(t, rec, http.StatusOK)
	members := decodeBody[struct {
		Members []lg.Member `json:"members"`
	}](t, rec)
	if len(members.Members) != 1 || members.Members[0].PlayerIDs[0] != outsider {
		t.Fatalf("unexpected members %+v", members.Members)
	}
}

func TestMatchLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	league := testutil.CreateLeague(t, srv.db, lg.League{Name: "Tuesday"})
	organizer := testutil.AddOrganizer(t, srv.db, league.ID, "olivia")
	members := testutil.CreateMembers(t, srv.db, league.ID, 4)
	base := fmt.Sprintf("/api/v1/leagues/%d", league.ID)

	expectStatus(t, srv.do(t, http.MethodPost, base+"/schedule", members[0].PlayerIDs[0], map[string]any{}), http.StatusForbidden)

	rec := srv.do(t, http.MethodPost, base+"/schedule", organizer, map[string]any{"roundIntervalDays": 7})
	expectStatus(t, rec, http.StatusCreated)
	report := decodeBody[schedule.GenerateReport](t, rec)
	if len(report.Matches) != 6 {
		t.Fatalf("expected 6 fixtures, got %d", len(report.Matches))
	}
	expectStatus(t, srv.do(t, http.MethodPost, base+"/schedule", organizer, map[string]any{}), http.StatusConflict)

	match := report.Matches[0]
	matchPath := fmt.Sprintf("%s/matches/%d", base, match.ID)
	proposer := match.SideA.PlayerIDs[0]
	opponent := match.SideB.PlayerIDs[0]
	var bystander int64
	for _, member := range members {
		if !match.IsParticipant(member.PlayerIDs[0]) {
			bystander = member.PlayerIDs[0]
			break
		}
	}

	steps := []struct {
		name     string
		action   string
		playerID int64
		body     any
		want     int
	}{
		{name: "bystander proposes", action: "/propose", playerID: bystander, body: map[string]any{"games": []lg.Game{{A: 11, B: 7}}}, want: http.StatusForbidden},
		{name: "illegal score", action: "/propose", playerID: proposer, body: map[string]any{"games": []lg.Game{{A: 11, B: 10}}}, want: http.StatusUnprocessableEntity},
		{name: "propose", action: "/propose", playerID: proposer, body: map[string]any{"games": []lg.Game{{A: 11, B: 7}}}, want: http.StatusOK},
		{name: "proposer signs", action: "/sign", playerID: proposer, want: http.StatusForbidden},
		{name: "opponent signs", action: "/sign", playerID: opponent, want: http.StatusOK},
		{name: "double sign", action: "/sign", playerID: opponent, want: http.StatusConflict},
		{name: "finalize", action: "/finalize", playerID: proposer, want: http.StatusOK},
	}
	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			expectStatus(t, srv.do(t, http.MethodPost, matchPath+step.action, step.playerID, step.body), step.want)
		})
	}

	rec = srv.do(t, http.MethodGet, matchPath, 0, nil)
	expectStatus(t, rec, http.StatusOK)
	official := decodeBody[lg.Match](t, rec)
	if official.ScoreState != lg.ScoreOfficial || official.Winner != lg.SideA {
		t.Fatalf("expected official side A win, got %+v", official)
	}

	rec = srv.do(t, http.MethodGet, matchPath+"/history", 0, nil)
	expectStatus(t, rec, http.StatusOK)
	history := decodeBody[struct {
		Events []json.RawMessage `json:"events"`
	}](t, rec)
	if len(history.Events) != 3 {
		t.Fatalf("expected propose, sign and finalize events, got %d", len(history.Events))
	}

	rec = srv.do(t, http.MethodGet, base+"/matches?status=completed", 0, nil)
	expectStatus(t, rec, http.StatusOK)
	listed := decodeBody[struct {
		Matches []lg.Match `json:"matches"`
	}](t, rec)
	if len(listed.Matches) != 1 || listed.Matches[0].ID != match.ID {
		t.Fatalf("expected only the completed match, got %+v", listed.Matches)
	}

	srv.standings.Wait()
	rec = srv.do(t, http.MethodGet, base+"/standings", 0, nil)
	expectStatus(t, rec, http.StatusOK)
	table := decodeBody[struct {
		Standings []lg.StandingEntry `json:"standings"`
	}](t, rec)
	if len(table.Standings) != 4 || table.Standings[0].MemberID != match.SideA.MemberIDs[0] {
		t.Fatalf("expected the winner on top, got %+v", table.Standings)
	}
	if table.Standings[0].Stats.Wins != 1 {
		t.Fatalf("expected one win, got %+v", table.Standings[0].Stats)
	}

	other := testutil.CreateLeague(t, srv.db, lg.League{Name: "Other"})
	wrongLeague := fmt.Sprintf("/api/v1/leagues/%d/matches/%d", other.ID, match.ID)
	expectStatus(t, srv.do(t, http.MethodGet, wrongLeague, 0, nil), http.StatusNotFound)
}

func TestBoxWeekOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	league := testutil.CreateLeague(t, srv.db, lg.League{
		Format: lg.FormatFixedBox,
		Box:    lg.BoxRules{BoxSize: 4, PromoteCount: 1, RelegateCount: 1},
	})
	organizer := testutil.AddOrganizer(t, srv.db, league.ID, "olivia")
	testutil.CreateMembers(t, srv.db, league.ID, 8)
	base := fmt.Sprintf("/api/v1/leagues/%d/weeks", league.ID)

	rec := srv.do(t, http.MethodPost, base+"/seed", organizer, nil)
	expectStatus(t, rec, http.StatusCreated)
	week := decodeBody[lg.BoxWeek](t, rec)
	if week.Number != 1 || week.State != lg.WeekDraft || len(week.Boxes) != 2 {
		t.Fatalf("unexpected seeded week %+v", week)
	}

	expectStatus(t, srv.do(t, http.MethodPost, base+"/1/activate", 0, nil), http.StatusUnauthorized)

	rec = srv.do(t, http.MethodPost, base+"/1/activate", organizer, nil)
	expectStatus(t, rec, http.StatusOK)
	if active := decodeBody[lg.BoxWeek](t, rec); active.State != lg.WeekActive || active.TotalMatches != 12 {
		t.Fatalf("unexpected active week %+v", active)
	}
	expectStatus(t, srv.do(t, http.MethodPost, base+"/1/activate", organizer, nil), http.StatusConflict)

	rec = srv.do(t, http.MethodGet, base+"/1", 0, nil)
	expectStatus(t, rec, http.StatusOK)
	view := decodeBody[struct {
		Week    lg.BoxWeek `json:"week"`
		Matches []lg.Match `json:"matches"`
		Warning string     `json:"warning"`
	}](t, rec)
	if len(view.Matches) != 12 || view.Warning != "" {
		t.Fatalf("unexpected week view: %d matches, warning %q", len(view.Matches), view.Warning)
	}

	rec = srv.do(t, http.MethodPost, base+"/1/close", organizer, nil)
	expectStatus(t, rec, http.StatusOK)
	closing := decodeBody[boxleague.ClosingReport](t, rec)
	if closing.Unplayed != 12 {
		t.Fatalf("expected 12 unplayed matches, got %+v", closing)
	}

	expectStatus(t, srv.do(t, http.MethodGet, base+"/x", 0, nil), http.StatusBadRequest)
	expectStatus(t, srv.do(t, http.MethodGet, base+"/9", 0, nil), http.StatusNotFound)
}
