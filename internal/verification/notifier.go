package verification

import (
	"context"

	"github.com/codr1/courtleague/internal/leagues"
)

type NoticeKind string

const (
	NoticeScoreProposed  NoticeKind = "score_proposed"
	NoticeScoreDisputed  NoticeKind = "score_disputed"
	NoticeScoreFinalized NoticeKind = "score_finalized"
	NoticePostponed      NoticeKind = "match_postponed"
	NoticeMakeupOverdue  NoticeKind = "makeup_overdue"
)

// Notice is a message for a set of players about one match.
type Notice struct {
	Kind       NoticeKind
	LeagueID   int64
	LeagueName string
	MatchID    int64
	Recipients []int64
	ActorName  string
	Games      []leagues.Game
	Reason     string
	Match      leagues.Match
}

// Notifier delivers notices. Errors are logged by the engine and never
// affect the transition that produced the notice.
type Notifier interface {
	Notify(ctx context.Context, notice Notice) error
}

// StandingsTrigger schedules a standings recomputation for a league.
type StandingsTrigger interface {
	Trigger(ctx context.Context, leagueID int64)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Notice) error { return nil }

type noopStandings struct{}

func (noopStandings) Trigger(context.Context, int64) {}
