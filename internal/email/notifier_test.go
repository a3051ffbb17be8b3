package email

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	dbgen "github.com/codr1/courtleague/internal/db/generated"
	"github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/testutil"
	"github.com/codr1/courtleague/internal/verification"
)

type sentEmail struct {
	recipient string
	subject   string
	body      string
	sender    string
}

type fakeEmailSender struct {
	mu     sync.Mutex
	sent   []sentEmail
	failTo string
	ctxErr []error
}

func (f *fakeEmailSender) Send(ctx context.Context, recipient, subject, body string) error {
	return f.SendFrom(ctx, recipient, subject, body, "")
}

func (f *fakeEmailSender) SendFrom(ctx context.Context, recipient, subject, body, sender string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctxErr = append(f.ctxErr, ctx.Err())
	if recipient == f.failTo {
		return errors.New("mailbox unavailable")
	}
	f.sent = append(f.sent, sentEmail{recipient: recipient, subject: subject, body: body, sender: sender})
	return nil
}

func (f *fakeEmailSender) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]string, 0, len(f.sent))
	for _, email := range f.sent {
		result = append(result, email.recipient)
	}
	slices.Sort(result)
	return result
}

func proposedNotice(recipients ...int64) verification.Notice {
	return verification.Notice{
		Kind:       verification.NoticeScoreProposed,
		LeagueID:   1,
		LeagueName: "Tuesday Ladder",
		MatchID:    7,
		Recipients: recipients,
		ActorName:  "alice",
		Games:      []leagues.Game{{A: 11, B: 9}, {A: 6, B: 11}, {A: 11, B: 4}},
		Match: leagues.Match{
			ID:    7,
			SideA: leagues.MatchSide{Name: "alice"},
			SideB: leagues.MatchSide{Name: "bob"},
		},
	}
}

func TestNotifierEmailsEveryRecipient(t *testing.T) {
	database := testutil.NewTestDB(t)
	bob := testutil.CreatePlayer(t, database, "bob", "")
	carol := testutil.CreatePlayer(t, database, "carol", "")
	silent, err := database.Queries.CreatePlayer(context.Background(), dbgen.CreatePlayerParams{DisplayName: "no-email"})
	if err != nil {
		t.Fatalf("create player: %v", err)
	}

	sender := &fakeEmailSender{}
	notifier, err := NewNotifier(database.Queries, sender, "league@example.com")
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := notifier.Notify(ctx, proposedNotice(bob, carol, silent.ID, bob)); err != nil {
		t.Fatalf("notify: %v", err)
	}

	want := []string{"bob@example.com", "carol@example.com"}
	if got := sender.recipients(); !slices.Equal(got, want) {
		t.Fatalf("expected recipients %v, got %v", want, got)
	}
	for _, err := range sender.ctxErr {
		if err != nil {
			t.Fatalf("expected sends to ignore caller cancellation, got %v", err)
		}
	}
	first := sender.sent[0]
	if first.sender != "league@example.com" || !strings.Contains(first.subject, "Tuesday Ladder") {
		t.Fatalf("unexpected email %+v", first)
	}
	if !strings.Contains(first.body, "11-9, 6-11, 11-4") {
		t.Fatalf("expected score line in body, got %q", first.body)
	}
}

func TestNotifierReportsFailedDeliveries(t *testing.T) {
	database := testutil.NewTestDB(t)
	bob := testutil.CreatePlayer(t, database, "bob", "")
	carol := testutil.CreatePlayer(t, database, "carol", "")

	sender := &fakeEmailSender{failTo: "bob@example.com"}
	notifier, err := NewNotifier(database.Queries, sender, "")
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}
	err = notifier.Notify(context.Background(), proposedNotice(bob, carol))
	if err == nil || !strings.Contains(err.Error(), "mailbox unavailable") {
		t.Fatalf("expected delivery failure, got %v", err)
	}
	if got := sender.recipients(); !slices.Equal(got, []string{"carol@example.com"}) {
		t.Fatalf("expected carol still emailed, got %v", got)
	}
}

func TestBuildNotice(t *testing.T) {
	deadline := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	match := leagues.Match{
		SideA:    leagues.MatchSide{Name: "alice"},
		SideB:    leagues.MatchSide{Name: "bob"},
		Winner:   leagues.SideB,
		Postpone: &leagues.PostponeRecord{Reason: "rain", MakeupDeadline: &deadline},
	}

	tests := []struct {
		kind    verification.NoticeKind
		subject string
		body    string
	}{
		{kind: verification.NoticeScoreProposed, subject: "Confirm your score", body: "alice reported a score for alice vs bob"},
		{kind: verification.NoticeScoreDisputed, subject: "Score disputed", body: "Reason: wrong score"},
		{kind: verification.NoticeScoreFinalized, subject: "Result confirmed", body: "Winner: bob"},
		{kind: verification.NoticePostponed, subject: "Match postponed", body: "Play by: Friday, May 1, 2026 6:00 PM UTC"},
		{kind: verification.NoticeMakeupOverdue, subject: "Makeup deadline passed", body: "has passed"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			message, err := BuildNotice(verification.Notice{
				Kind:       tt.kind,
				LeagueName: "Spring",
				ActorName:  "alice",
				Reason:     "wrong score",
				Match:      match,
			})
			if err != nil {
				t.Fatalf("build notice: %v", err)
			}
			if !strings.HasPrefix(message.Subject, tt.subject) || !strings.HasSuffix(message.Subject, "Spring") {
				t.Fatalf("unexpected subject %q", message.Subject)
			}
			if !strings.Contains(message.Body, tt.body) {
				t.Fatalf("expected body to contain %q, got %q", tt.body, message.Body)
			}
		})
	}

	if _, err := BuildNotice(verification.Notice{Kind: "unknown"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
