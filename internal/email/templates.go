package email

import (
	"fmt"
	"strings"
	"time"

	"github.com/codr1/courtleague/internal/leagues"
	"github.com/codr1/courtleague/internal/verification"
)

type Message struct {
	Subject string
	Body    string
}

// FormatGames renders a score line such as "11-9, 7-11, 11-4".
func FormatGames(games []leagues.Game) string {
	if len(games) == 0 {
		return "no games recorded"
	}
	parts := make([]string, 0, len(games))
	for _, game := range games {
		parts = append(parts, game.String())
	}
	return strings.Join(parts, ", ")
}

func FormatMatchTime(at *time.Time) string {
	if at == nil || at.IsZero() {
		return "TBD"
	}
	return at.Format("Monday, Jan 2, 2006 3:04 PM MST")
}

// BuildNotice renders the email for a match notice.
func BuildNotice(notice verification.Notice) (Message, error) {
	league := strings.TrimSpace(notice.LeagueName)
	if league == "" {
		league = "your league"
	}
	matchup := fmt.Sprintf("%s vs %s", notice.Match.SideA.Name, notice.Match.SideB.Name)
	actor := strings.TrimSpace(notice.ActorName)
	if actor == "" {
		actor = "A player"
	}

	var subject string
	var lines []string
	switch notice.Kind {
	case verification.NoticeScoreProposed:
		subject = fmt.Sprintf("Confirm your score - %s", league)
		lines = []string{
			fmt.Sprintf("%s reported a score for %s.", actor, matchup),
			"",
			fmt.Sprintf("Score: %s", FormatGames(notice.Games)),
			"",
			"Sign the result if it is correct, or dispute it if it is not.",
		}
	case verification.NoticeScoreDisputed:
		subject = fmt.Sprintf("Score disputed - %s", league)
		lines = []string{
			fmt.Sprintf("%s disputed the score for %s.", actor, matchup),
			"",
			fmt.Sprintf("Reported score: %s", FormatGames(notice.Games)),
			fmt.Sprintf("Reason: %s", notice.Reason),
			"",
			"An organizer needs to resolve the result.",
		}
	case verification.NoticeScoreFinalized:
		subject = fmt.Sprintf("Result confirmed - %s", league)
		lines = []string{
			fmt.Sprintf("The result for %s is now official.", matchup),
			"",
			fmt.Sprintf("Score: %s", FormatGames(notice.Games)),
			fmt.Sprintf("Winner: %s", winnerName(notice.Match)),
		}
	case verification.NoticePostponed:
		subject = fmt.Sprintf("Match postponed - %s", league)
		lines = []string{
			fmt.Sprintf("%s postponed %s.", actor, matchup),
			"",
			fmt.Sprintf("Reason: %s", notice.Reason),
			fmt.Sprintf("Play by: %s", FormatMatchTime(makeupDeadline(notice.Match))),
		}
	case verification.NoticeMakeupOverdue:
		subject = fmt.Sprintf("Makeup deadline passed - %s", league)
		lines = []string{
			fmt.Sprintf("The makeup deadline for %s has passed.", matchup),
			"",
			fmt.Sprintf("Deadline: %s", FormatMatchTime(makeupDeadline(notice.Match))),
			"",
			"Reschedule the match or ask an organizer to record the outcome.",
		}
	default:
		return Message{}, fmt.Errorf("unknown notice kind %q", notice.Kind)
	}

	return Message{Subject: subject, Body: strings.Join(lines, "\n")}, nil
}

func winnerName(match leagues.Match) string {
	switch match.Winner {
	case leagues.SideA:
		return match.SideA.Name
	case leagues.SideB:
		return match.SideB.Name
	default:
		return "TBD"
	}
}

func makeupDeadline(match leagues.Match) *time.Time {
	if match.Postpone == nil {
		return nil
	}
	return match.Postpone.MakeupDeadline
}
