package leagues

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type Format string

const (
	FormatRoundRobin  Format = "round_robin"
	FormatSwiss       Format = "swiss"
	FormatLadder      Format = "ladder"
	FormatRotatingBox Format = "rotating_box"
	FormatFixedBox    Format = "fixed_box"
)

// ParseFormat normalizes a stored or user supplied format name.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatRoundRobin:
		return FormatRoundRobin, nil
	case FormatSwiss:
		return FormatSwiss, nil
	case FormatLadder:
		return FormatLadder, nil
	case FormatRotatingBox:
		return FormatRotatingBox, nil
	case FormatFixedBox:
		return FormatFixedBox, nil
	default:
		return "", Invalid("format", "unsupported league format %q", raw)
	}
}

func (f Format) IsBox() bool {
	return f == FormatRotatingBox || f == FormatFixedBox
}

// ScoringRules describe a legal game and match.
type ScoringRules struct {
	TargetPoints int `json:"targetPoints"`
	WinBy        int `json:"winBy"`
	BestOf       int `json:"bestOf"`
	// MaxPoints caps how far a win-by-2 game may run past the target.
	// Zero uses DeuceCap(TargetPoints).
	MaxPoints int `json:"maxPoints,omitempty"`
}

var DefaultScoringRules = ScoringRules{TargetPoints: 11, WinBy: 2, BestOf: 1}

type VerificationPolicy struct {
	RequiredConfirmations int           `json:"requiredConfirmations"`
	AllowDisputes         bool          `json:"allowDisputes"`
	AutoConfirm           bool          `json:"autoConfirm"`
	AutoConfirmAfter      time.Duration `json:"autoConfirmAfter"`
}

var DefaultVerificationPolicy = VerificationPolicy{RequiredConfirmations: 1, AllowDisputes: true}

// PointsRule is the league points awarded per result.
type PointsRule struct {
	Win  int `json:"win"`
	Loss int `json:"loss"`
}

var DefaultPointsRule = PointsRule{Win: 2, Loss: 0}

type BoxRules struct {
	BoxSize       int `json:"boxSize"`
	PromoteCount  int `json:"promoteCount"`
	RelegateCount int `json:"relegateCount"`
	SeasonWeeks   int `json:"seasonWeeks"`
}

const (
	MinBoxSize = 3
	MaxBoxSize = 6
)

type League struct {
	ID             int64              `json:"id"`
	Name           string             `json:"name"`
	Format         Format             `json:"format"`
	Tiebreakers    []Tiebreaker       `json:"tiebreakers"`
	Verification   VerificationPolicy `json:"verification"`
	RatingGoverned bool               `json:"ratingGoverned"`
	Scoring        ScoringRules       `json:"scoring"`
	Points         PointsRule         `json:"points"`
	Box            BoxRules           `json:"box"`
	LadderRange    int                `json:"ladderRange"`
}

type MemberStatus string

const (
	MemberActive    MemberStatus = "active"
	MemberWithdrawn MemberStatus = "withdrawn"
)

// RecentFormWindow is how many results Stats.Recent keeps.
const RecentFormWindow = 5

type Stats struct {
	Played        int    `json:"played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Points        int    `json:"points"`
	PointsFor     int    `json:"pointsFor"`
	PointsAgainst int    `json:"pointsAgainst"`
	GamesWon      int    `json:"gamesWon"`
	GamesLost     int    `json:"gamesLost"`
	Recent        string `json:"recent"`
}

func (s Stats) PointDifferential() int { return s.PointsFor - s.PointsAgainst }
func (s Stats) GameDifferential() int  { return s.GamesWon - s.GamesLost }

// RecentWins counts wins inside the recent form window.
func (s Stats) RecentWins() int {
	return strings.Count(s.Recent, "W")
}

func (s *Stats) pushResult(won bool) {
	mark := "L"
	if won {
		mark = "W"
	}
	s.Recent += mark
	if len(s.Recent) > RecentFormWindow {
		s.Recent = s.Recent[len(s.Recent)-RecentFormWindow:]
	}
}

// Member is a league entry: a single player or a fixed team.
type Member struct {
	ID          int64        `json:"id"`
	LeagueID    int64        `json:"leagueId"`
	Division    string       `json:"division"`
	DisplayName string       `json:"displayName"`
	PlayerIDs   []int64      `json:"playerIds"`
	Rating      *float64     `json:"rating,omitempty"`
	Rank        int          `json:"rank"`
	Status      MemberStatus `json:"status"`
	Stats       Stats        `json:"stats"`
}

func (m Member) Active() bool { return m.Status == MemberActive }

func (m Member) side() MatchSide {
	return MatchSide{
		MemberIDs: []int64{m.ID},
		PlayerIDs: slices.Clone(m.PlayerIDs),
		Name:      m.DisplayName,
	}
}

type Side int

const (
	SideNone Side = iota
	SideA
	SideB
)

func (s Side) Opposite() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	default:
		return SideNone
	}
}

func (s Side) String() string {
	switch s {
	case SideA:
		return "a"
	case SideB:
		return "b"
	default:
		return ""
	}
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	parsed, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseSide(raw string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return SideNone, nil
	case "a":
		return SideA, nil
	case "b":
		return SideB, nil
	default:
		return SideNone, Invalid("side", "unknown side %q", raw)
	}
}

type MatchSide struct {
	MemberIDs []int64 `json:"memberIds"`
	PlayerIDs []int64 `json:"playerIds"`
	Name      string  `json:"name"`
}

func (s MatchSide) HasPlayer(playerID int64) bool {
	return slices.Contains(s.PlayerIDs, playerID)
}

// Game is a single game score from side A's and side B's perspective.
type Game struct {
	A int `json:"a"`
	B int `json:"b"`
}

func (g Game) String() string { return fmt.Sprintf("%d-%d", g.A, g.B) }

type ScoreState string

const (
	ScoreUnscored ScoreState = "unscored"
	ScoreProposed ScoreState = "proposed"
	ScoreSigned   ScoreState = "signed"
	ScoreOfficial ScoreState = "official"
	ScoreDisputed ScoreState = "disputed"
)

type MatchStatus string

const (
	StatusScheduled           MatchStatus = "scheduled"
	StatusPendingConfirmation MatchStatus = "pending_confirmation"
	StatusCompleted           MatchStatus = "completed"
	StatusDisputed            MatchStatus = "disputed"
	StatusCancelled           MatchStatus = "cancelled"
	StatusPostponed           MatchStatus = "postponed"
	StatusForfeit             MatchStatus = "forfeit"
	StatusNoShow              MatchStatus = "no_show"
)

type Proposal struct {
	ID         string    `json:"id"`
	ProposerID int64     `json:"proposerId"`
	Side       Side      `json:"side"`
	Games      []Game    `json:"games"`
	ProposedAt time.Time `json:"proposedAt"`
}

type Verification struct {
	Confirmations  []int64    `json:"confirmations"`
	Required       int        `json:"required"`
	DisputeReason  string     `json:"disputeReason,omitempty"`
	DisputeNotes   string     `json:"disputeNotes,omitempty"`
	DisputedBy     int64      `json:"disputedBy,omitempty"`
	DisputedAt     *time.Time `json:"disputedAt,omitempty"`
	FinalizedBy    int64      `json:"finalizedBy,omitempty"`
	FinalizedAt    *time.Time `json:"finalizedAt,omitempty"`
	RatingEligible bool       `json:"ratingEligible"`
}

type PostponeRecord struct {
	Reason         string     `json:"reason"`
	OriginalDate   *time.Time `json:"originalDate,omitempty"`
	MakeupDeadline *time.Time `json:"makeupDeadline,omitempty"`
	PostponedBy    int64      `json:"postponedBy"`
	PostponedAt    time.Time  `json:"postponedAt"`
}

type Match struct {
	ID           int64           `json:"id"`
	LeagueID     int64           `json:"leagueId"`
	Division     string          `json:"division"`
	Round        int             `json:"round"`
	Week         int             `json:"week,omitempty"`
	Box          int             `json:"box,omitempty"`
	CourtID      int64           `json:"courtId,omitempty"`
	ScheduledAt  *time.Time      `json:"scheduledAt,omitempty"`
	SideA        MatchSide       `json:"sideA"`
	SideB        MatchSide       `json:"sideB"`
	ScoreState   ScoreState      `json:"scoreState"`
	Status       MatchStatus     `json:"status"`
	Proposal     *Proposal       `json:"proposal,omitempty"`
	Scores       []Game          `json:"scores"`
	Winner       Side            `json:"winner"`
	Verification Verification    `json:"verification"`
	Postpone     *PostponeRecord `json:"postpone,omitempty"`
	Version      int64           `json:"version"`
}

// SideOf reports which side a player is on.
func (m Match) SideOf(playerID int64) Side {
	switch {
	case m.SideA.HasPlayer(playerID):
		return SideA
	case m.SideB.HasPlayer(playerID):
		return SideB
	default:
		return SideNone
	}
}

func (m Match) IsParticipant(playerID int64) bool {
	return m.SideOf(playerID) != SideNone
}

func (m Match) Side(s Side) MatchSide {
	if s == SideB {
		return m.SideB
	}
	return m.SideA
}

// PlayerIDs returns every participant, side A first.
func (m Match) PlayerIDs() []int64 {
	ids := make([]int64, 0, len(m.SideA.PlayerIDs)+len(m.SideB.PlayerIDs))
	ids = append(ids, m.SideA.PlayerIDs...)
	return append(ids, m.SideB.PlayerIDs...)
}

// Counted reports whether the match contributes to standings.
func (m Match) Counted() bool {
	if m.ScoreState != ScoreOfficial || m.Winner == SideNone {
		return false
	}
	switch m.Status {
	case StatusCompleted, StatusForfeit, StatusNoShow:
		return true
	default:
		return false
	}
}

type Role string

const (
	RoleOrganizer   Role = "organizer"
	RoleParticipant Role = "participant"
)

// Actor is the authenticated caller of a transition.
type Actor struct {
	PlayerID    int64
	DisplayName string
	Role        Role
}

func (a Actor) IsOrganizer() bool { return a.Role == RoleOrganizer }

func (a Actor) Validate() error {
	if a.PlayerID <= 0 {
		return Invalid("actor", "actor identity is required")
	}
	return nil
}
