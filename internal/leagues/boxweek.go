package leagues

import "time"

type WeekState string

const (
	WeekDraft     WeekState = "draft"
	WeekActive    WeekState = "active"
	WeekClosing   WeekState = "closing"
	WeekFinalized WeekState = "finalized"
)

// BoxWeek is one week of a box league. Boxes are editable only while the
// week is a draft; Standings and Movements are frozen on finalize.
type BoxWeek struct {
	ID           int64         `json:"id"`
	LeagueID     int64         `json:"leagueId"`
	Number       int           `json:"weekNumber"`
	State        WeekState     `json:"state"`
	Boxes        []Box         `json:"boxes"`
	MatchIDs     []int64       `json:"matchIds"`
	TotalMatches int           `json:"totalMatches"`
	Standings    []BoxStanding `json:"standings,omitempty"`
	Movements    []Movement    `json:"movements,omitempty"`
	ActivatedBy  int64         `json:"activatedBy,omitempty"`
	ActivatedAt  *time.Time    `json:"activatedAt,omitempty"`
	FinalizedBy  int64         `json:"finalizedBy,omitempty"`
	FinalizedAt  *time.Time    `json:"finalizedAt,omitempty"`
	Version      int64         `json:"version"`
}

// Open reports whether the week is being played.
func (w BoxWeek) Open() bool {
	return w.State == WeekActive || w.State == WeekClosing
}

// MemberIDs lists every member assigned to the week in box order.
func (w BoxWeek) MemberIDs() []int64 {
	var ids []int64
	for _, box := range w.Boxes {
		ids = append(ids, box.MemberIDs...)
	}
	return ids
}
