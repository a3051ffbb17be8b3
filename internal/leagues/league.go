package leagues

import (
	"strings"
	"time"
)

// WithDefaults fills every unset rule with the house defaults.
func (l League) WithDefaults() League {
	l.Name = strings.TrimSpace(l.Name)
	if l.Format == "" {
		l.Format = FormatRoundRobin
	}
	if len(l.Tiebreakers) == 0 {
		l.Tiebreakers = append([]Tiebreaker(nil), DefaultTiebreakers...)
	}
	if l.Verification.RequiredConfirmations == 0 {
		l.Verification.RequiredConfirmations = DefaultVerificationPolicy.RequiredConfirmations
	}
	if l.Scoring == (ScoringRules{}) {
		l.Scoring = DefaultScoringRules
	}
	if l.Points == (PointsRule{}) {
		l.Points = DefaultPointsRule
	}
	if l.Format.IsBox() && l.Box.BoxSize == 0 {
		l.Box.BoxSize = 4
	}
	if l.Format == FormatLadder && l.LadderRange == 0 {
		l.LadderRange = DefaultLadderRange
	}
	return l
}

func (l League) Validate() error {
	if l.Name == "" {
		return Invalid("name", "is required")
	}
	if _, err := ParseFormat(string(l.Format)); err != nil {
		return err
	}
	if err := l.Verification.Validate(); err != nil {
		return err
	}
	if err := l.Scoring.Validate(); err != nil {
		return err
	}
	if err := l.Points.Validate(); err != nil {
		return err
	}
	if l.Format.IsBox() {
		if err := l.Box.Validate(); err != nil {
			return err
		}
	}
	if l.LadderRange < 0 {
		return Invalid("ladderRange", "cannot be negative")
	}
	return nil
}

func (p VerificationPolicy) Validate() error {
	if p.RequiredConfirmations < 1 {
		return Invalid("requiredConfirmations", "must be at least 1")
	}
	if p.AutoConfirmAfter < 0 {
		return Invalid("autoConfirmAfter", "cannot be negative")
	}
	if p.AutoConfirmAfter%time.Hour != 0 {
		return Invalid("autoConfirmAfter", "must be a whole number of hours")
	}
	return nil
}

func (r PointsRule) Validate() error {
	if r.Win < 0 || r.Loss < 0 {
		return Invalid("points", "cannot be negative")
	}
	if r.Loss > r.Win {
		return Invalid("points", "a loss cannot earn more than a win")
	}
	return nil
}
