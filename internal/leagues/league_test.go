package leagues

import (
	"testing"
	"time"
)

func TestLeagueWithDefaults(t *testing.T) {
	league := League{Name: "  Tuesday Night  ", Format: FormatRotatingBox}.WithDefaults()

	if league.Name != "Tuesday Night" {
		t.Fatalf("expected trimmed name, got %q", league.Name)
	}
	if league.Scoring != DefaultScoringRules || league.Points != DefaultPointsRule {
		t.Fatalf("expected default scoring and points, got %+v %+v", league.Scoring, league.Points)
	}
	if league.Box.BoxSize != 4 || league.Verification.RequiredConfirmations != 1 {
		t.Fatalf("expected box size 4 and one confirmation, got %+v", league)
	}
	if len(league.Tiebreakers) != len(DefaultTiebreakers) {
		t.Fatalf("expected default tiebreakers, got %v", league.Tiebreakers)
	}
	if err := league.Validate(); err != nil {
		t.Fatalf("validate defaults: %v", err)
	}
}

func TestLeagueValidate(t *testing.T) {
	valid := League{Name: "Ladder", Format: FormatLadder}.WithDefaults()

	tests := []struct {
		name   string
		mutate func(*League)
	}{
		{name: "missing name", mutate: func(l *League) { l.Name = "" }},
		{name: "unknown format", mutate: func(l *League) { l.Format = "knockout" }},
		{name: "even best of", mutate: func(l *League) { l.Scoring.BestOf = 2 }},
		{name: "partial hour window", mutate: func(l *League) { l.Verification.AutoConfirmAfter = 90 * time.Minute }},
		{name: "negative confirmations", mutate: func(l *League) { l.Verification.RequiredConfirmations = -1 }},
		{name: "loss beats win", mutate: func(l *League) { l.Points = PointsRule{Win: 1, Loss: 2} }},
		{name: "negative ladder range", mutate: func(l *League) { l.LadderRange = -1 }},
		{name: "oversized box", mutate: func(l *League) { l.Format = FormatFixedBox; l.Box.BoxSize = 8 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			league := valid
			tc.mutate(&league)
			if err := league.Validate(); !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("expected defaults to validate: %v", err)
	}
}
