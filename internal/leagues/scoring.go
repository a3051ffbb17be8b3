package leagues

// WinThreshold is the number of games needed to take a best-of match.
func WinThreshold(bestOf int) int {
	if bestOf <= 1 {
		return 1
	}
	return (bestOf + 1) / 2
}

// DeuceCap is the highest score a win-by-2 game to target may reach before
// it is treated as scored against the wrong target (an 11 point game can run
// to 15-13 but not to 21-19).
func DeuceCap(target int) int {
	return target + (target+1)/2
}

func (r ScoringRules) Validate() error {
	if r.TargetPoints <= 0 {
		return Invalid("targetPoints", "must be positive")
	}
	if r.WinBy != 1 && r.WinBy != 2 {
		return Invalid("winBy", "must be 1 or 2")
	}
	if r.BestOf <= 0 || r.BestOf%2 == 0 {
		return Invalid("bestOf", "must be a positive odd number")
	}
	if r.MaxPoints != 0 && r.MaxPoints < r.TargetPoints {
		return Invalid("maxPoints", "must be at least the target")
	}
	return nil
}

func (r ScoringRules) maxPoints() int {
	if r.MaxPoints > 0 {
		return r.MaxPoints
	}
	return DeuceCap(r.TargetPoints)
}

// ValidateGame applies the per-game legality rule.
func ValidateGame(g Game, rules ScoringRules) error {
	if g.A < 0 || g.B < 0 {
		return Invalid("scores", "game %s has a negative score", g)
	}
	if g.A == g.B {
		return Invalid("scores", "game %s is tied", g)
	}
	high, low := g.A, g.B
	if low > high {
		high, low = low, high
	}
	target := rules.TargetPoints
	if high < target {
		return Invalid("scores", "game %s does not reach %d points", g, target)
	}

	if rules.WinBy == 1 {
		if high != target {
			return Invalid("scores", "game %s must end at exactly %d points", g, target)
		}
		return nil
	}

	if high == target {
		if low > target-2 {
			return Invalid("scores", "game %s is not won by 2", g)
		}
		return nil
	}
	if high-low != 2 {
		return Invalid("scores", "game %s past %d must end with a 2 point margin", g, target)
	}
	if low < target-1 {
		return Invalid("scores", "game %s ran past %d without a deuce", g, target)
	}
	if high > rules.maxPoints() {
		return Invalid("scores", "game %s exceeds a %d point game", g, target)
	}
	return nil
}

// ValidateMatchGames checks every game and the best-of threshold and returns
// the winning side.
func ValidateMatchGames(games []Game, rules ScoringRules) (Side, error) {
	if len(games) == 0 {
		return SideNone, Invalid("scores", "at least one game is required")
	}
	threshold := WinThreshold(rules.BestOf)
	if len(games) > rules.BestOf && rules.BestOf > 0 {
		return SideNone, Invalid("scores", "best of %d allows at most %d games", rules.BestOf, rules.BestOf)
	}

	winsA, winsB := 0, 0
	for idx, game := range games {
		if winsA >= threshold || winsB >= threshold {
			return SideNone, Invalid("scores", "game %d was played after the match was decided", idx+1)
		}
		if err := ValidateGame(game, rules); err != nil {
			return SideNone, err
		}
		if game.A > game.B {
			winsA++
		} else {
			winsB++
		}
	}

	switch {
	case winsA >= threshold:
		return SideA, nil
	case winsB >= threshold:
		return SideB, nil
	default:
		return SideNone, Invalid("scores", "%d games do not decide a best of %d match", len(games), rules.BestOf)
	}
}

// GameTotals sums points and games per side.
func GameTotals(games []Game) (pointsA, pointsB, gamesA, gamesB int) {
	for _, game := range games {
		pointsA += game.A
		pointsB += game.B
		if game.A > game.B {
			gamesA++
		} else if game.B > game.A {
			gamesB++
		}
	}
	return pointsA, pointsB, gamesA, gamesB
}
