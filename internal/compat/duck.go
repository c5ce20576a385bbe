package compat

import "math"

// DuckContentScore implements §4.4's duck-content scoring formula, used
// directly as the "Duck match" term of the blend score (§4.8) and as the
// critical signal that a blend underused or overused its duck target.
func DuckContentScore(actual, target, tolerance float64) float64 {
	if target == 0 {
		return 0
	}
	delta := actual - target
	switch {
	case delta < -tolerance:
		return -500 * (target - actual) / target
	case delta > tolerance:
		return -200 * (actual - target) / target
	default:
		return 600 * (1 - math.Abs(delta)/tolerance)
	}
}
