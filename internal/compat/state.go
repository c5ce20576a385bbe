// Package compat implements the compatibility predicates and penalty
// scores of spec.md §4.4 (C4): material-state admissibility, species
// penalties, the color penalty matrix, water-repellent matching, and the
// duck-content score used directly in the blend score.
package compat

import "github.com/downblend/blendopt/pkg/blend"

// MaterialStateAdmissible implements §4.4's state-vs-DC-target rule. A nil
// dcTarget is treated as "unspecified", which always admits M and S states.
func MaterialStateAdmissible(state blend.MaterialState, dcTarget *float64) bool {
	switch state {
	case blend.StateP:
		return true
	case blend.StateM:
		return dcTarget == nil || *dcTarget <= 50
	case blend.StateS:
		return dcTarget == nil || *dcTarget <= 30
	case blend.StateO:
		return false
	default:
		return false
	}
}
