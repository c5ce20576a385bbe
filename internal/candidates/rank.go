package candidates

import (
	"math"
	"sort"

	"github.com/downblend/blendopt/pkg/blend"
)

// Rank sorts candidates in place by the §4.5 ranking key (ascending
// lexicographic): lots earlier in the result are preferred for inclusion.
// When no DC target is given, the duck-preservation and DC-overqualification
// terms are skipped and the key degenerates to disposal score then cost.
func Rank(req blend.Requirement, lots []*blend.Lot) {
	sort.SliceStable(lots, func(i, j int) bool {
		return lessThan(req, lots[i], lots[j])
	})
}

func lessThan(req blend.Requirement, a, b *blend.Lot) bool {
	ka := rankKey(req, a)
	kb := rankKey(req, b)
	for i := range ka {
		if ka[i] != kb[i] {
			return ka[i] < kb[i]
		}
	}
	return false
}

// rankKey builds the four-component ascending sort key. Disposal score is
// negated so that higher disposal priority sorts first. When no DC target
// is given, the duck-preservation and DC-overqualification terms are both
// left at zero and the key degenerates to disposal score then cost.
func rankKey(req blend.Requirement, lot *blend.Lot) [4]float64 {
	var duckPenalty, dcOverqual float64
	if req.DCTarget != nil {
		if req.DuckTarget != nil {
			duckPenalty = duckPreservationPenalty(*req.DuckTarget, lot)
		}
		dcOverqual = dcOverqualificationPenalty(*req.DCTarget, lot)
	}
	return [4]float64{duckPenalty, dcOverqual, -lot.QualityScore(), lot.CostOrDefault()}
}

// duckPreservationPenalty implements §4.5 ranking key 1: lots far from the
// target band in either direction are penalized, preserving both scarce
// low-duck stock and high-duck stock for blends that need it more.
func duckPreservationPenalty(duckTarget float64, lot *blend.Lot) float64 {
	duck := 0.0
	if lot.DuckReal != nil {
		duck = *lot.DuckReal
	}
	p := 0.5 * duckTarget
	u := 2 * duckTarget
	switch {
	case duck < p:
		return (p - duck) * (p - duck)
	case duck > u:
		return (duck - u) * (duck - u)
	default:
		return 0
	}
}

// dcOverqualificationPenalty implements §4.5 ranking key 2: using a
// premium (high-DC) lot where a lower grade would satisfy the target costs
// rank priority, preserving the premium lot for future use.
func dcOverqualificationPenalty(dcTarget float64, lot *blend.Lot) float64 {
	if lot.DCReal == nil {
		return 0
	}
	d := *lot.DCReal - dcTarget
	if d <= 0 {
		return 0
	}
	return math.Pow(d, 1.5)
}
