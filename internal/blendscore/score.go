// Package blendscore implements C8: it turns a candidate allocation into a
// fully scored blend.Solution — weighted aggregates, conformance flags, and
// the additive multi-criterion score (§4.8).
package blendscore

import (
	"math"

	"github.com/downblend/blendopt/internal/compat"
	"github.com/downblend/blendopt/pkg/blend"
)

const (
	weightDCMatch   = 1000.0
	weightFPMatch   = 800.0
	disposalShare   = 0.5
	speciesOABonus  = 50.0
	speciesAPenalty = 75.0
	estimatedPenalty = 100.0
)

// Build constructs a scored Solution from a candidate allocation. It never
// mutates the allocation slice passed in; the returned Solution owns its
// own copy, per spec.md §9's immutable-builder redesign note.
func Build(req blend.Requirement, allocations []blend.Allocation) blend.Solution {
	sol := blend.Solution{
		Allocations:    append([]blend.Allocation(nil), allocations...),
		ScoreBreakdown: map[string]float64{},
	}

	computeAggregates(&sol)
	computeConformance(req, &sol)
	sol.Score = computeScore(req, &sol)
	return sol
}

// computeAggregates fills TotalKg/TotalCost/CostPerKg and the weighted
// per-field averages, each denominator excluding lots missing that field
// (§4.8 step 1).
func computeAggregates(sol *blend.Solution) {
	var totalKg, totalCost float64
	var dcKg, dcW, fpKg, fpW, duckKg, duckW, oeKg, oeW, featherKg, featherW float64

	for _, a := range sol.Allocations {
		totalKg += a.KgUsed
		totalCost += a.KgUsed * a.Lot.CostOrDefault()

		if a.Lot.DCReal != nil {
			dcW += a.KgUsed * (*a.Lot.DCReal)
			dcKg += a.KgUsed
		}
		if a.Lot.FPReal != nil {
			fpW += a.KgUsed * (*a.Lot.FPReal)
			fpKg += a.KgUsed
		}
		if a.Lot.DuckReal != nil {
			duckW += a.KgUsed * (*a.Lot.DuckReal)
			duckKg += a.KgUsed
		}
		if a.Lot.OtherElementsReal != nil {
			oeW += a.KgUsed * (*a.Lot.OtherElementsReal)
			oeKg += a.KgUsed
		}
		if a.Lot.FeatherReal != nil {
			featherW += a.KgUsed * (*a.Lot.FeatherReal)
			featherKg += a.KgUsed
		}
	}

	sol.TotalKg = totalKg
	sol.TotalCost = totalCost
	if totalKg > 0 {
		sol.CostPerKg = totalCost / totalKg
	}
	sol.DCAvg = safeDiv(dcW, dcKg)
	sol.FPAvg = safeDiv(fpW, fpKg)
	sol.DuckAvg = safeDiv(duckW, duckKg)
	sol.OEAvg = safeDiv(oeW, oeKg)
	sol.FeatherAvg = safeDiv(featherW, featherKg)
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// computeConformance sets the conformance flags via the requirement's
// tolerances (§3); a flag is vacuously true when its target is unset.
func computeConformance(req blend.Requirement, sol *blend.Solution) {
	sol.MeetsDC = req.DCTarget == nil || math.Abs(sol.DCAvg-*req.DCTarget) <= req.DCTolerance
	sol.MeetsFP = req.FPTarget == nil || math.Abs(sol.FPAvg-*req.FPTarget) <= req.FPTolerance
	sol.MeetsDuck = req.DuckTarget == nil || math.Abs(sol.DuckAvg-*req.DuckTarget) <= req.DuckTolerance
	sol.MeetsOE = req.MaxOE == nil || sol.OEAvg <= *req.MaxOE
}

// computeScore sums the §4.8 additive score terms into sol.ScoreBreakdown
// and returns their total.
func computeScore(req blend.Requirement, sol *blend.Solution) float64 {
	add := func(term string, value float64) {
		sol.ScoreBreakdown[term] += value
	}

	if req.DCTarget != nil {
		add("dc_match", matchTerm(sol.DCAvg, *req.DCTarget, req.DCTolerance, weightDCMatch))
	}
	if req.FPTarget != nil {
		add("fp_match", matchTerm(sol.FPAvg, *req.FPTarget, req.FPTolerance, weightFPMatch))
	}
	if req.DuckTarget != nil {
		add("duck_match", compat.DuckContentScore(sol.DuckAvg, *req.DuckTarget, req.DuckTolerance))
	}

	add("disposal_bonus", disposalBonus(sol))
	add("lot_count_penalty", lotCountPenalty(len(sol.Allocations)))

	if req.Species == blend.SpeciesGoose && req.DuckTarget != nil && *req.DuckTarget > 0 {
		add("species_compatibility", speciesCompatibilityBonus(sol))
	}

	add("estimated_data_penalty", estimatedDataPenalty(req, sol))

	if req.DCTarget != nil {
		add("dc_overqualification", dcOverqualificationPenalty(*req.DCTarget, sol))
	}

	total := 0.0
	for _, v := range sol.ScoreBreakdown {
		total += v
	}
	return total
}

// matchTerm implements the shared "DC match"/"FP match" shape of §4.8:
// a bonus scaled by closeness when within tolerance, a penalty scaled by
// overage otherwise.
func matchTerm(actual, target, tolerance, weight float64) float64 {
	d := math.Abs(actual - target)
	if d <= tolerance {
		return weight * (1 - d/tolerance)
	}
	return -weight * (d/tolerance - 1)
}

// disposalBonus sums each lot's quality_score weighted by its mass share,
// halved (§4.8 "Disposal bonus").
func disposalBonus(sol *blend.Solution) float64 {
	if sol.TotalKg == 0 {
		return 0
	}
	total := 0.0
	for _, a := range sol.Allocations {
		share := a.KgUsed / sol.TotalKg
		total += a.Lot.QualityScore() * share * disposalShare
	}
	return total
}

// lotCountPenalty implements §4.8's tiered per-lot penalty for blends with
// more than 5 lots.
func lotCountPenalty(n int) float64 {
	penalty := 0.0
	for i := 1; i <= n; i++ {
		switch {
		case i >= 10:
			penalty -= 100
		case i >= 8:
			penalty -= 50
		case i >= 6:
			penalty -= 25
		}
	}
	return penalty
}

// speciesCompatibilityBonus rewards OA lots and penalizes A lots, by mass
// share, for goose blends that have a positive duck target (§4.8).
func speciesCompatibilityBonus(sol *blend.Solution) float64 {
	if sol.TotalKg == 0 {
		return 0
	}
	total := 0.0
	for _, a := range sol.Allocations {
		share := a.KgUsed / sol.TotalKg
		switch a.Lot.Code.Species {
		case blend.SpeciesMixed:
			total += speciesOABonus * share
		case blend.SpeciesDuck:
			total -= speciesAPenalty * share
		}
	}
	return total
}

// estimatedDataPenalty discounts a solution that leans on imputed data for
// a field the requirement actually targets (§4.8).
func estimatedDataPenalty(req blend.Requirement, sol *blend.Solution) float64 {
	if sol.TotalKg == 0 {
		return 0
	}
	total := 0.0
	for _, a := range sol.Allocations {
		share := a.KgUsed / sol.TotalKg
		if req.DCTarget != nil && a.Lot.DCWasImputed {
			total -= estimatedPenalty * share
		}
		if req.FPTarget != nil && a.Lot.FPWasImputed {
			total -= estimatedPenalty * share
		}
	}
	return total
}

// dcOverqualificationPenalty discounts lots whose DC meaningfully exceeds
// the target, share-weighted (§4.8).
func dcOverqualificationPenalty(dcTarget float64, sol *blend.Solution) float64 {
	if sol.TotalKg == 0 {
		return 0
	}
	total := 0.0
	for _, a := range sol.Allocations {
		if a.Lot.DCReal == nil {
			continue
		}
		over := *a.Lot.DCReal - dcTarget
		if over <= 5 {
			continue
		}
		share := a.KgUsed / sol.TotalKg
		total -= over * over * share
	}
	return total
}
