// Package combination implements C7: it enumerates candidate lot subsets
// from the ranked pool, grows greedy seeds, diversifies the search order,
// deduplicates by lot-code identity, and quick-pre-validates each candidate
// allocation before handing it to the evaluator (C8).
package combination

import (
	"math"

	"github.com/downblend/blendopt/internal/allocation"
	"github.com/downblend/blendopt/pkg/blend"
)

// Candidate is one generated, quick-pre-validated allocation awaiting full
// scoring.
type Candidate struct {
	Allocations []blend.Allocation
}

const (
	maxCombinations  = 25000
	greedySeedCount  = 100
	earlyStopPerSol  = 5000
	cancelCheckEvery = 1024
)

// truncatedPool returns the prefix of lots a fixed-size subset enumeration
// over n lots draws from (§4.7 step 1): 300 for n<=5, 200 for n in [6,7],
// 150 for n>=8.
func truncatedPool(lots []*blend.Lot, n int) []*blend.Lot {
	var cap int
	switch {
	case n <= 5:
		cap = 300
	case n <= 7:
		cap = 200
	default:
		cap = 150
	}
	if cap > len(lots) {
		cap = len(lots)
	}
	return lots[:cap]
}

// combinationsUpTo visits index-tuples of size k over [0,poolLen) in
// lexicographic order, stopping when visit returns false or budget
// combinations have been produced.
func combinationsUpTo(poolLen, k, budget int, visit func(idx []int) bool) int {
	if k <= 0 || k > poolLen || budget <= 0 {
		return 0
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	produced := 0
	for {
		if !visit(idx) {
			return produced
		}
		produced++
		if produced >= budget {
			return produced
		}
		i := k - 1
		for i >= 0 && idx[i] == poolLen-k+i {
			i--
		}
		if i < 0 {
			return produced
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func subsetFromIdx(pool []*blend.Lot, idx []int) []*blend.Lot {
	out := make([]*blend.Lot, len(idx))
	for i, ix := range idx {
		out[i] = pool[ix]
	}
	return out
}

// passesQuickValidation implements §4.7's pre-scoring rejection of
// trivially bad allocations, cheap enough to run on every candidate before
// the full evaluator (C8) does its work.
func passesQuickValidation(req blend.Requirement, allocations []blend.Allocation) bool {
	total := 0.0
	for _, a := range allocations {
		total += a.KgUsed
	}
	if total < 0.7*req.QuantityKg || total > 1.3*req.QuantityKg {
		return false
	}
	if req.DCTarget == nil {
		return true
	}
	weighted, weightedKg := 0.0, 0.0
	for _, a := range allocations {
		if a.Lot.DCReal == nil {
			continue
		}
		weighted += a.KgUsed * (*a.Lot.DCReal)
		weightedKg += a.KgUsed
	}
	if weightedKg == 0 {
		return true
	}
	return math.Abs(weighted/weightedKg-*req.DCTarget) <= 10
}

// allocateSubset runs C6 on a candidate subset and returns the candidate if
// it both produced a feasible allocation and passed quick validation.
func allocateSubset(req blend.Requirement, subset []*blend.Lot) (Candidate, bool) {
	allocations := allocation.Allocate(req, subset)
	if allocations == nil {
		return Candidate{}, false
	}
	if !passesQuickValidation(req, allocations) {
		return Candidate{}, false
	}
	return Candidate{Allocations: allocations}, true
}
