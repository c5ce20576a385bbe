// Package allocation implements C6: given an ordered subset of candidate
// lots and a requirement, it decides how many kilograms to draw from each
// lot so the blend approaches the DC target while respecting per-lot
// floors and ceilings.
package allocation

import (
	"math"
	"sort"

	"github.com/downblend/blendopt/pkg/blend"
)

// minLotUsageKg mirrors candidates.minLotUsageKg; an allocation below this
// per lot is dropped rather than kept as a token amount (§4.6).
const minLotUsageKg = 10.0

// lotCeilingFraction bounds how much of a single lot's availability an
// allocation may ever draw (§4.6).
const lotCeilingFraction = 0.95

// massFloorFraction is the minimum fraction of the requested quantity an
// allocation must reach to be considered usable at all (§4.6, §3).
const massFloorFraction = 0.9

// dcCloseEnoughSpread is the per-lot DC spread under which lots are
// considered "all close enough" to skip strategy selection (§4.6).
const dcCloseEnoughSpread = 2.0

// dcOutOfRangeMargin extends [dc_min, dc_max] before a dc_target outside it
// forces the simple-allocation fallback (§4.6).
const dcOutOfRangeMargin = 5.0

// Allocate produces a set of (lot, kg) pairs for the given ordered subset,
// or nil if no strategy reaches the 90% mass floor.
func Allocate(req blend.Requirement, lots []*blend.Lot) []blend.Allocation {
	if len(lots) == 0 {
		return nil
	}
	if req.DCTarget == nil {
		return simple(req, lots)
	}

	target := *req.DCTarget
	dcs, allKnown := dcValues(lots)
	if !allKnown {
		return simple(req, lots)
	}

	dcMin, dcMax := minMax(dcs)
	if dcMax-dcMin <= dcCloseEnoughSpread {
		return uniform(req, lots)
	}
	if target < dcMin-dcOutOfRangeMargin || target > dcMax+dcOutOfRangeMargin {
		return simple(req, lots)
	}

	candidates := [][]blend.Allocation{
		balancedIterative(req, lots, dcs, target),
		distanceWeighted(req, lots, dcs, target),
		greedyBalanced(req, lots, target),
	}

	var best []blend.Allocation
	bestDelta := math.Inf(1)
	for _, alloc := range candidates {
		if alloc == nil {
			continue
		}
		delta := math.Abs(weightedDC(alloc) - target)
		if delta < bestDelta {
			bestDelta = delta
			best = alloc
		}
	}
	return best
}

// simple assigns min(1.2*remaining, 0.95*avail) in input order, dropping
// under-floor allocations (§4.6, "when dc_target is absent").
func simple(req blend.Requirement, lots []*blend.Lot) []blend.Allocation {
	remaining := req.QuantityKg
	var out []blend.Allocation
	for _, lot := range lots {
		if remaining <= 0 {
			break
		}
		kg := math.Min(1.2*remaining, lotCeilingFraction*lot.AvailableKg)
		if kg < minLotUsageKg {
			continue
		}
		out = append(out, blend.Allocation{Lot: lot, KgUsed: kg})
		remaining -= kg
	}
	return finalize(out, req.QuantityKg)
}

// uniform splits the requested quantity evenly across lots, clamped per
// lot's availability ceiling and subject to the usage floor.
func uniform(req blend.Requirement, lots []*blend.Lot) []blend.Allocation {
	share := req.QuantityKg / float64(len(lots))
	var out []blend.Allocation
	for _, lot := range lots {
		kg := math.Min(share, lotCeilingFraction*lot.AvailableKg)
		if kg < minLotUsageKg {
			continue
		}
		out = append(out, blend.Allocation{Lot: lot, KgUsed: kg})
	}
	return finalize(out, req.QuantityKg)
}

// balancedIterative implements §4.6(a): start from equal proportions and
// iteratively nudge each lot's share toward the target DC.
func balancedIterative(req blend.Requirement, lots []*blend.Lot, dcs []float64, target float64) []blend.Allocation {
	n := len(lots)
	props := make([]float64, n)
	for i := range props {
		props[i] = 1.0 / float64(n)
	}

	for iter := 0; iter < 50; iter++ {
		dc := 0.0
		for i, p := range props {
			dc += p * dcs[i]
		}
		if math.Abs(dc-target) < 0.1 {
			break
		}
		for i := range props {
			switch {
			case dc > target && dcs[i] < target:
				props[i] *= 1.1
			case dc > target && dcs[i] > target:
				props[i] *= 0.9
			case dc < target && dcs[i] > target:
				props[i] *= 1.1
			case dc < target && dcs[i] < target:
				props[i] *= 0.9
			}
		}
		normalize(props)
	}

	var out []blend.Allocation
	for i, lot := range lots {
		kg := math.Min(req.QuantityKg*props[i], lotCeilingFraction*lot.AvailableKg)
		if kg < minLotUsageKg {
			continue
		}
		out = append(out, blend.Allocation{Lot: lot, KgUsed: kg})
	}
	return finalize(out, req.QuantityKg)
}

// distanceWeighted implements §4.6(b): weight each lot inversely to its
// distance from the target DC, then allocate by normalized weight.
func distanceWeighted(req blend.Requirement, lots []*blend.Lot, dcs []float64, target float64) []blend.Allocation {
	weights := make([]float64, len(lots))
	total := 0.0
	for i, dc := range dcs {
		weights[i] = 1.0 / (1.0 + math.Abs(dc-target)/10.0)
		total += weights[i]
	}

	var out []blend.Allocation
	for i, lot := range lots {
		share := weights[i] / total
		kg := math.Min(req.QuantityKg*share, lotCeilingFraction*lot.AvailableKg)
		if kg < minLotUsageKg {
			continue
		}
		out = append(out, blend.Allocation{Lot: lot, KgUsed: kg})
	}
	return finalize(out, req.QuantityKg)
}

// greedyBalanced implements §4.6(c): sort by closeness to target, give the
// closest lot roughly half the remaining mass, then taper further
// allocations by how close the running weighted DC stays to target.
func greedyBalanced(req blend.Requirement, lots []*blend.Lot, target float64) []blend.Allocation {
	ordered := make([]*blend.Lot, len(lots))
	copy(ordered, lots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return math.Abs(*ordered[i].DCReal-target) < math.Abs(*ordered[j].DCReal-target)
	})

	var out []blend.Allocation
	remaining := req.QuantityKg
	runningKg, runningDCKg := 0.0, 0.0

	for idx, lot := range ordered {
		if remaining <= 0 {
			break
		}
		var fraction float64
		if idx == 0 {
			fraction = 0.5
		} else {
			currentDC := 0.0
			if runningKg > 0 {
				currentDC = runningDCKg / runningKg
			}
			if math.Abs(currentDC-target) <= 1.0 {
				fraction = 0.3
			} else {
				fraction = 0.5
			}
		}
		kg := math.Min(remaining*fraction, lotCeilingFraction*lot.AvailableKg)
		if kg < minLotUsageKg {
			continue
		}
		out = append(out, blend.Allocation{Lot: lot, KgUsed: kg})
		remaining -= kg
		runningKg += kg
		runningDCKg += kg * (*lot.DCReal)
	}
	return finalize(out, req.QuantityKg)
}

// finalize enforces the 90% mass floor shared by every strategy (§4.6).
func finalize(allocations []blend.Allocation, quantityKg float64) []blend.Allocation {
	if len(allocations) == 0 {
		return nil
	}
	total := 0.0
	for _, a := range allocations {
		total += a.KgUsed
	}
	if total < massFloorFraction*quantityKg {
		return nil
	}
	return allocations
}

func weightedDC(allocations []blend.Allocation) float64 {
	totalKg, weighted := 0.0, 0.0
	for _, a := range allocations {
		if a.Lot.DCReal == nil {
			continue
		}
		weighted += a.KgUsed * (*a.Lot.DCReal)
		totalKg += a.KgUsed
	}
	if totalKg == 0 {
		return 0
	}
	return weighted / totalKg
}

func dcValues(lots []*blend.Lot) ([]float64, bool) {
	out := make([]float64, len(lots))
	for i, lot := range lots {
		if lot.DCReal == nil {
			return nil, false
		}
		out[i] = *lot.DCReal
	}
	return out, true
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func normalize(props []float64) {
	total := 0.0
	for _, p := range props {
		total += p
	}
	if total == 0 {
		return
	}
	for i := range props {
		props[i] /= total
	}
}
