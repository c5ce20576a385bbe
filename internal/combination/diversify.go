package combination

import (
	"math"
	"math/rand"
	"sort"

	"github.com/downblend/blendopt/pkg/blend"
)

// strategy is one differently-sorted view of the ranked candidate pool
// (§4.7 "Diversification").
type strategy struct {
	name string
	lots []*blend.Lot
}

// strategies builds the up-to-four diversification orderings, each
// consuming the top of a differently sorted candidate list. The random
// shuffles are seeded deterministically from the caller's seed so a given
// (requirement, inventory, seed) always produces the same search order.
func strategies(baseline []*blend.Lot, seed uint64) []strategy {
	out := []strategy{{name: "baseline", lots: baseline}}

	byCost := append([]*blend.Lot(nil), baseline...)
	sort.SliceStable(byCost, func(i, j int) bool { return byCost[i].CostOrDefault() < byCost[j].CostOrDefault() })
	out = append(out, strategy{name: "cost_ascending", lots: capSlice(byCost, 300)})

	byAvail := append([]*blend.Lot(nil), baseline...)
	sort.SliceStable(byAvail, func(i, j int) bool { return byAvail[i].AvailableKg > byAvail[j].AvailableKg })
	out = append(out, strategy{name: "availability_descending", lots: capSlice(byAvail, 300)})

	for i := 0; i < 2; i++ {
		shuffled := capSlice(append([]*blend.Lot(nil), baseline...), 200)
		shuffled = append([]*blend.Lot(nil), shuffled...)
		r := rand.New(rand.NewSource(int64(seed) + int64(i) + 1))
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		out = append(out, strategy{name: "shuffle", lots: shuffled})
	}

	return out
}

func capSlice(lots []*blend.Lot, n int) []*blend.Lot {
	if len(lots) > n {
		return lots[:n]
	}
	return lots
}

// growGreedySeed implements §4.7 step 2: starting from a seed lot, repeatedly
// add the next candidate (in the given order) whose inclusion keeps the
// running weighted DC within |dc_avg-target|+5, up to maxLots lots.
func growGreedySeed(req blend.Requirement, pool []*blend.Lot, seedIdx int, maxLots int) []*blend.Lot {
	grown := []*blend.Lot{pool[seedIdx]}
	runningKg, runningDCKg := 0.0, 0.0
	if pool[seedIdx].DCReal != nil {
		kg := seedWeight(req, pool[seedIdx])
		runningKg, runningDCKg = kg, kg*(*pool[seedIdx].DCReal)
	}

	target := 0.0
	hasTarget := req.DCTarget != nil
	if hasTarget {
		target = *req.DCTarget
	}

	for i, lot := range pool {
		if i == seedIdx {
			continue
		}
		if len(grown) >= maxLots {
			break
		}
		if lot.DCReal == nil {
			continue
		}
		kg := seedWeight(req, lot)
		if hasTarget && runningKg > 0 {
			currentDC := runningDCKg / runningKg
			band := math.Abs(currentDC-target) + 5
			newDC := (runningDCKg + kg*(*lot.DCReal)) / (runningKg + kg)
			if math.Abs(newDC-target) > band {
				continue
			}
		}
		grown = append(grown, lot)
		runningKg += kg
		runningDCKg += kg * (*lot.DCReal)
	}
	return grown
}

// seedWeight is the per-addition allocation cap named in §4.7 step 2:
// min(remaining, 0.9*avail, 0.3*Q). Remaining capacity isn't tracked
// per-seed here since growGreedySeed only decides membership; the actual
// kg split is computed later by the allocation solver (C6).
func seedWeight(req blend.Requirement, lot *blend.Lot) float64 {
	return math.Min(math.Min(req.QuantityKg, 0.9*lot.AvailableKg), 0.3*req.QuantityKg)
}
