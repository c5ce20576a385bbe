package combination

import (
	"context"
	"sort"
	"strings"

	"github.com/downblend/blendopt/internal/telemetry"
	"github.com/downblend/blendopt/pkg/blend"
)

// Options configures a single Generate call.
type Options struct {
	Seed     uint64
	MaxLots  int
	Telemetry telemetry.Sink
}

// Generate implements §4.7 in full: it runs each diversification strategy
// against the ranked candidate pool, enumerating fixed-size subsets and
// growing greedy seeds within each, deduplicating by sorted lot-code
// identity, and stopping early once the accumulated pool is large enough
// relative to numSolutions or the combinatorial hard cap is reached.
func Generate(ctx context.Context, req blend.Requirement, ranked []*blend.Lot, numSolutions int, opts Options) []Candidate {
	sink := opts.Telemetry
	if sink == nil {
		sink = telemetry.NopSink{}
	}
	maxLots := opts.MaxLots
	if maxLots <= 0 {
		maxLots = 10
	}

	budget := maxCombinations
	seen := make(map[string]bool)
	var pool []Candidate
	stopCap := earlyStopPerSol * numSolutions

	for _, strat := range strategies(ranked, opts.Seed) {
		if cancelled(ctx) {
			sink.Warn("combination_cancelled", map[string]any{"strategy": strat.name})
			return pool
		}
		runStrategy(ctx, req, strat.lots, maxLots, &budget, seen, &pool, sink)
		if len(pool) >= stopCap {
			sink.Info("combination_early_stop", map[string]any{"reason": "pool_cap", "size": len(pool)})
			break
		}
		if budget <= 0 {
			sink.Info("combination_early_stop", map[string]any{"reason": "max_combinations"})
			break
		}
	}

	return pool
}

func runStrategy(ctx context.Context, req blend.Requirement, lots []*blend.Lot, maxLots int, budget *int, seen map[string]bool, pool *[]Candidate, sink telemetry.Sink) {
	evaluated := 0

	for n := 2; n <= maxLots && n <= len(lots); n++ {
		if cancelled(ctx) {
			return
		}
		if *budget <= 0 {
			return
		}
		truncated := truncatedPool(lots, n)
		if len(truncated) < n {
			continue
		}
		produced := combinationsUpTo(len(truncated), n, *budget, func(idx []int) bool {
			evaluated++
			if evaluated%cancelCheckEvery == 0 && cancelled(ctx) {
				return false
			}
			subset := subsetFromIdx(truncated, idx)
			tryAdd(req, subset, seen, pool)
			return true
		})
		*budget -= produced
		if *budget <= 0 {
			return
		}
	}

	seedPool := capSlice(lots, greedySeedCount)
	for i := range seedPool {
		if cancelled(ctx) {
			return
		}
		grown := growGreedySeed(req, lots, indexOf(lots, seedPool[i]), maxLots)
		tryAdd(req, grown, seen, pool)
	}
}

func indexOf(lots []*blend.Lot, target *blend.Lot) int {
	for i, l := range lots {
		if l == target {
			return i
		}
	}
	return 0
}

func tryAdd(req blend.Requirement, subset []*blend.Lot, seen map[string]bool, pool *[]Candidate) {
	candidate, ok := allocateSubset(req, subset)
	if !ok {
		return
	}
	key := identityKey(candidate.Allocations)
	if seen[key] {
		return
	}
	seen[key] = true
	*pool = append(*pool, candidate)
}

// identityKey is the sorted tuple of lot codes used as a combination's
// dedup identity (§4.7 "Deduplication").
func identityKey(allocations []blend.Allocation) string {
	codes := make([]string, len(allocations))
	for i, a := range allocations {
		codes[i] = a.Lot.LotCode
	}
	sort.Strings(codes)
	return strings.Join(codes, "|")
}

func cancelled(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
