package combination

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/downblend/blendopt/internal/telemetry"
	"github.com/downblend/blendopt/pkg/blend"
)

// GenerateParallel shards the diversification strategies across worker
// goroutines (§5's opt-in concurrency). Each worker holds only the
// immutable ranked slice and its own strategy's derived ordering; results
// merge through the same sorted-lot-code deduplication Generate uses
// sequentially, guarded by a mutex since the dedup set is shared.
func GenerateParallel(ctx context.Context, req blend.Requirement, ranked []*blend.Lot, numSolutions int, opts Options) []Candidate {
	sink := opts.Telemetry
	if sink == nil {
		sink = telemetry.NopSink{}
	}
	maxLots := opts.MaxLots
	if maxLots <= 0 {
		maxLots = 10
	}

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	seen := make(map[string]bool)
	var pool []Candidate
	budget := maxCombinations
	stopCap := earlyStopPerSol * numSolutions

	for _, strat := range strategies(ranked, opts.Seed) {
		strat := strat
		g.Go(func() error {
			var local []Candidate
			localSeen := make(map[string]bool)
			localBudget := budget / 4
			if localBudget <= 0 {
				localBudget = 1
			}
			runStrategy(gctx, req, strat.lots, maxLots, &localBudget, localSeen, &local, sink)

			mu.Lock()
			defer mu.Unlock()
			for _, c := range local {
				key := identityKey(c.Allocations)
				if seen[key] {
					continue
				}
				seen[key] = true
				pool = append(pool, c)
			}
			return nil
		})
	}

	_ = g.Wait()

	if len(pool) > stopCap {
		sink.Info("combination_parallel_truncated", map[string]any{"size": len(pool), "cap": stopCap})
		pool = pool[:stopCap]
	}
	return pool
}
