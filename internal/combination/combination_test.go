package combination

import (
	"context"
	"testing"

	"github.com/downblend/blendopt/pkg/blend"
)

func f(v float64) *float64 { return &v }

func makeLots(n int) []*blend.Lot {
	lots := make([]*blend.Lot, n)
	for i := 0; i < n; i++ {
		dc := 70.0 + float64(i%10)
		lots[i] = &blend.Lot{
			LotCode:     letterCode(i),
			DCReal:      f(dc),
			AvailableKg: 500,
			CostPerKg:   f(float64(10 + i)),
		}
	}
	return lots
}

func letterCode(i int) string {
	return "L" + string(rune('A'+i%26)) + string(rune('0'+i/26))
}

func TestGenerate_DeduplicatesBySortedLotCodes(t *testing.T) {
	req := blend.Requirement{QuantityKg: 200, MaxLots: 3}
	lots := makeLots(10)
	out := Generate(context.Background(), req, lots, 1, Options{MaxLots: 3})
	seen := map[string]bool{}
	for _, c := range out {
		key := identityKey(c.Allocations)
		if seen[key] {
			t.Fatalf("duplicate combination identity %q", key)
		}
		seen[key] = true
	}
}

func TestGenerate_RespectsMaxLots(t *testing.T) {
	req := blend.Requirement{QuantityKg: 200}
	lots := makeLots(10)
	out := Generate(context.Background(), req, lots, 1, Options{MaxLots: 3})
	for _, c := range out {
		if len(c.Allocations) > 3 {
			t.Errorf("combination has %d lots, want <= 3", len(c.Allocations))
		}
	}
}

func TestGenerate_CancelledContextReturnsEarly(t *testing.T) {
	req := blend.Requirement{QuantityKg: 200}
	lots := makeLots(50)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := Generate(ctx, req, lots, 5, Options{MaxLots: 6})
	if len(out) != 0 {
		t.Errorf("expected no candidates from an already-cancelled context, got %d", len(out))
	}
}

func TestGenerate_DeterministicAcrossRuns(t *testing.T) {
	req := blend.Requirement{QuantityKg: 200}
	lots := makeLots(20)
	out1 := Generate(context.Background(), req, lots, 2, Options{MaxLots: 4, Seed: 42})
	out2 := Generate(context.Background(), req, lots, 2, Options{MaxLots: 4, Seed: 42})
	if len(out1) != len(out2) {
		t.Fatalf("expected deterministic pool size, got %d vs %d", len(out1), len(out2))
	}
	for i := range out1 {
		if identityKey(out1[i].Allocations) != identityKey(out2[i].Allocations) {
			t.Errorf("combination order differs at index %d", i)
		}
	}
}

func TestGenerateParallel_NoDuplicates(t *testing.T) {
	req := blend.Requirement{QuantityKg: 200}
	lots := makeLots(15)
	out := GenerateParallel(context.Background(), req, lots, 2, Options{MaxLots: 4, Seed: 7})
	seen := map[string]bool{}
	for _, c := range out {
		key := identityKey(c.Allocations)
		if seen[key] {
			t.Fatalf("parallel generation produced duplicate %q", key)
		}
		seen[key] = true
	}
}
