package engine

import (
	"context"
	"testing"

	"github.com/downblend/blendopt/pkg/blend"
)

func f(v float64) *float64 { return &v }

func makeInventory(n int, dc float64) []blend.Lot {
	lots := make([]blend.Lot, n)
	for i := 0; i < n; i++ {
		d := dc + float64(i%3)
		lots[i] = blend.Lot{
			LotCode:     string(rune('A' + i)),
			Code:        blend.ArticleCode{State: blend.StateP, Species: blend.SpeciesMixed, Color: blend.ColorPW},
			DCReal:      f(d),
			FPReal:      f(600),
			DuckReal:    f(50),
			AvailableKg: 1000,
			CostPerKg:   f(10),
		}
	}
	return lots
}

func baseRequest() blend.Requirement {
	req := blend.DefaultRequirement()
	req.DCTarget = f(80)
	req.QuantityKg = 200
	req.MaxLots = 5
	return req
}

func TestOptimize_InvalidRequestFailsValidation(t *testing.T) {
	req := baseRequest()
	req.QuantityKg = -1
	_, err := Optimize(context.Background(), req, makeInventory(10, 80), Options{})
	oerr, ok := err.(*OptimizerError)
	if !ok || oerr.Kind != InvalidRequest {
		t.Fatalf("expected InvalidRequest error, got %v", err)
	}
}

func TestOptimize_NoCandidatesWhenInventoryEmpty(t *testing.T) {
	req := baseRequest()
	_, err := Optimize(context.Background(), req, nil, Options{})
	oerr, ok := err.(*OptimizerError)
	if !ok || oerr.Kind != NoCandidates {
		t.Fatalf("expected NoCandidates error, got %v", err)
	}
}

func TestOptimize_ReturnsScoredSolutions(t *testing.T) {
	req := baseRequest()
	result, err := Optimize(context.Background(), req, makeInventory(10, 80), Options{Seed: 1})
	if err != nil {
		t.Fatalf("Optimize() error: %v", err)
	}
	if len(result.Solutions) == 0 {
		t.Fatal("expected at least one solution")
	}
	for i := 1; i < len(result.Solutions); i++ {
		if result.Solutions[i].Score > result.Solutions[i-1].Score {
			t.Error("solutions should be sorted descending by score")
		}
	}
}

func TestOptimize_RespectsNumSolutionsCap(t *testing.T) {
	req := baseRequest()
	req.NumSolutions = 2
	result, err := Optimize(context.Background(), req, makeInventory(20, 80), Options{Seed: 1})
	if err != nil {
		t.Fatalf("Optimize() error: %v", err)
	}
	if len(result.Solutions) > 2 {
		t.Errorf("got %d solutions, want at most 2", len(result.Solutions))
	}
}

func TestOptimize_CancelledContextReturnsCancelledKind(t *testing.T) {
	req := baseRequest()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Optimize(ctx, req, makeInventory(10, 80), Options{})
	oerr, ok := err.(*OptimizerError)
	if !ok {
		t.Fatalf("expected *OptimizerError, got %v", err)
	}
	if oerr.Kind != Cancelled && oerr.Kind != NoFeasibleBlend {
		t.Errorf("expected Cancelled or NoFeasibleBlend for an already-cancelled context, got %v", oerr.Kind)
	}
}

func TestOptimize_ParallelProducesValidSolutions(t *testing.T) {
	req := baseRequest()
	result, err := Optimize(context.Background(), req, makeInventory(20, 80), Options{Seed: 1, Parallel: true})
	if err != nil {
		t.Fatalf("Optimize() error: %v", err)
	}
	if len(result.Solutions) == 0 {
		t.Fatal("expected at least one solution from the parallel path")
	}
}
