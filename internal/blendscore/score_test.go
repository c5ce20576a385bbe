package blendscore

import (
	"math"
	"testing"

	"github.com/downblend/blendopt/pkg/blend"
)

func f(v float64) *float64 { return &v }

func TestBuild_WeightedAggregatesExcludeMissingFields(t *testing.T) {
	lotA := &blend.Lot{LotCode: "A", DCReal: f(80), FPReal: f(600)}
	lotB := &blend.Lot{LotCode: "B", DCReal: f(90)} // FP missing
	allocations := []blend.Allocation{
		{Lot: lotA, KgUsed: 100},
		{Lot: lotB, KgUsed: 100},
	}
	sol := Build(blend.Requirement{DCTolerance: 3, FPTolerance: 5, DuckTolerance: 5}, allocations)

	wantDC := (80.0*100 + 90.0*100) / 200
	if math.Abs(sol.DCAvg-wantDC) > 1e-9 {
		t.Errorf("DCAvg = %v, want %v", sol.DCAvg, wantDC)
	}
	if sol.FPAvg != 600 {
		t.Errorf("FPAvg = %v, want 600 (only lot A contributes)", sol.FPAvg)
	}
	if sol.TotalKg != 200 {
		t.Errorf("TotalKg = %v, want 200", sol.TotalKg)
	}
}

func TestBuild_ConformanceFlagsVacuouslyTrueWithoutTarget(t *testing.T) {
	lot := &blend.Lot{LotCode: "A", DCReal: f(80)}
	sol := Build(blend.Requirement{DCTolerance: 3, FPTolerance: 5, DuckTolerance: 5}, []blend.Allocation{{Lot: lot, KgUsed: 100}})
	if !sol.MeetsDC || !sol.MeetsFP || !sol.MeetsDuck || !sol.MeetsOE {
		t.Error("conformance flags should be vacuously true when no targets are set")
	}
}

func TestBuild_MeetsDCWithinTolerance(t *testing.T) {
	lot := &blend.Lot{LotCode: "A", DCReal: f(81)}
	req := blend.Requirement{DCTarget: f(80), DCTolerance: 3, FPTolerance: 5, DuckTolerance: 5}
	sol := Build(req, []blend.Allocation{{Lot: lot, KgUsed: 100}})
	if !sol.MeetsDC {
		t.Error("DC within tolerance should conform")
	}

	req.DCTarget = f(50)
	sol = Build(req, []blend.Allocation{{Lot: lot, KgUsed: 100}})
	if sol.MeetsDC {
		t.Error("DC far outside tolerance should not conform")
	}
}

func TestBuild_LotCountPenaltyTiers(t *testing.T) {
	req := blend.Requirement{DCTolerance: 3, FPTolerance: 5, DuckTolerance: 5}
	makeAllocs := func(n int) []blend.Allocation {
		out := make([]blend.Allocation, n)
		for i := 0; i < n; i++ {
			out[i] = blend.Allocation{Lot: &blend.Lot{LotCode: string(rune('A' + i)), DCReal: f(80)}, KgUsed: 10}
		}
		return out
	}
	fiveLots := Build(req, makeAllocs(5))
	if fiveLots.ScoreBreakdown["lot_count_penalty"] != 0 {
		t.Errorf("5 lots should have no count penalty, got %v", fiveLots.ScoreBreakdown["lot_count_penalty"])
	}
	sixLots := Build(req, makeAllocs(6))
	if sixLots.ScoreBreakdown["lot_count_penalty"] != -25 {
		t.Errorf("6 lots penalty = %v, want -25", sixLots.ScoreBreakdown["lot_count_penalty"])
	}
	tenLots := Build(req, makeAllocs(10))
	want := -25*2 - 50*2 - 100*1
	if tenLots.ScoreBreakdown["lot_count_penalty"] != float64(want) {
		t.Errorf("10 lots penalty = %v, want %v", tenLots.ScoreBreakdown["lot_count_penalty"], want)
	}
}

func TestBuild_EstimatedDataPenaltyOnlyWhenTargeted(t *testing.T) {
	lot := &blend.Lot{LotCode: "A", DCReal: f(80), DCWasImputed: true}
	req := blend.Requirement{DCTarget: f(80), DCTolerance: 3, FPTolerance: 5, DuckTolerance: 5}
	sol := Build(req, []blend.Allocation{{Lot: lot, KgUsed: 100}})
	if sol.ScoreBreakdown["estimated_data_penalty"] >= 0 {
		t.Error("expected a negative estimated-data penalty when DC is targeted and imputed")
	}

	req.DCTarget = nil
	sol = Build(req, []blend.Allocation{{Lot: lot, KgUsed: 100}})
	if sol.ScoreBreakdown["estimated_data_penalty"] != 0 {
		t.Error("expected no estimated-data penalty when DC is not targeted")
	}
}

func TestBuild_DCOverqualificationPenalty(t *testing.T) {
	lot := &blend.Lot{LotCode: "A", DCReal: f(95)}
	req := blend.Requirement{DCTarget: f(80), DCTolerance: 3, FPTolerance: 5, DuckTolerance: 5}
	sol := Build(req, []blend.Allocation{{Lot: lot, KgUsed: 100}})
	if sol.ScoreBreakdown["dc_overqualification"] >= 0 {
		t.Error("lot far above DC target should incur an overqualification penalty")
	}
}
