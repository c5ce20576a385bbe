package candidates

import (
	"testing"

	"github.com/downblend/blendopt/internal/article"
	"github.com/downblend/blendopt/pkg/blend"
)

func f(v float64) *float64 { return &v }

func lotFrom(code string, availableKg float64, dc, duck *float64) blend.Lot {
	return blend.Lot{
		LotCode:     code,
		Code:        article.Parse("PAPW"),
		AvailableKg: availableKg,
		DCReal:      dc,
		DuckReal:    duck,
	}
}

func TestFilter_MinUsageKg(t *testing.T) {
	inv := []blend.Lot{lotFrom("L1", 5, f(85), f(100))}
	req := blend.DefaultRequirement()
	out := Filter(req, inv)
	if len(out) != 0 {
		t.Fatalf("lot under 10kg floor should be excluded, got %d", len(out))
	}
}

func TestFilter_DCRange(t *testing.T) {
	req := blend.DefaultRequirement()
	req.DCTarget = f(80)
	inv := []blend.Lot{
		lotFrom("L1", 50, f(82), f(100)),  // within 15
		lotFrom("L2", 50, f(50), f(100)),  // outside 15
	}
	out := Filter(req, inv)
	if len(out) != 1 || out[0].LotCode != "L1" {
		t.Fatalf("expected only L1 to pass DC range filter, got %v", codesOf(out))
	}
}

func TestFilter_SpeciesDuckExclusion(t *testing.T) {
	req := blend.DefaultRequirement()
	req.Species = blend.SpeciesDuck
	inv := []blend.Lot{
		lotGoose("O1", 50, 5),
		lotDuck("A1", 50, 100),
	}
	out := Filter(req, inv)
	if len(out) != 1 || out[0].LotCode != "A1" {
		t.Fatalf("expected only A1 lot, got %v", codesOf(out))
	}
}

func TestFilter_ExcludeRawMaterials(t *testing.T) {
	req := blend.DefaultRequirement()
	req.ExcludeRawMaterials = true
	lot := lotFrom("L1", 50, f(85), f(100))
	lot.Code.Group = "G"
	out := Filter(req, []blend.Lot{lot})
	if len(out) != 0 {
		t.Fatal("raw material lot should be excluded")
	}
}

func TestFilter_EstimatedGating(t *testing.T) {
	req := blend.DefaultRequirement()
	req.AllowEstimated = false
	lot := lotFrom("L1", 50, f(85), f(100))
	lot.DCWasImputed = true
	out := Filter(req, []blend.Lot{lot})
	if len(out) != 0 {
		t.Fatal("estimated lot should be excluded when allow_estimated is false")
	}
	req.AllowEstimated = true
	out = Filter(req, []blend.Lot{lot})
	if len(out) != 1 {
		t.Fatal("estimated lot should pass when allow_estimated is true")
	}
}

func TestRank_CostAscendingWhenNoDCTarget(t *testing.T) {
	req := blend.DefaultRequirement()
	cheap := lotFrom("CHEAP", 50, f(85), f(100))
	cheap.CostPerKg = f(5)
	costly := lotFrom("COSTLY", 50, f(85), f(100))
	costly.CostPerKg = f(50)
	lots := []*blend.Lot{&costly, &cheap}
	Rank(req, lots)
	if lots[0].LotCode != "CHEAP" {
		t.Errorf("expected cheap lot first, got order %v", codesOfPtr(lots))
	}
}

func lotGoose(code string, kg, duck float64) blend.Lot {
	l := lotFrom(code, kg, f(85), f(duck))
	l.Code = article.Parse("POPW")
	return l
}

func lotDuck(code string, kg, duck float64) blend.Lot {
	l := lotFrom(code, kg, f(85), f(duck))
	l.Code = article.Parse("PAPW")
	return l
}

func codesOf(lots []*blend.Lot) []string {
	var out []string
	for _, l := range lots {
		out = append(out, l.LotCode)
	}
	return out
}

func codesOfPtr(lots []*blend.Lot) []string { return codesOf(lots) }
