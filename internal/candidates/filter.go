// Package candidates implements C5: the requirement-driven predicate chain
// that filters the inventory down to usable lots, and the preservation-aware
// ranking key that orders them for the combination generator.
package candidates

import (
	"github.com/downblend/blendopt/internal/compat"
	"github.com/downblend/blendopt/pkg/blend"
)

// minLotUsageKg is the floor below which a lot contributes nothing useful
// to a blend (§4.5 step 1, also the allocation solver's per-lot floor).
const minLotUsageKg = 10.0

// initialDCRange bounds how far a candidate's measured DC may sit from the
// requested target before it is excluded outright (§4.5 step 2).
const initialDCRange = 15.0

// Filter applies the §4.5 predicate chain, in order, to the inventory.
func Filter(req blend.Requirement, inventory []blend.Lot) []*blend.Lot {
	var out []*blend.Lot
	for i := range inventory {
		lot := &inventory[i]
		if !admissible(req, lot) {
			continue
		}
		out = append(out, lot)
	}
	return out
}

func admissible(req blend.Requirement, lot *blend.Lot) bool {
	if lot.AvailableKg < minLotUsageKg {
		return false
	}
	if req.DCTarget != nil && lot.DCReal != nil {
		if *lot.DCReal < *req.DCTarget-initialDCRange || *lot.DCReal > *req.DCTarget+initialDCRange {
			return false
		}
	}
	if req.ExcludeRawMaterials && lot.Code.Group == "G" {
		return false
	}
	requireWR := req.WaterRepellent != nil && *req.WaterRepellent
	if !compat.WaterRepellentAdmissible(requireWR, lot.IsWaterRepellent(), false) {
		return false
	}
	if !req.AllowEstimated && lot.IsEstimated() {
		return false
	}
	if !compat.MaterialStateAdmissible(lot.Code.State, req.DCTarget) {
		return false
	}
	if !speciesAdmissible(req, lot) {
		return false
	}
	if !colorAdmissible(req, lot) {
		return false
	}
	return true
}

// speciesAdmissible implements §4.5 step 7's flexible species rule: it does
// not require an exact species match, only duck-content thresholds
// consistent with the requested blend species.
func speciesAdmissible(req blend.Requirement, lot *blend.Lot) bool {
	duck := 0.0
	if lot.DuckReal != nil {
		duck = *lot.DuckReal
	}
	switch req.Species {
	case blend.SpeciesDuck:
		if lot.Code.Species == blend.SpeciesGoose && duck < 15 {
			return false
		}
		return duck >= 50
	case blend.SpeciesGoose:
		if req.DuckTarget != nil {
			return duck <= *req.DuckTarget+30
		}
		return duck <= 95
	case blend.SpeciesMixed:
		return true
	default:
		return true
	}
}

// colorAdmissible implements §4.5 step 8: equal canonical color, or equal
// base color after stripping suffix/PW/NPW, admits the lot; a mismatch on
// base color alone is inadmissible. No color penalty is applied to the lots
// this admits.
func colorAdmissible(req blend.Requirement, lot *blend.Lot) bool {
	if req.Color == "" {
		return true
	}
	if lot.Code.Color == req.Color {
		return true
	}
	requested := blend.ArticleCode{Color: req.Color}
	return requested.BaseColor() == lot.Code.BaseColor()
}
