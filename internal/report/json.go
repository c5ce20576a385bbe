package report

import (
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/downblend/blendopt/pkg/blend"
)

// JSON builds the CLI's machine-readable response body by setting fields
// into a growing buffer with sjson, rather than marshaling a fixed struct —
// this keeps the score breakdown's map[string]float64 shape a first-class
// nested object without a bespoke wrapper type per solution.
func JSON(req blend.Requirement, solutions []blend.Solution) ([]byte, error) {
	doc := []byte("{}")
	var err error

	doc, err = sjson.SetBytes(doc, "requested_kg", req.QuantityKg)
	if err != nil {
		return nil, fmt.Errorf("set requested_kg: %w", err)
	}
	doc, err = sjson.SetBytes(doc, "num_solutions", len(solutions))
	if err != nil {
		return nil, fmt.Errorf("set num_solutions: %w", err)
	}

	for i, sol := range solutions {
		prefix := fmt.Sprintf("solutions.%d", i)
		if doc, err = sjson.SetBytes(doc, prefix+".score", sol.Score); err != nil {
			return nil, fmt.Errorf("set %s.score: %w", prefix, err)
		}
		if doc, err = sjson.SetBytes(doc, prefix+".total_kg", sol.TotalKg); err != nil {
			return nil, fmt.Errorf("set %s.total_kg: %w", prefix, err)
		}
		if doc, err = sjson.SetBytes(doc, prefix+".total_cost", sol.TotalCost); err != nil {
			return nil, fmt.Errorf("set %s.total_cost: %w", prefix, err)
		}
		if doc, err = sjson.SetBytes(doc, prefix+".dc_avg", sol.DCAvg); err != nil {
			return nil, fmt.Errorf("set %s.dc_avg: %w", prefix, err)
		}
		if doc, err = sjson.SetBytes(doc, prefix+".fp_avg", sol.FPAvg); err != nil {
			return nil, fmt.Errorf("set %s.fp_avg: %w", prefix, err)
		}
		if doc, err = sjson.SetBytes(doc, prefix+".duck_avg", sol.DuckAvg); err != nil {
			return nil, fmt.Errorf("set %s.duck_avg: %w", prefix, err)
		}
		if doc, err = sjson.SetBytes(doc, prefix+".oe_avg", sol.OEAvg); err != nil {
			return nil, fmt.Errorf("set %s.oe_avg: %w", prefix, err)
		}
		if doc, err = sjson.SetBytes(doc, prefix+".meets_dc", sol.MeetsDC); err != nil {
			return nil, fmt.Errorf("set %s.meets_dc: %w", prefix, err)
		}
		if doc, err = sjson.SetBytes(doc, prefix+".meets_fp", sol.MeetsFP); err != nil {
			return nil, fmt.Errorf("set %s.meets_fp: %w", prefix, err)
		}
		if doc, err = sjson.SetBytes(doc, prefix+".meets_duck", sol.MeetsDuck); err != nil {
			return nil, fmt.Errorf("set %s.meets_duck: %w", prefix, err)
		}
		if doc, err = sjson.SetBytes(doc, prefix+".meets_oe", sol.MeetsOE); err != nil {
			return nil, fmt.Errorf("set %s.meets_oe: %w", prefix, err)
		}

		for term, value := range sol.ScoreBreakdown {
			path := fmt.Sprintf("%s.score_breakdown.%s", prefix, term)
			if doc, err = sjson.SetBytes(doc, path, value); err != nil {
				return nil, fmt.Errorf("set %s: %w", path, err)
			}
		}

		for j, a := range sol.Allocations {
			allocPrefix := fmt.Sprintf("%s.allocations.%d", prefix, j)
			if doc, err = sjson.SetBytes(doc, allocPrefix+".lot_code", a.Lot.LotCode); err != nil {
				return nil, fmt.Errorf("set %s.lot_code: %w", allocPrefix, err)
			}
			if doc, err = sjson.SetBytes(doc, allocPrefix+".kg_used", a.KgUsed); err != nil {
				return nil, fmt.Errorf("set %s.kg_used: %w", allocPrefix, err)
			}
		}
	}

	return doc, nil
}
