package compat

import "github.com/downblend/blendopt/pkg/blend"

// SpeciesPenalties are the fixed per-case penalty constants of §4.4.
const (
	penaltyDuckBlendUsesGoose   = -1000.0 // duck blend, lot is pure goose: rejected
	penaltyGooseBlendUsesMixed  = -50.0   // goose blend w/ duck target, lot is OA: preferred
	penaltyGooseBlendUsesDuck   = -150.0  // goose blend w/ duck target, lot is A: acceptable
	penaltyGooseNoDuckUsesMixed = -30.0   // goose blend w/o duck target, lot is OA
	penaltyGooseNoDuckUsesDuck  = -100.0  // goose blend w/o duck target, lot is A
)

// SpeciesCompatible implements §4.4's species admissibility/penalty table.
// blendSpecies is the requirement's target species; lotSpecies is the
// candidate lot's decoded species. duckTarget is nil when unspecified.
func SpeciesCompatible(blendSpecies, lotSpecies blend.Species, duckTarget *float64) (admissible bool, penalty float64) {
	switch blendSpecies {
	case blend.SpeciesDuck:
		if lotSpecies == blend.SpeciesGoose {
			return false, penaltyDuckBlendUsesGoose
		}
		return true, 0

	case blend.SpeciesGoose:
		hasDuckTarget := duckTarget != nil && *duckTarget > 0
		switch lotSpecies {
		case blend.SpeciesMixed:
			if hasDuckTarget {
				return true, penaltyGooseBlendUsesMixed
			}
			return true, penaltyGooseNoDuckUsesMixed
		case blend.SpeciesDuck:
			if hasDuckTarget {
				return true, penaltyGooseBlendUsesDuck
			}
			return true, penaltyGooseNoDuckUsesDuck
		case blend.SpeciesGoose:
			return true, 0
		default:
			return true, 0
		}

	case blend.SpeciesMixed:
		return true, 0

	default:
		return true, 0
	}
}
