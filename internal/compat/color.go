package compat

import "github.com/downblend/blendopt/pkg/blend"

// blockedColor is the sentinel threshold: any matrix entry at or below this
// marks the pairing incompatible (§4.4).
const blockedColor = -10000.0

// colorMatrix is the 4x4 penalty table over {PW, NPW, B, G}, keyed
// [requested][lot]. It is intentionally asymmetric: substituting a lower
// grade for a requested higher grade costs more than the reverse, and some
// substitutions (e.g. a B or G lot for a PW request) are blocked outright.
//
// Per spec.md §4.8's Open Question 1, this penalty is never added into the
// blend score. Neither the candidate filter nor the ranker consults it
// either: the filter admits on canonical or base color equality alone.
var colorMatrix = map[blend.Color]map[blend.Color]float64{
	blend.ColorPW: {
		blend.ColorPW:  0,
		blend.ColorNPW: -50,
		blend.ColorB:   blockedColor,
		blend.ColorG:   blockedColor,
	},
	blend.ColorNPW: {
		blend.ColorPW:  -20,
		blend.ColorNPW: 0,
		blend.ColorB:   -300,
		blend.ColorG:   -300,
	},
	blend.ColorB: {
		blend.ColorPW:  -150,
		blend.ColorNPW: -100,
		blend.ColorB:   0,
		blend.ColorG:   -80,
	},
	blend.ColorG: {
		blend.ColorPW:  -150,
		blend.ColorNPW: -120,
		blend.ColorB:   -60,
		blend.ColorG:   0,
	},
}

// ColorCompatible looks up the requested-vs-lot color pairing in the 4x4
// matrix, resolving both sides to their matrix key first (BPW/BNPW collapse
// to PW/NPW). Unknown lot colors (no matrix row/column, e.g. "R") are
// always incompatible.
func ColorCompatible(requested, lot blend.Color) (admissible bool, penalty float64) {
	reqKey := matrixKey(requested)
	lotKey := matrixKey(lot)

	row, ok := colorMatrix[reqKey]
	if !ok {
		return false, blockedColor
	}
	entry, ok := row[lotKey]
	if !ok {
		return false, blockedColor
	}
	if entry <= blockedColor {
		return false, entry
	}
	return true, entry
}

// SetColorMatrix replaces the compiled-in penalty table with an override,
// e.g. one loaded from config.EngineConfig.ColorMatrixAsCompat(). Passing a
// nil or empty override is a no-op, so callers can wire this unconditionally
// without special-casing "no config file given."
func SetColorMatrix(override map[blend.Color]map[blend.Color]float64) {
	if len(override) == 0 {
		return
	}
	colorMatrix = override
}

func matrixKey(c blend.Color) blend.Color {
	switch c {
	case blend.ColorPW, blend.ColorBPW:
		return blend.ColorPW
	case blend.ColorNPW, blend.ColorBNPW:
		return blend.ColorNPW
	case blend.ColorB:
		return blend.ColorB
	case blend.ColorG:
		return blend.ColorG
	default:
		return c
	}
}
