// Package blend holds the data model shared by every stage of the blend
// optimizer: decoded article codes, inventory lots, blend requirements, and
// the solutions produced by the engine.
package blend

import "strings"

// MaterialState is the processing stage of a lot: raw, semi-finished, etc.
type MaterialState string

const (
	StateP MaterialState = "P" // finished product, always admissible
	StateM MaterialState = "M" // semi-finished, DC target must be <=50
	StateS MaterialState = "S" // scrap/raw-ish, DC target must be <=30
	StateO MaterialState = "O" // raw, never admissible in standard blends
)

// Species identifies the bird family a lot was sourced from.
type Species string

const (
	SpeciesGoose Species = "O"  // oca (goose)
	SpeciesDuck  Species = "A"  // anatra (duck)
	SpeciesMixed Species = "OA" // misto oca/anatra
	SpeciesOther Species = "C"
)

// Color is the canonical color bucket a lot's color code resolves to.
type Color string

const (
	ColorPW   Color = "PW"   // pure white
	ColorBPW  Color = "BPW"  // blended pure white
	ColorNPW  Color = "NPW"  // near-pure white
	ColorBNPW Color = "BNPW" // blended near-pure white
	ColorB    Color = "B"    // blend/gray
	ColorG    Color = "G"    // grey
	ColorR    Color = "R"    // red/brown
)

// KnownColors is every color code the C1 parser resolves to (§4.1 step 4),
// exported so the parser package shares a single source of truth with the
// IsValid check below.
var KnownColors = map[string]Color{
	"PW": ColorPW, "BPW": ColorBPW, "NPW": ColorNPW, "BNPW": ColorBNPW,
	"B": ColorB, "G": ColorG, "R": ColorR,
}

// qualityRank orders colors best (1) to worst (5) for tie-breaking; unknown
// colors rank last.
var qualityRank = map[Color]int{
	ColorPW: 1, ColorBPW: 2, ColorNPW: 3, ColorBNPW: 4, ColorB: 5, ColorG: 5, ColorR: 5,
}

// SpecialArticleCode is a registered alias that maps an entire main-code
// substring directly to {state, species, color}, bypassing positional
// parsing (§4.1 step 2).
type SpecialArticleCode struct {
	Code    string
	State   MaterialState
	Species Species
	Color   Color
}

// SpecialCodes must be consulted longest-code-first (the C1 parser does
// this) so a longer alias with a suffix attached is never shadowed by a
// shorter prefix.
var SpecialCodes = []SpecialArticleCode{
	{Code: "PGR", State: StateP, Species: SpeciesMixed, Color: ColorG},
	{Code: "PBR", State: StateP, Species: SpeciesMixed, Color: ColorB},
}

// WaterRepellentCerts are certification/quality-nominal values treated as
// equivalent water-repellent treatments.
var WaterRepellentCerts = map[string]bool{"GWR": true, "NWR": true}

// ArticleCode is a decoded article identifier. It is constructed once per
// lot at ingestion and never mutated afterward.
type ArticleCode struct {
	Raw           string
	Group         string
	State         MaterialState
	Species       Species
	Color         Color
	Certification string
}

// IsValid reports whether State, Species, and Color were all resolved to a
// member of their respective enumerations. Invalid codes never raise an
// error; they are simply excluded by downstream filters.
func (a ArticleCode) IsValid() bool {
	return a.stateKnown() && a.speciesKnown() && a.colorKnown()
}

func (a ArticleCode) stateKnown() bool {
	switch a.State {
	case StateP, StateM, StateS, StateO:
		return true
	default:
		return false
	}
}

func (a ArticleCode) speciesKnown() bool {
	switch a.Species {
	case SpeciesGoose, SpeciesDuck, SpeciesMixed, SpeciesOther:
		return true
	default:
		return false
	}
}

func (a ArticleCode) colorKnown() bool {
	_, ok := KnownColors[string(a.Color)]
	return ok
}

// IsWaterRepellent reports whether the certification field (or, for lots,
// the separately-checked quality_nominal field) marks this code WR-treated.
func (a ArticleCode) IsWaterRepellent() bool {
	cert := strings.ToUpper(strings.TrimSpace(a.Certification))
	return WaterRepellentCerts[cert]
}

// QualityRank returns the color's ordinal quality (1 best, 5 worst); unknown
// colors return 999 so they always sort last.
func (a ArticleCode) QualityRank() int {
	if r, ok := qualityRank[a.Color]; ok {
		return r
	}
	return 999
}

// BaseColor strips any ".suffix" and the "NPW"/"PW" marker, returning the
// leading letter used by the flexible color admissibility check (§4.5 step
// 8). "BPW" and "BNPW" both reduce to "B"; "B.FM" reduces to "B".
func (a ArticleCode) BaseColor() Color {
	s := string(a.Color)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	switch {
	case strings.Contains(s, "NPW"):
		s = strings.Replace(s, "NPW", "", 1)
	case strings.Contains(s, "PW"):
		s = strings.Replace(s, "PW", "", 1)
	}
	if s == "" {
		s = string(a.Color)
	}
	return Color(s[:1])
}

// MatrixColor resolves any of the seven canonical colors to one of the four
// keys {PW, NPW, B, G} the compatibility matrix (§4.4) is defined over. "R"
// has no matrix entry and resolves to itself, which the matrix lookup then
// reports as incompatible.
func (a ArticleCode) MatrixColor() Color {
	switch a.Color {
	case ColorPW, ColorBPW:
		return ColorPW
	case ColorNPW, ColorBNPW:
		return ColorNPW
	case ColorB:
		return ColorB
	case ColorG:
		return ColorG
	default:
		return a.Color
	}
}
