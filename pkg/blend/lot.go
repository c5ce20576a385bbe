package blend

import (
	"math"
	"strings"
)

// Lot is a single inventory item: a physically identifiable batch of down
// or feather material. It is created once by the loader and never mutated
// after imputation runs.
type Lot struct {
	ArticleCodeRaw string
	LotCode        string
	Description    string
	LabNotes       string
	Code           ArticleCode

	// Measured fields. nil means "not present in the source row".
	DCReal             *float64
	FPReal             *float64
	DuckReal           *float64
	OtherElementsReal  *float64
	FeatherReal        *float64
	OxygenReal         *float64
	TurbidityReal      *float64
	TotalFibres        *float64
	Broken             *float64
	Landfowl           *float64

	// Declared (nominal) fields.
	DCNominal       *float64
	FPNominal       *float64
	QualityNominal  string
	StandardNominal string

	// Business fields.
	AvailableKg float64
	CostPerKg   *float64

	// Imputation flags, set strictly by the loader's imputation chain.
	DCWasImputed bool
	FPWasImputed bool
}

// IsEstimated reports whether this lot's DC was imputed rather than
// measured. FP imputation alone never marks a lot estimated: DC is the
// critical parameter for blending (§4.3 step 7).
func (l *Lot) IsEstimated() bool {
	return l.DCWasImputed
}

// HasSufficientData reports whether the lot carries a DC value (measured or
// imputed) usable by the optimizer.
func (l *Lot) HasSufficientData() bool {
	return l.DCReal != nil
}

// IsWaterRepellent checks both the decoded article certification and the
// quality_nominal field, since WR treatment can be recorded in either place.
func (l *Lot) IsWaterRepellent() bool {
	if l.Code.IsWaterRepellent() {
		return true
	}
	q := strings.ToUpper(strings.TrimSpace(l.QualityNominal))
	return WaterRepellentCerts[q]
}

// QualityScore is the disposal-priority score (§4.5 ranking key 3, §4.8
// disposal bonus): higher means lower quality material that should be
// consumed first. Each present field adds a term; missing fields contribute
// nothing. An estimated lot is discounted by 50 since its inputs are less
// trustworthy for disposal decisions.
func (l *Lot) QualityScore() float64 {
	score := 0.0
	if l.DCReal != nil {
		score += (100 - *l.DCReal) * 2
	}
	if l.DuckReal != nil {
		score += *l.DuckReal * 1.5
	}
	if l.OtherElementsReal != nil {
		score += *l.OtherElementsReal * 3
	}
	if l.FeatherReal != nil {
		score += *l.FeatherReal * 1.0
	}
	if l.TotalFibres != nil {
		score += *l.TotalFibres * 2
	}
	if l.Broken != nil {
		score += *l.Broken * 1.5
	}
	if l.Landfowl != nil {
		score += *l.Landfowl * 2
	}
	if l.IsEstimated() {
		score -= 50
	}
	return score
}

// CostOrDefault returns the lot's cost per kg, or the 999 sentinel used to
// sort missing-cost lots last (§4.5 ranking key 4).
func (l *Lot) CostOrDefault() float64 {
	if l.CostPerKg == nil {
		return 999
	}
	return *l.CostPerKg
}

// validPct reports whether a percentage value lies within [0, 100].
func validPct(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}
