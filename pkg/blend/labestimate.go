package blend

// LabEstimates holds the values the lab-note parser (C2) can extract from
// free-text laboratory notes.
type LabEstimates struct {
	DCEstimate   *float64
	DCRangeLo    *float64
	DCRangeHi    *float64
	FPEstimate   *float64
	OEClass      *int // 1..4
	OEEstimate   *float64
	Confidence   float64
	Source       string
}
