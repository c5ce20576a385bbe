package blend

// Requirement is a blend request specification (spec.md §3's
// BlendRequirement). Optional targets are nil pointers; validate tags
// enforce the ranges spec.md §3 and §6 name.
type Requirement struct {
	// Optional categorical targets. ProductCode, if set, is parsed by the
	// article-code decoder and overrides Species/Color/State.
	ProductCode string  `validate:"omitempty"`
	Species     Species `validate:"omitempty,oneof=O A OA C"`
	Color       Color   `validate:"omitempty,oneof=PW BPW NPW BNPW B G R"`
	State       MaterialState `validate:"omitempty,oneof=P M S O"`

	WaterRepellent       *bool `validate:"omitempty"`
	ExcludeRawMaterials  bool

	// Optional quality targets; nil means "no target for this field".
	DCTarget   *float64 `validate:"omitempty,gte=0,lte=100"`
	FPTarget   *float64 `validate:"omitempty,gte=0"`
	DuckTarget *float64 `validate:"omitempty,gte=0,lte=100"`
	MaxOE      *float64 `validate:"omitempty,gte=0,lte=100"`

	DCTolerance   float64 `validate:"gt=0"`
	FPTolerance   float64 `validate:"gt=0"`
	DuckTolerance float64 `validate:"gt=0"`

	QuantityKg float64 `validate:"gt=0"`

	NumSolutions   int  `validate:"gte=1,lte=10"`
	MaxLots        int  `validate:"gte=2,lte=15"`
	AllowEstimated bool
}

// DefaultRequirement returns a Requirement pre-filled with the spec.md §3
// default tolerances and §6 knob defaults. Callers only need to set the
// fields relevant to their request.
func DefaultRequirement() Requirement {
	return Requirement{
		ExcludeRawMaterials: true,
		DCTolerance:         3.0,
		FPTolerance:         5.0,
		DuckTolerance:       5.0,
		NumSolutions:        1,
		MaxLots:             10,
	}
}
