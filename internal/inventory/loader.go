package inventory

import (
	"fmt"

	"github.com/downblend/blendopt/internal/article"
	"github.com/downblend/blendopt/internal/labnotes"
	"github.com/downblend/blendopt/internal/telemetry"
	"github.com/downblend/blendopt/pkg/blend"
)

// RowError is a row-level coercion or range-validation failure (§4.3 step
// 4, spec.md §7's InventoryLoadError). The loader accumulates these and
// keeps processing the remaining rows rather than aborting.
type RowError struct {
	Row    int
	Field  string
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: field %s: %s", e.Row, e.Field, e.Reason)
}

// ImputationNote records which field was imputed, and from which source,
// for a single lot. LoadLots does not build these values: it reports the
// same row, lot, field and source as the fields map of a "field_imputed"
// Info event on the telemetry sink, never as a returned error.
type ImputationNote struct {
	Row     int
	LotCode string
	Field   string
	Source  string
}

// LoadLots normalizes each row against aliases, validates and coerces its
// fields, builds a Lot with its decoded ArticleCode, and runs the
// imputation chain (§4.3). Rows missing either identifier are skipped
// silently, matching spec.md §4.3 step 2. Rows with an unparseable numeric
// field or an out-of-range percentage field are excluded and reported as
// RowErrors; the
// loader continues with the remaining rows.
func LoadLots(rows []Row, aliases ColumnAliases, sink telemetry.Sink) ([]blend.Lot, []RowError) {
	if sink == nil {
		sink = telemetry.NopSink{}
	}

	var lots []blend.Lot
	var rowErrors []RowError

	for i, raw := range rows {
		rowNum := i + 1
		values, dups := resolve(raw, aliases)
		for _, col := range dups {
			sink.Warn("duplicate_column", map[string]any{"row": rowNum, "column": col})
		}
		adapter := newRowAdapter(values)

		articleRaw := adapter.String(ColArticleCode)
		lotCode := adapter.String(ColLotCode)
		if articleRaw == "" || lotCode == "" {
			sink.Info("row_skipped_missing_identifier", map[string]any{"row": rowNum})
			continue
		}

		lot, errs := buildLot(rowNum, lotCode, articleRaw, adapter)
		if len(errs) > 0 {
			rowErrors = append(rowErrors, errs...)
			continue
		}

		impute(&lot, rowNum, sink)
		lots = append(lots, lot)
	}

	return lots, rowErrors
}

// percentField is one measurement column paired with the Lot field it feeds.
// All of them are percentages except the two fill-power columns.
type percentField struct {
	col    string
	name   string
	target **float64
}

func buildLot(rowNum int, lotCode, articleRaw string, adapter RowAdapter) (blend.Lot, []RowError) {
	lot := blend.Lot{
		ArticleCodeRaw: articleRaw,
		LotCode:        lotCode,
		Description:    adapter.String(ColDescription),
		LabNotes:       adapter.String(ColNoteLab),
		Code:           article.Parse(articleRaw),
		QualityNominal: adapter.String(ColQualita),
		StandardNominal: adapter.String(ColStandardNom),
	}

	var errs []RowError
	fields := []percentField{
		{ColDCReal, "dc_real", &lot.DCReal},
		{ColFPReal, "fp_real", &lot.FPReal},
		{ColDuck, "duck_real", &lot.DuckReal},
		{ColOE, "other_elements_real", &lot.OtherElementsReal},
		{ColFeather, "feather_real", &lot.FeatherReal},
		{ColOxygen, "oxygen_real", &lot.OxygenReal},
		{ColTurbidity, "turbidity_real", &lot.TurbidityReal},
		{ColTotalFibres, "total_fibres", &lot.TotalFibres},
		{ColBroken, "broken", &lot.Broken},
		{ColLandfowl, "landfowl", &lot.Landfowl},
		{ColDCNominal, "dc_nominal", &lot.DCNominal},
		{ColFPNominal, "fp_nominal", &lot.FPNominal},
	}
	for _, f := range fields {
		parse := adapter.Percent
		if f.col == ColFPReal || f.col == ColFPNominal {
			// Fill power is in cu.in./oz, not a percentage: no [0,100] bound.
			parse = adapter.Float
		}
		v, err := parse(f.col)
		if err != nil {
			errs = append(errs, RowError{Row: rowNum, Field: f.name, Reason: err.Error()})
			continue
		}
		*f.target = v
	}
	if len(errs) > 0 {
		return blend.Lot{}, errs
	}

	qty, err := adapter.Float(ColQta)
	if err != nil {
		return blend.Lot{}, []RowError{{Row: rowNum, Field: "available_kg", Reason: err.Error()}}
	}
	if qty != nil {
		lot.AvailableKg = *qty
	}

	cost, err := adapter.Float(ColCostoKg)
	if err != nil {
		return blend.Lot{}, []RowError{{Row: rowNum, Field: "cost_per_kg", Reason: err.Error()}}
	}
	lot.CostPerKg = cost

	return lot, nil
}

// impute runs the §4.3 step 6 chain strictly in order, setting the
// DCWasImputed/FPWasImputed flags only when a value was actually filled in.
func impute(lot *blend.Lot, rowNum int, sink telemetry.Sink) {
	var estimates *blend.LabEstimates
	labEstimates := func() *blend.LabEstimates {
		if estimates == nil {
			e := labnotes.Parse(lot.LabNotes)
			estimates = &e
		}
		return estimates
	}

	if lot.DCReal == nil || *lot.DCReal == 0 {
		if est := labEstimates(); est.DCEstimate != nil {
			lot.DCReal = est.DCEstimate
			lot.DCWasImputed = true
			sink.Info("field_imputed", map[string]any{"row": rowNum, "lot": lot.LotCode, "field": "dc_real", "source": "lab_notes"})
			if (lot.OtherElementsReal == nil || *lot.OtherElementsReal == 0) && est.OEEstimate != nil {
				lot.OtherElementsReal = est.OEEstimate
				sink.Info("field_imputed", map[string]any{"row": rowNum, "lot": lot.LotCode, "field": "other_elements_real", "source": "lab_notes"})
			}
		} else if lot.DCNominal != nil && *lot.DCNominal > 0 {
			lot.DCReal = lot.DCNominal
			lot.DCWasImputed = true
			sink.Info("field_imputed", map[string]any{"row": rowNum, "lot": lot.LotCode, "field": "dc_real", "source": "nominal"})
		}
	}

	if lot.FPReal == nil || *lot.FPReal == 0 {
		if est := labEstimates(); est.FPEstimate != nil {
			lot.FPReal = est.FPEstimate
			lot.FPWasImputed = true
			sink.Info("field_imputed", map[string]any{"row": rowNum, "lot": lot.LotCode, "field": "fp_real", "source": "lab_notes"})
		} else if lot.FPNominal != nil && *lot.FPNominal > 0 {
			lot.FPReal = lot.FPNominal
			lot.FPWasImputed = true
			sink.Info("field_imputed", map[string]any{"row": rowNum, "lot": lot.LotCode, "field": "fp_real", "source": "nominal"})
		}
	}

	imputeDuckDefault(lot, rowNum, sink)
}

// imputeDuckDefault applies the species-default chain (§4.3 step 6, third
// bullet): duck lots default to 100% when missing/zero, mixed lots to 50%
// when missing/zero, goose lots to 0% only when the field is absent
// entirely (an explicit zero needs no imputation, since that is already
// the goose default).
func imputeDuckDefault(lot *blend.Lot, rowNum int, sink telemetry.Sink) {
	zeroOrMissing := lot.DuckReal == nil || *lot.DuckReal == 0
	var def float64
	switch {
	case lot.Code.Species == blend.SpeciesDuck && zeroOrMissing:
		def = 100.0
	case lot.Code.Species == blend.SpeciesMixed && zeroOrMissing:
		def = 50.0
	case lot.Code.Species == blend.SpeciesGoose && lot.DuckReal == nil:
		def = 0.0
	default:
		return
	}
	lot.DuckReal = &def
	sink.Info("field_imputed", map[string]any{"row": rowNum, "lot": lot.LotCode, "field": "duck_real", "source": "species_default"})
}
