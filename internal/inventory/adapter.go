package inventory

import (
	"fmt"
	"strconv"
	"strings"
)

// RowAdapter is a typed view over one resolved row, replacing the
// implicit-coercion row-iterator pattern spec.md §9 flags: every accessor
// returns a concrete Go type (or an error) instead of leaving scalar/missing
// ambiguity to the caller.
type RowAdapter struct {
	values map[string]string
}

func newRowAdapter(values map[string]string) RowAdapter {
	return RowAdapter{values: values}
}

// String returns a trimmed string field, empty if absent.
func (r RowAdapter) String(col string) string {
	return strings.TrimSpace(stripBOM(r.values[col]))
}

// Percent parses a percentage field: empty and "nan" (case-insensitive) mean
// missing (nil, nil); anything else must parse and lie within [0, 100].
func (r RowAdapter) Percent(col string) (*float64, error) {
	v, present, err := r.parseLocale(col)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	if v < 0 || v > 100 {
		return nil, fmt.Errorf("value %v out of range [0,100]", v)
	}
	return &v, nil
}

// Float parses an unconstrained numeric field (cost, quantity); empty and
// "nan" mean missing.
func (r RowAdapter) Float(col string) (*float64, error) {
	v, present, err := r.parseLocale(col)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	return &v, nil
}

func (r RowAdapter) parseLocale(col string) (value float64, present bool, err error) {
	raw := strings.TrimSpace(stripBOM(r.values[col]))
	if raw == "" || strings.EqualFold(raw, "nan") {
		return 0, false, nil
	}
	v, err := parseLocaleFloat(raw)
	if err != nil {
		return 0, true, fmt.Errorf("invalid numeric value %q", raw)
	}
	return v, true, nil
}

// parseLocaleFloat accepts either a dot or a comma as the decimal separator
// (§4.3 step 3). When both appear, the dot is treated as a thousands
// separator and stripped before the comma is normalized.
func parseLocaleFloat(raw string) (float64, error) {
	hasComma := strings.Contains(raw, ",")
	hasDot := strings.Contains(raw, ".")
	switch {
	case hasComma && hasDot:
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	case hasComma:
		raw = strings.ReplaceAll(raw, ",", ".")
	}
	return strconv.ParseFloat(raw, 64)
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "﻿")
}
