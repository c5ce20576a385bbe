// Package config loads the engine's startup configuration: engine
// constants, the color penalty matrix, and inventory column aliases. All of
// it has a compiled-in default (Default); a YAML file only overrides what
// it names, mirroring the teacher's ProjectConfig override-merging pattern.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/downblend/blendopt/internal/inventory"
	"github.com/downblend/blendopt/pkg/blend"
)

// ColorPenalty is one entry of the color compatibility matrix, expressed
// as requested/lot color pairs so the YAML form stays flat instead of a
// nested map-of-maps.
type ColorPenalty struct {
	Requested string  `yaml:"requested"`
	Lot       string  `yaml:"lot"`
	Penalty   float64 `yaml:"penalty"`
}

// EngineConfig is the full set of overridable engine constants. A zero
// value is never used directly; Default() or Load() always populate it.
type EngineConfig struct {
	MinLotUsageKg   float64           `yaml:"min_lot_usage_kg"`
	InitialDCRange  float64           `yaml:"initial_dc_range"`
	MaxCombinations int               `yaml:"max_combinations"`
	ColorMatrix     []ColorPenalty    `yaml:"color_matrix"`
	ColumnAliases   map[string]string `yaml:"column_aliases"`
}

// Default returns the spec-mandated constants (§6), with no YAML overrides
// applied. Column aliases default to the built-in Italian legacy dialect.
func Default() EngineConfig {
	aliases := make(map[string]string)
	for k, v := range inventory.DefaultAliases() {
		aliases[k] = v
	}
	return EngineConfig{
		MinLotUsageKg:   10.0,
		InitialDCRange:  15.0,
		MaxCombinations: 25000,
		ColumnAliases:   aliases,
	}
}

// Load reads an EngineConfig from a YAML file at path, merging it over
// Default(). An empty path returns Default() unchanged, the same
// no-config-found behavior as the teacher's LoadProjectConfig.
func Load(path string) (EngineConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read engine config %s: %w", path, err)
	}

	var overrides EngineConfig
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return cfg, fmt.Errorf("parse engine config %s: %w", path, err)
	}

	mergeOverrides(&cfg, overrides)
	return cfg, nil
}

func mergeOverrides(cfg *EngineConfig, overrides EngineConfig) {
	if overrides.MinLotUsageKg != 0 {
		cfg.MinLotUsageKg = overrides.MinLotUsageKg
	}
	if overrides.InitialDCRange != 0 {
		cfg.InitialDCRange = overrides.InitialDCRange
	}
	if overrides.MaxCombinations != 0 {
		cfg.MaxCombinations = overrides.MaxCombinations
	}
	if len(overrides.ColorMatrix) > 0 {
		cfg.ColorMatrix = overrides.ColorMatrix
	}
	for alias, canonical := range overrides.ColumnAliases {
		cfg.ColumnAliases[alias] = canonical
	}
}

// ColumnAliasesAsInventory converts the config's plain map into the typed
// inventory.ColumnAliases the loader expects.
func (c EngineConfig) ColumnAliasesAsInventory() inventory.ColumnAliases {
	out := make(inventory.ColumnAliases, len(c.ColumnAliases))
	for k, v := range c.ColumnAliases {
		out[k] = v
	}
	return out
}

// ColorMatrixAsCompat expands the flat YAML entries back into the
// requested->lot->penalty nested map internal/compat consults when a
// caller wants to override the compiled-in defaults.
func (c EngineConfig) ColorMatrixAsCompat() map[blend.Color]map[blend.Color]float64 {
	out := make(map[blend.Color]map[blend.Color]float64)
	for _, entry := range c.ColorMatrix {
		row, ok := out[blend.Color(entry.Requested)]
		if !ok {
			row = make(map[blend.Color]float64)
			out[blend.Color(entry.Requested)] = row
		}
		row[blend.Color(entry.Lot)] = entry.Penalty
	}
	return out
}
