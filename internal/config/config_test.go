package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidYml(t *testing.T) {
	tmpDir := t.TempDir()

	content := `min_lot_usage_kg: 20
max_combinations: 5000
column_aliases:
  "Codice Articolo": SCO_ART
`
	path := filepath.Join(tmpDir, "engine.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MinLotUsageKg != 20 {
		t.Errorf("MinLotUsageKg = %v, want 20", cfg.MinLotUsageKg)
	}
	if cfg.MaxCombinations != 5000 {
		t.Errorf("MaxCombinations = %v, want 5000", cfg.MaxCombinations)
	}
	if cfg.InitialDCRange != Default().InitialDCRange {
		t.Errorf("InitialDCRange should keep its default when not overridden, got %v", cfg.InitialDCRange)
	}
	if cfg.ColumnAliases["Codice Articolo"] != "SCO_ART" {
		t.Errorf("column alias override not applied, got %q", cfg.ColumnAliases["Codice Articolo"])
	}
}

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := Default()
	if cfg.MinLotUsageKg != want.MinLotUsageKg || cfg.MaxCombinations != want.MaxCombinations {
		t.Errorf("Load(\"\") = %+v, want Default() %+v", cfg, want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_PreservesDefaultAliasesWhenNoOverride(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "engine.yml")
	if err := os.WriteFile(path, []byte("max_combinations: 1000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.ColumnAliases) == 0 {
		t.Error("expected built-in column aliases to survive a config with no alias overrides")
	}
}

func TestColorMatrixAsCompat_ExpandsFlatEntries(t *testing.T) {
	cfg := EngineConfig{
		ColorMatrix: []ColorPenalty{
			{Requested: "B", Lot: "PW", Penalty: -150},
			{Requested: "B", Lot: "G", Penalty: -10},
		},
	}
	matrix := cfg.ColorMatrixAsCompat()
	if matrix["B"]["PW"] != -150 {
		t.Errorf("B->PW = %v, want -150", matrix["B"]["PW"])
	}
	if matrix["B"]["G"] != -10 {
		t.Errorf("B->G = %v, want -10", matrix["B"]["G"])
	}
}

func TestColumnAliasesAsInventory_CopiesMap(t *testing.T) {
	cfg := Default()
	aliases := cfg.ColumnAliasesAsInventory()
	if len(aliases) != len(cfg.ColumnAliases) {
		t.Errorf("converted alias map has %d entries, want %d", len(aliases), len(cfg.ColumnAliases))
	}
}
