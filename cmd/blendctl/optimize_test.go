package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/downblend/blendopt/internal/engine"
)

func TestReadCSVRows_ParsesHeaderAndRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.csv")
	content := "SCO_ART,SCO_LOTT,SCO_DownCluster_Real,SCO_QTA\nPAPW,L001,80,500\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rows, err := readCSVRows(path)
	if err != nil {
		t.Fatalf("readCSVRows() error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0]["SCO_LOTT"] != "L001" {
		t.Errorf("SCO_LOTT = %q, want L001", rows[0]["SCO_LOTT"])
	}
}

func TestLoadRequest_AppliesOverridesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "request.yml")
	content := "total_kg: 200\ntarget_dc: 80\ndc_tolerance: 2\nnum_solutions: 3\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	req, err := loadRequest(path)
	if err != nil {
		t.Fatalf("loadRequest() error: %v", err)
	}
	if req.QuantityKg != 200 {
		t.Errorf("QuantityKg = %v, want 200", req.QuantityKg)
	}
	if req.DCTarget == nil || *req.DCTarget != 80 {
		t.Errorf("DCTarget = %v, want 80", req.DCTarget)
	}
	if req.DCTolerance != 2 {
		t.Errorf("DCTolerance = %v, want 2 (override)", req.DCTolerance)
	}
	if req.FPTolerance != 5 {
		t.Errorf("FPTolerance = %v, want 5 (default, unset in file)", req.FPTolerance)
	}
	if req.NumSolutions != 3 {
		t.Errorf("NumSolutions = %v, want 3", req.NumSolutions)
	}
}

func TestMapOptimizerError_MapsKindsToExitCodes(t *testing.T) {
	cases := []struct {
		kind engine.Kind
		want int
	}{
		{engine.InvalidRequest, 2},
		{engine.NoCandidates, 3},
		{engine.NoFeasibleBlend, 3},
		{engine.Cancelled, 4},
	}
	for _, tc := range cases {
		err := mapOptimizerError(&engine.OptimizerError{Kind: tc.kind})
		ee, ok := err.(*exitError)
		if !ok {
			t.Fatalf("kind %v: expected *exitError, got %T", tc.kind, err)
		}
		if ee.Code != tc.want {
			t.Errorf("kind %v: code = %d, want %d", tc.kind, ee.Code, tc.want)
		}
	}
}

func TestOptimizeCmd_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	invPath := filepath.Join(dir, "inventory.csv")
	reqPath := filepath.Join(dir, "request.yml")

	csvContent := "SCO_ART,SCO_LOTT,SCO_DownCluster_Real,SCO_FillPower_Real,SCO_Duck,SCO_QTA,SCO_COSTO_KG\n"
	for i := 0; i < 10; i++ {
		csvContent += "PAPW,L00" + string(rune('0'+i)) + ",80,600,50,500,10\n"
	}
	if err := os.WriteFile(invPath, []byte(csvContent), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(reqPath, []byte("total_kg: 200\ntarget_dc: 80\nmax_lots: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetArgs([]string{"optimize", "--inventory", invPath, "--request", reqPath, "--json"})
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("optimize command failed: %v", err)
	}
	if out.Len() == 0 {
		t.Error("expected JSON output from optimize command")
	}
}
