package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/downblend/blendopt/internal/compat"
	"github.com/downblend/blendopt/internal/config"
	"github.com/downblend/blendopt/internal/engine"
	"github.com/downblend/blendopt/internal/inventory"
	"github.com/downblend/blendopt/internal/report"
	"github.com/downblend/blendopt/internal/telemetry"
	"github.com/downblend/blendopt/pkg/blend"
)

var (
	optInventoryPath string
	optRequestPath   string
	optConfigPath    string
	optJSON          bool
	optChartPath     string
	optParallel      bool
	optSeed          uint64
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Compute blend solutions for a request against an inventory",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(optConfigPath)
		if err != nil {
			return err
		}
		compat.SetColorMatrix(cfg.ColorMatrixAsCompat())

		sink := telemetry.NewZerologSink()

		rows, err := readCSVRows(optInventoryPath)
		if err != nil {
			return fmt.Errorf("read inventory: %w", err)
		}

		lots, rowErrors := inventory.LoadLots(rows, cfg.ColumnAliasesAsInventory(), sink)
		for _, re := range rowErrors {
			fmt.Fprintf(cmd.ErrOrStderr(), "row %d: %s: %s\n", re.Row, re.Field, re.Reason)
		}
		if len(lots) == 0 {
			return &exitError{Code: 3, Message: "no usable lots in inventory"}
		}

		req, err := loadRequest(optRequestPath)
		if err != nil {
			return fmt.Errorf("load request: %w", err)
		}

		spinner := report.NewSpinner(os.Stderr)
		spinner.Start("optimizing...")
		result, err := engine.Optimize(context.Background(), req, lots, engine.Options{
			Seed:      optSeed,
			Parallel:  optParallel,
			Telemetry: sink,
		})
		spinner.Stop("")
		if err != nil {
			return mapOptimizerError(err)
		}

		if optChartPath != "" && len(result.Solutions) > 0 {
			f, err := os.Create(optChartPath)
			if err != nil {
				return fmt.Errorf("create chart file: %w", err)
			}
			defer f.Close()
			if err := report.Chart(f, result.Solutions[0]); err != nil {
				return fmt.Errorf("render chart: %w", err)
			}
		}

		if optJSON {
			body, err := report.JSON(req, result.Solutions)
			if err != nil {
				return fmt.Errorf("render json: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(body))
			return nil
		}

		term := report.NewTerminal(cmd.OutOrStdout())
		term.RenderSolutions(req, result.Solutions)
		return nil
	},
}

func init() {
	optimizeCmd.Flags().StringVar(&optInventoryPath, "inventory", "", "path to the inventory CSV file")
	optimizeCmd.Flags().StringVar(&optRequestPath, "request", "", "path to the blend request YAML file")
	optimizeCmd.Flags().StringVar(&optConfigPath, "config", "", "path to an engine config YAML file")
	optimizeCmd.Flags().BoolVar(&optJSON, "json", false, "output results as JSON")
	optimizeCmd.Flags().StringVar(&optChartPath, "chart", "", "write a score-breakdown PNG chart to this path")
	optimizeCmd.Flags().BoolVar(&optParallel, "parallel", false, "shard combination search across worker goroutines")
	optimizeCmd.Flags().Uint64Var(&optSeed, "seed", 0, "diversification seed (fixed default for reproducibility)")
	_ = optimizeCmd.MarkFlagRequired("inventory")
	_ = optimizeCmd.MarkFlagRequired("request")
	rootCmd.AddCommand(optimizeCmd)
}

// readCSVRows reads path as a CSV table and converts each record into an
// inventory.Row keyed by the header line.
func readCSVRows(path string) ([]inventory.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]inventory.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(inventory.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// requestFile is the YAML shape of a blend request file, mirroring spec.md
// §6's request schema.
type requestFile struct {
	ProductCode         string   `yaml:"product_code"`
	Species             string   `yaml:"species"`
	Color               string   `yaml:"color"`
	State               string   `yaml:"state"`
	WaterRepellent       *bool    `yaml:"water_repellent"`
	ExcludeRawMaterials  *bool    `yaml:"exclude_raw_materials"`
	TargetDC            *float64 `yaml:"target_dc"`
	TargetFP            *float64 `yaml:"target_fp"`
	TargetDuck          *float64 `yaml:"target_duck"`
	MaxOE               *float64 `yaml:"max_oe"`
	DCTolerance         float64  `yaml:"dc_tolerance"`
	FPTolerance         float64  `yaml:"fp_tolerance"`
	DuckTolerance       float64  `yaml:"duck_tolerance"`
	TotalKg             float64  `yaml:"total_kg"`
	NumSolutions        int      `yaml:"num_solutions"`
	MaxLots             int      `yaml:"max_lots"`
	AllowEstimated      bool     `yaml:"allow_estimated"`
}

func loadRequest(path string) (blend.Requirement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return blend.Requirement{}, err
	}

	var rf requestFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return blend.Requirement{}, err
	}

	req := blend.DefaultRequirement()
	req.ProductCode = rf.ProductCode
	req.Species = blend.Species(rf.Species)
	req.Color = blend.Color(rf.Color)
	req.State = blend.MaterialState(rf.State)
	req.WaterRepellent = rf.WaterRepellent
	if rf.ExcludeRawMaterials != nil {
		req.ExcludeRawMaterials = *rf.ExcludeRawMaterials
	}
	req.DCTarget = rf.TargetDC
	req.FPTarget = rf.TargetFP
	req.DuckTarget = rf.TargetDuck
	req.MaxOE = rf.MaxOE
	if rf.DCTolerance > 0 {
		req.DCTolerance = rf.DCTolerance
	}
	if rf.FPTolerance > 0 {
		req.FPTolerance = rf.FPTolerance
	}
	if rf.DuckTolerance > 0 {
		req.DuckTolerance = rf.DuckTolerance
	}
	req.QuantityKg = rf.TotalKg
	if rf.NumSolutions > 0 {
		req.NumSolutions = rf.NumSolutions
	}
	if rf.MaxLots > 0 {
		req.MaxLots = rf.MaxLots
	}
	req.AllowEstimated = rf.AllowEstimated

	return req, nil
}

// mapOptimizerError converts an *engine.OptimizerError into the CLI's exit
// code surface (spec.md §6: 2 invalid request, 3 infeasible, 4 cancelled).
func mapOptimizerError(err error) error {
	oerr, ok := err.(*engine.OptimizerError)
	if !ok {
		return err
	}
	switch oerr.Kind {
	case engine.InvalidRequest:
		return &exitError{Code: 2, Message: oerr.Error()}
	case engine.NoCandidates, engine.NoFeasibleBlend:
		return &exitError{Code: 3, Message: oerr.Error()}
	case engine.Cancelled:
		return &exitError{Code: 4, Message: oerr.Error()}
	default:
		return oerr
	}
}
