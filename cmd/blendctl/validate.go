package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/downblend/blendopt/internal/compat"
	"github.com/downblend/blendopt/internal/config"
	"github.com/downblend/blendopt/internal/inventory"
	"github.com/downblend/blendopt/internal/telemetry"
)

var (
	validateInventoryPath string
	validateConfigPath    string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load an inventory file and report row-level errors without optimizing",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(validateConfigPath)
		if err != nil {
			return err
		}
		compat.SetColorMatrix(cfg.ColorMatrixAsCompat())

		rows, err := readCSVRows(validateInventoryPath)
		if err != nil {
			return fmt.Errorf("read inventory: %w", err)
		}

		lots, rowErrors := inventory.LoadLots(rows, cfg.ColumnAliasesAsInventory(), telemetry.NewZerologSink())

		fmt.Fprintf(cmd.OutOrStdout(), "%d lots loaded, %d row errors\n", len(lots), len(rowErrors))
		for _, re := range rowErrors {
			fmt.Fprintf(cmd.OutOrStdout(), "  row %d: %s: %s\n", re.Row, re.Field, re.Reason)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateInventoryPath, "inventory", "", "path to the inventory CSV file")
	validateCmd.Flags().StringVar(&validateConfigPath, "config", "", "path to an engine config YAML file")
	_ = validateCmd.MarkFlagRequired("inventory")
	rootCmd.AddCommand(validateCmd)
}
