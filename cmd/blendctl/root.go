package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/downblend/blendopt/pkg/version"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "blendctl",
	Short:   "Compute optimal down/feather blend recipes from an inventory",
	Long: "blendctl loads a lot inventory and a blend request, runs the blend\n" +
		"optimizer engine, and renders the resulting solutions as a table,\n" +
		"JSON, or an optional score-breakdown chart.",
	Version: version.Version,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.SilenceErrors = true
}

// exitError carries an explicit process exit code alongside its message,
// the way the engine's OptimizerError.Kind maps onto spec.md §6's exit
// codes (0 success, 2 invalid request, 3 infeasible, 4 cancelled).
type exitError struct {
	Code    int
	Message string
}

func (e *exitError) Error() string { return e.Message }

// Execute runs the root command and exits with code 1 on an unclassified
// error, or the code carried by an *exitError.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.Code)
		}
		os.Exit(1)
	}
}
