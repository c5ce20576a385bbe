// Package report renders a blend engine result to the CLI's output formats:
// a colorized terminal table, a JSON document, and an optional PNG
// score-breakdown chart.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/downblend/blendopt/pkg/blend"
)

// Terminal renders solutions to a TTY-aware, color-coded table. Color is
// disabled automatically when w is not a terminal (piped output, CI logs),
// the same detection the teacher's progress displays use.
type Terminal struct {
	w     io.Writer
	isTTY bool
}

// NewTerminal builds a Terminal writer bound to w. When w is an *os.File,
// color is gated on whether it's a real terminal; any other writer (a
// bytes.Buffer in tests, a pipe) is treated as non-TTY.
func NewTerminal(w io.Writer) *Terminal {
	isTTY := false
	if f, ok := w.(*os.File); ok {
		isTTY = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Terminal{w: w, isTTY: isTTY}
}

// RenderSolutions prints the requirement's headline and a table of ranked
// solutions, one block per solution in slice order (callers are expected to
// have already sorted the slice by score).
func (t *Terminal) RenderSolutions(req blend.Requirement, solutions []blend.Solution) {
	bold := t.colorFunc(color.Bold)
	green := t.colorFunc(color.FgGreen)
	red := t.colorFunc(color.FgRed)

	bold(t.w, "Blend Optimizer: %.1f kg requested\n", req.QuantityKg)
	fmt.Fprintln(t.w, "────────────────────────────────────────")

	if len(solutions) == 0 {
		red(t.w, "No feasible blend found.\n")
		return
	}

	for i, sol := range solutions {
		bold(t.w, "Solution %d — score %.1f\n", i+1, sol.Score)
		fmt.Fprintf(t.w, "  Mass:  %s kg (%s kg requested)\n",
			humanize.CommafWithDigits(sol.TotalKg, 1), humanize.CommafWithDigits(req.QuantityKg, 1))
		fmt.Fprintf(t.w, "  Cost:  %s / kg (total %s)\n",
			humanize.CommafWithDigits(sol.CostPerKg, 2), humanize.CommafWithDigits(sol.TotalCost, 2))

		t.renderConformance("DC", sol.DCAvg, req.DCTarget, sol.MeetsDC, green, red)
		t.renderConformance("FP", sol.FPAvg, req.FPTarget, sol.MeetsFP, green, red)
		t.renderConformance("Duck%", sol.DuckAvg, req.DuckTarget, sol.MeetsDuck, green, red)
		t.renderConformance("OE", sol.OEAvg, req.MaxOE, sol.MeetsOE, green, red)

		fmt.Fprintf(t.w, "  Lots (%d):\n", len(sol.Allocations))
		for _, a := range sol.Allocations {
			fmt.Fprintf(t.w, "    %-12s %8s kg\n", a.Lot.LotCode, humanize.CommafWithDigits(a.KgUsed, 1))
		}

		t.renderBreakdown(sol.ScoreBreakdown)
		fmt.Fprintln(t.w)
	}
}

func (t *Terminal) renderConformance(label string, actual float64, target *float64, meets bool, green, red colorFn) {
	if target == nil {
		fmt.Fprintf(t.w, "  %-6s %.2f (no target)\n", label, actual)
		return
	}
	line := fmt.Sprintf("  %-6s %.2f (target %.2f)\n", label, actual, *target)
	if meets {
		green(t.w, "%s", line)
	} else {
		red(t.w, "%s", line)
	}
}

func (t *Terminal) renderBreakdown(breakdown map[string]float64) {
	terms := make([]string, 0, len(breakdown))
	for k := range breakdown {
		terms = append(terms, k)
	}
	sort.Strings(terms)

	fmt.Fprintln(t.w, "  Score breakdown:")
	for _, k := range terms {
		fmt.Fprintf(t.w, "    %-24s %+8.1f\n", k, breakdown[k])
	}
}

type colorFn func(w io.Writer, format string, a ...any)

// colorFunc returns a print function for the given attribute, or a plain
// fmt.Fprintf when t isn't attached to a TTY.
func (t *Terminal) colorFunc(attr color.Attribute) colorFn {
	if !t.isTTY {
		return func(w io.Writer, format string, a ...any) { fmt.Fprintf(w, format, a...) }
	}
	c := color.New(attr)
	return func(w io.Writer, format string, a ...any) { c.Fprintf(w, format, a...) }
}
