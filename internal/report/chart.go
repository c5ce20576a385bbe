package report

import (
	"fmt"
	"io"
	"sort"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/downblend/blendopt/pkg/blend"
)

// Chart renders a solution's score breakdown as a bar chart PNG,
// written to w. It is optional tooling invoked only when a caller asks for
// a visual report; the CLI's primary output is the terminal table or JSON.
func Chart(w io.Writer, sol blend.Solution) error {
	terms := make([]string, 0, len(sol.ScoreBreakdown))
	for k := range sol.ScoreBreakdown {
		terms = append(terms, k)
	}
	sort.Strings(terms)

	bars := make([]chart.Value, 0, len(terms))
	for _, term := range terms {
		bars = append(bars, chart.Value{
			Label: term,
			Value: sol.ScoreBreakdown[term],
		})
	}

	graph := chart.BarChart{
		Title:      fmt.Sprintf("Score breakdown (total %.1f)", sol.Score),
		Height:     512,
		Width:      768,
		BarWidth:   40,
		XAxis:      chart.Style{Show: true},
		YAxis:      chart.YAxis{Style: chart.Style{Show: true}},
		Bars:       bars,
	}

	return graph.Render(chart.PNG, w)
}
