package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"forecastwatch/internal/classify"
	"forecastwatch/internal/record"
)

var (
	flagForecastYear int
	flagTargetYear   int
	flagSectors      string
	flagSources      string
	flagBand         string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Classify historical forecasts against realized outcomes",
	Long: `Fetch forecasts made at --forecast-year about --target-year, match them
with realized outcomes, and classify each as EARLY, ON_TIME, or LATE under
the active tolerance band. Unmatched forecasts are UNRESOLVED.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		sectors, err := parseSectors(flagSectors)
		if err != nil {
			return err
		}
		sources, err := app.parseSources(flagSources)
		if err != nil {
			return err
		}
		band, err := app.band(flagBand)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		forecasts := app.orch.FetchHistoricalForecasts(ctx, flagForecastYear, flagTargetYear, sectors, sources)
		actuals := app.orch.FetchActualOutcomes(ctx, flagTargetYear, sectors)
		results := app.classifier.ClassifyAll(forecasts, actuals, band)

		if flagJSON {
			return printJSON(results)
		}
		renderComparison(results, band)
		return nil
	},
}

func init() {
	compareCmd.Flags().IntVar(&flagForecastYear, "forecast-year", 0, "year the forecasts were made")
	compareCmd.Flags().IntVar(&flagTargetYear, "target-year", 0, "year the forecasts targeted")
	compareCmd.Flags().StringVar(&flagSectors, "sectors", "", "comma-separated sectors (default: all)")
	compareCmd.Flags().StringVar(&flagSources, "sources", "", "comma-separated source IDs (default: all enabled)")
	compareCmd.Flags().StringVar(&flagBand, "band", "", "tolerance band: strict, moderate, or loose")
	compareCmd.MarkFlagRequired("forecast-year") //nolint:errcheck
	compareCmd.MarkFlagRequired("target-year")   //nolint:errcheck
}

func renderComparison(results map[record.Sector][]record.ClassificationResult, band record.Band) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Forecast accuracy (%s band)", band)))

	if len(results) == 0 {
		fmt.Println(dimStyle.Render("No forecasts found."))
		return
	}

	stats := classify.Stats(results)
	for _, sec := range sortedSectors(results) {
		s := stats[sec]
		fmt.Println(sectorStyle.Render(fmt.Sprintf("%s — %d forecast(s), accuracy %.0f%%",
			sec, s.Total, s.AccuracyRate()*100)))
		for _, r := range results[sec] {
			line := fmt.Sprintf("  %-10s %s: predicted %s",
				renderStatus(r.Status), r.Forecast.Metric, renderValue(r.Forecast.Predicted))
			if r.Actual != nil {
				line += fmt.Sprintf(", actual %s (deviation %+.1f%%)",
					renderValue(r.Actual.Actual), r.DeviationRatio*100)
			}
			fmt.Println(line)
			fmt.Println(dimStyle.Render(fmt.Sprintf("             source: %s", r.Forecast.Source)))
		}
	}
}

func sortedSectors[T any](m map[record.Sector][]T) []record.Sector {
	out := make([]record.Sector, 0, len(m))
	for sec := range m {
		out = append(out, sec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
