package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"forecastwatch/internal/classify"
	"forecastwatch/internal/record"
)

var (
	flagPredictTargetYear int
	flagPredictSectors    string
	flagPredictSources    string
	flagHistoryFrom       int
	flagHistoryTo         int
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score the likelihood of unresolved future targets",
	Long: `Fetch current predictions targeting --target-year and estimate the
probability each will be met, from progress against a linear schedule
adjusted by the sector's historical forecast accuracy.

Historical accuracy is calibrated from the --history-from/--history-to
window, classified under the moderate band.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		sectors, err := parseSectors(flagPredictSectors)
		if err != nil {
			return err
		}
		sources, err := app.parseSources(flagPredictSources)
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		// Calibration pass: classify the historical window to obtain
		// per-sector accuracy rates and sample sizes.
		histForecasts := app.orch.FetchHistoricalForecasts(ctx, flagHistoryFrom, flagHistoryTo, sectors, sources)
		histActuals := app.orch.FetchActualOutcomes(ctx, flagHistoryTo, sectors)
		stats := classify.Stats(app.classifier.ClassifyAll(histForecasts, histActuals, record.BandModerate))

		predictions := app.orch.FetchCurrentPredictions(ctx, flagPredictTargetYear, sectors, sources)

		assessments := make(map[record.Sector][]record.LikelihoodAssessment, len(predictions))
		for sec, preds := range predictions {
			for _, p := range preds {
				a, err := app.scorer.Analyze(p, stats[sec])
				if err != nil {
					newLogger().Warn("skipping prediction", "metric", p.Metric, "sector", sec, "err", err)
					continue
				}
				assessments[sec] = append(assessments[sec], a)
			}
		}

		if flagJSON {
			return printJSON(assessments)
		}
		renderAssessments(assessments, flagPredictTargetYear)
		return nil
	},
}

func init() {
	predictCmd.Flags().IntVar(&flagPredictTargetYear, "target-year", 2030, "target year to assess")
	predictCmd.Flags().StringVar(&flagPredictSectors, "sectors", "", "comma-separated sectors (default: all)")
	predictCmd.Flags().StringVar(&flagPredictSources, "sources", "", "comma-separated source IDs (default: all enabled)")
	predictCmd.Flags().IntVar(&flagHistoryFrom, "history-from", 1975, "forecast year of the calibration window")
	predictCmd.Flags().IntVar(&flagHistoryTo, "history-to", 2000, "target year of the calibration window")
}

func renderAssessments(assessments map[record.Sector][]record.LikelihoodAssessment, targetYear int) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Likelihood of %d targets", targetYear)))

	if len(assessments) == 0 {
		fmt.Println(dimStyle.Render("No unresolved predictions found."))
		return
	}

	for _, sec := range sortedSectors(assessments) {
		fmt.Println(sectorStyle.Render(string(sec)))
		for _, a := range assessments[sec] {
			fmt.Printf("  %s: %s by %d — probability %.0f%%, confidence %s\n",
				a.Prediction.Metric, renderValue(a.Prediction.Target),
				a.Prediction.TargetYear, a.Probability*100, a.Confidence)
			for _, factor := range a.Rationale {
				fmt.Println(dimStyle.Render("    - " + factor))
			}
		}
	}
}
