package source

import (
	"context"

	"forecastwatch/internal/record"
	"forecastwatch/internal/registry"
)

// nitiTarget is one announced national target with its latest progress
// reading. Progress figures are refreshed when the catalog is updated
// from published reviews.
type nitiTarget struct {
	Sector           record.Sector
	Metric           string
	Target           record.Value
	Progress         record.Value
	AnnouncementYear int
	TargetYear       int
	Path             string
}

var nitiTargets = []nitiTarget{
	{
		Sector: record.Energy, Metric: "Renewable Energy Capacity",
		Target:           record.Value{Amount: 450, Unit: "GW"},
		Progress:         record.Value{Amount: 118, Unit: "GW"},
		AnnouncementYear: 2019, TargetYear: 2030,
		Path: "/renewable-energy-targets",
	},
	{
		Sector: record.Economy, Metric: "GDP Size",
		Target:           record.Value{Amount: 5, Unit: "trillion USD"},
		Progress:         record.Value{Amount: 3.7, Unit: "trillion USD"},
		AnnouncementYear: 2019, TargetYear: 2030,
		Path: "/economy-vision",
	},
	{
		Sector: record.Infrastructure, Metric: "National Highway Length",
		Target:           record.Value{Amount: 200000, Unit: "km"},
		Progress:         record.Value{Amount: 146000, Unit: "km"},
		AnnouncementYear: 2021, TargetYear: 2030,
		Path: "/infrastructure-pipeline",
	},
}

// NITIAayogFetcher serves the announced national targets NITI Aayog
// tracks. Current capability only; outcomes are recorded elsewhere once
// targets resolve.
type NITIAayogFetcher struct {
	src registry.Source
}

// NewNITIAayogFetcher builds the fetcher from its catalog entry.
func NewNITIAayogFetcher(src registry.Source) *NITIAayogFetcher {
	return &NITIAayogFetcher{src: src}
}

func (f *NITIAayogFetcher) Source() registry.Source { return f.src }

func (f *NITIAayogFetcher) FetchHistorical(ctx context.Context, forecastYear, targetYear int, sector record.Sector) ([]record.ForecastRecord, error) {
	return nil, nil
}

func (f *NITIAayogFetcher) FetchActual(ctx context.Context, year int, sector record.Sector) (*record.ActualRecord, error) {
	return nil, nil
}

// FetchCurrent returns the tracked target for the sector and target
// year, or nil when none is announced.
func (f *NITIAayogFetcher) FetchCurrent(ctx context.Context, targetYear int, sector record.Sector) (*record.Prediction, error) {
	for _, t := range nitiTargets {
		if t.Sector != sector || t.TargetYear != targetYear {
			continue
		}
		return &record.Prediction{
			Metric:           t.Metric,
			Target:           t.Target,
			CurrentProgress:  t.Progress,
			Source:           f.src.ID,
			Sector:           t.Sector,
			AnnouncementYear: t.AnnouncementYear,
			TargetYear:       t.TargetYear,
			ProvenanceURL:    f.src.BaseURL + t.Path,
			RawConfidence:    record.ConfidenceHigh,
		}, nil
	}
	return nil, nil
}
