package source

import (
	"context"
	"fmt"
	"strings"

	"forecastwatch/internal/record"
	"forecastwatch/internal/registry"
)

// planPeriods maps each Five Year Plan to its starting year. A forecast
// year is attributed to the plan whose window contains it.
var planPeriods = []struct {
	Start int
	Name  string
}{
	{1951, "First Five Year Plan"},
	{1956, "Second Five Year Plan"},
	{1961, "Third Five Year Plan"},
	{1969, "Fourth Five Year Plan"},
	{1974, "Fifth Five Year Plan"},
	{1980, "Sixth Five Year Plan"},
	{1985, "Seventh Five Year Plan"},
	{1992, "Eighth Five Year Plan"},
	{1997, "Ninth Five Year Plan"},
	{2002, "Tenth Five Year Plan"},
	{2007, "Eleventh Five Year Plan"},
	{2012, "Twelfth Five Year Plan"},
}

// planFor returns the plan covering a forecast year, or "" when the year
// predates the plan era or falls in a gap.
func planFor(year int) string {
	for _, p := range planPeriods {
		if year >= p.Start && year < p.Start+5 {
			return p.Name
		}
	}
	return ""
}

// archiveEntry is one digitized plan-document forecast.
type archiveEntry struct {
	ForecastYear int
	TargetYear   int
	Sector       record.Sector
	Metric       string
	Value        record.Value
	Document     string
	Confidence   record.Confidence
}

// planArchive holds digitized targets from plan documents and vision
// papers. Values arrive already parsed; the digitization step owns the
// extraction from the source PDFs.
var planArchive = []archiveEntry{
	{1975, 2000, record.Economy, "GDP Growth Rate",
		record.Value{Amount: 6.5, Unit: "%"}, "Fifth Five Year Plan", record.ConfidenceHigh},
	{1975, 2000, record.Energy, "Power Generation Capacity",
		record.Value{Amount: 100, Unit: "GW"}, "Fifth Five Year Plan", record.ConfidenceMedium},
	{2000, 2025, record.Economy, "GDP Size",
		record.Value{Amount: 5, Unit: "trillion USD"}, "Vision 2020 Document", record.ConfidenceMedium},
}

// PlanningCommissionFetcher serves digitized Five Year Plan forecasts.
// It is a pure archive: no network I/O, historical capability only.
type PlanningCommissionFetcher struct {
	src registry.Source
}

// NewPlanningCommissionFetcher builds the fetcher from its catalog entry.
func NewPlanningCommissionFetcher(src registry.Source) *PlanningCommissionFetcher {
	return &PlanningCommissionFetcher{src: src}
}

func (f *PlanningCommissionFetcher) Source() registry.Source { return f.src }

// FetchHistorical returns archived plan forecasts matching the year pair
// and sector. Entries are attributed to the plan covering the forecast
// year.
func (f *PlanningCommissionFetcher) FetchHistorical(ctx context.Context, forecastYear, targetYear int, sector record.Sector) ([]record.ForecastRecord, error) {
	var out []record.ForecastRecord
	for _, e := range planArchive {
		if e.ForecastYear != forecastYear || e.TargetYear != targetYear || e.Sector != sector {
			continue
		}
		out = append(out, record.ForecastRecord{
			Metric:        e.Metric,
			Predicted:     e.Value,
			Source:        f.src.ID,
			Sector:        e.Sector,
			ForecastYear:  e.ForecastYear,
			TargetYear:    e.TargetYear,
			ProvenanceURL: f.documentURL(e),
			RawConfidence: e.Confidence,
		})
	}
	return out, nil
}

func (f *PlanningCommissionFetcher) FetchActual(ctx context.Context, year int, sector record.Sector) (*record.ActualRecord, error) {
	return nil, nil
}

func (f *PlanningCommissionFetcher) FetchCurrent(ctx context.Context, targetYear int, sector record.Sector) (*record.Prediction, error) {
	return nil, nil
}

func (f *PlanningCommissionFetcher) documentURL(e archiveEntry) string {
	doc := e.Document
	if plan := planFor(e.ForecastYear); plan != "" {
		doc = plan
	}
	slug := strings.ReplaceAll(strings.ToLower(doc), " ", "-")
	return fmt.Sprintf("%s/%s", f.src.BaseURL, slug)
}
