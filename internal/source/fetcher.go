// Package source defines the fetcher capability contract and the
// concrete per-source fetchers. Each fetcher turns one upstream (an API,
// an RSS feed, or a digitized archive) into forecast, actual, and
// prediction records.
//
// Absence of data is an empty result, never an error. Failures are
// either *UnavailableError (transient, already retried) or *ParseError
// (permanent for that response); both are non-fatal to the orchestrator.
package source

import (
	"context"

	"forecastwatch/internal/record"
	"forecastwatch/internal/registry"
)

// Fetcher is the capability set implemented by every source adapter.
// A source that lacks a capability returns an empty result for it.
type Fetcher interface {
	// Source returns the catalog entry this fetcher serves.
	Source() registry.Source

	// FetchHistorical returns forecasts made around forecastYear about
	// targetYear for the sector.
	FetchHistorical(ctx context.Context, forecastYear, targetYear int, sector record.Sector) ([]record.ForecastRecord, error)

	// FetchActual returns the realized outcome for the sector's primary
	// metric in the given year, or nil when the source has none.
	FetchActual(ctx context.Context, year int, sector record.Sector) (*record.ActualRecord, error)

	// FetchCurrent returns the source's unresolved prediction targeting
	// targetYear for the sector, or nil when the source has none.
	FetchCurrent(ctx context.Context, targetYear int, sector record.Sector) (*record.Prediction, error)
}
