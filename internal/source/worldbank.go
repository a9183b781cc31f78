package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"forecastwatch/internal/record"
	"forecastwatch/internal/registry"
)

// indicator maps a sector to its primary World Bank indicator series.
type indicator struct {
	Code   string
	Metric string
	Unit   string
}

// wbIndicators lists the primary indicator per sector. Sectors the World
// Bank does not cover directly (e.g. Infrastructure) are absent and
// yield empty results.
var wbIndicators = map[record.Sector]indicator{
	record.Economy:           {"NY.GDP.MKTP.KD.ZG", "GDP Growth Rate", "%"},
	record.Energy:            {"EG.USE.COMM.KT.OE", "Energy Use", "kt of oil equivalent"},
	record.Education:         {"SE.ADT.LITR.ZS", "Literacy Rate", "%"},
	record.Healthcare:        {"SP.DYN.LE00.IN", "Life Expectancy", "years"},
	record.Environment:       {"AG.LND.FRST.K2", "Forest Area", "sq. km"},
	record.SocialDevelopment: {"SP.POP.TOTL", "Population", "people"},
}

// WorldBankFetcher reads the World Bank indicator API for India.
type WorldBankFetcher struct {
	src    registry.Source
	client *http.Client
	cfg    ClientConfig
}

// NewWorldBankFetcher builds the fetcher from its catalog entry.
func NewWorldBankFetcher(src registry.Source, cfg ClientConfig) *WorldBankFetcher {
	return &WorldBankFetcher{src: src, client: newHTTPClient(cfg), cfg: cfg}
}

func (f *WorldBankFetcher) Source() registry.Source { return f.src }

// FetchHistorical returns the projection the World Bank published at
// forecastYear for the sector's primary indicator. The API exposes these
// as the observed series value at the forecast year.
func (f *WorldBankFetcher) FetchHistorical(ctx context.Context, forecastYear, targetYear int, sector record.Sector) ([]record.ForecastRecord, error) {
	ind, ok := wbIndicators[sector]
	if !ok {
		return nil, nil
	}
	v, ok, err := f.indicatorValue(ctx, ind.Code, forecastYear)
	if err != nil || !ok {
		return nil, err
	}
	return []record.ForecastRecord{{
		Metric:        ind.Metric,
		Predicted:     record.Value{Amount: v, Unit: ind.Unit},
		Source:        f.src.ID,
		Sector:        sector,
		ForecastYear:  forecastYear,
		TargetYear:    targetYear,
		ProvenanceURL: f.seriesURL(ind.Code),
		RawConfidence: record.ConfidenceHigh,
	}}, nil
}

// FetchActual returns the realized value of the sector's primary
// indicator for the year.
func (f *WorldBankFetcher) FetchActual(ctx context.Context, year int, sector record.Sector) (*record.ActualRecord, error) {
	ind, ok := wbIndicators[sector]
	if !ok {
		return nil, nil
	}
	v, ok, err := f.indicatorValue(ctx, ind.Code, year)
	if err != nil || !ok {
		return nil, err
	}
	return &record.ActualRecord{
		Metric:        ind.Metric,
		Actual:        record.Value{Amount: v, Unit: ind.Unit},
		Sector:        sector,
		Year:          year,
		Source:        f.src.ID,
		ProvenanceURL: f.seriesURL(ind.Code),
	}, nil
}

// FetchCurrent is not a World Bank capability; the API publishes
// outcomes, not targets.
func (f *WorldBankFetcher) FetchCurrent(ctx context.Context, targetYear int, sector record.Sector) (*record.Prediction, error) {
	return nil, nil
}

// wbEntry is one element of the API's data array. Value is null for
// years the series has no observation.
type wbEntry struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// indicatorValue fetches one series value. The API wraps results as a
// two-element array: metadata first, then the observations.
func (f *WorldBankFetcher) indicatorValue(ctx context.Context, code string, year int) (float64, bool, error) {
	u := fmt.Sprintf("%s/%s?%s", f.src.BaseURL, code, url.Values{
		"format":   {"json"},
		"date":     {strconv.Itoa(year)},
		"per_page": {"100"},
	}.Encode())

	body, err := getWithRetry(ctx, f.client, f.cfg, f.src.ID, u)
	if err != nil {
		return 0, false, err
	}

	var envelope []json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return 0, false, &ParseError{Source: f.src.ID, Msg: "decoding envelope", Err: err}
	}
	if len(envelope) < 2 {
		return 0, false, &ParseError{Source: f.src.ID, Msg: "missing data element"}
	}

	var entries []wbEntry
	if err := json.Unmarshal(envelope[1], &entries); err != nil {
		return 0, false, &ParseError{Source: f.src.ID, Msg: "decoding entries", Err: err}
	}

	want := strconv.Itoa(year)
	for _, e := range entries {
		if e.Date == want && e.Value != nil {
			return *e.Value, true, nil
		}
	}
	return 0, false, nil
}

func (f *WorldBankFetcher) seriesURL(code string) string {
	return fmt.Sprintf("https://data.worldbank.org/indicator/%s?locations=IN", code)
}
