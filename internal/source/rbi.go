package source

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"forecastwatch/internal/record"
	"forecastwatch/internal/registry"
)

// percentPattern captures figures like "6.5%" or "7 per cent".
var percentPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:%|per\s*cent)`)

// growthTerms mark feed items that carry a growth projection.
var growthTerms = []string{"growth", "gdp", "projection", "forecast"}

// RBIFetcher reads the Reserve Bank of India press-release feed for
// current growth projections. Resolved history and actuals come from
// other sources; RBI only publishes forward-looking policy statements.
type RBIFetcher struct {
	src    registry.Source
	parser *gofeed.Parser
	client *http.Client
	cfg    ClientConfig
}

// NewRBIFetcher builds the fetcher from its catalog entry.
func NewRBIFetcher(src registry.Source, cfg ClientConfig) *RBIFetcher {
	return &RBIFetcher{src: src, parser: gofeed.NewParser(), client: newHTTPClient(cfg), cfg: cfg}
}

func (f *RBIFetcher) Source() registry.Source { return f.src }

func (f *RBIFetcher) FetchHistorical(ctx context.Context, forecastYear, targetYear int, sector record.Sector) ([]record.ForecastRecord, error) {
	return nil, nil
}

func (f *RBIFetcher) FetchActual(ctx context.Context, year int, sector record.Sector) (*record.ActualRecord, error) {
	return nil, nil
}

// FetchCurrent scans the feed for GDP growth projections targeting
// targetYear. An item qualifies when it mentions both the target year
// and a growth term, and carries at least two percent figures: the
// projected rate and the latest realized rate. Items without both
// figures are skipped rather than guessed at.
func (f *RBIFetcher) FetchCurrent(ctx context.Context, targetYear int, sector record.Sector) (*record.Prediction, error) {
	if sector != record.Economy {
		return nil, nil
	}

	body, err := getWithRetry(ctx, f.client, f.cfg, f.src.ID, f.src.FeedURL)
	if err != nil {
		return nil, err
	}
	feed, err := f.parser.ParseString(string(body))
	if err != nil {
		return nil, &ParseError{Source: f.src.ID, Msg: "parsing feed", Err: err}
	}

	yearToken := strconv.Itoa(targetYear)
	for _, item := range feed.Items {
		text := strings.ToLower(item.Title + " " + item.Description)
		if !strings.Contains(text, yearToken) || !containsAny(text, growthTerms) {
			continue
		}

		figures := percentPattern.FindAllStringSubmatch(text, -1)
		if len(figures) < 2 {
			continue
		}
		target, err1 := strconv.ParseFloat(figures[0][1], 64)
		progress, err2 := strconv.ParseFloat(figures[1][1], 64)
		if err1 != nil || err2 != nil || target == 0 {
			continue
		}

		announced := targetYear - 1
		if item.PublishedParsed != nil {
			announced = item.PublishedParsed.Year()
		}

		return &record.Prediction{
			Metric:           "GDP Growth Rate",
			Target:           record.Value{Amount: target, Unit: "%"},
			CurrentProgress:  record.Value{Amount: progress, Unit: "%"},
			Source:           f.src.ID,
			Sector:           sector,
			AnnouncementYear: announced,
			TargetYear:       targetYear,
			ProvenanceURL:    item.Link,
			RawConfidence:    record.ConfidenceMedium,
		}, nil
	}
	return nil, nil
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
