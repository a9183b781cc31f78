// Package classify compares forecast records against matched actuals
// and assigns an accuracy status under a tolerance band.
//
// Classification is deterministic: status is a pure function of the
// deviation ratio and the active band, and matching ties are broken by a
// fixed total order. Two calls with identical inputs always yield
// identical results.
package classify

import (
	"errors"
	"fmt"
	"strings"

	"forecastwatch/internal/record"
	"forecastwatch/internal/registry"
)

// ErrZeroPredicted rejects forecasts whose predicted value is zero. The
// deviation ratio is undefined for them, so they must be filtered at the
// boundary rather than classified.
var ErrZeroPredicted = errors.New("classify: predicted value is zero")

// Thresholds holds the symmetric deviation thresholds per band.
type Thresholds struct {
	Strict   float64
	Moderate float64
	Loose    float64
}

// DefaultThresholds returns the documented defaults: 5%, 15%, 25%.
func DefaultThresholds() Thresholds {
	return Thresholds{Strict: 0.05, Moderate: 0.15, Loose: 0.25}
}

func (t Thresholds) validate() error {
	if t.Strict <= 0 || t.Moderate <= 0 || t.Loose <= 0 {
		return fmt.Errorf("tolerance thresholds must be positive, got %+v", t)
	}
	if !(t.Strict < t.Moderate && t.Moderate < t.Loose) {
		return fmt.Errorf("tolerance thresholds must increase strict < moderate < loose, got %+v", t)
	}
	return nil
}

// ParseBand maps a band name to its constant.
func ParseBand(name string) (record.Band, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "strict":
		return record.BandStrict, nil
	case "moderate":
		return record.BandModerate, nil
	case "loose":
		return record.BandLoose, nil
	}
	return "", fmt.Errorf("unknown tolerance band %q (valid: strict, moderate, loose)", name)
}

// Engine classifies forecasts. Safe for concurrent use; it holds only
// immutable configuration.
type Engine struct {
	thresholds Thresholds
	registry   *registry.Registry
}

// New builds an engine. Malformed thresholds are a startup error, not
// something to handle per call.
func New(reg *registry.Registry, t Thresholds) (*Engine, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &Engine{thresholds: t, registry: reg}, nil
}

func (e *Engine) threshold(band record.Band) float64 {
	switch band {
	case record.BandStrict:
		return e.thresholds.Strict
	case record.BandLoose:
		return e.thresholds.Loose
	default:
		return e.thresholds.Moderate
	}
}

// Classify assigns a status to a forecast given its matched actual.
//
// The deviation ratio is signed: (actual - predicted) / predicted. A
// magnitude within the band threshold (boundary inclusive) is ON_TIME.
// Above it, the outcome exceeded the forecast, which for the tracked
// more-is-better indicators means the target arrived EARLY; below it,
// LATE. A nil actual is UNRESOLVED with a zero ratio.
func (e *Engine) Classify(f record.ForecastRecord, a *record.ActualRecord, band record.Band) (record.ClassificationResult, error) {
	res := record.ClassificationResult{Forecast: f, Actual: a, ToleranceBand: band}

	if a == nil {
		res.Status = record.StatusUnresolved
		return res, nil
	}
	if f.Predicted.Amount == 0 {
		return record.ClassificationResult{}, ErrZeroPredicted
	}

	dev := (a.Actual.Amount - f.Predicted.Amount) / f.Predicted.Amount
	res.DeviationRatio = dev

	limit := e.threshold(band)
	switch {
	case dev >= -limit && dev <= limit:
		res.Status = record.StatusOnTime
	case dev > limit:
		res.Status = record.StatusEarly
	default:
		res.Status = record.StatusLate
	}
	return res, nil
}

// MatchActual selects the actual for a forecast: same sector, same
// normalized metric, and the actual's year equal to the forecast's
// target year. Among multiple matches the highest trust tier wins
// (government > agency > news), with source ID as the final tie-break so
// the order is total.
func (e *Engine) MatchActual(f record.ForecastRecord, actuals []record.ActualRecord) *record.ActualRecord {
	metric := NormalizeMetric(f.Metric)

	var best *record.ActualRecord
	for i := range actuals {
		a := &actuals[i]
		if a.Sector != f.Sector || a.Year != f.TargetYear || NormalizeMetric(a.Metric) != metric {
			continue
		}
		if best == nil || e.preferred(a, best) {
			best = a
		}
	}
	return best
}

func (e *Engine) preferred(a, b *record.ActualRecord) bool {
	at, bt := e.registry.Tier(a.Source), e.registry.Tier(b.Source)
	if at != bt {
		return at > bt
	}
	return a.Source < b.Source
}

// ClassifyAll matches and classifies every forecast per sector.
// Forecasts with a zero predicted value are dropped: they violate the
// input contract and would make the ratio undefined.
func (e *Engine) ClassifyAll(forecasts map[record.Sector][]record.ForecastRecord, actuals map[record.Sector][]record.ActualRecord, band record.Band) map[record.Sector][]record.ClassificationResult {
	out := make(map[record.Sector][]record.ClassificationResult, len(forecasts))
	for sec, fs := range forecasts {
		for _, f := range fs {
			res, err := e.Classify(f, e.MatchActual(f, actuals[sec]), band)
			if err != nil {
				continue
			}
			out[sec] = append(out[sec], res)
		}
	}
	return out
}

// NormalizeMetric canonicalizes a metric name for matching: lowercase
// with collapsed whitespace.
func NormalizeMetric(metric string) string {
	return strings.Join(strings.Fields(strings.ToLower(metric)), " ")
}
