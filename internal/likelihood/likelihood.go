// Package likelihood estimates the probability that an unresolved
// prediction will be met, from current progress against a linear
// schedule and the sector's historical forecast accuracy.
//
// The clock is injected so assessments are deterministic under test; no
// global "now" is consulted.
package likelihood

import (
	"errors"
	"fmt"
	"math"
	"time"

	"forecastwatch/internal/classify"
	"forecastwatch/internal/record"
)

// Input contract violations. These are rejected before any computation;
// a zero target would make the progress ratio undefined.
var (
	ErrZeroTarget     = errors.New("likelihood: prediction target value is zero")
	ErrInvalidHorizon = errors.New("likelihood: target year not after announcement year")
)

// Config tunes the engine.
type Config struct {
	// MinSampleSize is the resolved-forecast count a sector needs before
	// an assessment may be labeled high confidence. Small samples always
	// cap confidence below HIGH regardless of probability.
	MinSampleSize int
	// Steepness controls how sharply the baseline reacts to schedule
	// lead or lag.
	Steepness float64
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{MinSampleSize: 5, Steepness: 6}
}

// Breakdown shows the intermediate values behind an assessment.
type Breakdown struct {
	ProgressRatio float64
	TimeRatio     float64
	Lead          float64
	Baseline      float64
	AccuracyRate  float64
	SampleSize    int
	Probability   float64
}

// Engine produces likelihood assessments. Safe for concurrent use.
type Engine struct {
	cfg Config
	now func() time.Time
}

// New builds an engine with an injected clock. A nil clock uses wall
// time.
func New(cfg Config, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	if cfg.Steepness <= 0 {
		cfg.Steepness = DefaultConfig().Steepness
	}
	return &Engine{cfg: cfg, now: now}
}

// Analyze assesses one prediction against the sector's historical
// accuracy stats.
func (e *Engine) Analyze(p record.Prediction, stats classify.SectorStats) (record.LikelihoodAssessment, error) {
	b, err := e.breakdown(p, stats)
	if err != nil {
		return record.LikelihoodAssessment{}, err
	}
	return record.LikelihoodAssessment{
		Prediction:  p,
		Probability: b.Probability,
		Confidence:  e.confidence(b),
		Rationale:   e.rationale(p, b),
	}, nil
}

func (e *Engine) breakdown(p record.Prediction, stats classify.SectorStats) (Breakdown, error) {
	if p.Target.Amount == 0 {
		return Breakdown{}, ErrZeroTarget
	}
	if p.TargetYear <= p.AnnouncementYear {
		return Breakdown{}, fmt.Errorf("%w: %d -> %d", ErrInvalidHorizon, p.AnnouncementYear, p.TargetYear)
	}

	b := Breakdown{SampleSize: stats.Resolved()}
	b.ProgressRatio = p.CurrentProgress.Amount / p.Target.Amount
	b.TimeRatio = clamp(float64(e.now().Year()-p.AnnouncementYear)/float64(p.TargetYear-p.AnnouncementYear), 0, 1)
	b.Lead = b.ProgressRatio - b.TimeRatio

	// Logistic baseline: monotone in the lead, 0.5 exactly on schedule.
	b.Baseline = 1 / (1 + math.Exp(-e.cfg.Steepness*b.Lead))

	// Sectors with no resolved history get a neutral accuracy rate
	// instead of zero, so an empty record does not read as a perfectly
	// inaccurate one.
	b.AccuracyRate = stats.AccuracyRate()
	if stats.Resolved() == 0 {
		b.AccuracyRate = 0.5
	}

	b.Probability = clamp(b.Baseline*(0.5+0.5*b.AccuracyRate), 0, 1)
	return b, nil
}

func (e *Engine) confidence(b Breakdown) record.Confidence {
	enough := b.SampleSize >= e.cfg.MinSampleSize
	switch {
	case b.Probability > 0.8 && enough:
		return record.ConfidenceHigh
	case b.Probability >= 0.6 && b.Probability <= 0.8:
		return record.ConfidenceMedium
	case !enough && b.Probability > 0.6:
		return record.ConfidenceMedium
	default:
		return record.ConfidenceLow
	}
}

// rationale lists the strongest contributing factors, each derived
// directly from the breakdown.
func (e *Engine) rationale(p record.Prediction, b Breakdown) []string {
	var out []string

	switch {
	case b.Lead > 0.01:
		out = append(out, fmt.Sprintf("progress %.0f%% ahead of linear schedule (%.0f%% done, %.0f%% of time elapsed)",
			b.Lead*100, b.ProgressRatio*100, b.TimeRatio*100))
	case b.Lead < -0.01:
		out = append(out, fmt.Sprintf("progress %.0f%% behind linear schedule (%.0f%% done, %.0f%% of time elapsed)",
			-b.Lead*100, b.ProgressRatio*100, b.TimeRatio*100))
	default:
		out = append(out, fmt.Sprintf("progress tracking linear schedule (%.0f%% done)", b.ProgressRatio*100))
	}

	if b.SampleSize > 0 {
		out = append(out, fmt.Sprintf("%s forecasts historically accurate %.0f%% of the time (%d resolved)",
			p.Sector, b.AccuracyRate*100, b.SampleSize))
	} else {
		out = append(out, fmt.Sprintf("no resolved forecast history for %s, neutral accuracy assumed", p.Sector))
	}

	if b.SampleSize < e.cfg.MinSampleSize {
		out = append(out, fmt.Sprintf("sample of %d resolved forecasts below threshold of %d, confidence capped",
			b.SampleSize, e.cfg.MinSampleSize))
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
