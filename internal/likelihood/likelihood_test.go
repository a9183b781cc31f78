package likelihood

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forecastwatch/internal/classify"
	"forecastwatch/internal/record"
)

func clockAt(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC)
	}
}

func prediction(target, progress float64, announced, targetYear int) record.Prediction {
	return record.Prediction{
		Metric:           "Renewable Energy Capacity",
		Target:           record.Value{Amount: target, Unit: "GW"},
		CurrentProgress:  record.Value{Amount: progress, Unit: "GW"},
		Sector:           record.Energy,
		AnnouncementYear: announced,
		TargetYear:       targetYear,
	}
}

func TestAnalyzeRenewablesScenario(t *testing.T) {
	// 450 GW by 2030, 118 GW done, announced 2019, evaluated in 2024:
	// progress ≈ 0.262 against ≈ 0.455 of elapsed time, so well behind
	// schedule. Probability must sit below the on-schedule midpoint and
	// confidence must not be HIGH.
	e := New(DefaultConfig(), clockAt(2024))

	a, err := e.Analyze(prediction(450, 118, 2019, 2030), classify.SectorStats{
		Sector: record.Energy, Early: 1, OnTime: 2, Late: 3,
	})
	require.NoError(t, err)

	assert.Less(t, a.Probability, 0.5)
	assert.Contains(t, []record.Confidence{record.ConfidenceLow, record.ConfidenceMedium}, a.Confidence)
	assert.GreaterOrEqual(t, len(a.Rationale), 2)
	assert.LessOrEqual(t, len(a.Rationale), 3)
}

func TestAnalyzeAheadOfSchedule(t *testing.T) {
	e := New(DefaultConfig(), clockAt(2024))

	// 80% done with under half the window elapsed.
	a, err := e.Analyze(prediction(100, 80, 2020, 2030), classify.SectorStats{
		Sector: record.Energy, Early: 3, OnTime: 4, Late: 1,
	})
	require.NoError(t, err)

	assert.Greater(t, a.Probability, 0.6)
	assert.Contains(t, a.Rationale[0], "ahead of linear schedule")
}

func TestProbabilityMonotoneInScheduleLead(t *testing.T) {
	e := New(DefaultConfig(), clockAt(2024))
	stats := classify.SectorStats{Sector: record.Energy, Early: 2, OnTime: 3, Late: 2}

	prev := -1.0
	for _, progress := range []float64{0, 10, 25, 40, 45.5, 60, 80, 100} {
		a, err := e.Analyze(prediction(100, progress, 2019, 2030), stats)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, a.Probability, prev,
			"probability must be monotone non-decreasing in progress, broke at %v", progress)
		prev = a.Probability
	}
}

func TestSmallSampleCapsConfidence(t *testing.T) {
	e := New(DefaultConfig(), clockAt(2024))

	// Far ahead of schedule with a strong history: probability is high.
	strong := classify.SectorStats{Sector: record.Energy, Early: 5, OnTime: 5}
	a, err := e.Analyze(prediction(100, 100, 2020, 2030), strong)
	require.NoError(t, err)
	assert.Greater(t, a.Probability, 0.8)
	assert.Equal(t, record.ConfidenceHigh, a.Confidence)

	// Same shape with two resolved forecasts: capped below HIGH.
	sparse := classify.SectorStats{Sector: record.Energy, Early: 1, OnTime: 1}
	a, err = e.Analyze(prediction(100, 100, 2020, 2030), sparse)
	require.NoError(t, err)
	assert.Greater(t, a.Probability, 0.8)
	assert.Equal(t, record.ConfidenceMedium, a.Confidence)
	assert.Contains(t, a.Rationale[len(a.Rationale)-1], "confidence capped")
}

func TestNoHistoryAssumesNeutralAccuracy(t *testing.T) {
	e := New(DefaultConfig(), clockAt(2024))

	a, err := e.Analyze(prediction(100, 45.5, 2019, 2030), classify.SectorStats{Sector: record.Energy})
	require.NoError(t, err)

	// Exactly on schedule: baseline 0.5, neutral accuracy factor 0.75.
	assert.InDelta(t, 0.375, a.Probability, 0.02)
	assert.Contains(t, a.Rationale[1], "neutral accuracy assumed")
}

func TestAnalyzeRejectsContractViolations(t *testing.T) {
	e := New(DefaultConfig(), clockAt(2024))
	stats := classify.SectorStats{Sector: record.Energy}

	_, err := e.Analyze(prediction(0, 10, 2019, 2030), stats)
	assert.ErrorIs(t, err, ErrZeroTarget)

	_, err = e.Analyze(prediction(100, 10, 2030, 2030), stats)
	assert.ErrorIs(t, err, ErrInvalidHorizon)
}

func TestTimeRatioClamped(t *testing.T) {
	// Evaluating past the target year clamps elapsed time at 100%
	// instead of extrapolating beyond the window.
	e := New(DefaultConfig(), clockAt(2035))

	behind, err := e.Analyze(prediction(100, 50, 2019, 2030), classify.SectorStats{Sector: record.Energy})
	require.NoError(t, err)
	done, err := e.Analyze(prediction(100, 100, 2019, 2030), classify.SectorStats{Sector: record.Energy})
	require.NoError(t, err)

	assert.Less(t, behind.Probability, done.Probability)
}

func TestAnalyzeDeterministic(t *testing.T) {
	e := New(DefaultConfig(), clockAt(2024))
	stats := classify.SectorStats{Sector: record.Energy, Early: 2, OnTime: 1, Late: 1}
	p := prediction(450, 118, 2019, 2030)

	first, err := e.Analyze(p, stats)
	require.NoError(t, err)
	second, err := e.Analyze(p, stats)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
