// Package record holds the immutable data model shared by the fetchers,
// the orchestrator, and the analysis engines. Records are created by a
// source fetcher and never mutated afterwards; downstream consumers read
// them and produce new artifacts.
package record

// Sector identifies a development sector tracked by the dashboard.
type Sector string

const (
	Economy           Sector = "Economy"
	Energy            Sector = "Energy"
	Infrastructure    Sector = "Infrastructure"
	Technology        Sector = "Technology"
	Agriculture       Sector = "Agriculture"
	Education         Sector = "Education"
	Healthcare        Sector = "Healthcare"
	Environment       Sector = "Environment"
	SocialDevelopment Sector = "Social Development"
)

// AllSectors returns every supported sector in canonical order.
func AllSectors() []Sector {
	return []Sector{
		Economy, Energy, Infrastructure, Technology, Agriculture,
		Education, Healthcare, Environment, SocialDevelopment,
	}
}

// SourceID identifies a data source in the registry.
type SourceID string

// Confidence is the coarse confidence label attached to records
// and assessments.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Value is a numeric measurement with its unit. Matching normalizes
// forecast and actual to the same unit before they reach the
// classification engine, so deviation ratios stay dimensionless.
type Value struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// ForecastRecord is a historical prediction made at ForecastYear about
// TargetYear.
type ForecastRecord struct {
	Metric        string     `json:"metric"`
	Predicted     Value      `json:"predicted_value"`
	Source        SourceID   `json:"source"`
	Sector        Sector     `json:"sector"`
	ForecastYear  int        `json:"forecast_year"`
	TargetYear    int        `json:"target_year"`
	ProvenanceURL string     `json:"provenance_url"`
	RawConfidence Confidence `json:"raw_confidence"`
}

// ActualRecord is the realized outcome recorded for a year, sector, and
// metric.
type ActualRecord struct {
	Metric        string   `json:"metric"`
	Actual        Value    `json:"actual_value"`
	Sector        Sector   `json:"sector"`
	Year          int      `json:"year"`
	Source        SourceID `json:"source"`
	ProvenanceURL string   `json:"provenance_url"`
}

// Prediction is an unresolved forecast whose target year is still in the
// future. CurrentProgress carries the partial actual as of now.
type Prediction struct {
	Metric           string     `json:"metric"`
	Target           Value      `json:"target_value"`
	CurrentProgress  Value      `json:"current_progress"`
	Source           SourceID   `json:"source"`
	Sector           Sector     `json:"sector"`
	AnnouncementYear int        `json:"announcement_year"`
	TargetYear       int        `json:"target_year"`
	ProvenanceURL    string     `json:"provenance_url"`
	RawConfidence    Confidence `json:"raw_confidence"`
}

// Status is the resolved accuracy classification of a forecast.
type Status string

const (
	StatusEarly      Status = "EARLY"
	StatusOnTime     Status = "ON_TIME"
	StatusLate       Status = "LATE"
	StatusUnresolved Status = "UNRESOLVED"
)

// Band names a tolerance band. Band thresholds live in the classification
// engine's configuration; the name travels with each result so consumers
// know which policy produced it.
type Band string

const (
	BandStrict   Band = "strict"
	BandModerate Band = "moderate"
	BandLoose    Band = "loose"
)

// ClassificationResult pairs a forecast with its matched actual (nil when
// unmatched) and the status assigned under a tolerance band. Status is a
// pure function of DeviationRatio and the band.
type ClassificationResult struct {
	Forecast       ForecastRecord `json:"forecast"`
	Actual         *ActualRecord  `json:"actual,omitempty"`
	Status         Status         `json:"status"`
	DeviationRatio float64        `json:"deviation_ratio"`
	ToleranceBand  Band           `json:"tolerance_band"`
}

// LikelihoodAssessment is the terminal artifact for an unresolved
// prediction. Rationale lists the strongest contributing factors in
// order of weight.
type LikelihoodAssessment struct {
	Prediction  Prediction `json:"prediction"`
	Probability float64    `json:"probability"`
	Confidence  Confidence `json:"confidence"`
	Rationale   []string   `json:"rationale"`
}
