package classify

import "forecastwatch/internal/record"

// SectorStats tallies classification outcomes for one sector. The
// accuracy rate is the fraction of resolved forecasts that landed
// ON_TIME or EARLY; unresolved forecasts contribute to the sample count
// but not to accuracy.
type SectorStats struct {
	Sector     record.Sector `json:"sector"`
	Total      int           `json:"total"`
	Early      int           `json:"early"`
	OnTime     int           `json:"on_time"`
	Late       int           `json:"late"`
	Unresolved int           `json:"unresolved"`
}

// Resolved returns the number of forecasts with a matched actual.
func (s SectorStats) Resolved() int {
	return s.Early + s.OnTime + s.Late
}

// AccuracyRate returns the ON_TIME-or-EARLY fraction of resolved
// forecasts, or 0 when nothing has resolved.
func (s SectorStats) AccuracyRate() float64 {
	resolved := s.Resolved()
	if resolved == 0 {
		return 0
	}
	return float64(s.Early+s.OnTime) / float64(resolved)
}

// Stats aggregates classification results into per-sector tallies.
func Stats(results map[record.Sector][]record.ClassificationResult) map[record.Sector]SectorStats {
	out := make(map[record.Sector]SectorStats, len(results))
	for sec, rs := range results {
		s := SectorStats{Sector: sec}
		for _, r := range rs {
			s.Total++
			switch r.Status {
			case record.StatusEarly:
				s.Early++
			case record.StatusOnTime:
				s.OnTime++
			case record.StatusLate:
				s.Late++
			default:
				s.Unresolved++
			}
		}
		out[sec] = s
	}
	return out
}
