package model

import "time"

// AnalysisReport aggregates the outputs of all four engines for one domain.
// It is the unit of report output and of the report archive in storage.
type AnalysisReport struct {
	// Domain is the analyzed site hostname.
	Domain string `json:"domain"`

	// GeneratedAt is when the analysis ran.
	GeneratedAt time.Time `json:"generated_at"`

	// EventCount is the number of events the analysis covered.
	EventCount int `json:"event_count"`

	// WindowMillis is the analyzed time window in milliseconds.
	WindowMillis int64 `json:"window_millis"`

	// Score is the scoring engine output.
	Score PrivacyScore `json:"score"`

	// Patterns holds the detected tracking patterns, most severe first.
	Patterns []TrackerPattern `json:"patterns,omitempty"`

	// Timeline is the timeline analyzer output.
	Timeline TimelineReport `json:"timeline"`

	// Comparisons holds whichever comparison flavors had sufficient data.
	Comparisons []ComparisonResult `json:"comparisons,omitempty"`

	// InsufficientBaselines names comparison flavors that were skipped
	// for lack of data, so callers can surface "insufficient data"
	// instead of silently omitting them.
	InsufficientBaselines []BaselineKind `json:"insufficient_baselines,omitempty"`
}

// NewAnalysisReport creates a report shell for the given domain.
func NewAnalysisReport(domain string) *AnalysisReport {
	return &AnalysisReport{
		Domain:      domain,
		GeneratedAt: time.Now().UTC(),
	}
}

// RiskCounts returns the number of detected patterns per risk level.
func (r *AnalysisReport) RiskCounts() map[RiskLevel]int {
	counts := make(map[RiskLevel]int)
	for _, p := range r.Patterns {
		counts[p.RiskLevel]++
	}
	return counts
}
