package model

// Grade is the letter grade derived from a privacy score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// GradeForScore maps a score in [0,100] to its letter grade band:
// >=90 A, >=80 B, >=70 C, >=60 D, else F.
func GradeForScore(score int) Grade {
	switch {
	case score >= 90:
		return GradeA
	case score >= 80:
		return GradeB
	case score >= 70:
		return GradeC
	case score >= 60:
		return GradeD
	default:
		return GradeF
	}
}

// ScoreBreakdown explains how a privacy score was reached: raw per-risk
// event counts plus the bonus/penalty flags that actually fired.
type ScoreBreakdown struct {
	// CriticalCount is the number of critical-risk events.
	CriticalCount int `json:"critical_count"`

	// HighCount is the number of high-risk events.
	HighCount int `json:"high_count"`

	// MediumCount is the number of medium-risk events.
	MediumCount int `json:"medium_count"`

	// LowCount is the number of low-risk events. Events with an unknown
	// risk level are counted here after being downgraded.
	LowCount int `json:"low_count"`

	// HTTPSBonus is true when the +5 transport-security bonus applied.
	HTTPSBonus bool `json:"https_bonus"`

	// ExcessiveTrackingPenalty is true when the event count exceeded the
	// excessive-tracking threshold.
	ExcessiveTrackingPenalty bool `json:"excessive_tracking_penalty"`

	// CrossSitePenalty is true when trackers from three or more distinct
	// companies were present.
	CrossSitePenalty bool `json:"cross_site_penalty"`

	// PersistentTrackingPenalty is true when any event used a persistent
	// or fingerprinting in-page technique.
	PersistentTrackingPenalty bool `json:"persistent_tracking_penalty"`
}

// PrivacyScore is the result of the scoring engine: a deterministic pure
// function of the input event set and the transport-security flag.
type PrivacyScore struct {
	// Score is clamped to [0,100]; higher is better.
	Score int `json:"score"`

	// Grade is derived from Score via GradeForScore.
	Grade Grade `json:"grade"`

	// Breakdown explains which counts and penalties produced Score.
	Breakdown ScoreBreakdown `json:"breakdown"`

	// Recommendations is an ordered list of advice sentences, one per
	// fired condition, most urgent first.
	Recommendations []string `json:"recommendations,omitempty"`
}
