package scoring

import (
	"log/slog"

	"github.com/trackinsight/trackinsight/internal/model"
)

// Default scoring weights and thresholds. The numbers are calibrated so
// that a typical ad-funded news page (15-25 medium/high events) lands in
// the D-F bands while a tracker-free page keeps its A.
const (
	// StartScore is the score of a page with no tracking at all.
	StartScore = 100

	// DefaultWeightCritical through DefaultWeightLow are the per-event
	// deductions by risk level. Weights are summed linearly with no
	// per-category cap.
	DefaultWeightCritical = 30
	DefaultWeightHigh     = 18
	DefaultWeightMedium   = 10
	DefaultWeightLow      = 5

	// DefaultHTTPSBonus rewards TLS transport.
	DefaultHTTPSBonus = 5

	// DefaultExcessiveThreshold is the event count above which the
	// excessive-tracking penalty applies.
	DefaultExcessiveThreshold = 10

	// DefaultExcessivePenalty is the one-time deduction for excessive
	// tracking volume.
	DefaultExcessivePenalty = 20

	// DefaultCrossCompanyThreshold is the number of distinct tracker
	// companies at which the cross-site penalty applies.
	DefaultCrossCompanyThreshold = 3

	// DefaultCrossSitePenalty is the one-time deduction for trackers from
	// several companies; it is not repeated per extra company.
	DefaultCrossSitePenalty = 15

	// DefaultPersistentPenalty is the one-time deduction when any event
	// used a persistent or fingerprinting in-page technique.
	DefaultPersistentPenalty = 20
)

// Config holds the scoring weights and thresholds.
type Config struct {
	// Weights maps each known risk level to its per-event deduction.
	Weights map[model.RiskLevel]int

	// HTTPSBonus is added once when the page uses TLS.
	HTTPSBonus int

	// ExcessiveThreshold and ExcessivePenalty control the volume penalty:
	// strictly more than ExcessiveThreshold events deducts
	// ExcessivePenalty once.
	ExcessiveThreshold int
	ExcessivePenalty   int

	// CrossCompanyThreshold and CrossSitePenalty control the
	// cross-company penalty: at least CrossCompanyThreshold distinct
	// tracker companies deducts CrossSitePenalty once.
	CrossCompanyThreshold int
	CrossSitePenalty      int

	// PersistentMethods is the set of in-page techniques that count as
	// persistent tracking; any match deducts PersistentPenalty once.
	PersistentMethods map[model.InPageMethod]bool
	PersistentPenalty int
}

// DefaultConfig returns the default scoring configuration.
func DefaultConfig() Config {
	return Config{
		Weights: map[model.RiskLevel]int{
			model.RiskCritical: DefaultWeightCritical,
			model.RiskHigh:     DefaultWeightHigh,
			model.RiskMedium:   DefaultWeightMedium,
			model.RiskLow:      DefaultWeightLow,
		},
		HTTPSBonus:            DefaultHTTPSBonus,
		ExcessiveThreshold:    DefaultExcessiveThreshold,
		ExcessivePenalty:      DefaultExcessivePenalty,
		CrossCompanyThreshold: DefaultCrossCompanyThreshold,
		CrossSitePenalty:      DefaultCrossSitePenalty,
		PersistentMethods: map[model.InPageMethod]bool{
			model.MethodCanvasFingerprint: true,
			model.MethodFontFingerprint:   true,
			model.MethodAudioFingerprint:  true,
			model.MethodWebGLFingerprint:  true,
			model.MethodStorageAccess:     true,
		},
		PersistentPenalty: DefaultPersistentPenalty,
	}
}

// Engine computes privacy scores. It carries no mutable state; a single
// Engine is safe for concurrent use from any number of goroutines.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// NewEngine creates a scoring engine with the given configuration.
// A nil logger falls back to slog.Default().
func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Score computes the privacy score for the given events and transport flag.
//
// The computation starts at StartScore, deducts the configured weight per
// event, applies the HTTPS bonus and the three one-time penalties, and
// clamps the result to [0,100]. Events with an unknown risk level are
// scored at the low weight and logged; they never fail the computation.
func (e *Engine) Score(events []model.TrackingEvent, isHTTPS bool) model.PrivacyScore {
	if len(events) == 0 {
		return model.PrivacyScore{
			Score: StartScore,
			Grade: model.GradeForScore(StartScore),
		}
	}

	score := StartScore
	var breakdown model.ScoreBreakdown

	for _, ev := range events {
		level := ev.RiskLevel
		if !level.Valid() {
			e.logger.Warn("unknown risk level, treating as low",
				"event_id", ev.ID,
				"risk_level", string(ev.RiskLevel),
				"domain", ev.Domain,
			)
			level = model.RiskLow
		}
		score -= e.cfg.Weights[level]

		switch level {
		case model.RiskCritical:
			breakdown.CriticalCount++
		case model.RiskHigh:
			breakdown.HighCount++
		case model.RiskMedium:
			breakdown.MediumCount++
		case model.RiskLow:
			breakdown.LowCount++
		}
	}

	if isHTTPS {
		score += e.cfg.HTTPSBonus
		breakdown.HTTPSBonus = true
	}

	if len(events) > e.cfg.ExcessiveThreshold {
		score -= e.cfg.ExcessivePenalty
		breakdown.ExcessiveTrackingPenalty = true
	}

	if len(DistinctCompanies(events)) >= e.cfg.CrossCompanyThreshold {
		score -= e.cfg.CrossSitePenalty
		breakdown.CrossSitePenalty = true
	}

	if e.hasPersistentTracking(events) {
		score -= e.cfg.PersistentPenalty
		breakdown.PersistentTrackingPenalty = true
	}

	score = clamp(score)

	return model.PrivacyScore{
		Score:           score,
		Grade:           model.GradeForScore(score),
		Breakdown:       breakdown,
		Recommendations: e.recommendations(breakdown),
	}
}

// hasPersistentTracking reports whether any event used a configured
// persistent or fingerprinting in-page technique.
func (e *Engine) hasPersistentTracking(events []model.TrackingEvent) bool {
	for _, ev := range events {
		if ev.InPageTracking != nil && e.cfg.PersistentMethods[ev.InPageTracking.Method] {
			return true
		}
	}
	return false
}

// clamp bounds a score to [0,100].
func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
