package model

// RiskLevel classifies the tracking exposure of a single event or pattern.
// Risk levels are assigned by the upstream detection layer and are never
// recomputed here. Values outside the four known levels are preserved as-is;
// the scoring engine treats them as RiskLow and logs a warning.
type RiskLevel string

const (
	// RiskLow indicates minor exposure, such as first-party audience
	// measurement with no cross-site reach.
	RiskLow RiskLevel = "low"

	// RiskMedium indicates moderate exposure, such as third-party analytics
	// that collect browsing behavior on a single site.
	RiskMedium RiskLevel = "medium"

	// RiskHigh indicates serious exposure, such as advertising trackers
	// that follow users across sites.
	RiskHigh RiskLevel = "high"

	// RiskCritical indicates severe exposure, such as device fingerprinting
	// or cryptomining scripts.
	RiskCritical RiskLevel = "critical"
)

// Valid reports whether the risk level is one of the four known levels.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	default:
		return false
	}
}

// String returns the wire name of the risk level.
func (r RiskLevel) String() string {
	return string(r)
}

// MoreSevere reports whether r is a more severe level than other.
// Unknown levels rank below RiskLow.
func (r RiskLevel) MoreSevere(other RiskLevel) bool {
	return r.rank() > other.rank()
}

// rank maps levels to an ordering for severity comparisons.
func (r RiskLevel) rank() int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	case RiskCritical:
		return 4
	default:
		return 0
	}
}
