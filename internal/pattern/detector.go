package pattern

import (
	"log/slog"
	"sort"

	"github.com/trackinsight/trackinsight/internal/model"
)

// Default detection thresholds.
const (
	// DefaultCrossSiteMinHosts is the number of distinct visited hostnames
	// a single tracker must span to qualify as cross-site tracking.
	DefaultCrossSiteMinHosts = 3

	// DefaultCrossSiteCriticalDomains is the number of qualifying tracker
	// domains at which a cross-site pattern escalates from high to
	// critical risk.
	DefaultCrossSiteCriticalDomains = 5

	// DefaultFingerprintMinEvents is the minimum number of fingerprinting
	// events overall before the fingerprinting detector engages.
	DefaultFingerprintMinEvents = 2

	// DefaultFingerprintMinPerSite is the minimum number of fingerprinting
	// events on a single site for that site to qualify.
	DefaultFingerprintMinPerSite = 2
)

// Config holds the detection thresholds.
type Config struct {
	CrossSiteMinHosts        int
	CrossSiteCriticalDomains int
	FingerprintMinEvents     int
	FingerprintMinPerSite    int
}

// DefaultConfig returns the default detection thresholds.
func DefaultConfig() Config {
	return Config{
		CrossSiteMinHosts:        DefaultCrossSiteMinHosts,
		CrossSiteCriticalDomains: DefaultCrossSiteCriticalDomains,
		FingerprintMinEvents:     DefaultFingerprintMinEvents,
		FingerprintMinPerSite:    DefaultFingerprintMinPerSite,
	}
}

// Detector runs the pattern sub-detectors over an event set. It carries no
// mutable state and is safe for concurrent use.
type Detector struct {
	cfg    Config
	logger *slog.Logger
}

// NewDetector creates a pattern detector with the given thresholds.
// A nil logger falls back to slog.Default().
func NewDetector(cfg Config, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{cfg: cfg, logger: logger}
}

// Detect runs all sub-detectors and returns their patterns, most severe
// first. Zero, one, or two patterns are possible per pass.
func (d *Detector) Detect(events []model.TrackingEvent) []model.TrackerPattern {
	var patterns []model.TrackerPattern

	if p := d.detectCrossSite(events); p != nil {
		patterns = append(patterns, *p)
	}
	if p := d.detectFingerprinting(events); p != nil {
		patterns = append(patterns, *p)
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].RiskLevel.MoreSevere(patterns[j].RiskLevel)
	})
	return patterns
}

// sortedKeys returns the map's keys in lexical order, so pattern domain
// lists are stable across passes over the same input.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
