package model

import "time"

// PatternType identifies the kind of higher-order tracking pattern.
type PatternType string

const (
	// PatternCrossSite is a tracker whose requests appear across several
	// distinct visited sites, indicating behavioral profiling.
	PatternCrossSite PatternType = "cross-site"

	// PatternFingerprinting is repeated fingerprinting attempts
	// concentrated on one or more sites.
	PatternFingerprinting PatternType = "fingerprinting"

	// PatternBehavioral is reserved for session-replay style profiling.
	PatternBehavioral PatternType = "behavioral"

	// PatternDataBroker is reserved for known data-broker endpoints.
	PatternDataBroker PatternType = "data-broker"
)

// TrackerPattern is a detected higher-order tracking pattern. Patterns are
// created fresh on each analysis pass and never mutated; this core does not
// persist them (persistence, if any, is the storage layer's concern).
type TrackerPattern struct {
	// ID uniquely identifies this detection instance.
	ID string `json:"id"`

	// Type is the pattern kind.
	Type PatternType `json:"type"`

	// Domains are the implicated domains: tracker domains for cross-site
	// patterns, visited-site hostnames for fingerprinting patterns.
	Domains []string `json:"domains"`

	// Events are the contributing events.
	Events []TrackingEvent `json:"events"`

	// RiskLevel rates the pattern as a whole.
	RiskLevel RiskLevel `json:"risk_level"`

	// Description is a human-readable summary of the detection.
	Description string `json:"description"`

	// DetectedAt is when this analysis pass produced the pattern.
	DetectedAt time.Time `json:"detected_at"`
}
