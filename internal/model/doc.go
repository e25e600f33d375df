// Package model defines the core data structures used throughout TrackInsight.
//
// This package contains the following main types:
//   - TrackingEvent: A single tracker detection reported by browser instrumentation
//   - PrivacyScore: The 0-100 score, letter grade, breakdown, and recommendations
//   - TrackerPattern: A higher-order tracking pattern (cross-site, fingerprinting)
//   - TimelineReport: Daily/hourly activity buckets with anomaly flags
//   - ComparisonResult: Percentile comparison against a baseline population
//   - AnalysisReport: Aggregate of all engine outputs for one domain
//
// Models live in their own package so that the engine packages (scoring,
// pattern, timeline, compare) and the outer surfaces (storage, report, CLI)
// can share them without import cycles. All types serialize to JSON for
// report output and database storage.
package model
