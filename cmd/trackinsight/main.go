// Package main provides the entry point for the TrackInsight CLI.
//
// TrackInsight analyzes browser tracking-detection events: it scores a
// site's privacy posture, detects cross-site and fingerprinting patterns,
// summarizes tracking activity over time, and compares sites against
// category benchmarks, personal history, and peer sites.
//
// Usage:
//
//	trackinsight ingest <events.json>
//	trackinsight analyze <domain>
//
// See --help for all available options.
package main

// main is the entry point for TrackInsight.
func main() {
	Execute()
}
