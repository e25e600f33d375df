// Package pattern detects higher-order tracking patterns in an event set.
//
// Two independent sub-detectors run on every pass: cross-site tracking
// (one tracker observed across several distinct visited sites) and
// fingerprinting (repeated fingerprinting events concentrated on a site).
// Both are stateless and re-examine the full candidate window each pass;
// there is no incremental state to go stale.
package pattern
