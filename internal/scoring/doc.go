// Package scoring computes the privacy score for a set of tracking events.
//
// The engine is a pure function: the same event set (in any order) and
// transport-security flag always produce the same PrivacyScore, and nothing
// is mutated or cached between calls. All weights and thresholds come from
// an explicit Config so deployments can tune them without touching engine
// code.
package scoring
