// Package category resolves site hostnames to website categories and
// supplies per-category privacy benchmarks (average score, average tracker
// count, score distribution).
//
// The analysis engines depend only on the Provider interface; the bundled
// StaticProvider serves a built-in dataset that can be overridden from a
// YAML file. Deployments backed by a live benchmark service implement
// Provider themselves.
package category
