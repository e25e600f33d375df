// Package coordinator is the only stateful piece of the analysis core.
// It debounces bursts of new events with a coalescing timer per analyzer
// class, discards computations that were superseded before publishing, and
// caches the latest report per domain for the query surface.
package coordinator
