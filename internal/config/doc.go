// Package config provides configuration structures and utilities for
// TrackInsight. It defines the application-level options (storage location,
// analysis window, report format) and the analysis thresholds that are passed
// explicitly into each engine rather than held as global state.
package config
