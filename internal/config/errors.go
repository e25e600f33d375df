package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration. Package-level
// sentinel errors let callers use errors.Is() for programmatic handling
// while still providing human-readable messages.
var (
	// ErrInvalidRecentLimit is returned when the event load limit is not
	// positive. A limit of zero would make every analysis pass empty.
	ErrInvalidRecentLimit = errors.New("invalid recent limit: must be positive")

	// ErrInvalidWindow is returned when the analysis window is not positive.
	ErrInvalidWindow = errors.New("invalid window: must be positive")

	// ErrInvalidDebounce is returned when the debounce interval is negative.
	// Zero disables coalescing; negative values are invalid.
	ErrInvalidDebounce = errors.New("invalid debounce: must be non-negative")

	// ErrInvalidPollInterval is returned when the watch polling interval
	// is not positive.
	ErrInvalidPollInterval = errors.New("invalid poll interval: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
