package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// Threshold defaults mirror the detection layer's published heuristics so
// that scores computed here match the scores shown by the browser extension.
const (
	// DefaultRecentLimit is how many events to load from storage per
	// analysis pass. 1000 events covers several weeks of typical browsing
	// while keeping a pass well under a second.
	DefaultRecentLimit = 1000

	// DefaultWindow is the analysis time window. 30 days matches the
	// retention the detection layer guarantees for its event log.
	DefaultWindow = 30 * 24 * time.Hour

	// DefaultDebounce is how long the coordinator waits after the last
	// event of a burst before recomputing. Browser instrumentation emits
	// events in page-load bursts of 5-50; two seconds coalesces a full
	// burst into one recomputation without making the UI feel stale.
	DefaultDebounce = 2 * time.Second

	// DefaultPollInterval is how often the watch command polls storage
	// for new events.
	DefaultPollInterval = 5 * time.Second

	// AppName is the application name used for XDG directory paths.
	AppName = "trackinsight"
)

// Config holds all application-level configuration for TrackInsight.
// It is populated from CLI flags and the optional config file, then passed
// through the application via dependency injection rather than global state.
type Config struct {
	// DBDir is the directory holding the SQLite event log.
	// Defaults to the XDG data directory (~/.local/share/trackinsight on Linux).
	DBDir string

	// RecentLimit is the maximum number of events loaded per analysis pass.
	RecentLimit int

	// Window is the analysis time window for timeline and scoring passes.
	Window time.Duration

	// Debounce is the coordinator's coalescing interval: a burst of events
	// arriving within this interval triggers at most one recomputation.
	Debounce time.Duration

	// PollInterval is the storage polling interval for the watch command.
	PollInterval time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of human-readable text.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// CategoryDataPath points to a YAML file overriding the built-in
	// category/benchmark dataset. Empty means use the built-in data.
	CategoryDataPath string

	// ConfigFilePath is the path to the configuration file. If empty, the
	// tool searches for .trackinsight in the current directory and then in
	// the user's home directory.
	ConfigFilePath string

	// AssumeHTTPS is the transport-security flag passed to the scoring
	// engine when the stored events for a site cannot determine it.
	AssumeHTTPS bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
func NewConfig() *Config {
	return &Config{
		DBDir:        XDGDataDir(),
		RecentLimit:  DefaultRecentLimit,
		Window:       DefaultWindow,
		Debounce:     DefaultDebounce,
		PollInterval: DefaultPollInterval,
	}
}

// XDGDataDir returns the XDG data directory for TrackInsight.
// On Linux: ~/.local/share/trackinsight
// On macOS: ~/Library/Application Support/trackinsight
// On Windows: %LOCALAPPDATA%\trackinsight
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for TrackInsight.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first specific error found; fixing one error often makes
// later ones irrelevant. Called once after CLI parsing, before any analysis.
func (c *Config) Validate() error {
	if c.RecentLimit <= 0 {
		return ErrInvalidRecentLimit
	}
	if c.Window <= 0 {
		return ErrInvalidWindow
	}
	if c.Debounce < 0 {
		return ErrInvalidDebounce
	}
	if c.PollInterval <= 0 {
		return ErrInvalidPollInterval
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
