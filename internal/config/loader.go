package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".trackinsight"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Duration wraps time.Duration so YAML values can be written as Go duration
// strings ("720h", "2s") rather than nanosecond integers.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration as a Go duration string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// File represents the structure of the .trackinsight configuration file.
// All fields are optional; zero values mean "use the default".
type File struct {
	// RecentLimit overrides the maximum events loaded per analysis pass.
	RecentLimit int `yaml:"recentLimit,omitempty"`

	// Window overrides the analysis time window (Go duration string).
	Window Duration `yaml:"window,omitempty"`

	// Debounce overrides the coordinator coalescing interval.
	Debounce Duration `yaml:"debounce,omitempty"`

	// PollInterval overrides the watch command's storage polling interval.
	PollInterval Duration `yaml:"pollInterval,omitempty"`

	// CategoryData points to a YAML file overriding the built-in
	// category/benchmark dataset.
	CategoryData string `yaml:"categoryData,omitempty"`

	// DBDir overrides the event database directory.
	DBDir string `yaml:"dbDir,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers should
// handle this error based on whether the path was explicitly specified.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply copies the file's non-zero settings onto cfg.
// CLI flags should be applied after this so they win over the file.
func (cf *File) Apply(cfg *Config) {
	if cf.RecentLimit > 0 {
		cfg.RecentLimit = cf.RecentLimit
	}
	if cf.Window > 0 {
		cfg.Window = time.Duration(cf.Window)
	}
	if cf.Debounce > 0 {
		cfg.Debounce = time.Duration(cf.Debounce)
	}
	if cf.PollInterval > 0 {
		cfg.PollInterval = time.Duration(cf.PollInterval)
	}
	if cf.CategoryData != "" {
		cfg.CategoryDataPath = cf.CategoryData
	}
	if cf.DBDir != "" {
		cfg.DBDir = cf.DBDir
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .trackinsight in the current directory
// 3. Look for .trackinsight in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
