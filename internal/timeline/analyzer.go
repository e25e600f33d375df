package timeline

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/trackinsight/trackinsight/internal/model"
)

const (
	// DefaultAnomalyFactor marks a day anomalous when its event count
	// exceeds this multiple of the daily average.
	DefaultAnomalyFactor = 2.0

	// DefaultConcentratedFactor attributes a likely cause when a day
	// exceeds this multiple of the daily average.
	DefaultConcentratedFactor = 3.0
)

// dayKeyLayout is the calendar-day bucket key format (UTC).
const dayKeyLayout = "2006-01-02"

// concentratedSessionCause explains days far above the average.
const concentratedSessionCause = "possible concentrated browsing session"

// Config tunes anomaly thresholds.
type Config struct {
	// AnomalyFactor is the daily-average multiple above which a day is
	// flagged as anomalous.
	AnomalyFactor float64

	// ConcentratedFactor is the daily-average multiple above which the
	// anomaly carries a likely cause.
	ConcentratedFactor float64
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		AnomalyFactor:      DefaultAnomalyFactor,
		ConcentratedFactor: DefaultConcentratedFactor,
	}
}

// Analyzer buckets tracking events into UTC calendar days and hourly
// histograms and flags days with unusual volume.
type Analyzer struct {
	cfg    Config
	logger *slog.Logger
}

// NewAnalyzer creates a timeline analyzer. A nil logger falls back to
// slog.Default().
func NewAnalyzer(cfg Config, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.AnomalyFactor <= 0 {
		cfg.AnomalyFactor = DefaultAnomalyFactor
	}
	if cfg.ConcentratedFactor <= 0 {
		cfg.ConcentratedFactor = DefaultConcentratedFactor
	}
	return &Analyzer{cfg: cfg, logger: logger}
}

// Analyze summarizes the given events over the trailing window. The window
// is anchored at the newest event timestamp so that the same event log
// always produces the same report; events older than the window are
// excluded. A non-positive window keeps every event.
func (a *Analyzer) Analyze(events []model.TrackingEvent, window time.Duration) model.TimelineReport {
	events = trimToWindow(events, window)

	var report model.TimelineReport
	if len(events) == 0 {
		return report
	}

	days := make(map[string]int)
	for _, ev := range events {
		t := ev.Time()
		days[t.Format(dayKeyLayout)]++
		report.HourlyPatterns[t.Hour()]++
	}

	report.TotalEvents = len(events)
	report.DailyAverage = float64(len(events)) / float64(max(1, len(days)))

	dayKeys := make([]string, 0, len(days))
	for day := range days {
		dayKeys = append(dayKeys, day)
	}
	sort.Strings(dayKeys)

	report.PeakDay = dayKeys[0]
	report.LowestDay = dayKeys[0]
	for _, day := range dayKeys[1:] {
		if days[day] > days[report.PeakDay] {
			report.PeakDay = day
		}
		if days[day] < days[report.LowestDay] {
			report.LowestDay = day
		}
	}

	for hour, count := range report.HourlyPatterns {
		if count > report.HourlyPatterns[report.BusiestHour] {
			report.BusiestHour = hour
		}
	}

	for _, day := range dayKeys {
		count := days[day]
		if float64(count) <= a.cfg.AnomalyFactor*report.DailyAverage {
			continue
		}
		anomaly := model.TimelineAnomaly{
			Timestamp:  dayStartMillis(day),
			Day:        day,
			EventCount: count,
			Description: fmt.Sprintf("%d tracking events on %s, more than double the daily average of %.1f",
				count, day, report.DailyAverage),
		}
		if float64(count) > a.cfg.ConcentratedFactor*report.DailyAverage {
			anomaly.Cause = concentratedSessionCause
		}
		report.Anomalies = append(report.Anomalies, anomaly)
	}

	if len(report.Anomalies) > 0 {
		a.logger.Debug("timeline anomalies detected",
			slog.Int("anomalies", len(report.Anomalies)),
			slog.Float64("daily_average", report.DailyAverage))
	}
	return report
}

// trimToWindow drops events older than the trailing window, anchored at the
// newest event in the set.
func trimToWindow(events []model.TrackingEvent, window time.Duration) []model.TrackingEvent {
	if window <= 0 || len(events) == 0 {
		return events
	}
	var newest int64
	for _, ev := range events {
		if ev.Timestamp > newest {
			newest = ev.Timestamp
		}
	}
	cutoff := newest - window.Milliseconds()
	kept := make([]model.TrackingEvent, 0, len(events))
	for _, ev := range events {
		if ev.Timestamp >= cutoff {
			kept = append(kept, ev)
		}
	}
	return kept
}

// dayStartMillis returns midnight UTC of the given day key in epoch
// milliseconds.
func dayStartMillis(day string) int64 {
	t, err := time.Parse(dayKeyLayout, day)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}
