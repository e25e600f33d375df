package model

// HoursPerDay is the size of the hour-of-day histogram.
const HoursPerDay = 24

// TimelineAnomaly flags a calendar day whose tracking volume significantly
// exceeds the daily average across the analyzed window.
type TimelineAnomaly struct {
	// Timestamp is the start of the anomalous day (UTC) in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`

	// Day is the calendar-day key (YYYY-MM-DD, UTC).
	Day string `json:"day"`

	// Description summarizes the anomaly for display.
	Description string `json:"description"`

	// EventCount is the number of events on the anomalous day.
	EventCount int `json:"event_count"`

	// Cause is set only when the day exceeds three times the daily
	// average, describing the likely explanation.
	Cause string `json:"cause,omitempty"`
}

// TimelineReport summarizes tracking activity over a time window.
// Day bucketing uses UTC throughout so that reports are reproducible
// regardless of the machine's local time zone.
type TimelineReport struct {
	// TotalEvents is the number of events in the window.
	TotalEvents int `json:"total_events"`

	// DailyAverage is TotalEvents divided by the number of distinct days
	// that saw at least one event (minimum divisor 1).
	DailyAverage float64 `json:"daily_average"`

	// PeakDay is the calendar-day key with the most events.
	// Empty when the window has no events.
	PeakDay string `json:"peak_day,omitempty"`

	// LowestDay is the calendar-day key with the fewest events.
	// Empty when the window has no events.
	LowestDay string `json:"lowest_day,omitempty"`

	// HourlyPatterns counts events per hour of day (UTC) across the
	// whole window.
	HourlyPatterns [HoursPerDay]int `json:"hourly_patterns"`

	// BusiestHour is the hour of day (0-23, UTC) with the most events.
	BusiestHour int `json:"busiest_hour"`

	// Anomalies lists days whose event count exceeds twice the daily
	// average, in chronological order.
	Anomalies []TimelineAnomaly `json:"anomalies,omitempty"`
}
