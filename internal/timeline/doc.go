// Package timeline summarizes tracking activity over time and flags
// anomalous days.
//
// All calendar bucketing uses UTC so that a report generated on one machine
// matches the report generated anywhere else for the same event log.
package timeline
