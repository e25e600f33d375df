package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/trackinsight/trackinsight/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
// Plain ASCII formatting works in every terminal and pipes cleanly to
// files and other tools.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no content are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with per-event detail.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.AnalysisReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeScore(&sb, report)
	w.writePatterns(&sb, report)
	w.writeTimeline(&sb, report)
	w.writeComparisons(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.AnalysisReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      TRACKINSIGHT PRIVACY REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Site:         %s\n", report.Domain))
	sb.WriteString(fmt.Sprintf("Generated:    %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Events:       %d\n", report.EventCount))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeScore(sb *strings.Builder, report *model.AnalysisReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("PRIVACY SCORE\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	score := report.Score
	sb.WriteString(fmt.Sprintf("  SCORE:    %d / 100  (grade %s)\n\n", score.Score, score.Grade))

	sb.WriteString(fmt.Sprintf("  CRITICAL: %d\n", score.Breakdown.CriticalCount))
	sb.WriteString(fmt.Sprintf("  HIGH:     %d\n", score.Breakdown.HighCount))
	sb.WriteString(fmt.Sprintf("  MEDIUM:   %d\n", score.Breakdown.MediumCount))
	sb.WriteString(fmt.Sprintf("  LOW:      %d\n", score.Breakdown.LowCount))
	sb.WriteString("\n")

	var flags []string
	if score.Breakdown.HTTPSBonus {
		flags = append(flags, "https bonus")
	}
	if score.Breakdown.ExcessiveTrackingPenalty {
		flags = append(flags, "excessive tracking")
	}
	if score.Breakdown.CrossSitePenalty {
		flags = append(flags, "cross-site tracking")
	}
	if score.Breakdown.PersistentTrackingPenalty {
		flags = append(flags, "persistent tracking")
	}
	if len(flags) > 0 {
		sb.WriteString(fmt.Sprintf("  FLAGS:    %s\n\n", strings.Join(flags, ", ")))
	}

	for _, rec := range score.Recommendations {
		sb.WriteString(fmt.Sprintf("  * %s\n", rec))
	}
	if len(score.Recommendations) > 0 {
		sb.WriteString("\n")
	}
}

func (w *SimpleWriter) writePatterns(sb *strings.Builder, report *model.AnalysisReport) {
	if len(report.Patterns) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("TRACKING PATTERNS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Patterns) == 0 {
		sb.WriteString("  No tracking patterns detected\n\n")
		return
	}

	for _, p := range report.Patterns {
		indicator := riskIndicator(p.RiskLevel)
		sb.WriteString(fmt.Sprintf("[%s] %s (%s risk)\n", indicator, p.Type, p.RiskLevel))
		sb.WriteString(fmt.Sprintf("  %s\n", p.Description))
		sb.WriteString(fmt.Sprintf("  Domains: %s\n", strings.Join(p.Domains, ", ")))
		if w.verbose {
			for _, ev := range p.Events {
				sb.WriteString(fmt.Sprintf("    - %s (%s) at %s\n",
					ev.Domain, ev.TrackerType, ev.Time().Format("2006-01-02 15:04")))
			}
		}
		sb.WriteString("\n")
	}
}

func (w *SimpleWriter) writeTimeline(sb *strings.Builder, report *model.AnalysisReport) {
	tl := report.Timeline
	if tl.TotalEvents == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("TIMELINE\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Daily average: %.1f events\n", tl.DailyAverage))
	if tl.PeakDay != "" {
		sb.WriteString(fmt.Sprintf("  Peak day:      %s\n", tl.PeakDay))
	}
	sb.WriteString(fmt.Sprintf("  Busiest hour:  %02d:00 UTC\n", tl.BusiestHour))
	sb.WriteString("\n")

	for _, a := range tl.Anomalies {
		sb.WriteString(fmt.Sprintf("  [!] %s\n", a.Description))
		if a.Cause != "" {
			sb.WriteString(fmt.Sprintf("      Cause: %s\n", a.Cause))
		}
	}
	if len(tl.Anomalies) > 0 {
		sb.WriteString("\n")
	}
}

func (w *SimpleWriter) writeComparisons(sb *strings.Builder, report *model.AnalysisReport) {
	if len(report.Comparisons) == 0 && len(report.InsufficientBaselines) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("COMPARISONS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, c := range report.Comparisons {
		sb.WriteString(fmt.Sprintf("  [%s] percentile %d\n", c.Kind, c.Percentile))
		sb.WriteString(fmt.Sprintf("    %s\n", c.Insight))
		for _, s := range c.ImprovementSuggestions {
			sb.WriteString(fmt.Sprintf("    * %s\n", s))
		}
	}
	for _, kind := range report.InsufficientBaselines {
		sb.WriteString(fmt.Sprintf("  [%s] insufficient data\n", kind))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by TrackInsight\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// riskIndicator returns a visual indicator for a risk level.
func riskIndicator(level model.RiskLevel) string {
	switch level {
	case model.RiskCritical:
		return "!!!"
	case model.RiskHigh:
		return "!!"
	case model.RiskMedium:
		return "!"
	case model.RiskLow:
		return "-"
	default:
		return "?"
	}
}
