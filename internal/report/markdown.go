package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/trackinsight/trackinsight/internal/model"
)

// MarkdownWriter outputs reports in Markdown format, for documentation and
// sharing. It uses GitHub-flavored alerts and mermaid charts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AnalysisReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeScore(md, report)
	w.writePatterns(md, report)
	w.writeTimeline(md, report)
	w.writeComparisons(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H1("TrackInsight Privacy Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", "`" + report.Domain + "`"},
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Events Analyzed", strconv.Itoa(report.EventCount)},
			{"Privacy Score", fmt.Sprintf("**%d / 100** (grade %s)", report.Score.Score, report.Score.Grade)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeScore(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Score Breakdown")
	md.PlainText("")

	b := report.Score.Breakdown
	md.Table(markdown.TableSet{
		Header: []string{"Risk Level", "Events"},
		Rows: [][]string{
			{"🔴 Critical", strconv.Itoa(b.CriticalCount)},
			{"🟠 High", strconv.Itoa(b.HighCount)},
			{"🟡 Medium", strconv.Itoa(b.MediumCount)},
			{"🔵 Low", strconv.Itoa(b.LowCount)},
		},
	})
	md.PlainText("")

	if report.EventCount > 0 {
		w.writePieChart(md, b)
	}

	w.writeGradeAlert(md, report)

	if len(report.Score.Recommendations) > 0 {
		md.H3("Recommendations")
		md.PlainText("")
		md.BulletList(report.Score.Recommendations...)
		md.PlainText("")
	}
}

// writePieChart writes a mermaid pie chart of the risk distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, b model.ScoreBreakdown) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Tracking Events by Risk Level"),
		piechart.WithShowData(true),
	)

	if b.CriticalCount > 0 {
		chart.LabelAndIntValue("Critical", uint64(b.CriticalCount))
	}
	if b.HighCount > 0 {
		chart.LabelAndIntValue("High", uint64(b.HighCount))
	}
	if b.MediumCount > 0 {
		chart.LabelAndIntValue("Medium", uint64(b.MediumCount))
	}
	if b.LowCount > 0 {
		chart.LabelAndIntValue("Low", uint64(b.LowCount))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeGradeAlert writes an alert matched to the privacy grade.
func (w *MarkdownWriter) writeGradeAlert(md *markdown.Markdown, report *model.AnalysisReport) {
	switch report.Score.Grade {
	case model.GradeF:
		md.Cautionf("Grade F: this site scored %d/100. Heavy tracking detected.", report.Score.Score)
	case model.GradeD:
		md.Warningf("Grade D: this site scored %d/100. Significant tracking detected.", report.Score.Score)
	case model.GradeC:
		md.Importantf("Grade C: this site scored %d/100. Moderate tracking detected.", report.Score.Score)
	case model.GradeB:
		md.Note("Grade B: light tracking detected.")
	default:
		md.Tip("Grade A: this site respects your privacy.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writePatterns(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Tracking Patterns")
	md.PlainText("")

	if len(report.Patterns) == 0 {
		md.PlainText("No tracking patterns detected.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Patterns))
	for i, p := range report.Patterns {
		rows[i] = []string{
			string(p.Type),
			string(p.RiskLevel),
			strconv.Itoa(len(p.Events)),
			truncateString(strings.Join(p.Domains, ", "), 60),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Pattern", "Risk", "Events", "Domains"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, p := range report.Patterns {
		if p.Description != "" {
			md.Details(string(p.Type), p.Description)
		}
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeTimeline(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Timeline")
	md.PlainText("")

	tl := report.Timeline
	if tl.TotalEvents == 0 {
		md.PlainText("No events in the analyzed window.")
		md.PlainText("")
		return
	}

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Events", strconv.Itoa(tl.TotalEvents)},
			{"Daily Average", fmt.Sprintf("%.1f", tl.DailyAverage)},
			{"Peak Day", tl.PeakDay},
			{"Busiest Hour", fmt.Sprintf("%02d:00 UTC", tl.BusiestHour)},
		},
	})
	md.PlainText("")

	for _, a := range tl.Anomalies {
		text := a.Description
		if a.Cause != "" {
			text += " (" + a.Cause + ")"
		}
		md.Warningf("%s", text)
	}
	if len(tl.Anomalies) > 0 {
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeComparisons(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Comparisons")
	md.PlainText("")

	if len(report.Comparisons) == 0 && len(report.InsufficientBaselines) == 0 {
		md.PlainText("No comparison baselines available.")
		md.PlainText("")
		return
	}

	for _, c := range report.Comparisons {
		md.H3(string(c.Kind))
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Metric", "Site", "Baseline"},
			Rows: [][]string{
				{"Score", strconv.Itoa(c.CurrentSite.Score), strconv.Itoa(c.Baseline.Score)},
				{"Trackers", strconv.Itoa(c.CurrentSite.TrackerCount), strconv.Itoa(c.Baseline.TrackerCount)},
				{"Percentile", strconv.Itoa(c.Percentile), "-"},
			},
		})
		md.PlainText("")
		md.PlainText(c.Insight)
		md.PlainText("")
		if len(c.ImprovementSuggestions) > 0 {
			md.BulletList(c.ImprovementSuggestions...)
			md.PlainText("")
		}
	}

	for _, kind := range report.InsufficientBaselines {
		md.Notef("The %s comparison was skipped: not enough browsing history yet.", kind)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by TrackInsight*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
