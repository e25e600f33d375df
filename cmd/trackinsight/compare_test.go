package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/trackinsight/trackinsight/internal/compare"
	"github.com/trackinsight/trackinsight/internal/coordinator"
	"github.com/trackinsight/trackinsight/internal/model"
)

// TestNewCompareCmd tests the compare command creation.
func TestNewCompareCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCompareCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "compare [domain]" {
			t.Errorf("unexpected use: %q", cmd.Use)
		}
	})

	t.Run("has baseline flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("baseline")
		if flag == nil {
			t.Fatal("expected baseline flag")
		}
		if flag.DefValue != baselineAll {
			t.Errorf("expected default %q, got %q", baselineAll, flag.DefValue)
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("json") == nil {
			t.Error("expected json flag")
		}
	})
}

// TestOutputComparisonText tests the readable comparison rendering.
func TestOutputComparisonText(t *testing.T) {
	t.Parallel()

	site := compare.Site{Domain: "news.example.com", Score: 72, TrackerCount: 6}
	results := []model.ComparisonResult{
		{
			Kind:       model.BaselineCategory,
			Percentile: 80,
			Baseline:   model.BaselineSnapshot{Category: "News & Media", Score: 42, TrackerCount: 24},
			Insight:    "Excellent: this site respects your privacy better than 80% of News & Media sites.",
			ImprovementSuggestions: []string{
				"Keep your current protections enabled.",
			},
		},
		{
			Kind:       model.BaselinePeers,
			Percentile: 66,
			Rank:       1,
			PeerCount:  3,
			Baseline:   model.BaselineSnapshot{Category: "News & Media", Score: 55, TrackerCount: 10},
			Insight:    "Ranked 1 of 3: among the most private News & Media sites you visit.",
		},
	}
	insufficient := []model.BaselineKind{model.BaselineHistory}

	cmd := NewCompareCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	outputComparisonText(cmd, site, results, insufficient)

	out := buf.String()
	for _, want := range []string{
		"news.example.com (score 72, 6 trackers)",
		"[category]",
		"Percentile: 80",
		"[peer-sites]",
		"Rank:       1 of 3",
		"[personal-history]",
		"Insufficient data",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

// TestCompareHTTPSRule tests that the compare command uses the shared
// transport-security rule, including its fallback for unparsable URLs.
func TestCompareHTTPSRule(t *testing.T) {
	t.Parallel()

	https := model.TrackingEvent{URL: "https://news.example.com/"}
	http := model.TrackingEvent{URL: "http://news.example.com/"}
	broken := model.TrackingEvent{URL: ":not-a-url"}

	if coordinator.SiteIsHTTPS(nil, false) {
		t.Error("empty event set should defer to the fallback")
	}
	if !coordinator.SiteIsHTTPS([]model.TrackingEvent{https}, false) {
		t.Error("all-HTTPS events should count as HTTPS")
	}
	if coordinator.SiteIsHTTPS([]model.TrackingEvent{https, http}, false) {
		t.Error("a plain-HTTP event should break the HTTPS rule")
	}
	if !coordinator.SiteIsHTTPS([]model.TrackingEvent{broken}, true) {
		t.Error("unparsable URLs should defer to the fallback")
	}
}
