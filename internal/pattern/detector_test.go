package pattern

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/trackinsight/trackinsight/internal/model"
)

// newTestDetector creates a detector with default thresholds and a silent
// logger.
func newTestDetector() *Detector {
	return NewDetector(DefaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// adEvent builds an advertising event for the given tracker domain on the
// given page hostname.
func adEvent(id, trackerDomain, pageHost string) model.TrackingEvent {
	return model.TrackingEvent{
		ID:          id,
		Timestamp:   1700000000000,
		URL:         "https://" + pageHost + "/page",
		Domain:      trackerDomain,
		TrackerType: model.TrackerAdvertising,
		RiskLevel:   model.RiskMedium,
	}
}

// fpEvent builds a fingerprinting event on the given page hostname.
func fpEvent(id, pageHost string) model.TrackingEvent {
	return model.TrackingEvent{
		ID:          id,
		Timestamp:   1700000000000,
		URL:         "https://" + pageHost + "/page",
		Domain:      "fp.example.net",
		TrackerType: model.TrackerFingerprinting,
		RiskLevel:   model.RiskHigh,
	}
}

// spanningEvents builds events for one tracker spanning n distinct hosts.
func spanningEvents(trackerDomain string, n int) []model.TrackingEvent {
	events := make([]model.TrackingEvent, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, adEvent(
			fmt.Sprintf("%s-%d", trackerDomain, i),
			trackerDomain,
			fmt.Sprintf("site%d.example", i),
		))
	}
	return events
}

// TestDetectCrossSiteThreshold tests that the cross-site pattern appears
// iff a tracker spans at least three distinct hostnames.
func TestDetectCrossSiteThreshold(t *testing.T) {
	t.Parallel()

	detector := newTestDetector()

	t.Run("three hosts qualifies", func(t *testing.T) {
		t.Parallel()
		patterns := detector.Detect(spanningEvents("adnet.com", 3))
		if len(patterns) != 1 {
			t.Fatalf("expected 1 pattern, got %d", len(patterns))
		}
		p := patterns[0]
		if p.Type != model.PatternCrossSite {
			t.Errorf("type = %v, expected cross-site", p.Type)
		}
		if p.RiskLevel != model.RiskHigh {
			t.Errorf("risk = %v, expected high", p.RiskLevel)
		}
		if len(p.Domains) != 1 || p.Domains[0] != "adnet.com" {
			t.Errorf("domains = %v, expected [adnet.com]", p.Domains)
		}
		if len(p.Events) != 3 {
			t.Errorf("events = %d, expected 3", len(p.Events))
		}
		if p.ID == "" {
			t.Error("expected a generated pattern ID")
		}
	})

	t.Run("two hosts does not qualify", func(t *testing.T) {
		t.Parallel()
		patterns := detector.Detect(spanningEvents("adnet.com", 2))
		if len(patterns) != 0 {
			t.Fatalf("expected no patterns, got %d", len(patterns))
		}
	})

	t.Run("social trackers are ignored", func(t *testing.T) {
		t.Parallel()
		events := spanningEvents("social.example", 4)
		for i := range events {
			events[i].TrackerType = model.TrackerSocial
		}
		if patterns := detector.Detect(events); len(patterns) != 0 {
			t.Fatalf("expected no patterns for social trackers, got %d", len(patterns))
		}
	})
}

// TestDetectCrossSiteCriticalEscalation tests that five or more qualifying
// tracker domains escalate the pattern to critical.
func TestDetectCrossSiteCriticalEscalation(t *testing.T) {
	t.Parallel()

	detector := newTestDetector()

	var events []model.TrackingEvent
	for i := 0; i < 5; i++ {
		events = append(events, spanningEvents(fmt.Sprintf("tracker%d.example", i), 3)...)
	}

	patterns := detector.Detect(events)
	if len(patterns) != 1 {
		t.Fatalf("expected 1 combined pattern, got %d", len(patterns))
	}
	p := patterns[0]
	if p.RiskLevel != model.RiskCritical {
		t.Errorf("risk = %v, expected critical with 5 qualifying domains", p.RiskLevel)
	}
	if len(p.Domains) != 5 {
		t.Errorf("domains = %d, expected 5", len(p.Domains))
	}
}

// TestDetectCrossSiteSkipsMalformedURLs tests that events with unparsable
// page URLs are excluded from hostname grouping.
func TestDetectCrossSiteSkipsMalformedURLs(t *testing.T) {
	t.Parallel()

	detector := newTestDetector()

	events := spanningEvents("adnet.com", 2)
	events = append(events, model.TrackingEvent{
		ID:          "bad",
		URL:         "not a url",
		Domain:      "adnet.com",
		TrackerType: model.TrackerAdvertising,
		RiskLevel:   model.RiskMedium,
	})

	// The malformed event cannot supply a third hostname.
	if patterns := detector.Detect(events); len(patterns) != 0 {
		t.Fatalf("expected no patterns, got %d", len(patterns))
	}
}

// TestDetectFingerprinting tests the fingerprinting sub-detector thresholds.
func TestDetectFingerprinting(t *testing.T) {
	t.Parallel()

	detector := newTestDetector()

	t.Run("two events on one site", func(t *testing.T) {
		t.Parallel()
		events := []model.TrackingEvent{
			fpEvent("f1", "shop.example.org"),
			fpEvent("f2", "shop.example.org"),
		}
		patterns := detector.Detect(events)
		if len(patterns) != 1 {
			t.Fatalf("expected 1 pattern, got %d", len(patterns))
		}
		p := patterns[0]
		if p.Type != model.PatternFingerprinting {
			t.Errorf("type = %v, expected fingerprinting", p.Type)
		}
		if p.RiskLevel != model.RiskHigh {
			t.Errorf("risk = %v, expected high", p.RiskLevel)
		}
		if len(p.Domains) != 1 || p.Domains[0] != "shop.example.org" {
			t.Errorf("domains = %v, expected [shop.example.org]", p.Domains)
		}
	})

	t.Run("single event yields nothing", func(t *testing.T) {
		t.Parallel()
		patterns := detector.Detect([]model.TrackingEvent{fpEvent("f1", "shop.example.org")})
		if len(patterns) != 0 {
			t.Fatalf("expected no patterns, got %d", len(patterns))
		}
	})

	t.Run("two events spread over two sites yields nothing", func(t *testing.T) {
		t.Parallel()
		events := []model.TrackingEvent{
			fpEvent("f1", "shop.example.org"),
			fpEvent("f2", "news.example.com"),
		}
		if patterns := detector.Detect(events); len(patterns) != 0 {
			t.Fatalf("expected no patterns without site concentration, got %d", len(patterns))
		}
	})
}

// TestDetectSeverityOrdering tests that a critical cross-site pattern sorts
// before a high fingerprinting pattern.
func TestDetectSeverityOrdering(t *testing.T) {
	t.Parallel()

	detector := newTestDetector()

	var events []model.TrackingEvent
	for i := 0; i < 5; i++ {
		events = append(events, spanningEvents(fmt.Sprintf("tracker%d.example", i), 3)...)
	}
	events = append(events,
		fpEvent("f1", "shop.example.org"),
		fpEvent("f2", "shop.example.org"),
	)

	patterns := detector.Detect(events)
	if len(patterns) != 2 {
		t.Fatalf("expected 2 patterns, got %d", len(patterns))
	}
	if patterns[0].Type != model.PatternCrossSite || patterns[0].RiskLevel != model.RiskCritical {
		t.Errorf("first pattern = %v/%v, expected critical cross-site first", patterns[0].Type, patterns[0].RiskLevel)
	}
	if patterns[1].Type != model.PatternFingerprinting {
		t.Errorf("second pattern = %v, expected fingerprinting", patterns[1].Type)
	}
}
