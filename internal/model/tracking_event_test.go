package model

import (
	"testing"
	"time"
)

// TestTrackingEventPageHost tests hostname extraction from the page URL.
func TestTrackingEventPageHost(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		url      string
		expected string
		ok       bool
	}{
		{"https url", "https://news.example.com/politics", "news.example.com", true},
		{"http url", "http://shop.example.org", "shop.example.org", true},
		{"url with port", "https://example.com:8443/page", "example.com", true},
		{"relative url", "/just/a/path", "", false},
		{"empty url", "", "", false},
		{"garbage", "http://%zz", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ev := TrackingEvent{URL: tc.url}
			host, ok := ev.PageHost()
			if ok != tc.ok {
				t.Fatalf("PageHost() ok = %v, expected %v", ok, tc.ok)
			}
			if host != tc.expected {
				t.Errorf("PageHost() = %q, expected %q", host, tc.expected)
			}
		})
	}
}

// TestTrackingEventPageIsHTTPS tests the transport scheme check.
func TestTrackingEventPageIsHTTPS(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		url      string
		expected bool
	}{
		{"https", "https://example.com/page", true},
		{"http", "http://example.com/page", false},
		{"no scheme", "example.com/page", false},
		{"empty", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ev := TrackingEvent{URL: tc.url}
			if ev.PageIsHTTPS() != tc.expected {
				t.Errorf("PageIsHTTPS() = %v, expected %v", ev.PageIsHTTPS(), tc.expected)
			}
		})
	}
}

// TestTrackingEventTime tests epoch millisecond conversion to UTC.
func TestTrackingEventTime(t *testing.T) {
	t.Parallel()

	ev := TrackingEvent{Timestamp: 1700000000000}
	got := ev.Time()

	if got.Location() != time.UTC {
		t.Errorf("Time() location = %v, expected UTC", got.Location())
	}
	if got.UnixMilli() != 1700000000000 {
		t.Errorf("Time().UnixMilli() = %d, expected 1700000000000", got.UnixMilli())
	}
}
