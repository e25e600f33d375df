package scoring

import (
	"reflect"
	"testing"

	"github.com/trackinsight/trackinsight/internal/model"
)

// TestCompanyKey tests company extraction from tracker domains.
func TestCompanyKey(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		domain   string
		expected string
	}{
		{"www.adnet.com", "adnet"},
		{"analytics.bigcorp.com", "bigcorp"},
		{"tracking.bigcorp.com", "bigcorp"},
		{"ads.bigcorp.com", "bigcorp"},
		{"pixel.adnet.com", "adnet"},
		{"adnet.com", "adnet"},
		{"tracker.example.co.uk", "example"},
		{"Example.COM", "example"},
		{"example.com.", "example"},
		{"localhost", "localhost"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.domain, func(t *testing.T) {
			t.Parallel()
			if got := CompanyKey(tc.domain); got != tc.expected {
				t.Errorf("CompanyKey(%q) = %q, expected %q", tc.domain, got, tc.expected)
			}
		})
	}
}

// TestDistinctCompanies tests deduplication and ordering of company keys.
func TestDistinctCompanies(t *testing.T) {
	t.Parallel()

	events := []model.TrackingEvent{
		{Domain: "www.adnet.com"},
		{Domain: "pixel.adnet.com"},
		{Domain: "analytics.bigcorp.com"},
		{Domain: "metrics.net"},
		{Domain: ""},
	}

	got := DistinctCompanies(events)
	want := []string{"adnet", "bigcorp", "metrics"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DistinctCompanies() = %v, expected %v", got, want)
	}
}
