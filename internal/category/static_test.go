package category

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestCategorizeBuiltin tests domain, keyword, and fallback resolution over
// the built-in dataset.
func TestCategorizeBuiltin(t *testing.T) {
	t.Parallel()

	provider := NewStaticProvider()

	testCases := []struct {
		name   string
		domain string
		wantID string
	}{
		{name: "exact domain match", domain: "nytimes.com", wantID: "news"},
		{name: "subdomain match", domain: "www.nytimes.com", wantID: "news"},
		{name: "domain beats keyword", domain: "reddit.com", wantID: "social"},
		{name: "keyword match", domain: "dailyherald.example.com", wantID: "news"},
		{name: "shopping keyword", domain: "bookstore.example.org", wantID: "shopping"},
		{name: "case insensitive", domain: "WIKIPEDIA.ORG", wantID: "reference"},
		{name: "trailing dot normalized", domain: "github.com.", wantID: "reference"},
		{name: "unknown host falls back", domain: "unrelated.example.net", wantID: FallbackCategoryID},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cat, err := provider.Categorize(tc.domain)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cat.ID != tc.wantID {
				t.Errorf("Categorize(%q) = %q, expected %q", tc.domain, cat.ID, tc.wantID)
			}
		})
	}
}

// TestBenchmarkBuiltin tests that every built-in category has a coherent
// benchmark.
func TestBenchmarkBuiltin(t *testing.T) {
	t.Parallel()

	provider := NewStaticProvider()
	for _, cat := range provider.Categories() {
		bench, err := provider.Benchmark(cat.ID)
		if err != nil {
			t.Fatalf("Benchmark(%q) failed: %v", cat.ID, err)
		}
		if bench.AverageScore != cat.AveragePrivacyScore {
			t.Errorf("%s: benchmark average %d, category average %d",
				cat.ID, bench.AverageScore, cat.AveragePrivacyScore)
		}
		var total float64
		for _, mass := range bench.Distribution {
			if mass < 0 {
				t.Fatalf("%s: negative distribution mass", cat.ID)
			}
			total += mass
		}
		if total == 0 {
			t.Errorf("%s: distribution holds no mass", cat.ID)
		}
		// The distribution peaks at the category average.
		peak := 0
		for s, mass := range bench.Distribution {
			if mass > bench.Distribution[peak] {
				peak = s
			}
		}
		if peak != cat.AveragePrivacyScore {
			t.Errorf("%s: distribution peaks at %d, expected %d", cat.ID, peak, cat.AveragePrivacyScore)
		}
	}
}

// TestBenchmarkUnknownCategory tests the sentinel for an unknown ID.
func TestBenchmarkUnknownCategory(t *testing.T) {
	t.Parallel()

	provider := NewStaticProvider()
	if _, err := provider.Benchmark("no-such-category"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

// TestLoadStaticProvider tests loading a YAML dataset override.
func TestLoadStaticProvider(t *testing.T) {
	t.Parallel()

	t.Run("valid dataset", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "categories.yaml")
		content := `categories:
  - id: gaming
    name: Gaming
    riskProfile: high
    averageScore: 45
    averageTrackers: 12
    spread: 11
    domains:
      - store.steampowered.com
    keywords:
      - game
  - id: other
    name: Other
    riskProfile: medium
    averageScore: 60
    averageTrackers: 10
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write dataset: %v", err)
		}

		provider, err := LoadStaticProvider(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cat, err := provider.Categorize("store.steampowered.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cat.ID != "gaming" {
			t.Errorf("category = %q, expected gaming", cat.ID)
		}

		bench, err := provider.Benchmark("gaming")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if bench.AverageScore != 45 || bench.AverageTrackers != 12 {
			t.Errorf("benchmark = %+v", bench)
		}
	})

	t.Run("missing fallback category", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "categories.yaml")
		content := `categories:
  - id: gaming
    name: Gaming
    riskProfile: high
    averageScore: 45
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write dataset: %v", err)
		}
		if _, err := LoadStaticProvider(path); err == nil {
			t.Error("expected an error for a dataset without the fallback category")
		}
	})

	t.Run("empty dataset", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "categories.yaml")
		if err := os.WriteFile(path, []byte("categories: []\n"), 0600); err != nil {
			t.Fatalf("failed to write dataset: %v", err)
		}
		if _, err := LoadStaticProvider(path); err == nil {
			t.Error("expected an error for an empty dataset")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		if _, err := LoadStaticProvider(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected an error for a missing file")
		}
	})
}
