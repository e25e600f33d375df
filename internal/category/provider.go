package category

import (
	"errors"

	"github.com/trackinsight/trackinsight/internal/model"
)

// DistributionBuckets is the size of a benchmark score distribution:
// one bucket per integer score in [0,100].
const DistributionBuckets = 101

// ErrUnknownCategory is returned when no benchmark exists for a category ID.
var ErrUnknownCategory = errors.New("unknown category")

// Category describes a website category and its declared risk profile.
type Category struct {
	// ID is the stable category identifier (e.g. "shopping").
	ID string `json:"id" yaml:"id"`

	// Name is the display name (e.g. "Shopping & E-commerce").
	Name string `json:"name" yaml:"name"`

	// RiskProfile is the category's declared tracking-risk level; critical
	// and high categories get stronger improvement-suggestion wording.
	RiskProfile model.RiskLevel `json:"risk_profile" yaml:"riskProfile"`

	// AveragePrivacyScore is the category-wide average score.
	AveragePrivacyScore int `json:"average_privacy_score" yaml:"averageScore"`
}

// Benchmark holds the reference values a site is compared against.
type Benchmark struct {
	// AverageScore is the category's average privacy score.
	AverageScore int `json:"average_score"`

	// AverageTrackers is the category's average tracker count per site.
	AverageTrackers int `json:"average_trackers"`

	// Distribution is the category's score histogram: Distribution[s] is
	// the relative mass of sites scoring exactly s. Percentile is computed
	// as cumulative mass at or below a score over total mass.
	Distribution [DistributionBuckets]float64 `json:"distribution"`
}

// Provider maps hostnames to categories and categories to benchmarks.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Categorize resolves a site hostname to its category.
	// Unknown hostnames resolve to a fallback category, not an error;
	// errors are reserved for provider failures (I/O, remote service).
	Categorize(domain string) (Category, error)

	// Benchmark returns the reference values for a category ID.
	// Returns ErrUnknownCategory when the ID is not known.
	Benchmark(categoryID string) (Benchmark, error)
}
