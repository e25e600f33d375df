package model

// BaselineKind identifies the population a comparison was made against.
type BaselineKind string

const (
	// BaselineCategory compares against the site category's benchmark
	// score distribution.
	BaselineCategory BaselineKind = "category"

	// BaselineHistory compares against the caller's own browsing history.
	BaselineHistory BaselineKind = "personal-history"

	// BaselinePeers compares against other visited sites in the same
	// category.
	BaselinePeers BaselineKind = "peer-sites"
)

// SiteSnapshot captures the compared site's standing at comparison time.
type SiteSnapshot struct {
	// Domain is the site hostname.
	Domain string `json:"domain"`

	// Score is the site's privacy score.
	Score int `json:"score"`

	// TrackerCount is the number of tracking events observed on the site.
	TrackerCount int `json:"tracker_count"`

	// Category is the resolved category name.
	Category string `json:"category"`
}

// BaselineSnapshot captures the comparison population's reference values.
type BaselineSnapshot struct {
	// Score is the baseline average score.
	Score int `json:"score"`

	// TrackerCount is the baseline average tracker count.
	TrackerCount int `json:"tracker_count"`

	// Category names the population, e.g. the category name or
	// "your browsing history".
	Category string `json:"category"`
}

// ComparisonResult is the shared shape of all three comparison flavors.
// Percentile is always within [0,100].
type ComparisonResult struct {
	// Kind identifies the baseline flavor.
	Kind BaselineKind `json:"kind"`

	// CurrentSite is the compared site's standing.
	CurrentSite SiteSnapshot `json:"current_site"`

	// Baseline is the population's reference values.
	Baseline BaselineSnapshot `json:"baseline"`

	// Percentile ranks the site's score within the baseline population.
	Percentile int `json:"percentile"`

	// Rank is the site's 1-based rank among peers, set only for the
	// peer-sites flavor.
	Rank int `json:"rank,omitempty"`

	// PeerCount is the population size including the site itself, set
	// only for the peer-sites flavor.
	PeerCount int `json:"peer_count,omitempty"`

	// Insight is a one-sentence interpretation of the percentile.
	Insight string `json:"insight"`

	// BetterThanBaseline is true when the site's score meets or exceeds
	// the baseline score.
	BetterThanBaseline bool `json:"better_than_baseline"`

	// ImprovementSuggestions list concrete next steps, strongest wording
	// first for high-risk categories.
	ImprovementSuggestions []string `json:"improvement_suggestions,omitempty"`
}
