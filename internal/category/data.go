package category

import "github.com/trackinsight/trackinsight/internal/model"

// builtinDataset returns the bundled category definitions.
// Averages and spreads reflect published tracker-census figures: news and
// shopping sites carry far more third-party trackers than reference or
// government sites, and adult sites sit in between but lean on
// fingerprinting-heavy trackers, hence the critical risk profile.
func builtinDataset() []datasetEntry {
	return []datasetEntry{
		{
			Category: Category{
				ID:                  "news",
				Name:                "News & Media",
				RiskProfile:         model.RiskHigh,
				AveragePrivacyScore: 42,
			},
			AverageTrackers: 24,
			Spread:          14,
			Domains:         []string{"cnn.com", "bbc.co.uk", "nytimes.com", "theguardian.com", "reuters.com"},
			Keywords:        []string{"news", "times", "daily", "herald", "tribune", "post"},
		},
		{
			Category: Category{
				ID:                  "shopping",
				Name:                "Shopping & E-commerce",
				RiskProfile:         model.RiskHigh,
				AveragePrivacyScore: 48,
			},
			AverageTrackers: 18,
			Spread:          13,
			Domains:         []string{"amazon.com", "ebay.com", "etsy.com", "walmart.com", "aliexpress.com"},
			Keywords:        []string{"shop", "store", "buy", "cart", "deal", "market"},
		},
		{
			Category: Category{
				ID:                  "social",
				Name:                "Social Networks",
				RiskProfile:         model.RiskCritical,
				AveragePrivacyScore: 35,
			},
			AverageTrackers: 22,
			Spread:          12,
			Domains:         []string{"facebook.com", "instagram.com", "twitter.com", "x.com", "tiktok.com", "reddit.com", "linkedin.com"},
			Keywords:        []string{"social", "chat", "forum", "community"},
		},
		{
			Category: Category{
				ID:                  "finance",
				Name:                "Banking & Finance",
				RiskProfile:         model.RiskMedium,
				AveragePrivacyScore: 68,
			},
			AverageTrackers: 8,
			Spread:          10,
			Domains:         []string{"chase.com", "paypal.com", "wise.com", "fidelity.com"},
			Keywords:        []string{"bank", "finance", "invest", "insurance", "credit"},
		},
		{
			Category: Category{
				ID:                  "search",
				Name:                "Search Engines",
				RiskProfile:         model.RiskHigh,
				AveragePrivacyScore: 55,
			},
			AverageTrackers: 6,
			Spread:          18,
			Domains:         []string{"google.com", "bing.com", "duckduckgo.com", "startpage.com"},
			Keywords:        []string{"search"},
		},
		{
			Category: Category{
				ID:                  "reference",
				Name:                "Reference & Education",
				RiskProfile:         model.RiskLow,
				AveragePrivacyScore: 78,
			},
			AverageTrackers: 4,
			Spread:          10,
			Domains:         []string{"wikipedia.org", "archive.org", "stackoverflow.com", "github.com"},
			Keywords:        []string{"wiki", "docs", "library", "university", "edu"},
		},
		{
			Category: Category{
				ID:                  "adult",
				Name:                "Adult Content",
				RiskProfile:         model.RiskCritical,
				AveragePrivacyScore: 38,
			},
			AverageTrackers: 16,
			Spread:          14,
		},
		{
			Category: Category{
				ID:                  FallbackCategoryID,
				Name:                "Other",
				RiskProfile:         model.RiskMedium,
				AveragePrivacyScore: 60,
			},
			AverageTrackers: 10,
			Spread:          16,
		},
	}
}
