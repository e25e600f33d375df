package category

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FallbackCategoryID is the category assigned to hostnames no rule matches.
const FallbackCategoryID = "other"

// datasetEntry is one category definition in the dataset (built-in or YAML).
type datasetEntry struct {
	// ID, Name, RiskProfile, AverageScore as in Category.
	Category `yaml:",inline"`

	// AverageTrackers is the category's average tracker count per site.
	AverageTrackers int `yaml:"averageTrackers"`

	// Spread is the standard deviation used to synthesize the score
	// distribution around AverageScore.
	Spread float64 `yaml:"spread"`

	// Domains are exact-or-suffix hostname matches ("shop.example" matches
	// itself and any subdomain).
	Domains []string `yaml:"domains,omitempty"`

	// Keywords are substring matches against the hostname, applied after
	// domain rules.
	Keywords []string `yaml:"keywords,omitempty"`
}

// datasetFile is the YAML override file structure.
type datasetFile struct {
	Categories []datasetEntry `yaml:"categories"`
}

// StaticProvider serves categories and benchmarks from an in-memory dataset.
// It is immutable after construction and safe for concurrent use.
type StaticProvider struct {
	entries    map[string]datasetEntry
	benchmarks map[string]Benchmark
	order      []string
}

// NewStaticProvider creates a provider over the built-in dataset.
func NewStaticProvider() *StaticProvider {
	return newStaticProvider(builtinDataset())
}

// LoadStaticProvider creates a provider from a YAML dataset file.
// The file fully replaces the built-in dataset; it must define an "other"
// fallback category.
func LoadStaticProvider(path string) (*StaticProvider, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided dataset path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read category data: %w", err)
	}

	var df datasetFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("failed to parse category data: %w", err)
	}
	if len(df.Categories) == 0 {
		return nil, fmt.Errorf("category data %s defines no categories", path)
	}

	p := newStaticProvider(df.Categories)
	if _, ok := p.entries[FallbackCategoryID]; !ok {
		return nil, fmt.Errorf("category data %s lacks the %q fallback category", path, FallbackCategoryID)
	}
	return p, nil
}

// newStaticProvider indexes the dataset and precomputes benchmarks.
func newStaticProvider(entries []datasetEntry) *StaticProvider {
	p := &StaticProvider{
		entries:    make(map[string]datasetEntry, len(entries)),
		benchmarks: make(map[string]Benchmark, len(entries)),
	}
	for _, e := range entries {
		p.entries[e.ID] = e
		p.benchmarks[e.ID] = synthesizeBenchmark(e)
		p.order = append(p.order, e.ID)
	}
	sort.Strings(p.order)
	return p
}

// Categorize resolves a hostname to its category. Matching order: exact or
// suffix domain rules first, then keyword substrings, then the fallback.
func (p *StaticProvider) Categorize(domain string) (Category, error) {
	host := strings.ToLower(strings.TrimSuffix(domain, "."))

	for _, id := range p.order {
		e := p.entries[id]
		for _, d := range e.Domains {
			if host == d || strings.HasSuffix(host, "."+d) {
				return e.Category, nil
			}
		}
	}
	for _, id := range p.order {
		e := p.entries[id]
		for _, kw := range e.Keywords {
			if strings.Contains(host, kw) {
				return e.Category, nil
			}
		}
	}

	return p.entries[FallbackCategoryID].Category, nil
}

// Benchmark returns the precomputed benchmark for a category ID.
func (p *StaticProvider) Benchmark(categoryID string) (Benchmark, error) {
	b, ok := p.benchmarks[categoryID]
	if !ok {
		return Benchmark{}, fmt.Errorf("%w: %s", ErrUnknownCategory, categoryID)
	}
	return b, nil
}

// Categories returns all category definitions, ordered by ID.
func (p *StaticProvider) Categories() []Category {
	out := make([]Category, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.entries[id].Category)
	}
	return out
}

// synthesizeBenchmark builds a benchmark whose distribution is a discrete
// gaussian around the category's average score. Static data files carry a
// mean and spread instead of 101 hand-maintained buckets; a live provider
// would serve measured distributions instead.
func synthesizeBenchmark(e datasetEntry) Benchmark {
	spread := e.Spread
	if spread <= 0 {
		spread = 12
	}

	var dist [DistributionBuckets]float64
	mean := float64(e.AveragePrivacyScore)
	for s := 0; s < DistributionBuckets; s++ {
		z := (float64(s) - mean) / spread
		dist[s] = math.Exp(-0.5 * z * z)
	}

	return Benchmark{
		AverageScore:    e.AveragePrivacyScore,
		AverageTrackers: e.AverageTrackers,
		Distribution:    dist,
	}
}
