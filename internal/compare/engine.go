package compare

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/trackinsight/trackinsight/internal/category"
	"github.com/trackinsight/trackinsight/internal/model"
	"github.com/trackinsight/trackinsight/internal/scoring"
)

const (
	// MinHistoryEvents is the minimum total historical events required for
	// a personal-history or peer-site comparison.
	MinHistoryEvents = 10

	// MinQualifyingSites is the minimum number of distinct sites, each
	// with MinEventsPerSite events, required for a history comparison.
	MinQualifyingSites = 3

	// MinEventsPerSite is the minimum events a site needs before its score
	// is considered stable enough to compare against.
	MinEventsPerSite = 3
)

// ErrInsufficientData is returned when the baseline population is too small
// to produce a meaningful percentile.
var ErrInsufficientData = errors.New("insufficient data for comparison")

// historyBaselineName labels the personal-history population in results.
const historyBaselineName = "your browsing history"

// SiteEvents groups historical tracking events by the hostname of the page
// they were observed on.
type SiteEvents map[string][]model.TrackingEvent

// Engine produces percentile-based comparisons for a site.
type Engine struct {
	provider category.Provider
	scorer   *scoring.Engine
	logger   *slog.Logger
}

// NewEngine creates a comparison engine. A nil logger falls back to
// slog.Default().
func NewEngine(provider category.Provider, scorer *scoring.Engine, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{provider: provider, scorer: scorer, logger: logger}
}

// Site is the subject of a comparison.
type Site struct {
	// Domain is the site hostname.
	Domain string

	// Score is the site's privacy score.
	Score int

	// TrackerCount is the number of tracking events observed on the site.
	TrackerCount int
}

// CompareToCategory ranks the site within its category's benchmark score
// distribution.
func (e *Engine) CompareToCategory(site Site) (model.ComparisonResult, error) {
	cat, err := e.provider.Categorize(site.Domain)
	if err != nil {
		return model.ComparisonResult{}, fmt.Errorf("categorize %s: %w", site.Domain, err)
	}
	bench, err := e.provider.Benchmark(cat.ID)
	if err != nil {
		return model.ComparisonResult{}, fmt.Errorf("benchmark for %s: %w", cat.ID, err)
	}

	percentile := distributionPercentile(bench.Distribution, site.Score)
	result := model.ComparisonResult{
		Kind:        model.BaselineCategory,
		CurrentSite: snapshot(site, cat.Name),
		Baseline: model.BaselineSnapshot{
			Score:        bench.AverageScore,
			TrackerCount: bench.AverageTrackers,
			Category:     cat.Name,
		},
		Percentile:         percentile,
		Insight:            categoryInsight(percentile, cat.Name),
		BetterThanBaseline: site.Score >= bench.AverageScore,
	}
	result.ImprovementSuggestions = suggestions(site.Score, bench.AverageScore, cat)
	return result, nil
}

// CompareToHistory ranks the site against the caller's own browsing history.
// It returns ErrInsufficientData unless the history holds at least
// MinHistoryEvents events and MinQualifyingSites sites each with
// MinEventsPerSite events.
func (e *Engine) CompareToHistory(site Site, history SiteEvents) (model.ComparisonResult, error) {
	scores, err := e.qualifyingScores(history)
	if err != nil {
		return model.ComparisonResult{}, err
	}

	var lower, total int
	for _, s := range scores {
		total += s.score
		if s.score < site.Score {
			lower++
		}
	}
	percentile := lower * 100 / len(scores)
	baselineScore := total / len(scores)

	cat, err := e.provider.Categorize(site.Domain)
	if err != nil {
		return model.ComparisonResult{}, fmt.Errorf("categorize %s: %w", site.Domain, err)
	}

	result := model.ComparisonResult{
		Kind:        model.BaselineHistory,
		CurrentSite: snapshot(site, cat.Name),
		Baseline: model.BaselineSnapshot{
			Score:        baselineScore,
			TrackerCount: averageTrackers(scores),
			Category:     historyBaselineName,
		},
		Percentile:         percentile,
		Insight:            historyInsight(percentile),
		BetterThanBaseline: site.Score >= baselineScore,
	}
	result.ImprovementSuggestions = suggestions(site.Score, baselineScore, cat)
	return result, nil
}

// CompareToPeers ranks the site among other visited sites that share its
// category, each with at least MinEventsPerSite events. It returns
// ErrInsufficientData unless at least MinQualifyingSites peers qualify and
// they carry MinHistoryEvents events between them.
func (e *Engine) CompareToPeers(site Site, history SiteEvents) (model.ComparisonResult, error) {
	cat, err := e.provider.Categorize(site.Domain)
	if err != nil {
		return model.ComparisonResult{}, fmt.Errorf("categorize %s: %w", site.Domain, err)
	}

	var peers []siteScore
	for host, events := range history {
		if host == site.Domain || len(events) < MinEventsPerSite {
			continue
		}
		peerCat, err := e.provider.Categorize(host)
		if err != nil {
			e.logger.Debug("skipping peer with unresolvable category",
				slog.String("host", host), slog.String("error", err.Error()))
			continue
		}
		if peerCat.ID != cat.ID {
			continue
		}
		peers = append(peers, siteScore{host: host, score: e.scoreSite(events), trackers: len(events)})
	}
	var totalScore, totalTrackers int
	for _, p := range peers {
		totalScore += p.score
		totalTrackers += p.trackers
	}
	if len(peers) < MinQualifyingSites {
		return model.ComparisonResult{}, fmt.Errorf("%d qualifying peers in category %s, need %d: %w",
			len(peers), cat.ID, MinQualifyingSites, ErrInsufficientData)
	}
	if totalTrackers < MinHistoryEvents {
		return model.ComparisonResult{}, fmt.Errorf("%d peer events in category %s, need %d: %w",
			totalTrackers, cat.ID, MinHistoryEvents, ErrInsufficientData)
	}

	// Rank 1 is the best score in the population.
	rank := 1
	for _, p := range peers {
		if p.score > site.Score {
			rank++
		}
	}
	population := len(peers) + 1
	baselineScore := totalScore / len(peers)

	percentile := (population - rank) * 100 / population
	result := model.ComparisonResult{
		Kind:        model.BaselinePeers,
		CurrentSite: snapshot(site, cat.Name),
		Baseline: model.BaselineSnapshot{
			Score:        baselineScore,
			TrackerCount: totalTrackers / len(peers),
			Category:     cat.Name,
		},
		Percentile:         percentile,
		Rank:               rank,
		PeerCount:          population,
		Insight:            peerInsight(rank, population, cat.Name),
		BetterThanBaseline: site.Score >= baselineScore,
	}
	result.ImprovementSuggestions = suggestions(site.Score, baselineScore, cat)
	return result, nil
}

type siteScore struct {
	host     string
	score    int
	trackers int
}

// qualifyingScores scores every history site with enough events, enforcing
// the minimum population size.
func (e *Engine) qualifyingScores(history SiteEvents) ([]siteScore, error) {
	var total int
	for _, events := range history {
		total += len(events)
	}
	if total < MinHistoryEvents {
		return nil, fmt.Errorf("%d historical events, need %d: %w", total, MinHistoryEvents, ErrInsufficientData)
	}

	hosts := make([]string, 0, len(history))
	for host, events := range history {
		if len(events) >= MinEventsPerSite {
			hosts = append(hosts, host)
		}
	}
	if len(hosts) < MinQualifyingSites {
		return nil, fmt.Errorf("%d qualifying sites, need %d: %w", len(hosts), MinQualifyingSites, ErrInsufficientData)
	}
	sort.Strings(hosts)

	scores := make([]siteScore, 0, len(hosts))
	for _, host := range hosts {
		events := history[host]
		scores = append(scores, siteScore{host: host, score: e.scoreSite(events), trackers: len(events)})
	}
	return scores, nil
}

// scoreSite computes a site's privacy score from its historical events.
// The site counts as HTTPS only when every parsable event URL uses it.
func (e *Engine) scoreSite(events []model.TrackingEvent) int {
	isHTTPS := len(events) > 0
	for _, ev := range events {
		if _, ok := ev.PageHost(); !ok {
			continue
		}
		if !ev.PageIsHTTPS() {
			isHTTPS = false
			break
		}
	}
	return e.scorer.Score(events, isHTTPS).Score
}

func snapshot(site Site, categoryName string) model.SiteSnapshot {
	return model.SiteSnapshot{
		Domain:       site.Domain,
		Score:        site.Score,
		TrackerCount: site.TrackerCount,
		Category:     categoryName,
	}
}

func averageTrackers(scores []siteScore) int {
	if len(scores) == 0 {
		return 0
	}
	var total int
	for _, s := range scores {
		total += s.trackers
	}
	return total / len(scores)
}

// distributionPercentile returns the share of the distribution's mass at or
// below the given score, as an integer percentage clamped to [0,100].
func distributionPercentile(dist [category.DistributionBuckets]float64, score int) int {
	if score < 0 {
		score = 0
	}
	if score >= category.DistributionBuckets {
		score = category.DistributionBuckets - 1
	}
	var below, total float64
	for s, mass := range dist {
		total += mass
		if s <= score {
			below += mass
		}
	}
	if total == 0 {
		return 0
	}
	p := int(below / total * 100)
	if p > 100 {
		p = 100
	}
	return p
}
