package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/trackinsight/trackinsight/internal/compare"
	"github.com/trackinsight/trackinsight/internal/model"
	"github.com/trackinsight/trackinsight/internal/pattern"
	"github.com/trackinsight/trackinsight/internal/scoring"
	"github.com/trackinsight/trackinsight/internal/timeline"
)

const (
	// DefaultDebounce is how long a burst must be quiet before a
	// recomputation fires.
	DefaultDebounce = 2 * time.Second

	// DefaultEventLimit caps how many events one analysis pass reads
	// from storage.
	DefaultEventLimit = 1000

	// DefaultBatchConcurrency limits concurrent domain analyses in
	// AnalyzeAll.
	DefaultBatchConcurrency = 4
)

// Class identifies one analyzer whose recomputation is debounced
// independently of the others.
type Class string

const (
	ClassScoring     Class = "scoring"
	ClassPatterns    Class = "patterns"
	ClassTimeline    Class = "timeline"
	ClassComparisons Class = "comparisons"
)

// AllClasses lists every analyzer class in publish order.
var AllClasses = []Class{ClassScoring, ClassPatterns, ClassTimeline, ClassComparisons}

// Source is the storage boundary the coordinator reads events through.
// It is the only asynchronous dependency and is treated as fallible.
type Source interface {
	EventsForSite(ctx context.Context, host string, limit int) ([]model.TrackingEvent, error)
	RecentEvents(ctx context.Context, limit int) ([]model.TrackingEvent, error)
}

// Engines bundles the four pure analysis engines the coordinator routes to.
type Engines struct {
	Scorer   *scoring.Engine
	Patterns *pattern.Detector
	Timeline *timeline.Analyzer
	Compare  *compare.Engine
}

// Coordinator debounces recomputation requests and caches the latest
// published report per domain. It is safe for concurrent use.
type Coordinator struct {
	source  Source
	engines Engines
	logger  *slog.Logger

	debounce    time.Duration
	eventLimit  int
	window      time.Duration
	concurrency int
	assumeHTTPS bool

	// onUpdate, when set, is called after a report is published.
	// It runs on the goroutine that completed the computation.
	onUpdate func(*model.AnalysisReport)

	mu      sync.Mutex
	pending map[classKey]*pendingClass
	reports map[string]*model.AnalysisReport
	closed  bool
}

type classKey struct {
	domain string
	class  Class
}

// pendingClass tracks one domain+class debounce window. The generation
// counter implements last-writer-wins: a computation publishes only if no
// newer burst bumped the generation while it ran.
type pendingClass struct {
	timer      *time.Timer
	generation uint64
}

// ErrClosed is returned once the coordinator has been shut down.
var ErrClosed = errors.New("coordinator closed")

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets a custom logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithDebounce sets how long a burst must be quiet before recomputation.
func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithEventLimit caps events read per analysis pass.
func WithEventLimit(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.eventLimit = n
		}
	}
}

// WithWindow sets the trailing window passed to the timeline analyzer.
func WithWindow(d time.Duration) Option {
	return func(c *Coordinator) { c.window = d }
}

// WithConcurrency limits concurrent domain analyses in AnalyzeAll.
func WithConcurrency(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithAssumeHTTPS sets the transport-security fallback used when a site's
// stored events cannot determine whether it serves over HTTPS.
func WithAssumeHTTPS(assume bool) Option {
	return func(c *Coordinator) { c.assumeHTTPS = assume }
}

// WithOnUpdate registers a callback invoked with each published report.
// The callback must be safe for concurrent invocation.
func WithOnUpdate(fn func(*model.AnalysisReport)) Option {
	return func(c *Coordinator) { c.onUpdate = fn }
}

// New creates a Coordinator over the given event source and engines.
func New(source Source, engines Engines, opts ...Option) *Coordinator {
	c := &Coordinator{
		source:      source,
		engines:     engines,
		debounce:    DefaultDebounce,
		eventLimit:  DefaultEventLimit,
		concurrency: DefaultBatchConcurrency,
		pending:     make(map[classKey]*pendingClass),
		reports:     make(map[string]*model.AnalysisReport),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// NotifyEvents records that new events arrived for a domain and schedules a
// debounced recomputation of every analyzer class. A burst of N events
// within the debounce interval triggers at most one recomputation per
// class: each call resets the pending timers rather than stacking work.
func (c *Coordinator) NotifyEvents(domain string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	for _, class := range AllClasses {
		key := classKey{domain: domain, class: class}
		p, ok := c.pending[key]
		if !ok {
			p = &pendingClass{}
			c.pending[key] = p
		}
		p.generation++
		gen := p.generation
		if p.timer != nil {
			p.timer.Stop()
		}
		p.timer = time.AfterFunc(c.debounce, func() {
			c.runClass(key, gen)
		})
	}
}

// runClass recomputes one analyzer class for a domain, publishing only if
// the generation is still current when the computation finishes.
func (c *Coordinator) runClass(key classKey, gen uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	events, err := c.source.EventsForSite(ctx, key.domain, c.eventLimit)
	if err != nil {
		c.logger.Error("event retrieval failed",
			slog.String("domain", key.domain),
			slog.String("class", string(key.class)),
			slog.String("error", err.Error()))
		return
	}

	partial, err := c.computeClass(ctx, key.domain, key.class, events)
	if err != nil {
		c.logger.Warn("analyzer failed",
			slog.String("domain", key.domain),
			slog.String("class", string(key.class)),
			slog.String("error", err.Error()))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pending[key]
	if !ok || p.generation != gen || c.closed {
		c.logger.Debug("discarding stale computation",
			slog.String("domain", key.domain),
			slog.String("class", string(key.class)))
		return
	}

	report := c.reports[key.domain]
	if report == nil {
		report = model.NewAnalysisReport(key.domain)
		c.reports[key.domain] = report
	}
	c.merge(report, key.class, partial, len(events))

	if c.onUpdate != nil {
		go c.onUpdate(report)
	}
}

// classResult carries the output of a single analyzer class.
type classResult struct {
	score                 model.PrivacyScore
	patterns              []model.TrackerPattern
	timeline              model.TimelineReport
	comparisons           []model.ComparisonResult
	insufficientBaselines []model.BaselineKind
}

func (c *Coordinator) computeClass(ctx context.Context, domain string, class Class, events []model.TrackingEvent) (classResult, error) {
	var result classResult
	switch class {
	case ClassScoring:
		result.score = c.engines.Scorer.Score(events, SiteIsHTTPS(events, c.assumeHTTPS))
	case ClassPatterns:
		result.patterns = c.engines.Patterns.Detect(events)
	case ClassTimeline:
		result.timeline = c.engines.Timeline.Analyze(events, c.window)
	case ClassComparisons:
		score := c.engines.Scorer.Score(events, SiteIsHTTPS(events, c.assumeHTTPS))
		comparisons, insufficient, err := c.compareAll(ctx, domain, score.Score, len(events))
		if err != nil {
			return classResult{}, err
		}
		result.comparisons = comparisons
		result.insufficientBaselines = insufficient
	}
	return result, nil
}

// merge publishes one class's output into the cached report.
// Callers must hold c.mu.
func (c *Coordinator) merge(report *model.AnalysisReport, class Class, result classResult, eventCount int) {
	report.GeneratedAt = time.Now().UTC()
	report.EventCount = eventCount
	report.WindowMillis = c.window.Milliseconds()
	switch class {
	case ClassScoring:
		report.Score = result.score
	case ClassPatterns:
		report.Patterns = result.patterns
	case ClassTimeline:
		report.Timeline = result.timeline
	case ClassComparisons:
		report.Comparisons = result.comparisons
		report.InsufficientBaselines = result.insufficientBaselines
	}
}

// Analyze runs every analyzer for a domain synchronously and publishes the
// combined report. The pure engines fan out concurrently; comparisons run
// alongside them because they only need the score, which is recomputed
// cheaply from the same snapshot.
func (c *Coordinator) Analyze(ctx context.Context, domain string) (*model.AnalysisReport, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	// A synchronous pass supersedes any pending debounced work.
	for _, class := range AllClasses {
		if p, ok := c.pending[classKey{domain: domain, class: class}]; ok {
			p.generation++
			if p.timer != nil {
				p.timer.Stop()
			}
		}
	}
	c.mu.Unlock()

	events, err := c.source.EventsForSite(ctx, domain, c.eventLimit)
	if err != nil {
		return nil, err
	}

	report := model.NewAnalysisReport(domain)
	report.EventCount = len(events)
	report.WindowMillis = c.window.Milliseconds()
	report.Score = c.engines.Scorer.Score(events, SiteIsHTTPS(events, c.assumeHTTPS))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.Patterns = c.engines.Patterns.Detect(events)
		return nil
	})
	g.Go(func() error {
		report.Timeline = c.engines.Timeline.Analyze(events, c.window)
		return nil
	})
	g.Go(func() error {
		comparisons, insufficient, err := c.compareAll(gctx, domain, report.Score.Score, len(events))
		if err != nil {
			return err
		}
		report.Comparisons = comparisons
		report.InsufficientBaselines = insufficient
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.reports[domain] = report
	c.mu.Unlock()
	return report, nil
}

// AnalyzeAll analyzes multiple domains concurrently, respecting the
// configured concurrency limit. Per-domain failures are logged and skipped
// so one broken domain does not abort the batch.
func (c *Coordinator) AnalyzeAll(ctx context.Context, domains []string) ([]*model.AnalysisReport, error) {
	reports := make([]*model.AnalysisReport, len(domains))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, domain := range domains {
		g.Go(func() error {
			report, err := c.Analyze(gctx, domain)
			if err != nil {
				c.logger.Warn("analysis failed",
					slog.String("domain", domain),
					slog.String("error", err.Error()))
				return nil
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	kept := reports[:0]
	for _, r := range reports {
		if r != nil {
			kept = append(kept, r)
		}
	}
	return kept, nil
}

// compareAll runs the three comparison flavors, collecting whichever had
// sufficient data and naming the ones that did not.
func (c *Coordinator) compareAll(ctx context.Context, domain string, score, trackerCount int) ([]model.ComparisonResult, []model.BaselineKind, error) {
	recent, err := c.source.RecentEvents(ctx, c.eventLimit)
	if err != nil {
		return nil, nil, err
	}
	history := groupBySite(recent)

	site := compare.Site{Domain: domain, Score: score, TrackerCount: trackerCount}

	var comparisons []model.ComparisonResult
	var insufficient []model.BaselineKind

	if result, err := c.engines.Compare.CompareToCategory(site); err != nil {
		c.logger.Warn("category comparison failed",
			slog.String("domain", domain), slog.String("error", err.Error()))
	} else {
		comparisons = append(comparisons, result)
	}

	if result, err := c.engines.Compare.CompareToHistory(site, history); err != nil {
		if !errors.Is(err, compare.ErrInsufficientData) {
			return nil, nil, err
		}
		insufficient = append(insufficient, model.BaselineHistory)
	} else {
		comparisons = append(comparisons, result)
	}

	if result, err := c.engines.Compare.CompareToPeers(site, history); err != nil {
		if !errors.Is(err, compare.ErrInsufficientData) {
			return nil, nil, err
		}
		insufficient = append(insufficient, model.BaselinePeers)
	} else {
		comparisons = append(comparisons, result)
	}

	return comparisons, insufficient, nil
}

// LatestReport returns the most recently published report for a domain.
func (c *Coordinator) LatestReport(domain string) (*model.AnalysisReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	report, ok := c.reports[domain]
	return report, ok
}

// Close stops all pending timers. Computations already in flight are
// discarded at publish time.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for _, p := range c.pending {
		if p.timer != nil {
			p.timer.Stop()
		}
	}
}

// SiteIsHTTPS reports whether every parsable event URL uses HTTPS.
// Events with malformed URLs are excluded from the decision; when no URL
// is parsable the fallback decides. Every entry point that scores a site
// goes through this rule so identical events yield identical scores.
func SiteIsHTTPS(events []model.TrackingEvent, fallback bool) bool {
	var parsable bool
	for _, ev := range events {
		if _, ok := ev.PageHost(); !ok {
			continue
		}
		if !ev.PageIsHTTPS() {
			return false
		}
		parsable = true
	}
	if !parsable {
		return fallback
	}
	return true
}

// groupBySite buckets events by the hostname of the page they ran on.
// Events with malformed URLs are dropped from the grouping.
func groupBySite(events []model.TrackingEvent) compare.SiteEvents {
	sites := make(compare.SiteEvents)
	for _, ev := range events {
		host, ok := ev.PageHost()
		if !ok {
			continue
		}
		sites[host] = append(sites[host], ev)
	}
	return sites
}
