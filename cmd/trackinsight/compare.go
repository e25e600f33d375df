package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trackinsight/trackinsight/internal/compare"
	"github.com/trackinsight/trackinsight/internal/coordinator"
	"github.com/trackinsight/trackinsight/internal/model"
	"github.com/trackinsight/trackinsight/internal/scoring"
	"github.com/trackinsight/trackinsight/internal/storage"
)

// Baseline flavor names accepted by --baseline.
const (
	baselineCategory = "category"
	baselineHistory  = "history"
	baselinePeers    = "peers"
	baselineAll      = "all"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [domain]",
		Short: "Compare a site's privacy score against a baseline",
		Long: `Compare ranks a site's privacy score against a baseline population:

  category  the site category's benchmark score distribution
  history   every qualifying site in your own browsing history
  peers     other visited sites in the same category
  all       all of the above (default)

History and peer comparisons need enough data to be meaningful: at least
10 stored events and 3 sites with 3 or more events each. Below that the
comparison reports insufficient data instead of a guessed percentile.

Examples:
  # Compare against every baseline
  trackinsight compare news.example.com

  # Compare against the category benchmark only
  trackinsight compare --baseline category news.example.com

  # Output the comparison in JSON format
  trackinsight compare --json news.example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().StringP("baseline", "b", baselineAll,
		"Baseline flavor: category, history, peers, or all")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .trackinsight in current or home directory)")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger := setupLogger(cfg.Verbose)

	baseline, err := cmd.Flags().GetString("baseline")
	if err != nil {
		return err
	}
	switch baseline {
	case baselineCategory, baselineHistory, baselinePeers, baselineAll:
	default:
		return fmt.Errorf("unknown baseline %q (expected category, history, peers, or all)", baseline)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}
	scorer := scoring.NewEngine(scoring.DefaultConfig(), logger)
	engine := compare.NewEngine(provider, scorer, logger)

	ctx := context.Background()
	domain := args[0]

	events, err := db.EventsForSite(ctx, domain, cfg.RecentLimit)
	if err != nil {
		return fmt.Errorf("failed to load events for %s: %w", domain, err)
	}
	if len(events) == 0 {
		return fmt.Errorf("no stored events for %s (run 'trackinsight ingest' first)", domain)
	}

	site := compare.Site{
		Domain:       domain,
		Score:        scorer.Score(events, coordinator.SiteIsHTTPS(events, cfg.AssumeHTTPS)).Score,
		TrackerCount: len(events),
	}

	history, err := loadHistory(ctx, db, cfg.RecentLimit)
	if err != nil {
		return err
	}

	results, insufficient := runComparisons(engine, site, history, baseline)
	if len(results) == 0 && len(insufficient) == 0 {
		return errors.New("no comparison could be made")
	}

	if jsonOutput {
		return outputComparisonJSON(results, insufficient)
	}
	outputComparisonText(cmd, site, results, insufficient)
	return nil
}

// runComparisons runs the requested flavors, separating results from
// insufficient-data skips.
func runComparisons(engine *compare.Engine, site compare.Site, history compare.SiteEvents, baseline string) ([]model.ComparisonResult, []model.BaselineKind) {
	var results []model.ComparisonResult
	var insufficient []model.BaselineKind

	collect := func(kind model.BaselineKind, result model.ComparisonResult, err error) {
		switch {
		case err == nil:
			results = append(results, result)
		case errors.Is(err, compare.ErrInsufficientData):
			insufficient = append(insufficient, kind)
		default:
			fmt.Fprintf(os.Stderr, "comparison failed: %v\n", err)
		}
	}

	if baseline == baselineCategory || baseline == baselineAll {
		result, err := engine.CompareToCategory(site)
		collect(model.BaselineCategory, result, err)
	}
	if baseline == baselineHistory || baseline == baselineAll {
		result, err := engine.CompareToHistory(site, history)
		collect(model.BaselineHistory, result, err)
	}
	if baseline == baselinePeers || baseline == baselineAll {
		result, err := engine.CompareToPeers(site, history)
		collect(model.BaselinePeers, result, err)
	}

	return results, insufficient
}

// loadHistory groups all stored events by site hostname.
func loadHistory(ctx context.Context, db *storage.EventDB, limit int) (compare.SiteEvents, error) {
	recent, err := db.RecentEvents(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load event history: %w", err)
	}
	history := make(compare.SiteEvents)
	for _, ev := range recent {
		host, ok := ev.PageHost()
		if !ok {
			continue
		}
		history[host] = append(history[host], ev)
	}
	return history, nil
}

// comparisonOutput is the JSON shape of the compare command output.
type comparisonOutput struct {
	Comparisons           []model.ComparisonResult `json:"comparisons"`
	InsufficientBaselines []model.BaselineKind     `json:"insufficient_baselines,omitempty"`
}

// outputComparisonJSON outputs the comparison results in JSON format.
func outputComparisonJSON(results []model.ComparisonResult, insufficient []model.BaselineKind) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(comparisonOutput{
		Comparisons:           results,
		InsufficientBaselines: insufficient,
	})
}

// outputComparisonText outputs the comparison results as readable text.
func outputComparisonText(cmd *cobra.Command, site compare.Site, results []model.ComparisonResult, insufficient []model.BaselineKind) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Privacy comparison: %s (score %d, %d trackers)\n", site.Domain, site.Score, site.TrackerCount)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	for _, r := range results {
		fmt.Fprintf(out, "\n[%s]\n", r.Kind)
		fmt.Fprintf(out, "  Baseline:   %s (score %d, %d trackers)\n",
			r.Baseline.Category, r.Baseline.Score, r.Baseline.TrackerCount)
		fmt.Fprintf(out, "  Percentile: %d\n", r.Percentile)
		if r.Rank > 0 {
			fmt.Fprintf(out, "  Rank:       %d of %d\n", r.Rank, r.PeerCount)
		}
		fmt.Fprintf(out, "  %s\n", r.Insight)
		for _, s := range r.ImprovementSuggestions {
			fmt.Fprintf(out, "  * %s\n", s)
		}
	}

	for _, kind := range insufficient {
		fmt.Fprintf(out, "\n[%s]\n  Insufficient data: ingest more browsing history first.\n", kind)
	}
}
