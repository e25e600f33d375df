package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/trackinsight/trackinsight/internal/config"
	"github.com/trackinsight/trackinsight/internal/model"
	"github.com/trackinsight/trackinsight/internal/report"
	"github.com/trackinsight/trackinsight/internal/storage"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [domain]",
		Short: "Analyze a site's tracking exposure",
		Long: `Analyze runs the full analysis for one or more sites from stored events:

- Privacy score (0-100 with grade and per-risk breakdown)
- Cross-site and fingerprinting pattern detection
- Tracking timeline with anomalous days
- Comparisons against the category benchmark, your own history,
  and peer sites in the same category

Examples:
  # Analyze a single site
  trackinsight analyze news.example.com

  # Analyze several sites
  trackinsight analyze news.example.com shop.example.org

  # Output a JSON report
  trackinsight analyze --json news.example.com

  # Write a Markdown report to a file
  trackinsight analyze --markdown -o report.md news.example.com`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyzeCmd,
	}

	cmd.Flags().DurationP("window", "w", config.DefaultWindow,
		"Analysis time window (e.g. 720h for 30 days)")
	cmd.Flags().IntP("limit", "n", config.DefaultRecentLimit,
		"Maximum number of stored events to analyze per site")
	cmd.Flags().Bool("https", false,
		"Assume HTTPS for sites whose stored events cannot determine it")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .trackinsight in current or home directory)")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildAnalyzeConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger := setupLogger(cfg.Verbose)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runAnalyze(ctx, cfg, args, logger)
}

// buildAnalyzeConfig layers analyze flags over the shared config.
func buildAnalyzeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("window") {
		cfg.Window, err = cmd.Flags().GetDuration("window")
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("limit") {
		cfg.RecentLimit, err = cmd.Flags().GetInt("limit")
		if err != nil {
			return nil, err
		}
	}
	cfg.AssumeHTTPS, err = cmd.Flags().GetBool("https")
	if err != nil {
		return nil, err
	}
	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// runAnalyze analyzes each requested domain and writes reports.
func runAnalyze(ctx context.Context, cfg *config.Config, domains []string, logger *slog.Logger) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	coord, err := newCoordinator(cfg, db, logger)
	if err != nil {
		return err
	}
	defer coord.Close()

	startTime := time.Now()
	reports, err := coord.AnalyzeAll(ctx, domains)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	if len(reports) == 0 {
		return errors.New("no sites could be analyzed")
	}
	logger.Debug("analysis complete",
		"domains", len(reports),
		"elapsed", time.Since(startTime).Round(time.Millisecond))

	for _, r := range reports {
		if err := outputReport(cfg, r); err != nil {
			return err
		}
		if err := saveReport(ctx, db, r, logger); err != nil {
			logger.Error("failed to save report", "domain", r.Domain, "error", err)
		}
	}
	return nil
}

// outputReport writes the analysis report in the requested format.
func outputReport(cfg *config.Config, analysisReport *model.AnalysisReport) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports expose browsing history, keep them owner-readable only.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(analysisReport)
	return err
}

// saveReport archives the report in the database.
func saveReport(ctx context.Context, db *storage.EventDB, r *model.AnalysisReport, logger *slog.Logger) error {
	if err := db.SaveReport(ctx, r); err != nil {
		return err
	}
	logger.Debug("report archived", "domain", r.Domain)
	return nil
}
