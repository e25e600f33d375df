package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/trackinsight/trackinsight/internal/config"
	"github.com/trackinsight/trackinsight/internal/coordinator"
	"github.com/trackinsight/trackinsight/internal/model"
	"github.com/trackinsight/trackinsight/internal/storage"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [domain]",
		Short: "Watch a site and refresh its score as events arrive",
		Long: `Watch polls the event database and refreshes the site's analysis whenever
new events arrive. Bursts of events are coalesced: the analysis reruns once
per settled burst, not once per event. Press Ctrl-C to stop.

Examples:
  # Watch a site with the default 5s poll interval
  trackinsight watch news.example.com

  # Poll faster
  trackinsight watch --interval 1s news.example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runWatchCmd,
	}

	cmd.Flags().DurationP("interval", "i", config.DefaultPollInterval,
		"Storage polling interval")
	cmd.Flags().DurationP("debounce", "d", config.DefaultDebounce,
		"How long a burst must be quiet before the analysis reruns")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .trackinsight in current or home directory)")

	return cmd
}

// runWatchCmd executes the watch command.
func runWatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("interval") {
		cfg.PollInterval, err = cmd.Flags().GetDuration("interval")
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("debounce") {
		cfg.Debounce, err = cmd.Flags().GetDuration("debounce")
		if err != nil {
			return err
		}
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
		logger.Info("received shutdown signal, stopping watch...")
		cancel()
	}()

	return runWatch(ctx, cmd, cfg, args[0], logger)
}

// runWatch polls storage and drives the coordinator until cancelled.
func runWatch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, domain string, logger *slog.Logger) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	coord, err := newCoordinator(cfg, db, logger,
		coordinator.WithOnUpdate(func(r *model.AnalysisReport) {
			printRefresh(out, r)
		}))
	if err != nil {
		return err
	}
	defer coord.Close()

	fmt.Fprintf(out, "Watching %s (poll %s, debounce %s). Press Ctrl-C to stop.\n",
		domain, cfg.PollInterval, cfg.Debounce)

	// Initial synchronous pass so the watcher starts from a known state.
	if report, err := coord.Analyze(ctx, domain); err != nil {
		logger.Warn("initial analysis failed", "domain", domain, "error", err)
	} else {
		printRefresh(out, report)
	}

	lastSeen, err := db.LatestEventTimestamp(ctx)
	if err != nil {
		return fmt.Errorf("failed to read event log position: %w", err)
	}

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			newest, err := pollNewEvents(ctx, db, domain, lastSeen, cfg.RecentLimit, coord, logger)
			if err != nil {
				logger.Error("storage poll failed", "error", err)
				continue
			}
			lastSeen = newest
		}
	}
}

// pollNewEvents checks for events newer than lastSeen and notifies the
// coordinator when the watched domain is affected. Returns the new high
// water mark.
func pollNewEvents(ctx context.Context, db *storage.EventDB, domain string, lastSeen int64, limit int, coord *coordinator.Coordinator, logger *slog.Logger) (int64, error) {
	newest, err := db.LatestEventTimestamp(ctx)
	if err != nil {
		return lastSeen, err
	}
	if newest <= lastSeen {
		return lastSeen, nil
	}

	fresh, err := db.EventsSince(ctx, lastSeen, limit)
	if err != nil {
		return lastSeen, err
	}

	var matched int
	for _, ev := range fresh {
		host, ok := ev.PageHost()
		if !ok {
			continue
		}
		if host == domain {
			matched++
		}
	}
	if matched > 0 {
		logger.Debug("new events for watched domain", "domain", domain, "events", matched)
		coord.NotifyEvents(domain)
	}
	return newest, nil
}

// printRefresh prints a one-line summary of a refreshed report.
func printRefresh(out io.Writer, r *model.AnalysisReport) {
	fmt.Fprintf(out, "[%s] %s: score %d (grade %s), %d events, %d patterns\n",
		time.Now().Format("15:04:05"), r.Domain, r.Score.Score, r.Score.Grade,
		r.EventCount, len(r.Patterns))
}
