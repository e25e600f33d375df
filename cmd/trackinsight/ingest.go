package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/trackinsight/trackinsight/internal/model"
)

// NewIngestCmd creates the ingest command.
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [events.json]",
		Short: "Ingest tracking events into the local event log",
		Long: `Ingest reads tracking-detection events exported by the browser detection
layer and appends them to the local event database. Events are deduplicated
by ID, so re-ingesting the same export is safe.

The input is a JSON array of events. Reads from stdin when no file is given.

Examples:
  # Ingest an exported event log
  trackinsight ingest events.json

  # Pipe events from another tool
  tracker-export | trackinsight ingest`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIngestCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .trackinsight in current or home directory)")

	return cmd
}

// runIngestCmd executes the ingest command.
func runIngestCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger := setupLogger(cfg.Verbose)

	var input io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0]) //nolint:gosec // User-provided input path is intentional
		if err != nil {
			return fmt.Errorf("failed to open events file: %w", err)
		}
		defer f.Close()
		input = f
	}

	events, err := decodeEvents(input)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return errors.New("no events found in input")
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.AppendEvents(ctx, events); err != nil {
		return fmt.Errorf("failed to store events: %w", err)
	}

	total, err := db.CountEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to count events: %w", err)
	}

	logger.Debug("events ingested", "ingested", len(events), "total", total)
	fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d events (%d total in database)\n", len(events), total)
	return nil
}

// decodeEvents parses a JSON event array, assigning IDs to events that
// arrived without one.
func decodeEvents(r io.Reader) ([]model.TrackingEvent, error) {
	var events []model.TrackingEvent
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("failed to parse events: %w", err)
	}
	for i := range events {
		if events[i].ID == "" {
			events[i].ID = uuid.NewString()
		}
	}
	return events, nil
}
