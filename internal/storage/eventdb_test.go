package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/trackinsight/trackinsight/internal/model"
)

// openTestDB opens a fresh database in a temporary directory and closes it
// when the test finishes.
func openTestDB(t *testing.T) *EventDB {
	t.Helper()
	edb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = edb.Close() })
	return edb
}

// testEvent builds an event on the given page host with a controllable
// timestamp offset.
func testEvent(id, host string, tsOffset int64) model.TrackingEvent {
	return model.TrackingEvent{
		ID:          id,
		Timestamp:   1700000000000 + tsOffset,
		URL:         "https://" + host + "/page",
		Domain:      "adnet.com",
		TrackerType: model.TrackerAdvertising,
		RiskLevel:   model.RiskMedium,
		Description: "ad pixel",
	}
}

// TestOpenWithoutCreate tests that opening a missing database without the
// create option fails.
func TestOpenWithoutCreate(t *testing.T) {
	t.Parallel()

	opts := Options{CreateIfNotExists: false}
	if _, err := Open(t.TempDir(), opts); err == nil {
		t.Fatal("expected an error for a missing database")
	}
}

// TestAppendAndCount tests basic ingestion and counting.
func TestAppendAndCount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	edb := openTestDB(t)

	events := []model.TrackingEvent{
		testEvent("a", "news.example.com", 0),
		testEvent("b", "news.example.com", 1000),
	}
	if err := edb.AppendEvents(ctx, events); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	count, err := edb.CountEvents(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, expected 2", count)
	}
}

// TestAppendEventsIdempotent tests that re-ingesting the same IDs leaves
// the log unchanged.
func TestAppendEventsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	edb := openTestDB(t)

	events := []model.TrackingEvent{
		testEvent("a", "news.example.com", 0),
		testEvent("b", "news.example.com", 1000),
	}
	if err := edb.AppendEvents(ctx, events); err != nil {
		t.Fatalf("first append failed: %v", err)
	}
	if err := edb.AppendEvents(ctx, events); err != nil {
		t.Fatalf("second append failed: %v", err)
	}

	count, err := edb.CountEvents(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, expected 2 after duplicate ingest", count)
	}
}

// TestRecentEventsOrdering tests newest-first ordering and the limit.
func TestRecentEventsOrdering(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	edb := openTestDB(t)

	var events []model.TrackingEvent
	for i := 0; i < 5; i++ {
		events = append(events, testEvent(fmt.Sprintf("e%d", i), "news.example.com", int64(i)*1000))
	}
	if err := edb.AppendEvents(ctx, events); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	got, err := edb.RecentEvents(ctx, 3)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("events = %d, expected 3", len(got))
	}
	if got[0].ID != "e4" || got[2].ID != "e2" {
		t.Errorf("ordering = [%s %s %s], expected newest first", got[0].ID, got[1].ID, got[2].ID)
	}
}

// TestEventsSince tests the timestamp cutoff.
func TestEventsSince(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	edb := openTestDB(t)

	events := []model.TrackingEvent{
		testEvent("old", "news.example.com", 0),
		testEvent("new", "news.example.com", 60000),
	}
	if err := edb.AppendEvents(ctx, events); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	got, err := edb.EventsSince(ctx, 1700000000000+30000, 100)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "new" {
		t.Errorf("got %d events, expected only the newer one", len(got))
	}
}

// TestEventsForSite tests filtering by the visited page's hostname,
// including events whose URLs could not be parsed.
func TestEventsForSite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	edb := openTestDB(t)

	broken := testEvent("broken", "ignored", 3000)
	broken.URL = ":not-a-url"
	events := []model.TrackingEvent{
		testEvent("a", "news.example.com", 0),
		testEvent("b", "shop.example.com", 1000),
		testEvent("c", "news.example.com", 2000),
		broken,
	}
	if err := edb.AppendEvents(ctx, events); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	got, err := edb.EventsForSite(ctx, "news.example.com", 100)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("events = %d, expected 2", len(got))
	}
	if got[0].ID != "c" || got[1].ID != "a" {
		t.Errorf("ordering = [%s %s], expected newest first", got[0].ID, got[1].ID)
	}
}

// TestEventRoundTrip tests that stored fields, including the in-page
// tracking method, survive a write and read.
func TestEventRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	edb := openTestDB(t)

	ev := testEvent("fp", "news.example.com", 0)
	ev.RiskLevel = model.RiskHigh
	ev.TrackerType = model.TrackerFingerprinting
	ev.InPageTracking = &model.InPageTracking{Method: model.MethodCanvasFingerprint}

	if err := edb.AppendEvents(ctx, []model.TrackingEvent{ev}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	got, err := edb.EventsForSite(ctx, "news.example.com", 1)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("events = %d, expected 1", len(got))
	}

	e := got[0]
	if e.ID != "fp" || e.RiskLevel != model.RiskHigh || e.TrackerType != model.TrackerFingerprinting {
		t.Errorf("unexpected event fields: %+v", e)
	}
	if e.Description != "ad pixel" {
		t.Errorf("description = %q", e.Description)
	}
	if e.InPageTracking == nil || e.InPageTracking.Method != model.MethodCanvasFingerprint {
		t.Errorf("in-page tracking = %+v, expected canvas fingerprint", e.InPageTracking)
	}
}

// TestLatestEventTimestamp tests the high-water mark, including the empty
// log.
func TestLatestEventTimestamp(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	edb := openTestDB(t)

	ts, err := edb.LatestEventTimestamp(ctx)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if ts != 0 {
		t.Errorf("timestamp = %d, expected 0 for an empty log", ts)
	}

	events := []model.TrackingEvent{
		testEvent("a", "news.example.com", 0),
		testEvent("b", "news.example.com", 5000),
	}
	if err := edb.AppendEvents(ctx, events); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	ts, err = edb.LatestEventTimestamp(ctx)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if ts != 1700000000000+5000 {
		t.Errorf("timestamp = %d, expected the newest event's", ts)
	}
}

// TestSaveAndLatestReport tests report archiving and retrieval.
func TestSaveAndLatestReport(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	edb := openTestDB(t)

	got, err := edb.LatestReport(ctx, "news.example.com")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil report before any save")
	}

	report := model.NewAnalysisReport("news.example.com")
	report.Score = model.PrivacyScore{Score: 72, Grade: model.GradeC}
	report.EventCount = 9
	if err := edb.SaveReport(ctx, report); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err = edb.LatestReport(ctx, "news.example.com")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a report after save")
	}
	if got.Score.Score != 72 || got.Score.Grade != model.GradeC || got.EventCount != 9 {
		t.Errorf("round-tripped report = %+v", got)
	}
}

// TestListAnalyzedDomains tests the distinct-domain listing.
func TestListAnalyzedDomains(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	edb := openTestDB(t)

	for _, domain := range []string{"b.example.com", "a.example.com", "b.example.com"} {
		report := model.NewAnalysisReport(domain)
		report.Score = model.PrivacyScore{Score: 50, Grade: model.GradeF}
		if err := edb.SaveReport(ctx, report); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	domains, err := edb.ListAnalyzedDomains(ctx)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(domains) != 2 || domains[0] != "a.example.com" || domains[1] != "b.example.com" {
		t.Errorf("domains = %v, expected sorted distinct listing", domains)
	}
}
