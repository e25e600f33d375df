package pattern

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trackinsight/trackinsight/internal/model"
)

// detectCrossSite looks for advertising or analytics trackers whose events
// span several distinct visited sites. All qualifying trackers are folded
// into one pattern: the finding is "you are being followed across sites",
// not one alert per tracker.
func (d *Detector) detectCrossSite(events []model.TrackingEvent) *model.TrackerPattern {
	// Tracker domain -> distinct visited hostnames and contributing events.
	hostsByDomain := make(map[string]map[string]struct{})
	eventsByDomain := make(map[string][]model.TrackingEvent)

	for _, ev := range events {
		if ev.TrackerType != model.TrackerAdvertising && ev.TrackerType != model.TrackerAnalytics {
			continue
		}
		host, ok := ev.PageHost()
		if !ok {
			// Unparsable page URLs cannot participate in site grouping.
			d.logger.Debug("skipping event with unparsable url in cross-site grouping",
				"event_id", ev.ID, "url", ev.URL)
			continue
		}
		if hostsByDomain[ev.Domain] == nil {
			hostsByDomain[ev.Domain] = make(map[string]struct{})
		}
		hostsByDomain[ev.Domain][host] = struct{}{}
		eventsByDomain[ev.Domain] = append(eventsByDomain[ev.Domain], ev)
	}

	qualifying := make(map[string][]model.TrackingEvent)
	for domain, hosts := range hostsByDomain {
		if len(hosts) >= d.cfg.CrossSiteMinHosts {
			qualifying[domain] = eventsByDomain[domain]
		}
	}
	if len(qualifying) == 0 {
		return nil
	}

	domains := sortedKeys(qualifying)
	var contributing []model.TrackingEvent
	for _, domain := range domains {
		contributing = append(contributing, qualifying[domain]...)
	}

	risk := model.RiskHigh
	if len(domains) >= d.cfg.CrossSiteCriticalDomains {
		risk = model.RiskCritical
	}

	return &model.TrackerPattern{
		ID:        uuid.NewString(),
		Type:      model.PatternCrossSite,
		Domains:   domains,
		Events:    contributing,
		RiskLevel: risk,
		Description: fmt.Sprintf(
			"%d tracker(s) observed across %d or more of your visited sites, indicating cross-site behavioral profiling",
			len(domains), d.cfg.CrossSiteMinHosts),
		DetectedAt: time.Now().UTC(),
	}
}
