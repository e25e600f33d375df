package pattern

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trackinsight/trackinsight/internal/model"
)

// detectFingerprinting looks for repeated fingerprinting events
// concentrated on individual sites. A single fingerprinting event is
// unremarkable; the same site probing twice or more is a campaign.
func (d *Detector) detectFingerprinting(events []model.TrackingEvent) *model.TrackerPattern {
	var fingerprinting []model.TrackingEvent
	for _, ev := range events {
		if ev.TrackerType == model.TrackerFingerprinting {
			fingerprinting = append(fingerprinting, ev)
		}
	}
	if len(fingerprinting) < d.cfg.FingerprintMinEvents {
		return nil
	}

	bySite := make(map[string][]model.TrackingEvent)
	for _, ev := range fingerprinting {
		host, ok := ev.PageHost()
		if !ok {
			d.logger.Debug("skipping event with unparsable url in fingerprint grouping",
				"event_id", ev.ID, "url", ev.URL)
			continue
		}
		bySite[host] = append(bySite[host], ev)
	}

	qualifying := make(map[string][]model.TrackingEvent)
	for host, siteEvents := range bySite {
		if len(siteEvents) >= d.cfg.FingerprintMinPerSite {
			qualifying[host] = siteEvents
		}
	}
	if len(qualifying) == 0 {
		return nil
	}

	sites := sortedKeys(qualifying)
	var contributing []model.TrackingEvent
	for _, host := range sites {
		contributing = append(contributing, qualifying[host]...)
	}

	return &model.TrackerPattern{
		ID:        uuid.NewString(),
		Type:      model.PatternFingerprinting,
		Domains:   sites,
		Events:    contributing,
		RiskLevel: model.RiskHigh,
		Description: fmt.Sprintf(
			"repeated fingerprinting attempts detected on %d site(s)", len(sites)),
		DetectedAt: time.Now().UTC(),
	}
}
