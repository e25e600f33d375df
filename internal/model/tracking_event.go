package model

import (
	"net/url"
	"time"
)

// TrackerType identifies the broad class of a tracker.
type TrackerType string

const (
	// TrackerAdvertising covers ad-network trackers and retargeting pixels.
	TrackerAdvertising TrackerType = "advertising"

	// TrackerAnalytics covers behavioral analytics scripts (page views,
	// session recording, heatmaps).
	TrackerAnalytics TrackerType = "analytics"

	// TrackerSocial covers social-media widgets and share buttons.
	TrackerSocial TrackerType = "social"

	// TrackerFingerprinting covers device/browser fingerprinting scripts.
	TrackerFingerprinting TrackerType = "fingerprinting"

	// TrackerCryptomining covers in-browser cryptocurrency miners.
	TrackerCryptomining TrackerType = "cryptomining"

	// TrackerAudienceMeasurement covers panel-style audience measurement.
	TrackerAudienceMeasurement TrackerType = "audience-measurement"

	// TrackerOther covers trackers that fit none of the above classes.
	TrackerOther TrackerType = "other"
)

// InPageMethod identifies an in-page fingerprinting or data-leak technique
// observed by the DOM instrumentation probes.
type InPageMethod string

const (
	MethodCanvasFingerprint InPageMethod = "canvas-fingerprint"
	MethodFontFingerprint   InPageMethod = "font-fingerprint"
	MethodAudioFingerprint  InPageMethod = "audio-fingerprint"
	MethodWebGLFingerprint  InPageMethod = "webgl-fingerprint"
	MethodWebRTCLeak        InPageMethod = "webrtc-leak"
	MethodStorageAccess     InPageMethod = "storage-access"
	MethodMouseTracking     InPageMethod = "mouse-tracking"
	MethodFormMonitoring    InPageMethod = "form-monitoring"
	MethodDeviceAPI         InPageMethod = "device-api"
	MethodClipboardAccess   InPageMethod = "clipboard-access"
)

// InPageTracking describes an in-page technique attached to an event.
// It is optional; most network-level detections carry no in-page data.
type InPageTracking struct {
	// Method is the observed technique.
	Method InPageMethod `json:"method"`
}

// TrackingEvent is a single tracker detection produced by the browser
// instrumentation layer. Events are immutable once created. Ordering by
// Timestamp is the only ordering guarantee; Domain+Timestamp is not unique.
type TrackingEvent struct {
	// ID is an opaque identifier assigned at ingest.
	ID string `json:"id"`

	// Timestamp is the detection time in Unix epoch milliseconds.
	Timestamp int64 `json:"timestamp"`

	// URL is the page the tracker ran on.
	URL string `json:"url"`

	// Domain is the tracker's own domain (the third party receiving data).
	Domain string `json:"domain"`

	// TrackerType is the broad class of the tracker.
	TrackerType TrackerType `json:"tracker_type"`

	// RiskLevel is assigned upstream and never recomputed here.
	// Unknown values are preserved; the scoring engine downgrades them
	// to low with a logged warning.
	RiskLevel RiskLevel `json:"risk_level"`

	// Description is a human-readable summary from the detection layer.
	Description string `json:"description,omitempty"`

	// InPageTracking is set when the detection came from a DOM probe
	// rather than a network request.
	InPageTracking *InPageTracking `json:"in_page_tracking,omitempty"`
}

// Time returns the event timestamp as a time.Time in UTC.
func (e TrackingEvent) Time() time.Time {
	return time.UnixMilli(e.Timestamp).UTC()
}

// PageHost returns the hostname of the visited page parsed from URL.
// The second return value is false when URL is unparsable or has no host;
// such events are excluded from URL-dependent grouping but still counted
// in raw totals and scoring.
func (e TrackingEvent) PageHost() (string, bool) {
	u, err := url.Parse(e.URL)
	if err != nil || u.Hostname() == "" {
		return "", false
	}
	return u.Hostname(), true
}

// PageIsHTTPS reports whether the visited page URL uses the https scheme.
// Unparsable URLs report false.
func (e TrackingEvent) PageIsHTTPS() bool {
	u, err := url.Parse(e.URL)
	return err == nil && u.Scheme == "https"
}
