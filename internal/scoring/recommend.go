package scoring

import "github.com/trackinsight/trackinsight/internal/model"

// recommendations emits one advice sentence per fired condition, in fixed
// priority order: critical-risk exposure first, then cross-site tracking,
// then persistent tracking, then generic volume advice. A fixed order keeps
// Score deterministic for identical inputs regardless of event order.
func (e *Engine) recommendations(b model.ScoreBreakdown) []string {
	var recs []string

	if b.CriticalCount > 0 {
		recs = append(recs,
			"Critical-risk trackers were detected on this page; consider blocking scripts here or avoiding the site for sensitive activity.")
	}
	if b.CrossSitePenalty {
		recs = append(recs,
			"Trackers from several companies are sharing this page; enable third-party cookie blocking to limit cross-site profiling.")
	}
	if b.PersistentTrackingPenalty {
		recs = append(recs,
			"Persistent tracking techniques such as fingerprinting were observed; a fingerprint-resistant browser profile reduces this exposure.")
	}
	if b.ExcessiveTrackingPenalty {
		recs = append(recs,
			"This page loads an unusually high number of trackers; a content blocker would noticeably reduce the volume.")
	}

	return recs
}
