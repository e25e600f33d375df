// Package log provides privacy-preserving logging built on top of the
// standard slog package.
//
// TrackInsight handles visited-page URLs, and URL query strings routinely
// carry personal data (search terms, email addresses, session tokens). The
// SanitizeHandler makes sure none of that reaches log output:
//   - URL-valued attributes are reduced to scheme://host/path
//   - Attribute keys that suggest credentials or identifiers (cookie,
//     token, session, ...) have their values masked entirely
//
// Even in verbose mode, sanitization stays on; verbose only lowers the
// level threshold.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//	logger.Info("event ingested",
//	    "url", "https://shop.example/search?q=my+email",  // logged without the query
//	    "domain", "ads.tracker.example",
//	)
//	slog.SetDefault(logger)
package log
