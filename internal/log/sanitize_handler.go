package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
)

// sensitiveKeys contains attribute keys whose values are always masked.
// These keys commonly carry identifiers that could re-identify a user.
var sensitiveKeys = map[string]bool{
	"cookie":       true,
	"set-cookie":   true,
	"session":      true,
	"session_id":   true,
	"sessionid":    true,
	"token":        true,
	"access_token": true,
	"api_key":      true,
	"apikey":       true,
	"password":     true,
	"secret":       true,
	"fingerprint":  true,
	"client_id":    true,
	"user_id":      true,
	"email":        true,
}

// sensitiveKeywords are substrings that flag a key as sensitive even when
// it is not an exact match in sensitiveKeys.
var sensitiveKeywords = []string{
	"password", "secret", "token", "credential", "session", "email",
}

// MaskValue is the string used to replace masked attribute values.
const MaskValue = "***REDACTED***"

// SanitizeHandler wraps an slog.Handler and strips personal data from log
// records before they reach the underlying handler. It reduces URL-valued
// attributes to scheme://host/path and masks values under sensitive keys.
// Wrapping a handler rather than a logger keeps it compatible with any
// output format and with slog.SetDefault.
type SanitizeHandler struct {
	handler slog.Handler
}

// NewSanitizeHandler creates a SanitizeHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewSanitizeHandler(handler slog.Handler) *SanitizeHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SanitizeHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *SanitizeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it on.
func (h *SanitizeHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are sanitized before being added.
func (h *SanitizeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SanitizeHandler{handler: h.handler.WithAttrs(sanitizedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *SanitizeHandler) WithGroup(name string) slog.Handler {
	return &SanitizeHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr sanitizes a single attribute, recursively handling groups.
func (h *SanitizeHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	}

	keyLower := strings.ToLower(a.Key)
	if sensitiveKeys[keyLower] || containsSensitiveKeyword(keyLower) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString {
		if stripped, ok := StripURL(a.Value.String()); ok {
			return slog.String(a.Key, stripped)
		}
	}

	return a
}

// containsSensitiveKeyword checks if the key contains a sensitive keyword.
func containsSensitiveKeyword(key string) bool {
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// StripURL reduces an absolute URL to scheme://host/path, dropping query,
// fragment, and userinfo. The second return value is false when the string
// is not an absolute URL, in which case the value is left alone.
func StripURL(s string) (string, bool) {
	if !strings.Contains(s, "://") {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	stripped := url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}
	return stripped.String(), true
}

// NewLogger creates a *slog.Logger with sanitizing text output.
//
// Parameters:
//   - w: the io.Writer to write log output to (typically os.Stderr)
//   - verbose: if true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewSanitizeHandler(textHandler))
}

// NewJSONLogger creates a *slog.Logger with sanitizing JSON output.
// Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewSanitizeHandler(jsonHandler))
}
