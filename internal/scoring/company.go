package scoring

import (
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/trackinsight/trackinsight/internal/model"
)

// strippedPrefixes are well-known subdomain prefixes that hide which
// company operates a tracker host. They are removed before extracting the
// company key, so "analytics.bigcorp.com" and "ads.bigcorp.com" group
// under the same company.
var strippedPrefixes = []string{"www.", "analytics.", "tracking.", "ads."}

// CompanyKey reduces a tracker domain to a normalized company identifier.
//
// Known subdomain prefixes are stripped, then the registrable domain
// (eTLD+1) is resolved with the public suffix list and its first label
// becomes the key, so "tracker.example.co.uk" yields "example" rather than
// "co". When the public-suffix lookup fails (bare hosts, IPs, single
// labels), the naive second-level label is used as a fallback.
// The empty string is returned for hosts with no usable label.
func CompanyKey(domain string) string {
	host := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(domain), "."))
	if host == "" {
		return ""
	}

	for _, prefix := range strippedPrefixes {
		if strings.HasPrefix(host, prefix) && len(host) > len(prefix) {
			host = host[len(prefix):]
			break
		}
	}

	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		if label, _, found := strings.Cut(etld1, "."); found {
			return label
		}
		return etld1
	}

	// Fallback: naive second-level label.
	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		return parts[len(parts)-2]
	}
	return host
}

// DistinctCompanies returns the sorted set of company keys present in the
// events. Events whose domain yields no usable key are skipped.
func DistinctCompanies(events []model.TrackingEvent) []string {
	seen := make(map[string]struct{})
	for _, ev := range events {
		if key := CompanyKey(ev.Domain); key != "" {
			seen[key] = struct{}{}
		}
	}

	companies := make([]string, 0, len(seen))
	for key := range seen {
		companies = append(companies, key)
	}
	sort.Strings(companies)
	return companies
}
