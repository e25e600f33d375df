package compare

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/trackinsight/trackinsight/internal/category"
	"github.com/trackinsight/trackinsight/internal/model"
)

var titleCaser = cases.Title(language.English)

// categoryInsight buckets a category percentile into a one-sentence reading.
func categoryInsight(percentile int, categoryName string) string {
	name := titleCaser.String(categoryName)
	switch {
	case percentile >= 80:
		return fmt.Sprintf("Excellent: this site respects your privacy better than %d%% of %s sites.", percentile, name)
	case percentile >= 60:
		return fmt.Sprintf("Good: this site ranks above most %s sites for privacy.", name)
	case percentile >= 40:
		return fmt.Sprintf("Average: this site tracks about as much as a typical %s site.", name)
	case percentile >= 20:
		return fmt.Sprintf("Below average: most %s sites track less than this one.", name)
	default:
		return fmt.Sprintf("Poor: this site is among the most tracking-heavy %s sites.", name)
	}
}

// historyInsight interprets a percentile within the caller's own history.
func historyInsight(percentile int) string {
	switch {
	case percentile >= 80:
		return fmt.Sprintf("This site tracks you less than %d%% of the sites you visit.", percentile)
	case percentile >= 50:
		return "This site is about as tracking-heavy as the rest of your browsing."
	default:
		return fmt.Sprintf("This site tracks you more than %d%% of the sites you visit.", 100-percentile)
	}
}

// peerInsight buckets a 1-based rank within the peer population.
func peerInsight(rank, population int, categoryName string) string {
	name := titleCaser.String(categoryName)
	fraction := float64(rank) / float64(population)
	switch {
	case fraction <= 0.3:
		return fmt.Sprintf("Ranked %d of %d: among the most private %s sites you visit.", rank, population, name)
	case fraction > 0.7:
		return fmt.Sprintf("Ranked %d of %d: among the most tracking-heavy %s sites you visit.", rank, population, name)
	default:
		return fmt.Sprintf("Ranked %d of %d among the %s sites you visit.", rank, population, name)
	}
}

// suggestions derives improvement advice from the score gap and the
// category's declared risk profile. Stronger wording comes first for
// critical and high risk categories.
func suggestions(score, baseline int, cat category.Category) []string {
	var out []string
	highRisk := cat.RiskProfile == model.RiskCritical || cat.RiskProfile == model.RiskHigh

	gap := baseline - score
	switch {
	case gap > 20:
		out = append(out, "This site tracks far more than its baseline. Consider a tracker-blocking extension or avoiding the site.")
	case gap > 0:
		out = append(out, "This site tracks slightly more than its baseline. Enabling third-party cookie blocking would close the gap.")
	}

	if highRisk {
		name := titleCaser.String(cat.Name)
		out = append(out, fmt.Sprintf("%s sites carry elevated tracking risk. Use private browsing or a dedicated browser profile for them.", name))
	}
	if gap <= 0 && !highRisk {
		out = append(out, "This site already performs at or above its baseline. Keep your current protections enabled.")
	}
	return out
}
