package source

import (
	"regexp"
	"strings"
)

var (
	seasonSuffixRe   = regexp.MustCompile(`(?i):\s*Season.*$`)
	trailingNumberRe = regexp.MustCompile(`\s+\d+$`)
)

// NormalizeShowName reduces a market subtitle to the canonical show title
// used for all popularity lookups. "Stranger Things: Season 5" and
// "Stranger Things 5" both normalize to "Stranger Things".
func NormalizeShowName(raw string) string {
	if raw == "" {
		return ""
	}
	name := seasonSuffixRe.ReplaceAllString(raw, "")
	name = trailingNumberRe.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// WikipediaArticle converts a show title to the article form the
// Wikimedia pageviews API expects, with underscores for spaces.
func WikipediaArticle(show string) string {
	return strings.ReplaceAll(strings.TrimSpace(show), " ", "_")
}
