// Package normalize cleans the free-text and date fields of source rows.
//
// All functions are pure and never fail: unusable input resolves to an empty
// value rather than an error.
package normalize

import (
	"regexp"
	"strings"

	"github.com/emiliopalmerini/crodash/internal/domain"
)

var (
	htmlTag      = regexp.MustCompile(`<[^>]*>?`)
	statusPrefix = regexp.MustCompile(`^\d+\s+`)

	entityReplacer = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&quot;", `"`,
		"&lt;", "<",
		"&gt;", ">",
	)
)

// StripHTML removes tag sequences and unescapes the common HTML entities.
// Unknown entities are left as they are.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	return entityReplacer.Replace(htmlTag.ReplaceAllString(s, ""))
}

// CleanStatus drops a leading ordinal such as "3 " from a status name.
func CleanStatus(s string) string {
	return statusPrefix.ReplaceAllString(s, "")
}

// SplitMarkets splits a comma-separated market list, trimming tokens and
// dropping empty ones. Order of first appearance is kept.
func SplitMarkets(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, tok := range strings.Split(s, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// MergeMarkets unions market lists without duplicates.
func MergeMarkets(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, m := range list {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

// CanonicalizeResult maps free-text outcomes onto the Result enum.
func CanonicalizeResult(s string) domain.Result {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "":
		return domain.ResultUnknown
	case strings.Contains(v, "winner"):
		return domain.ResultWinner
	case strings.Contains(v, "loser"), strings.Contains(v, "looser"):
		return domain.ResultLoser
	case strings.Contains(v, "inconclusive"):
		return domain.ResultInconclusive
	default:
		return domain.ResultUnknown
	}
}

// LooksLikeURL reports whether a page-type value is really a pasted link.
func LooksLikeURL(s string) bool {
	return strings.Contains(strings.ToLower(s), "http")
}
