package crawler

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/purell"
)

const linkFlags = purell.FlagsSafe |
	purell.FlagRemoveDotSegments |
	purell.FlagRemoveDuplicateSlashes |
	purell.FlagRemoveFragment |
	purell.FlagSortQuery

var nonDigits = regexp.MustCompile(`\D+`)

// digitsOnly strips currency symbols, thousands separators and anything
// else that is not a digit from a price label.
func digitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

func specName(s string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ":"))
}

func specValue(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", ";")
}

// NormalizeLink resolves href against base and returns the canonical
// absolute form used both for fetching and as the dedup key.
func NormalizeLink(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	u, err := base.Parse(href)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	return purell.NormalizeURL(u, linkFlags), true
}

// LinkNormalizer binds NormalizeLink to a base URL.
func LinkNormalizer(base *url.URL) func(string) (string, bool) {
	return func(href string) (string, bool) {
		return NormalizeLink(base, href)
	}
}
