// Package discover — bulletin link rules.
// Helpers that recognize DPI PDF links and recover publication dates from
// their filenames.
package discover

import (
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"
)

// bulletinLinkRe matches hrefs pointing at Daily Price Index PDFs.
var bulletinLinkRe = regexp.MustCompile(`(?i)(?:Daily[-_ ]?Price[-_ ]?Index|DPI).*\.pdf$`)

// filenameDateRe captures the date fragment of bulletin filenames like
// "December-10-2025-DPI-AFC.pdf".
var filenameDateRe = regexp.MustCompile(`([A-Za-z]+-\d{1,2}-\d{4})`)

// filenameDateLayouts are the month spellings seen in bulletin filenames.
var filenameDateLayouts = []string{
	"January-2-2006",
	"Jan-2-2006",
}

// IsBulletinLink reports whether an href points at a DPI bulletin PDF.
func IsBulletinLink(href string) bool {
	return bulletinLinkRe.MatchString(href)
}

// DateFromFilename extracts the publication date from a bulletin filename.
func DateFromFilename(name string) (time.Time, bool) {
	m := filenameDateRe.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}
	for _, layout := range filenameDateLayouts {
		if t, err := time.Parse(layout, m[1]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Filename returns the last path segment of a bulletin URL.
func Filename(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return path.Base(parsed.Path)
}

// resolveURL resolves a potentially relative href against a base.
func resolveURL(href string, base *url.URL) string {
	if strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "tel:") || strings.HasPrefix(href, "#") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(parsed)
	resolved.Fragment = ""
	return resolved.String()
}
