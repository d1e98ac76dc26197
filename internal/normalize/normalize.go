// Package normalize turns fetched markup into the plain text the classifier
// consumes, and cleans up titles and URLs for reporting.
package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const maxTitleLen = 100

var whitespaceRun = regexp.MustCompile(`\s+`)

// PageText extracts the visible text of a parsed document with script and
// style noise removed, NBSPs replaced, and whitespace collapsed.
func PageText(doc *goquery.Document) string {
	clone := doc.Selection.Clone()
	clone.Find("script, style, noscript").Remove()
	return CollapseWhitespace(clone.Text())
}

// ElementText extracts the collapsed text of a single DOM subtree.
func ElementText(sel *goquery.Selection) string {
	return CollapseWhitespace(sel.Text())
}

// CleanTitle collapses whitespace and truncates long titles with an ellipsis.
func CleanTitle(title string) string {
	title = CollapseWhitespace(title)
	if utf8.RuneCountInString(title) > maxTitleLen {
		title = Truncate(title, maxTitleLen) + "..."
	}
	return title
}

// Truncate cuts text to at most n runes, used for element-derived fallback
// titles. Cutting on runes keeps multi-byte titles valid UTF-8.
func Truncate(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n])
}

func CollapseWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// NormalizeURL trims surrounding space and strips fragments.
func NormalizeURL(urlStr string) string {
	urlStr = strings.TrimSpace(urlStr)
	if idx := strings.Index(urlStr, "#"); idx > -1 {
		urlStr = urlStr[:idx]
	}
	return urlStr
}
