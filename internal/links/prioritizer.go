package links

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Tier is the priority bucket a candidate link lands in before crawl slots
// are allocated.
type Tier string

const (
	TierHigh      Tier = "high"
	TierHighJobID Tier = "high-jobid"
	TierMedium    Tier = "medium"
	TierLow       Tier = "low"
)

// Link is an outbound anchor worth following, with its resolved absolute URL.
type Link struct {
	URL        string
	AnchorText string
	Tier       Tier
}

// mainContentSelectors locate the region link discovery is scoped to.
// First match wins; the whole document is the fallback.
var mainContentSelectors = []string{
	"main", ".main", "#main", ".content", "#content", ".main-content",
	".page-content", ".job-listings", ".jobs", ".positions", ".careers-content",
	"article", ".container", ".wrapper",
}

// headerSelectors mark navigation chrome whose links are never postings.
var headerSelectors = []string{
	"header", "nav", ".header", ".nav", ".navbar", ".navigation",
	".menu", ".top-nav", ".main-nav", ".site-header", ".page-header",
	".breadcrumb", ".breadcrumbs", ".footer", ".site-footer",
}

// highPriorityPhrases are explicit action phrases in anchor text.
var highPriorityPhrases = []string{
	"apply now", "apply for", "view job", "job details", "apply today",
	"submit application", "apply here", "learn more", "see details",
	"view position", "more info",
}

// jobTermPhrases are generic job-domain terms checked in anchor text or href.
var jobTermPhrases = []string{
	"job", "career", "position", "opening", "vacancy", "hiring",
	"opportunity", "role", "employment",
}

var jobIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/jobs/\d+`),
	regexp.MustCompile(`(?i)/job/\d+`),
	regexp.MustCompile(`(?i)/position/\d+`),
	regexp.MustCompile(`(?i)/opening/\d+`),
	regexp.MustCompile(`(?i)/careers/\d+`),
	regexp.MustCompile(`(?i)/opportunity/\d+`),
	regexp.MustCompile(`(?i)/role/\d+`),
}

var socialDomains = []string{
	"facebook.com", "twitter.com", "linkedin.com", "instagram.com", "youtube.com",
}

// Prioritizer buckets a page's outbound anchors by how likely they are to
// lead to an individual job posting and allocates crawl slots greedily by
// tier. Ties within a tier keep document order.
type Prioritizer struct {
	maxLinks int
	logger   *zap.Logger
}

func NewPrioritizer(maxLinks int, logger *zap.Logger) *Prioritizer {
	return &Prioritizer{
		maxLinks: maxLinks,
		logger:   logger,
	}
}

// Select returns up to maxLinks candidate links from doc, resolved against
// pageURL. High-tier links (action phrases and job-ID URLs pooled together)
// fill up to max(8, maxLinks/2) slots first, then medium, then low.
func (p *Prioritizer) Select(doc *goquery.Document, pageURL string, keywords []string) []Link {
	base, err := url.Parse(pageURL)
	if err != nil {
		p.logger.Debug("invalid page URL", zap.String("url", pageURL), zap.Error(err))
		return nil
	}

	scope := findMainContent(doc)

	var high, medium, low []Link
	scope.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if shouldSkipHref(href) || inHeaderArea(sel) {
			return
		}

		anchorText := strings.ToLower(strings.TrimSpace(sel.Text()))
		tier, ok := classifyAnchor(anchorText, href, keywords)
		if !ok {
			return
		}

		abs := resolveURL(base, href)
		if abs == "" {
			return
		}

		link := Link{URL: abs, AnchorText: anchorText, Tier: tier}
		switch tier {
		case TierHigh, TierHighJobID:
			high = append(high, link)
		case TierMedium:
			medium = append(medium, link)
		case TierLow:
			low = append(low, link)
		}
	})

	p.logger.Debug("categorized links",
		zap.String("url", pageURL),
		zap.Int("high", len(high)),
		zap.Int("medium", len(medium)),
		zap.Int("low", len(low)),
	)

	return p.fill(high, medium, low)
}

// fill is a greedy priority fill, not a global rank: the high tier gets a
// fixed share of slots even when lower tiers would go unserved.
func (p *Prioritizer) fill(high, medium, low []Link) []Link {
	highCap := p.maxLinks / 2
	if highCap < 8 {
		highCap = 8
	}
	if highCap > len(high) {
		highCap = len(high)
	}

	selected := make([]Link, 0, p.maxLinks)
	selected = append(selected, high[:highCap]...)

	for _, link := range medium {
		if len(selected) >= p.maxLinks {
			break
		}
		selected = append(selected, link)
	}
	for _, link := range low {
		if len(selected) >= p.maxLinks {
			break
		}
		selected = append(selected, link)
	}

	if len(selected) > p.maxLinks {
		selected = selected[:p.maxLinks]
	}
	return selected
}

func classifyAnchor(anchorText, href string, keywords []string) (Tier, bool) {
	for _, phrase := range highPriorityPhrases {
		if strings.Contains(anchorText, phrase) {
			return TierHigh, true
		}
	}

	for _, pattern := range jobIDPatterns {
		if pattern.MatchString(href) {
			return TierHighJobID, true
		}
	}

	hrefLower := strings.ToLower(href)
	for _, term := range jobTermPhrases {
		if strings.Contains(anchorText, term) || strings.Contains(hrefLower, term) {
			return TierMedium, true
		}
	}

	for _, kw := range keywords {
		if strings.Contains(anchorText, kw) {
			return TierLow, true
		}
	}

	return "", false
}

func findMainContent(doc *goquery.Document) *goquery.Selection {
	for _, selector := range mainContentSelectors {
		sel := doc.Find(selector)
		if sel.Length() > 0 {
			return sel.First()
		}
	}
	return doc.Selection
}

func shouldSkipHref(href string) bool {
	if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") {
		return true
	}
	for _, domain := range socialDomains {
		if strings.Contains(href, domain) {
			return true
		}
	}
	return false
}

func inHeaderArea(sel *goquery.Selection) bool {
	for _, selector := range headerSelectors {
		if sel.ParentsFiltered(selector).Length() > 0 {
			return true
		}
	}
	return false
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
