package app

import (
	"bytes"
	"context"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"jobscout-scraper/internal/classify"
	"jobscout-scraper/internal/config"
	"jobscout-scraper/internal/extract"
	"jobscout-scraper/internal/fetcher"
	"jobscout-scraper/internal/links"
	"jobscout-scraper/internal/normalize"
	"jobscout-scraper/internal/report"
)

// jobElementSelectors pick page regions likely to hold an individual posting.
var jobElementSelectors = []string{
	".job-listing", ".job-post", ".position", ".opening",
	`[class*="job"]`, `[class*="position"]`, `[class*="career"]`,
	"article", ".listing", ".vacancy",
}

const elementTitleFallbackLen = 100

// Fetcher is the transport dependency of the orchestrator.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.FetchResponse, error)
}

// Orchestrator drives the per-site pipeline: fetch, structured extraction,
// page and element classification, link prioritization, and the bounded
// follow-up fetches. Sites are crawled one at a time; per-link failures are
// logged and skipped.
type Orchestrator struct {
	cfg         *config.Config
	logger      *zap.Logger
	fetcher     Fetcher
	classifier  *classify.Classifier
	prioritizer *links.Prioritizer
	extractor   *extract.Extractor
}

func NewOrchestrator(
	cfg *config.Config,
	logger *zap.Logger,
	f Fetcher,
	classifier *classify.Classifier,
	prioritizer *links.Prioritizer,
	extractor *extract.Extractor,
) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		logger:      logger,
		fetcher:     f,
		classifier:  classifier,
		prioritizer: prioritizer,
		extractor:   extractor,
	}
}

type CrawlStats struct {
	SitesCrawled    int
	SitesFailed     int
	TotalCandidates int
	UniqueJobs      int
}

// Run crawls every site and returns the deduplicated job list. An empty site
// or keyword set short-circuits with a warning and no results.
func (o *Orchestrator) Run(ctx context.Context, websites, keywords []string) ([]extract.Candidate, *CrawlStats, error) {
	stats := &CrawlStats{}

	if len(websites) == 0 {
		o.logger.Warn("no websites to scrape, add entries to the websites file")
		return nil, stats, nil
	}
	if len(keywords) == 0 {
		o.logger.Warn("no keywords specified, add entries to the keywords file")
		return nil, stats, nil
	}

	agg := report.NewAggregator()

	for i, site := range websites {
		if i > 0 {
			if err := sleepCtx(ctx, o.cfg.GetSiteDelay()); err != nil {
				return agg.Jobs(), stats, err
			}
		}

		candidates, err := o.CrawlSite(ctx, site, keywords)
		if err != nil {
			if ctx.Err() != nil {
				return agg.Jobs(), stats, ctx.Err()
			}
			// Transport failure on the site page itself: log and move on.
			o.logger.Error("failed to crawl site", zap.String("url", site), zap.Error(err))
			stats.SitesFailed++
			continue
		}

		stats.SitesCrawled++
		stats.TotalCandidates += len(candidates)
		agg.Add(candidates...)
	}

	jobs := agg.Jobs()
	stats.UniqueJobs = len(jobs)

	o.logger.Info("crawl finished",
		zap.Int("sites_crawled", stats.SitesCrawled),
		zap.Int("sites_failed", stats.SitesFailed),
		zap.Int("total_candidates", stats.TotalCandidates),
		zap.Int("unique_jobs", stats.UniqueJobs),
	)

	return jobs, stats, nil
}

// CrawlSite runs the full pipeline for one site URL.
func (o *Orchestrator) CrawlSite(ctx context.Context, siteURL string, keywords []string) ([]extract.Candidate, error) {
	o.logger.Info("scraping site", zap.String("url", siteURL))

	resp, err := o.fetcher.Fetch(ctx, siteURL)
	if err != nil {
		return nil, err
	}

	var candidates []extract.Candidate

	// Structured data first: vendor JSON and JSON-LD bypass classification.
	structured := o.extractor.Extract(string(resp.Body), siteURL, keywords)
	if len(structured) > 0 {
		o.logger.Info("structured data yielded jobs",
			zap.String("url", siteURL),
			zap.Int("count", len(structured)),
		)
		candidates = append(candidates, structured...)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return candidates, err
	}

	candidates = append(candidates, o.classifyPage(doc, siteURL, keywords)...)
	candidates = append(candidates, o.classifyElements(doc, siteURL, keywords)...)

	linkCandidates, err := o.followLinks(ctx, doc, siteURL, keywords)
	if err != nil {
		return candidates, err
	}
	candidates = append(candidates, linkCandidates...)

	o.logger.Info("site crawl complete",
		zap.String("url", siteURL),
		zap.Int("candidates", len(candidates)),
	)
	return candidates, nil
}

// classifyPage treats the whole page as a potential posting. Listing pages
// (boards, search results) are excluded even when the classifier accepts the
// text, since their jobs are reached through links instead.
func (o *Orchestrator) classifyPage(doc *goquery.Document, siteURL string, keywords []string) []extract.Candidate {
	pageText := normalize.PageText(doc)

	isJob, matched := o.classifier.Classify(pageText, keywords, siteURL)
	if !isJob {
		return nil
	}
	if o.classifier.IsListingPage(pageText) {
		o.logger.Info("page looks like a listing, following individual links instead",
			zap.String("url", siteURL))
		return nil
	}

	title := pageTitle(doc, "Job Posting")
	o.logger.Info("page itself is a job posting",
		zap.String("url", siteURL),
		zap.String("title", title),
	)

	return []extract.Candidate{{
		Title:           title,
		URL:             siteURL,
		SourceURL:       siteURL,
		MatchedKeywords: matched,
	}}
}

// classifyElements classifies each job-ish DOM region independently.
// Elements matched by several selectors are collapsed to one.
func (o *Orchestrator) classifyElements(doc *goquery.Document, siteURL string, keywords []string) []extract.Candidate {
	seen := make(map[*html.Node]struct{})
	var elements []*goquery.Selection

	for _, selector := range jobElementSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			node := sel.Get(0)
			if _, dup := seen[node]; dup {
				return
			}
			seen[node] = struct{}{}
			elements = append(elements, sel)
		})
	}

	var candidates []extract.Candidate
	for _, sel := range elements {
		text := normalize.ElementText(sel)
		isJob, matched := o.classifier.Classify(text, keywords, siteURL)
		if !isJob {
			continue
		}

		title := normalize.CollapseWhitespace(sel.Find("h1, h2, h3, h4, a").First().Text())
		if title == "" {
			title = normalize.Truncate(text, elementTitleFallbackLen)
		}

		jobURL := siteURL
		if href, ok := sel.Find("a[href]").First().Attr("href"); ok {
			if abs := resolveAgainst(siteURL, href); abs != "" {
				jobURL = abs
			}
		}

		candidates = append(candidates, extract.Candidate{
			Title:           title,
			URL:             jobURL,
			SourceURL:       siteURL,
			MatchedKeywords: matched,
		})
	}
	return candidates
}

// followLinks fetches the prioritized outbound links and classifies each
// fetched page. Individual failures never abort the remaining links.
func (o *Orchestrator) followLinks(ctx context.Context, doc *goquery.Document, siteURL string, keywords []string) ([]extract.Candidate, error) {
	selected := o.prioritizer.Select(doc, siteURL, keywords)

	var candidates []extract.Candidate
	for _, link := range selected {
		if ctx.Err() != nil {
			return candidates, ctx.Err()
		}

		o.logger.Info("checking prioritized link",
			zap.String("url", link.URL),
			zap.String("tier", string(link.Tier)),
		)

		resp, err := o.fetcher.Fetch(ctx, link.URL)
		if err != nil {
			o.logger.Debug("could not check link", zap.String("url", link.URL), zap.Error(err))
			continue
		}

		linkDoc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
		if err != nil {
			o.logger.Debug("could not parse link page", zap.String("url", link.URL), zap.Error(err))
			continue
		}

		linkText := normalize.PageText(linkDoc)
		isJob, matched := o.classifier.Classify(linkText, keywords, link.URL)
		if !isJob {
			continue
		}

		title := pageTitle(linkDoc, link.AnchorText)
		title = normalize.CleanTitle(title)

		o.logger.Info("found job", zap.String("title", title), zap.String("url", link.URL))
		candidates = append(candidates, extract.Candidate{
			Title:           title,
			URL:             link.URL,
			SourceURL:       siteURL,
			MatchedKeywords: matched,
		})
	}

	return candidates, nil
}

// pageTitle returns the first h1/h2 text, then the <title>, then fallback.
func pageTitle(doc *goquery.Document, fallback string) string {
	if heading := normalize.CollapseWhitespace(doc.Find("h1, h2").First().Text()); heading != "" {
		return heading
	}
	if title := normalize.CollapseWhitespace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return fallback
}

func resolveAgainst(baseURL, href string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
