package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobscout-scraper/internal/classify"
	"jobscout-scraper/internal/config"
	"jobscout-scraper/internal/extract"
	"jobscout-scraper/internal/fetcher"
	"jobscout-scraper/internal/links"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Crawl.SiteDelayMS = 0
	cfg.RateLimit.PerHostRPS = 1000
	cfg.RateLimit.PerHostBurst = 100
	return cfg
}

func newTestOrchestrator(cfg *config.Config) *Orchestrator {
	logger := zap.NewNop()
	return NewOrchestrator(
		cfg,
		logger,
		fetcher.NewFetcher(cfg, logger),
		classify.NewClassifier(classify.DefaultLexicon(), logger),
		links.NewPrioritizer(cfg.Crawl.MaxLinksPerSite, logger),
		extract.NewExtractor(logger),
	)
}

func TestCrawlSiteFollowsPrioritizedLinks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Careers</title></head><body><main>
			<p>Browse jobs at Example.</p>
			<a href="/jobs/1">View job</a>
			<a href="/jobs/2">View job</a>
		</main></body></html>`))
	})
	mux.HandleFunc("/jobs/1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Ignored</title></head><body>
			<h1>Senior Python Developer</h1>
			<p>Apply now. Responsibilities: write python. We are a remote team.</p>
		</body></html>`))
	})
	mux.HandleFunc("/jobs/2", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><h1>Quarterly update</h1><p>Nothing to see.</p></body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	o := newTestOrchestrator(testConfig())
	candidates, err := o.CrawlSite(context.Background(), server.URL, []string{"python"})
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, "Senior Python Developer", candidates[0].Title)
	assert.Equal(t, server.URL+"/jobs/1", candidates[0].URL)
	assert.Equal(t, server.URL, candidates[0].SourceURL)
	assert.Equal(t, []string{"python"}, candidates[0].MatchedKeywords)
}

func TestCrawlSiteClassifiesElements(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// "Results found" keeps the page-level pass out via anti-patterns;
		// the element subtree avoids it.
		_, _ = w.Write([]byte(`<html><body>
			<p>Results found: 1</p>
			<article class="job-listing">
				<h3>Go Developer</h3>
				<p>Apply now. Requirements: Go experience.</p>
				<a href="/jobs/9">Apply now</a>
			</article>
		</body></html>`))
	})
	mux.HandleFunc("/jobs/9", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	o := newTestOrchestrator(testConfig())
	candidates, err := o.CrawlSite(context.Background(), server.URL, []string{"go developer"})
	require.NoError(t, err)

	// The article matches three job-ish selectors but is collapsed to one
	// candidate; the dead /jobs/9 link is skipped, not fatal.
	require.Len(t, candidates, 1)
	assert.Equal(t, "Go Developer", candidates[0].Title)
	assert.Equal(t, server.URL+"/jobs/9", candidates[0].URL)
}

func TestCrawlSiteExtractsStructuredData(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<script>window.gon = {"departments":[{"jobs":[
				{"title":"Platform Engineer","absolute_url":"/jobs/42"}
			]}]};</script>
		</body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	o := newTestOrchestrator(testConfig())
	candidates, err := o.CrawlSite(context.Background(), server.URL, []string{"engineer"})
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, "https://boards.greenhouse.io/jobs/42", candidates[0].URL)
}

func TestRunDeduplicatesAcrossSites(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<script>window.gon = {"departments":[{"jobs":[
				{"title":"Platform Engineer","absolute_url":"/jobs/42"}
			]}]};</script>
		</body></html>`))
	})
	serverA := httptest.NewServer(handler)
	defer serverA.Close()
	serverB := httptest.NewServer(handler)
	defer serverB.Close()

	o := newTestOrchestrator(testConfig())
	jobs, stats, err := o.Run(context.Background(), []string{serverA.URL, serverB.URL}, []string{"engineer"})
	require.NoError(t, err)

	require.Len(t, jobs, 1)
	assert.Equal(t, 2, stats.SitesCrawled)
	assert.Equal(t, 2, stats.TotalCandidates)
	assert.Equal(t, 1, stats.UniqueJobs)
}

func TestRunSiteFailureIsNonFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<script>window.gon = {"departments":[{"jobs":[
				{"title":"Platform Engineer","absolute_url":"/jobs/42"}
			]}]};</script>
		</body></html>`))
	}))
	defer server.Close()

	dead := httptest.NewServer(nil)
	dead.Close()

	o := newTestOrchestrator(testConfig())
	jobs, stats, err := o.Run(context.Background(), []string{dead.URL, server.URL}, []string{"engineer"})
	require.NoError(t, err)

	require.Len(t, jobs, 1)
	assert.Equal(t, 1, stats.SitesCrawled)
	assert.Equal(t, 1, stats.SitesFailed)
}

func TestRunRequiresSitesAndKeywords(t *testing.T) {
	o := newTestOrchestrator(testConfig())

	jobs, stats, err := o.Run(context.Background(), nil, []string{"python"})
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.Equal(t, 0, stats.SitesCrawled)

	jobs, _, err = o.Run(context.Background(), []string{"https://example.com"}, nil)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestRunHonorsCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>hello</p></body></html>`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := newTestOrchestrator(testConfig())
	_, _, err := o.Run(ctx, []string{server.URL, server.URL}, []string{"python"})
	assert.Error(t, err)
}
