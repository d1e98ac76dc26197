package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestExtractor() *Extractor {
	return NewExtractor(zap.NewNop())
}

func TestExtractGreenhouse(t *testing.T) {
	markup := `<script>window.gon = {"departments":[{"jobs":[
		{"title":"Engineer","absolute_url":"/jobs/1"},
		{"title":"Office Manager","absolute_url":"/jobs/2"}
	]}]};</script>`

	candidates := newTestExtractor().Extract(markup, "https://example.com/careers", []string{"engineer"})

	require.Len(t, candidates, 1)
	assert.Equal(t, "Engineer", candidates[0].Title)
	assert.Equal(t, "https://boards.greenhouse.io/jobs/1", candidates[0].URL)
	assert.Equal(t, "https://example.com/careers", candidates[0].SourceURL)
	assert.Equal(t, []string{"engineer"}, candidates[0].MatchedKeywords)
}

func TestExtractGreenhouseAbsoluteURLKept(t *testing.T) {
	markup := `<script>window.gon = {"departments":[{"jobs":[
		{"title":"Engineer","absolute_url":"https://jobs.example.com/1"}
	]}]};</script>`

	candidates := newTestExtractor().Extract(markup, "https://example.com", []string{"engineer"})

	require.Len(t, candidates, 1)
	assert.Equal(t, "https://jobs.example.com/1", candidates[0].URL)
}

func TestExtractLever(t *testing.T) {
	markup := `<script>window.INITIAL_STATE = {"postings":[
		{"text":"Backend Developer","hostedUrl":"https://jobs.lever.co/x/1","description":"Go and Postgres"}
	]};</script>`

	candidates := newTestExtractor().Extract(markup, "https://example.com", []string{"developer"})

	require.Len(t, candidates, 1)
	assert.Equal(t, "Backend Developer", candidates[0].Title)
	assert.Equal(t, "https://jobs.lever.co/x/1", candidates[0].URL)
}

func TestExtractPhenomCategoryLeniency(t *testing.T) {
	markup := `<script>phApp.ddo = {"eagerLoadRefineSearch":{"data":{"jobs":[
		{"title":"Field Technician","jobId":"991","descriptionTeaser":"On the road"}
	]}}};</script>`

	// On a category page ("/c/" in the source URL) jobs are accepted even
	// with zero keyword matches, tagged with the sentinel.
	candidates := newTestExtractor().Extract(markup, "https://careers.example.com/c/tech", []string{"python"})

	require.Len(t, candidates, 1)
	assert.Equal(t, "Field Technician", candidates[0].Title)
	assert.Equal(t, "https://careers.example.com/job/991", candidates[0].URL)
	assert.Equal(t, []string{SentinelCategory}, candidates[0].MatchedKeywords)

	// Off a category page the same job is dropped.
	candidates = newTestExtractor().Extract(markup, "https://careers.example.com/search", []string{"python"})
	assert.Empty(t, candidates)
}

func TestExtractPhenomApplyURLPreferred(t *testing.T) {
	markup := `<script>phApp.ddo = {"eagerLoadRefineSearch":{"data":{"jobs":[
		{"title":"Python Developer","applyUrl":"https://careers.example.com/apply/5","descriptionTeaser":"Django"}
	]}}};</script>`

	candidates := newTestExtractor().Extract(markup, "https://careers.example.com/c/eng", []string{"python"})

	require.Len(t, candidates, 1)
	assert.Equal(t, "https://careers.example.com/apply/5", candidates[0].URL)
	assert.Equal(t, []string{"python"}, candidates[0].MatchedKeywords)
}

func TestExtractGenericJobsArray(t *testing.T) {
	markup := `<script>var state = {"meta":1,"jobs":[
		{"name":"Data Scientist","link":"https://example.com/jobs/8","summary":"ML models"}
	]};</script>`

	candidates := newTestExtractor().Extract(markup, "https://example.com", []string{"data scientist"})

	require.Len(t, candidates, 1)
	assert.Equal(t, "Data Scientist", candidates[0].Title)
	assert.Equal(t, "https://example.com/jobs/8", candidates[0].URL)
}

func TestExtractJSONLD(t *testing.T) {
	markup := `<script type="application/ld+json">
		{"@type":"JobPosting","title":"Data Scientist","url":"https://x/y","description":"Statistics"}
	</script>`

	candidates := newTestExtractor().Extract(markup, "https://example.com", []string{"data scientist"})

	require.Len(t, candidates, 1)
	assert.Equal(t, "Data Scientist", candidates[0].Title)
	assert.Equal(t, "https://x/y", candidates[0].URL)
}

func TestExtractJSONLDDirectApplyWins(t *testing.T) {
	markup := `<script type="application/ld+json">
		{"@type":"JobPosting","title":"Analyst","directApply":"https://x/apply","url":"https://x/view"}
	</script>`

	candidates := newTestExtractor().Extract(markup, "https://example.com", []string{"analyst"})

	require.Len(t, candidates, 1)
	assert.Equal(t, "https://x/apply", candidates[0].URL)
}

func TestExtractJSONLDRequiresKeyword(t *testing.T) {
	markup := `<script type="application/ld+json">
		{"@type":"JobPosting","title":"Analyst","url":"https://x/y"}
	</script>`

	candidates := newTestExtractor().Extract(markup, "https://example.com", []string{"engineer"})
	assert.Empty(t, candidates)
}

func TestExtractIgnoresNonJobPostingJSONLD(t *testing.T) {
	markup := `<script type="application/ld+json">
		{"@type":"Organization","name":"Example Corp","url":"https://x"}
	</script>`

	candidates := newTestExtractor().Extract(markup, "https://example.com", []string{"example"})
	assert.Empty(t, candidates)
}

func TestExtractMalformedJSONSkipped(t *testing.T) {
	markup := `<script>window.jobData = {"jobs": [broken};</script>
		<script type="application/ld+json">{not json}</script>
		<script>window.gon = {"departments":[{"jobs":[{"title":"Engineer","absolute_url":"/jobs/3"}]}]};</script>`

	candidates := newTestExtractor().Extract(markup, "https://example.com", []string{"engineer"})

	// The broken blobs are skipped; the valid one still extracts.
	require.Len(t, candidates, 1)
	assert.Equal(t, "https://boards.greenhouse.io/jobs/3", candidates[0].URL)
}

func TestExtractFirstShapeWins(t *testing.T) {
	// A blob matching both the Greenhouse and Lever layouts: greenhouse sits
	// earlier in the shape order and settles the blob.
	markup := `<script>window.__INITIAL_STATE__ = {` +
		`"departments":[{"jobs":[{"title":"SRE","absolute_url":"/jobs/1"}]}],` +
		`"postings":[{"text":"SRE","hostedUrl":"https://jobs.lever.co/x/2"}]};</script>`

	candidates := newTestExtractor().Extract(markup, "https://example.com", []string{"sre"})

	require.Len(t, candidates, 1)
	assert.Equal(t, "https://boards.greenhouse.io/jobs/1", candidates[0].URL)
}
