package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-scraper/internal/extract"
)

func TestAggregatorDeduplicatesByURL(t *testing.T) {
	agg := NewAggregator()
	agg.Add(
		extract.Candidate{Title: "First A", URL: "https://x/a"},
		extract.Candidate{Title: "B", URL: "https://x/b"},
	)
	agg.Add(extract.Candidate{Title: "Second A", URL: "https://x/a"})

	jobs := agg.Jobs()
	require.Len(t, jobs, 2)
	// First occurrence of each URL is the one retained.
	assert.Equal(t, "First A", jobs[0].Title)
	assert.Equal(t, "https://x/b", jobs[1].URL)
}

func TestAggregatorCollapsesFragmentVariants(t *testing.T) {
	agg := NewAggregator()
	agg.Add(
		extract.Candidate{Title: "Engineer", URL: "https://x/jobs/1#content"},
		extract.Candidate{Title: "Engineer again", URL: "https://x/jobs/1"},
		extract.Candidate{Title: "Padded", URL: "  https://x/jobs/2  "},
	)

	jobs := agg.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "https://x/jobs/1", jobs[0].URL)
	assert.Equal(t, "Engineer", jobs[0].Title)
	assert.Equal(t, "https://x/jobs/2", jobs[1].URL)
}

func TestAggregatorSkipsEmptyURL(t *testing.T) {
	agg := NewAggregator()
	agg.Add(extract.Candidate{Title: "No URL"})
	assert.Empty(t, agg.Jobs())
}

func TestWriterFormatsReport(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	jobs := []extract.Candidate{
		{
			Title:           "Backend Engineer",
			URL:             "https://x/jobs/1",
			SourceURL:       "https://x/careers",
			MatchedKeywords: []string{"go", "backend"},
		},
	}

	path, err := w.Write(jobs, filepath.Join(dir, "out.txt"), now)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "Job Search Results - 2026-03-14 09:30:00")
	assert.Contains(t, content, "1. Backend Engineer")
	assert.Contains(t, content, "   Source: https://x/careers")
	assert.Contains(t, content, "   Apply: https://x/jobs/1")
	assert.Contains(t, content, "   Matched Keywords: go, backend")
}

func TestWriterEmptyResults(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	path, err := w.Write(nil, "", time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "job_results_20260314_093000.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "No jobs found matching your criteria.")
}
