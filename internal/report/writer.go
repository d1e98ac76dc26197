package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jobscout-scraper/internal/extract"
)

// Writer renders the final report file. When no explicit output path is
// given, reports land in outputDir under a timestamped name.
type Writer struct {
	outputDir string
}

func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// Write saves jobs to outputPath, or to a generated timestamped path when
// outputPath is empty. Returns the path written.
func (w *Writer) Write(jobs []extract.Candidate, outputPath string, now time.Time) (string, error) {
	if outputPath == "" {
		if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create report directory: %w", err)
		}
		outputPath = filepath.Join(w.outputDir,
			fmt.Sprintf("job_results_%s.txt", now.Format("20060102_150405")))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Job Search Results - %s\n", now.Format("2006-01-02 15:04:05"))
	sb.WriteString(strings.Repeat("=", 60) + "\n\n")

	if len(jobs) == 0 {
		sb.WriteString("No jobs found matching your criteria.\n")
	} else {
		for i, job := range jobs {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, job.Title)
			fmt.Fprintf(&sb, "   Source: %s\n", job.SourceURL)
			fmt.Fprintf(&sb, "   Apply: %s\n", job.URL)
			fmt.Fprintf(&sb, "   Matched Keywords: %s\n", strings.Join(job.MatchedKeywords, ", "))
			sb.WriteString(strings.Repeat("-", 40) + "\n")
		}
	}

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return outputPath, nil
}
