// Package sources manages the operator-supplied site and keyword lists. Both
// are flat text files: one entry per line, blank lines and #-comments
// ignored. A missing file is recovered by writing a documented template.
package sources

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

const websitesTemplate = `# Add websites to scrape, one per line
# Example:
# https://example-jobs.com/careers
`

const keywordsTemplate = `# Add job keywords to search for, one per line
# Examples:
python
software engineer
developer
data scientist
`

// defaultKeywords mirror the keywords template, returned when the file had
// to be created.
var defaultKeywords = []string{"python", "software engineer", "developer", "data scientist"}

// Manager reads and edits the websites and keywords files.
type Manager struct {
	websitesFile string
	keywordsFile string
	logger       *zap.Logger
}

func NewManager(websitesFile, keywordsFile string, logger *zap.Logger) *Manager {
	return &Manager{
		websitesFile: websitesFile,
		keywordsFile: keywordsFile,
		logger:       logger,
	}
}

// LoadWebsites returns the configured site URLs. A missing file is replaced
// with a commented template and an empty list.
func (m *Manager) LoadWebsites() ([]string, error) {
	entries, err := readLines(m.websitesFile)
	if os.IsNotExist(err) {
		m.logger.Warn("websites file not found, creating template",
			zap.String("path", m.websitesFile))
		if writeErr := os.WriteFile(m.websitesFile, []byte(websitesTemplate), 0o644); writeErr != nil {
			return nil, fmt.Errorf("failed to create websites template: %w", writeErr)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read websites file: %w", err)
	}
	return entries, nil
}

// LoadKeywords returns the configured keywords lowercased. A missing file is
// replaced with a template and the template's defaults are returned.
func (m *Manager) LoadKeywords() ([]string, error) {
	entries, err := readLines(m.keywordsFile)
	if os.IsNotExist(err) {
		m.logger.Warn("keywords file not found, creating default template",
			zap.String("path", m.keywordsFile))
		if writeErr := os.WriteFile(m.keywordsFile, []byte(keywordsTemplate), 0o644); writeErr != nil {
			return nil, fmt.Errorf("failed to create keywords template: %w", writeErr)
		}
		return append([]string(nil), defaultKeywords...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keywords file: %w", err)
	}

	for i, kw := range entries {
		entries[i] = strings.ToLower(kw)
	}
	return entries, nil
}

// AddWebsite appends url to the websites file unless already present.
func (m *Manager) AddWebsite(url string) (bool, error) {
	websites, err := m.LoadWebsites()
	if err != nil {
		return false, err
	}

	for _, existing := range websites {
		if existing == url {
			m.logger.Info("website already exists", zap.String("url", url))
			return false, nil
		}
	}

	f, err := os.OpenFile(m.websitesFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("failed to open websites file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := fmt.Fprintln(f, url); err != nil {
		return false, fmt.Errorf("failed to append website: %w", err)
	}

	m.logger.Info("added website", zap.String("url", url))
	return true, nil
}

// RemoveWebsite rewrites the websites file without url. Returns false when
// the url was not listed.
func (m *Manager) RemoveWebsite(url string) (bool, error) {
	websites, err := m.LoadWebsites()
	if err != nil {
		return false, err
	}

	var kept []string
	found := false
	for _, existing := range websites {
		if existing == url {
			found = true
			continue
		}
		kept = append(kept, existing)
	}
	if !found {
		m.logger.Info("website not found", zap.String("url", url))
		return false, nil
	}

	var sb strings.Builder
	sb.WriteString("# Add websites to scrape, one per line\n")
	for _, site := range kept {
		sb.WriteString(site)
		sb.WriteByte('\n')
	}

	if err := os.WriteFile(m.websitesFile, []byte(sb.String()), 0o644); err != nil {
		return false, fmt.Errorf("failed to rewrite websites file: %w", err)
	}

	m.logger.Info("removed website", zap.String("url", url))
	return true, nil
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	return entries, nil
}
