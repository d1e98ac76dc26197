// Package extract recovers job records from machine-readable data embedded in
// page markup: vendor-specific JavaScript state blobs and JSON-LD JobPosting
// blocks. Extraction is best-effort; malformed JSON is skipped, never fatal.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// SentinelCategory stands in for matched keywords when a candidate is
// accepted on structural context (a vendor category page) rather than a
// keyword hit.
const SentinelCategory = "relevant category"

const defaultTitle = "Unknown Position"

// Candidate is one job record recovered during a crawl pass. URL is the
// dedup key and is never empty.
type Candidate struct {
	Title           string
	URL             string
	SourceURL       string
	MatchedKeywords []string
}

// embeddedJSPatterns capture JSON assigned to well-known job board globals.
// Tried in order against the raw markup.
var embeddedJSPatterns = []*regexp.Regexp{
	// Qualtrics/Phenom
	regexp.MustCompile(`(?is)phApp\.ddo\s*=\s*({.*?});`),
	// General JSON state patterns
	regexp.MustCompile(`(?is)window\.__INITIAL_STATE__\s*=\s*({.*?});`),
	regexp.MustCompile(`(?is)window\.jobData\s*=\s*({.*?});`),
	regexp.MustCompile(`(?is)window\.jobs\s*=\s*(\[.*?\]);`),
	// Job arrays in various formats
	regexp.MustCompile(`(?is)"jobs"\s*:\s*(\[.*?\])`),
	regexp.MustCompile(`(?is)"jobListings"\s*:\s*(\[.*?\])`),
	// Greenhouse.io
	regexp.MustCompile(`(?is)window\.gon\s*=\s*({.*?});`),
	// Lever.co
	regexp.MustCompile(`(?is)window\.INITIAL_STATE\s*=\s*({.*?});`),
	// BambooHR
	regexp.MustCompile(`(?is)window\.APP_STATE\s*=\s*({.*?});`),
	// Workday
	regexp.MustCompile(`(?is)var\s+wdAppInstanceData\s*=\s*({.*?});`),
	// Indeed
	regexp.MustCompile(`(?is)window\.mosaic\.providerData\s*=\s*({.*?});`),
}

var jsonLDPattern = regexp.MustCompile(`(?is)<script[^>]*type=["']application/ld\+json["'][^>]*>(.*?)</script>`)

// Extractor scans raw markup for embedded job data, producing candidates
// directly and bypassing heuristic classification.
type Extractor struct {
	shapes []vendorShape
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{
		shapes: vendorShapes(),
		logger: logger,
	}
}

// Extract runs the embedded-JSON pass and the JSON-LD pass over rawMarkup and
// concatenates the results. Deduplication happens later, across all sites.
func (e *Extractor) Extract(rawMarkup, sourceURL string, keywords []string) []Candidate {
	candidates := e.extractEmbeddedJS(rawMarkup, sourceURL, keywords)
	candidates = append(candidates, e.extractJSONLD(rawMarkup, sourceURL, keywords)...)
	return candidates
}

func (e *Extractor) extractEmbeddedJS(rawMarkup, sourceURL string, keywords []string) []Candidate {
	var candidates []Candidate

	for _, pattern := range embeddedJSPatterns {
		matches := pattern.FindAllStringSubmatch(rawMarkup, -1)
		for _, match := range matches {
			blob := match[1]

			// Bare arrays are wrapped so every shape sees the same
			// top-level object form.
			if strings.HasPrefix(strings.TrimSpace(blob), "[") {
				blob = `{"jobs":` + blob + `}`
			}

			var data map[string]any
			if err := json.Unmarshal([]byte(blob), &data); err != nil {
				e.logger.Debug("embedded JSON did not parse",
					zap.String("source_url", sourceURL),
					zap.Error(err),
				)
				continue
			}

			extracted := e.dispatchShapes(data, sourceURL, keywords)
			if len(extracted) > 0 {
				e.logger.Info("extracted jobs from embedded data",
					zap.String("source_url", sourceURL),
					zap.Int("count", len(extracted)),
				)
				candidates = append(candidates, extracted...)
				break
			}
		}
	}

	return candidates
}

// dispatchShapes tries each vendor shape in priority order; the first shape
// that structurally matches the blob settles it.
func (e *Extractor) dispatchShapes(data map[string]any, sourceURL string, keywords []string) []Candidate {
	for _, shape := range e.shapes {
		extracted, ok := shape.extract(data, sourceURL, keywords)
		if ok {
			e.logger.Debug("vendor shape matched",
				zap.String("shape", shape.name()),
				zap.Int("count", len(extracted)),
			)
			return extracted
		}
	}
	return nil
}

func (e *Extractor) extractJSONLD(rawMarkup, sourceURL string, keywords []string) []Candidate {
	var candidates []Candidate

	for _, match := range jsonLDPattern.FindAllStringSubmatch(rawMarkup, -1) {
		var data map[string]any
		if err := json.Unmarshal([]byte(match[1]), &data); err != nil {
			continue
		}
		if t, _ := data["@type"].(string); t != "JobPosting" {
			continue
		}

		title := stringField(data, "title")
		if title == "" {
			title = defaultTitle
		}

		applyURL := stringField(data, "directApply")
		if applyURL == "" {
			applyURL = stringField(data, "url")
		}
		if applyURL == "" {
			continue
		}

		matched := matchKeywords(title+" "+stringField(data, "description"), keywords)
		if len(matched) == 0 {
			continue
		}

		candidates = append(candidates, Candidate{
			Title:           title,
			URL:             applyURL,
			SourceURL:       sourceURL,
			MatchedKeywords: matched,
		})
	}

	return candidates
}
