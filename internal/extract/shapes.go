package extract

import (
	"fmt"
	"strings"
)

// vendorShape knows one job board's embedded-JSON layout. Shapes are tried in
// a fixed order against each decoded blob; the first structural match settles
// the blob.
type vendorShape interface {
	name() string
	// extract reports whether the blob structurally matched this vendor's
	// layout, and if so, any candidates recovered from it. A structural
	// match short-circuits the remaining shapes for this blob even when it
	// yields nothing.
	extract(data map[string]any, sourceURL string, keywords []string) ([]Candidate, bool)
}

func vendorShapes() []vendorShape {
	return []vendorShape{
		phenomShape{},
		greenhouseShape{},
		leverShape{},
		genericShape{},
	}
}

// phenomShape handles the Phenom/Qualtrics layout found under
// eagerLoadRefineSearch.data.jobs. Category pages (source URL containing
// "/c/") are pre-filtered by the vendor, so their jobs are accepted even
// without a keyword match, tagged with the sentinel keyword.
type phenomShape struct{}

func (phenomShape) name() string { return "phenom" }

func (phenomShape) extract(data map[string]any, sourceURL string, keywords []string) ([]Candidate, bool) {
	search, ok := data["eagerLoadRefineSearch"].(map[string]any)
	if !ok {
		return nil, false
	}
	inner, ok := search["data"].(map[string]any)
	if !ok {
		return nil, false
	}
	jobList, ok := inner["jobs"].([]any)
	if !ok {
		return nil, true
	}

	onCategoryPage := strings.Contains(sourceURL, "/c/")

	var out []Candidate
	for _, item := range jobList {
		job, ok := item.(map[string]any)
		if !ok {
			continue
		}

		title := stringField(job, "title")
		if title == "" {
			title = defaultTitle
		}
		jobURL := stringField(job, "applyUrl")
		if jobURL == "" {
			base, _, _ := strings.Cut(sourceURL, "/c/")
			jobURL = fmt.Sprintf("%s/job/%s", base, stringField(job, "jobId"))
		}

		text := title + " " + stringField(job, "descriptionTeaser") + " " + stringField(job, "category")
		matched := matchKeywords(text, keywords)
		if len(matched) == 0 {
			if !onCategoryPage {
				continue
			}
			matched = []string{SentinelCategory}
		}

		out = append(out, Candidate{
			Title:           title,
			URL:             jobURL,
			SourceURL:       sourceURL,
			MatchedKeywords: matched,
		})
	}
	return out, true
}

// greenhouseShape handles Greenhouse boards: departments[].jobs[] with
// absolute_url, which is host-relative on embedded boards.
type greenhouseShape struct{}

func (greenhouseShape) name() string { return "greenhouse" }

func (greenhouseShape) extract(data map[string]any, sourceURL string, keywords []string) ([]Candidate, bool) {
	if _, hasGon := data["gon"]; !hasGon {
		if _, hasDepartments := data["departments"]; !hasDepartments {
			return nil, false
		}
	}
	departments, _ := data["departments"].([]any)

	var out []Candidate
	for _, item := range departments {
		dept, ok := item.(map[string]any)
		if !ok {
			continue
		}
		jobList, ok := dept["jobs"].([]any)
		if !ok {
			continue
		}
		for _, ji := range jobList {
			job, ok := ji.(map[string]any)
			if !ok {
				continue
			}

			title := stringField(job, "title")
			if title == "" {
				title = defaultTitle
			}
			jobURL := stringField(job, "absolute_url")
			if jobURL != "" && !strings.HasPrefix(jobURL, "http") {
				jobURL = "https://boards.greenhouse.io" + jobURL
			}
			if jobURL == "" {
				continue
			}

			matched := matchKeywords(title+" "+stringField(job, "content"), keywords)
			if len(matched) == 0 {
				continue
			}

			out = append(out, Candidate{
				Title:           title,
				URL:             jobURL,
				SourceURL:       sourceURL,
				MatchedKeywords: matched,
			})
		}
	}
	return out, true
}

// leverShape handles Lever boards: postings[] with text/hostedUrl.
type leverShape struct{}

func (leverShape) name() string { return "lever" }

func (leverShape) extract(data map[string]any, sourceURL string, keywords []string) ([]Candidate, bool) {
	postings, ok := data["postings"].([]any)
	if !ok {
		return nil, false
	}

	var out []Candidate
	for _, item := range postings {
		job, ok := item.(map[string]any)
		if !ok {
			continue
		}

		title := stringField(job, "text")
		if title == "" {
			title = defaultTitle
		}
		jobURL := stringField(job, "hostedUrl")
		if jobURL == "" {
			continue
		}

		matched := matchKeywords(title+" "+stringField(job, "description"), keywords)
		if len(matched) == 0 {
			continue
		}

		out = append(out, Candidate{
			Title:           title,
			URL:             jobURL,
			SourceURL:       sourceURL,
			MatchedKeywords: matched,
		})
	}
	return out, true
}

// genericShape handles any top-level jobs[] array, probing the common field
// name variants for title and URL.
type genericShape struct{}

func (genericShape) name() string { return "generic" }

func (genericShape) extract(data map[string]any, sourceURL string, keywords []string) ([]Candidate, bool) {
	jobList, ok := data["jobs"].([]any)
	if !ok {
		return nil, false
	}

	var out []Candidate
	for _, item := range jobList {
		job, ok := item.(map[string]any)
		if !ok {
			continue
		}

		title := firstStringField(job, "title", "name", "jobTitle")
		if title == "" {
			title = defaultTitle
		}
		jobURL := firstStringField(job, "url", "link", "applyUrl", "applicationUrl")
		if jobURL == "" {
			continue
		}

		desc := firstStringField(job, "description", "summary")
		matched := matchKeywords(title+" "+desc, keywords)
		if len(matched) == 0 {
			continue
		}

		out = append(out, Candidate{
			Title:           title,
			URL:             jobURL,
			SourceURL:       sourceURL,
			MatchedKeywords: matched,
		})
	}
	return out, true
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	// Job IDs in particular show up as numbers on some boards.
	if v, ok := m[key].(float64); ok {
		return fmt.Sprintf("%.0f", v)
	}
	return ""
}

func firstStringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if v := stringField(m, key); v != "" {
			return v
		}
	}
	return ""
}

func matchKeywords(text string, keywords []string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}
