package classify

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// jobIDPath matches URL paths that carry a numeric job identifier, e.g.
// /jobs/123 or /job/42. Such URLs are strong prior evidence of an individual
// posting, so the classifier relaxes its acceptance rule for them.
var jobIDPath = regexp.MustCompile(`(?i)/jobs?/\d+`)

// Classifier decides whether a block of page text is an individual job
// posting. All phrase matching is lowercase substring containment.
type Classifier struct {
	lexicon *Lexicon
	logger  *zap.Logger
}

func NewClassifier(lexicon *Lexicon, logger *zap.Logger) *Classifier {
	return &Classifier{
		lexicon: lexicon,
		logger:  logger,
	}
}

// Classify reports whether text reads like a job posting and which of the
// supplied keywords appear in it. url may be empty; when it matches a job-ID
// path the specific-indicator requirement is waived.
func (c *Classifier) Classify(text string, keywords []string, url string) (bool, []string) {
	lower := strings.ToLower(text)

	// Anti-patterns reject outright: navigational and marketing pages
	// mention job-adjacent words without being postings.
	for _, pattern := range c.lexicon.AntiPatterns {
		if strings.Contains(lower, pattern) {
			c.logger.Debug("rejected by anti-pattern",
				zap.String("pattern", pattern),
				zap.String("url", url),
			)
			return false, nil
		}
	}

	hasStrong := containsAny(lower, c.lexicon.StrongIndicators)

	weakCount := 0
	for _, indicator := range c.lexicon.WeakIndicators {
		if strings.Contains(lower, indicator) {
			weakCount++
		}
	}
	hasWeak := weakCount >= 2

	var matched []string
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}

	hasSpecific := containsAny(lower, c.lexicon.SpecificIndicators)

	var isJob bool
	if url != "" && jobIDPath.MatchString(url) {
		// Job-ID URLs only need keywords plus some indicator evidence.
		isJob = len(matched) > 0 && (hasStrong || hasWeak)
	} else {
		// Everything else also needs a specific posting indicator, which
		// suppresses listing and aggregator pages.
		isJob = len(matched) > 0 && (hasStrong || hasWeak) && (hasSpecific || hasStrong)
	}

	c.logger.Debug("classified text",
		zap.String("url", url),
		zap.Int("matched_keywords", len(matched)),
		zap.Bool("strong", hasStrong),
		zap.Int("weak_count", weakCount),
		zap.Bool("specific", hasSpecific),
		zap.Bool("is_job", isJob),
	)

	if !isJob {
		return false, nil
	}
	return true, matched
}

// IsListingPage reports whether text carries listing-page markers such as
// "search results" or "browse jobs". A page flagged here is a board index,
// not an individual posting, even if Classify accepted it.
func (c *Classifier) IsListingPage(text string) bool {
	lower := strings.ToLower(text)
	return containsAny(lower, c.lexicon.ListingIndicators)
}

func containsAny(lower string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
