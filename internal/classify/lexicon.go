package classify

// Lexicon holds the fixed phrase sets used to decide whether a block of text
// is an individual job posting. It is pure data: the classifier and the crawl
// pipeline receive it by injection so the sets stay tunable and testable.
type Lexicon struct {
	StrongIndicators   []string `yaml:"strong_indicators"`
	WeakIndicators     []string `yaml:"weak_indicators"`
	AntiPatterns       []string `yaml:"anti_patterns"`
	SpecificIndicators []string `yaml:"specific_indicators"`
	ListingIndicators  []string `yaml:"listing_indicators"`
}

// DefaultLexicon returns the built-in indicator sets.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		StrongIndicators: []string{
			"apply now", "apply for this position", "job description", "requirements",
			"responsibilities", "qualifications", "years of experience", "submit resume",
			"cv", "application", "candidate", "hiring", "employment", "position details",
			"role description", "job summary", "what you'll do", "what you will do",
			"required skills", "preferred qualifications", "salary", "compensation",
			"benefits package", "location:", "reports to", "department:", "job type",
			"full-time", "part-time", "contract", "permanent", "temporary",
		},
		WeakIndicators: []string{
			"career", "opportunity", "role", "position", "team", "join us",
			"remote", "on-site", "hybrid", "office", "skills", "experience",
		},
		AntiPatterns: []string{
			"developer tools", "documentation", "api reference", "getting started",
			"tutorials", "examples", "download", "pricing", "features", "product",
			"solutions", "services", "about us", "contact us", "news", "blog",
			"press release", "company overview", "our story", "mission", "vision",
			"job search", "search jobs", "all jobs", "job listings", "browse jobs",
			"filter jobs", "sort by", "results found", "showing", "page",
		},
		SpecificIndicators: []string{
			"apply now", "apply for this position", "job description", "responsibilities",
			"requirements", "qualifications", "submit resume", "submit application",
		},
		ListingIndicators: []string{
			"search results", "filter by", "sort by", "results found", "showing",
			"job listings", "browse jobs", "all jobs", "find jobs", "job search",
			"total jobs", "open positions", "view all", "more jobs",
		},
	}
}

// Validate checks that no indicator set is empty.
func (l *Lexicon) Validate() error {
	switch {
	case len(l.StrongIndicators) == 0:
		return errEmptySet("strong_indicators")
	case len(l.WeakIndicators) == 0:
		return errEmptySet("weak_indicators")
	case len(l.AntiPatterns) == 0:
		return errEmptySet("anti_patterns")
	case len(l.SpecificIndicators) == 0:
		return errEmptySet("specific_indicators")
	case len(l.ListingIndicators) == 0:
		return errEmptySet("listing_indicators")
	}
	return nil
}

type errEmptySet string

func (e errEmptySet) Error() string {
	return "lexicon: " + string(e) + " is required"
}
