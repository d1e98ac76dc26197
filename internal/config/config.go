package config

import (
	"fmt"
	"time"
)

type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Crawl         CrawlConfig         `yaml:"crawl"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Files         FilesConfig         `yaml:"files"`
	Report        ReportConfig        `yaml:"report"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type HTTPConfig struct {
	UserAgent           string `yaml:"user_agent"`
	RequestTimeoutMS    int    `yaml:"request_timeout_ms"`
	MaxIdleConnections  int    `yaml:"max_idle_connections"`
	IdleConnTimeoutS    int    `yaml:"idle_conn_timeout_s"`
	RobotsCacheTTLHours int    `yaml:"robots_cache_ttl_hours"`
}

type CrawlConfig struct {
	MaxLinksPerSite int `yaml:"max_links_per_site"`
	SiteDelayMS     int `yaml:"site_delay_ms"`
}

type RateLimitConfig struct {
	PerHostRPS   float64 `yaml:"per_host_rps"`
	PerHostBurst int     `yaml:"per_host_burst"`
}

type FilesConfig struct {
	Websites string `yaml:"websites"`
	Keywords string `yaml:"keywords"`
	Lexicon  string `yaml:"lexicon"`
}

type ReportConfig struct {
	OutputDir string `yaml:"output_dir"`
}

type ObservabilityConfig struct {
	LogPath  string `yaml:"log_path"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no config file is supplied.
// Values mirror the fixed request identity and pacing the scraper has always
// used: a browser-like user agent, 10s per request, one link fetch roughly
// every half second per host, 2s between sites.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
				"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			RequestTimeoutMS:    10000,
			MaxIdleConnections:  100,
			IdleConnTimeoutS:    90,
			RobotsCacheTTLHours: 12,
		},
		Crawl: CrawlConfig{
			MaxLinksPerSite: 10,
			SiteDelayMS:     2000,
		},
		RateLimit: RateLimitConfig{
			PerHostRPS:   2,
			PerHostBurst: 1,
		},
		Files: FilesConfig{
			Websites: "websites.txt",
			Keywords: "keywords.txt",
		},
		Report: ReportConfig{
			OutputDir: "job_results",
		},
		Observability: ObservabilityConfig{
			LogPath:  "scraper.log",
			LogLevel: "info",
		},
	}
}

func (c *Config) Validate() error {
	if c.HTTP.UserAgent == "" {
		return fmt.Errorf("http.user_agent is required")
	}
	if c.HTTP.RequestTimeoutMS <= 0 {
		return fmt.Errorf("http.request_timeout_ms must be > 0")
	}
	if c.HTTP.RobotsCacheTTLHours <= 0 {
		return fmt.Errorf("http.robots_cache_ttl_hours must be > 0")
	}
	if c.Crawl.MaxLinksPerSite <= 0 {
		return fmt.Errorf("crawl.max_links_per_site must be > 0")
	}
	if c.Crawl.SiteDelayMS < 0 {
		return fmt.Errorf("crawl.site_delay_ms must be >= 0")
	}
	if c.RateLimit.PerHostRPS <= 0 {
		return fmt.Errorf("rate_limit.per_host_rps must be > 0")
	}
	if c.RateLimit.PerHostBurst <= 0 {
		return fmt.Errorf("rate_limit.per_host_burst must be > 0")
	}
	if c.Files.Websites == "" {
		return fmt.Errorf("files.websites is required")
	}
	if c.Files.Keywords == "" {
		return fmt.Errorf("files.keywords is required")
	}
	if c.Report.OutputDir == "" {
		return fmt.Errorf("report.output_dir is required")
	}
	if c.Observability.LogPath == "" {
		return fmt.Errorf("observability.log_path is required")
	}
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("observability.log_level is required")
	}
	return nil
}

// Getters
func (c *Config) GetRequestTimeout() time.Duration {
	return time.Duration(c.HTTP.RequestTimeoutMS) * time.Millisecond
}

func (c *Config) GetIdleConnTimeout() time.Duration {
	return time.Duration(c.HTTP.IdleConnTimeoutS) * time.Second
}

func (c *Config) GetRobotsCacheTTL() time.Duration {
	return time.Duration(c.HTTP.RobotsCacheTTLHours) * time.Hour
}

func (c *Config) GetSiteDelay() time.Duration {
	return time.Duration(c.Crawl.SiteDelayMS) * time.Millisecond
}
