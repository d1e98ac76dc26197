package fetcher

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RobotsCache keeps per-host robots.txt rules with a TTL. Anything that goes
// wrong while fetching or parsing fails open: the URL is treated as allowed.
type RobotsCache struct {
	cache  map[string]*robotsEntry
	ttl    time.Duration
	mu     sync.RWMutex
	logger *zap.Logger
}

type robotsEntry struct {
	disallow  []string
	expiresAt time.Time
}

func NewRobotsCache(ttl time.Duration, logger *zap.Logger) *RobotsCache {
	return &RobotsCache{
		cache:  make(map[string]*robotsEntry),
		ttl:    ttl,
		logger: logger,
	}
}

// IsAllowed reports whether path on host may be crawled under the wildcard
// user-agent rules of the host's robots.txt.
func (rc *RobotsCache) IsAllowed(ctx context.Context, host, path string, client *http.Client) (bool, error) {
	rc.mu.RLock()
	cached, exists := rc.cache[host]
	rc.mu.RUnlock()

	if exists && time.Now().Before(cached.expiresAt) {
		return !cached.disallowed(path), nil
	}

	entry := &robotsEntry{expiresAt: time.Now().Add(rc.ttl)}

	robotsURL := fmt.Sprintf("https://%s/robots.txt", host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return true, nil
	}

	resp, err := client.Do(req)
	if err != nil {
		// Network errors fail open, but are not cached: the host may
		// recover before the TTL would expire.
		rc.logger.Debug("robots.txt fetch failed", zap.String("host", host), zap.Error(err))
		return true, nil
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			rc.logger.Warn("failed to close robots.txt body", zap.Error(err))
		}
	}()

	if resp.StatusCode == http.StatusOK {
		entry.disallow = parseDisallowRules(resp.Body)
	}

	rc.mu.Lock()
	rc.cache[host] = entry
	rc.mu.Unlock()

	return !entry.disallowed(path), nil
}

func (e *robotsEntry) disallowed(path string) bool {
	if path == "" {
		path = "/"
	}
	for _, prefix := range e.disallow {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// parseDisallowRules collects Disallow prefixes from the "User-agent: *"
// groups. Pattern wildcards and Allow overrides are beyond what this crawler
// needs; prefix rules cover the common cases.
func parseDisallowRules(r io.Reader) []string {
	var rules []string
	inWildcardGroup := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		field, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		field = strings.ToLower(strings.TrimSpace(field))
		value = strings.TrimSpace(value)

		switch field {
		case "user-agent":
			inWildcardGroup = value == "*"
		case "disallow":
			if inWildcardGroup && value != "" {
				rules = append(rules, value)
			}
		}
	}

	return rules
}
