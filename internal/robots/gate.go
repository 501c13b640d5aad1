// Package robots enforces robots.txt directives per site origin.
package robots

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"go.uber.org/zap"

	"github.com/padraigk/jobradar/internal/jobs"
)

const fetchTimeout = 5 * time.Second

// Gate fetches and caches per-origin crawl policies. A policy that cannot be
// fetched or parsed is cached as permissive: absence of a robots file is
// common and must not block aggregation.
type Gate struct {
	client    *http.Client
	cache     sync.Map
	userAgent string
	logger    *zap.Logger
}

// NewGate builds a RobotsPolicy respecting the config toggle. When respect is
// false every URL is allowed.
func NewGate(respect bool, userAgent string, logger *zap.Logger) jobs.RobotsPolicy {
	if !respect {
		return &allowAllPolicy{}
	}
	return &Gate{
		client: &http.Client{
			Timeout: fetchTimeout,
		},
		userAgent: userAgent,
		logger:    logger,
	}
}

// Allowed implements jobs.RobotsPolicy.
func (g *Gate) Allowed(ctx context.Context, rawURL string) bool {
	if g == nil {
		return true
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return true
	}
	data := g.load(ctx, parsed)
	if data == nil {
		return true
	}
	group := data.FindGroup(g.userAgent)
	if group == nil {
		return true
	}
	return group.Test(parsed.Path)
}

// load returns the cached policy for the URL's origin, fetching it on first
// use. Entries are never invalidated within a run; re-fetching the same
// policy is harmless, so concurrent first checks need no extra locking.
func (g *Gate) load(ctx context.Context, parsed *url.URL) *robotstxt.RobotsData {
	originKey := strings.ToLower(parsed.Scheme + "://" + parsed.Host)
	if cached, ok := g.cache.Load(originKey); ok {
		data, _ := cached.(*robotstxt.RobotsData)
		return data
	}

	data, err := g.fetch(ctx, parsed)
	if err != nil {
		g.logger.Warn("robots fetch failed; allowing access",
			zap.String("origin", originKey),
			zap.Error(err),
		)
		data = nil
	}
	g.cache.Store(originKey, data)
	return data
}

func (g *Gate) fetch(ctx context.Context, parsed *url.URL) (*robotstxt.RobotsData, error) {
	robotsURL := parsed.Scheme + "://" + parsed.Host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new robots request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			g.logger.Debug("Failed to close robots response body", zap.Error(cerr))
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch robots: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read robots body: %w", err)
	}
	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil, fmt.Errorf("parse robots: %w", err)
	}
	return data, nil
}

type allowAllPolicy struct{}

func (a *allowAllPolicy) Allowed(context.Context, string) bool { return true }
