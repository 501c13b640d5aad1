package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/padraigk/jobradar/internal/jobs"
	"github.com/padraigk/jobradar/internal/policy/ratelimit"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type fakeIDGen struct{ n int }

func (g *fakeIDGen) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("fixed-id-%d", g.n), nil
}

type allowAllRobots struct{}

func (allowAllRobots) Allowed(context.Context, string) bool { return true }

type denyAllRobots struct{}

func (denyAllRobots) Allowed(context.Context, string) bool { return false }

// fakePages serves canned bodies keyed by URL substring and records every
// fetched URL.
type fakePages struct {
	pages   map[string]string
	fetched []string
}

func (f *fakePages) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	f.fetched = append(f.fetched, rawURL)
	for key, body := range f.pages {
		if key == "" || strings.Contains(rawURL, key) {
			return []byte(body), nil
		}
	}
	return nil, fmt.Errorf("no page for %s", rawURL)
}

func testDeps(robots jobs.RobotsPolicy, pages jobs.PageFetcher) Deps {
	return Deps{
		Limiter:    ratelimit.New(0),
		Normalizer: jobs.NewNormalizer(&fakeIDGen{}, &fakeClock{now: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)}),
		Robots:     robots,
		Pages:      pages,
		Client:     &http.Client{Timeout: 5 * time.Second},
		Logger:     zap.NewNop(),
		MaxJobs:    50,
	}
}
