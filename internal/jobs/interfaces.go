package jobs

import (
	"context"
	"time"
)

// Source fetches postings from one external provider and maps them to the
// canonical Job shape. Implementations must contain their own failures: a
// missing credential or a failed page is not an error, it is zero results.
type Source interface {
	Name() string
	FetchJobs(ctx context.Context, profile *Profile) ([]Job, error)
}

// RobotsPolicy decides whether a URL may be fetched.
type RobotsPolicy interface {
	Allowed(ctx context.Context, rawURL string) bool
}

// PageFetcher retrieves a single HTML page for scrape-based sources.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Publisher pushes run-completion events to Pub/Sub (or similar).
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces IDs for postings that arrive without one.
type IDGenerator interface {
	NewID() (string, error)
}
