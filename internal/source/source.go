// Package source implements the per-provider adapters that fetch postings
// and map them to the canonical shape.
package source

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/padraigk/jobradar/internal/jobs"
	"github.com/padraigk/jobradar/internal/policy/ratelimit"
)

// Deps bundles the collaborators shared by every adapter. Each adapter keeps
// its requests sequential behind the limiter; different adapters may run
// concurrently.
type Deps struct {
	Limiter    *ratelimit.Limiter
	Normalizer *jobs.Normalizer
	Robots     jobs.RobotsPolicy
	Pages      jobs.PageFetcher
	Client     *http.Client
	Logger     *zap.Logger
	MaxJobs    int
}
