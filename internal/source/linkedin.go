package source

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/padraigk/jobradar/internal/jobs"
)

type linkedinResponse struct {
	Jobs []linkedinResult `json:"jobs_results"`
}

type linkedinResult struct {
	Title        string `json:"title"`
	CompanyName  string `json:"company_name"`
	Location     string `json:"location"`
	Link         string `json:"link"`
	Description  string `json:"description"`
	Salary       string `json:"salary"`
	ScheduleType string `json:"schedule_type"`
	RemoteJob    bool   `json:"remote_job"`
	PostedAt     string `json:"posted_at"`
}

// LinkedIn fetches postings through the SerpAPI LinkedIn Jobs engine.
// There is no supported first-party API for search results.
type LinkedIn struct {
	apiKey  string
	baseURL string
	deps    Deps
}

func NewLinkedIn(serpAPIKey string, deps Deps) *LinkedIn {
	return &LinkedIn{apiKey: serpAPIKey, baseURL: serpAPIBaseURL, deps: deps}
}

func (l *LinkedIn) Name() string { return "LinkedIn" }

func (l *LinkedIn) Configured() bool { return l.apiKey != "" }

func (l *LinkedIn) FetchJobs(ctx context.Context, profile *jobs.Profile) ([]jobs.Job, error) {
	if !l.Configured() {
		l.deps.Logger.Warn("serpapi key not configured, skipping linkedin")
		return nil, nil
	}

	var out []jobs.Job
	for _, location := range profile.TargetLocations {
		for _, role := range profile.PreferredRoles {
			if err := l.deps.Limiter.Wait(ctx, l.Name()); err != nil {
				return out, err
			}

			q := url.Values{}
			q.Set("engine", "linkedin_jobs")
			q.Set("keywords", role)
			q.Set("location", location)
			q.Set("api_key", l.apiKey)

			var parsed linkedinResponse
			if err := serpQuery(ctx, l.deps.Client, l.baseURL, q, &parsed); err != nil {
				l.deps.Logger.Warn("linkedin query failed",
					zap.String("role", role),
					zap.String("location", location),
					zap.Error(err))
				continue
			}
			for _, r := range parsed.Jobs {
				out = append(out, l.deps.Normalizer.Normalize(l.toRaw(r, location), l.Name()))
			}
		}
	}
	return out, nil
}

func (l *LinkedIn) toRaw(r linkedinResult, queryLocation string) map[string]any {
	raw := map[string]any{
		"title":       r.Title,
		"company":     r.CompanyName,
		"url":         r.Link,
		"description": r.Description,
		"remote":      r.RemoteJob,
	}
	if r.Location != "" {
		raw["location"] = r.Location
	} else {
		raw["location"] = queryLocation
	}
	if r.Salary != "" {
		raw["salary"] = r.Salary
	}
	if r.ScheduleType != "" {
		raw["type"] = r.ScheduleType
	}
	return raw
}
