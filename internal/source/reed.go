package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/padraigk/jobradar/internal/jobs"
)

const reedBaseURL = "https://www.reed.co.uk/api/1.0/search"

type reedResponse struct {
	Results []reedResult `json:"results"`
}

type reedResult struct {
	JobID          int64   `json:"jobId"`
	JobTitle       string  `json:"jobTitle"`
	EmployerName   string  `json:"employerName"`
	LocationName   string  `json:"locationName"`
	JobURL         string  `json:"jobUrl"`
	JobDescription string  `json:"jobDescription"`
	Date           string  `json:"date"`
	MinimumSalary  float64 `json:"minimumSalary"`
	MaximumSalary  float64 `json:"maximumSalary"`
}

// Reed queries the Reed jobs API. Reed authenticates with HTTP Basic auth
// where the API key is the username and the password is empty.
type Reed struct {
	apiKey  string
	baseURL string
	deps    Deps
}

func NewReed(apiKey string, deps Deps) *Reed {
	return &Reed{apiKey: apiKey, baseURL: reedBaseURL, deps: deps}
}

func (r *Reed) Name() string { return "Reed" }

func (r *Reed) Configured() bool { return r.apiKey != "" }

func (r *Reed) FetchJobs(ctx context.Context, profile *jobs.Profile) ([]jobs.Job, error) {
	if !r.Configured() {
		r.deps.Logger.Warn("reed api key not configured, skipping")
		return nil, nil
	}

	var out []jobs.Job
	for _, location := range profile.TargetLocations {
		for _, role := range profile.PreferredRoles {
			if err := r.deps.Limiter.Wait(ctx, r.Name()); err != nil {
				return out, err
			}
			results, err := r.search(ctx, role, location)
			if err != nil {
				r.deps.Logger.Warn("reed query failed",
					zap.String("role", role),
					zap.String("location", location),
					zap.Error(err))
				continue
			}
			for _, res := range results {
				out = append(out, r.deps.Normalizer.Normalize(r.toRaw(res), r.Name()))
			}
		}
	}
	return out, nil
}

func (r *Reed) search(ctx context.Context, role, location string) ([]reedResult, error) {
	q := url.Values{}
	q.Set("keywords", role)
	q.Set("locationName", location)
	q.Set("resultsToTake", strconv.Itoa(r.deps.MaxJobs))
	q.Set("resultsToSkip", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building reed request: %w", err)
	}
	req.SetBasicAuth(r.apiKey, "")

	resp, err := r.deps.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling reed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("reed returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed reedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding reed response: %w", err)
	}
	return parsed.Results, nil
}

func (r *Reed) toRaw(res reedResult) map[string]any {
	raw := map[string]any{
		"id":          res.JobID,
		"title":       res.JobTitle,
		"company":     res.EmployerName,
		"location":    res.LocationName,
		"url":         res.JobURL,
		"description": res.JobDescription,
		"date":        res.Date,
	}
	if res.MinimumSalary > 0 || res.MaximumSalary > 0 {
		raw["salary"] = fmt.Sprintf("%.0f - %.0f", res.MinimumSalary, res.MaximumSalary)
	}
	return raw
}
