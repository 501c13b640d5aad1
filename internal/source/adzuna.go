package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/padraigk/jobradar/internal/jobs"
)

const adzunaBaseURL = "https://api.adzuna.com/v1/api/jobs"

// adzunaCountries maps profile locations to Adzuna country codes. Locations
// without an entry fall back to Ireland.
var adzunaCountries = map[string]string{
	"ireland":        "ie",
	"dublin":         "ie",
	"netherlands":    "nl",
	"amsterdam":      "nl",
	"eindhoven":      "nl",
	"rotterdam":      "nl",
	"united kingdom": "gb",
	"england":        "gb",
	"london":         "gb",
}

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
}

type adzunaResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	RedirectURL       string  `json:"redirect_url"`
	Created           string  `json:"created"`
	ContractType      string  `json:"contract_type"`
	SalaryMin         float64 `json:"salary_min"`
	SalaryMax         float64 `json:"salary_max"`
	SalaryIsPredicted string  `json:"salary_is_predicted"`
}

// Adzuna queries the Adzuna search API for every location/role pair in the
// profile.
type Adzuna struct {
	appID   string
	appKey  string
	baseURL string
	deps    Deps
}

func NewAdzuna(appID, appKey string, deps Deps) *Adzuna {
	return &Adzuna{appID: appID, appKey: appKey, baseURL: adzunaBaseURL, deps: deps}
}

func (a *Adzuna) Name() string { return "Adzuna" }

// Configured reports whether API credentials are present.
func (a *Adzuna) Configured() bool { return a.appID != "" && a.appKey != "" }

func (a *Adzuna) FetchJobs(ctx context.Context, profile *jobs.Profile) ([]jobs.Job, error) {
	if !a.Configured() {
		a.deps.Logger.Warn("adzuna credentials not configured, skipping")
		return nil, nil
	}

	var out []jobs.Job
	for _, location := range profile.TargetLocations {
		country := adzunaCountries[strings.ToLower(location)]
		if country == "" {
			country = "ie"
		}
		for _, role := range profile.PreferredRoles {
			if err := a.deps.Limiter.Wait(ctx, a.Name()); err != nil {
				return out, err
			}
			results, err := a.search(ctx, country, role, location)
			if err != nil {
				a.deps.Logger.Warn("adzuna query failed",
					zap.String("role", role),
					zap.String("location", location),
					zap.Error(err))
				continue
			}
			for _, r := range results {
				out = append(out, a.deps.Normalizer.Normalize(a.toRaw(r, location), a.Name()))
			}
		}
	}
	return out, nil
}

func (a *Adzuna) search(ctx context.Context, country, role, location string) ([]adzunaResult, error) {
	q := url.Values{}
	q.Set("app_id", a.appID)
	q.Set("app_key", a.appKey)
	q.Set("what", role)
	q.Set("where", location)
	q.Set("results_per_page", fmt.Sprintf("%d", a.deps.MaxJobs))
	q.Set("sort_by", "date")
	q.Set("content-type", "application/json")

	endpoint := fmt.Sprintf("%s/%s/search/1?%s", a.baseURL, country, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building adzuna request: %w", err)
	}

	resp, err := a.deps.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling adzuna: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("adzuna returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed adzunaResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding adzuna response: %w", err)
	}
	return parsed.Results, nil
}

func (a *Adzuna) toRaw(r adzunaResult, queryLocation string) map[string]any {
	raw := map[string]any{
		"id":          r.ID,
		"title":       r.Title,
		"description": r.Description,
		"url":         r.RedirectURL,
		"created":     r.Created,
	}
	if r.Company.DisplayName != "" {
		raw["company"] = r.Company.DisplayName
	}
	if r.Location.DisplayName != "" {
		raw["location"] = r.Location.DisplayName
	} else {
		raw["location"] = queryLocation
	}
	if r.ContractType != "" {
		raw["type"] = r.ContractType
	}
	if r.SalaryMin > 0 || r.SalaryMax > 0 {
		salary := fmt.Sprintf("%.0f - %.0f", r.SalaryMin, r.SalaryMax)
		if r.SalaryIsPredicted == "1" {
			salary += " (est.)"
		}
		raw["salary"] = salary
	}
	return raw
}
