package source

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/padraigk/jobradar/internal/jobs"
)

const indeedScrapeBaseURL = "https://ie.indeed.com"

type indeedResponse struct {
	Results []indeedResult `json:"organic_results"`
}

type indeedResult struct {
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	Location    string `json:"location"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Salary      string `json:"salary"`
}

// Indeed prefers the SerpAPI Indeed engine when a key is configured and
// falls back to scraping the public search page otherwise. The scrape path
// goes through the robots gate and the shared page fetcher.
type Indeed struct {
	serpAPIKey string
	serpURL    string
	scrapeURL  string
	deps       Deps
}

func NewIndeed(serpAPIKey string, deps Deps) *Indeed {
	return &Indeed{
		serpAPIKey: serpAPIKey,
		serpURL:    serpAPIBaseURL,
		scrapeURL:  indeedScrapeBaseURL,
		deps:       deps,
	}
}

func (i *Indeed) Name() string { return "Indeed" }

func (i *Indeed) FetchJobs(ctx context.Context, profile *jobs.Profile) ([]jobs.Job, error) {
	if i.serpAPIKey != "" {
		return i.fetchViaAPI(ctx, profile)
	}
	return i.fetchViaScrape(ctx, profile)
}

func (i *Indeed) fetchViaAPI(ctx context.Context, profile *jobs.Profile) ([]jobs.Job, error) {
	var out []jobs.Job
	for _, location := range profile.TargetLocations {
		for _, role := range profile.PreferredRoles {
			if err := i.deps.Limiter.Wait(ctx, i.Name()); err != nil {
				return out, err
			}

			q := url.Values{}
			q.Set("engine", "indeed")
			q.Set("q", role)
			q.Set("location", location)
			q.Set("sort", "date")
			q.Set("api_key", i.serpAPIKey)

			var parsed indeedResponse
			if err := serpQuery(ctx, i.deps.Client, i.serpURL, q, &parsed); err != nil {
				i.deps.Logger.Warn("indeed query failed",
					zap.String("role", role),
					zap.String("location", location),
					zap.Error(err))
				continue
			}
			for _, r := range parsed.Results {
				raw := map[string]any{
					"title":       r.Title,
					"company":     r.CompanyName,
					"location":    r.Location,
					"url":         r.Link,
					"description": r.Description,
				}
				if raw["location"] == "" {
					raw["location"] = location
				}
				if r.Salary != "" {
					raw["salary"] = r.Salary
				}
				out = append(out, i.deps.Normalizer.Normalize(raw, i.Name()))
			}
		}
	}
	return out, nil
}

func (i *Indeed) fetchViaScrape(ctx context.Context, profile *jobs.Profile) ([]jobs.Job, error) {
	var out []jobs.Job
	for _, location := range profile.TargetLocations {
		for _, role := range profile.PreferredRoles {
			if len(out) >= i.deps.MaxJobs {
				return out, nil
			}
			if err := i.deps.Limiter.Wait(ctx, i.Name()); err != nil {
				return out, err
			}

			q := url.Values{}
			q.Set("q", role)
			q.Set("l", location)
			q.Set("sort", "date")
			searchURL := fmt.Sprintf("%s/jobs?%s", i.scrapeURL, q.Encode())

			if !i.deps.Robots.Allowed(ctx, searchURL) {
				i.deps.Logger.Info("indeed search blocked by robots.txt",
					zap.String("url", searchURL))
				continue
			}

			body, err := i.deps.Pages.Fetch(ctx, searchURL)
			if err != nil {
				i.deps.Logger.Warn("indeed page fetch failed",
					zap.String("url", searchURL),
					zap.Error(err))
				continue
			}
			out = append(out, i.parsePage(body, location)...)
			if len(out) > i.deps.MaxJobs {
				out = out[:i.deps.MaxJobs]
			}
		}
	}
	return out, nil
}

func (i *Indeed) parsePage(body []byte, queryLocation string) []jobs.Job {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		i.deps.Logger.Warn("indeed page parse failed", zap.Error(err))
		return nil
	}

	var out []jobs.Job
	doc.Find(".job_seen_beacon, .jobCard").Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find("h2.jobTitle a, .jobTitle a").First().Text())
		company := strings.TrimSpace(card.Find(".companyName").First().Text())
		if title == "" || company == "" {
			return
		}

		raw := map[string]any{
			"title":   title,
			"company": company,
		}
		if loc := strings.TrimSpace(card.Find(".companyLocation").First().Text()); loc != "" {
			raw["location"] = loc
		} else {
			raw["location"] = queryLocation
		}
		if href, ok := card.Find("h2.jobTitle a, .jobTitle a").First().Attr("href"); ok && href != "" {
			if strings.HasPrefix(href, "/") {
				href = i.scrapeURL + href
			}
			raw["url"] = href
		}
		if desc := strings.TrimSpace(card.Find(".job-snippet").First().Text()); desc != "" {
			raw["description"] = desc
		}
		if salary := strings.TrimSpace(card.Find(".salary-snippet, .salary-snippet-container").First().Text()); salary != "" {
			raw["salary"] = salary
		}
		out = append(out, i.deps.Normalizer.Normalize(raw, i.Name()))
	})
	return out
}
