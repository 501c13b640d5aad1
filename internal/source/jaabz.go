package source

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/padraigk/jobradar/internal/jobs"
)

const jaabzBaseURL = "https://jaabz.com"

// jaabzLocationIDs maps profile locations to the site's internal location
// ids. Unknown locations are skipped rather than searched site-wide.
var jaabzLocationIDs = map[string]string{
	"dublin":    "234",
	"amsterdam": "346",
	"eindhoven": "342",
	"rotterdam": "270",
}

// jaabzCardSelectors is tried in order until one matches. The site has no
// stable markup contract, so the chain starts with the most specific shape
// and degrades toward a class-substring match.
var jaabzCardSelectors = []string{
	"[data-job-id]",
	".job-card",
	".job-listing",
	"article.job",
	".job-item",
	`[class*="job"]`,
}

// Jaabz scrapes a visa-sponsorship job board. It needs no credentials and
// is always enabled.
type Jaabz struct {
	baseURL string
	deps    Deps
}

func NewJaabz(deps Deps) *Jaabz {
	return &Jaabz{baseURL: jaabzBaseURL, deps: deps}
}

func (j *Jaabz) Name() string { return "Jaabz" }

func (j *Jaabz) FetchJobs(ctx context.Context, profile *jobs.Profile) ([]jobs.Job, error) {
	keyword := j.keyword(profile)

	var out []jobs.Job
	for _, location := range profile.TargetLocations {
		locationID := jaabzLocationIDs[strings.ToLower(location)]
		if locationID == "" {
			continue
		}
		if len(out) >= j.deps.MaxJobs {
			break
		}
		if err := j.deps.Limiter.Wait(ctx, j.Name()); err != nil {
			return out, err
		}

		q := url.Values{}
		q.Set("keyword", keyword)
		q.Set("visa_sponsorship", "1")
		q.Add("included_location_ids[]", locationID)
		searchURL := j.baseURL + "/jobs?" + q.Encode()

		if !j.deps.Robots.Allowed(ctx, searchURL) {
			j.deps.Logger.Info("jaabz search blocked by robots.txt",
				zap.String("url", searchURL))
			continue
		}

		body, err := j.deps.Pages.Fetch(ctx, searchURL)
		if err != nil {
			j.deps.Logger.Warn("jaabz page fetch failed",
				zap.String("url", searchURL),
				zap.Error(err))
			continue
		}
		out = append(out, j.parsePage(body, location)...)
		if len(out) > j.deps.MaxJobs {
			out = out[:j.deps.MaxJobs]
		}
	}
	return out, nil
}

// keyword derives the search term from the first preferred role. The site
// searches a single phrase, not a role list.
func (j *Jaabz) keyword(profile *jobs.Profile) string {
	if len(profile.PreferredRoles) > 0 {
		return strings.ToLower(profile.PreferredRoles[0])
	}
	return "designer"
}

func (j *Jaabz) parsePage(body []byte, queryLocation string) []jobs.Job {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		j.deps.Logger.Warn("jaabz page parse failed", zap.Error(err))
		return nil
	}

	var cards *goquery.Selection
	for _, selector := range jaabzCardSelectors {
		if found := doc.Find(selector); found.Length() > 0 {
			cards = found
			break
		}
	}
	if cards == nil {
		return j.parseAnchors(doc, queryLocation)
	}

	var out []jobs.Job
	cards.Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find("h2, h3, .job-title, [class*=\"title\"]").First().Text())
		if title == "" {
			return
		}

		raw := map[string]any{
			"title":    title,
			"location": queryLocation,
		}
		if company := strings.TrimSpace(card.Find(".company, [class*=\"company\"]").First().Text()); company != "" {
			raw["company"] = company
		}
		if loc := strings.TrimSpace(card.Find(".location, [class*=\"location\"]").First().Text()); loc != "" {
			raw["location"] = loc
		}
		if href, ok := card.Find("a").First().Attr("href"); ok && href != "" {
			raw["url"] = j.absoluteURL(href)
		}
		if desc := strings.TrimSpace(card.Find("p, .description").First().Text()); desc != "" {
			raw["description"] = desc
		}
		raw["description"] = j.withSponsorshipNote(raw["description"])
		out = append(out, j.deps.Normalizer.Normalize(raw, j.Name()))
	})
	return out
}

// parseAnchors is the last-resort pass. It harvests posting links directly
// when none of the card selectors matched the page.
func (j *Jaabz) parseAnchors(doc *goquery.Document, queryLocation string) []jobs.Job {
	var out []jobs.Job
	doc.Find(`a[href*="/jobs/"]`).Each(func(_ int, anchor *goquery.Selection) {
		title := strings.TrimSpace(anchor.Text())
		if len(title) <= 5 || strings.Contains(strings.ToLower(title), "view all") {
			return
		}
		href, ok := anchor.Attr("href")
		if !ok || href == "" {
			return
		}

		raw := map[string]any{
			"title":       title,
			"url":         j.absoluteURL(href),
			"location":    queryLocation,
			"description": j.withSponsorshipNote(nil),
		}
		parent := anchor.Closest("li, article, div")
		if parent.Length() > 0 {
			if company := strings.TrimSpace(parent.Find(`[class*="company"]`).First().Text()); company != "" {
				raw["company"] = company
			}
			if loc := strings.TrimSpace(parent.Find(`[class*="location"]`).First().Text()); loc != "" {
				raw["location"] = loc
			}
		}
		out = append(out, j.deps.Normalizer.Normalize(raw, j.Name()))
	})
	return out
}

// withSponsorshipNote makes the sponsorship filter visible to the scorer,
// since listing pages rarely repeat it per card.
func (j *Jaabz) withSponsorshipNote(desc any) string {
	note := "Visa sponsorship available."
	s, _ := desc.(string)
	if s == "" {
		return note
	}
	if strings.Contains(strings.ToLower(s), "visa") {
		return s
	}
	return s + " " + note
}

func (j *Jaabz) absoluteURL(href string) string {
	if strings.HasPrefix(href, "/") {
		return j.baseURL + href
	}
	return href
}
