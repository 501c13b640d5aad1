package jobs

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Field name aliases per canonical field, in precedence order. Providers
// disagree on naming; the first alias present in the raw object wins.
var (
	titleAliases       = []string{"title", "jobTitle"}
	companyAliases     = []string{"company", "companyName", "employer"}
	locationAliases    = []string{"location", "city"}
	urlAliases         = []string{"url", "jobUrl", "link"}
	descriptionAliases = []string{"description", "summary"}
	createdAliases     = []string{"created", "postedDate", "datePosted", "date"}
	salaryAliases      = []string{"salary", "salaryRange"}
	typeAliases        = []string{"type", "jobType", "employmentType"}
	remoteAliases      = []string{"remote", "remoteWork", "workFromHome"}
	idAliases          = []string{"id", "guid", "jobId"}
)

// createdLayouts are tried in order when parsing provider timestamps.
var createdLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	time.RFC1123,
}

// Normalizer maps heterogeneous raw provider objects onto the canonical Job
// shape, substituting defaults for missing fields.
type Normalizer struct {
	ids   IDGenerator
	clock Clock
}

// NewNormalizer builds a Normalizer.
func NewNormalizer(ids IDGenerator, clock Clock) *Normalizer {
	return &Normalizer{ids: ids, clock: clock}
}

// Normalize converts one raw posting into a Job, stamping the source name and
// keeping the raw object for provenance. A missing id is synthesized from the
// current timestamp plus a random suffix; uniqueness only needs to hold for a
// single run.
func (n *Normalizer) Normalize(raw map[string]any, source string) Job {
	if source == "" {
		source = "Unknown"
	}
	job := Job{
		ID:          stringField(raw, idAliases),
		Title:       stringField(raw, titleAliases),
		Company:     stringField(raw, companyAliases),
		Location:    stringField(raw, locationAliases),
		URL:         stringField(raw, urlAliases),
		Description: stringField(raw, descriptionAliases),
		Salary:      optionalField(raw, salaryAliases),
		Type:        stringField(raw, typeAliases),
		Remote:      optionalField(raw, remoteAliases),
		Source:      source,
		Raw:         raw,
	}
	if job.ID == "" {
		job.ID = n.synthesizeID()
	}
	if job.Type == "" {
		job.Type = "Full-time"
	}
	if created := stringField(raw, createdAliases); created != "" {
		job.Created = parseCreated(created)
	} else {
		now := n.clock.Now()
		job.Created = &now
	}
	return job
}

func (n *Normalizer) synthesizeID() string {
	suffix, err := n.ids.NewID()
	if err != nil {
		suffix = "0"
	}
	if len(suffix) > 9 {
		suffix = suffix[:9]
	}
	return fmt.Sprintf("job-%d-%s", n.clock.Now().UnixMilli(), suffix)
}

func parseCreated(value string) *time.Time {
	for _, layout := range createdLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return &ts
		}
	}
	return nil
}

func stringField(raw map[string]any, aliases []string) string {
	for _, alias := range aliases {
		value, ok := raw[alias]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			if v != "" {
				return strings.TrimSpace(v)
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		case bool:
			// Boolean remote flags ("workFromHome": true) map to the
			// canonical "Remote"/"On-site" labels.
			if v {
				return "Remote"
			}
			return "On-site"
		}
	}
	return ""
}

func optionalField(raw map[string]any, aliases []string) *string {
	if value := stringField(raw, aliases); value != "" {
		return &value
	}
	return nil
}
