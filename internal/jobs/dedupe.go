package jobs

import (
	"strings"
)

// DedupeByKey collapses postings sharing the same lowercased
// (title, company, location) composite key, keeping the first seen.
func DedupeByKey(in []Job) []Job {
	seen := make(map[string]struct{}, len(in))
	out := make([]Job, 0, len(in))
	for _, job := range in {
		key := strings.ToLower(job.Title) + "|" + strings.ToLower(job.Company) + "|" + strings.ToLower(job.Location)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, job)
	}
	return out
}

// DedupeByURL collapses postings sharing the exact same URL string, keeping
// the first seen. URLs are not normalized; trailing slashes or query-string
// ordering differences count as distinct postings.
func DedupeByURL(in []Job) []Job {
	seen := make(map[string]struct{}, len(in))
	out := make([]Job, 0, len(in))
	for _, job := range in {
		if _, ok := seen[job.URL]; ok {
			continue
		}
		seen[job.URL] = struct{}{}
		out = append(out, job)
	}
	return out
}
