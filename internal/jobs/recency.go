package jobs

import (
	"sort"
	"time"
)

// FilterRecent drops postings whose created timestamp is older than the
// window. Postings with no parseable date pass; a missing date alone never
// excludes a posting.
func FilterRecent(in []Job, now time.Time, window time.Duration) []Job {
	cutoff := now.Add(-window)
	out := make([]Job, 0, len(in))
	for _, job := range in {
		if job.Created != nil && job.Created.Before(cutoff) {
			continue
		}
		out = append(out, job)
	}
	return out
}

// SortByRelevance orders postings by descending score, promoting
// relocation-flagged postings above equal-scored ones without relocation
// language. The sort is stable so provider order breaks remaining ties.
func SortByRelevance(in []Job) {
	sort.SliceStable(in, func(i, j int) bool {
		if in[i].RelevanceScore != in[j].RelevanceScore {
			return in[i].RelevanceScore > in[j].RelevanceScore
		}
		return MentionsRelocation(in[i]) && !MentionsRelocation(in[j])
	})
}
