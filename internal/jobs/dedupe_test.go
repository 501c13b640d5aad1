package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDedupeByKey(t *testing.T) {
	t.Parallel()

	in := []Job{
		{ID: "1", Title: "Product Designer", Company: "Acme", Location: "Dublin"},
		{ID: "2", Title: "product designer", Company: "ACME", Location: "dublin"},
		{ID: "3", Title: "Product Designer", Company: "Acme", Location: "Cork"},
	}
	out := DedupeByKey(in)

	require.Len(t, out, 2)
	require.Equal(t, "1", out[0].ID)
	require.Equal(t, "3", out[1].ID)
}

func TestDedupeByURL(t *testing.T) {
	t.Parallel()

	in := []Job{
		{ID: "1", URL: "https://example.com/jobs/1", Source: "Adzuna"},
		{ID: "2", URL: "https://example.com/jobs/1", Source: "Reed"},
		{ID: "3", URL: "https://example.com/jobs/1/", Source: "Reed"},
	}
	out := DedupeByURL(in)

	// Exact string match only; the trailing slash variant survives.
	require.Len(t, out, 2)
	require.Equal(t, "Adzuna", out[0].Source)
	require.Equal(t, "3", out[1].ID)
}

func TestDedupe_EmptyInput(t *testing.T) {
	t.Parallel()

	require.Empty(t, DedupeByKey(nil))
	require.Empty(t, DedupeByURL(nil))
}

func TestFilterRecent(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	fresh := now.AddDate(0, 0, -3)
	stale := now.AddDate(0, 0, -20)

	in := []Job{
		{ID: "fresh", Created: &fresh},
		{ID: "stale", Created: &stale},
		{ID: "undated"},
	}
	out := FilterRecent(in, now, 14*24*time.Hour)

	require.Len(t, out, 2)
	require.Equal(t, "fresh", out[0].ID)
	require.Equal(t, "undated", out[1].ID)
}

func TestFilterRecent_WiderWindowKeepsStale(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	stale := now.AddDate(0, 0, -20)
	in := []Job{{ID: "stale", Created: &stale}}

	require.Len(t, FilterRecent(in, now, 28*24*time.Hour), 1)
}

func TestSortByRelevance(t *testing.T) {
	t.Parallel()

	in := []Job{
		{ID: "low", RelevanceScore: 30},
		{ID: "tie-plain", RelevanceScore: 70},
		{ID: "tie-reloc", RelevanceScore: 70, Description: "visa sponsorship"},
		{ID: "high", RelevanceScore: 90},
	}
	SortByRelevance(in)

	require.Equal(t, "high", in[0].ID)
	require.Equal(t, "tie-reloc", in[1].ID)
	require.Equal(t, "tie-plain", in[2].ID)
	require.Equal(t, "low", in[3].ID)
}
