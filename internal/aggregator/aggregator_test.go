package aggregator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/padraigk/jobradar/internal/jobs"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type fakeSource struct {
	name string
	jobs []jobs.Job
	err  error
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) FetchJobs(context.Context, *jobs.Profile) ([]jobs.Job, error) {
	return s.jobs, s.err
}

type fakeSet struct{ sources []jobs.Source }

func (s *fakeSet) Enabled() []jobs.Source { return s.sources }

func (s *fakeSet) Find(name string) (jobs.Source, error) {
	for _, src := range s.sources {
		if src.Name() == name {
			return src, nil
		}
	}
	return nil, fmt.Errorf("unknown source %q", name)
}

type fakePublisher struct {
	topics   []string
	payloads []any
}

func (p *fakePublisher) Publish(_ context.Context, topic string, payload any) (string, error) {
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return "msg-1", nil
}

var testNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func timeAgo(d time.Duration) *time.Time {
	t := testNow.Add(-d)
	return &t
}

func testProfile() *jobs.Profile {
	return &jobs.Profile{
		TargetLocations: []string{"Dublin", "Amsterdam"},
		PreferredRoles:  []string{"Product Designer", "UX Designer"},
		Skills:          []string{"Figma", "Prototyping"},
	}
}

func posting(title, loc, url string, age time.Duration) jobs.Job {
	return jobs.Job{
		ID:       url,
		Title:    title,
		Company:  "Acme",
		Location: loc,
		URL:      url,
		Created:  timeAgo(age),
	}
}

func newTestAggregator(set SourceSet, pub jobs.Publisher) *Aggregator {
	return New(set, &fakeClock{now: testNow}, pub, Config{
		MinScore:      20,
		CrawlWindow:   14 * 24 * time.Hour,
		SuggestWindow: 28 * 24 * time.Hour,
		Topic:         "runs",
	}, zap.NewNop())
}

func TestCrawlMergesScoresAndSorts(t *testing.T) {
	t.Parallel()

	set := &fakeSet{sources: []jobs.Source{
		&fakeSource{name: "A", jobs: []jobs.Job{
			posting("Barista", "Dublin", "https://a.example/1", time.Hour),
		}},
		&fakeSource{name: "B", jobs: []jobs.Job{
			posting("Product Designer", "Dublin, Ireland", "https://b.example/1", time.Hour),
		}},
	}}

	agg := newTestAggregator(set, nil)
	result, err := agg.Crawl(context.Background(), testProfile())
	require.NoError(t, err)

	// crawl has no floor, so the low-scoring posting survives
	require.Len(t, result.Jobs, 2)
	require.Equal(t, "Product Designer", result.Jobs[0].Title)
	require.Greater(t, result.Jobs[0].RelevanceScore, result.Jobs[1].RelevanceScore)
	require.Equal(t, jobs.RunStats{Total: 2, Unique: 2, Recent: 2, Sources: []string{"A", "B"}}, result.Stats)
}

func TestCrawlDropsExcludedRegions(t *testing.T) {
	t.Parallel()

	set := &fakeSet{sources: []jobs.Source{
		&fakeSource{name: "A", jobs: []jobs.Job{
			posting("Product Designer", "Austin, USA", "https://a.example/1", time.Hour),
			posting("Product Designer", "Dublin", "https://a.example/2", time.Hour),
		}},
	}}

	agg := newTestAggregator(set, nil)
	result, err := agg.Crawl(context.Background(), testProfile())
	require.NoError(t, err)
	require.Len(t, result.Jobs, 1)
	require.Equal(t, "https://a.example/2", result.Jobs[0].URL)
	require.Equal(t, 2, result.Stats.Total)
}

func TestCrawlKeepsExcludedRegionWithRelocation(t *testing.T) {
	t.Parallel()

	job := posting("Product Designer", "Austin, USA", "https://a.example/1", time.Hour)
	job.Description = "Relocation and visa sponsorship offered."

	set := &fakeSet{sources: []jobs.Source{&fakeSource{name: "A", jobs: []jobs.Job{job}}}}
	agg := newTestAggregator(set, nil)

	result, err := agg.Crawl(context.Background(), testProfile())
	require.NoError(t, err)
	require.Len(t, result.Jobs, 1)
}

func TestSuggestAppliesFloorAndWindow(t *testing.T) {
	t.Parallel()

	set := &fakeSet{sources: []jobs.Source{
		&fakeSource{name: "A", jobs: []jobs.Job{
			posting("Barista", "Nowhere Interesting", "https://a.example/1", time.Hour),
			posting("Product Designer", "Dublin", "https://a.example/2", time.Hour),
			posting("UX Designer", "Dublin", "https://a.example/3", 40*24*time.Hour),
		}},
	}}

	agg := newTestAggregator(set, nil)
	result, err := agg.Suggest(context.Background(), testProfile())
	require.NoError(t, err)

	// the barista posting scores below the floor, the stale one misses the
	// window
	require.Len(t, result.Jobs, 1)
	require.Equal(t, "https://a.example/2", result.Jobs[0].URL)
	require.Equal(t, 3, result.Stats.Total)
	require.Equal(t, 1, result.Stats.Recent)
}

func TestCrawlWindowWiderThanNothing(t *testing.T) {
	t.Parallel()

	set := &fakeSet{sources: []jobs.Source{
		&fakeSource{name: "A", jobs: []jobs.Job{
			posting("Product Designer", "Dublin", "https://a.example/1", 20*24*time.Hour),
		}},
	}}

	agg := newTestAggregator(set, nil)

	crawl, err := agg.Crawl(context.Background(), testProfile())
	require.NoError(t, err)
	require.Empty(t, crawl.Jobs) // 20 days old, crawl window is 14

	suggest, err := agg.Suggest(context.Background(), testProfile())
	require.NoError(t, err)
	require.Len(t, suggest.Jobs, 1) // suggest window is 28
}

func TestCrawlDeduplicatesByURL(t *testing.T) {
	t.Parallel()

	set := &fakeSet{sources: []jobs.Source{
		&fakeSource{name: "A", jobs: []jobs.Job{
			posting("Product Designer", "Dublin", "https://example.com/1", time.Hour),
		}},
		&fakeSource{name: "B", jobs: []jobs.Job{
			posting("Product Designer", "Dublin", "https://example.com/1", time.Hour),
		}},
	}}

	agg := newTestAggregator(set, nil)
	result, err := agg.Crawl(context.Background(), testProfile())
	require.NoError(t, err)
	require.Len(t, result.Jobs, 1)
	require.Equal(t, jobs.RunStats{Total: 2, Unique: 1, Recent: 1, Sources: []string{"A", "B"}}, result.Stats)
}

func TestSuggestCollapsesSamePostingAcrossURLs(t *testing.T) {
	t.Parallel()

	set := &fakeSet{sources: []jobs.Source{
		&fakeSource{name: "A", jobs: []jobs.Job{
			posting("Product Designer", "Dublin", "https://a.example/1", time.Hour),
		}},
		&fakeSource{name: "B", jobs: []jobs.Job{
			posting("Product Designer", "Dublin", "https://b.example/99", time.Hour),
		}},
	}}

	agg := newTestAggregator(set, nil)

	crawl, err := agg.Crawl(context.Background(), testProfile())
	require.NoError(t, err)
	require.Len(t, crawl.Jobs, 2) // distinct URLs survive a crawl

	suggest, err := agg.Suggest(context.Background(), testProfile())
	require.NoError(t, err)
	require.Len(t, suggest.Jobs, 1) // title|company|location key collapses them
	require.Equal(t, "https://a.example/1", suggest.Jobs[0].URL)
}

func TestSourceFailureIsContained(t *testing.T) {
	t.Parallel()

	set := &fakeSet{sources: []jobs.Source{
		&fakeSource{name: "A", err: errors.New("boom")},
		&fakeSource{name: "B", jobs: []jobs.Job{
			posting("Product Designer", "Dublin", "https://b.example/1", time.Hour),
		}},
	}}

	agg := newTestAggregator(set, nil)
	result, err := agg.Crawl(context.Background(), testProfile())
	require.NoError(t, err)
	require.Len(t, result.Jobs, 1)
	require.Equal(t, []string{"A", "B"}, result.Stats.Sources)
}

func TestCrawlSource(t *testing.T) {
	t.Parallel()

	set := &fakeSet{sources: []jobs.Source{
		&fakeSource{name: "Adzuna", jobs: []jobs.Job{
			posting("Product Designer", "Dublin", "https://a.example/1", time.Hour),
		}},
		&fakeSource{name: "Reed", jobs: []jobs.Job{
			posting("Product Designer", "Dublin", "https://r.example/1", time.Hour),
		}},
	}}

	agg := newTestAggregator(set, nil)

	result, err := agg.CrawlSource(context.Background(), "Adzuna", testProfile())
	require.NoError(t, err)
	require.Len(t, result.Jobs, 1)
	require.Equal(t, []string{"Adzuna"}, result.Stats.Sources)

	_, err = agg.CrawlSource(context.Background(), "Monster", testProfile())
	require.Error(t, err)
}

func TestRunSummaryPublished(t *testing.T) {
	t.Parallel()

	set := &fakeSet{sources: []jobs.Source{
		&fakeSource{name: "A", jobs: []jobs.Job{
			posting("Product Designer", "Dublin", "https://a.example/1", time.Hour),
		}},
	}}
	pub := &fakePublisher{}

	agg := newTestAggregator(set, pub)
	_, err := agg.Crawl(context.Background(), testProfile())
	require.NoError(t, err)

	require.Equal(t, []string{"runs"}, pub.topics)
	require.Len(t, pub.payloads, 1)
	summary, ok := pub.payloads[0].(RunSummary)
	require.True(t, ok)
	require.Equal(t, "crawl", summary.Mode)
	require.Equal(t, 1, summary.Stats.Total)
}
