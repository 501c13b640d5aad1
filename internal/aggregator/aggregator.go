// Package aggregator runs the fetch, score, dedupe, filter pipeline across
// every enabled source.
package aggregator

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/padraigk/jobradar/internal/jobs"
	"github.com/padraigk/jobradar/internal/metrics"
)

// SourceSet is the slice of the source registry the pipeline needs.
type SourceSet interface {
	Enabled() []jobs.Source
	Find(name string) (jobs.Source, error)
}

// Config carries the pipeline knobs that differ between run modes.
type Config struct {
	// MinScore floors suggestion runs. Crawl runs keep every non-excluded
	// posting regardless of score.
	MinScore int
	// CrawlWindow bounds posting age for crawl runs, SuggestWindow for
	// suggestion runs.
	CrawlWindow   time.Duration
	SuggestWindow time.Duration
	// Topic is where run summaries are published.
	Topic string
}

type runMode int

const (
	crawlMode runMode = iota
	suggestMode
)

// RunSummary is the event published after every run.
type RunSummary struct {
	Mode      string        `json:"mode"`
	Stats     jobs.RunStats `json:"stats"`
	Timestamp time.Time     `json:"timestamp"`
}

type Aggregator struct {
	registry  SourceSet
	clock     jobs.Clock
	publisher jobs.Publisher
	cfg       Config
	logger    *zap.Logger
}

func New(registry SourceSet, clock jobs.Clock, publisher jobs.Publisher, cfg Config, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		registry:  registry,
		clock:     clock,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// Crawl fetches from every enabled source and returns all non-excluded
// postings from the crawl window. No score floor applies.
func (a *Aggregator) Crawl(ctx context.Context, profile *jobs.Profile) (*jobs.Result, error) {
	start := a.clock.Now()
	fetched, names := a.fetchAll(ctx, profile)
	result := a.pipeline(fetched, names, profile, crawlMode, a.cfg.CrawlWindow)
	a.finishRun(ctx, "crawl", result, start)
	return result, nil
}

// Suggest is the stricter run mode. Postings must clear the configured
// score floor and the tighter suggestion window.
func (a *Aggregator) Suggest(ctx context.Context, profile *jobs.Profile) (*jobs.Result, error) {
	start := a.clock.Now()
	fetched, names := a.fetchAll(ctx, profile)
	result := a.pipeline(fetched, names, profile, suggestMode, a.cfg.SuggestWindow)
	a.finishRun(ctx, "suggest", result, start)
	return result, nil
}

// CrawlSource runs the crawl pipeline against one named source.
func (a *Aggregator) CrawlSource(ctx context.Context, name string, profile *jobs.Profile) (*jobs.Result, error) {
	src, err := a.registry.Find(name)
	if err != nil {
		return nil, err
	}

	start := a.clock.Now()
	fetched := a.fetchOne(ctx, src, profile)
	result := a.pipeline(fetched, []string{src.Name()}, profile, crawlMode, a.cfg.CrawlWindow)
	a.finishRun(ctx, "crawl", result, start)
	return result, nil
}

// fetchAll fans out one goroutine per enabled source and merges results in
// registration order so output stays stable run to run.
func (a *Aggregator) fetchAll(ctx context.Context, profile *jobs.Profile) ([]jobs.Job, []string) {
	sources := a.registry.Enabled()
	slots := make([][]jobs.Job, len(sources))
	names := make([]string, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		names[i] = src.Name()
		wg.Add(1)
		go func(i int, src jobs.Source) {
			defer wg.Done()
			slots[i] = a.fetchOne(ctx, src, profile)
		}(i, src)
	}
	wg.Wait()

	var merged []jobs.Job
	for _, slot := range slots {
		merged = append(merged, slot...)
	}
	return merged, names
}

// fetchOne isolates a source failure to that source. A panicking or failing
// adapter costs its own results, never the run.
func (a *Aggregator) fetchOne(ctx context.Context, src jobs.Source, profile *jobs.Profile) []jobs.Job {
	defer func() {
		if r := recover(); r != nil {
			metrics.ObserveSourceError(src.Name())
			a.logger.Error("source panicked",
				zap.String("source", src.Name()),
				zap.Any("panic", r))
		}
	}()

	fetched, err := src.FetchJobs(ctx, profile)
	if err != nil {
		metrics.ObserveSourceError(src.Name())
		a.logger.Warn("source fetch failed",
			zap.String("source", src.Name()),
			zap.Error(err))
		return fetched
	}
	metrics.AddSourceJobs(src.Name(), len(fetched))
	a.logger.Info("source fetched",
		zap.String("source", src.Name()),
		zap.Int("jobs", len(fetched)))
	return fetched
}

func (a *Aggregator) pipeline(fetched []jobs.Job, names []string, profile *jobs.Profile, mode runMode, window time.Duration) *jobs.Result {
	total := len(fetched)

	minScore := 0
	if mode == suggestMode {
		minScore = a.cfg.MinScore
	}

	var kept []jobs.Job
	for _, job := range fetched {
		job.RelevanceScore = jobs.Score(job, profile)
		if jobs.IsExcluded(job.RelevanceScore) {
			continue
		}
		if job.RelevanceScore < minScore {
			continue
		}
		kept = append(kept, job)
	}

	deduped := jobs.DedupeByURL(kept)
	if mode == suggestMode {
		// catalog-grade output also collapses same-posting records that
		// differ only in URL
		deduped = jobs.DedupeByKey(deduped)
	}
	recent := jobs.FilterRecent(deduped, a.clock.Now(), window)
	jobs.SortByRelevance(recent)

	return &jobs.Result{
		Jobs: recent,
		Stats: jobs.RunStats{
			Total:   total,
			Unique:  len(deduped),
			Recent:  len(recent),
			Sources: names,
		},
	}
}

// finishRun records metrics and publishes the run summary. Publishing is
// best effort and never fails the run.
func (a *Aggregator) finishRun(ctx context.Context, mode string, result *jobs.Result, start time.Time) {
	duration := a.clock.Now().Sub(start)
	metrics.ObserveRun(mode, duration)

	a.logger.Info("run complete",
		zap.String("mode", mode),
		zap.Int("total", result.Stats.Total),
		zap.Int("unique", result.Stats.Unique),
		zap.Int("recent", result.Stats.Recent),
		zap.Duration("duration", duration))

	if a.publisher == nil {
		return
	}
	summary := RunSummary{Mode: mode, Stats: result.Stats, Timestamp: a.clock.Now()}
	if _, err := a.publisher.Publish(ctx, a.cfg.Topic, summary); err != nil {
		a.logger.Warn("run summary publish failed", zap.Error(err))
	}
}
