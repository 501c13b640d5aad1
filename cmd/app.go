package cmd

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/padraigk/jobradar/internal/aggregator"
	"github.com/padraigk/jobradar/internal/clock/system"
	"github.com/padraigk/jobradar/internal/config"
	collyfetcher "github.com/padraigk/jobradar/internal/fetcher/colly"
	iduuid "github.com/padraigk/jobradar/internal/id/uuid"
	"github.com/padraigk/jobradar/internal/jobs"
	"github.com/padraigk/jobradar/internal/logging"
	"github.com/padraigk/jobradar/internal/metrics"
	"github.com/padraigk/jobradar/internal/policy/ratelimit"
	"github.com/padraigk/jobradar/internal/publisher/memory"
	gcppublisher "github.com/padraigk/jobradar/internal/publisher/pubsub"
	"github.com/padraigk/jobradar/internal/robots"
	"github.com/padraigk/jobradar/internal/source"
)

// app holds everything a command needs after wiring.
type app struct {
	cfg        config.Config
	logger     *zap.Logger
	clock      jobs.Clock
	idGen      jobs.IDGenerator
	registry   *source.Registry
	aggregator *aggregator.Aggregator
	closers    []func() error
}

func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	metrics.Init()

	clock := system.New()
	idGen := iduuid.NewUUIDGenerator()

	deps := source.Deps{
		Limiter:    ratelimit.New(cfg.RateLimitDelay()),
		Normalizer: jobs.NewNormalizer(idGen, clock),
		Robots:     robots.NewGate(cfg.Crawler.RespectRobots, cfg.Crawler.UserAgent, logger),
		Pages: collyfetcher.New(collyfetcher.Config{
			UserAgent: cfg.Crawler.BrowserUserAgent,
			Timeout:   cfg.HTTPTimeout(),
		}),
		Client:  &http.Client{Timeout: cfg.HTTPTimeout()},
		Logger:  logger,
		MaxJobs: cfg.Crawler.MaxJobsPerSource,
	}
	registry := source.NewRegistry(cfg, deps)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		clock:    clock,
		idGen:    idGen,
		registry: registry,
	}

	publisher, err := a.buildPublisher(ctx)
	if err != nil {
		return nil, err
	}

	a.aggregator = aggregator.New(registry, clock, publisher, aggregator.Config{
		MinScore:      cfg.Crawler.MinScore,
		CrawlWindow:   cfg.CrawlWindow(),
		SuggestWindow: cfg.SuggestWindow(),
		Topic:         cfg.Publisher.Topic,
	}, logger)

	return a, nil
}

func (a *app) buildPublisher(ctx context.Context) (jobs.Publisher, error) {
	switch a.cfg.Publisher.Provider {
	case "pubsub":
		p, err := gcppublisher.New(ctx, a.cfg.Publisher.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("creating pubsub publisher: %w", err)
		}
		a.closers = append(a.closers, p.Close)
		return p, nil
	default:
		return memory.New(), nil
	}
}

// profile loads the configured profile file, falling back to the built-in
// default when no path is set or the file is unreadable.
func (a *app) profile() *jobs.Profile {
	if a.cfg.Profile.Path == "" {
		return jobs.DefaultProfile()
	}
	p, err := jobs.LoadProfile(a.cfg.Profile.Path)
	if err != nil {
		a.logger.Warn("profile load failed, using default",
			zap.String("path", a.cfg.Profile.Path),
			zap.Error(err))
		return jobs.DefaultProfile()
	}
	return p
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("shutdown cleanup failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
