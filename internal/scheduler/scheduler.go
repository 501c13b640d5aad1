// Package scheduler triggers aggregation runs on a cron cadence.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the given function on the configured cron spec. Start also
// fires one immediate run so a fresh deployment has data before the first
// scheduled tick.
type Scheduler struct {
	spec   string
	run    func(context.Context)
	cron   *cron.Cron
	logger *zap.Logger
}

func New(spec string, run func(context.Context), logger *zap.Logger) *Scheduler {
	return &Scheduler{spec: spec, run: run, logger: logger}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.spec, func() {
		s.logger.Info("scheduled run starting", zap.String("spec", s.spec))
		s.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("spec", s.spec))

	go func() {
		s.logger.Info("initial run starting")
		s.run(ctx)
	}()
	return nil
}

// Stop halts scheduling and waits for any in-flight scheduled run.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}
