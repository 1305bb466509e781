// Package refresh drives periodic re-fetches. There is no push channel;
// staleness between polls is an accepted, bounded tradeoff.
package refresh

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Prosper-Mapepa/talent-hub-front-sub000/pkg/logger"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/pkg/metrics"
)

// Func is one refresh pass, typically Session.Refresh.
type Func func(ctx context.Context) error

// Scheduler runs a refresh function on a fixed interval with explicit
// start/stop. A tick that observes a still-running pass is skipped rather
// than queued.
type Scheduler struct {
	interval time.Duration
	run      Func
	logger   *logger.Logger

	cron    *cron.Cron
	running atomic.Bool
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(interval time.Duration, run Func, log *logger.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		run:      run,
		logger:   log,
		cron:     cron.New(),
	}
}

// Start begins polling. The context bounds each individual pass.
func (s *Scheduler) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", s.interval)
	_, err := s.cron.AddFunc(spec, func() {
		s.tick(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}
	s.cron.Start()
	s.logger.Info("refresh scheduler started", zap.Duration("interval", s.interval))
	return nil
}

// Stop halts polling and waits for an in-flight pass to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("refresh scheduler stopped")
}

// RunOnce triggers an immediate pass outside the schedule, e.g. on
// navigation. Skipped when a pass is already running.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.tick(ctx)
}

func (s *Scheduler) tick(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		metrics.RefreshRunsTotal.WithLabelValues("skipped").Inc()
		return
	}
	defer s.running.Store(false)

	if err := s.run(ctx); err != nil {
		metrics.RefreshRunsTotal.WithLabelValues("failure").Inc()
		s.logger.Warn("refresh pass failed", zap.Error(err))
		return
	}
	metrics.RefreshRunsTotal.WithLabelValues("success").Inc()
}
