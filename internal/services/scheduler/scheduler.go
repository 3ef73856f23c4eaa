// Package scheduler runs the daily fetch-derive-persist round on a cron
// schedule.
package scheduler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultRunTimeout = 30 * time.Minute

// Job is one complete pipeline run.
type Job func(ctx context.Context) error

// Scheduler triggers the job on a cron spec until stopped.
type Scheduler struct {
	cron       *cron.Cron
	job        Job
	runTimeout time.Duration
	logger     *zap.Logger
}

// New validates the cron spec and prepares a scheduler. The spec uses the
// standard five-field cron format, e.g. "0 9 * * *" for 09:00 daily.
func New(spec string, job Job, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Scheduler{
		cron:       cron.New(),
		job:        job,
		runTimeout: defaultRunTimeout,
		logger:     logger,
	}

	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return nil, errors.Wrapf(err, "invalid schedule %q", spec)
	}
	return s, nil
}

// Run starts the cron loop and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	s.logger.Info("scheduler started")

	<-ctx.Done()

	stopCtx := s.cron.Stop()
	// let an in-flight run finish before returning
	<-stopCtx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	started := time.Now()
	if err := s.job(ctx); err != nil {
		s.logger.Error("scheduled run failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		return
	}
	s.logger.Info("scheduled run finished", zap.Duration("elapsed", time.Since(started)))
}
