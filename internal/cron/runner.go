package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stocksentryhq/stocksentry-backend/pkg/logger"
	"github.com/stocksentryhq/stocksentry-backend/pkg/metrics"
)

const defaultSweepInterval = 24 * time.Hour

// RunnerParams configure the sweep worker loop.
type RunnerParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.JobMetrics
	Interval time.Duration
}

// Runner executes registered jobs on a fixed cadence. One replica holds the
// lock per cycle; the rest skip.
type Runner struct {
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  *metrics.JobMetrics
	interval time.Duration
}

// NewRunner builds the worker loop.
func NewRunner(params RunnerParams) (*Runner, error) {
	switch {
	case params.Logger == nil:
		return nil, errors.New("logger required")
	case params.Lock == nil:
		return nil, errors.New("lock required")
	}

	run := &Runner{
		logg:     params.Logger,
		registry: params.Registry,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: params.Interval,
	}
	if run.registry == nil {
		run.registry = NewRegistry()
	}
	if run.interval <= 0 {
		run.interval = defaultSweepInterval
	}
	return run, nil
}

// Run drives cycles until the context is canceled. The first cycle fires
// immediately so a fresh deploy sweeps without waiting a full interval; the
// timer only rearms after a cycle finishes, so cycles never overlap.
func (w *Runner) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logg.Info(ctx, "worker context canceled")
			return ctx.Err()
		case <-timer.C:
		}

		if err := w.runCycle(ctx); err != nil {
			w.logg.Error(ctx, "sweep cycle failed", err)
		}
		timer.Reset(w.interval)
	}
}

func (w *Runner) runCycle(ctx context.Context) error {
	acquired, err := w.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire sweep lock: %w", err)
	}
	if !acquired {
		w.logg.Info(ctx, "another replica holds the sweep lock; skipping this cycle")
		return nil
	}
	defer func() {
		if err := w.lock.Release(ctx); err != nil {
			w.logg.Error(ctx, "release sweep lock", err)
		}
	}()

	w.logg.Info(ctx, "sweep cycle starting")
	for _, job := range w.registry.Jobs() {
		w.runJob(ctx, job)
	}
	w.logg.Info(ctx, "sweep cycle complete")
	return nil
}

// runJob isolates one job: its error is logged and counted, never propagated,
// so a failing job cannot starve the jobs after it.
func (w *Runner) runJob(ctx context.Context, job Job) {
	jobCtx := w.logg.WithFields(ctx, map[string]any{"job": job.Name(), "event": "cron.job"})
	w.logg.Info(jobCtx, "job starting")

	start := time.Now()
	err := job.Run(jobCtx)
	elapsed := time.Since(start)

	w.metrics.ObserveDuration(job.Name(), elapsed)
	jobCtx = w.logg.WithField(jobCtx, "duration_ms", elapsed.Milliseconds())
	if err != nil {
		w.logg.Error(jobCtx, "job failed", err)
		w.metrics.IncFailure(job.Name())
		return
	}
	w.logg.Info(jobCtx, "job complete")
	w.metrics.IncSuccess(job.Name())
}
