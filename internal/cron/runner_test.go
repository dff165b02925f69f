package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stocksentryhq/stocksentry-backend/pkg/logger"
)

type fakeLock struct {
	acquired bool
	held     bool
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.held || f.acquired {
		return false, nil
	}
	f.acquired = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.acquired = false
	return nil
}

type testJob struct {
	name   string
	err    error
	runs   int
	signal chan struct{}
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	if t.signal != nil {
		select {
		case t.signal <- struct{}{}:
		default:
		}
	}
	return t.err
}

func newTestRunner(t *testing.T, lock Lock, jobs ...Job) *Runner {
	t.Helper()
	runner, err := NewRunner(RunnerParams{
		Logger:   logger.New(logger.Options{ServiceName: "cron-test"}),
		Registry: NewRegistry(jobs...),
		Lock:     lock,
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("construct runner: %v", err)
	}
	return runner
}

func TestRunCycleRunsEveryJobEvenAfterAFailure(t *testing.T) {
	okJob := &testJob{name: "ok"}
	badJob := &testJob{name: "bad", err: errors.New("boom")}
	lastJob := &testJob{name: "after-bad"}
	runner := newTestRunner(t, &fakeLock{}, okJob, badJob, lastJob)

	if err := runner.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	for _, job := range []*testJob{okJob, badJob, lastJob} {
		if job.runs != 1 {
			t.Errorf("job %s ran %d times, want 1", job.name, job.runs)
		}
	}
}

func TestRunCycleSkipsWhileAnotherReplicaHoldsTheLock(t *testing.T) {
	job := &testJob{name: "sweep"}
	runner := newTestRunner(t, &fakeLock{held: true}, job)

	if err := runner.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("job ran %d times while lock was foreign-held", job.runs)
	}
}

func TestRunFiresImmediatelyAndStopsOnCancel(t *testing.T) {
	ran := make(chan struct{}, 1)
	job := &testJob{name: "sweep", signal: ran}
	runner := newTestRunner(t, &fakeLock{}, job)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("first cycle did not fire promptly")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestNewRunnerValidatesParams(t *testing.T) {
	if _, err := NewRunner(RunnerParams{Lock: &fakeLock{}}); err == nil {
		t.Fatal("expected error without logger")
	}
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	if _, err := NewRunner(RunnerParams{Logger: logg}); err == nil {
		t.Fatal("expected error without lock")
	}

	runner, err := NewRunner(RunnerParams{Logger: logg, Lock: &fakeLock{}})
	if err != nil {
		t.Fatalf("minimal params should work: %v", err)
	}
	if runner.interval != defaultSweepInterval {
		t.Fatalf("interval = %v, want default %v", runner.interval, defaultSweepInterval)
	}
	if runner.registry == nil {
		t.Fatal("registry should default to empty, not nil")
	}
}
