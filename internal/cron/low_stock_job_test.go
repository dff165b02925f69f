package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/stocksentryhq/stocksentry-backend/internal/alerts"
	"github.com/stocksentryhq/stocksentry-backend/pkg/logger"
)

func TestLowStockJobRunsSweep(t *testing.T) {
	generator := &fakeAlertGenerator{result: &alerts.GenerateResult{Success: true, AlertsCreated: 3, Message: "Generated 3 new alerts"}}
	job := newLowStockJob(t, generator)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if generator.called != 1 {
		t.Fatalf("expected generator called once, got %d", generator.called)
	}
}

func TestLowStockJobPropagatesErrors(t *testing.T) {
	generator := &fakeAlertGenerator{err: errors.New("boom")}
	job := newLowStockJob(t, generator)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestLowStockJobName(t *testing.T) {
	job := newLowStockJob(t, &fakeAlertGenerator{result: &alerts.GenerateResult{}})
	if job.Name() != "low-stock-sweep" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
}

func newLowStockJob(t *testing.T, generator *fakeAlertGenerator) Job {
	t.Helper()
	job, err := NewLowStockJob(LowStockJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		Alerts: generator,
	})
	if err != nil {
		t.Fatalf("NewLowStockJob: %v", err)
	}
	return job
}

type fakeAlertGenerator struct {
	result *alerts.GenerateResult
	err    error
	called int
}

func (f *fakeAlertGenerator) Generate(ctx context.Context) (*alerts.GenerateResult, error) {
	f.called++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}
