package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/stocksentryhq/stocksentry-backend/internal/ingest"
	pkgerrors "github.com/stocksentryhq/stocksentry-backend/pkg/errors"
)

// Kind names one of the downloadable reports.
type Kind string

const (
	KindPredictions   Kind = "predictions"
	KindAlerts        Kind = "alerts"
	KindStockBalances Kind = "stock_balances"
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known report Kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindPredictions, KindAlerts, KindStockBalances:
		return true
	default:
		return false
	}
}

// ParseKind converts raw input into a report Kind.
func ParseKind(value string) (Kind, error) {
	kind := Kind(value)
	if !kind.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "Invalid export type")
	}
	return kind, nil
}

// Service renders downloadable CSV reports and upload templates.
type Service interface {
	// Export streams the named report to w and returns its download filename.
	Export(ctx context.Context, kind Kind, w io.Writer) (string, error)
	// Sample streams the upload template for a file kind and returns its
	// download filename.
	Sample(kind ingest.FileKind, w io.Writer) (string, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the export service.
func NewService(repo Repository, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("export repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}, nil
}

func (s *service) Export(ctx context.Context, kind Kind, w io.Writer) (string, error) {
	var render func(io.Writer) error
	switch kind {
	case KindPredictions:
		rows, err := s.repo.Predictions(ctx)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "export predictions")
		}
		render = func(w io.Writer) error { return renderPredictions(w, rows) }
	case KindAlerts:
		rows, err := s.repo.Alerts(ctx)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "export alerts")
		}
		render = func(w io.Writer) error { return renderAlerts(w, rows) }
	case KindStockBalances:
		rows, err := s.repo.StockBalances(ctx)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "export stock balances")
		}
		render = func(w io.Writer) error { return renderStockBalances(w, rows) }
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "Invalid export type")
	}

	if err := render(w); err != nil {
		return "", pkgerrors.Wrapf(pkgerrors.CodeInternal, err, "render %s export", kind)
	}
	return s.exportFilename(kind), nil
}

func (s *service) Sample(kind ingest.FileKind, w io.Writer) (string, error) {
	if !kind.IsValid() {
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "Unknown data type: %s", kind)
	}
	if err := renderSample(w, kind); err != nil {
		return "", pkgerrors.Wrapf(pkgerrors.CodeInternal, err, "render %s sample", kind)
	}
	return fmt.Sprintf("sample_%s.csv", kind), nil
}

func (s *service) exportFilename(kind Kind) string {
	return fmt.Sprintf("%s_%s.csv", kind, s.now().Format("20060102_150405"))
}
