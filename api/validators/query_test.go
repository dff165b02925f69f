package validators

import (
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/stocksentryhq/stocksentry-backend/pkg/errors"
)

func getWithQuery(query string) *http.Request {
	return httptest.NewRequest(http.MethodGet, "/?"+query, nil)
}

func TestParseQueryIntDefaultsAndBounds(t *testing.T) {
	got, err := ParseQueryInt(getWithQuery(""), "limit", 25, 0, 100)
	if err != nil || got != 25 {
		t.Fatalf("absent param: got %d, %v; want 25, nil", got, err)
	}

	got, err = ParseQueryInt(getWithQuery("limit=100"), "limit", 25, 0, 100)
	if err != nil || got != 100 {
		t.Fatalf("upper bound: got %d, %v; want 100, nil", got, err)
	}

	if _, err = ParseQueryInt(getWithQuery("limit=101"), "limit", 25, 0, 100); err == nil {
		t.Fatal("expected out-of-range error")
	} else if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("want validation code, got %v", err)
	}

	if _, err = ParseQueryInt(getWithQuery("limit=ten"), "limit", 25, 0, 100); err == nil {
		t.Fatal("expected non-numeric error")
	}
}

func TestParseQueryIDTreatsZeroAsUnset(t *testing.T) {
	id, err := ParseQueryID(getWithQuery("facility_id=7"), "facility_id")
	if err != nil || id == nil || *id != 7 {
		t.Fatalf("got %v, %v; want 7", id, err)
	}

	id, err = ParseQueryID(getWithQuery("facility_id=0"), "facility_id")
	if err != nil || id != nil {
		t.Fatalf("zero id should be unset, got %v, %v", id, err)
	}

	id, err = ParseQueryID(getWithQuery(""), "facility_id")
	if err != nil || id != nil {
		t.Fatalf("absent id should be unset, got %v, %v", id, err)
	}

	if _, err := ParseQueryID(getWithQuery("facility_id=-4"), "facility_id"); err == nil {
		t.Fatal("negative ids must be rejected")
	}
}
