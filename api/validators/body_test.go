package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/stocksentryhq/stocksentry-backend/pkg/errors"
)

type capPayload struct {
	Name  string `json:"name" validate:"required"`
	Items []int  `json:"items" validate:"max=3"`
}

func postJSON(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	var payload capPayload
	if err := DecodeJSONBody(postJSON(`{"name":"ACT 20mg","items":[1,2]}`), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Name != "ACT 20mg" || len(payload.Items) != 2 {
		t.Fatalf("payload not populated: %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	var payload capPayload
	err := DecodeJSONBody(postJSON(`{"name":"x","facilty_id":9}`), &payload)
	if err == nil {
		t.Fatal("expected unknown-field error")
	}
	apiErr := pkgerrors.As(err)
	if apiErr == nil || apiErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
	details, ok := apiErr.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected detail map, got %T", apiErr.Details())
	}
	if msg, _ := details["error"].(string); !strings.Contains(msg, "unknown field") {
		t.Fatalf("expected unknown-field detail, got %q", msg)
	}
}

func TestDecodeJSONBodyRejectsMalformedJSON(t *testing.T) {
	var payload capPayload
	err := DecodeJSONBody(postJSON(`{"name":`), &payload)
	if err == nil {
		t.Fatal("expected decode error")
	}
	apiErr := pkgerrors.As(err)
	if apiErr == nil || apiErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldsByJSONName(t *testing.T) {
	var payload capPayload
	err := DecodeJSONBody(postJSON(`{"items":[1,2,3,4]}`), &payload)
	if err == nil {
		t.Fatal("expected validation error")
	}
	apiErr := pkgerrors.As(err)
	if apiErr == nil {
		t.Fatalf("expected api error, got %v", err)
	}

	details, ok := apiErr.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected detail map, got %T", apiErr.Details())
	}
	if got := details["name"]; got != "is required" {
		t.Fatalf(`expected name "is required", got %q`, got)
	}
	if got := details["items"]; got != "must be at most 3" {
		t.Fatalf(`expected items cap message, got %q`, got)
	}
}
