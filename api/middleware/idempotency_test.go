package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/stocksentryhq/stocksentry-backend/pkg/errors"
)

// replayStore is an in-memory IdempotencyStore that counts persisted records.
type replayStore struct {
	entries map[string]string
	writes  int
}

func newReplayStore() *replayStore {
	return &replayStore{entries: map[string]string{}}
}

func (s *replayStore) Get(_ context.Context, key string) (string, error) {
	v, ok := s.entries[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (s *replayStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, taken := s.entries[key]; taken {
		return false, nil
	}
	s.writes++
	s.entries[key], _ = value.(string)
	return true, nil
}

func (s *replayStore) IdempotencyKey(scope, id string) string {
	return "test:idem:" + scope + ":" + id
}

// post pushes one POST through the middleware. The path doubles as the route
// pattern since every covered route is parameterless.
func post(mw func(http.Handler) http.Handler, next http.Handler, path, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)
	return rec
}

func TestRuleForMatchesOnlyCoveredWrites(t *testing.T) {
	covered := map[string]time.Duration{
		"/api/v1/upload":            uploadIdempotencyTTL,
		"/api/v1/predictions":       defaultIdempotencyTTL,
		"/api/v1/predictions/batch": defaultIdempotencyTTL,
		"/api/v1/alerts/generate":   defaultIdempotencyTTL,
	}
	for path, want := range covered {
		ttl, ok := ruleFor(http.MethodPost, path)
		if !ok || ttl != want {
			t.Fatalf("%s: want ttl %v, got %v (ok=%v)", path, want, ttl, ok)
		}
	}

	if _, ok := ruleFor(http.MethodGet, "/api/v1/upload"); ok {
		t.Fatal("GET must never be deduplicated")
	}
	if _, ok := ruleFor(http.MethodPost, "/api/v1/facilities"); ok {
		t.Fatal("uncovered POST must pass through")
	}
	if _, ok := ruleFor(http.MethodPost, ""); ok {
		t.Fatal("empty pattern must not match")
	}
}

func TestRoutePatternPrefersChiTemplate(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/raw-path", nil)
	rctx := chi.NewRouteContext()
	rctx.RoutePatterns = []string{"/api/v1/upload"}
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	if got := patternFor(req); got != "/api/v1/upload" {
		t.Fatalf("want chi template, got %q", got)
	}
	if got := patternFor(httptest.NewRequest(http.MethodPost, "/raw-path", nil)); got != "/raw-path" {
		t.Fatalf("want URL fallback, got %q", got)
	}
}

func TestMissingKeySkipsDeduplication(t *testing.T) {
	store := newReplayStore()
	mw := Idempotency(store, nil)
	hits := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusCreated)
	})

	post(mw, next, "/api/v1/predictions", "", `{"facility_id":1}`)
	post(mw, next, "/api/v1/predictions", "", `{"facility_id":1}`)

	if hits != 2 {
		t.Fatalf("want 2 handler runs without a key, got %d", hits)
	}
	if store.writes != 0 {
		t.Fatalf("want no stored records, got %d", store.writes)
	}
}

func TestDuplicateKeyReplaysFirstResponse(t *testing.T) {
	store := newReplayStore()
	mw := Idempotency(store, nil)
	hits := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"attempt":1}`))
	})

	body := `{"facility_id":3,"commodity_id":7}`
	first := post(mw, next, "/api/v1/predictions", "k-123", body)
	second := post(mw, next, "/api/v1/predictions", "k-123", body)

	if hits != 1 {
		t.Fatalf("want a single handler run, got %d", hits)
	}
	if second.Code != http.StatusAccepted || first.Code != http.StatusAccepted {
		t.Fatalf("want 202 on both attempts, got %d then %d", first.Code, second.Code)
	}
	if got := second.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("replay lost content type, got %q", got)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replay body %q differs from original %q", second.Body.String(), first.Body.String())
	}
}

func TestReusedKeyWithNewBodyIsAConflict(t *testing.T) {
	store := newReplayStore()
	mw := Idempotency(store, nil)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	post(mw, next, "/api/v1/alerts/generate", "k-9", `{}`)
	resp := post(mw, next, "/api/v1/alerts/generate", "k-9", `{"force":true}`)

	if resp.Code != http.StatusConflict {
		t.Fatalf("want 409, got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeConflict) {
		t.Fatalf("want %s, got %s", pkgerrors.CodeConflict, envelope.Error.Code)
	}
}

func TestServerErrorsAreNotReplayed(t *testing.T) {
	store := newReplayStore()
	mw := Idempotency(store, nil)
	hits := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	post(mw, next, "/api/v1/upload", "retry-1", "facility_code,name")
	resp := post(mw, next, "/api/v1/upload", "retry-1", "facility_code,name")

	if hits != 2 {
		t.Fatalf("failed attempt must stay retryable, handler ran %d times", hits)
	}
	if resp.Code != http.StatusOK {
		t.Fatalf("want the retry to succeed with 200, got %d", resp.Code)
	}
	if store.writes != 1 {
		t.Fatalf("only the success should be recorded, got %d writes", store.writes)
	}
}
