package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/stocksentryhq/stocksentry-backend/api/responses"
	pkgerrors "github.com/stocksentryhq/stocksentry-backend/pkg/errors"
	"github.com/stocksentryhq/stocksentry-backend/pkg/logger"
	pkgredis "github.com/stocksentryhq/stocksentry-backend/pkg/redis"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	// Replaying an ingest file duplicates every movement it carries, so
	// upload keys are held much longer than the rest.
	uploadIdempotencyTTL = 7 * 24 * time.Hour
)

// Every covered route is an exact path; none of them carry URL parameters.
type replayRule struct {
	method string
	path   string
	ttl    time.Duration
}

var replayRules = []replayRule{
	{method: http.MethodPost, path: "/api/v1/upload", ttl: uploadIdempotencyTTL},
	{method: http.MethodPost, path: "/api/v1/predictions", ttl: defaultIdempotencyTTL},
	{method: http.MethodPost, path: "/api/v1/predictions/batch", ttl: defaultIdempotencyTTL},
	{method: http.MethodPost, path: "/api/v1/alerts/generate", ttl: defaultIdempotencyTTL},
}

// replayRecord is the redis value stored per idempotency key. Bodies are
// base64 so CSV attachments survive the JSON round trip.
type replayRecord struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        string `json:"body_b64"`
	RequestSHA  string `json:"request_sha"`
}

func (rec *replayRecord) encode() (string, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func decodeReplay(payload string) (*replayRecord, error) {
	var rec replayRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// replay writes the stored response back out verbatim.
func (rec *replayRecord) replay(w http.ResponseWriter) {
	if rec.ContentType != "" {
		w.Header().Set("Content-Type", rec.ContentType)
	}
	w.WriteHeader(rec.Status)
	if body, err := base64.StdEncoding.DecodeString(rec.Body); err == nil {
		_, _ = w.Write(body)
	}
}

// Idempotency replays the stored response when a POST carries an
// Idempotency-Key header it has seen before. Clients that do not send a
// key bypass deduplication entirely.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, covered := ruleFor(r.Method, patternFor(r))
			if !covered || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if idemKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			requestSHA := fingerprintBody(body)
			key := store.IdempotencyKey(r.Method+"|"+r.URL.Path, idemKey)

			stored, getErr := store.Get(r.Context(), key)
			if getErr != nil && !errors.Is(getErr, redis.Nil) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, getErr, "look up idempotency key"))
				return
			}
			if stored != "" {
				prior, decodeErr := decodeReplay(stored)
				if decodeErr != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, decodeErr, "decode replay record"))
					return
				}
				if prior.RequestSHA != requestSHA {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeConflict, "Idempotency-Key reused with a different request body"))
					return
				}
				prior.replay(w)
				return
			}

			capture := &captureWriter{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			// Server-side failures are not recorded so the same key can retry.
			if capture.statusCode() >= http.StatusInternalServerError {
				return
			}

			rec := replayRecord{
				Status:      capture.statusCode(),
				ContentType: capture.Header().Get("Content-Type"),
				Body:        base64.StdEncoding.EncodeToString(capture.buf.Bytes()),
				RequestSHA:  requestSHA,
			}
			payload, marshalErr := rec.encode()
			if marshalErr != nil {
				if logg != nil {
					logg.Error(r.Context(), "marshal idempotency record", marshalErr)
				}
				return
			}
			if _, setErr := store.SetNX(r.Context(), key, payload, ttl); setErr != nil && logg != nil {
				logg.Error(r.Context(), "persist idempotency record", setErr)
			}
		})
	}
}

func fingerprintBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// patternFor prefers the chi route template so matching stays stable no
// matter where the middleware sits, falling back to the raw path when it
// runs before routing.
func patternFor(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// ruleFor reports the retention for routes the dedupe layer covers.
func ruleFor(method, pattern string) (time.Duration, bool) {
	if pattern == "" {
		return 0, false
	}
	for _, rule := range replayRules {
		if rule.method == method && rule.path == pattern {
			return rule.ttl, true
		}
	}
	return 0, false
}

// captureWriter buffers the downstream response so a success can be stored
// for replay.
type captureWriter struct {
	http.ResponseWriter
	buf  bytes.Buffer
	code int
}

func (c *captureWriter) WriteHeader(code int) {
	if c.code == 0 {
		c.code = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *captureWriter) Write(b []byte) (int, error) {
	c.buf.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *captureWriter) statusCode() int {
	if c.code == 0 {
		return http.StatusOK
	}
	return c.code
}
