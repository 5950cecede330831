package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/argmap/internal/model"
)

func testHTTPConfig() model.HTTPConfig {
	cfg := model.DefaultConfig().HTTP
	cfg.Timeout = 5 * time.Second
	cfg.UserAgent = "test-agent"
	cfg.MaxBodyBytes = 1 << 20
	cfg.RespectRobots = false
	return cfg
}

func newTestFetcher(t *testing.T, cfg model.HTTPConfig, limiter RateLimiter) *Fetcher {
	t.Helper()
	f, err := NewFetcher(cfg, limiter, nil)
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}
	return f
}

func noSleep(t *testing.T) {
	t.Helper()
	orig := fetchSleepFunc
	fetchSleepFunc = func(time.Duration) {}
	t.Cleanup(func() { fetchSleepFunc = orig })
}

func TestFetchWithRetry_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("unexpected User-Agent %q", ua)
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("ETag", `"v1"`)
		_, _ = fmt.Fprint(w, "[C]: Claim.")
	}))
	defer server.Close()

	result, err := newTestFetcher(t, testHTTPConfig(), nil).FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Body != "[C]: Claim." {
		t.Errorf("Unexpected body: %s", result.Body)
	}
	if result.Meta.StatusCode != http.StatusOK || result.Meta.ETag != `"v1"` {
		t.Errorf("Unexpected meta: %+v", result.Meta)
	}
}

func TestFetchWithRetry_TransientThenSuccess(t *testing.T) {
	noSleep(t)
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, "OK")
	}))
	defer server.Close()

	result, err := newTestFetcher(t, testHTTPConfig(), nil).FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if result.Body != "OK" {
		t.Errorf("Unexpected body: %s", result.Body)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_PermanentFailure(t *testing.T) {
	noSleep(t)
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestFetcher(t, testHTTPConfig(), nil).FetchWithRetry(context.Background(), server.URL)
	var status *StatusError
	if !errors.As(err, &status) || status.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 status error, got %v", err)
	}
	if got := err.Error(); got != "unexpected status: 404 Not Found" {
		t.Errorf("Unexpected error: %s", got)
	}
	if attempts.Load() != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_AllRetriesExhausted(t *testing.T) {
	noSleep(t)
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestFetcher(t, testHTTPConfig(), nil).FetchWithRetry(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error after all retries exhausted")
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_429Retried(t *testing.T) {
	noSleep(t)
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = fmt.Fprint(w, "OK")
	}))
	defer server.Close()

	_, err := newTestFetcher(t, testHTTPConfig(), nil).FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after 429 retry, got %v", err)
	}
	if attempts.Load() != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts.Load())
	}
}

func TestFetch_BodyTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "0123456789ABCDEF")
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.MaxBodyBytes = 10
	_, err := newTestFetcher(t, cfg, nil).Fetch(context.Background(), server.URL)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Expected ErrTooLarge, got %v", err)
	}
}

func TestFetch_RedirectLimit(t *testing.T) {
	var hops atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hops.Add(1)
		http.Redirect(w, r, "/next", http.StatusFound)
	}))
	defer server.Close()

	_, err := newTestFetcher(t, testHTTPConfig(), nil).Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected redirect error")
	}
	if hops.Load() != 3 {
		t.Errorf("Expected 3 requests before giving up, got %d", hops.Load())
	}
}

func TestFetch_RobotsDisallow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private\n")
			return
		}
		_, _ = fmt.Fprint(w, "[C]: Claim.")
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.RespectRobots = true
	f := newTestFetcher(t, cfg, nil)

	if _, err := f.Fetch(context.Background(), server.URL+"/private/map.argdown"); !errors.Is(err, ErrDisallowed) {
		t.Errorf("Expected ErrDisallowed, got %v", err)
	}
	if _, err := f.Fetch(context.Background(), server.URL+"/public/map.argdown"); err != nil {
		t.Errorf("Expected public path to be fetched, got %v", err)
	}
}

type recordingLimiter struct {
	calls atomic.Int32
}

func (l *recordingLimiter) WaitWithDelay(ctx context.Context, rawURL string, delay time.Duration) error {
	l.calls.Add(1)
	return ctx.Err()
}

func TestFetch_UsesRateLimiter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "OK")
	}))
	defer server.Close()

	limiter := &recordingLimiter{}
	f := newTestFetcher(t, testHTTPConfig(), limiter)
	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("Fetch: %v", err)
		}
	}
	if limiter.calls.Load() != 2 {
		t.Errorf("Expected 2 limiter calls, got %d", limiter.calls.Load())
	}
}

func TestNewFetcher_BadProxy(t *testing.T) {
	cfg := testHTTPConfig()
	cfg.Proxies = []string{"not a proxy"}
	if _, err := NewFetcher(cfg, nil, nil); err == nil {
		t.Error("Expected error for malformed proxy")
	}
}

func TestIsRetryableFetchError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"503", &StatusError{Code: 503}, true},
		{"500", &StatusError{Code: 500}, true},
		{"502 wrapped", fmt.Errorf("load: %w", &StatusError{Code: 502}), true},
		{"429", &StatusError{Code: 429}, true},
		{"404", &StatusError{Code: 404}, false},
		{"403", &StatusError{Code: 403}, false},
		{"network", fmt.Errorf("fetch: %w", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("connection refused")}), true},
		{"disallowed", ErrDisallowed, false},
		{"too large", ErrTooLarge, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableFetchError(tt.err); got != tt.retryable {
				t.Errorf("isRetryableFetchError(%v) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}
}
