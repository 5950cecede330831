package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ppiankov/argmap/internal/model"
	"github.com/ppiankov/argmap/internal/util"
)

var (
	// ErrDisallowed is returned when robots.txt forbids fetching a URL
	ErrDisallowed = errors.New("disallowed by robots.txt")
	// ErrTooLarge is returned when a body exceeds the configured limit
	ErrTooLarge = errors.New("response body too large")
)

// StatusError reports a non-2xx response
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, e.Status)
}

// RateLimiter delays requests per host
type RateLimiter interface {
	WaitWithDelay(ctx context.Context, rawURL string, additionalDelay time.Duration) error
}

// fetchSleepFunc is replaced in tests
var fetchSleepFunc = time.Sleep

const fetchAttempts = 3

// Fetcher retrieves remote Argdown documents
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker // nil when robots.txt is ignored
	limiter    RateLimiter         // nil for no rate limiting
	logger     *slog.Logger
}

// NewFetcher creates a fetcher from the HTTP settings. limiter may be nil.
func NewFetcher(cfg model.HTTPConfig, limiter RateLimiter, logger *slog.Logger) (*Fetcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	proxy, err := util.NewProxyFunc(cfg.Proxies)
	if err != nil {
		return nil, err
	}

	maxRedirects := cfg.MaxRedirects
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = proxy
	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		limiter:    limiter,
		logger:     logger,
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(client, cfg.UserAgent, logger)
	}
	return f, nil
}

// FetchResult is a fetched document
type FetchResult struct {
	Body     string          `json:"body"`
	Meta     model.FetchMeta `json:"meta"`
	FinalURL string          `json:"final_url"`
}

// Fetch retrieves rawURL once
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	var crawlDelay time.Duration
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
		crawlDelay = delay
	}
	if f.limiter != nil {
		if err := f.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/plain,text/markdown;q=0.9,text/html;q=0.8,*/*;q=0.5")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	meta := model.FetchMeta{
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		LastModified: resp.Header.Get("Last-Modified"),
		ETag:         resp.Header.Get("ETag"),
		Headers:      make(map[string]string),
	}
	for _, key := range []string{"Content-Length", "Server", "Cache-Control"} {
		if val := resp.Header.Get(key); val != "" {
			meta.Headers[key] = val
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%s: over %d bytes: %w", rawURL, f.maxBytes, ErrTooLarge)
	}

	return &FetchResult{
		Body:     string(body),
		Meta:     meta,
		FinalURL: resp.Request.URL.String(),
	}, nil
}

// FetchWithRetry retries transient failures with exponential backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
			f.logger.Debug("retrying fetch", "url", rawURL, "attempt", attempt+1, "backoff", backoff, "error", lastErr)
			fetchSleepFunc(backoff)
		}
		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if ctx.Err() != nil || !isRetryableFetchError(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

// isRetryableFetchError reports server errors, rate limiting and network
// failures as transient
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	var status *StatusError
	if errors.As(err, &status) {
		return status.Code >= 500 || status.Code == http.StatusTooManyRequests
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
