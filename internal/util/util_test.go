package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func robotsServer(t *testing.T, body string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		if body == "" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRobotsChecker_CanFetch(t *testing.T) {
	var hits int32
	srv := robotsServer(t, "User-agent: argmap\nDisallow: /private\nCrawl-delay: 2\n\nUser-agent: *\nDisallow: /\n", &hits)
	r := NewRobotsChecker(srv.Client(), "argmap/0.1 (+https://github.com/ppiankov/argmap)", nil)
	ctx := context.Background()

	allowed, delay, err := r.CanFetch(ctx, srv.URL+"/maps/free-will.argdown")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 2*time.Second, delay)

	allowed, _, err = r.CanFetch(ctx, srv.URL+"/private/notes.argdown")
	require.NoError(t, err)
	assert.False(t, allowed)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "robots.txt is cached per host")

	r.Clear()
	_, _, err = r.CanFetch(ctx, srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	srv := robotsServer(t, "", nil)
	r := NewRobotsChecker(srv.Client(), "argmap/0.1", nil)

	allowed, _, err := r.CanFetch(context.Background(), srv.URL+"/anything")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRobotsChecker_UnreachableAllows(t *testing.T) {
	srv := robotsServer(t, "", nil)
	url := srv.URL
	srv.Close()

	r := NewRobotsChecker(&http.Client{Timeout: time.Second}, "argmap/0.1", nil)
	allowed, _, err := r.CanFetch(context.Background(), url+"/x")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRobotsChecker_BadURL(t *testing.T) {
	r := NewRobotsChecker(nil, "argmap/0.1", nil)
	_, _, err := r.CanFetch(context.Background(), "::invalid")
	assert.Error(t, err)
}

func TestNormalizeUserAgent(t *testing.T) {
	assert.Equal(t, "argmap", NormalizeUserAgent("argmap/0.1 (+https://github.com/ppiankov/argmap)"))
	assert.Equal(t, "curl", NormalizeUserAgent("curl"))
	assert.Equal(t, "", NormalizeUserAgent(""))
}

func TestNewProxyFunc(t *testing.T) {
	fn, err := NewProxyFunc(nil)
	require.NoError(t, err)
	assert.NotNil(t, fn)

	fn, err = NewProxyFunc([]string{"http://p1:8080", "http://p2:8080"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "https://example.org", nil)
	var hosts []string
	for i := 0; i < 3; i++ {
		u, err := fn(req)
		require.NoError(t, err)
		hosts = append(hosts, u.Host)
	}
	assert.Equal(t, []string{"p1:8080", "p2:8080", "p1:8080"}, hosts)

	_, err = NewProxyFunc([]string{"not a proxy"})
	assert.Error(t, err)
}
