package util

import (
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
)

// NewProxyFunc returns a Transport.Proxy function rotating through
// proxies round-robin. Without proxies the environment settings apply.
func NewProxyFunc(proxies []string) (func(*http.Request) (*url.URL, error), error) {
	if len(proxies) == 0 {
		return http.ProxyFromEnvironment, nil
	}

	parsed := make([]*url.URL, len(proxies))
	for i, p := range proxies {
		u, err := url.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("parse proxy %q: %w", p, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("parse proxy %q: missing scheme or host", p)
		}
		parsed[i] = u
	}

	var next atomic.Uint64
	return func(*http.Request) (*url.URL, error) {
		i := next.Add(1) - 1
		return parsed[i%uint64(len(parsed))], nil
	}, nil
}
