package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/rs/dnscache"
	"github.com/turbot/brewery-pipeline/error_helpers"
	"github.com/turbot/brewery-pipeline/rate_limiter"
)

const (
	HttpSourceIdentifier = "http"
	// how much of an error response body is kept for diagnostics
	maxErrorBodyBytes = 512
)

// HttpSource retrieves a complete snapshot from a remote endpoint with a single GET
type HttpSource struct {
	url     string
	client  *http.Client
	limiter *rate_limiter.Limiter
}

type HttpSourceOption func(*HttpSource)

// WithTimeout sets an overall timeout for the request. Zero means no timeout.
func WithTimeout(timeout time.Duration) HttpSourceOption {
	return func(s *HttpSource) {
		s.client.Timeout = timeout
	}
}

func WithRateLimiter(l *rate_limiter.Limiter) HttpSourceOption {
	return func(s *HttpSource) {
		s.limiter = l
	}
}

// WithHttpClient replaces the default client. The source uses a copy, so a timeout option never modifies c.
func WithHttpClient(c *http.Client) HttpSourceOption {
	return func(s *HttpSource) {
		cp := *c
		s.client = &cp
	}
}

func NewHttpSource(url string, opts ...HttpSourceOption) *HttpSource {
	s := &HttpSource{
		url:    url,
		client: &http.Client{Transport: newCachingTransport()},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HttpSource) Identifier() string {
	return HttpSourceIdentifier
}

func (s *HttpSource) URL() string {
	return s.url
}

// Fetch issues the GET and returns the response body.
// Any failure to obtain a 200 response is returned as a SourceUnavailable error.
func (s *HttpSource) Fetch(ctx context.Context, stage string) ([]byte, error) {
	if s.limiter != nil {
		release, err := s.limiter.Acquire(ctx)
		if err != nil {
			return nil, error_helpers.NewSourceUnavailableError(stage, s.url, 0, err)
		}
		defer release()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", s.url, err)
	}
	req.Header.Set("Accept", "application/json")

	slog.Debug("HttpSource fetching snapshot", "url", s.url)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, error_helpers.NewSourceUnavailableError(stage, s.url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		slog.Error("HttpSource received non-success status", "url", s.url, "status", resp.StatusCode, "body", string(snippet))
		return nil, error_helpers.NewSourceUnavailableError(stage, s.url, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, error_helpers.NewSourceUnavailableError(stage, s.url, resp.StatusCode, fmt.Errorf("failed reading response body: %w", err))
	}
	slog.Debug("HttpSource fetched snapshot", "url", s.url, "bytes", len(body))
	return body, nil
}

// newCachingTransport returns a transport which resolves hosts through an in-memory DNS cache
func newCachingTransport() *http.Transport {
	resolver := &dnscache.Resolver{}
	dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}
		ips, err := resolver.LookupHost(ctx, host)
		if err != nil {
			return nil, err
		}
		var conn net.Conn
		for _, ip := range ips {
			conn, err = dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
			if err == nil {
				return conn, nil
			}
		}
		return nil, err
	}
	return transport
}
