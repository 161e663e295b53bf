package transport

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ErrRateLimited is returned when a request could not obtain a rate limiter token
var ErrRateLimited = errors.New("rate limited")

// RateLimitedTransport wraps an http.RoundTripper with rate limiting
type RateLimitedTransport struct {
	transport   http.RoundTripper
	rateLimiter *rate.Limiter
}

// NewRateLimitedTransport limits next to requestsPerSecond with the given burst
func NewRateLimitedTransport(next http.RoundTripper, requestsPerSecond float64, burstCapacity int) *RateLimitedTransport {
	return &RateLimitedTransport{
		transport:   next,
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burstCapacity),
	}
}

// RoundTrip implements the http.RoundTripper interface with rate limiting
func (r *RateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := r.rateLimiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	return r.transport.RoundTrip(req)
}

// newBaseTransport returns the pooled transport every rate-limited client wraps
func newBaseTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

// NewRateLimitedHTTPClient creates an HTTP client with rate limiting
func NewRateLimitedHTTPClient(requestsPerSecond float64, burstCapacity int, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: NewRateLimitedTransport(newBaseTransport(), requestsPerSecond, burstCapacity),
		Timeout:   timeout,
	}
}
