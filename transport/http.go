package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/richardwooding/feed-loader/model"
	"github.com/richardwooding/feed-loader/version"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// DefaultMaxBodyBytes is the largest response body read when Config.MaxBodyBytes is zero
const DefaultMaxBodyBytes = 10 << 20

// Config configures an HTTPClient. Zero values are replaced with defaults.
type Config struct {
	Timeout                        time.Duration
	MaxBodyBytes                   int64
	HttpClient                     *http.Client
	RequestsPerSecond              float64
	BurstCapacity                  int
	CircuitBreakerEnabled          *bool
	CircuitBreakerMaxRequests      uint32
	CircuitBreakerInterval         time.Duration
	CircuitBreakerTimeout          time.Duration
	CircuitBreakerFailureThreshold uint32
	UserAgent                      string
	Logger                         logrus.FieldLogger
}

// HTTPClient is the net/http implementation of Client.
// It is safe for concurrent use and may be shared by many loaders.
type HTTPClient struct {
	client       *http.Client
	timeout      time.Duration
	maxBodyBytes int64
	userAgent    string
	breakers     *breakerPool
	logger       logrus.FieldLogger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient from config
func NewHTTPClient(config Config) *HTTPClient {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}

	// Set default rate limiting values
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = 2.0
	}
	if config.BurstCapacity <= 0 {
		config.BurstCapacity = 5
	}

	// Set default circuit breaker values - enabled by default
	if config.CircuitBreakerMaxRequests == 0 {
		config.CircuitBreakerMaxRequests = 3
	}
	if config.CircuitBreakerInterval <= 0 {
		config.CircuitBreakerInterval = 60 * time.Second
	}
	if config.CircuitBreakerTimeout <= 0 {
		config.CircuitBreakerTimeout = 30 * time.Second
	}
	if config.CircuitBreakerFailureThreshold == 0 {
		config.CircuitBreakerFailureThreshold = 3
	}

	if config.UserAgent == "" {
		config.UserAgent = version.UserAgent()
	}
	if config.Logger == nil {
		config.Logger = model.DiscardLogger()
	}
	if config.HttpClient == nil {
		config.HttpClient = NewRateLimitedHTTPClient(config.RequestsPerSecond, config.BurstCapacity, config.Timeout)
	}

	c := &HTTPClient{
		client:       config.HttpClient,
		timeout:      config.Timeout,
		maxBodyBytes: config.MaxBodyBytes,
		userAgent:    config.UserAgent,
		logger:       config.Logger,
	}

	if config.CircuitBreakerEnabled == nil || *config.CircuitBreakerEnabled {
		c.breakers = newBreakerPool(breakerSettings{
			maxRequests:      config.CircuitBreakerMaxRequests,
			interval:         config.CircuitBreakerInterval,
			timeout:          config.CircuitBreakerTimeout,
			failureThreshold: config.CircuitBreakerFailureThreshold,
		}, config.Logger)
	}

	return c
}

// Get issues a GET for rawURL on a new goroutine and calls completion exactly once.
// Any non-nil Result.Err is a *model.FeedError.
func (c *HTTPClient) Get(ctx context.Context, rawURL string, completion func(Result)) {
	go func() {
		completion(c.do(ctx, rawURL))
	}()
}

// BreakerState reports the circuit breaker state of the host of rawURL
func (c *HTTPClient) BreakerState(rawURL string) gobreaker.State {
	if c.breakers == nil {
		return gobreaker.StateClosed
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return gobreaker.StateClosed
	}
	return c.breakers.state(u.Host)
}

func (c *HTTPClient) do(ctx context.Context, rawURL string) Result {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Result{Err: model.NewFeedErrorWithCause(model.ErrorTypeInvalidURL, "Invalid URL", err).
			WithURL(rawURL).
			WithOperation("fetch_feed").
			WithComponent("http_client")}
	}

	if c.breakers == nil {
		return c.fetch(ctx, u)
	}

	res, err := c.breakers.execute(u.Host, func() Result {
		return c.fetch(ctx, u)
	})
	if err != nil {
		return Result{Err: model.CreateCircuitBreakerError(err, rawURL, c.breakers.state(u.Host).String())}
	}
	return res
}

func (c *HTTPClient) fetch(ctx context.Context, u *url.URL) Result {
	rawURL := u.String()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Result{Err: model.CreateNetworkError(err, rawURL)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	fields := logrus.Fields{"url": rawURL}
	if id, ok := RequestIDFrom(ctx); ok {
		req.Header.Set(RequestIDHeader, id)
		fields["request_id"] = id
	}
	logger := c.logger.WithFields(fields)

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, ErrRateLimited) && ctx.Err() == nil {
			return Result{Err: model.CreateRateLimitError(err, rawURL)}
		}
		return Result{Err: model.CreateNetworkError(err, rawURL)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return Result{Err: model.CreateNetworkError(err, rawURL)}
	}
	if int64(len(data)) > c.maxBodyBytes {
		return Result{Err: model.CreateResponseTooLargeError(rawURL, c.maxBodyBytes)}
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	logger.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"bytes":    len(data),
		"duration": time.Since(start),
	}).Debug("fetched feed")

	return Result{
		Data: data,
		Response: Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			URL:        finalURL,
		},
	}
}
