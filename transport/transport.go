// Package transport performs the single HTTP GET behind every feed load.
package transport

import (
	"context"
	"net/http"
)

// RequestIDHeader carries the per-load request ID to the feed server
const RequestIDHeader = "X-Request-ID"

// Response is the metadata of a completed exchange
type Response struct {
	StatusCode int
	Header     http.Header
	// URL is the final URL after redirects
	URL string
}

// Result is the outcome of one Get: either Data and Response, or Err.
type Result struct {
	Data     []byte
	Response Response
	Err      error
}

// Client performs a GET for url and calls completion exactly once,
// on an unspecified goroutine.
type Client interface {
	Get(ctx context.Context, url string, completion func(Result))
}

type requestIDKey struct{}

// WithRequestID returns a context carrying id, sent as the X-Request-ID header
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request ID stored in ctx, if any
func RequestIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}
