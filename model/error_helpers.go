package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// CreateNetworkError creates a FeedError for errors raised before a response was received
func CreateNetworkError(err error, feedURL string) *FeedError {
	errorType := ErrorTypeNetwork
	message := "Network error occurred"

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		errorType = ErrorTypeCanceled
		message = "Request canceled"
	case isTimeoutError(err):
		errorType = ErrorTypeTimeout
		message = "Request timed out"
	case isDNSError(err):
		errorType = ErrorTypeDNSResolution
		message = "DNS resolution failed"
	case isConnectionError(err):
		errorType = ErrorTypeConnectionFailed
		message = "Connection failed"
	}

	return NewFeedErrorWithCause(errorType, message, err).
		WithURL(feedURL).
		WithOperation("fetch_feed").
		WithComponent("http_client")
}

// CreateCircuitBreakerError creates a FeedError for requests refused by a circuit breaker
func CreateCircuitBreakerError(err error, feedURL, state string) *FeedError {
	return NewFeedErrorWithCause(ErrorTypeCircuitBreaker, fmt.Sprintf("Circuit breaker is %s", state), err).
		WithURL(feedURL).
		WithOperation("fetch_feed").
		WithComponent("circuit_breaker")
}

// CreateRateLimitError creates a FeedError for requests that could not get a rate limiter token
func CreateRateLimitError(err error, feedURL string) *FeedError {
	return NewFeedErrorWithCause(ErrorTypeRateLimit, "Request rate limit exceeded", err).
		WithURL(feedURL).
		WithOperation("fetch_feed").
		WithComponent("rate_limiter")
}

// CreateResponseTooLargeError creates a FeedError for bodies larger than limit bytes
func CreateResponseTooLargeError(feedURL string, limit int64) *FeedError {
	return NewFeedError(ErrorTypeResponseTooLarge, fmt.Sprintf("Response body exceeds %d bytes", limit)).
		WithURL(feedURL).
		WithOperation("read_body").
		WithComponent("http_client")
}

// CreateStatusError creates a FeedError for responses whose status code is not 200
func CreateStatusError(status int, headers http.Header) *FeedError {
	var message string

	switch {
	case status >= 500:
		message = fmt.Sprintf("Server error: %d %s", status, http.StatusText(status))
	case status >= 400:
		message = fmt.Sprintf("Client error: %d %s", status, http.StatusText(status))
	case status >= 300:
		message = fmt.Sprintf("Redirect not followed: %d %s", status, http.StatusText(status))
	default:
		message = fmt.Sprintf("Unexpected status: %d", status)
	}

	return NewFeedError(ErrorTypeUnexpectedStatus, message).
		WithOperation("map_response").
		WithComponent("feed_mapper").
		WithHTTP(status, headers)
}

// CreateParsingError creates a FeedError for bodies that could not be decoded as JSON
func CreateParsingError(err error, content []byte) *FeedError {
	fe := NewFeedErrorWithCause(ErrorTypeMalformedJSON, "Feed contains malformed JSON", err).
		WithOperation("parse_feed").
		WithComponent("feed_mapper")

	if parseCtx := extractParseContext(err, content); parseCtx != nil {
		fe.WithParseContext(parseCtx)
	}

	return fe
}

// CreateSchemaError creates a FeedError for JSON that does not match the feed schema
func CreateSchemaError(err error) *FeedError {
	return NewFeedErrorWithCause(ErrorTypeSchemaViolation, "Feed does not match the expected schema", err).
		WithOperation("validate_feed").
		WithComponent("feed_mapper")
}

// CreateFieldError creates a FeedError for a record value that failed validation
func CreateFieldError(err error, path string) *FeedError {
	return NewFeedErrorWithCause(ErrorTypeInvalidField, fmt.Sprintf("Invalid value at %s", path), err).
		WithOperation("decode_item").
		WithComponent("feed_mapper").
		WithParseContext(&ParseContext{Path: path})
}

// CreateValidationError creates a FeedError for URL validation issues
func CreateValidationError(err error, feedURL string) *FeedError {
	errorType := ErrorTypeValidation
	message := "URL validation failed"

	switch {
	case errors.Is(err, ErrInvalidURL), errors.Is(err, ErrMissingHost), errors.Is(err, ErrEmptyURL):
		errorType = ErrorTypeInvalidURL
		message = "Invalid URL"
	case errors.Is(err, ErrUnsupportedScheme):
		errorType = ErrorTypeUnsupportedScheme
		message = "Unsupported URL scheme"
	case errors.Is(err, ErrPrivateIPBlocked):
		errorType = ErrorTypePrivateIP
		message = "Private IP address blocked"
	}

	return NewFeedErrorWithCause(errorType, message, err).
		WithURL(feedURL).
		WithOperation("validate_url").
		WithComponent("url_validator")
}

func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, keyword := range []string{"timeout", "deadline exceeded", "timed out"} {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}

	return false
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	dnsKeywords := []string{
		"no such host", "name resolution", "name or service not known",
		"nodename nor servname provided",
	}
	for _, keyword := range dnsKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}

	return false
}

func isConnectionError(err error) bool {
	for _, errno := range []syscall.Errno{
		syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ECONNABORTED,
		syscall.EHOSTUNREACH, syscall.ENETUNREACH,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}

	errStr := strings.ToLower(err.Error())
	connKeywords := []string{
		"connection refused", "connection reset", "connection aborted",
		"host unreachable", "network unreachable", "no route to host",
	}
	for _, keyword := range connKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}

	return false
}

// extractParseContext turns the byte offset of a JSON syntax or type error
// into a line, column and snippet of the offending content.
func extractParseContext(err error, content []byte) *ParseContext {
	var offset int64

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return nil
	}

	if offset <= 0 || offset > int64(len(content)) {
		return nil
	}

	ctx := &ParseContext{LineNumber: 1, ColumnNumber: 1}
	for _, b := range content[:offset-1] {
		if b == '\n' {
			ctx.LineNumber++
			ctx.ColumnNumber = 1
		} else {
			ctx.ColumnNumber++
		}
	}

	start := max(0, int(offset)-20)
	end := min(len(content), int(offset)+20)
	ctx.ContentSnippet = string(content[start:end])

	if typeErr != nil && typeErr.Field != "" {
		ctx.Path = typeErr.Field
	}

	return ctx
}
