package model

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrorType represents different categories of errors that can occur
type ErrorType string

const (
	// ErrorTypeNetwork represents general network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeTimeout represents request timeout errors
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeConnectionFailed represents connection establishment failures
	ErrorTypeConnectionFailed ErrorType = "connection_failed"
	// ErrorTypeDNSResolution represents DNS resolution failures
	ErrorTypeDNSResolution ErrorType = "dns_resolution"
	// ErrorTypeCanceled represents requests abandoned by their caller
	ErrorTypeCanceled ErrorType = "canceled"
	// ErrorTypeCircuitBreaker represents circuit breaker state errors
	ErrorTypeCircuitBreaker ErrorType = "circuit_breaker"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeResponseTooLarge represents bodies exceeding the configured limit
	ErrorTypeResponseTooLarge ErrorType = "response_too_large"

	// ErrorTypeUnexpectedStatus represents any HTTP status other than 200
	ErrorTypeUnexpectedStatus ErrorType = "unexpected_status"
	// ErrorTypeMalformedJSON represents bodies that are not valid JSON
	ErrorTypeMalformedJSON ErrorType = "malformed_json"
	// ErrorTypeSchemaViolation represents JSON that does not have the feed shape
	ErrorTypeSchemaViolation ErrorType = "schema_violation"
	// ErrorTypeInvalidField represents a well-shaped record with an unusable value
	ErrorTypeInvalidField ErrorType = "invalid_field"

	// ErrorTypeValidation represents URL validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeInvalidURL represents invalid URL format errors
	ErrorTypeInvalidURL ErrorType = "invalid_url"
	// ErrorTypeUnsupportedScheme represents unsupported URL scheme errors
	ErrorTypeUnsupportedScheme ErrorType = "unsupported_scheme"
	// ErrorTypePrivateIP represents private IP address blocked errors
	ErrorTypePrivateIP ErrorType = "private_ip_blocked"

	// ErrorTypeConfiguration represents configuration-related errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// FeedError represents a structured error with additional context for debugging
type FeedError struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	ErrorType  ErrorType `json:"error_type"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion"`

	URL       string `json:"url,omitempty"`
	Operation string `json:"operation,omitempty"`
	Component string `json:"component,omitempty"`

	HTTPStatus  int               `json:"http_status,omitempty"`
	HTTPHeaders map[string]string `json:"http_headers,omitempty"`

	ParseContext *ParseContext `json:"parse_context,omitempty"`

	Cause error `json:"-"`
}

// ParseContext provides additional context for payload errors
type ParseContext struct {
	LineNumber     int    `json:"line_number,omitempty"`
	ColumnNumber   int    `json:"column_number,omitempty"`
	ContentSnippet string `json:"content_snippet,omitempty"`
	// Path is the JSON location of the offending value, e.g. "items[2].id"
	Path string `json:"path,omitempty"`
}

// Error implements the error interface
func (fe *FeedError) Error() string {
	var parts []string

	if fe.Message != "" {
		parts = append(parts, fe.Message)
	}

	if fe.URL != "" {
		parts = append(parts, fmt.Sprintf("URL: %s", fe.URL))
	}

	if fe.Operation != "" {
		parts = append(parts, fmt.Sprintf("Operation: %s", fe.Operation))
	}

	if fe.HTTPStatus != 0 {
		parts = append(parts, fmt.Sprintf("HTTP Status: %d", fe.HTTPStatus))
	}

	parts = append(parts, fmt.Sprintf("Type: %s", fe.ErrorType), fmt.Sprintf("ID: %s", fe.ID))

	return strings.Join(parts, " | ")
}

// Unwrap returns the underlying cause for error wrapping support
func (fe *FeedError) Unwrap() error {
	return fe.Cause
}

// Kind collapses the error type into the failure kind reported to callers.
// Anything that happened before a response was fully received is Connectivity.
func (fe *FeedError) Kind() LoadError {
	switch fe.ErrorType {
	case ErrorTypeUnexpectedStatus, ErrorTypeMalformedJSON, ErrorTypeSchemaViolation, ErrorTypeInvalidField:
		return InvalidData
	default:
		return Connectivity
	}
}

// Is lets errors.Is match a FeedError against its LoadError kind
func (fe *FeedError) Is(target error) bool {
	kind, ok := target.(LoadError)
	return ok && fe.Kind() == kind
}

// NewFeedError creates a new FeedError with basic information
func NewFeedError(errorType ErrorType, message string) *FeedError {
	id, _ := gonanoid.New()

	return &FeedError{
		ID:         id,
		Timestamp:  time.Now().UTC(),
		ErrorType:  errorType,
		Message:    message,
		Suggestion: getSuggestionForErrorType(errorType),
	}
}

// NewFeedErrorWithCause creates a new FeedError wrapping an existing error
func NewFeedErrorWithCause(errorType ErrorType, message string, cause error) *FeedError {
	fe := NewFeedError(errorType, message)
	fe.Cause = cause
	return fe
}

// WithURL adds URL context to the error
func (fe *FeedError) WithURL(url string) *FeedError {
	fe.URL = url
	return fe
}

// WithOperation adds operation context to the error
func (fe *FeedError) WithOperation(operation string) *FeedError {
	fe.Operation = operation
	return fe
}

// WithComponent adds component context to the error
func (fe *FeedError) WithComponent(component string) *FeedError {
	fe.Component = component
	return fe
}

// WithHTTP adds HTTP-specific context to the error
func (fe *FeedError) WithHTTP(status int, headers http.Header) *FeedError {
	fe.HTTPStatus = status

	if headers != nil {
		fe.HTTPHeaders = make(map[string]string)

		relevantHeaders := []string{
			"Content-Type", "Content-Length", "Server", "Cache-Control",
			"Etag", "Last-Modified", "Retry-After", "X-Request-Id",
		}

		for _, header := range relevantHeaders {
			if value := headers.Get(header); value != "" {
				fe.HTTPHeaders[header] = value
			}
		}
	}

	return fe
}

// WithParseContext adds parsing-specific context
func (fe *FeedError) WithParseContext(ctx *ParseContext) *FeedError {
	fe.ParseContext = ctx
	return fe
}

func getSuggestionForErrorType(errorType ErrorType) string {
	suggestions := map[ErrorType]string{
		ErrorTypeTimeout:           "Check network connectivity or increase the timeout",
		ErrorTypeConnectionFailed:  "Verify the URL is accessible and the server is running",
		ErrorTypeDNSResolution:     "Check DNS settings and verify the domain name is correct",
		ErrorTypeCanceled:          "The request was abandoned before it completed",
		ErrorTypeCircuitBreaker:    "Service is temporarily unavailable due to repeated failures",
		ErrorTypeRateLimit:         "Request rate limit exceeded, reduce the number of concurrent loads",
		ErrorTypeResponseTooLarge:  "The response exceeds the body size limit, raise --max-body-bytes if it is expected",
		ErrorTypeUnexpectedStatus:  "The server did not answer 200 OK, verify the URL points at the feed",
		ErrorTypeMalformedJSON:     "The feed contains invalid JSON, contact the feed provider",
		ErrorTypeSchemaViolation:   "The feed JSON does not have the expected items shape, contact the feed provider",
		ErrorTypeInvalidField:      "A feed item has an invalid id or image URL, contact the feed provider",
		ErrorTypeInvalidURL:        "Check the URL format and ensure it's a valid HTTP/HTTPS URL",
		ErrorTypeUnsupportedScheme: "Only HTTP and HTTPS URLs are supported",
		ErrorTypePrivateIP:         "Private IP addresses are blocked for security, use --allow-private-ips if needed",
		ErrorTypeConfiguration:     "Review configuration parameters for correctness",
	}

	if suggestion, exists := suggestions[errorType]; exists {
		return suggestion
	}

	return "Check the error details and try again"
}
