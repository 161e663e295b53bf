package model

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Environment variables read by NewLoggerFromEnv
const (
	EnvDebug    = "FEED_LOADER_DEBUG"
	EnvLogLevel = "FEED_LOADER_LOG_LEVEL"
	EnvJSONLogs = "FEED_LOADER_JSON_LOGS"
)

// NewLoggerFromEnv creates a logger writing to out, configured through getenv.
// FEED_LOADER_DEBUG forces debug level, otherwise FEED_LOADER_LOG_LEVEL is used (default info).
// FEED_LOADER_JSON_LOGS switches to JSON output.
func NewLoggerFromEnv(out io.Writer, getenv func(string) string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(parseLogLevel(getenv(EnvLogLevel)))

	if isTruthy(getenv(EnvDebug)) {
		logger.SetLevel(logrus.DebugLevel)
	}

	if isTruthy(getenv(EnvJSONLogs)) {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}

// DiscardLogger returns a logger that drops everything
func DiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// LogFeedError logs a FeedError with all of its context as fields
func LogFeedError(logger logrus.FieldLogger, feedErr *FeedError) {
	if feedErr == nil {
		return
	}

	fields := logrus.Fields{
		"error_id":   feedErr.ID,
		"error_type": feedErr.ErrorType,
		"kind":       feedErr.Kind().Error(),
		"suggestion": feedErr.Suggestion,
	}

	if feedErr.URL != "" {
		fields["url"] = feedErr.URL
	}
	if feedErr.Component != "" {
		fields["component"] = feedErr.Component
	}
	if feedErr.Operation != "" {
		fields["operation"] = feedErr.Operation
	}
	if feedErr.HTTPStatus != 0 {
		fields["http_status"] = feedErr.HTTPStatus
	}
	if len(feedErr.HTTPHeaders) > 0 {
		fields["http_headers"] = feedErr.HTTPHeaders
	}
	if pc := feedErr.ParseContext; pc != nil {
		if pc.LineNumber > 0 {
			fields["parse_line"] = pc.LineNumber
			fields["parse_column"] = pc.ColumnNumber
		}
		if pc.Path != "" {
			fields["parse_path"] = pc.Path
		}
	}
	if feedErr.Cause != nil {
		fields[logrus.ErrorKey] = feedErr.Cause
	}

	logger.WithFields(fields).Warn(feedErr.Message)
}

func parseLogLevel(level string) logrus.Level {
	switch strings.ToUpper(level) {
	case "ERROR":
		return logrus.ErrorLevel
	case "WARN", "WARNING":
		return logrus.WarnLevel
	case "DEBUG":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

func isTruthy(value string) bool {
	return value == "1" || strings.EqualFold(value, "true")
}
