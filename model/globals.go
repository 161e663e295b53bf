package model

import (
	"io"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Globals contains global flags for the CLI.
type Globals struct {
	Version  VersionFlag `name:"version" help:"Print version information and quit"`
	LogLevel string      `name:"log-level" help:"Log level (error, warn, info, debug)" env:"FEED_LOADER_LOG_LEVEL" default:"info"`
	JSONLogs bool        `name:"json-logs" help:"Emit logs as JSON" env:"FEED_LOADER_JSON_LOGS"`
	Debug    bool        `name:"debug" help:"Shorthand for --log-level=debug" env:"FEED_LOADER_DEBUG"`
}

// Logger builds a logger writing to out from the global flags
func (g *Globals) Logger(out io.Writer) *logrus.Logger {
	values := map[string]string{
		EnvLogLevel: g.LogLevel,
		EnvJSONLogs: strconv.FormatBool(g.JSONLogs),
		EnvDebug:    strconv.FormatBool(g.Debug),
	}
	return NewLoggerFromEnv(out, func(key string) string { return values[key] })
}
