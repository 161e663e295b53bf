package model

import (
	"errors"
)

// ErrInvalidFormat is returned by ParseOutputFormat for an unknown format name
var ErrInvalidFormat = errors.New("invalid output format")

// OutputFormat selects how loaded items are printed by the CLI
type OutputFormat uint8

const (
	// UndefinedFormat is the zero value, returned alongside ErrInvalidFormat
	UndefinedFormat OutputFormat = iota
	// TextFormat prints one line per item followed by indented optionals
	TextFormat
	// JSONFormat prints an indented {"items": [...]} document
	JSONFormat
)

// ParseOutputFormat converts a string to an OutputFormat
func ParseOutputFormat(format string) (OutputFormat, error) {
	switch format {
	case "text":
		return TextFormat, nil
	case "json":
		return JSONFormat, nil
	default:
		return UndefinedFormat, ErrInvalidFormat
	}
}

// String returns the string representation of an OutputFormat
func (f OutputFormat) String() string {
	switch f {
	case TextFormat:
		return "text"
	case JSONFormat:
		return "json"
	default:
		return "undefined"
	}
}
