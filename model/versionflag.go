package model

import (
	"fmt"

	"github.com/alecthomas/kong"
)

// VersionFlag prints the "version" variable and exits when set.
type VersionFlag string

// Decode implements the kong.MapperValue interface.
func (v VersionFlag) Decode(_ *kong.DecodeContext) error { return nil }

// IsBool implements the kong.BoolMapper interface.
func (v VersionFlag) IsBool() bool { return true }

// BeforeApply prints the version to the application's stdout before any command runs.
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Fprintln(app.Stdout, vars["version"])
	app.Exit(0)
	return nil
}
