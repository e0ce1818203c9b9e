// Package base carries the pieces shared by every CLI command.
package base

import (
	"bytes"
	"flag"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
)

// Command is embedded in all commands to provide common logic and data.
type Command struct {
	// UI is used to communicate with the user.
	UI cli.Ui

	// Log is the logger to use.
	Log hclog.Logger
}

// NewCommand returns a new Command.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		UI:  ui,
		Log: log,
	}
}

// FlagSet wraps a standard flag set so commands can render their flags
// into help text.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet creates a new flag set.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	return &FlagSet{FlagSet: f}
}

// Help returns the formatted flag usage block, prefixed with a blank
// line so it appends cleanly to a command's Help output.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	buf.WriteString("\n\nFlags:\n\n")
	f.SetOutput(&buf)
	f.PrintDefaults()
	return buf.String()
}
