package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/quill/internal/cmd/base"
	"github.com/hashicorp-forge/quill/internal/cmd/commands/server"
	"github.com/hashicorp-forge/quill/internal/cmd/commands/token"
	"github.com/hashicorp-forge/quill/internal/cmd/commands/version"
)

// Commands is the mapping of all available commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	baseCommand := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"server": func() (cli.Command, error) {
			return &server.Command{Command: baseCommand}, nil
		},
		"token": func() (cli.Command, error) {
			return &token.Command{Command: baseCommand}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: baseCommand}, nil
		},
	}
}
