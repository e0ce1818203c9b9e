// Package token implements the CLI command for minting action tokens,
// mainly for exercising the API with curl during development.
package token

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/quill/internal/cmd/base"
	"github.com/hashicorp-forge/quill/internal/config"
	"github.com/hashicorp-forge/quill/pkg/token"
)

type Command struct {
	*base.Command

	flagConfig  string
	flagScope   string
	flagSession string
}

func (c *Command) Synopsis() string {
	return "Mint an action token"
}

func (c *Command) Help() string {
	return `Usage: quill token -config=config.hcl -scope=document-save -session=s1

  This command mints an action token for one operation and session, for
  driving the API by hand.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("token", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to config file",
	)
	f.StringVar(
		&c.flagScope, "scope", "",
		"(Required) Operation scope: document-save, file-save or app-store.",
	)
	f.StringVar(
		&c.flagSession, "session", "",
		"(Required) Session identifier the token is bound to.",
	)

	return f
}

// scopes maps the flag values to token scopes.
var scopes = map[string]string{
	"document-save": token.ScopeDocumentSave,
	"file-save":     token.ScopeFileSave,
	"app-store":     token.ScopeAppStore,
}

func (c *Command) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if c.flagConfig == "" {
		ui.Error("config flag is required")
		return 1
	}
	scope, ok := scopes[c.flagScope]
	if !ok {
		ui.Error("scope must be one of: document-save, file-save, app-store")
		return 1
	}
	if c.flagSession == "" {
		ui.Error("session flag is required")
		return 1
	}

	cfg, err := config.NewConfig(c.flagConfig)
	if err != nil {
		ui.Error(fmt.Sprintf("error parsing config file: %v", err))
		return 1
	}

	signer, err := token.NewSigner(cfg.TokenSecret, cfg.TokenLifetime())
	if err != nil {
		ui.Error(fmt.Sprintf("error initializing token signer: %v", err))
		return 1
	}

	tok, err := signer.Mint(scope, c.flagSession)
	if err != nil {
		ui.Error(fmt.Sprintf("error minting token: %v", err))
		return 1
	}

	ui.Output(tok)
	return 0
}
