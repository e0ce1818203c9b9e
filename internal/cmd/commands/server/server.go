package server

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/afero"

	"github.com/hashicorp-forge/quill/internal/api"
	"github.com/hashicorp-forge/quill/internal/cmd/base"
	"github.com/hashicorp-forge/quill/internal/config"
	"github.com/hashicorp-forge/quill/internal/db"
	"github.com/hashicorp-forge/quill/internal/server"
	"github.com/hashicorp-forge/quill/pkg/access"
	"github.com/hashicorp-forge/quill/pkg/appstore"
	"github.com/hashicorp-forge/quill/pkg/document"
	"github.com/hashicorp-forge/quill/pkg/models"
	"github.com/hashicorp-forge/quill/pkg/storage"
	"github.com/hashicorp-forge/quill/pkg/token"
)

type Command struct {
	*base.Command

	flagConfig string
}

func (c *Command) Synopsis() string {
	return "Run the server"
}

func (c *Command) Help() string {
	return `Usage: quill server

  This command runs the editor API server.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("server", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to config file",
	)

	return f
}

func (c *Command) Run(args []string) int {
	log, ui := c.Log, c.UI

	// Parse flags.
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	// Validate flags.
	if c.flagConfig == "" {
		ui.Error("config flag is required")
		return 1
	}

	// Parse configuration.
	cfg, err := config.NewConfig(c.flagConfig)
	if err != nil {
		ui.Error(fmt.Sprintf("error parsing config file: %v", err))
		return 1
	}

	// Initialize database.
	database, err := db.NewDB(cfg.Database, log)
	if err != nil {
		ui.Error(fmt.Sprintf("error initializing database: %v", err))
		return 1
	}

	// Action token signer.
	signer, err := token.NewSigner(cfg.TokenSecret, cfg.TokenLifetime())
	if err != nil {
		ui.Error(fmt.Sprintf("error initializing token signer: %v", err))
		return 1
	}

	// The standalone server has no host permission system to defer to, so
	// any actor the resolver accepts may edit. Embedding hosts swap in
	// their own checkers here.
	gate := access.NewGate(access.AllowAll{}, access.AllowAll{})

	// Storage backends. The public backend is served back out under
	// /files/.
	public := storage.NewFileBackend(
		storage.DefaultBackend, cfg.Storage.PublicDir, cfg.BaseURL+"/files")
	backends := storage.NewBackends(
		public,
		storage.NewFileBackend("private", cfg.Storage.PrivateDir, ""),
	)
	if cfg.Storage.S3 != nil {
		s3b, err := storage.NewS3Backend(cfg.Storage.S3, log)
		if err != nil {
			ui.Error(fmt.Sprintf("error initializing s3 backend: %v", err))
			return 1
		}
		backends.Register(s3b)
	}

	// App store providers. The built-in catalogue contributes the services
	// configured with API keys; further providers register here.
	registry := appstore.NewRegistry(log)
	registry.RegisterAppProvider(appstore.BaseAppsProvider(cfg.Editor.AppKeys))

	srv := server.Server{
		Config:    cfg,
		Logger:    log,
		DB:        database,
		Tokens:    signer,
		Documents: document.NewPatchService(&models.DocumentStore{DB: database}, gate, signer, log),
		Assets: storage.NewIngestService(
			backends, &models.AssetRecorder{DB: database}, gate, signer, log),
		AppStore: registry,
		Actors:   server.NewHeaderActorResolver(),
	}

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, srv)

	// Serve public assets straight off the public backend.
	mux.Handle("/files/", http.StripPrefix("/files/",
		http.FileServer(afero.NewHttpFs(public.Fs()))))

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("server listening",
		"addr", cfg.ListenAddr,
		"base_url", cfg.BaseURL,
	)
	if err := httpServer.ListenAndServe(); err != nil {
		ui.Error(fmt.Sprintf("error running server: %v", err))
		return 1
	}

	return 0
}
