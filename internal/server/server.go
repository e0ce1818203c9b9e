package server

import (
	"net/http"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/quill/internal/config"
	"github.com/hashicorp-forge/quill/pkg/access"
	"github.com/hashicorp-forge/quill/pkg/appstore"
	"github.com/hashicorp-forge/quill/pkg/document"
	"github.com/hashicorp-forge/quill/pkg/storage"
	"github.com/hashicorp-forge/quill/pkg/token"
)

// Server contains the server configuration and the wired services the
// API handlers use. Everything is passed in explicitly; handlers never
// reach into ambient global state.
type Server struct {
	// Config is the config for the server.
	Config *config.Config

	// Logger is the logger for the server.
	Logger hclog.Logger

	// DB is the database for the server.
	DB *gorm.DB

	// Tokens mints and validates action tokens.
	Tokens *token.Signer

	// Documents applies editor saves to content documents.
	Documents *document.PatchService

	// Assets ingests uploaded files to the storage backends.
	Assets *storage.IngestService

	// AppStore aggregates app and stax contributions from providers.
	AppStore *appstore.Registry

	// Actors resolves the acting user and session from a request. The
	// host platform substitutes its own session mechanism here.
	Actors ActorResolver
}

// ActorResolver extracts the actor behind a request.
type ActorResolver interface {
	Resolve(r *http.Request) (access.Actor, bool)
}

// HeaderActorResolver reads the actor and session from request headers.
// It is the standalone-server default; deployments embedding the API in
// a host platform replace it with the host's session lookup.
type HeaderActorResolver struct {
	ActorHeader   string
	SessionHeader string
}

func NewHeaderActorResolver() *HeaderActorResolver {
	return &HeaderActorResolver{
		ActorHeader:   "X-Quill-Actor",
		SessionHeader: "X-Quill-Session",
	}
}

func (h *HeaderActorResolver) Resolve(r *http.Request) (access.Actor, bool) {
	actor := access.Actor{
		ID:      r.Header.Get(h.ActorHeader),
		Session: r.Header.Get(h.SessionHeader),
	}
	if actor.ID == "" || actor.Session == "" {
		return access.Actor{}, false
	}
	return actor, true
}
