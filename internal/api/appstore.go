package api

import (
	"net/http"

	"github.com/hashicorp-forge/quill/internal/server"
	"github.com/hashicorp-forge/quill/pkg/appstore"
	"github.com/hashicorp-forge/quill/pkg/token"
)

// appStoreEnvelope is the response shape of the app-store endpoint.
type appStoreEnvelope struct {
	Status int              `json:"status"`
	Apps   appstore.Mapping `json:"apps"`
	Stax   appstore.Mapping `json:"stax"`
}

// AppStoreHandler returns the aggregated apps and stax catalogues.
//
// Route: GET|PUT /api/v1/app-store/{token}
//
// Only the token check can fail this operation; failure is a bare 403.
// Individual provider failures are logged and never fail the response.
func AppStoreHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := srv.Logger

		forbidden := func(logMsg string) {
			log.Warn(logMsg,
				"method", r.Method,
				"path", r.URL.Path,
			)
			w.WriteHeader(http.StatusForbidden)
		}

		if r.Method != http.MethodGet && r.Method != http.MethodPut {
			forbidden("app store with wrong verb")
			return
		}

		segments, err := parsePathSegments(r.URL.Path, "/api/v1/app-store/", 1)
		if err != nil {
			forbidden("app store with malformed path")
			return
		}

		actor, ok := srv.Actors.Resolve(r)
		if !ok {
			forbidden("app store without actor")
			return
		}
		if !srv.Tokens.Validate(segments[0], token.ScopeAppStore, actor.Session) {
			forbidden("app store with invalid action token")
			return
		}

		catalog, report := srv.AppStore.Aggregate(r.Context())
		if report != nil {
			// Partial failure is reported, not fatal.
			log.Warn("app store aggregation had provider failures", "error", report)
		}

		respondJSON(w, log, http.StatusOK, appStoreEnvelope{
			Status: http.StatusOK,
			Apps:   catalog.Apps,
			Stax:   catalog.Stax,
		})
	})
}
