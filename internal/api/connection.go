package api

import (
	"net/http"
	"strings"

	"github.com/hashicorp-forge/quill/internal/server"
	"github.com/hashicorp-forge/quill/pkg/token"
)

// ConnectionResponse is the bootstrap descriptor the editor fetches
// before it opens: the mutation endpoints with freshly minted action
// tokens for the caller's session, plus the editor display settings.
type ConnectionResponse struct {
	Status int `json:"status"`

	// DocumentSaveEndpoint contains a "{id}" placeholder the editor
	// substitutes with the document being edited.
	DocumentSaveEndpoint string `json:"documentSaveEndpoint"`
	FileSaveEndpoint     string `json:"fileSaveEndpoint"`
	AppStoreEndpoint     string `json:"appStoreEndpoint"`

	AutoloadElements []string `json:"autoloadElements"`
	OffsetLeft       int      `json:"offsetLeft"`
}

// ConnectionHandler mints session-bound tokens and describes where the
// editor should send each operation.
//
// Route: GET /api/v1/connection
func ConnectionHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := srv.Logger

		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		actor, ok := srv.Actors.Resolve(r)
		if !ok {
			log.Warn("connection request without actor", "path", r.URL.Path)
			w.WriteHeader(http.StatusForbidden)
			return
		}

		base := strings.TrimSuffix(srv.Config.BaseURL, "/")
		mint := func(scope string) (string, bool) {
			tok, err := srv.Tokens.Mint(scope, actor.Session)
			if err != nil {
				log.Error("error minting action token",
					"scope", scope,
					"error", err,
				)
				return "", false
			}
			return tok, true
		}

		saveTok, ok1 := mint(token.ScopeDocumentSave)
		fileTok, ok2 := mint(token.ScopeFileSave)
		storeTok, ok3 := mint(token.ScopeAppStore)
		if !ok1 || !ok2 || !ok3 {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		respondJSON(w, log, http.StatusOK, ConnectionResponse{
			Status:               http.StatusOK,
			DocumentSaveEndpoint: base + "/api/v1/documents/{id}/body/" + saveTok,
			FileSaveEndpoint:     base + "/api/v1/files/" + fileTok,
			AppStoreEndpoint:     base + "/api/v1/app-store/" + storeTok,
			AutoloadElements:     srv.Config.Editor.AutoloadElements,
			OffsetLeft:           srv.Config.Editor.OffsetLeft,
		})
	})
}
