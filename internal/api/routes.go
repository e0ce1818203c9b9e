package api

import (
	"net/http"

	"github.com/hashicorp-forge/quill/internal/server"
)

// RegisterRoutes attaches all editor API handlers to mux.
func RegisterRoutes(mux *http.ServeMux, srv server.Server) {
	mux.Handle("/api/v1/documents/", DocumentSaveHandler(srv))
	mux.Handle("/api/v1/files/", FileSaveHandler(srv))
	mux.Handle("/api/v1/app-store/", AppStoreHandler(srv))
	mux.Handle("/api/v1/connection", ConnectionHandler(srv))
}
