package api

import (
	"io"
	"net/http"

	"github.com/hashicorp-forge/quill/internal/server"
	"github.com/hashicorp-forge/quill/pkg/document"
)

// maxBodyBytes caps the size of a submitted document body.
const maxBodyBytes = 16 << 20

// documentEnvelope is the uniform response shape of the save endpoint.
// Data is always present, null on failure.
type documentEnvelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// DocumentSaveHandler replaces the body of one content document.
//
// Route: PUT /api/v1/documents/{document_id}/body/{token}
//
// The raw request body is the new body value. The wrong verb, a bad
// token, and a failed access check all collapse to the same 403 response
// so callers learn nothing about which check failed. Host storage
// failures surface distinctly as 404/500.
func DocumentSaveHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := srv.Logger

		unauthorized := func(logMsg string) {
			log.Warn(logMsg,
				"method", r.Method,
				"path", r.URL.Path,
			)
			respondJSON(w, log, http.StatusForbidden, documentEnvelope{
				Status:  http.StatusForbidden,
				Message: "Unauthorized",
				Data:    nil,
			})
		}

		segments, err := parsePathSegments(r.URL.Path, "/api/v1/documents/", 3)
		if err != nil || segments[1] != "body" {
			unauthorized("document save with malformed path")
			return
		}
		docID, tok := segments[0], segments[2]

		if r.Method != http.MethodPut {
			unauthorized("document save with wrong verb")
			return
		}

		actor, ok := srv.Actors.Resolve(r)
		if !ok {
			unauthorized("document save without actor")
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			log.Error("error reading request body",
				"method", r.Method,
				"path", r.URL.Path,
				"error", err,
			)
			respondJSON(w, log, http.StatusBadRequest, documentEnvelope{
				Status:  http.StatusBadRequest,
				Message: "Invalid request body",
				Data:    nil,
			})
			return
		}

		res := srv.Documents.Patch(r.Context(), actor, docID, body, tok)
		switch res.Outcome {
		case document.PatchSaved:
			respondJSON(w, log, http.StatusOK, documentEnvelope{
				Status:  http.StatusOK,
				Message: "Save successful",
				Data:    res.Document,
			})
		case document.PatchNotFound:
			respondJSON(w, log, http.StatusNotFound, documentEnvelope{
				Status:  http.StatusNotFound,
				Message: "Document not found",
				Data:    nil,
			})
		case document.PatchStorageFailed:
			respondJSON(w, log, http.StatusInternalServerError, documentEnvelope{
				Status:  http.StatusInternalServerError,
				Message: "Save failed",
				Data:    nil,
			})
		default:
			unauthorized("document save rejected")
		}
	})
}
